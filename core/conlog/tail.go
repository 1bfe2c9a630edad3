package conlog

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Tailer follows a console log file and hands appended text to a sink. The
// file does not have to exist when the tailer starts; it is picked up as
// soon as the game creates it. Truncation (the game restarting with the
// same path) rewinds to the start of the file.
type Tailer struct {
	path   string
	logger *zap.Logger
}

// NewTailer creates a tailer for the given console log path.
func NewTailer(path string, logger *zap.Logger) *Tailer {
	return &Tailer{path: path, logger: logger.Named("tail")}
}

// Run follows the file until ctx is cancelled, calling sink once per chunk
// of appended text. Content already present when Run starts is skipped, so
// restarting the monitor does not replay the whole session.
func (t *Tailer) Run(ctx context.Context, sink func(chunk string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the file: the file may not exist yet, and
	// watching the parent also survives remove/recreate cycles.
	if err := watcher.Add(filepath.Dir(t.path)); err != nil {
		return err
	}

	var file *os.File
	var offset int64

	closeFile := func() {
		if file != nil {
			_ = file.Close()
			file = nil
			offset = 0
		}
	}
	defer closeFile()

	if f, err := os.Open(t.path); err == nil {
		file = f
		if end, err := f.Seek(0, io.SeekEnd); err == nil {
			offset = end
		}
		t.logger.Info("following console log",
			zap.String("path", t.path), zap.Int64("offset", offset))
	} else {
		t.logger.Info("waiting for console log", zap.String("path", t.path))
	}

	drain := func() {
		if file == nil {
			f, err := os.Open(t.path)
			if err != nil {
				return
			}
			file = f
			offset = 0
		}

		info, err := file.Stat()
		if err != nil {
			closeFile()
			return
		}
		if info.Size() < offset {
			// Truncated underneath us; start over.
			t.logger.Info("console log truncated, rewinding")
			offset = 0
		}
		if info.Size() == offset {
			return
		}

		if _, err := file.Seek(offset, io.SeekStart); err != nil {
			closeFile()
			return
		}
		buf := make([]byte, info.Size()-offset)
		n, err := io.ReadFull(file, buf)
		offset += int64(n)
		if n > 0 {
			sink(string(buf[:n]))
		}
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			t.logger.Warn("console log read failed", zap.Error(err))
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != t.path {
				continue
			}
			switch {
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				closeFile()
			case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
				drain()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			t.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}
