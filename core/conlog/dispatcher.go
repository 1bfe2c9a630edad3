package conlog

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// LineListener receives the outcome of parsing each console line.
type LineListener interface {
	// OnLineParsed is invoked with the typed record for a recognized line.
	OnLineParsed(line Line)
	// OnLineUnparsed is invoked with the raw text of an unrecognized line.
	OnLineUnparsed(text string)
}

// Dispatcher is the line ingestion pipeline: it splits raw console output
// into lines, runs the parser, and routes each result to all registered
// listeners.
//
// Dispatcher is not safe for concurrent use; it is driven by the same owner
// thread that drives the world model.
type Dispatcher struct {
	parse     ParseFunc
	clock     func() time.Time
	listeners []LineListener
	logger    *zap.Logger
}

// NewDispatcher creates a dispatcher using the given parser and logical
// clock. The clock supplies the timestamp handed to the parser for each
// line; the world model keeps it in step with the log stream.
func NewDispatcher(parse ParseFunc, clock func() time.Time, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		parse:  parse,
		clock:  clock,
		logger: logger.Named("conlog"),
	}
}

// AddListener registers a listener. Registering during a dispatch takes
// effect on the next dispatch.
func (d *Dispatcher) AddListener(l LineListener) {
	for _, existing := range d.listeners {
		if existing == l {
			return
		}
	}
	d.listeners = append(d.listeners, l)
}

// RemoveListener removes a previously registered listener. Removal during a
// dispatch takes effect on the next dispatch.
func (d *Dispatcher) RemoveListener(l LineListener) {
	for i, existing := range d.listeners {
		if existing == l {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			return
		}
	}
}

// AddChunk feeds a chunk of raw console output. Only complete lines (those
// terminated by a line feed within the chunk) are processed; chunks are not
// reassembled across calls, so callers should feed whole lines.
func (d *Dispatcher) AddChunk(chunk string) {
	for {
		i := strings.IndexByte(chunk, '\n')
		if i < 0 {
			return
		}
		d.AddLine(strings.TrimSuffix(chunk[:i], "\r"))
		chunk = chunk[i+1:]
	}
}

// AddLine parses a single console line and notifies all listeners.
func (d *Dispatcher) AddLine(text string) {
	parsed := d.parse(text, d.clock())

	// Snapshot so listeners can (de)register from inside a callback.
	listeners := make([]LineListener, len(d.listeners))
	copy(listeners, d.listeners)

	if parsed != nil {
		for _, l := range listeners {
			l.OnLineParsed(parsed)
		}
		return
	}

	for _, l := range listeners {
		l.OnLineUnparsed(text)
	}
}
