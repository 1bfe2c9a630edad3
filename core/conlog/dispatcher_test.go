package conlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingListener collects everything routed to it.
type recordingListener struct {
	parsed   []Line
	unparsed []string
	onParsed func()
}

func (l *recordingListener) OnLineParsed(line Line) {
	l.parsed = append(l.parsed, line)
	if l.onParsed != nil {
		l.onParsed()
	}
}

func (l *recordingListener) OnLineUnparsed(text string) {
	l.unparsed = append(l.unparsed, text)
}

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

// passthroughParse parses any line starting with "ok" and rejects the rest.
func passthroughParse(text string, now time.Time) Line {
	if len(text) >= 2 && text[:2] == "ok" {
		return HostNewGameLine{LineBase: LineBase{TS: now}}
	}
	return nil
}

func TestDispatcher_ChunkSplitting(t *testing.T) {
	d := NewDispatcher(passthroughParse, fixedClock, zap.NewNop())
	listener := &recordingListener{}
	d.AddListener(listener)

	d.AddChunk("ok one\nnope\nok two\npartial tail without newline")

	assert.Len(t, listener.parsed, 2)
	require.Len(t, listener.unparsed, 1)
	assert.Equal(t, "nope", listener.unparsed[0])
}

func TestDispatcher_CarriageReturns(t *testing.T) {
	d := NewDispatcher(passthroughParse, fixedClock, zap.NewNop())
	listener := &recordingListener{}
	d.AddListener(listener)

	d.AddChunk("ok one\r\nok two\r\n")

	assert.Len(t, listener.parsed, 2)
	assert.Empty(t, listener.unparsed)
}

func TestDispatcher_TimestampFromClock(t *testing.T) {
	d := NewDispatcher(passthroughParse, fixedClock, zap.NewNop())
	listener := &recordingListener{}
	d.AddListener(listener)

	d.AddChunk("ok one\n")

	require.Len(t, listener.parsed, 1)
	assert.Equal(t, fixedClock(), listener.parsed[0].Timestamp())
}

func TestDispatcher_AddRemoveListener(t *testing.T) {
	d := NewDispatcher(passthroughParse, fixedClock, zap.NewNop())
	a := &recordingListener{}
	b := &recordingListener{}

	d.AddListener(a)
	d.AddListener(a) // duplicate registration is a no-op
	d.AddListener(b)
	d.AddChunk("ok one\n")

	d.RemoveListener(a)
	d.AddChunk("ok two\n")

	assert.Len(t, a.parsed, 1)
	assert.Len(t, b.parsed, 2)
}

func TestDispatcher_RegistrationDuringDispatch(t *testing.T) {
	d := NewDispatcher(passthroughParse, fixedClock, zap.NewNop())

	late := &recordingListener{}
	first := &recordingListener{}
	first.onParsed = func() {
		d.AddListener(late)
	}
	d.AddListener(first)

	// The listener added mid-dispatch must not see the line that triggered
	// its registration.
	d.AddChunk("ok one\n")
	assert.Empty(t, late.parsed)

	d.AddChunk("ok two\n")
	assert.Len(t, late.parsed, 1)
}
