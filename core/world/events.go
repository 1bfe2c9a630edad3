package world

import (
	"github.com/ziggythehamster/tf2-bot-detector/core/tf"
)

// EventListener receives the semantic world events derived from parsed
// console lines. These are higher-level than raw line notifications: a
// chat event only fires once the speaker resolved to a known player.
type EventListener interface {
	// OnLocalPlayerSpawned fires when the local player spawns as a class.
	OnLocalPlayerSpawned(w *World, class tf.ClassType)
	// OnLocalPlayerInitialized fires when the local player session flips
	// between initialized and uninitialized.
	OnLocalPlayerInitialized(w *World, initialized bool)
	// OnChat fires for a chat message from a resolved player.
	OnChat(w *World, player *Player, message string)
	// OnPlayerDropped fires when a resolved player leaves the server.
	OnPlayerDropped(w *World, player *Player, reason string)
	// OnPlayerStatusUpdate fires after a full status row is applied.
	OnPlayerStatusUpdate(w *World, player *Player)
}

// NopEventListener implements EventListener with no-ops, for embedding by
// listeners that only care about a subset of events.
type NopEventListener struct{}

func (NopEventListener) OnLocalPlayerSpawned(*World, tf.ClassType) {}
func (NopEventListener) OnLocalPlayerInitialized(*World, bool)     {}
func (NopEventListener) OnChat(*World, *Player, string)            {}
func (NopEventListener) OnPlayerDropped(*World, *Player, string)   {}
func (NopEventListener) OnPlayerStatusUpdate(*World, *Player)      {}

// AddEventListener registers a world event listener. Registering during a
// dispatch takes effect on the next event.
func (w *World) AddEventListener(l EventListener) {
	for _, existing := range w.eventListeners {
		if existing == l {
			return
		}
	}
	w.eventListeners = append(w.eventListeners, l)
}

// RemoveEventListener removes a previously registered listener.
func (w *World) RemoveEventListener(l EventListener) {
	for i, existing := range w.eventListeners {
		if existing == l {
			w.eventListeners = append(w.eventListeners[:i], w.eventListeners[i+1:]...)
			return
		}
	}
}

// invokeEventListeners dispatches over a snapshot so listeners can
// (de)register from inside a callback without affecting this dispatch.
func (w *World) invokeEventListeners(fn func(l EventListener)) {
	listeners := make([]EventListener, len(w.eventListeners))
	copy(listeners, w.eventListeners)
	for _, l := range listeners {
		fn(l)
	}
}
