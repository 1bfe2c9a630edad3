// Package world maintains the live model of the current game session: who
// is in the lobby, on which team, doing what. It consumes typed console
// line records, reconciles them into a per-session player table under
// explicit ordering and idempotence rules, republishes higher-level world
// events to registered listeners, and opportunistically enriches players
// with Steam Web API data through batched, non-blocking update queues.
//
// # Ownership
//
// A World is driven by a single owner goroutine: all console ingestion and
// every Update tick must come from that one goroutine, and there is no
// internal locking. Steam API requests run on their own goroutines and are
// only ever consumed through non-blocking polls, so no call on World stalls
// the owner.
//
// # Session lifecycle
//
// The model is memory only. A fresh lobby (or a lobby status failure while
// members are known) wipes the player table and both lobby slot sequences;
// nothing survives a reset except the enrichment queues' pending sets,
// whose stale completions are an accepted quirk of the design.
package world
