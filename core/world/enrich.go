package world

import (
	"github.com/leighmacdonald/steamid/v4/steamid"
	"go.uber.org/zap"

	"github.com/ziggythehamster/tf2-bot-detector/core/steamapi"
)

// batchSize caps how many accounts one Steam API batch request may carry.
const batchSize = 100

// updateQueue is the generic batched fetch-and-merge engine behind every
// per-player enrichment kind. Accounts are enqueued when a consumer reads
// an empty slot; each tick the queue polls its in-flight batch and, once
// idle, issues the next one. At most one request is in flight per queue.
type updateQueue[T any] struct {
	name   string
	logger *zap.Logger

	// pending keeps insertion order so a batch takes the oldest accounts
	// first; pendingSet deduplicates repeated enqueues.
	pending    []steamid.SteamID
	pendingSet map[steamid.SteamID]struct{}
	inflight   *steamapi.Future[[]T]

	ready func() bool
	send  func(ids []steamid.SteamID) *steamapi.Future[[]T]
	keyOf func(value T) steamid.SteamID
	merge func(w *World, value T)
}

func newUpdateQueue[T any](
	name string,
	logger *zap.Logger,
	ready func() bool,
	send func(ids []steamid.SteamID) *steamapi.Future[[]T],
	keyOf func(value T) steamid.SteamID,
	merge func(w *World, value T),
) *updateQueue[T] {
	return &updateQueue[T]{
		name:       name,
		logger:     logger.Named(name),
		pendingSet: make(map[steamid.SteamID]struct{}),
		ready:      ready,
		send:       send,
		keyOf:      keyOf,
		merge:      merge,
	}
}

// enqueue marks an account as awaiting data. Re-enqueuing an account that
// is already pending is a no-op.
func (q *updateQueue[T]) enqueue(id steamid.SteamID) {
	if _, ok := q.pendingSet[id]; ok {
		return
	}
	q.pendingSet[id] = struct{}{}
	q.pending = append(q.pending, id)
}

// pendingCount returns how many accounts currently await data.
func (q *updateQueue[T]) pendingCount() int { return len(q.pending) }

// update runs one tick: drain a completed batch, then issue the next one
// if the queue is idle and the API is reachable. Never blocks.
func (q *updateQueue[T]) update(w *World) {
	q.poll(w)
	q.maybeSend()
}

// poll consumes a completed in-flight batch. Each returned entry is merged
// into its (possibly recreated) player record and removed from the pending
// set; entries the API omitted stay pending and retry on a later batch. A
// failed batch is logged and dropped whole, leaving the pending set intact
// so the same accounts are retried from scratch.
//
// Note a batch that completes after a session reset still merges, which
// recreates records for accounts that may no longer be in the lobby. This
// matches the reference behavior and is accepted.
func (q *updateQueue[T]) poll(w *World) {
	if q.inflight == nil {
		return
	}

	values, err, ready := q.inflight.Poll()
	if !ready {
		return
	}
	q.inflight = nil

	if err != nil {
		q.logger.Warn("batch request failed", zap.Error(err))
		return
	}

	q.logger.Debug("batch received", zap.Int("entries", len(values)))
	for _, value := range values {
		q.merge(w, value)
		q.remove(q.keyOf(value))
	}
}

func (q *updateQueue[T]) maybeSend() {
	if q.inflight != nil || len(q.pending) == 0 || !q.ready() {
		return
	}

	// Oldest first; overflow past the cap stays queued for the next cycle.
	count := len(q.pending)
	if count > batchSize {
		count = batchSize
	}
	batch := make([]steamid.SteamID, count)
	copy(batch, q.pending[:count])

	q.logger.Debug("batch sent", zap.Int("ids", count), zap.Int("pending", len(q.pending)))
	q.inflight = q.send(batch)
}

func (q *updateQueue[T]) remove(id steamid.SteamID) {
	if _, ok := q.pendingSet[id]; !ok {
		return
	}
	delete(q.pendingSet, id)
	for i, pending := range q.pending {
		if pending == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// enrichment bundles the three per-player update queues. Player records
// hold this handle instead of a pointer back to the owning world.
type enrichment struct {
	summaries *updateQueue[steamapi.PlayerSummary]
	bans      *updateQueue[steamapi.PlayerBans]
	playtime  *updateQueue[steamapi.Playtime]
}
