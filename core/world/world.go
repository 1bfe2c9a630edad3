package world

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/leighmacdonald/steamid/v4/steamid"
	"go.uber.org/zap"

	"github.com/ziggythehamster/tf2-bot-detector/core/conlog"
	"github.com/ziggythehamster/tf2-bot-detector/core/steamapi"
)

// defaultFriendsInterval is the minimum wall-clock spacing between friends
// list refreshes.
const defaultFriendsInterval = 5 * time.Minute

// World is the session model store and reconciliation engine. See the
// package documentation for the ownership rules.
type World struct {
	logger  *zap.Logger
	localID steamid.SteamID
	client  *steamapi.Client

	sessionID   uuid.UUID
	currentTime time.Time

	players        map[steamid.SteamID]*Player
	lobbyMembers   []LobbySlot
	pendingMembers []LobbySlot

	voteInProgress   bool
	localPlayerReady bool
	lastStatusUpdate time.Time

	friends           steamapi.FriendSet
	friendsFuture     *steamapi.Future[steamapi.FriendSet]
	lastFriendsUpdate time.Time
	friendsInterval   time.Duration

	enrich   *enrichment
	lazyLoad bool

	dispatcher     *conlog.Dispatcher
	eventListeners []EventListener
}

// Option customizes a World.
type Option func(*World)

// WithParser substitutes the console line tokenizer.
func WithParser(parse conlog.ParseFunc) Option {
	return func(w *World) {
		w.dispatcher = conlog.NewDispatcher(parse, w.CurrentTime, w.logger)
	}
}

// WithFriendsInterval overrides the minimum friends refresh spacing.
func WithFriendsInterval(interval time.Duration) Option {
	return func(w *World) { w.friendsInterval = interval }
}

// WithEagerEnrichment makes newly created player records queue all their
// enrichment fetches immediately instead of waiting for the first read.
func WithEagerEnrichment() Option {
	return func(w *World) { w.lazyLoad = false }
}

// New creates a world for one monitored game session. The client may be
// nil or unconfigured, in which case enrichment stays dormant and every
// slot simply reads as not yet available.
func New(localID steamid.SteamID, client *steamapi.Client, logger *zap.Logger, opts ...Option) *World {
	w := &World{
		logger:          logger.Named("world"),
		localID:         localID,
		client:          client,
		sessionID:       uuid.New(),
		currentTime:     time.Now(),
		players:         make(map[steamid.SteamID]*Player),
		friendsInterval: defaultFriendsInterval,
		lazyLoad:        true,
	}

	w.enrich = &enrichment{
		summaries: newUpdateQueue("summaries", w.logger, w.apiReady,
			func(ids []steamid.SteamID) *steamapi.Future[[]steamapi.PlayerSummary] {
				return w.client.PlayerSummaries(ids)
			},
			func(v steamapi.PlayerSummary) steamid.SteamID { return v.SteamID },
			func(w *World, v steamapi.PlayerSummary) {
				w.findOrCreatePlayer(v.SteamID).summary = &v
			}),
		bans: newUpdateQueue("bans", w.logger, w.apiReady,
			func(ids []steamid.SteamID) *steamapi.Future[[]steamapi.PlayerBans] {
				return w.client.PlayerBans(ids)
			},
			func(v steamapi.PlayerBans) steamid.SteamID { return v.SteamID },
			func(w *World, v steamapi.PlayerBans) {
				w.findOrCreatePlayer(v.SteamID).bans = &v
			}),
		playtime: newUpdateQueue("playtime", w.logger, w.apiReady,
			func(ids []steamid.SteamID) *steamapi.Future[[]steamapi.Playtime] {
				return w.client.Playtimes(ids)
			},
			func(v steamapi.Playtime) steamid.SteamID { return v.SteamID },
			func(w *World, v steamapi.Playtime) {
				w.findOrCreatePlayer(v.SteamID).playtime = &v
			}),
	}

	w.dispatcher = conlog.NewDispatcher(conlog.Parse, w.CurrentTime, w.logger)

	for _, opt := range opts {
		opt(w)
	}

	w.dispatcher.AddListener(w)
	return w
}

// SessionID identifies the current game session in logs; it rotates on
// every full session reset.
func (w *World) SessionID() uuid.UUID { return w.sessionID }

// LocalSteamID returns the account the world considers "me".
func (w *World) LocalSteamID() steamid.SteamID { return w.localID }

// CurrentTime returns the session's current logical timestamp.
func (w *World) CurrentTime() time.Time { return w.currentTime }

// SetCurrentTime advances the session's logical timestamp. The embedder
// calls this as it learns time from the log stream (or wall clock).
func (w *World) SetCurrentTime(t time.Time) { w.currentTime = t }

// IsVoteInProgress reports whether a vote is currently running.
func (w *World) IsVoteInProgress() bool { return w.voteInProgress }

// IsLocalPlayerInitialized reports whether the local player has spawned
// into the current game.
func (w *World) IsLocalPlayerInitialized() bool { return w.localPlayerReady }

// LastStatusUpdate returns the latest status row timestamp seen session
// wide.
func (w *World) LastStatusUpdate() time.Time { return w.lastStatusUpdate }

// AddConsoleOutputChunk feeds a chunk of raw console output through the
// ingestion pipeline.
func (w *World) AddConsoleOutputChunk(chunk string) { w.dispatcher.AddChunk(chunk) }

// AddConsoleOutputLine feeds a single console line through the ingestion
// pipeline.
func (w *World) AddConsoleOutputLine(text string) { w.dispatcher.AddLine(text) }

// AddLineListener registers a raw line listener alongside the world's own.
func (w *World) AddLineListener(l conlog.LineListener) { w.dispatcher.AddListener(l) }

// RemoveLineListener removes a raw line listener.
func (w *World) RemoveLineListener(l conlog.LineListener) { w.dispatcher.RemoveListener(l) }

// Update runs one orchestration tick: drains any completed enrichment
// batches, issues the next ones, and refreshes the friends list when due.
// The embedder calls this regularly; nothing here blocks.
func (w *World) Update() {
	w.enrich.summaries.update(w)
	w.enrich.bans.update(w)
	w.enrich.playtime.update(w)
	w.updateFriends()
}

func (w *World) apiReady() bool {
	return w.client != nil && w.client.Configured()
}

// updateFriends refreshes the session-wide friends snapshot, at most once
// per friendsInterval of wall-clock time and with at most one request in
// flight.
func (w *World) updateFriends() {
	if w.friendsFuture == nil &&
		w.apiReady() && w.localID.Valid() &&
		time.Since(w.lastFriendsUpdate) > w.friendsInterval {
		w.lastFriendsUpdate = time.Now()
		w.friendsFuture = w.client.FriendList(w.localID)
	}

	if w.friendsFuture == nil {
		return
	}

	friends, err, ready := w.friendsFuture.Poll()
	if !ready {
		return
	}
	w.friendsFuture = nil

	if err != nil {
		if steamapi.IsStatus(err, http.StatusUnauthorized) {
			// Expected when our own friends list is private.
			w.logger.Debug("friends list not accessible", zap.Error(err))
		} else {
			w.logger.Warn("failed to update friends list", zap.Error(err))
		}
		return
	}

	w.friends = friends
	w.logger.Debug("friends list updated", zap.Int("friends", len(friends)))
}

// IsFriend reports whether the account is on the local player's friends
// list per the latest successful snapshot.
func (w *World) IsFriend(id steamid.SteamID) bool { return w.friends.Contains(id) }
