package world

import (
	"fmt"
	"strings"
	"time"

	"github.com/leighmacdonald/steamid/v4/steamid"

	"github.com/ziggythehamster/tf2-bot-detector/core/conlog"
	"github.com/ziggythehamster/tf2-bot-detector/core/steamapi"
	"github.com/ziggythehamster/tf2-bot-detector/core/tf"
)

// Scores are the per-session kill and death counters for one player.
// LocalKills and LocalDeaths count only engagements involving the local
// player (kills against them, deaths caused by them).
type Scores struct {
	Kills       int
	Deaths      int
	LocalKills  int
	LocalDeaths int
}

// Player is the durable per-session record for one account. Records are
// created lazily the first time an account is referenced and only removed
// on a full session reset.
//
// The enrichment accessors (Summary, Bans, Playtime) are lazy: reading an
// empty slot enqueues the account on the corresponding update queue and
// reports the data as not yet available; callers re-query on a later tick.
type Player struct {
	steamID  steamid.SteamID
	status   conlog.PlayerStatus
	nameSafe string
	team     tf.Team

	lastStatusUpdate time.Time
	lastPingUpdate   time.Time
	activeBegin      time.Time

	Scores Scores

	summary  *steamapi.PlayerSummary
	bans     *steamapi.PlayerBans
	playtime *steamapi.Playtime

	// enrich is the handle through which empty slots queue themselves;
	// isFriend consults the world's friends snapshot. Both are injected at
	// creation to avoid a record-to-store back-pointer.
	enrich   *enrichment
	isFriend func(steamid.SteamID) bool

	userData map[string]any
}

func newPlayer(id steamid.SteamID, enrich *enrichment, isFriend func(steamid.SteamID) bool) *Player {
	p := &Player{
		steamID:  id,
		enrich:   enrich,
		isFriend: isFriend,
	}
	p.status.SteamID = id
	return p
}

// SteamID returns the immutable identifier this record is keyed by.
func (p *Player) SteamID() steamid.SteamID { return p.steamID }

// Status returns the most recent full status snapshot.
func (p *Player) Status() conlog.PlayerStatus { return p.status }

// Name returns the player's display name as last reported.
func (p *Player) Name() string { return p.status.Name }

// NameSafe returns the display name with newlines collapsed, safe for
// single-line output.
func (p *Player) NameSafe() string { return p.nameSafe }

// Team returns the in-game team derived from the player's lobby slot.
func (p *Player) Team() tf.Team { return p.team }

// UserID returns the server-assigned user id, if one has been seen.
func (p *Player) UserID() (int, bool) {
	if p.status.UserID > 0 {
		return p.status.UserID, true
	}
	return 0, false
}

// ClientIndex returns the client entity index, zero when unknown.
func (p *Player) ClientIndex() int { return p.status.ClientIndex }

// LastStatusUpdate returns the timestamp of the last applied status row.
func (p *Player) LastStatusUpdate() time.Time { return p.lastStatusUpdate }

// LastPingUpdate returns the timestamp of the last ping observation.
func (p *Player) LastPingUpdate() time.Time { return p.lastPingUpdate }

// ConnectedDuration returns how long the player has been connected as of
// the given time, never negative.
func (p *Player) ConnectedDuration(now time.Time) time.Duration {
	d := now.Sub(p.lastStatusUpdate.Add(-p.status.ConnectionTime))
	if d < 0 {
		return 0
	}
	return d
}

// ActiveDuration returns how long the player has been in the active state,
// or zero whenever the current state is not active.
func (p *Player) ActiveDuration() time.Duration {
	if p.status.State != conlog.StateActive {
		return 0
	}
	return p.lastStatusUpdate.Sub(p.activeBegin)
}

// setStatus applies a full status snapshot. A transition into the active
// state starts a new active interval.
func (p *Player) setStatus(status conlog.PlayerStatus, timestamp time.Time) {
	if status.SteamID != p.steamID {
		panic(fmt.Sprintf("world: status for %s applied to player %s",
			status.SteamID.String(), p.steamID.String()))
	}

	if p.status.State != conlog.StateActive && status.State == conlog.StateActive {
		p.activeBegin = timestamp
	}

	p.status = status
	p.nameSafe = collapseNewlines(status.Name)
	p.lastStatusUpdate = timestamp
	p.lastPingUpdate = timestamp
}

// setPing updates only the ping reading, leaving the rest of the status
// snapshot untouched.
func (p *Player) setPing(ping int, timestamp time.Time) {
	p.status.Ping = ping
	p.lastPingUpdate = timestamp
}

// Summary returns the account's profile summary, queueing a fetch if it
// has not arrived yet.
func (p *Player) Summary() (steamapi.PlayerSummary, bool) {
	if p.summary != nil {
		return *p.summary, true
	}
	p.enrich.summaries.enqueue(p.steamID)
	return steamapi.PlayerSummary{}, false
}

// Bans returns the account's ban record, queueing a fetch if it has not
// arrived yet.
func (p *Player) Bans() (steamapi.PlayerBans, bool) {
	if p.bans != nil {
		return *p.bans, true
	}
	p.enrich.bans.enqueue(p.steamID)
	return steamapi.PlayerBans{}, false
}

// Playtime returns the account's TF2 playtime, queueing a fetch if it has
// not arrived yet.
func (p *Player) Playtime() (steamapi.Playtime, bool) {
	if p.playtime != nil {
		return *p.playtime, true
	}
	p.enrich.playtime.enqueue(p.steamID)
	return steamapi.Playtime{}, false
}

// IsFriend reports whether this account is on the local player's friends
// list, per the latest successfully fetched snapshot.
func (p *Player) IsFriend() bool { return p.isFriend(p.steamID) }

// SetData attaches feature-specific data to this player under a caller
// chosen key. The record stores it opaquely; recover it with GetData.
func (p *Player) SetData(key string, value any) {
	if p.userData == nil {
		p.userData = make(map[string]any)
	}
	p.userData[key] = value
}

// GetData recovers typed feature data previously attached with SetData.
// It reports false when the key is absent or holds a different type.
func GetData[T any](p *Player, key string) (T, bool) {
	var zero T
	raw, ok := p.userData[key]
	if !ok {
		return zero, false
	}
	value, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return value, true
}

func collapseNewlines(name string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(name)
}
