package world

import (
	"sort"
	"time"

	"github.com/leighmacdonald/steamid/v4/steamid"

	"github.com/ziggythehamster/tf2-bot-detector/core/conlog"
	"github.com/ziggythehamster/tf2-bot-detector/core/tf"
)

// LobbySlot is one positional seat in the lobby. A slot is invalid until a
// lobby member record first writes it; invalid slots are skipped by all
// iteration.
type LobbySlot struct {
	Member conlog.LobbyMember
	Valid  bool
}

// FindPlayer returns the record for the given account, or nil when the
// account has not been seen this session.
func (w *World) FindPlayer(id steamid.SteamID) *Player {
	return w.players[id]
}

// findOrCreatePlayer returns the record for the given account, creating it
// lazily on first reference. Only the reconciliation engine and enrichment
// merges create records.
func (w *World) findOrCreatePlayer(id steamid.SteamID) *Player {
	if p, ok := w.players[id]; ok {
		return p
	}

	p := newPlayer(id, w.enrich, w.IsFriend)
	w.players[id] = p

	if !w.lazyLoad {
		p.Summary()
		p.Bans()
		p.Playtime()
	}
	return p
}

// FindSteamIDForName resolves a display name to an account. When several
// records share the name, the one with the latest status update wins.
func (w *World) FindSteamIDForName(name string) (steamid.SteamID, bool) {
	var (
		found       steamid.SteamID
		ok          bool
		lastUpdated time.Time
	)

	for _, p := range w.players {
		if p.status.Name == name && p.lastStatusUpdate.After(lastUpdated) {
			found = p.steamID
			lastUpdated = p.lastStatusUpdate
			ok = true
		}
	}
	return found, ok
}

// FindUserID returns the server-assigned user id for the account, if any
// record has seen one.
func (w *World) FindUserID(id steamid.SteamID) (int, bool) {
	if p := w.FindPlayer(id); p != nil {
		return p.UserID()
	}
	return 0, false
}

// FindLobbyMemberTeam returns the lobby team for the account, checking
// confirmed slots before pending ones.
func (w *World) FindLobbyMemberTeam(id steamid.SteamID) (tf.LobbyTeam, bool) {
	for _, slots := range [][]LobbySlot{w.lobbyMembers, w.pendingMembers} {
		for _, slot := range slots {
			if slot.Valid && slot.Member.SteamID == id {
				return slot.Member.Team, true
			}
		}
	}
	return tf.LobbyTeamUnknown, false
}

// TeamShareResult classifies two accounts relative to each other using
// their lobby teams. The error is the fatal internal-consistency fault
// described on tf.ShareResult and must not be swallowed.
func (w *World) TeamShareResult(id0, id1 steamid.SteamID) (tf.TeamShareResult, error) {
	team0, _ := w.FindLobbyMemberTeam(id0)
	team1, _ := w.FindLobbyMemberTeam(id1)
	return tf.ShareResult(team0, team1)
}

// TeamShareWithLocal classifies an account against the local player.
func (w *World) TeamShareWithLocal(id steamid.SteamID) (tf.TeamShareResult, error) {
	return w.TeamShareResult(id, w.localID)
}

// ApproxLobbyMemberCount returns the combined size of both slot sequences,
// including slots not yet filled in.
func (w *World) ApproxLobbyMemberCount() int {
	return len(w.lobbyMembers) + len(w.pendingMembers)
}

// LobbyMembers returns the players currently seated in the lobby. Confirmed
// occupants come first; pending occupants follow, skipping any account that
// already appeared among the confirmed ones so no SteamID is yielded twice.
func (w *World) LobbyMembers() []*Player {
	members := make([]*Player, 0, w.ApproxLobbyMemberCount())
	seen := make(map[steamid.SteamID]struct{})

	for _, slot := range w.lobbyMembers {
		if !slot.Valid {
			continue
		}
		if p := w.FindPlayer(slot.Member.SteamID); p != nil {
			members = append(members, p)
			seen[slot.Member.SteamID] = struct{}{}
		}
	}

	for _, slot := range w.pendingMembers {
		if !slot.Valid {
			continue
		}
		if _, dup := seen[slot.Member.SteamID]; dup {
			continue
		}
		if p := w.FindPlayer(slot.Member.SteamID); p != nil {
			members = append(members, p)
		}
	}
	return members
}

// Players returns every record known this session, in no particular order.
func (w *World) Players() []*Player {
	players := make([]*Player, 0, len(w.players))
	for _, p := range w.players {
		players = append(players, p)
	}
	return players
}

// RecentPlayers returns up to n players ordered by most recent status
// update first.
func (w *World) RecentPlayers(n int) []*Player {
	players := w.Players()
	sort.SliceStable(players, func(i, j int) bool {
		return players[j].lastStatusUpdate.Before(players[i].lastStatusUpdate)
	})
	if len(players) > n {
		players = players[:n]
	}
	return players
}
