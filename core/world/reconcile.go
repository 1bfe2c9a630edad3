package world

import (
	"time"

	"github.com/google/uuid"
	"github.com/leighmacdonald/steamid/v4/steamid"
	"go.uber.org/zap"

	"github.com/ziggythehamster/tf2-bot-detector/core/conlog"
	"github.com/ziggythehamster/tf2-bot-detector/core/tf"
)

// connectionTimeJitter is the delta under which a status row's connection
// time is considered noise rather than a real change. Successive status
// dumps routinely disagree by a second in either direction; keeping the
// stored value avoids visible stutter in a field everyone expects to grow
// monotonically.
const connectionTimeJitter = 2 * time.Second

// OnLineParsed is the reconciliation engine: one update rule per line
// kind, applied to the session model. Unhandled kinds are no-ops. World
// registers itself on its own dispatcher, so this runs for every parsed
// console line.
func (w *World) OnLineParsed(line conlog.Line) {
	switch parsed := line.(type) {
	case conlog.LobbyHeaderLine:
		w.lobbyMembers = resizeSlots(w.lobbyMembers, parsed.MemberCount)
		w.pendingMembers = resizeSlots(w.pendingMembers, parsed.PendingCount)

	case conlog.LobbyStatusFailedLine:
		if len(w.lobbyMembers) > 0 || len(w.pendingMembers) > 0 {
			w.resetSession()
		}

	case conlog.LobbyChangedLine:
		if parsed.Change == conlog.LobbyCreated {
			w.resetSession()
		}
		if parsed.Change == conlog.LobbyCreated || parsed.Change == conlog.LobbyUpdated {
			// Client indices from before the change can't be trusted.
			for _, p := range w.players {
				p.status.ClientIndex = 0
			}
		}

	case conlog.HostNewGameLine:
		w.onNewGame()
	case conlog.ConnectingLine:
		w.onNewGame()
	case conlog.ClientReachedServerSpawnLine:
		w.onNewGame()

	case conlog.ChatLine:
		if p := w.resolvePlayer(parsed.PlayerName, "chat message"); p != nil {
			w.invokeEventListeners(func(l EventListener) {
				l.OnChat(w, p, parsed.Message)
			})
		}

	case conlog.ServerDroppedPlayerLine:
		if p := w.resolvePlayer(parsed.PlayerName, "player dropped"); p != nil {
			w.invokeEventListeners(func(l EventListener) {
				l.OnPlayerDropped(w, p, parsed.Reason)
			})
		}

	case conlog.ConfigExecLine:
		w.onConfigExec(parsed)

	case conlog.LobbyMemberLine:
		w.onLobbyMember(parsed.Member)

	case conlog.PingLine:
		if id, ok := w.FindSteamIDForName(parsed.PlayerName); ok {
			w.findOrCreatePlayer(id).setPing(parsed.Ping, parsed.Timestamp())
		}

	case conlog.PlayerStatusLine:
		w.onPlayerStatus(parsed.Status, parsed.Timestamp())

	case conlog.PlayerStatusShortLine:
		if id, ok := w.FindSteamIDForName(parsed.PlayerName); ok {
			w.findOrCreatePlayer(id).status.ClientIndex = parsed.ClientIndex
		}

	case conlog.KillNotificationLine:
		w.onKillNotification(parsed)

	case conlog.SVCUserMessageLine:
		switch parsed.MsgType {
		case conlog.UserMsgVoteStart:
			w.voteInProgress = true
		case conlog.UserMsgVotePass, conlog.UserMsgVoteFailed:
			w.voteInProgress = false
		}
	}
}

// OnLineUnparsed completes the conlog.LineListener interface; lines the
// parser does not recognize carry no state.
func (w *World) OnLineUnparsed(string) {}

// resetSession wipes the player table and both slot sequences and starts a
// fresh session id. Pending enrichment sets survive on purpose.
func (w *World) resetSession() {
	w.players = make(map[steamid.SteamID]*Player)
	w.lobbyMembers = nil
	w.pendingMembers = nil
	w.sessionID = uuid.New()
	w.logger.Info("session reset", zap.String("session_id", w.sessionID.String()))
}

func (w *World) onNewGame() {
	if w.localPlayerReady {
		w.localPlayerReady = false
		w.invokeEventListeners(func(l EventListener) {
			l.OnLocalPlayerInitialized(w, false)
		})
	}
	w.voteInProgress = false
}

func (w *World) onConfigExec(line conlog.ConfigExecLine) {
	if !line.Success {
		return
	}

	class := tf.ClassFromConfigName(line.ConfigName)
	if class == tf.ClassUndefined {
		return
	}

	w.logger.Debug("local player spawned", zap.Stringer("class", class))
	w.invokeEventListeners(func(l EventListener) {
		l.OnLocalPlayerSpawned(w, class)
	})

	if !w.localPlayerReady {
		w.localPlayerReady = true
		w.invokeEventListeners(func(l EventListener) {
			l.OnLocalPlayerInitialized(w, true)
		})
	}
}

func (w *World) onLobbyMember(member conlog.LobbyMember) {
	slots := w.lobbyMembers
	if member.Pending {
		slots = w.pendingMembers
	}
	// Bounds come solely from the most recent lobby header.
	if member.Index >= 0 && member.Index < len(slots) {
		slots[member.Index] = LobbySlot{Member: member, Valid: true}
	}

	w.findOrCreatePlayer(member.SteamID).team = member.Team.GameTeam()
}

func (w *World) onPlayerStatus(status conlog.PlayerStatus, timestamp time.Time) {
	p := w.findOrCreatePlayer(status.SteamID)

	// Jitter suppression for the connection time view.
	if delta := p.status.ConnectionTime - status.ConnectionTime; delta > -connectionTimeJitter && delta < connectionTimeJitter {
		status.ConnectionTime = p.status.ConnectionTime
	}

	p.setStatus(status, timestamp)
	if p.lastStatusUpdate.After(w.lastStatusUpdate) {
		w.lastStatusUpdate = p.lastStatusUpdate
	}

	w.invokeEventListeners(func(l EventListener) {
		l.OnPlayerStatusUpdate(w, p)
	})
}

func (w *World) onKillNotification(line conlog.KillNotificationLine) {
	attackerID, attackerOK := w.FindSteamIDForName(line.AttackerName)
	victimID, victimOK := w.FindSteamIDForName(line.VictimName)

	if attackerOK {
		attacker := w.findOrCreatePlayer(attackerID)
		attacker.Scores.Kills++
		if victimOK && victimID == w.localID {
			attacker.Scores.LocalKills++
		}
	}

	if victimOK {
		victim := w.findOrCreatePlayer(victimID)
		victim.Scores.Deaths++
		if attackerOK && attackerID == w.localID {
			victim.Scores.LocalDeaths++
		}
	}
}

// resolvePlayer maps a display name to its player record; failures are
// logged and reported as nil so the triggering line's effect is dropped.
func (w *World) resolvePlayer(name, context string) *Player {
	id, ok := w.FindSteamIDForName(name)
	if !ok {
		w.logger.Warn("dropped line for unknown name",
			zap.String("context", context), zap.String("name", name))
		return nil
	}

	p := w.FindPlayer(id)
	if p == nil {
		w.logger.Warn("dropped line for unknown player",
			zap.String("context", context), zap.String("name", name),
			zap.String("steamid", id.String()))
	}
	return p
}

// resizeSlots adjusts a slot sequence to the declared count, keeping
// in-range contents and discarding anything beyond the new bounds.
func resizeSlots(slots []LobbySlot, count int) []LobbySlot {
	if count < 0 {
		count = 0
	}
	if count <= len(slots) {
		return slots[:count]
	}
	grown := make([]LobbySlot, count)
	copy(grown, slots)
	return grown
}
