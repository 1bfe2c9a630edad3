package world

import (
	"testing"
	"time"

	"github.com/leighmacdonald/steamid/v4/steamid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziggythehamster/tf2-bot-detector/core/conlog"
	"github.com/ziggythehamster/tf2-bot-detector/core/tf"
)

func feedLobbyHeader(w *World, members, pending int) {
	w.OnLineParsed(conlog.LobbyHeaderLine{LineBase: at(0), MemberCount: members, PendingCount: pending})
}

func TestJitterSuppression(t *testing.T) {
	w := newTestWorld(t)

	feedStatus(w, sid(1), "alpha", 60*time.Second, conlog.StateActive, 0)
	require.Equal(t, 60*time.Second, w.FindPlayer(sid(1)).Status().ConnectionTime)

	// Readings within 2 seconds either way keep the stored value.
	feedStatus(w, sid(1), "alpha", 61*time.Second, conlog.StateActive, time.Second)
	assert.Equal(t, 60*time.Second, w.FindPlayer(sid(1)).Status().ConnectionTime)

	feedStatus(w, sid(1), "alpha", 59*time.Second, conlog.StateActive, 2*time.Second)
	assert.Equal(t, 60*time.Second, w.FindPlayer(sid(1)).Status().ConnectionTime)

	// A real change goes through.
	feedStatus(w, sid(1), "alpha", 63*time.Second, conlog.StateActive, 3*time.Second)
	assert.Equal(t, 63*time.Second, w.FindPlayer(sid(1)).Status().ConnectionTime)
}

func TestJitterSuppression_NoOscillation(t *testing.T) {
	w := newTestWorld(t)

	feedStatus(w, sid(1), "alpha", 120*time.Second, conlog.StateActive, 0)
	for i, jitter := range []time.Duration{1, -1, 1, 0, -1, 1} {
		feedStatus(w, sid(1), "alpha", 120*time.Second+jitter*time.Second,
			conlog.StateActive, time.Duration(i)*time.Second)
		assert.Equal(t, 120*time.Second, w.FindPlayer(sid(1)).Status().ConnectionTime)
	}
}

func TestLobbyHeader_ResizeBoundsEnforced(t *testing.T) {
	w := newTestWorld(t)
	feedLobbyHeader(w, 2, 1)
	assert.Equal(t, 3, w.ApproxLobbyMemberCount())

	// An out-of-range index must not write a slot, though the player record
	// itself is still created with its team.
	feedLobbyMember(w, sid(5), tf.LobbyTeamInvaders, 5, false)
	_, ok := w.FindLobbyMemberTeam(sid(5))
	assert.False(t, ok)

	p := w.FindPlayer(sid(5))
	require.NotNil(t, p)
	assert.Equal(t, tf.TeamBlue, p.Team())

	// In range writes normally.
	feedLobbyMember(w, sid(5), tf.LobbyTeamInvaders, 1, false)
	team, ok := w.FindLobbyMemberTeam(sid(5))
	require.True(t, ok)
	assert.Equal(t, tf.LobbyTeamInvaders, team)
}

func TestLobbyHeader_ShrinkDiscardsOutOfRange(t *testing.T) {
	w := newTestWorld(t)
	feedLobbyHeader(w, 3, 0)
	feedLobbyMember(w, sid(1), tf.LobbyTeamDefenders, 2, false)

	feedLobbyHeader(w, 1, 0)
	_, ok := w.FindLobbyMemberTeam(sid(1))
	assert.False(t, ok)

	// Growing back does not resurrect the discarded slot.
	feedLobbyHeader(w, 3, 0)
	_, ok = w.FindLobbyMemberTeam(sid(1))
	assert.False(t, ok)
}

func TestLobbyStatusFailed(t *testing.T) {
	w := newTestWorld(t)
	feedStatus(w, sid(1), "alpha", time.Minute, conlog.StateActive, 0)

	// With both slot sequences empty the record is an idempotent no-op.
	session := w.SessionID()
	w.OnLineParsed(conlog.LobbyStatusFailedLine{LineBase: at(0)})
	assert.Equal(t, session, w.SessionID())
	assert.NotNil(t, w.FindPlayer(sid(1)))

	// With members present it performs a full reset.
	feedLobbyHeader(w, 1, 0)
	feedLobbyMember(w, sid(1), tf.LobbyTeamDefenders, 0, false)
	w.OnLineParsed(conlog.LobbyStatusFailedLine{LineBase: at(0)})
	assert.NotEqual(t, session, w.SessionID())
	assert.Nil(t, w.FindPlayer(sid(1)))
	assert.Equal(t, 0, w.ApproxLobbyMemberCount())
}

func TestLobbyCreated_FreshRecords(t *testing.T) {
	w := newTestWorld(t)
	feedStatus(w, sid(1), "alpha", time.Minute, conlog.StateActive, 0)
	w.FindPlayer(sid(1)).Scores.Kills = 9

	w.OnLineParsed(conlog.LobbyChangedLine{LineBase: at(0), Change: conlog.LobbyCreated})
	assert.Empty(t, w.Players())

	// A returning account gets a fresh record, not the stale one.
	feedLobbyHeader(w, 1, 0)
	feedLobbyMember(w, sid(1), tf.LobbyTeamDefenders, 0, false)
	p := w.FindPlayer(sid(1))
	require.NotNil(t, p)
	assert.Zero(t, p.Scores.Kills)
	assert.Empty(t, p.Name())
}

func TestLobbyUpdated_InvalidatesClientIndices(t *testing.T) {
	w := newTestWorld(t)
	feedStatus(w, sid(1), "alpha", time.Minute, conlog.StateActive, 0)
	w.OnLineParsed(conlog.PlayerStatusShortLine{LineBase: at(0), ClientIndex: 4, PlayerName: "alpha"})
	require.Equal(t, 4, w.FindPlayer(sid(1)).ClientIndex())

	w.OnLineParsed(conlog.LobbyChangedLine{LineBase: at(0), Change: conlog.LobbyUpdated})
	assert.Zero(t, w.FindPlayer(sid(1)).ClientIndex())
	// Updated does not reset the table itself.
	assert.NotNil(t, w.FindPlayer(sid(1)))
}

func TestConfigExec_SpawnAndInitialization(t *testing.T) {
	w := newTestWorld(t)
	recorder := &eventRecorder{}
	w.AddEventListener(recorder)

	w.OnLineParsed(conlog.ConfigExecLine{LineBase: at(0), ConfigName: "scout.cfg", Success: true})
	assert.Equal(t, []tf.ClassType{tf.ClassScout}, recorder.spawns)
	assert.Equal(t, []bool{true}, recorder.inits)
	assert.True(t, w.IsLocalPlayerInitialized())

	// A second spawn emits the class event but not another init flip.
	w.OnLineParsed(conlog.ConfigExecLine{LineBase: at(0), ConfigName: "heavyweapons.cfg", Success: true})
	assert.Equal(t, []tf.ClassType{tf.ClassScout, tf.ClassHeavy}, recorder.spawns)
	assert.Equal(t, []bool{true}, recorder.inits)

	// Non-class and unsuccessful execs are ignored.
	w.OnLineParsed(conlog.ConfigExecLine{LineBase: at(0), ConfigName: "autoexec.cfg", Success: true})
	w.OnLineParsed(conlog.ConfigExecLine{LineBase: at(0), ConfigName: "spy.cfg", Success: false})
	assert.Len(t, recorder.spawns, 2)
}

func TestNewGame_FlipsInitializationAndClearsVote(t *testing.T) {
	tests := []struct {
		name string
		line conlog.Line
	}{
		{"host new game", conlog.HostNewGameLine{LineBase: at(0)}},
		{"connecting", conlog.ConnectingLine{LineBase: at(0), Address: "169.254.10.1:27015"}},
		{"reached spawn", conlog.ClientReachedServerSpawnLine{LineBase: at(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			recorder := &eventRecorder{}
			w.AddEventListener(recorder)

			w.OnLineParsed(conlog.ConfigExecLine{LineBase: at(0), ConfigName: "medic.cfg", Success: true})
			w.OnLineParsed(conlog.SVCUserMessageLine{LineBase: at(0), MsgType: conlog.UserMsgVoteStart})
			require.True(t, w.IsLocalPlayerInitialized())
			require.True(t, w.IsVoteInProgress())

			w.OnLineParsed(tt.line)
			assert.False(t, w.IsLocalPlayerInitialized())
			assert.False(t, w.IsVoteInProgress())
			assert.Equal(t, []bool{true, false}, recorder.inits)

			// Already uninitialized: no extra event.
			w.OnLineParsed(tt.line)
			assert.Equal(t, []bool{true, false}, recorder.inits)
		})
	}
}

func TestChat_ResolveOrDrop(t *testing.T) {
	w := newTestWorld(t)
	recorder := &eventRecorder{}
	w.AddEventListener(recorder)

	feedStatus(w, sid(1), "alpha", time.Minute, conlog.StateActive, 0)

	w.OnLineParsed(conlog.ChatLine{LineBase: at(0), PlayerName: "alpha", Message: "hello"})
	assert.Equal(t, []string{"alpha: hello"}, recorder.chats)

	// Unknown speaker: logged and dropped, no event, no new record.
	w.OnLineParsed(conlog.ChatLine{LineBase: at(0), PlayerName: "zeta", Message: "hi"})
	assert.Len(t, recorder.chats, 1)
	assert.Len(t, w.Players(), 1)
}

func TestPlayerDropped_ResolveOrDrop(t *testing.T) {
	w := newTestWorld(t)
	recorder := &eventRecorder{}
	w.AddEventListener(recorder)

	feedStatus(w, sid(1), "alpha", time.Minute, conlog.StateActive, 0)

	w.OnLineParsed(conlog.ServerDroppedPlayerLine{LineBase: at(0), PlayerName: "alpha", Reason: "Disconnect by user."})
	assert.Equal(t, []string{"alpha: Disconnect by user."}, recorder.drops)

	w.OnLineParsed(conlog.ServerDroppedPlayerLine{LineBase: at(0), PlayerName: "zeta", Reason: "timed out"})
	assert.Len(t, recorder.drops, 1)
}

func TestPing_UpdatesPingOnly(t *testing.T) {
	w := newTestWorld(t)
	feedStatus(w, sid(1), "alpha", time.Minute, conlog.StateActive, 0)

	w.OnLineParsed(conlog.PingLine{LineBase: at(time.Second), PlayerName: "alpha", Ping: 140})

	p := w.FindPlayer(sid(1))
	assert.Equal(t, 140, p.Status().Ping)
	assert.Equal(t, time.Minute, p.Status().ConnectionTime)
	assert.Equal(t, baseTime.Add(time.Second), p.LastPingUpdate())
	assert.Equal(t, baseTime, p.LastStatusUpdate())

	// Unknown names are ignored without creating records.
	w.OnLineParsed(conlog.PingLine{LineBase: at(time.Second), PlayerName: "zeta", Ping: 20})
	assert.Len(t, w.Players(), 1)
}

func TestKillNotification_PartialResolution(t *testing.T) {
	w := newTestWorld(t)
	feedStatus(w, sid(1), "alpha", time.Minute, conlog.StateActive, 0)

	w.OnLineParsed(conlog.KillNotificationLine{
		LineBase: at(0), AttackerName: "alpha", VictimName: "nobody", WeaponName: "shovel",
	})

	p := w.FindPlayer(sid(1))
	assert.Equal(t, 1, p.Scores.Kills)
	assert.Zero(t, p.Scores.LocalKills)
	for _, other := range w.Players() {
		assert.Zero(t, other.Scores.Deaths)
	}
}

func TestKillNotification_LocalPlayerCounters(t *testing.T) {
	w := newTestWorld(t)
	feedStatus(w, localSID, "me", time.Minute, conlog.StateActive, 0)
	feedStatus(w, sid(2), "bravo", time.Minute, conlog.StateActive, 0)

	w.OnLineParsed(conlog.KillNotificationLine{
		LineBase: at(0), AttackerName: "bravo", VictimName: "me", WeaponName: "knife", Crit: true,
	})
	bravo := w.FindPlayer(sid(2))
	assert.Equal(t, 1, bravo.Scores.Kills)
	assert.Equal(t, 1, bravo.Scores.LocalKills)

	me := w.FindPlayer(localSID)
	assert.Equal(t, 1, me.Scores.Deaths)
	assert.Zero(t, me.Scores.LocalDeaths)

	w.OnLineParsed(conlog.KillNotificationLine{
		LineBase: at(0), AttackerName: "me", VictimName: "bravo", WeaponName: "scattergun",
	})
	assert.Equal(t, 1, bravo.Scores.Deaths)
	assert.Equal(t, 1, bravo.Scores.LocalDeaths)
}

func TestVoteFlags(t *testing.T) {
	w := newTestWorld(t)

	w.OnLineParsed(conlog.SVCUserMessageLine{LineBase: at(0), MsgType: conlog.UserMsgVoteStart})
	assert.True(t, w.IsVoteInProgress())

	w.OnLineParsed(conlog.SVCUserMessageLine{LineBase: at(0), MsgType: conlog.UserMsgVotePass})
	assert.False(t, w.IsVoteInProgress())

	w.OnLineParsed(conlog.SVCUserMessageLine{LineBase: at(0), MsgType: conlog.UserMsgVoteStart})
	w.OnLineParsed(conlog.SVCUserMessageLine{LineBase: at(0), MsgType: conlog.UserMsgVoteFailed})
	assert.False(t, w.IsVoteInProgress())

	// Unrelated user messages leave the flag alone.
	w.OnLineParsed(conlog.SVCUserMessageLine{LineBase: at(0), MsgType: conlog.UserMsgVoteStart})
	w.OnLineParsed(conlog.SVCUserMessageLine{LineBase: at(0), MsgType: conlog.UserMessageType(6)})
	assert.True(t, w.IsVoteInProgress())
}

func TestPlayerStatus_EventAndSessionTimestamp(t *testing.T) {
	w := newTestWorld(t)
	recorder := &eventRecorder{}
	w.AddEventListener(recorder)

	feedStatus(w, sid(1), "alpha", time.Minute, conlog.StateActive, 5*time.Second)
	feedStatus(w, sid(2), "bravo", time.Minute, conlog.StateActive, 2*time.Second)

	assert.Equal(t, []steamid.SteamID{sid(1), sid(2)}, recorder.statusUpdates)
	// Session-wide timestamp is the max, not the latest applied.
	assert.Equal(t, baseTime.Add(5*time.Second), w.LastStatusUpdate())
}

func TestShortStatus_ClientIndexOnly(t *testing.T) {
	w := newTestWorld(t)
	feedStatus(w, sid(1), "alpha", time.Minute, conlog.StateActive, 0)

	w.OnLineParsed(conlog.PlayerStatusShortLine{LineBase: at(time.Second), ClientIndex: 7, PlayerName: "alpha"})

	p := w.FindPlayer(sid(1))
	assert.Equal(t, 7, p.ClientIndex())
	assert.Equal(t, "alpha", p.Name())
	assert.Equal(t, baseTime, p.LastStatusUpdate())
}
