package conlog

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/leighmacdonald/steamid/v4/steamid"

	"github.com/ziggythehamster/tf2-bot-detector/core/tf"
)

// ParseFunc is the tokenizer boundary: it receives one console line and the
// session's current logical timestamp and returns the typed record, or nil
// when the line is not one this model understands.
type ParseFunc func(text string, now time.Time) Line

var (
	reLobbyHeader = regexp.MustCompile(`^CTFLobbyShared: ID:([0-9a-f]+)\s+(\d+) member\(s\), (\d+) pending$`)
	reLobbyMember = regexp.MustCompile(`^\s+(?:(Member)|Pending)\[(\d+)\] (\[.+\])\s+team = (\w+)\s+type = (\w+)$`)
	reLobbyChange = regexp.MustCompile(`^Lobby (created|updated|destroyed)`)
	reConnecting  = regexp.MustCompile(`^Connecting to (\S+)\.\.\.$`)
	reConfigExec  = regexp.MustCompile(`^execing (.+)$`)
	reConfigMiss  = regexp.MustCompile(`^'(.+)' not present; not executing\.$`)
	rePing        = regexp.MustCompile(`^ *(\d+) ms : (.+)$`)
	reStatus      = regexp.MustCompile(`^#\s+(\d+)\s+"(.*)"\s+(\[.+?\])\s+([0-9:]+)\s+(\d+)\s+(\d+)\s+(\w+)(?:\s+(\S+))?$`)
	reStatusShort = regexp.MustCompile(`^#(\d+) "(.*)"$`)
	reKill        = regexp.MustCompile(`^(.+) killed (.+) with (.+)\.( \(crit\))?$`)
	reChat        = regexp.MustCompile(`^(\*DEAD\*)?(\(TEAM\))? ?(.+) :  (.*)$`)
	reUserMessage = regexp.MustCompile(`^Msg from (?:[\d.:]+|loopback): svc_UserMessage: type (\d+), bytes \d+$`)
)

// Parse is the default ParseFunc for TF2 console output.
func Parse(text string, now time.Time) Line {
	base := LineBase{TS: now}

	switch text {
	case "Failed to find lobby shared object":
		return LobbyStatusFailedLine{LineBase: base}
	case "---- Host_NewGame ----":
		return HostNewGameLine{LineBase: base}
	case "Client reached server_spawn.":
		return ClientReachedServerSpawnLine{LineBase: base}
	}

	if m := reLobbyHeader.FindStringSubmatch(text); m != nil {
		members, _ := strconv.Atoi(m[2])
		pending, _ := strconv.Atoi(m[3])
		return LobbyHeaderLine{LineBase: base, MemberCount: members, PendingCount: pending}
	}

	if m := reLobbyMember.FindStringSubmatch(text); m != nil {
		sid := steamid.New(m[3])
		if !sid.Valid() {
			return nil
		}
		var team tf.LobbyTeam
		switch m[4] {
		case "TF_GC_TEAM_DEFENDERS":
			team = tf.LobbyTeamDefenders
		case "TF_GC_TEAM_INVADERS":
			team = tf.LobbyTeamInvaders
		}
		index, _ := strconv.Atoi(m[2])
		return LobbyMemberLine{LineBase: base, Member: LobbyMember{
			SteamID: sid,
			Team:    team,
			Index:   index,
			Pending: m[1] == "",
		}}
	}

	if m := reLobbyChange.FindStringSubmatch(text); m != nil {
		var change LobbyChangeType
		switch m[1] {
		case "created":
			change = LobbyCreated
		case "updated":
			change = LobbyUpdated
		case "destroyed":
			change = LobbyDestroyed
		}
		return LobbyChangedLine{LineBase: base, Change: change}
	}

	if m := reConnecting.FindStringSubmatch(text); m != nil {
		return ConnectingLine{LineBase: base, Address: m[1]}
	}

	if m := reConfigExec.FindStringSubmatch(text); m != nil {
		return ConfigExecLine{LineBase: base, ConfigName: m[1], Success: true}
	}
	if m := reConfigMiss.FindStringSubmatch(text); m != nil {
		return ConfigExecLine{LineBase: base, ConfigName: m[1], Success: false}
	}

	if m := reStatus.FindStringSubmatch(text); m != nil {
		sid := steamid.New(m[3])
		if !sid.Valid() {
			return nil
		}
		userID, _ := strconv.Atoi(m[1])
		ping, _ := strconv.Atoi(m[5])
		loss, _ := strconv.Atoi(m[6])
		return PlayerStatusLine{LineBase: base, Status: PlayerStatus{
			SteamID:        sid,
			Name:           m[2],
			UserID:         userID,
			ConnectionTime: parseConnected(m[4]),
			Ping:           ping,
			Loss:           loss,
			State:          parseStatusState(m[7]),
			Address:        m[8],
		}}
	}

	if m := reStatusShort.FindStringSubmatch(text); m != nil {
		index, _ := strconv.Atoi(m[1])
		return PlayerStatusShortLine{LineBase: base, ClientIndex: index, PlayerName: m[2]}
	}

	if m := rePing.FindStringSubmatch(text); m != nil {
		ping, _ := strconv.Atoi(m[1])
		return PingLine{LineBase: base, PlayerName: m[2], Ping: ping}
	}

	if m := reUserMessage.FindStringSubmatch(text); m != nil {
		msgType, _ := strconv.Atoi(m[1])
		return SVCUserMessageLine{LineBase: base, MsgType: UserMessageType(msgType)}
	}

	if m := reKill.FindStringSubmatch(text); m != nil {
		return KillNotificationLine{
			LineBase:     base,
			AttackerName: m[1],
			VictimName:   m[2],
			WeaponName:   m[3],
			Crit:         m[4] != "",
		}
	}

	// Chat is the loosest pattern, so it is matched last.
	if m := reChat.FindStringSubmatch(text); m != nil {
		return ChatLine{
			LineBase:   base,
			PlayerName: m[3],
			Message:    m[4],
			Dead:       m[1] != "",
			TeamOnly:   m[2] != "",
		}
	}

	return nil
}

// parseConnected parses the status "connected" column (mm:ss or h:mm:ss).
func parseConnected(raw string) time.Duration {
	parts := strings.Split(raw, ":")
	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	return time.Duration(total) * time.Second
}

func parseStatusState(raw string) PlayerStatusState {
	switch raw {
	case "challenging":
		return StateChallenging
	case "connecting":
		return StateConnecting
	case "spawning":
		return StateSpawning
	case "active":
		return StateActive
	default:
		return StateInvalid
	}
}
