package conlog

import (
	"time"

	"github.com/leighmacdonald/steamid/v4/steamid"

	"github.com/ziggythehamster/tf2-bot-detector/core/tf"
)

// LineKind discriminates the closed union of console line records.
type LineKind int

const (
	KindLobbyHeader LineKind = iota + 1
	KindLobbyStatusFailed
	KindLobbyChanged
	KindLobbyMember
	KindHostNewGame
	KindConnecting
	KindClientReachedServerSpawn
	KindChat
	KindServerDroppedPlayer
	KindConfigExec
	KindPing
	KindPlayerStatus
	KindPlayerStatusShort
	KindKillNotification
	KindSVCUserMessage
)

// Line is one parsed console line record.
type Line interface {
	Kind() LineKind
	Timestamp() time.Time
}

// LineBase carries the logical timestamp every record shares.
type LineBase struct {
	TS time.Time
}

func (b LineBase) Timestamp() time.Time { return b.TS }

// LobbyHeaderLine declares the current lobby member and pending counts.
type LobbyHeaderLine struct {
	LineBase
	MemberCount  int
	PendingCount int
}

func (LobbyHeaderLine) Kind() LineKind { return KindLobbyHeader }

// LobbyStatusFailedLine is printed when the client has no lobby shared object.
type LobbyStatusFailedLine struct {
	LineBase
}

func (LobbyStatusFailedLine) Kind() LineKind { return KindLobbyStatusFailed }

// LobbyChangeType is the kind of lobby transition reported by the client.
type LobbyChangeType int

const (
	LobbyCreated LobbyChangeType = iota + 1
	LobbyUpdated
	LobbyDestroyed
)

// LobbyChangedLine reports a lobby lifecycle transition.
type LobbyChangedLine struct {
	LineBase
	Change LobbyChangeType
}

func (LobbyChangedLine) Kind() LineKind { return KindLobbyChanged }

// LobbyMember is one positional member entry from a lobby debug dump.
type LobbyMember struct {
	SteamID steamid.SteamID
	Team    tf.LobbyTeam
	Index   int
	Pending bool
}

// LobbyMemberLine reports one member slot of the current lobby.
type LobbyMemberLine struct {
	LineBase
	Member LobbyMember
}

func (LobbyMemberLine) Kind() LineKind { return KindLobbyMember }

// HostNewGameLine marks the start of a new map load.
type HostNewGameLine struct {
	LineBase
}

func (HostNewGameLine) Kind() LineKind { return KindHostNewGame }

// ConnectingLine reports the client connecting to a server address.
type ConnectingLine struct {
	LineBase
	Address string
}

func (ConnectingLine) Kind() LineKind { return KindConnecting }

// ClientReachedServerSpawnLine marks the client entering the server spawn state.
type ClientReachedServerSpawnLine struct {
	LineBase
}

func (ClientReachedServerSpawnLine) Kind() LineKind { return KindClientReachedServerSpawn }

// ChatLine is an in-game chat message.
type ChatLine struct {
	LineBase
	PlayerName string
	Message    string
	Dead       bool
	TeamOnly   bool
}

func (ChatLine) Kind() LineKind { return KindChat }

// ServerDroppedPlayerLine reports a player leaving the server.
type ServerDroppedPlayerLine struct {
	LineBase
	PlayerName string
	Reason     string
}

func (ServerDroppedPlayerLine) Kind() LineKind { return KindServerDroppedPlayer }

// ConfigExecLine reports a config file being executed (or failing to).
type ConfigExecLine struct {
	LineBase
	ConfigName string
	Success    bool
}

func (ConfigExecLine) Kind() LineKind { return KindConfigExec }

// PingLine is one row of a "ping" command dump.
type PingLine struct {
	LineBase
	PlayerName string
	Ping       int
}

func (PingLine) Kind() LineKind { return KindPing }

// PlayerStatusState is the lifecycle state column of a status row.
type PlayerStatusState int

const (
	StateInvalid PlayerStatusState = iota
	StateChallenging
	StateConnecting
	StateSpawning
	StateActive
)

// PlayerStatus is the full per-player snapshot carried by a status row.
type PlayerStatus struct {
	SteamID        steamid.SteamID
	Name           string
	UserID         int
	ClientIndex    int
	ConnectionTime time.Duration
	Ping           int
	Loss           int
	State          PlayerStatusState
	Address        string
}

// PlayerStatusLine is one full row of a "status" command dump.
type PlayerStatusLine struct {
	LineBase
	Status PlayerStatus
}

func (PlayerStatusLine) Kind() LineKind { return KindPlayerStatus }

// PlayerStatusShortLine is one row of the abbreviated status listing, which
// only carries the client index and name.
type PlayerStatusShortLine struct {
	LineBase
	ClientIndex int
	PlayerName  string
}

func (PlayerStatusShortLine) Kind() LineKind { return KindPlayerStatusShort }

// KillNotificationLine reports one kill feed entry.
type KillNotificationLine struct {
	LineBase
	AttackerName string
	VictimName   string
	WeaponName   string
	Crit         bool
}

func (KillNotificationLine) Kind() LineKind { return KindKillNotification }

// UserMessageType identifies the svc_UserMessage payloads the model reacts to.
type UserMessageType int

const (
	UserMsgVoteStart  UserMessageType = 45
	UserMsgVotePass   UserMessageType = 46
	UserMsgVoteFailed UserMessageType = 47
)

// SVCUserMessageLine reports a server-to-client user message by type.
type SVCUserMessageLine struct {
	LineBase
	MsgType UserMessageType
}

func (SVCUserMessageLine) Kind() LineKind { return KindSVCUserMessage }
