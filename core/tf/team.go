package tf

import (
	"errors"
	"fmt"
)

// LobbyTeam is the team reported by the matchmaking lobby for a member slot.
type LobbyTeam int

const (
	LobbyTeamUnknown LobbyTeam = iota
	LobbyTeamDefenders
	LobbyTeamInvaders
)

// Opposite returns the opposing lobby team. Only Defenders and Invaders have
// an opposite; anything else returns LobbyTeamUnknown.
func (t LobbyTeam) Opposite() LobbyTeam {
	switch t {
	case LobbyTeamDefenders:
		return LobbyTeamInvaders
	case LobbyTeamInvaders:
		return LobbyTeamDefenders
	default:
		return LobbyTeamUnknown
	}
}

func (t LobbyTeam) String() string {
	switch t {
	case LobbyTeamDefenders:
		return "defenders"
	case LobbyTeamInvaders:
		return "invaders"
	default:
		return "unknown"
	}
}

// Team is the in-game team a player actually plays on.
type Team int

const (
	TeamUnassigned Team = iota
	TeamSpectator
	TeamRed
	TeamBlue
)

// GameTeam maps a lobby team onto the in-game team it spawns as.
func (t LobbyTeam) GameTeam() Team {
	if t == LobbyTeamDefenders {
		return TeamRed
	}
	return TeamBlue
}

func (t Team) String() string {
	switch t {
	case TeamSpectator:
		return "spectator"
	case TeamRed:
		return "red"
	case TeamBlue:
		return "blue"
	default:
		return "unassigned"
	}
}

// TeamShareResult classifies the relationship between two (optional) teams.
type TeamShareResult int

const (
	// TeamShareNeither means at least one side's team is unknown.
	TeamShareNeither TeamShareResult = iota
	// TeamShareSame means both players are on the same team.
	TeamShareSame
	// TeamShareOpposite means the players are on opposing teams.
	TeamShareOpposite
)

func (r TeamShareResult) String() string {
	switch r {
	case TeamShareSame:
		return "same"
	case TeamShareOpposite:
		return "opposite"
	default:
		return "neither"
	}
}

// ErrTeamConsistency reports a pair of known teams that are neither equal nor
// opposites. The lobby team enum is closed, so this can only happen if the
// model itself is corrupt; callers must treat it as fatal rather than mapping
// it to TeamShareNeither.
var ErrTeamConsistency = errors.New("team consistency violation")

// ShareResult classifies two lobby teams. A zero (unknown) team on either
// side yields TeamShareNeither.
func ShareResult(a, b LobbyTeam) (TeamShareResult, error) {
	if a == LobbyTeamUnknown || b == LobbyTeamUnknown {
		return TeamShareNeither, nil
	}
	if a == b {
		return TeamShareSame, nil
	}
	if a == b.Opposite() {
		return TeamShareOpposite, nil
	}
	return TeamShareNeither, fmt.Errorf("%w: %v vs %v", ErrTeamConsistency, a, b)
}
