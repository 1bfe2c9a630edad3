package steamapi

import (
	"time"

	"github.com/leighmacdonald/steamid/v4/steamid"
)

// PlayerSummary is the public profile summary of one account.
type PlayerSummary struct {
	SteamID     steamid.SteamID
	PersonaName string
	ProfileURL  string
	AvatarHash  string
	// Visibility is the communityvisibilitystate field: 1 private, 3 public.
	Visibility  int
	TimeCreated time.Time
	CountryCode string
}

// Public reports whether the profile is visible to everyone.
func (s PlayerSummary) Public() bool { return s.Visibility == 3 }

// PlayerBans is the ban record of one account.
type PlayerBans struct {
	SteamID          steamid.SteamID
	CommunityBanned  bool
	VACBanned        bool
	VACBanCount      int
	GameBanCount     int
	DaysSinceLastBan int
	EconomyBan       string
}

// Banned reports whether the account carries any ban worth surfacing.
func (b PlayerBans) Banned() bool {
	return b.CommunityBanned || b.VACBanned || b.GameBanCount > 0
}

// Playtime is one account's recorded TF2 playtime.
type Playtime struct {
	SteamID steamid.SteamID
	// Total is the recorded playtime. Zero with Known=false means the
	// account hides its game details.
	Total time.Duration
	Known bool
}

// FriendSet is the local player's friends list as a membership set.
type FriendSet map[steamid.SteamID]struct{}

// Contains reports whether the given account is in the set.
func (s FriendSet) Contains(id steamid.SteamID) bool {
	_, ok := s[id]
	return ok
}
