package world

import "time"

// Config holds the world state engine settings.
type Config struct {
	// SteamID identifies the local player, in any textual SteamID format
	// (steam64, steam3 or steam2).
	SteamID string `mapstructure:"steam_id" default:""`
	// LazyLoad defers profile enrichment until the data is first read.
	// When false, every newly seen account is queued for fetching
	// immediately.
	LazyLoad bool `mapstructure:"lazy_load" default:"true"`
	// FriendsInterval is the delay between friends list refreshes.
	FriendsInterval time.Duration `mapstructure:"friends_interval" default:"5m"`
	// RecentPlayers caps the recent player listing printed after a replay.
	RecentPlayers int `mapstructure:"recent_players" default:"24"`
}

// Options translates the configured settings into engine options.
func (c Config) Options() []Option {
	var opts []Option
	if c.FriendsInterval > 0 {
		opts = append(opts, WithFriendsInterval(c.FriendsInterval))
	}
	if !c.LazyLoad {
		opts = append(opts, WithEagerEnrichment())
	}
	return opts
}
