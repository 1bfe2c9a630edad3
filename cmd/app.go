package cmd

import (
	"fmt"
	"net/http"

	"github.com/leighmacdonald/steamid/v4/steamid"
	"go.uber.org/zap"

	"github.com/ziggythehamster/tf2-bot-detector/core/config"
	"github.com/ziggythehamster/tf2-bot-detector/core/steamapi"
	"github.com/ziggythehamster/tf2-bot-detector/core/tf"
	"github.com/ziggythehamster/tf2-bot-detector/core/world"
)

// buildWorld assembles the world state engine from the loaded configuration.
// Without an API key the engine still runs, on console log data alone.
func buildWorld(cfg *config.Config, logg *zap.Logger) (*world.World, error) {
	localID := steamid.New(cfg.World.SteamID)
	if cfg.World.SteamID != "" && !localID.Valid() {
		return nil, fmt.Errorf("invalid world.steam_id %q", cfg.World.SteamID)
	}

	var client *steamapi.Client
	if cfg.Steam.APIKey != "" {
		client = steamapi.NewClient(cfg.Steam.APIKey, http.DefaultClient, logg)
	} else {
		logg.Warn("No Steam API key configured, profile enrichment disabled")
	}

	return world.New(localID, client, logg, cfg.World.Options()...), nil
}

// logListener surfaces world events in the log stream.
type logListener struct {
	world.NopEventListener
	logger *zap.Logger
}

func (l *logListener) OnChat(_ *world.World, player *world.Player, message string) {
	l.logger.Info("Chat",
		zap.String("player", player.NameSafe()),
		zap.String("message", message),
	)
}

func (l *logListener) OnPlayerDropped(_ *world.World, player *world.Player, reason string) {
	l.logger.Info("Player dropped",
		zap.String("player", player.NameSafe()),
		zap.String("reason", reason),
	)
}

func (l *logListener) OnLocalPlayerSpawned(_ *world.World, class tf.ClassType) {
	l.logger.Info("Local player spawned", zap.String("class", class.String()))
}

func (l *logListener) OnLocalPlayerInitialized(_ *world.World, initialized bool) {
	l.logger.Info("Local player initialized", zap.Bool("initialized", initialized))
}
