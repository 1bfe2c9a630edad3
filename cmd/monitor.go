package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ziggythehamster/tf2-bot-detector/core/config"
	"github.com/ziggythehamster/tf2-bot-detector/core/conlog"
	"github.com/ziggythehamster/tf2-bot-detector/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// updateInterval is how often the world ticks its enrichment queues while
// monitoring.
const updateInterval = time.Second

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Follow the console log and track the server population live",
	Long: `Follows the game's console.log (launch TF2 with -condebug) and keeps a
live model of the connected server: lobby composition, player statuses, chat
and kill feed. Steam profile data is fetched in the background when an API
key is configured.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if cfg.Console.LogPath == "" {
			logg.Fatal("console.log_path is not configured")
		}

		// 3. Build the world state engine
		w, err := buildWorld(cfg, logg)
		if err != nil {
			logg.Fatal("Failed to build world state", zap.Error(err))
		}
		w.AddEventListener(&logListener{logger: logg})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 4. Tail the console log. The tailer runs on its own goroutine;
		// chunks are handed over a channel so the world stays owned by this
		// one.
		chunks := make(chan string, 64)
		tailer := conlog.NewTailer(cfg.Console.LogPath, logg)
		go func() {
			if err := tailer.Run(ctx, func(chunk string) {
				select {
				case chunks <- chunk:
				case <-ctx.Done():
				}
			}); err != nil {
				logg.Error("Console log tailer failed", zap.Error(err))
				stop()
			}
		}()

		logg.Info("Monitoring console log", zap.String("path", cfg.Console.LogPath))

		// 5. Drive the world: apply chunks as they arrive, tick the
		// enrichment queues on the update interval.
		ticker := time.NewTicker(updateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logg.Info("Shutting down")
				return
			case chunk := <-chunks:
				w.SetCurrentTime(time.Now())
				w.AddConsoleOutputChunk(chunk)
			case <-ticker.C:
				w.Update()
			}
		}
	},
}

func init() {
	RootCmd.AddCommand(monitorCmd)
}
