package conlog

// Config holds the console log source settings.
type Config struct {
	// LogPath is the path of the game's console.log file. The game only
	// writes it when launched with -condebug.
	LogPath string `mapstructure:"log_path" default:""`
}
