package steamapi

// Config holds the Steam Web API settings.
type Config struct {
	// APIKey is the Steam Web API key. When empty, profile enrichment and
	// friends list tracking stay disabled and the world runs on console
	// log data alone.
	APIKey string `mapstructure:"api_key" default:""`
}
