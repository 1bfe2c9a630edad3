// Package config provides configuration management for the bot detector.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Steam: Web API key for profile enrichment
//   - Console: path of the game's console.log file
//   - World: local player identity and engine tuning
//   - Log: logging level and format
//
// Environment variable names map onto nested keys with underscores, e.g.
// STEAM_API_KEY sets steam.api_key and WORLD_STEAM_ID sets world.steam_id.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Console.LogPath)
package config
