package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config carries the settings needed to bind and launch the server.
// Every field has a working default so a plain `go run .` boots.
type Config struct {
	Addr      string
	DSN       string
	StaticDir string
}

// LoadConfig reads configuration from the environment. A .env file in
// the working directory is loaded first when present, so local setups
// don't have to export anything.
func LoadConfig() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ADDR", ":8080")
	v.SetDefault("DB_DSN", "file:activities.db?_pragma=foreign_keys(1)")
	v.SetDefault("STATIC_DIR", "./static")

	return Config{
		Addr:      v.GetString("ADDR"),
		DSN:       v.GetString("DB_DSN"),
		StaticDir: v.GetString("STATIC_DIR"),
	}
}
