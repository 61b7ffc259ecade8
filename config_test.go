package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "file:activities.db?_pragma=foreign_keys(1)", cfg.DSN)
	assert.Equal(t, "./static", cfg.StaticDir)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_DSN", "file:other.db")
	t.Setenv("STATIC_DIR", "/srv/static")

	cfg := LoadConfig()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "file:other.db", cfg.DSN)
	assert.Equal(t, "/srv/static", cfg.StaticDir)
}
