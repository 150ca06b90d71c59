package config

import (
	"time"

	"github.com/RecipeSync/RecipeSync/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Remote    Remote
	Title     string

	// SeedOnStart seeds an empty local store when the daemon starts.
	SeedOnStart bool
	Webserver Webserver
}

// Remote holds the recipe endpoint settings.
type Remote struct {
	URL     string        // endpoint returning the recipe JSON array
	Timeout time.Duration // 0 keeps the transport default
}

// Webserver implement webserver settings.
type Webserver struct {
	Port         int    // listening port for the webserver
	ShutDownTime int    // wait time for shutdown in seconds
	URL          string // base url for the webserver
}
