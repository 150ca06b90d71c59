package config

import "time"

// Supported gorm engines.
const (
	EngineSQLite   = "sqlite"
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
)

// DB holds the database configuration settings.
// Path is used by the sqlite engine only, the network settings by mysql and postgres.
type DB struct {
	GormEngine  string
	Path        string
	Extras      string
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	OpenTimeout time.Duration // upper bound for retrying a failing open
	Trace       bool          // log every SQL statement at trace level
}
