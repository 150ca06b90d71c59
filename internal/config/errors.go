package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrEmptyRemoteURL error if config remote.url is empty.
	ErrEmptyRemoteURL = errors.New("config remote.url can not be empty")

	// ErrUnknownGormEngine error if config db.gormEngine names an unsupported engine.
	ErrUnknownGormEngine = errors.New("config db.gormEngine is not supported")

	// ErrEmptyDBPath error if the sqlite engine is selected without db.path.
	ErrEmptyDBPath = errors.New("config db.path can not be empty for sqlite")
)

// ErrNilConfig is returned when a component is created without config.
var ErrNilConfig = errors.New("config is nil")
