// Package config handles input from etc/main.toml
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvConfigJSON names the env var carrying a JSON document merged over the file config.
	EnvConfigJSON = "RECIPESYNC_CONFIG_JSON"

	// DefaultRemoteURL is the recipe feed used when none is configured.
	DefaultRemoteURL = "https://gist.githubusercontent.com/icebeam7/a6c1c7523e67272e294204aff0b115cc/raw/938694ed82fa34384c9704f6000fa0307ca72c06/recipes.json"

	// DefaultDatabaseFilename is the sqlite file created below the data directory.
	DefaultDatabaseFilename = "RecipesDb-v1_0.db3"

	defaultShutDownTime = 5
	defaultOpenTimeout  = 10 * time.Second
)

// ReadConfig from config file.
// A missing main.toml is not an error; defaults and the env override still apply.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("main")
	v.SetConfigType("toml")
	v.AddConfigPath(path)

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "failed to read main config file")
		}
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("Title", "RecipeSync")

	v.SetDefault("DB.GormEngine", EngineSQLite)
	v.SetDefault("DB.Path", filepath.Join("data", DefaultDatabaseFilename))
	v.SetDefault("DB.OpenTimeout", defaultOpenTimeout)

	v.SetDefault("Remote.URL", DefaultRemoteURL)

	v.SetDefault("Webserver.Port", 8080) //nolint:mnd
	v.SetDefault("Webserver.URL", "http://localhost:8080")
	v.SetDefault("Webserver.ShutDownTime", defaultShutDownTime)

	v.SetDefault("Log.LogLevel", "info")
	v.SetDefault("Log.AppName", "recipesync")
	v.SetDefault("Log.ServiceName", "recipesync")
	v.SetDefault("Log.Console.Enabled", true)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfigJSON config as JSON String.
// The database password is masked.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	masked := *c
	if masked.DB.Password != "" {
		masked.DB.Password = "********"
	}

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(masked); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the daemon can not run without and fills defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Remote.URL == "" {
		return errors.Wrap(ErrEmptyRemoteURL, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EngineSQLite
	case EngineSQLite, EngineMySQL, EnginePostgres:
	default:
		return errors.Wrapf(ErrUnknownGormEngine, "%s: %q", invalidErrMessage, c.DB.GormEngine)
	}

	if c.DB.GormEngine == EngineSQLite && c.DB.Path == "" {
		return errors.Wrap(ErrEmptyDBPath, invalidErrMessage)
	}

	if c.DB.OpenTimeout == 0 {
		c.DB.OpenTimeout = defaultOpenTimeout
	}

	return nil
}
