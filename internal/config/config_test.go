package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes main.toml into a temp dir and returns the dir.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte(content), 0o600))

	return dir + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err)

	cfg, err := ReadConfig(filepath.Join(projectRoot, "etc") + string(filepath.Separator))
	require.NoError(t, err)

	assert.Equal(t, "RecipeSync", cfg.Title)
	assert.Equal(t, 8080, cfg.Webserver.Port)
	assert.NotEmpty(t, cfg.Webserver.URL)
	assert.Equal(t, EngineSQLite, cfg.DB.GormEngine)
	assert.Equal(t, filepath.Join("data", DefaultDatabaseFilename), filepath.Clean(cfg.DB.Path))
	assert.Equal(t, 10*time.Second, cfg.DB.OpenTimeout)
	assert.Equal(t, DefaultRemoteURL, cfg.Remote.URL)
	assert.True(t, cfg.Log.Console.Enabled)
}

func TestReadConfigMissingFile(t *testing.T) {
	cfg, err := ReadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "RecipeSync", cfg.Title)
	assert.Equal(t, EngineSQLite, cfg.DB.GormEngine)
	assert.Equal(t, DefaultRemoteURL, cfg.Remote.URL)
	assert.Equal(t, defaultShutDownTime, cfg.Webserver.ShutDownTime)
	assert.Equal(t, "info", cfg.Log.LogLevel)
}

func TestReadConfigFile(t *testing.T) {
	dir := writeConfig(t, `
Title = "Recipes"
SeedOnStart = true

[DB]
GormEngine = "mysql"
Host = "db.local"
Port = 3306
User = "recipes"
Name = "recipes"
OpenTimeout = "3s"

[Remote]
URL = "http://recipes.local/recipes.json"
Timeout = "2s"

[Webserver]
Port = 9000
URL = "http://localhost:9000"
`)

	cfg, err := ReadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "Recipes", cfg.Title)
	assert.True(t, cfg.SeedOnStart)
	assert.Equal(t, EngineMySQL, cfg.DB.GormEngine)
	assert.Equal(t, "db.local", cfg.DB.Host)
	assert.Equal(t, 3306, cfg.DB.Port)
	assert.Equal(t, 3*time.Second, cfg.DB.OpenTimeout)
	assert.Equal(t, "http://recipes.local/recipes.json", cfg.Remote.URL)
	assert.Equal(t, 2*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 9000, cfg.Webserver.Port)
}

func TestReadConfigInvalidFile(t *testing.T) {
	dir := writeConfig(t, `Title = "unterminated`)

	_, err := ReadConfig(dir)
	require.Error(t, err)
}

func TestReadConfigEnvOverride(t *testing.T) {
	dir := writeConfig(t, `
[Webserver]
Port = 9000
URL = "http://localhost:9000"
`)

	t.Setenv(EnvConfigJSON, `{"Webserver": {"Port": 9090}, "DB": {"GormEngine": "postgres", "Host": "pg"}}`)

	cfg, err := ReadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Webserver.Port)
	assert.Equal(t, "http://localhost:9000", cfg.Webserver.URL, "fields absent from the override are kept")
	assert.Equal(t, EnginePostgres, cfg.DB.GormEngine)
	assert.Equal(t, "pg", cfg.DB.Host)
}

func TestReadConfigEnvOverrideInvalid(t *testing.T) {
	t.Setenv(EnvConfigJSON, `{"Webserver":`)

	_, err := ReadConfig(t.TempDir())
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
			Remote:    Remote{URL: DefaultRemoteURL},
			DB:        DB{GormEngine: EngineSQLite, Path: "data/x.db3"},
		}
	}

	testCases := []struct {
		name          string
		mutate        func(c *Config)
		expectedError error
		check         func(t *testing.T, c Config)
	}{
		{
			name: "defaults filled",
			check: func(t *testing.T, c Config) {
				t.Helper()
				assert.Equal(t, defaultShutDownTime, c.Webserver.ShutDownTime)
				assert.Equal(t, defaultOpenTimeout, c.DB.OpenTimeout)
			},
		},
		{
			name:   "empty engine defaults to sqlite",
			mutate: func(c *Config) { c.DB.GormEngine = "" },
			check: func(t *testing.T, c Config) {
				t.Helper()
				assert.Equal(t, EngineSQLite, c.DB.GormEngine)
			},
		},
		{
			name:          "zero port",
			mutate:        func(c *Config) { c.Webserver.Port = 0 },
			expectedError: ErrWebServerPortCanNotBeZero,
		},
		{
			name:          "empty webserver url",
			mutate:        func(c *Config) { c.Webserver.URL = "" },
			expectedError: ErrEmptyURL,
		},
		{
			name:          "empty remote url",
			mutate:        func(c *Config) { c.Remote.URL = "" },
			expectedError: ErrEmptyRemoteURL,
		},
		{
			name:          "unknown engine",
			mutate:        func(c *Config) { c.DB.GormEngine = "oracle" },
			expectedError: ErrUnknownGormEngine,
		},
		{
			name:          "sqlite without path",
			mutate:        func(c *Config) { c.DB.Path = "" },
			expectedError: ErrEmptyDBPath,
		},
		{
			name: "postgres without path",
			mutate: func(c *Config) {
				c.DB.GormEngine = EnginePostgres
				c.DB.Path = ""
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			if tc.mutate != nil {
				tc.mutate(&c)
			}

			err := validate(&c)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)

				return
			}

			require.NoError(t, err)

			if tc.check != nil {
				tc.check(t, c)
			}
		})
	}
}

func TestDumpConfigJSON(t *testing.T) {
	c := Config{Title: "RecipeSync", DB: DB{GormEngine: EngineMySQL, Password: "secret"}}

	out, err := DumpConfigJSON(&c)
	require.NoError(t, err)

	assert.Contains(t, out, `"Title": "RecipeSync"`)
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "********")
	assert.Equal(t, "secret", c.DB.Password, "the caller's config is not modified")
}
