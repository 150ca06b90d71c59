package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RecipeSync/RecipeSync/internal/config"
	"github.com/RecipeSync/RecipeSync/internal/db/controller/onlinemode"
	"github.com/RecipeSync/RecipeSync/internal/db/models"
	"github.com/RecipeSync/RecipeSync/internal/localstore"
	"github.com/RecipeSync/RecipeSync/internal/recipes"
	"github.com/RecipeSync/RecipeSync/internal/remote"
	recipeshandler "github.com/RecipeSync/RecipeSync/internal/web/handler/recipes"
	onlinemodehandler "github.com/RecipeSync/RecipeSync/internal/web/handler/settings/onlinemode"
)

const recipesJSON = `[
  {"recipeId": 1, "recipeName": "Raspberry Smoothie", "recipePhotoUrl": "http://x/r.png", "recipeInstructions": "Blend."},
  {"recipeId": 2, "recipeName": "Lemonade", "recipePhotoUrl": "", "recipeInstructions": "Squeeze."}
]`

type testEnv struct {
	service *Service
	remote  *httptest.Server
}

// setupService wires a real repository against a temp sqlite store and an httptest source.
func setupService(t *testing.T, remoteStatus int) *testEnv {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(remoteStatus)
		_, _ = w.Write([]byte(recipesJSON))
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Title:     "RecipeSync",
		DevMode:   true,
		Webserver: config.Webserver{Port: 8080, URL: "http://localhost:8080", ShutDownTime: 1},
		DB: config.DB{
			GormEngine:  config.EngineSQLite,
			Path:        filepath.Join(t.TempDir(), config.DefaultDatabaseFilename),
			OpenTimeout: time.Second,
		},
	}

	store := localstore.New(cfg.DB)
	t.Cleanup(func() { _ = store.Close() })

	flag := onlinemode.NewFlag(store)
	repo := recipes.New(remote.New(srv.URL), localstore.NewTable[models.Recipe](store), flag)

	service, err := New(cfg, repo, flag)
	require.NoError(t, err)

	return &testEnv{service: service, remote: srv}
}

func (e *testEnv) do(t *testing.T, method, target, body string) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := e.service.App.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(data)
}

func names(t *testing.T, body string) []string {
	t.Helper()

	var items []models.Recipe
	require.NoError(t, json.Unmarshal([]byte(body), &items))

	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}

	return out
}

func TestNewNilDependencies(t *testing.T) {
	_, err := New(nil, nil, nil)
	require.Error(t, err)
}

func TestCheckAlive(t *testing.T) {
	env := setupService(t, http.StatusOK)

	resp, body := env.do(t, http.MethodGet, CheckAlivePath, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	env.service.alive.Store(false)

	resp, _ = env.do(t, http.MethodGet, CheckAlivePath, "")
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	env := setupService(t, http.StatusOK)

	// produce at least one repository sample
	env.do(t, http.MethodGet, recipeshandler.Path, "")

	resp, body := env.do(t, http.MethodGet, MetricsPath, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "recipes_get_total")
}

func TestRecipesFlow(t *testing.T) {
	env := setupService(t, http.StatusOK)

	// online by default, served from the remote source without ids
	resp, body := env.do(t, http.MethodGet, recipeshandler.Path, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Raspberry Smoothie", "Lemonade"}, names(t, body))

	// switch offline, the empty local store answers
	resp, _ = env.do(t, http.MethodPut, onlinemodehandler.Path, `{"onlineMode": false}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, recipeshandler.Path, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body)

	// seed, then seed again
	resp, body = env.do(t, http.MethodPost, recipeshandler.Path+recipeshandler.SeedPath, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"inserted": 2}`, body)

	resp, body = env.do(t, http.MethodPost, recipeshandler.Path+recipeshandler.SeedPath, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"inserted": 0, "alreadySeeded": true}`, body)

	resp, body = env.do(t, http.MethodGet, recipeshandler.Path, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Raspberry Smoothie", "Lemonade"}, names(t, body))

	var local []models.Recipe
	require.NoError(t, json.Unmarshal([]byte(body), &local))
	assert.NotZero(t, local[0].ID)
}

func TestRecipesRemoteFailure(t *testing.T) {
	env := setupService(t, http.StatusInternalServerError)

	resp, _ := env.do(t, http.MethodGet, recipeshandler.Path, "")
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, recipeshandler.Path+recipeshandler.SeedPath, "")
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestWaitShutdown(t *testing.T) {
	env := setupService(t, http.StatusOK)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// the server never listened, only the state change matters here
	_ = env.service.WaitShutdown(ctx)
	assert.False(t, env.service.alive.Load())
}
