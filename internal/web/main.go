// Package web serves the recipe repository as a JSON http api.
package web

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/RecipeSync/RecipeSync/internal/config"
	accesslog "github.com/RecipeSync/RecipeSync/internal/logger/adapter/fiber"
	"github.com/RecipeSync/RecipeSync/internal/web/handler"
	"github.com/RecipeSync/RecipeSync/internal/web/handler/recipes"
	"github.com/RecipeSync/RecipeSync/internal/web/handler/settings/onlinemode"
)

const (
	// CheckAlivePath answers 200 while the service accepts traffic.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes the prometheus registry.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, repo handler.Recipes, mode handler.OnlineMode) (*Service, error) {
	if cfg == nil || repo == nil || mode == nil {
		return nil, handler.ErrNilDependency
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192, //nolint:mnd
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Immutable:      true,
		},
	)

	service := &Service{
		App:          app,
		cfg:          cfg,
		fastShutDown: cfg.DevMode,
	}

	app.Use(requestid.New())
	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	services := []handler.Service{
		recipes.New(repo),
		onlinemode.New(mode),
	}

	for _, h := range services {
		if err := h.Init(app); err != nil {
			return nil, err
		}
	}

	service.alive.Store(true)

	return service, nil
}

func (s *Service) checkAlive(c fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}

// Start listens on addr until the app is shut down.
func (s *Service) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("starting http server")

	return s.App.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true}) //nolint:wrapcheck
}

// WaitShutdown blocks until ctx is done and stops the http server.
// Unless in dev mode checkalive answers 503 for Webserver.ShutDownTime seconds first,
// so load balancers can take the instance out of rotation.
func (s *Service) WaitShutdown(ctx context.Context) error {
	<-ctx.Done()
	log.Info().Msg("shutdown request")

	s.alive.Store(false)

	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")

		return err //nolint:wrapcheck
	}

	log.Info().Msg("http server was stopped ... good bye...")

	return nil
}
