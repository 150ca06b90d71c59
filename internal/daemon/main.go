// Package daemon wires the recipe repository into the http service.
package daemon

import (
	"context"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/RecipeSync/RecipeSync/internal/config"
	"github.com/RecipeSync/RecipeSync/internal/db/controller/onlinemode"
	"github.com/RecipeSync/RecipeSync/internal/db/controller/seedclaim"
	"github.com/RecipeSync/RecipeSync/internal/db/models"
	"github.com/RecipeSync/RecipeSync/internal/localstore"
	"github.com/RecipeSync/RecipeSync/internal/recipes"
	"github.com/RecipeSync/RecipeSync/internal/remote"
	"github.com/RecipeSync/RecipeSync/internal/web"
)

// Components are the long lived parts shared by the daemon and the cli commands.
type Components struct {
	Store      *localstore.Store
	Flag       *onlinemode.Flag
	Remote     *remote.Client
	Repository *recipes.Repository
}

// Build creates the components for cfg. mode overrides the persisted flag when not nil.
func Build(cfg *config.Config, mode recipes.Mode) *Components {
	store := localstore.New(cfg.DB)
	flag := onlinemode.NewFlag(store)
	client := remote.New(cfg.Remote.URL, remote.WithTimeout(cfg.Remote.Timeout))

	if mode == nil {
		mode = flag
	}

	return &Components{
		Store:      store,
		Flag:       flag,
		Remote:     client,
		Repository: recipes.New(client, localstore.NewTable[models.Recipe](store), mode,
			recipes.WithSeedGuard(seedclaim.New(store))),
	}
}

// Close releases the local store.
func (c *Components) Close() error {
	return c.Store.Close()
}

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	components *Components
	webService *web.Service
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, config.ErrNilConfig
	}

	components := Build(cfg, nil)

	webService, err := web.New(cfg, components.Repository, components.Flag)
	if err != nil {
		_ = components.Close()

		return nil, err
	}

	return &Daemon{
		cfg:        cfg,
		components: components,
		webService: webService,
	}, nil
}

// Start opens the local store, optionally seeds it and serves http until ctx is done.
func (d *Daemon) Start(ctx context.Context) error {
	defer func() {
		if err := d.components.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close local store")
		}
	}()

	// fail early on a broken store instead of on the first request
	if err := d.components.Store.Initialize(ctx); err != nil {
		return err
	}

	if d.cfg.SeedOnStart {
		seed(ctx, d.components.Repository)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return d.webService.Start(":" + strconv.Itoa(d.cfg.Webserver.Port))
	})

	g.Go(func() error {
		return d.webService.WaitShutdown(gctx)
	})

	return g.Wait() //nolint:wrapcheck
}
