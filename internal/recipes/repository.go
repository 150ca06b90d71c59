// Package recipes implements the recipe repository: one "get recipes" operation
// served either by the remote source or by the local store, selected by the online
// mode flag, plus the one-time seeding of the local store from the remote source.
//
// The two backends are never merged. Remote recipes carry no local ID and local IDs
// do not correlate with anything the remote source returns.
package recipes

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/RecipeSync/RecipeSync/internal/db/models"
)

// Source is the remote recipe provider.
type Source interface {
	FetchAll(ctx context.Context) ([]models.Recipe, error)
}

// LocalStore is the persistent recipe table.
type LocalStore interface {
	List(ctx context.Context) ([]models.Recipe, error)
	Count(ctx context.Context) (int64, error)
	InsertAll(ctx context.Context, items []models.Recipe) (int, error)
}

// Mode reports whether recipes are served from the remote source.
type Mode interface {
	Online(ctx context.Context) (bool, error)
}

// SeedGuard admits one seeding pass across every process sharing the local store.
// Acquire reports false while another pass holds the guard. Release gives it back
// after a pass that left the store empty.
type SeedGuard interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// Option configures a Repository.
type Option func(*Repository)

// WithSeedGuard makes seeding take guard before fetching.
func WithSeedGuard(guard SeedGuard) Option {
	return func(r *Repository) {
		r.guard = guard
	}
}

// StaticMode is a fixed Mode.
type StaticMode bool

// Online implements Mode.
func (m StaticMode) Online(context.Context) (bool, error) {
	return bool(m), nil
}

// Repository selects the recipe backend per call.
type Repository struct {
	source Source
	store  LocalStore
	mode   Mode
	guard  SeedGuard

	seedMu sync.Mutex
}

// New creates a repository.
func New(source Source, store LocalStore, mode Mode, opts ...Option) *Repository {
	r := &Repository{
		source: source,
		store:  store,
		mode:   mode,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// GetRecipes returns the recipes of the backend selected by the mode flag.
// The flag is read once per call. Errors of the backend are returned unchanged.
func (r *Repository) GetRecipes(ctx context.Context) ([]models.Recipe, error) {
	online, err := r.mode.Online(ctx)
	if err != nil {
		observeGet(sourceMode, err)

		return nil, err
	}

	if online {
		items, err := r.source.FetchAll(ctx)
		observeGet(sourceRemote, err)

		return items, err
	}

	items, err := r.store.List(ctx)
	observeGet(sourceLocal, err)

	return items, err
}

// SeedLocalFromRemote copies the remote recipes into an empty local store and
// returns the number of inserted rows.
//
// When the store already holds recipes it returns ErrAlreadySeeded and changes
// nothing. Concurrent calls are serialized, so at most one of them inserts; with a
// SeedGuard this also holds for calls in other processes. Success
// means every fetched recipe was inserted; otherwise the store's partial insert error
// is returned and the rows inserted before the failure stay.
func (r *Repository) SeedLocalFromRemote(ctx context.Context) (int, error) {
	r.seedMu.Lock()
	defer r.seedMu.Unlock()

	n, err := r.seed(ctx)

	switch {
	case errors.Is(err, ErrAlreadySeeded):
		seedCounter.WithLabelValues(resultAlreadySeeded).Inc()
		log.Info().Msg("local store already seeded")
	case err != nil:
		seedCounter.WithLabelValues(resultError).Inc()
		log.Error().Err(err).Int("inserted", n).Msg("seeding local store failed")
	default:
		seedCounter.WithLabelValues(resultOK).Inc()
		log.Info().Int("inserted", n).Msg("local store seeded")
	}

	return n, err
}

func (r *Repository) seed(ctx context.Context) (int, error) {
	count, err := r.store.Count(ctx)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		return 0, ErrAlreadySeeded
	}

	if r.guard == nil {
		return r.fetchAndInsert(ctx)
	}

	acquired, err := r.guard.Acquire(ctx)
	if err != nil {
		return 0, err
	}

	if !acquired {
		return 0, ErrAlreadySeeded
	}

	// a pass elsewhere may have finished between the count and the claim
	count, err = r.store.Count(ctx)
	if err != nil {
		r.release(ctx)

		return 0, err
	}

	if count > 0 {
		return 0, ErrAlreadySeeded
	}

	n, err := r.fetchAndInsert(ctx)
	if n == 0 {
		r.release(ctx)
	}

	return n, err
}

func (r *Repository) fetchAndInsert(ctx context.Context) (int, error) {
	items, err := r.source.FetchAll(ctx)
	if err != nil {
		return 0, err
	}

	return r.store.InsertAll(ctx, items)
}

// release frees the guard after a pass that left the store empty.
func (r *Repository) release(ctx context.Context) {
	if err := r.guard.Release(context.WithoutCancel(ctx)); err != nil {
		log.Warn().Err(err).Msg("failed to release seed claim")
	}
}
