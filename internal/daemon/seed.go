package daemon

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/RecipeSync/RecipeSync/internal/recipes"
)

// seed fills an empty local store at startup.
// Failures are logged only: the daemon serves the remote source without a local copy.
func seed(ctx context.Context, repo *recipes.Repository) {
	n, err := repo.SeedLocalFromRemote(ctx)

	switch {
	case errors.Is(err, recipes.ErrAlreadySeeded):
		log.Debug().Msg("startup seeding skipped, local store not empty")
	case err != nil:
		log.Warn().Err(err).Int("inserted", n).Msg("startup seeding failed")
	default:
		log.Info().Int("inserted", n).Msg("startup seeding done")
	}
}
