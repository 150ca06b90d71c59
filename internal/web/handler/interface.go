package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/RecipeSync/RecipeSync/internal/db/models"
)

// ErrNilDependency is returned by Init when the router or a dependency is missing.
var ErrNilDependency = errors.New(ErrNilDepsFatalLogMsg)

// Service is the interface for a web handler service.
type Service interface {
	Init(router fiber.Router) error
}

// Recipes is the repository surface served over http.
type Recipes interface {
	GetRecipes(ctx context.Context) ([]models.Recipe, error)
	SeedLocalFromRemote(ctx context.Context) (int, error)
}

// OnlineMode reads and saves the mode flag.
type OnlineMode interface {
	Online(ctx context.Context) (bool, error)
	Set(ctx context.Context, online bool) error
}
