// Package recipes serves the recipe list and the seeding action over http.
package recipes

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/RecipeSync/RecipeSync/internal/recipes"
	"github.com/RecipeSync/RecipeSync/internal/web/handler"
)

const (
	// Path is the route group of the recipe endpoints.
	Path = handler.APIPrefix + "/recipes"

	// SeedPath is appended to Path for the seeding action.
	SeedPath = "/seed"
)

// SeedResult is the body of a seed response.
type SeedResult struct {
	Inserted      int    `json:"inserted"`
	AlreadySeeded bool   `json:"alreadySeeded,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Service is the recipes handler service.
type Service struct {
	repo handler.Recipes
}

// New creates the handler around repo.
func New(repo handler.Recipes) *Service {
	return &Service{repo: repo}
}

// Init registers the routes.
func (s *Service) Init(router fiber.Router) error {
	if router == nil || s.repo == nil {
		return handler.ErrNilDependency
	}

	group := router.Group(Path)
	group.Get(handler.RootPath, s.List)
	group.Post(SeedPath, s.Seed)

	return nil
}

// List returns the recipes of the backend the mode flag selects.
func (s *Service) List(c fiber.Ctx) error {
	items, err := s.repo.GetRecipes(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to get recipes")

		return handler.Error(c, err)
	}

	return c.JSON(items)
}

// Seed copies the remote recipes into an empty local store.
// An already seeded store answers 200 without inserting anything.
func (s *Service) Seed(c fiber.Ctx) error {
	n, err := s.repo.SeedLocalFromRemote(c.Context())

	switch {
	case errors.Is(err, recipes.ErrAlreadySeeded):
		return c.Status(fiber.StatusOK).JSON(SeedResult{AlreadySeeded: true})
	case err != nil:
		return c.Status(handler.StatusFor(err)).JSON(SeedResult{Inserted: n, Error: err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(SeedResult{Inserted: n})
}
