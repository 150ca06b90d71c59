// Package onlinemode exposes the online mode flag over http.
package onlinemode

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	controller "github.com/RecipeSync/RecipeSync/internal/db/controller/onlinemode"
	"github.com/RecipeSync/RecipeSync/internal/web/handler"
)

const (
	// Path is the online mode settings endpoint.
	Path = handler.APIPrefix + "/settings/online-mode"
)

// Service is the online mode settings handler service.
type Service struct {
	flag      handler.OnlineMode
	validator *validator.Validate
}

// New creates the handler around flag.
func New(flag handler.OnlineMode) *Service {
	return &Service{
		flag:      flag,
		validator: validator.New(),
	}
}

// Init registers the routes.
func (s *Service) Init(router fiber.Router) error {
	if router == nil || s.flag == nil {
		return handler.ErrNilDependency
	}

	router.Get(Path, s.Get)
	router.Put(Path, s.Put)

	return nil
}

// Get returns the stored flag, the default while none was saved.
func (s *Service) Get(c fiber.Ctx) error {
	online, err := s.flag.Online(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to load online mode")

		return handler.Error(c, err)
	}

	return c.JSON(controller.Settings{OnlineMode: &online})
}

// Put saves the flag from a {"onlineMode": bool} body.
func (s *Service) Put(c fiber.Ctx) error {
	settings := controller.Settings{}
	if err := c.Bind().JSON(&settings); err != nil {
		log.Warn().Err(err).Msg("failed to parse online mode body")

		return handler.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}

	if err := s.validator.Struct(settings); err != nil {
		var validationErrors validator.ValidationErrors
		errors.As(err, &validationErrors)

		msg := "invalid body"
		if len(validationErrors) > 0 {
			msg = "field '" + validationErrors[0].Field() + "' failed validation tag '" + validationErrors[0].Tag() + "'"
		}

		return handler.JSONError(c, fiber.StatusBadRequest, msg)
	}

	if err := s.flag.Set(c.Context(), settings.Enabled()); err != nil {
		log.Error().Err(err).Msg("failed to save online mode")

		return handler.Error(c, err)
	}

	log.Info().Bool("onlineMode", settings.Enabled()).Msg("online mode saved")

	return c.JSON(settings)
}
