package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/RecipeSync/RecipeSync/internal/remote"
)

// StatusFor maps a repository error to the response status.
// Failures of the remote source are upstream problems, everything else is ours.
func StatusFor(err error) int {
	if errors.Is(err, remote.ErrNetworkFailure) {
		return fiber.StatusBadGateway
	}

	return fiber.StatusInternalServerError
}

// Error writes err as JSON body with the status from StatusFor.
func Error(c fiber.Ctx, err error) error {
	return JSONError(c, StatusFor(err), err.Error())
}

// JSONError writes {"error": msg} with status.
func JSONError(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
