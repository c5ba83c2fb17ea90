package handlers

import (
	. "healthtrack/internal/models"

	"github.com/gofiber/fiber/v2"
)

// currentUser returns the user AuthRequired stored in locals.
func currentUser(c *fiber.Ctx) (User, error) {
	user, ok := c.Locals("user").(User)
	if !ok || user.ID == 0 {
		return User{}, fiber.NewError(fiber.StatusUnauthorized, "Please log in to continue.")
	}
	return user, nil
}
