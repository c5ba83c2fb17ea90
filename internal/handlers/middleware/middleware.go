package middleware

import (
	"strings"

	"healthtrack/config"
	userController "healthtrack/internal/controllers/users"
	"healthtrack/internal/logger"

	"github.com/gofiber/fiber/v2"
)

const bearerPrefix = "Bearer "

type Middleware struct {
	config config.Config
	users  *userController.UserController
	log    logger.Logger
}

func New(config config.Config, users *userController.UserController) Middleware {
	return Middleware{
		config: config,
		users:  users,
		log:    logger.New("middleware"),
	}
}

// AuthRequired resolves the session token from the cookie or bearer header
// and stores the user and its claims in locals.
func (m Middleware) AuthRequired(c *fiber.Ctx) error {
	user, claims, err := m.users.Authorize(c.Context(), m.SessionToken(c))
	if err != nil {
		return err
	}

	c.Locals("user", *user)
	c.Locals("claims", claims)
	return c.Next()
}

func (m Middleware) SessionToken(c *fiber.Ctx) string {
	if token := c.Cookies(m.config.SecurityCookieName); token != "" {
		return token
	}

	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}

	return ""
}
