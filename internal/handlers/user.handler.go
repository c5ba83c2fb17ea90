package handlers

import (
	"time"

	"healthtrack/config"
	"healthtrack/internal/app"
	"healthtrack/internal/apperrors"
	userController "healthtrack/internal/controllers/users"
	"healthtrack/internal/logger"
	. "healthtrack/internal/models"
	"healthtrack/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	controller userController.UserController
	config     config.Config
	sessionTTL time.Duration
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	log := logger.New("handlers").File("user_handler")
	return &UserHandler{
		controller: *app.UserController,
		config:     app.Config,
		sessionTTL: app.Tokens.TTL(),
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users")
	users.Post("/register", h.register)
	users.Post("/login", h.login)

	users.Get("/", h.middleware.AuthRequired, h.getUser)
	users.Post("/logout", h.middleware.AuthRequired, h.logout)
}

func (h *UserHandler) register(c *fiber.Ctx) error {
	log := h.log.Function("register")

	var request RegisterRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse register request", err)
		return apperrors.Validation("failed to parse register request")
	}

	user, err := h.controller.Register(c.Context(), request)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"message": "Account created. Please log in.", "user": user})
}

func (h *UserHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var loginRequest LoginRequest
	if err := c.BodyParser(&loginRequest); err != nil {
		log.Er("failed to parse login request", err)
		return apperrors.Validation("failed to parse login request")
	}

	user, token, err := h.controller.Login(c.Context(), loginRequest)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.config.SecurityCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.sessionTTL),
		HTTPOnly: true,
		Secure:   h.config.SecurityCookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{"message": "success", "user": user, "token": token})
}

func (h *UserHandler) getUser(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(User)
	if !ok || user.ID == 0 {
		h.log.Function("getUser").ErMsg("No user found in locals")
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "error", "error": "failed to get user"})
	}

	return c.JSON(fiber.Map{"message": "success", "user": user})
}

func (h *UserHandler) logout(c *fiber.Ctx) error {
	claims, _ := c.Locals("claims").(*utils.Claims)
	if err := h.controller.Logout(c.Context(), claims); err != nil {
		return err
	}

	c.ClearCookie(h.config.SecurityCookieName)
	return c.JSON(fiber.Map{"message": "success"})
}
