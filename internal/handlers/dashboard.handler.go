package handlers

import (
	"healthtrack/internal/app"
	dashboardController "healthtrack/internal/controllers/dashboard"
	"healthtrack/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	Handler
	controller dashboardController.DashboardController
}

func NewDashboardHandler(app app.App, router fiber.Router) *DashboardHandler {
	log := logger.New("handlers").File("dashboard_handler")
	return &DashboardHandler{
		controller: *app.DashboardController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *DashboardHandler) Register() {
	h.router.Get("/dashboard", h.middleware.AuthRequired, h.getDashboard)
}

func (h *DashboardHandler) getDashboard(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	dashboard, err := h.controller.Get(c.Context(), user)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "success", "dashboard": dashboard})
}
