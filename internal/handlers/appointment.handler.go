package handlers

import (
	"healthtrack/internal/app"
	"healthtrack/internal/apperrors"
	appointmentController "healthtrack/internal/controllers/appointments"
	"healthtrack/internal/logger"
	. "healthtrack/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AppointmentHandler struct {
	Handler
	controller appointmentController.AppointmentController
}

func NewAppointmentHandler(app app.App, router fiber.Router) *AppointmentHandler {
	log := logger.New("handlers").File("appointment_handler")
	return &AppointmentHandler{
		controller: *app.AppointmentController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AppointmentHandler) Register() {
	appointments := h.router.Group("/appointments", h.middleware.AuthRequired)
	appointments.Post("/", h.book)
	appointments.Post("/:id/confirm", h.confirm)
	appointments.Post("/:id/decline", h.decline)
}

func (h *AppointmentHandler) book(c *fiber.Ctx) error {
	log := h.log.Function("book")

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var request BookAppointmentRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse booking request", err)
		return apperrors.Validation("Invalid date or doctor selection.")
	}

	appointment, err := h.controller.Book(c.Context(), user, request)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Appointment requested successfully. Awaiting confirmation from doctor.",
		"appointment": appointment,
	})
}

func (h *AppointmentHandler) confirm(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return apperrors.NotFound("Appointment not found.")
	}

	appointment, err := h.controller.Confirm(c.Context(), user, id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Appointment confirmed.", "appointment": appointment})
}

func (h *AppointmentHandler) decline(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return apperrors.NotFound("Appointment not found.")
	}

	appointment, err := h.controller.Decline(c.Context(), user, id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Appointment declined.", "appointment": appointment})
}
