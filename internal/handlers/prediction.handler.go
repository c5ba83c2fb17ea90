package handlers

import (
	"bytes"
	"encoding/json"
	"strconv"

	"healthtrack/internal/app"
	"healthtrack/internal/apperrors"
	predictionController "healthtrack/internal/controllers/predictions"
	"healthtrack/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type PredictionHandler struct {
	Handler
	controller predictionController.PredictionController
}

func NewPredictionHandler(app app.App, router fiber.Router) *PredictionHandler {
	log := logger.New("handlers").File("prediction_handler")
	return &PredictionHandler{
		controller: *app.PredictionController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *PredictionHandler) Register() {
	predict := h.router.Group("/predict", h.middleware.AuthRequired)
	predict.Get("/", h.getReadiness)
	predict.Post("/", h.score)
}

func (h *PredictionHandler) getReadiness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "success", "model": h.controller.Readiness()})
}

func (h *PredictionHandler) score(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	submission, err := parseSubmission(c)
	if err != nil {
		h.log.Function("score").Debug("Rejected submission body", "error", err)
		return err
	}

	assessment, err := h.controller.Score(c.Context(), user, submission)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"message": "success", "assessment": assessment})
}

// parseSubmission reads the assessment fields from a JSON object or a form
// body. JSON numbers keep their literal text.
func parseSubmission(c *fiber.Ctx) (map[string]string, error) {
	submission := map[string]string{}

	if !c.Is("json") {
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			submission[string(key)] = string(value)
		})
		return submission, nil
	}

	var raw map[string]any
	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return nil, apperrors.Validation("Submission must be a JSON object.")
	}

	for key, value := range raw {
		switch v := value.(type) {
		case nil:
		case string:
			submission[key] = v
		case json.Number:
			submission[key] = v.String()
		case bool:
			submission[key] = strconv.FormatBool(v)
		default:
			return nil, apperrors.Validation("Submission values must be text or numbers.")
		}
	}

	return submission, nil
}
