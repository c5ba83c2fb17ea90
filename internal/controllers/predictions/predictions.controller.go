package predictionController

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"healthtrack/internal/apperrors"
	"healthtrack/internal/logger"
	. "healthtrack/internal/models"
	"healthtrack/internal/policy"
	"healthtrack/internal/prediction"
	"healthtrack/internal/repositories"

	"gorm.io/datatypes"
)

const (
	modelNotReadyNotice   = "Prediction model not ready. Try again later."
	emptySubmissionNotice = "Please fill in the assessment form."
	nonFiniteNotice       = "Assessment values must be finite numbers."
)

type Assessment struct {
	Record      HealthRecord         `json:"record"`
	Probability float64              `json:"probability"`
	Threshold   float64              `json:"threshold"`
	Level       prediction.RiskLevel `json:"level"`
}

type Readiness struct {
	Ready   bool     `json:"ready"`
	Columns []string `json:"columns"`
}

// PredictionController scores health submissions against the artifact loaded
// at start. A nil artifact means no model is deployed.
type PredictionController struct {
	artifact   *prediction.Artifact
	recordRepo repositories.HealthRecordRepository
	log        logger.Logger
}

func New(
	artifact *prediction.Artifact,
	recordRepo repositories.HealthRecordRepository,
) *PredictionController {
	return &PredictionController{
		artifact:   artifact,
		recordRepo: recordRepo,
		log:        logger.New("PredictionController"),
	}
}

func (pc *PredictionController) Readiness() Readiness {
	if pc.artifact == nil {
		return Readiness{Columns: []string{}}
	}
	return Readiness{Ready: true, Columns: pc.artifact.Columns()}
}

// Score aligns the submission, predicts the risk probability and appends
// exactly one health record. Nothing is stored when any step fails.
func (pc *PredictionController) Score(
	ctx context.Context,
	actor User,
	submission map[string]string,
) (*Assessment, error) {
	log := pc.log.Function("Score")

	if err := policy.CanRequestAssessment(actor); err != nil {
		return nil, err
	}

	if pc.artifact == nil {
		log.Warn("Assessment requested without a loaded model", "userID", actor.ID)
		return nil, apperrors.Unavailable(modelNotReadyNotice)
	}

	if !hasValues(submission) {
		return nil, apperrors.Validation(emptySubmissionNotice)
	}

	_, probability, err := pc.artifact.Score(submission)
	if err != nil {
		if errors.Is(err, prediction.ErrNonFiniteFeature) {
			return nil, apperrors.Validation(nonFiniteNotice)
		}
		return nil, log.Err("failed to score submission", err, "userID", actor.ID)
	}

	data, err := json.Marshal(submission)
	if err != nil {
		return nil, log.Err("failed to encode submission", err)
	}

	record := HealthRecord{
		UserID:     actor.ID,
		Data:       datatypes.JSON(data),
		Prediction: probability,
	}
	if err := pc.recordRepo.Create(ctx, &record); err != nil {
		return nil, log.Err("failed to store health record", err, "userID", actor.ID)
	}

	level := prediction.LevelOf(probability)
	log.Info("Assessment stored", "recordID", record.ID, "userID", actor.ID, "level", level)

	return &Assessment{
		Record:      record,
		Probability: probability,
		Threshold:   prediction.DecisionThreshold,
		Level:       level,
	}, nil
}

func hasValues(submission map[string]string) bool {
	for _, value := range submission {
		if strings.TrimSpace(value) != "" {
			return true
		}
	}
	return false
}
