package predictionController

import (
	"context"
	"math"
	"net/http"
	"testing"

	"healthtrack/config"
	"healthtrack/internal/apperrors"
	"healthtrack/internal/database"
	. "healthtrack/internal/models"
	"healthtrack/internal/prediction"
	"healthtrack/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"age", "sex_M", "cp_typical", "cp_atypical"}

type env struct {
	records repositories.HealthRecordRepository
	patient User
	doctor  User
}

func newEnv(t *testing.T) env {
	t.Helper()
	ctx := context.Background()

	db, err := database.New(config.Config{DatabaseDbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := repositories.New(db)
	e := env{
		records: repositories.NewHealthRecord(db),
		patient: User{Name: "Alice", Email: "alice@x.com", PasswordHash: "h", Role: RolePatient},
		doctor:  User{Name: "Doc", Email: "doc@x.com", PasswordHash: "h", Role: RoleDoctor},
	}
	require.NoError(t, users.Create(ctx, &e.patient))
	require.NoError(t, users.Create(ctx, &e.doctor))
	return e
}

func newArtifact(t *testing.T) *prediction.Artifact {
	t.Helper()
	artifact, err := prediction.NewArtifact(
		&prediction.LogisticRegression{Coefficients: []float64{0.05, 0.8, 0.6, -0.4}, Intercept: -3},
		columns,
	)
	require.NoError(t, err)
	return artifact
}

func TestScore_StoresOneRecord(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	pc := New(newArtifact(t), e.records)

	submission := map[string]string{"age": "45", "sex": "M", "cp": "typical"}
	assessment, err := pc.Score(ctx, e.patient, submission)
	require.NoError(t, err)

	want := 1 / (1 + math.Exp(-(0.05*45 + 0.8 + 0.6 - 3)))
	assert.InDelta(t, want, assessment.Probability, 1e-12)
	assert.Equal(t, 0.5, assessment.Threshold)
	assert.Equal(t, prediction.LevelOf(want), assessment.Level)
	assert.Equal(t, e.patient.ID, assessment.Record.UserID)

	records, err := e.records.ListByUser(ctx, e.patient.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, want, records[0].Prediction, 1e-12)

	stored, err := records[0].Submission()
	require.NoError(t, err)
	assert.Equal(t, submission, stored, "the raw submission is kept verbatim")
}

func TestScore_ModelUnavailable(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	pc := New(nil, e.records)

	_, err := pc.Score(ctx, e.patient, map[string]string{"age": "45", "sex": "M", "cp": "typical"})
	status, notice := apperrors.Present(err)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "Prediction model not ready. Try again later.", notice)

	records, err := e.records.ListByUser(ctx, e.patient.ID)
	require.NoError(t, err)
	assert.Empty(t, records)

	assert.Equal(t, Readiness{Columns: []string{}}, pc.Readiness())
}

func TestScore_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		actor      func(env) User
		submission map[string]string
		kind       apperrors.Kind
	}{
		{"doctor", func(e env) User { return e.doctor }, map[string]string{"age": "45"}, apperrors.KindForbidden},
		{"empty submission", func(e env) User { return e.patient }, map[string]string{}, apperrors.KindValidation},
		{"blank values", func(e env) User { return e.patient }, map[string]string{"age": "  "}, apperrors.KindValidation},
		{"not a number", func(e env) User { return e.patient }, map[string]string{"age": "NaN"}, apperrors.KindValidation},
		{"infinite", func(e env) User { return e.patient }, map[string]string{"age": "+Inf"}, apperrors.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			e := newEnv(t)
			pc := New(newArtifact(t), e.records)

			actor := tt.actor(e)
			_, err := pc.Score(ctx, actor, tt.submission)
			assert.Equal(t, tt.kind, apperrors.KindOf(err))

			records, err := e.records.ListByUser(ctx, actor.ID)
			require.NoError(t, err)
			assert.Empty(t, records)
		})
	}
}

func TestScore_UnseenCategoryMatchesOmission(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	pc := New(newArtifact(t), e.records)

	unseen, err := pc.Score(ctx, e.patient, map[string]string{"age": "45", "sex": "M", "cp": "asymptomatic"})
	require.NoError(t, err)
	omitted, err := pc.Score(ctx, e.patient, map[string]string{"age": "45", "sex": "M"})
	require.NoError(t, err)

	assert.Equal(t, omitted.Probability, unseen.Probability)
}

func TestReadiness(t *testing.T) {
	pc := New(newArtifact(t), nil)
	assert.Equal(t, Readiness{Ready: true, Columns: columns}, pc.Readiness())
}
