package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresent(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantNotice string
		wantKind   Kind
	}{
		{"validation", Validation("Please select doctor, date, and time."), http.StatusBadRequest, "Please select doctor, date, and time.", KindValidation},
		{"duplicate", Duplicate("Email already registered"), http.StatusConflict, "Email already registered", KindValidation},
		{"unauthenticated", Unauthenticated("Invalid credentials."), http.StatusUnauthorized, "Invalid credentials.", KindUnauthenticated},
		{"forbidden", Forbidden("Unauthorized."), http.StatusForbidden, "Unauthorized.", KindForbidden},
		{"not found", NotFound("Appointment not found."), http.StatusNotFound, "Appointment not found.", KindNotFound},
		{"unavailable", Unavailable("Model not ready."), http.StatusServiceUnavailable, "Model not ready.", KindUnavailable},
		{"conflict", Conflict("Already decided."), http.StatusConflict, "Already decided.", KindConflict},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "Something went wrong. Please try again.", KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, notice := Present(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantNotice, notice)
			assert.Equal(t, tt.wantKind, KindOf(tt.err))
		})
	}
}

func TestPresent_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("confirm appointment: %w", Forbidden("Unauthorized."))

	status, notice := Present(err)

	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Unauthorized.", notice)
	assert.Equal(t, "forbidden", KindOf(err).String())
}
