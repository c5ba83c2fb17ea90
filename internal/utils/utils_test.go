package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("pw123")
	require.NoError(t, err)

	assert.NotEqual(t, "pw123", hash)
	assert.True(t, strings.HasPrefix(hash, "$2"))
	assert.True(t, CheckPasswordHash("pw123", hash))
	assert.False(t, CheckPasswordHash("pw124", hash))

	again, err := HashPassword("pw123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes should be salted")
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, issued, err := m.Generate(42, "patient")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := m.Validate(token)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
	assert.Equal(t, "patient", claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestTokenManager_UniqueIDs(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	_, first, err := m.Generate(1, "doctor")
	require.NoError(t, err)
	_, second, err := m.Generate(1, "doctor")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	token, _, err := m.Generate(1, "patient")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenManager("other", time.Hour).Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewTokenManager("secret", time.Hour)
		expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := expired.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no secret", func(t *testing.T) {
		_, err := NewTokenManager("", time.Hour).Validate(token)
		assert.Error(t, err)
		_, _, err = NewTokenManager("", time.Hour).Generate(1, "patient")
		assert.Error(t, err)
	})
}

func TestValidateISODate(t *testing.T) {
	tests := []struct {
		input  string
		valid  bool
		want   string
		format DateFormat
	}{
		{"2024-03-01", true, "2024-03-01", FormatISO8601Date},
		{" 2024-03-01 ", true, "2024-03-01", FormatISO8601Date},
		{"2024-03-01T10:00", true, "2024-03-01", FormatISO8601Minutes},
		{"2024-03-01T10:00:30", true, "2024-03-01", FormatISO8601Seconds},
		{"2024-03-01T23:30:00+02:00", true, "2024-03-01", FormatISO8601},
		{"2024-03-01 09:15:00", true, "2024-03-01", FormatISO8601SpaceSec},
		{"2024-02-30", false, "", ""},
		{"03/01/2024", false, "", ""},
		{"tomorrow", false, "", ""},
		{"", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ValidateISODate(tt.input)
			assert.Equal(t, tt.valid, result.IsValid)
			assert.Equal(t, tt.input, result.OriginalValue)
			if tt.valid {
				assert.Equal(t, tt.want, result.ParsedTime.Format("2006-01-02"))
				assert.Equal(t, tt.format, result.DetectedFormat)
				assert.Equal(t, time.UTC, result.ParsedTime.Location())
			}
		})
	}
}
