package dashboardController

import (
	"context"
	"testing"
	"time"

	"healthtrack/config"
	"healthtrack/internal/database"
	. "healthtrack/internal/models"
	"healthtrack/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	db, err := database.New(config.Config{DatabaseDbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := repositories.New(db)
	records := repositories.NewHealthRecord(db)
	appointments := repositories.NewAppointment(db)
	dc := New(users, records, appointments)

	patient := User{Name: "Pat", Email: "pat@x.com", PasswordHash: "h", Role: RolePatient}
	doctor := User{Name: "Doc", Email: "doc@x.com", PasswordHash: "h", Role: RoleDoctor}
	other := User{Name: "Other", Email: "other@x.com", PasswordHash: "h", Role: RoleDoctor}
	for _, u := range []*User{&patient, &doctor, &other} {
		require.NoError(t, users.Create(ctx, u))
	}

	for _, p := range []float64{0.2, 0.5, 0.8} {
		require.NoError(t, records.Create(ctx, &HealthRecord{UserID: patient.ID, Data: datatypes.JSON(`{}`), Prediction: p}))
	}
	require.NoError(t, appointments.Create(ctx, &Appointment{
		PatientID: patient.ID,
		DoctorID:  &doctor.ID,
		Date:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Time:      "09:00",
		Status:    StatusPending,
	}))

	t.Run("patient", func(t *testing.T) {
		dashboard, err := dc.Get(ctx, patient)
		require.NoError(t, err)
		assert.Equal(t, RolePatient, dashboard.Role)
		assert.Len(t, dashboard.HealthRecords, 3)
		require.NotNil(t, dashboard.Summary)
		assert.Equal(t, repositories.RiskSummary{LowRisk: 1, HighRisk: 2}, *dashboard.Summary)
		assert.Len(t, dashboard.Appointments, 1)
		assert.Len(t, dashboard.Doctors, 2)
	})

	t.Run("assigned doctor", func(t *testing.T) {
		dashboard, err := dc.Get(ctx, doctor)
		require.NoError(t, err)
		assert.Len(t, dashboard.Appointments, 1)
		assert.Nil(t, dashboard.Summary)
		assert.Empty(t, dashboard.Doctors)
	})

	t.Run("doctor without appointments", func(t *testing.T) {
		dashboard, err := dc.Get(ctx, other)
		require.NoError(t, err)
		assert.NotNil(t, dashboard.Appointments)
		assert.Empty(t, dashboard.Appointments)
	})
}
