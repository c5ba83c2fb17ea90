package services

import (
	"context"
	"errors"
	"testing"

	"healthtrack/config"
	"healthtrack/internal/database"
	. "healthtrack/internal/models"
	"healthtrack/internal/websockets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	userID    int
	eventType string
}

type fakeNotifier struct{ sent []sent }

func (f *fakeNotifier) Notify(userID int, eventType string, _ any) {
	f.sent = append(f.sent, sent{userID, eventType})
}

func TestNotificationService(t *testing.T) {
	notifier := &fakeNotifier{}
	s := NewNotificationService(notifier)
	doctorID := 7

	s.AppointmentBooked(Appointment{PatientID: 1, DoctorID: &doctorID, Status: StatusPending})
	s.AppointmentBooked(Appointment{PatientID: 1})
	s.AppointmentDecided(Appointment{PatientID: 1, DoctorID: &doctorID, Status: StatusConfirmed})
	s.AppointmentDecided(Appointment{PatientID: 1, DoctorID: &doctorID, Status: StatusDeclined})

	assert.Equal(t, []sent{
		{7, websockets.EventAppointmentBooked},
		{1, websockets.EventAppointmentConfirmed},
		{1, websockets.EventAppointmentDeclined},
	}, notifier.sent)

	var missing *NotificationService
	assert.NotPanics(t, func() { missing.AppointmentDecided(Appointment{PatientID: 1}) })
}

func TestTransactionService(t *testing.T) {
	db, err := database.New(config.Config{DatabaseDbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s := NewTransactionService(db)
	ctx := context.Background()

	insert := func(ctx context.Context, email string) error {
		tx, ok := GetTransaction(ctx)
		require.True(t, ok)
		return tx.Create(&User{Name: "x", Email: email, PasswordHash: "h", Role: RolePatient}).Error
	}
	count := func() int64 {
		var n int64
		require.NoError(t, db.SQL.Model(&User{}).Count(&n).Error)
		return n
	}

	_, ok := GetTransaction(ctx)
	assert.False(t, ok)

	require.NoError(t, s.Execute(ctx, func(txCtx context.Context) error {
		return insert(txCtx, "a@x.com")
	}))
	assert.Equal(t, int64(1), count())

	boom := errors.New("boom")
	err = s.Execute(ctx, func(txCtx context.Context) error {
		require.NoError(t, insert(txCtx, "b@x.com"))
		return s.Execute(txCtx, func(nested context.Context) error {
			outer, _ := GetTransaction(txCtx)
			inner, _ := GetTransaction(nested)
			assert.Same(t, outer, inner, "nested calls join the open transaction")
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(1), count())
}
