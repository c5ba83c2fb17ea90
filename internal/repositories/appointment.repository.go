package repositories

import (
	"context"

	"healthtrack/internal/database"
	"healthtrack/internal/logger"
	. "healthtrack/internal/models"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *Appointment) error
	GetByID(ctx context.Context, id int) (*Appointment, error)
	Transition(ctx context.Context, id int, from, to AppointmentStatus) (bool, error)
	ListByPatient(ctx context.Context, patientID int) ([]Appointment, error)
	ListByDoctor(ctx context.Context, doctorID int) ([]Appointment, error)
}

type appointmentRepository struct {
	db  database.DB
	log logger.Logger
}

func NewAppointment(db database.DB) AppointmentRepository {
	return &appointmentRepository{
		db:  db,
		log: logger.New("appointmentRepository"),
	}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *Appointment) error {
	log := r.log.Function("Create")

	if err := getDB(ctx, r.db).Create(appointment).Error; err != nil {
		return log.Err(
			"failed to create appointment",
			err,
			"patientID", appointment.PatientID,
			"doctorID", appointment.DoctorID,
		)
	}

	return nil
}

func (r *appointmentRepository) GetByID(ctx context.Context, id int) (*Appointment, error) {
	log := r.log.Function("GetByID")

	var appointment Appointment
	if err := getDB(ctx, r.db).First(&appointment, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get appointment by id", err, "id", id)
	}

	return &appointment, nil
}

// Transition moves the appointment from one status to another in a single
// conditional update. It reports false when the row was no longer in from.
func (r *appointmentRepository) Transition(
	ctx context.Context,
	id int,
	from, to AppointmentStatus,
) (bool, error) {
	log := r.log.Function("Transition")

	result := getDB(ctx, r.db).
		Model(&Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, log.Err("failed to update appointment status", result.Error, "id", id, "to", to)
	}

	return result.RowsAffected == 1, nil
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID int) ([]Appointment, error) {
	log := r.log.Function("ListByPatient")

	var appointments []Appointment
	err := getDB(ctx, r.db).
		Where("patient_id = ?", patientID).
		Order("date ASC, id ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, log.Err("failed to list patient appointments", err, "patientID", patientID)
	}

	return appointments, nil
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID int) ([]Appointment, error) {
	log := r.log.Function("ListByDoctor")

	var appointments []Appointment
	err := getDB(ctx, r.db).
		Where("doctor_id = ?", doctorID).
		Order("date ASC, id ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, log.Err("failed to list doctor appointments", err, "doctorID", doctorID)
	}

	return appointments, nil
}
