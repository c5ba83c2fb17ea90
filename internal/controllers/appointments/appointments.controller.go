package appointmentController

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"healthtrack/internal/apperrors"
	"healthtrack/internal/logger"
	. "healthtrack/internal/models"
	"healthtrack/internal/policy"
	"healthtrack/internal/repositories"
	"healthtrack/internal/services"
	"healthtrack/internal/utils"
)

const (
	missingFieldsNotice = "Please select doctor, date, and time."
	invalidFieldsNotice = "Invalid date or doctor selection."
	notFoundNotice      = "Appointment not found."

	maxTimeLength = 20
)

type AppointmentController struct {
	appointmentRepo    repositories.AppointmentRepository
	userRepo           repositories.UserRepository
	transactionService *services.TransactionService
	notifications      *services.NotificationService
	log                logger.Logger
}

func New(
	appointmentRepo repositories.AppointmentRepository,
	userRepo repositories.UserRepository,
	transactionService *services.TransactionService,
	notifications *services.NotificationService,
) *AppointmentController {
	return &AppointmentController{
		appointmentRepo:    appointmentRepo,
		userRepo:           userRepo,
		transactionService: transactionService,
		notifications:      notifications,
		log:                logger.New("AppointmentController"),
	}
}

// Book records a pending appointment request from a patient with a doctor.
func (ac *AppointmentController) Book(
	ctx context.Context,
	actor User,
	req BookAppointmentRequest,
) (*Appointment, error) {
	log := ac.log.Function("Book")

	if err := policy.CanBook(actor); err != nil {
		return nil, err
	}

	doctorField := strings.TrimSpace(string(req.DoctorID))
	timeField := strings.TrimSpace(req.Time)
	if doctorField == "" || strings.TrimSpace(req.Date) == "" || timeField == "" {
		return nil, apperrors.Validation(missingFieldsNotice)
	}

	if utf8.RuneCountInString(timeField) > maxTimeLength {
		return nil, apperrors.Validation(invalidFieldsNotice)
	}

	doctorID, err := strconv.Atoi(doctorField)
	if err != nil || doctorID <= 0 {
		return nil, apperrors.Validation(invalidFieldsNotice)
	}

	date := utils.ValidateISODate(req.Date)
	if !date.IsValid {
		return nil, apperrors.Validation(invalidFieldsNotice)
	}

	appointment := &Appointment{
		PatientID: actor.ID,
		DoctorID:  &doctorID,
		Date:      date.ParsedTime,
		Time:      timeField,
		Status:    StatusPending,
	}

	err = ac.transactionService.Execute(ctx, func(txCtx context.Context) error {
		doctor, err := ac.userRepo.GetByID(txCtx, doctorID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return apperrors.Validation(invalidFieldsNotice)
			}
			return log.Err("failed to look up doctor", err, "doctorID", doctorID)
		}
		if !doctor.IsDoctor() {
			return apperrors.Validation(invalidFieldsNotice)
		}

		return ac.appointmentRepo.Create(txCtx, appointment)
	})
	if err != nil {
		return nil, err
	}

	log.Info(
		"Appointment requested",
		"appointmentID", appointment.ID,
		"patientID", actor.ID,
		"doctorID", doctorID,
	)
	ac.notifications.AppointmentBooked(*appointment)

	return appointment, nil
}

func (ac *AppointmentController) Confirm(ctx context.Context, actor User, id int) (*Appointment, error) {
	return ac.decide(ctx, actor, id, StatusConfirmed)
}

func (ac *AppointmentController) Decline(ctx context.Context, actor User, id int) (*Appointment, error) {
	return ac.decide(ctx, actor, id, StatusDeclined)
}

// decide applies a doctor's decision. Repeating the decision already taken
// succeeds without a write; reversing it is a conflict.
func (ac *AppointmentController) decide(
	ctx context.Context,
	actor User,
	id int,
	to AppointmentStatus,
) (*Appointment, error) {
	log := ac.log.Function("decide")

	appointment, err := ac.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound(notFoundNotice)
		}
		return nil, log.Err("failed to get appointment", err, "id", id)
	}

	if err := policy.CanDecide(actor, *appointment); err != nil {
		log.Warn("Rejected appointment decision", "id", id, "actorID", actor.ID, "to", to)
		return nil, err
	}

	if appointment.Status == to {
		return appointment, nil
	}
	if !appointment.Status.CanTransitionTo(to) {
		return nil, alreadyDecided(appointment.Status)
	}

	updated, err := ac.appointmentRepo.Transition(ctx, id, appointment.Status, to)
	if err != nil {
		return nil, log.Err("failed to transition appointment", err, "id", id, "to", to)
	}
	if !updated {
		current, err := ac.appointmentRepo.GetByID(ctx, id)
		if err != nil {
			return nil, log.Err("failed to reload appointment", err, "id", id)
		}
		if current.Status == to {
			return current, nil
		}
		return nil, alreadyDecided(current.Status)
	}

	appointment.Status = to
	log.Info("Appointment decided", "id", id, "doctorID", actor.ID, "status", to)
	ac.notifications.AppointmentDecided(*appointment)

	return appointment, nil
}

func alreadyDecided(status AppointmentStatus) error {
	return apperrors.Conflict(fmt.Sprintf("Appointment has already been %s.", status))
}

func (ac *AppointmentController) ListForPatient(ctx context.Context, patientID int) ([]Appointment, error) {
	appointments, err := ac.appointmentRepo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, ac.log.Function("ListForPatient").Err("failed to list appointments", err)
	}
	return appointments, nil
}

func (ac *AppointmentController) ListForDoctor(ctx context.Context, doctorID int) ([]Appointment, error) {
	appointments, err := ac.appointmentRepo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, ac.log.Function("ListForDoctor").Err("failed to list appointments", err)
	}
	return appointments, nil
}
