package dashboardController

import (
	"context"

	"healthtrack/internal/logger"
	. "healthtrack/internal/models"
	"healthtrack/internal/prediction"
	"healthtrack/internal/repositories"
)

type Dashboard struct {
	Role          Role                      `json:"role"`
	Appointments  []Appointment             `json:"appointments"`
	HealthRecords []HealthRecord            `json:"healthRecords,omitempty"`
	Summary       *repositories.RiskSummary `json:"summary,omitempty"`
	Doctors       []User                    `json:"doctors,omitempty"`
}

type DashboardController struct {
	userRepo        repositories.UserRepository
	recordRepo      repositories.HealthRecordRepository
	appointmentRepo repositories.AppointmentRepository
	log             logger.Logger
}

func New(
	userRepo repositories.UserRepository,
	recordRepo repositories.HealthRecordRepository,
	appointmentRepo repositories.AppointmentRepository,
) *DashboardController {
	return &DashboardController{
		userRepo:        userRepo,
		recordRepo:      recordRepo,
		appointmentRepo: appointmentRepo,
		log:             logger.New("DashboardController"),
	}
}

// Get builds the actor's dashboard. Doctors see the appointments assigned to
// them; everyone else sees their assessment history, their own appointments
// and the doctors they can book with.
func (dc *DashboardController) Get(ctx context.Context, actor User) (*Dashboard, error) {
	log := dc.log.Function("Get")

	if actor.IsDoctor() {
		appointments, err := dc.appointmentRepo.ListByDoctor(ctx, actor.ID)
		if err != nil {
			return nil, log.Err("failed to list doctor appointments", err, "doctorID", actor.ID)
		}
		return &Dashboard{Role: actor.Role, Appointments: nonNil(appointments)}, nil
	}

	records, err := dc.recordRepo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, log.Err("failed to list health records", err, "userID", actor.ID)
	}

	summary, err := dc.recordRepo.SummarizeByUser(ctx, actor.ID, prediction.DecisionThreshold)
	if err != nil {
		return nil, log.Err("failed to summarize health records", err, "userID", actor.ID)
	}

	appointments, err := dc.appointmentRepo.ListByPatient(ctx, actor.ID)
	if err != nil {
		return nil, log.Err("failed to list patient appointments", err, "patientID", actor.ID)
	}

	doctors, err := dc.userRepo.ListByRole(ctx, RoleDoctor)
	if err != nil {
		return nil, log.Err("failed to list doctors", err)
	}

	return &Dashboard{
		Role:          actor.Role,
		Appointments:  nonNil(appointments),
		HealthRecords: records,
		Summary:       &summary,
		Doctors:       doctors,
	}, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
