// Package policy holds one authorization check per protected operation.
// Each returns nil when the actor may proceed and a Forbidden failure
// otherwise.
package policy

import (
	"healthtrack/internal/apperrors"
	. "healthtrack/internal/models"
)

const (
	unauthorizedNotice = "Unauthorized."
	patientsOnlyNotice = "Only patients can book appointments."
)

func forbidden() error {
	return apperrors.Forbidden(unauthorizedNotice)
}

// CanBook allows patients to request appointments.
func CanBook(actor User) error {
	if !actor.IsPatient() {
		return apperrors.Forbidden(patientsOnlyNotice)
	}
	return nil
}

// CanDecide allows only the doctor the appointment is assigned to.
func CanDecide(actor User, appointment Appointment) error {
	if !actor.IsDoctor() || !appointment.AssignedTo(actor.ID) {
		return forbidden()
	}
	return nil
}

func CanRequestAssessment(actor User) error {
	if !actor.IsPatient() {
		return forbidden()
	}
	return nil
}
