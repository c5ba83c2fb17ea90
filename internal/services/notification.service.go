package services

import (
	"healthtrack/internal/logger"
	. "healthtrack/internal/models"
	"healthtrack/internal/websockets"
)

// NotificationService tells the other party of an appointment about changes
// made to it. Delivery never fails the operation that triggered it.
type NotificationService struct {
	notifier websockets.Notifier
	log      logger.Logger
}

func NewNotificationService(notifier websockets.Notifier) *NotificationService {
	return &NotificationService{
		notifier: notifier,
		log:      logger.New("NotificationService"),
	}
}

// AppointmentBooked notifies the requested doctor.
func (s *NotificationService) AppointmentBooked(appointment Appointment) {
	if appointment.DoctorID == nil {
		s.log.Function("AppointmentBooked").
			Warn("Appointment has no doctor to notify", "appointmentID", appointment.ID)
		return
	}
	s.send(*appointment.DoctorID, websockets.EventAppointmentBooked, appointment)
}

// AppointmentDecided notifies the patient of a confirmation or decline.
func (s *NotificationService) AppointmentDecided(appointment Appointment) {
	eventType := websockets.EventAppointmentConfirmed
	if appointment.Status == StatusDeclined {
		eventType = websockets.EventAppointmentDeclined
	}
	s.send(appointment.PatientID, eventType, appointment)
}

func (s *NotificationService) send(userID int, eventType string, appointment Appointment) {
	if s == nil || s.notifier == nil {
		return
	}
	s.log.Function("send").
		Debug("Sending notification", "userID", userID, "type", eventType, "appointmentID", appointment.ID)
	s.notifier.Notify(userID, eventType, appointment)
}
