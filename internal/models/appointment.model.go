package models

import (
	"bytes"
	"encoding/json"
	"time"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusDeclined  AppointmentStatus = "declined"
	// StatusCompleted is a recognized value that no operation produces yet.
	StatusCompleted AppointmentStatus = "completed"
)

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending: {StatusConfirmed, StatusDeclined},
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s AppointmentStatus) IsTerminal() bool {
	return len(appointmentTransitions[s]) == 0
}

type Appointment struct {
	BaseModel
	PatientID int               `gorm:"not null;index"                            json:"patientId"`
	DoctorID  *int              `gorm:"index"                                     json:"doctorId"`
	Date      time.Time         `gorm:"type:date"                                 json:"date"`
	Time      string            `gorm:"type:varchar(20)"                          json:"time"`
	Status    AppointmentStatus `gorm:"type:varchar(20);not null;default:pending" json:"status"`
}

func (Appointment) TableName() string { return "appointments" }

// AssignedTo reports whether userID is the appointment's doctor.
func (a Appointment) AssignedTo(userID int) bool {
	return a.DoctorID != nil && *a.DoctorID == userID
}

type BookAppointmentRequest struct {
	DoctorID FormValue `json:"doctorId" form:"doctor_id"`
	Date     string    `json:"date"     form:"date"`
	Time     string    `json:"time"     form:"time"`
}

// FormValue accepts a JSON string or number and keeps its text, so JSON and
// form bodies go through the same validation.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = FormValue(n.String())
	return nil
}
