package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// HealthRecord is one risk assessment. Data holds the submission exactly as
// it was received.
type HealthRecord struct {
	BaseModel
	UserID     int            `gorm:"not null;index"             json:"userId"`
	Data       datatypes.JSON `gorm:"column:data_json;type:text" json:"data"`
	Prediction float64        `gorm:"not null"                   json:"prediction"`
}

func (HealthRecord) TableName() string { return "healthdata" }

// Submission decodes Data back into the submitted field map.
func (h HealthRecord) Submission() (map[string]string, error) {
	submission := map[string]string{}
	if len(h.Data) == 0 {
		return submission, nil
	}
	if err := json.Unmarshal(h.Data, &submission); err != nil {
		return nil, err
	}
	return submission, nil
}
