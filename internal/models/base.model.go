package models

import (
	"time"
)

// BaseModel carries the columns shared by every table. Rows are never
// updated in place or soft deleted, so only the creation time is tracked.
type BaseModel struct {
	ID        int       `gorm:"type:integer;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime"                        json:"createdAt"`
}
