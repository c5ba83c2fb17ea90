package models

import "strings"

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	BaseModel
	Name         string `gorm:"type:varchar(150)"                         json:"name"`
	Email        string `gorm:"type:varchar(150);uniqueIndex;not null"    json:"email"`
	PasswordHash string `gorm:"type:varchar(200);not null"                json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null;default:patient" json:"role"`
}

func (User) TableName() string { return "users" }

func (u User) IsDoctor() bool  { return u.Role == RoleDoctor }
func (u User) IsPatient() bool { return u.Role == RolePatient }

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type RegisterRequest struct {
	Name     string `json:"name"     form:"name"`
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role"     form:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}
