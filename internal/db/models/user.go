package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleTeacher   Role = "TEACHER"
	RoleNutrition Role = "NUTRITION"
	RoleParent    Role = "PARENT"
	RoleStaff     Role = "STAFF"
	RoleGuest     Role = "GUEST"
)

type UserStatus string

const (
	UserActive  UserStatus = "ACTIVE"
	UserPending UserStatus = "PENDING"
)

type User struct {
	gorm.Model
	Username     string     `gorm:"unique;not null"`
	Email        string     `gorm:"unique;not null"`
	PasswordHash string     `gorm:"not null"` // Bcrypt hash of password
	Role         Role       `gorm:"not null;default:'PARENT'"`
	Status       UserStatus `gorm:"not null;default:'PENDING'"`
	FullName     string
	Phone        string
	LastLogin    time.Time
}

// Classroom is the owner group content items can be attached to.
type Classroom struct {
	gorm.Model
	Name     string `gorm:"unique;not null"`
	AgeBand  string
	RoomName string
}

// ClassroomAssignment links a staff member to a classroom they run.
type ClassroomAssignment struct {
	gorm.Model
	UserID      uint `gorm:"not null;index"`
	ClassroomID uint `gorm:"not null;index"`
}

// Child links a guardian account to a classroom. The classroom-scope
// membership check for parents is backed by this join.
type Child struct {
	gorm.Model
	GuardianID  uint `gorm:"not null;index"`
	ClassroomID uint `gorm:"not null;index"`
	FullName    string
	BirthDate   *time.Time
}
