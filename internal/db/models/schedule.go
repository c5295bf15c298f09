package models

import "time"

// ClassSchedule is a dated activity entry. Schedules are never archived;
// a schedule that will not happen is cancelled with a reason so that
// guardians still see the warning.
type ClassSchedule struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Details     string    `gorm:"type:text" json:"details"`
	StartsAt    time.Time `gorm:"not null;index" json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Location    string    `json:"location"`
	Publication `gorm:"embedded"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *ClassSchedule) RecordID() string { return s.ID }
func (s *ClassSchedule) SetID(id string)  { s.ID = id }
