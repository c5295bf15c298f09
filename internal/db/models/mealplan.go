package models

import (
	"time"

	"gorm.io/datatypes"
)

type MealType string

const (
	MealBreakfast MealType = "BREAKFAST"
	MealLunch     MealType = "LUNCH"
	MealSnack     MealType = "SNACK"
)

// MealPlan is the menu for one meal on one day. Like schedules it is
// cancellable, not archivable.
type MealPlan struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	ServedOn    time.Time `gorm:"not null;index" json:"served_on"`
	MealType    MealType  `gorm:"type:varchar(16);not null" json:"meal_type"`
	Notes       string    `gorm:"type:text" json:"notes"`
	Publication `gorm:"embedded"`
	Items       []MealPlanItem `gorm:"foreignKey:MealPlanID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (m *MealPlan) RecordID() string { return m.ID }
func (m *MealPlan) SetID(id string)  { m.ID = id }

type MealPlanItem struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	MealPlanID string         `gorm:"not null;index" json:"-"`
	Name       string         `gorm:"not null" json:"name"`
	Allergens  datatypes.JSON `json:"allergens,omitempty"`
	SortOrder  int            `json:"sort_order"`
}
