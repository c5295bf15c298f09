package models

import "time"

// NutritionBulletin is an informational piece from the nutrition office,
// typically kindergarten-wide rather than classroom-bound.
type NutritionBulletin struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Body        string `gorm:"type:text" json:"body"`
	SourceURL   string `json:"source_url,omitempty"`
	Publication `gorm:"embedded"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (b *NutritionBulletin) RecordID() string { return b.ID }
func (b *NutritionBulletin) SetID(id string)  { b.ID = id }
