package models

import "time"

// ParentEdPost is parent-education material: longer-lived articles for
// guardians, often migrated from the legacy site.
type ParentEdPost struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Body        string `gorm:"type:text" json:"body"`
	Topic       string `gorm:"index" json:"topic"`
	Publication `gorm:"embedded"`
	Attachments []EduAttachment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"attachments"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (p *ParentEdPost) RecordID() string { return p.ID }
func (p *ParentEdPost) SetID(id string)  { p.ID = id }

type EduAttachment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PostID    string `gorm:"not null;index" json:"-"`
	FileName  string `gorm:"not null" json:"file_name"`
	FileURL   string `gorm:"not null" json:"file_url"`
	MimeType  string `json:"mime_type"`
	SortOrder int    `json:"sort_order"`
}
