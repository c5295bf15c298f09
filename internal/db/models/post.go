package models

import "time"

// ClassPost is a class update written by a teacher for their classroom,
// or a kindergarten-wide notice written by an admin.
type ClassPost struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Body        string `gorm:"type:text" json:"body"`
	Publication `gorm:"embedded"`
	Attachments []PostAttachment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"attachments"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (p *ClassPost) RecordID() string { return p.ID }
func (p *ClassPost) SetID(id string)  { p.ID = id }

type PostAttachment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PostID    string `gorm:"not null;index" json:"-"`
	FileName  string `gorm:"not null" json:"file_name"`
	FileURL   string `gorm:"not null" json:"file_url"`
	MimeType  string `json:"mime_type"`
	SortOrder int    `json:"sort_order"`
}
