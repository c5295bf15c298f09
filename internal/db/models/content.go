package models

import (
	"time"
)

// Status is the publication lifecycle state of a content item.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusArchived  Status = "ARCHIVED"
	StatusCancelled Status = "CANCELLED"
)

// AudienceScope says which category of viewer may see an item,
// independent of its publication status.
type AudienceScope string

const (
	ScopeAll       AudienceScope = "ALL"
	ScopeParents   AudienceScope = "PARENTS"
	ScopeStaff     AudienceScope = "STAFF"
	ScopeClassroom AudienceScope = "CLASSROOM"
)

// Publication carries the workflow and audience state shared by every
// content family. It is embedded in each family's model, so LegacyKey
// uniqueness is per table.
type Publication struct {
	Status             Status        `gorm:"type:varchar(16);not null;default:'DRAFT';index" json:"status"`
	AudienceScope      AudienceScope `gorm:"type:varchar(16);not null;default:'ALL'" json:"audience_scope"`
	OwnerGroupID       *uint         `gorm:"index" json:"owner_group_id,omitempty"`
	AuthorID           uint          `gorm:"not null;index" json:"author_id"`
	PublishedAt        *time.Time    `json:"published_at,omitempty"`
	PublishedBy        *uint         `json:"published_by,omitempty"`
	CancellationReason string        `gorm:"type:text" json:"cancellation_reason,omitempty"`
	LegacyKey          *string       `gorm:"uniqueIndex" json:"-"`
	Version            int           `gorm:"not null;default:1" json:"version"`
}

// Pub satisfies the content.Record interface for models embedding Publication.
func (p *Publication) Pub() *Publication { return p }
