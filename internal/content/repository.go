// Package content provides the repository shared by all five content
// families. Each family composes the same generic Repository with its own
// workflow rules, create-role list and child-row hooks, so transition
// checks and audience filtering are implemented exactly once.
package content

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/each4all/shinchon-saessaks-sub000/internal/db/models"
	"github.com/each4all/shinchon-saessaks-sub000/internal/viewer"
	"github.com/each4all/shinchon-saessaks-sub000/internal/visibility"
	"github.com/each4all/shinchon-saessaks-sub000/internal/workflow"
	"github.com/each4all/shinchon-saessaks-sub000/pkg/metrics"
)

// Record is what a content model must expose to the repository.
type Record interface {
	Pub() *models.Publication
	RecordID() string
	SetID(id string)
}

// Ptr constrains the pointer side of a content model, so generic callers
// can address rows loaded as values.
type Ptr[T any] interface {
	*T
	Record
}

// Config is the per-family parameterization of the engine.
type Config struct {
	Family      string // metrics/log label, e.g. "class_post"
	Rules       workflow.Rules
	CreateRoles []models.Role
}

// Hooks holds the entity-specific pieces the generic code cannot know.
type Hooks[T any, PT Ptr[T]] struct {
	// Preloads are association names loaded on reads.
	Preloads []string
	// ReplaceChildren deletes and re-inserts the item's child rows inside
	// tx, guaranteeing exact replacement on import refresh. Nil when the
	// family has no child rows.
	ReplaceChildren func(tx *gorm.DB, item PT) error
	// CopyRefresh overwrites dst's mutable fields with src's, preserving
	// id, creation time and legacy key.
	CopyRefresh func(dst, src PT)
}

type Filter struct {
	OwnerGroupID *uint
	// IncludeDrafts also returns unpublished (draft/archived) work the
	// viewer may see. Honored only for staff-side viewers.
	IncludeDrafts bool
}

type Repository[T any, PT Ptr[T]] struct {
	db      *gorm.DB
	cfg     Config
	machine *workflow.Machine
	hooks   Hooks[T, PT]
	logger  *zap.Logger
	metrics *metrics.MetricsCollector
}

func NewRepository[T any, PT Ptr[T]](
	db *gorm.DB,
	cfg Config,
	hooks Hooks[T, PT],
	logger *zap.Logger,
	mc *metrics.MetricsCollector,
) *Repository[T, PT] {
	return &Repository[T, PT]{
		db:      db,
		cfg:     cfg,
		machine: workflow.New(cfg.Rules),
		hooks:   hooks,
		logger:  logger.With(zap.String("family", cfg.Family)),
		metrics: mc,
	}
}

func (r *Repository[T, PT]) Family() string { return r.cfg.Family }

func (r *Repository[T, PT]) Kind() workflow.Kind { return r.machine.Kind() }

// Create stores a new item. A non-admin author requesting PUBLISHED gets
// DRAFT instead of a rejection, so the input is never lost.
func (r *Repository[T, PT]) Create(ctx context.Context, item PT, v viewer.Context) (PT, error) {
	if !r.mayCreate(v) {
		return nil, &workflow.GuardError{Guard: "role", Reason: "role " + string(v.Role) + " may not create " + r.cfg.Family + " items"}
	}

	pub := item.Pub()
	if pub.AudienceScope == "" {
		pub.AudienceScope = models.ScopeAll
	}
	if pub.AudienceScope == models.ScopeClassroom && pub.OwnerGroupID == nil {
		return nil, &workflow.GuardError{Guard: "scope", Reason: "classroom scope requires an owner group"}
	}

	pub.AuthorID = v.UserID
	pub.Version = 1
	pub.CancellationReason = ""

	status := r.machine.CreateStatus(pub.Status, v)
	if status == models.StatusPublished {
		now := time.Now()
		callerID := v.UserID
		pub.PublishedAt = &now
		pub.PublishedBy = &callerID
	} else {
		pub.PublishedAt = nil
		pub.PublishedBy = nil
	}
	pub.Status = status

	if item.RecordID() == "" {
		item.SetID(uuid.New().String())
	}

	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}

	r.metrics.IncrementCounter("content_created", map[string]string{"family": r.cfg.Family})
	r.logger.Info("content item created",
		zap.String("id", item.RecordID()),
		zap.String("status", string(pub.Status)),
		zap.Uint("author_id", v.UserID))
	return item, nil
}

// Transition moves an item to targetStatus if the workflow machine allows
// it for this caller. The write is guarded by an optimistic version check;
// a concurrent writer surfaces as ErrStaleWrite instead of a silent
// last-write-wins.
func (r *Repository[T, PT]) Transition(ctx context.Context, id string, to models.Status, v viewer.Context, reason string) (PT, error) {
	item, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	pub := item.Pub()
	from := pub.Status

	if err := r.machine.Authorize(pub, to, v, reason); err != nil {
		r.metrics.IncrementCounter("transition_rejected", map[string]string{"family": r.cfg.Family})
		return nil, err
	}

	oldVersion := pub.Version
	r.machine.Apply(pub, to, v, reason, time.Now())
	pub.Version = oldVersion + 1

	res := r.db.WithContext(ctx).Model(item).
		Where("version = ?", oldVersion).
		Select("status", "published_at", "published_by", "cancellation_reason", "version").
		Updates(item)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStaleWrite
	}

	r.metrics.IncrementCounter("transition_applied", map[string]string{"family": r.cfg.Family})
	r.logger.Info("content item transitioned",
		zap.String("id", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.Uint("caller_id", v.UserID))
	return item, nil
}

// List returns the items this viewer may see, newest first. Drafts and
// archived items are included only for staff-side viewers who asked for
// them.
func (r *Repository[T, PT]) List(ctx context.Context, f Filter, v viewer.Context) ([]PT, error) {
	q := r.readQuery(ctx).Order("created_at DESC")
	if f.OwnerGroupID != nil {
		q = q.Where("owner_group_id = ?", *f.OwnerGroupID)
	}

	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	includeWork := f.IncludeDrafts && v.IsStaffSide()
	out := make([]PT, 0, len(rows))
	for i := range rows {
		item := PT(&rows[i])
		pub := item.Pub()
		if !visibility.Visible(pub, r.machine.Kind(), v) {
			continue
		}
		if pub.Status != models.StatusPublished && pub.Status != models.StatusCancelled && !includeWork {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// GetByID returns the item, ErrNotFound when no row exists, or
// ErrNotVisible when the viewer fails the audience resolver.
func (r *Repository[T, PT]) GetByID(ctx context.Context, id string, v viewer.Context) (PT, error) {
	item, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibility.Visible(item.Pub(), r.machine.Kind(), v) {
		r.metrics.IncrementCounter("content_not_visible", map[string]string{"family": r.cfg.Family})
		r.logger.Warn("viewer denied by audience resolver",
			zap.String("id", id),
			zap.Uint("viewer_id", v.UserID),
			zap.String("role", string(v.Role)))
		return nil, ErrNotVisible
	}
	return item, nil
}

// Delete removes an item and its child rows. Deletion is an admin
// capability outside the workflow: no state check, no undo.
func (r *Repository[T, PT]) Delete(ctx context.Context, id string, v viewer.Context) error {
	if v.Role != models.RoleAdmin {
		return &workflow.GuardError{Guard: "role", Reason: "deletion requires the admin role"}
	}
	item, err := r.load(ctx, id)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select(clause.Associations).Delete(item).Error; err != nil {
			return err
		}
		r.logger.Info("content item deleted", zap.String("id", id), zap.Uint("caller_id", v.UserID))
		return nil
	})
}

func (r *Repository[T, PT]) mayCreate(v viewer.Context) bool {
	for _, role := range r.cfg.CreateRoles {
		if v.Role == role {
			return true
		}
	}
	return false
}

func (r *Repository[T, PT]) readQuery(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, assoc := range r.hooks.Preloads {
		q = q.Preload(assoc)
	}
	return q
}

func (r *Repository[T, PT]) load(ctx context.Context, id string) (PT, error) {
	var row T
	err := r.readQuery(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return PT(&row), nil
}
