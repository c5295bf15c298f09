package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/each4all/shinchon-saessaks-sub000/internal/db/models"
	"github.com/each4all/shinchon-saessaks-sub000/internal/viewer"
)

func admin() viewer.Context {
	return viewer.Context{UserID: 1, Role: models.RoleAdmin, Active: true}
}

func teacher(id uint, groups ...uint) viewer.Context {
	g := make(map[uint]bool, len(groups))
	for _, id := range groups {
		g[id] = true
	}
	return viewer.Context{UserID: id, Role: models.RoleTeacher, Active: true, Groups: g}
}

func TestAuthorizeTransitionTable(t *testing.T) {
	archivable := New(Rules{Kind: KindArchivable, AuthorRole: models.RoleTeacher})
	cancellable := New(Rules{Kind: KindCancellable, AuthorRole: models.RoleTeacher})

	tests := []struct {
		name    string
		machine *Machine
		from    models.Status
		to      models.Status
		ok      bool
	}{
		{"publish draft", archivable, models.StatusDraft, models.StatusPublished, true},
		{"unpublish", archivable, models.StatusPublished, models.StatusDraft, true},
		{"archive published", archivable, models.StatusPublished, models.StatusArchived, true},
		{"archive draft", archivable, models.StatusDraft, models.StatusArchived, true},
		{"republish archived", archivable, models.StatusArchived, models.StatusPublished, true},
		{"archived back to draft", archivable, models.StatusArchived, models.StatusDraft, false},
		{"self transition", archivable, models.StatusDraft, models.StatusDraft, false},
		{"archivable cannot cancel", archivable, models.StatusPublished, models.StatusCancelled, false},

		{"cancel published", cancellable, models.StatusPublished, models.StatusCancelled, true},
		{"cancel draft", cancellable, models.StatusDraft, models.StatusCancelled, true},
		{"cancelled is terminal", cancellable, models.StatusCancelled, models.StatusPublished, false},
		{"cancelled cannot redraft", cancellable, models.StatusCancelled, models.StatusDraft, false},
		{"cancellable cannot archive", cancellable, models.StatusPublished, models.StatusArchived, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pub := &models.Publication{Status: tc.from}
			err := tc.machine.Authorize(pub, tc.to, admin(), "reason")
			if tc.ok {
				assert.NoError(t, err)
			} else {
				var guard *GuardError
				require.ErrorAs(t, err, &guard)
				assert.Equal(t, "transition", guard.Guard)
			}
		})
	}
}

func TestAuthorizeCancelRequiresReason(t *testing.T) {
	m := New(Rules{Kind: KindCancellable, AuthorRole: models.RoleNutrition})
	pub := &models.Publication{Status: models.StatusPublished}

	err := m.Authorize(pub, models.StatusCancelled, admin(), "   ")
	var guard *GuardError
	require.ErrorAs(t, err, &guard)
	assert.Equal(t, "reason", guard.Guard)

	assert.NoError(t, m.Authorize(pub, models.StatusCancelled, admin(), "kitchen closed"))
}

func TestAuthorizeAuthorPublish(t *testing.T) {
	m := New(Rules{Kind: KindArchivable, AuthorRole: models.RoleTeacher})
	groupID := uint(7)
	pub := &models.Publication{Status: models.StatusDraft, AuthorID: 42, OwnerGroupID: &groupID}

	assert.NoError(t, m.Authorize(pub, models.StatusPublished, teacher(42, 7), ""))

	err := m.Authorize(pub, models.StatusPublished, teacher(43, 7), "")
	var guard *GuardError
	require.ErrorAs(t, err, &guard)
	assert.Equal(t, "role", guard.Guard)

	err = m.Authorize(pub, models.StatusPublished, teacher(42, 8), "")
	require.ErrorAs(t, err, &guard)
	assert.Equal(t, "group", guard.Guard)

	// No owner group means no group membership to verify; stays admin-only.
	orphan := &models.Publication{Status: models.StatusDraft, AuthorID: 42}
	err = m.Authorize(orphan, models.StatusPublished, teacher(42, 7), "")
	require.ErrorAs(t, err, &guard)
	assert.Equal(t, "group", guard.Guard)
}

func TestAuthorizeNonAdminBeyondPublish(t *testing.T) {
	m := New(Rules{Kind: KindArchivable, AuthorRole: models.RoleTeacher})
	groupID := uint(7)
	pub := &models.Publication{Status: models.StatusPublished, AuthorID: 42, OwnerGroupID: &groupID}

	// Even the author cannot archive or unpublish their own item.
	for _, to := range []models.Status{models.StatusArchived, models.StatusDraft} {
		err := m.Authorize(pub, to, teacher(42, 7), "")
		var guard *GuardError
		require.ErrorAs(t, err, &guard)
		assert.Equal(t, "role", guard.Guard)
	}

	cancellable := New(Rules{Kind: KindCancellable, AuthorRole: models.RoleTeacher})
	draft := &models.Publication{Status: models.StatusDraft, AuthorID: 42, OwnerGroupID: &groupID}
	err := cancellable.Authorize(draft, models.StatusPublished, teacher(42, 7), "")
	var guard *GuardError
	require.ErrorAs(t, err, &guard)
	assert.Equal(t, "role", guard.Guard)
}

func TestCreateStatusDowngrade(t *testing.T) {
	m := New(Rules{Kind: KindArchivable, AuthorRole: models.RoleTeacher})

	assert.Equal(t, models.StatusDraft, m.CreateStatus("", admin()))
	assert.Equal(t, models.StatusPublished, m.CreateStatus(models.StatusPublished, admin()))
	assert.Equal(t, models.StatusArchived, m.CreateStatus(models.StatusArchived, admin()))
	assert.Equal(t, models.StatusDraft, m.CreateStatus(models.StatusPublished, teacher(42, 7)))
	assert.Equal(t, models.StatusDraft, m.CreateStatus(models.StatusCancelled, admin()))
	assert.Equal(t, models.StatusDraft, m.CreateStatus("BOGUS", admin()))
}

func TestApplyProvenance(t *testing.T) {
	m := New(Rules{Kind: KindCancellable, AuthorRole: models.RoleNutrition})
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	caller := admin()

	pub := &models.Publication{Status: models.StatusDraft}
	m.Apply(pub, models.StatusPublished, caller, "", now)
	require.NotNil(t, pub.PublishedAt)
	assert.Equal(t, now, *pub.PublishedAt)
	require.NotNil(t, pub.PublishedBy)
	assert.Equal(t, caller.UserID, *pub.PublishedBy)

	m.Apply(pub, models.StatusCancelled, caller, "  field trip  ", now)
	assert.Equal(t, models.StatusCancelled, pub.Status)
	assert.Equal(t, "field trip", pub.CancellationReason)

	pub = &models.Publication{Status: models.StatusPublished, PublishedAt: &now}
	m.Apply(pub, models.StatusDraft, caller, "", now)
	assert.Nil(t, pub.PublishedAt)
	assert.Nil(t, pub.PublishedBy)
}

func TestApplyArchiveKeepsTimestamp(t *testing.T) {
	m := New(Rules{Kind: KindArchivable, AuthorRole: models.RoleTeacher})
	publishedAt := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	pub := &models.Publication{Status: models.StatusPublished, PublishedAt: &publishedAt}

	m.Apply(pub, models.StatusArchived, admin(), "", time.Now())
	assert.Equal(t, models.StatusArchived, pub.Status)
	require.NotNil(t, pub.PublishedAt)
	assert.Equal(t, publishedAt, *pub.PublishedAt)
}
