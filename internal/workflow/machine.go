// Package workflow implements the shared draft/publish lifecycle with
// role-gated transitions and provenance stamping. One Machine is built
// per content family from a small Rules value instead of repeating the
// transition checks inline in each repository.
package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/each4all/shinchon-saessaks-sub000/internal/db/models"
	"github.com/each4all/shinchon-saessaks-sub000/internal/viewer"
)

// Kind selects which of the two closely related state machines applies.
type Kind int

const (
	// KindArchivable: draft -> published -> archived, re-publish allowed.
	KindArchivable Kind = iota
	// KindCancellable: draft -> published -> cancelled, cancelled is terminal.
	KindCancellable
)

// Rules parameterizes a Machine for one content family.
type Rules struct {
	Kind Kind
	// AuthorRole is the non-admin staff role that authors items in this
	// family (teacher for class content, nutrition for meal content).
	AuthorRole models.Role
}

// GuardError reports exactly which precondition a rejected transition
// failed, so the caller can correct the request.
type GuardError struct {
	Guard  string // "transition", "role", "group", "reason"
	Reason string
}

func (e *GuardError) Error() string { return e.Reason }

func guardf(guard, format string, args ...interface{}) *GuardError {
	return &GuardError{Guard: guard, Reason: fmt.Sprintf(format, args...)}
}

type pair struct{ from, to models.Status }

var archivableTransitions = map[pair]bool{
	{models.StatusDraft, models.StatusPublished}:    true,
	{models.StatusPublished, models.StatusDraft}:    true,
	{models.StatusPublished, models.StatusArchived}: true,
	{models.StatusArchived, models.StatusPublished}: true,
	{models.StatusDraft, models.StatusArchived}:     true,
}

var cancellableTransitions = map[pair]bool{
	{models.StatusDraft, models.StatusPublished}:     true,
	{models.StatusDraft, models.StatusCancelled}:     true,
	{models.StatusPublished, models.StatusCancelled}: true,
	{models.StatusPublished, models.StatusDraft}:     true,
}

type Machine struct {
	rules Rules
}

func New(rules Rules) *Machine {
	return &Machine{rules: rules}
}

func (m *Machine) Kind() Kind { return m.rules.Kind }

// Statuses returns the valid status values for this family.
func (m *Machine) Statuses() []models.Status {
	if m.rules.Kind == KindCancellable {
		return []models.Status{models.StatusDraft, models.StatusPublished, models.StatusCancelled}
	}
	return []models.Status{models.StatusDraft, models.StatusPublished, models.StatusArchived}
}

func (m *Machine) validStatus(s models.Status) bool {
	for _, v := range m.Statuses() {
		if v == s {
			return true
		}
	}
	return false
}

// CreateStatus decides the stored status of a newly created item. A
// non-admin author asking for PUBLISHED is silently downgraded to DRAFT
// so their input is saved and awaits approval, not rejected.
func (m *Machine) CreateStatus(requested models.Status, v viewer.Context) models.Status {
	if requested == "" {
		return models.StatusDraft
	}
	if v.Role == models.RoleAdmin && m.validStatus(requested) && requested != models.StatusCancelled {
		return requested
	}
	return models.StatusDraft
}

// Authorize checks a requested transition against the current state, the
// caller's role and the family's guard table. It returns a *GuardError
// naming the failed precondition, or nil when the transition may proceed.
func (m *Machine) Authorize(pub *models.Publication, to models.Status, v viewer.Context, reason string) error {
	table := archivableTransitions
	if m.rules.Kind == KindCancellable {
		table = cancellableTransitions
	}

	if !table[pair{pub.Status, to}] {
		return guardf("transition", "no transition from %s to %s", pub.Status, to)
	}

	if to == models.StatusCancelled && strings.TrimSpace(reason) == "" {
		return guardf("reason", "cancellation requires a non-empty reason")
	}

	if v.Role == models.RoleAdmin {
		return nil
	}

	// The only non-admin transition in either table: the item's author
	// publishing their own draft, and only for archivable families.
	if m.rules.Kind == KindArchivable &&
		pub.Status == models.StatusDraft && to == models.StatusPublished {
		if v.Role != m.rules.AuthorRole || pub.AuthorID != v.UserID {
			return guardf("role", "only an admin or the item's author may publish")
		}
		if pub.OwnerGroupID == nil || !v.InGroup(*pub.OwnerGroupID) {
			return guardf("group", "author is not a member of the item's owner group")
		}
		return nil
	}

	return guardf("role", "transition %s to %s requires the admin role", pub.Status, to)
}

// Apply mutates the publication state for an authorized transition. It
// must be called only after Authorize accepted the same request.
func (m *Machine) Apply(pub *models.Publication, to models.Status, v viewer.Context, reason string, now time.Time) {
	switch to {
	case models.StatusPublished:
		pub.PublishedAt = &now
		callerID := v.UserID
		pub.PublishedBy = &callerID
	case models.StatusDraft:
		pub.PublishedAt = nil
		pub.PublishedBy = nil
	case models.StatusArchived:
		// Keeps its publication timestamp; re-publish restamps it.
	}

	if to == models.StatusCancelled {
		pub.CancellationReason = strings.TrimSpace(reason)
	} else {
		pub.CancellationReason = ""
	}

	pub.Status = to
}
