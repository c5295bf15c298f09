// Package visibility decides, per content item and per viewer, whether
// the item may be shown. Status and audience scope are orthogonal axes:
// a published item can still be hidden from the wrong audience, and a
// correctly scoped item is hidden while unpublished.
package visibility

import (
	"github.com/each4all/shinchon-saessaks-sub000/internal/db/models"
	"github.com/each4all/shinchon-saessaks-sub000/internal/viewer"
	"github.com/each4all/shinchon-saessaks-sub000/internal/workflow"
)

// Visible resolves in three stages, first match wins:
//
//  1. staff preview: admins, teachers assigned to the item's owner group,
//     and the item's own author (when staff-side) see the item regardless
//     of status and scope, so pending and cancelled work stays reachable.
//  2. status gate: everyone else only sees PUBLISHED items, plus
//     CANCELLED ones for cancellable families (cancellations must remain
//     visible to warn viewers).
//  3. scope gate: the item's audience scope against the viewer's role,
//     account status and group memberships.
func Visible(pub *models.Publication, kind workflow.Kind, v viewer.Context) bool {
	if staffPreview(pub, v) {
		return true
	}

	switch pub.Status {
	case models.StatusPublished:
	case models.StatusCancelled:
		if kind != workflow.KindCancellable {
			return false
		}
	default:
		return false
	}

	switch pub.AudienceScope {
	case models.ScopeAll:
		return true
	case models.ScopeParents:
		return v.Role == models.RoleParent && v.Active
	case models.ScopeStaff:
		switch v.Role {
		case models.RoleAdmin, models.RoleTeacher, models.RoleNutrition:
			return true
		}
		return false
	case models.ScopeClassroom:
		if pub.OwnerGroupID == nil {
			return false
		}
		return v.Role == models.RoleParent && v.Active && v.InGroup(*pub.OwnerGroupID)
	}
	return false
}

func staffPreview(pub *models.Publication, v viewer.Context) bool {
	if v.Role == models.RoleAdmin {
		return true
	}
	if v.Role == models.RoleTeacher && pub.OwnerGroupID != nil && v.InGroup(*pub.OwnerGroupID) {
		return true
	}
	// Authors keep sight of their own pending work even when the item has
	// no owner group (nutrition content is usually kindergarten-wide).
	return v.IsStaffSide() && !v.Anonymous() && pub.AuthorID == v.UserID
}
