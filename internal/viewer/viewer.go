// Package viewer defines the resolved caller identity every visibility
// and workflow decision takes as input. The engine never mutates it.
package viewer

import "github.com/each4all/shinchon-saessaks-sub000/internal/db/models"

// Context is the (identity, role, status, group memberships) tuple of one
// request's caller. A zero UserID denotes an anonymous viewer.
type Context struct {
	UserID uint
	Role   models.Role
	Active bool
	Groups map[uint]bool
}

// Guest is the context attached to requests without a valid session.
func Guest() Context {
	return Context{Role: models.RoleGuest}
}

func (c Context) Anonymous() bool { return c.UserID == 0 }

func (c Context) InGroup(groupID uint) bool { return c.Groups[groupID] }

// IsStaffSide reports whether the role belongs to kindergarten personnel
// rather than a guardian or guest.
func (c Context) IsStaffSide() bool {
	switch c.Role {
	case models.RoleAdmin, models.RoleTeacher, models.RoleNutrition, models.RoleStaff:
		return true
	}
	return false
}
