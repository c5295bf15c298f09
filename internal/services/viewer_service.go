package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/each4all/shinchon-saessaks-sub000/internal/db/models"
	"github.com/each4all/shinchon-saessaks-sub000/internal/viewer"
)

var ErrUnknownUser = errors.New("unknown user")

// ViewerService turns an authenticated user id into the viewer context the
// engine consumes. It owns the parent-child-classroom join, so the
// audience resolver only ever sees a precomputed group membership set.
type ViewerService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewViewerService(db *gorm.DB, logger *zap.Logger) *ViewerService {
	return &ViewerService{
		db:     db,
		logger: logger.With(zap.String("service", "viewer_service")),
	}
}

func (s *ViewerService) Resolve(ctx context.Context, userID uint) (viewer.Context, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return viewer.Guest(), ErrUnknownUser
	}
	if err != nil {
		return viewer.Guest(), err
	}

	v := viewer.Context{
		UserID: user.ID,
		Role:   user.Role,
		Active: user.Status == models.UserActive,
		Groups: make(map[uint]bool),
	}

	var groupIDs []uint
	switch user.Role {
	case models.RoleParent:
		err = s.db.WithContext(ctx).Model(&models.Child{}).
			Where("guardian_id = ?", user.ID).
			Distinct().Pluck("classroom_id", &groupIDs).Error
	case models.RoleAdmin, models.RoleTeacher, models.RoleNutrition, models.RoleStaff:
		err = s.db.WithContext(ctx).Model(&models.ClassroomAssignment{}).
			Where("user_id = ?", user.ID).
			Distinct().Pluck("classroom_id", &groupIDs).Error
	}
	if err != nil {
		return viewer.Guest(), err
	}
	for _, id := range groupIDs {
		v.Groups[id] = true
	}
	return v, nil
}
