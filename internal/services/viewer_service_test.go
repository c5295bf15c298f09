package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/each4all/shinchon-saessaks-sub000/internal/db"
	"github.com/each4all/shinchon-saessaks-sub000/internal/db/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "portal.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(database))
	return database
}

func TestResolveParentGroups(t *testing.T) {
	database := setupDB(t)
	svc := NewViewerService(database, zap.NewNop())
	ctx := context.Background()

	parent := models.User{Username: "guardian", Email: "g@example.com", PasswordHash: "x", Role: models.RoleParent, Status: models.UserActive}
	require.NoError(t, database.Create(&parent).Error)
	require.NoError(t, database.Create(&models.Child{GuardianID: parent.ID, ClassroomID: 1, FullName: "A"}).Error)
	require.NoError(t, database.Create(&models.Child{GuardianID: parent.ID, ClassroomID: 2, FullName: "B"}).Error)

	v, err := svc.Resolve(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, parent.ID, v.UserID)
	assert.Equal(t, models.RoleParent, v.Role)
	assert.True(t, v.Active)
	assert.True(t, v.InGroup(1))
	assert.True(t, v.InGroup(2))
	assert.False(t, v.InGroup(3))
}

func TestResolveTeacherAssignments(t *testing.T) {
	database := setupDB(t)
	svc := NewViewerService(database, zap.NewNop())

	teacher := models.User{Username: "teach", Email: "t@example.com", PasswordHash: "x", Role: models.RoleTeacher, Status: models.UserActive}
	require.NoError(t, database.Create(&teacher).Error)
	require.NoError(t, database.Create(&models.ClassroomAssignment{UserID: teacher.ID, ClassroomID: 5}).Error)

	v, err := svc.Resolve(context.Background(), teacher.ID)
	require.NoError(t, err)
	assert.True(t, v.InGroup(5))
	assert.True(t, v.IsStaffSide())
}

func TestResolvePendingUserIsInactive(t *testing.T) {
	database := setupDB(t)
	svc := NewViewerService(database, zap.NewNop())

	pending := models.User{Username: "new", Email: "n@example.com", PasswordHash: "x", Role: models.RoleParent, Status: models.UserPending}
	require.NoError(t, database.Create(&pending).Error)

	v, err := svc.Resolve(context.Background(), pending.ID)
	require.NoError(t, err)
	assert.False(t, v.Active)
}

func TestResolveUnknownUser(t *testing.T) {
	svc := NewViewerService(setupDB(t), zap.NewNop())

	v, err := svc.Resolve(context.Background(), 999)
	assert.ErrorIs(t, err, ErrUnknownUser)
	assert.True(t, v.Anonymous())
}

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := NewSessionService("test-secret", time.Hour, zap.NewNop())

	token, err := svc.IssueToken(42)
	require.NoError(t, err)

	userID, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestSessionTokenRejections(t *testing.T) {
	svc := NewSessionService("test-secret", time.Hour, zap.NewNop())
	other := NewSessionService("other-secret", time.Hour, zap.NewNop())

	token, err := svc.IssueToken(42)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)

	expired := NewSessionService("test-secret", -time.Minute, zap.NewNop())
	token, err = expired.IssueToken(42)
	require.NoError(t, err)
	_, err = expired.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
