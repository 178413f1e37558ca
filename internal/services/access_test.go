package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volunteerhub/backend/internal/apperr"
	"github.com/volunteerhub/backend/internal/models"
)

func TestCheckRole(t *testing.T) {
	admin := models.Caller{ID: uuid.New(), Role: models.UserRoleAdmin}
	volunteer := models.Caller{ID: uuid.New(), Role: models.UserRoleUser}

	assert.True(t, CheckRole(admin, models.UserRoleAdmin).Allowed)
	assert.True(t, CheckRole(volunteer, models.UserRoleAdmin, models.UserRoleUser).Allowed)

	denied := CheckRole(volunteer, models.UserRoleAdmin)
	assert.False(t, denied.Allowed)
	assert.True(t, apperr.IsKind(denied.Err(), apperr.KindForbidden))

	assert.False(t, CheckRole(models.Caller{}, models.UserRoleUser).Allowed)
}

func TestCheckOwnership(t *testing.T) {
	ownerID := uuid.New()

	assert.True(t, CheckOwnership(models.Caller{ID: ownerID, Role: models.UserRoleAdmin}, ownerID).Allowed)
	assert.NoError(t, CheckOwnership(models.Caller{ID: ownerID}, ownerID).Err())

	otherAdmin := models.Caller{ID: uuid.New(), Role: models.UserRoleAdmin}
	decision := CheckOwnership(otherAdmin, ownerID)
	assert.False(t, decision.Allowed, "admin role must not imply ownership")
	assert.NotEmpty(t, decision.Reason)

	assert.False(t, CheckOwnership(models.Caller{}, uuid.Nil).Allowed)
}

func TestAccessService_EventOwnership(t *testing.T) {
	db := setupTestDB(t)
	service := NewAccessService(db)

	owner := createUser(t, db, "owner@example.com", models.UserRoleAdmin)
	otherAdmin := createUser(t, db, "other@example.com", models.UserRoleAdmin)
	event := createEvent(t, db, owner, "Park Cleanup")

	decision, err := service.EventOwnership(context.Background(), owner.Caller(), event.ID)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	decision, err = service.EventOwnership(context.Background(), otherAdmin.Caller(), event.ID)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)

	_, err = service.EventOwnership(context.Background(), owner.Caller(), uuid.New())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
