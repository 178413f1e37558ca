package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/volunteerhub/backend/internal/apperr"
	"github.com/volunteerhub/backend/internal/models"
	"gorm.io/gorm"
)

// Decision is the outcome of an authorization check. Reason is empty when
// the check is allowed.
type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Err converts a denied decision into a Forbidden error.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperr.Forbidden(d.Reason)
}

func CheckRole(caller models.Caller, roles ...models.UserRole) Decision {
	if caller.IsZero() {
		return Deny("authentication required")
	}
	if !caller.HasRole(roles...) {
		return Deny("you do not have permission to perform this action")
	}
	return Allow()
}

// CheckOwnership compares identities only; an admin who does not own the
// resource is denied.
func CheckOwnership(caller models.Caller, ownerID uuid.UUID) Decision {
	if caller.IsZero() || ownerID == uuid.Nil || caller.ID != ownerID {
		return Deny("you are not the owner of this event")
	}
	return Allow()
}

type AccessService struct {
	DB *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{DB: db}
}

// EventOwnership loads the event owner and checks it against caller.
// A missing event yields a NotFound error rather than a decision.
func (a *AccessService) EventOwnership(ctx context.Context, caller models.Caller, eventID uuid.UUID) (Decision, error) {
	var event models.Event
	err := a.DB.WithContext(ctx).Select("id", "owner_id").First(&event, "id = ?", eventID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Decision{}, apperr.NotFound("event not found")
		}
		return Decision{}, apperr.Internal("failed loading event", err)
	}
	return CheckOwnership(caller, event.OwnerID), nil
}
