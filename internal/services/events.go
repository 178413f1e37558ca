package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/volunteerhub/backend/internal/apperr"
	"github.com/volunteerhub/backend/internal/metrics"
	"github.com/volunteerhub/backend/internal/models"
	"github.com/volunteerhub/backend/internal/sanitize"
	"github.com/volunteerhub/backend/internal/storage"
	"github.com/volunteerhub/backend/pkg/logger"
	"github.com/volunteerhub/backend/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateEventInput struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required"`
	Date        string   `json:"date" validate:"required"`
	Location    string   `json:"location" validate:"required,max=255"`
	Status      string   `json:"status" validate:"omitempty,oneof=Upcoming Ongoing Completed Cancelled"`
	ImagePaths  []string `json:"-" validate:"max=5"`
}

// UpdateEventInput carries a partial update; nil fields are left unchanged.
// A non-empty ImagePaths replaces the whole image set.
type UpdateEventInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Date        *string  `json:"date"`
	Location    *string  `json:"location"`
	Status      *string  `json:"status"`
	ImagePaths  []string `json:"-"`
}

type EventPage struct {
	Events []models.Event
	Total  int64
}

type EventService struct {
	DB    *gorm.DB
	Media storage.MediaStore
}

func NewEventService(db *gorm.DB, media storage.MediaStore) *EventService {
	return &EventService{DB: db, Media: media}
}

func ownerSummary(db *gorm.DB) *gorm.DB {
	return db.Select(models.OwnerSummaryColumns)
}

func volunteerSummary(db *gorm.DB) *gorm.DB {
	return db.Select(models.VolunteerSummaryColumns)
}

func (s *EventService) withRelations(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Preload("Owner", ownerSummary).
		Preload("Volunteers", volunteerSummary)
}

// Create uploads the images, then persists the event owned by caller. Temp
// files are always removed; on any failure no images stay uploaded.
func (s *EventService) Create(ctx context.Context, caller models.Caller, input CreateEventInput) (*models.Event, error) {
	defer removeTempFiles(input.ImagePaths...)

	input.Title = sanitize.Text(input.Title)
	input.Description = sanitize.HTML(input.Description)
	input.Location = sanitize.Text(input.Location)
	input.Status = strings.TrimSpace(input.Status)

	if len(input.ImagePaths) > models.MaxEventImages {
		return nil, apperr.Validation("a maximum of 5 images is allowed")
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	date, err := parseEventDate(input.Date)
	if err != nil {
		return nil, err
	}

	status := models.EventStatusUpcoming
	if input.Status != "" {
		status = models.EventStatus(input.Status)
	}

	uploads, err := uploadAll(ctx, s.Media, input.ImagePaths)
	if err != nil {
		logger.ErrorWithUser(caller.ID.String(), "event_create_upload_failed", err, map[string]interface{}{
			"images": len(input.ImagePaths),
		})
		return nil, err
	}
	urls, publicIDs := splitUploads(uploads)

	event := models.Event{
		Title:          input.Title,
		Description:    input.Description,
		Date:           date,
		Location:       input.Location,
		Status:         status,
		Images:         urls,
		ImagePublicIDs: publicIDs,
		OwnerID:        caller.ID,
	}
	if err := s.DB.WithContext(ctx).Omit(clause.Associations).Create(&event).Error; err != nil {
		deleteAll(ctx, s.Media, publicIDs)
		return nil, apperr.Internal("failed creating event", err)
	}

	logger.InfoWithUser(caller.ID.String(), "event_created", map[string]interface{}{
		"event_id": event.ID.String(),
		"images":   len(urls),
	})

	return s.Get(ctx, event.ID)
}

// Update applies the supplied fields. New images are uploaded first; old
// assets are only removed once the new set is stored.
func (s *EventService) Update(ctx context.Context, caller models.Caller, eventID uuid.UUID, input UpdateEventInput) (*models.Event, error) {
	defer removeTempFiles(input.ImagePaths...)

	var event models.Event
	if err := s.DB.WithContext(ctx).First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("event not found")
		}
		return nil, apperr.Internal("failed loading event", err)
	}

	if input.Title != nil {
		title := sanitize.Text(*input.Title)
		if title == "" {
			return nil, apperr.Validation("title cannot be empty")
		}
		event.Title = title
	}
	if input.Description != nil {
		description := sanitize.HTML(*input.Description)
		if description == "" {
			return nil, apperr.Validation("description cannot be empty")
		}
		event.Description = description
	}
	if input.Location != nil {
		location := sanitize.Text(*input.Location)
		if location == "" {
			return nil, apperr.Validation("location cannot be empty")
		}
		event.Location = location
	}
	if input.Date != nil {
		date, err := parseEventDate(*input.Date)
		if err != nil {
			return nil, err
		}
		event.Date = date
	}
	if input.Status != nil {
		status := models.EventStatus(strings.TrimSpace(*input.Status))
		if !status.Valid() {
			return nil, apperr.Validation("status must be one of: Upcoming Ongoing Completed Cancelled")
		}
		event.Status = status
	}

	var replacedIDs []string
	var newIDs []string
	if len(input.ImagePaths) > 0 {
		if len(input.ImagePaths) > models.MaxEventImages {
			return nil, apperr.Validation("a maximum of 5 images is allowed")
		}
		uploads, err := uploadAll(ctx, s.Media, input.ImagePaths)
		if err != nil {
			logger.ErrorWithUser(caller.ID.String(), "event_update_upload_failed", err, map[string]interface{}{
				"event_id": eventID.String(),
			})
			return nil, err
		}
		replacedIDs = event.ImagePublicIDs
		event.Images, newIDs = splitUploads(uploads)
		event.ImagePublicIDs = newIDs
	}

	if err := s.DB.WithContext(ctx).Omit(clause.Associations).Save(&event).Error; err != nil {
		deleteAll(ctx, s.Media, newIDs)
		return nil, apperr.Internal("failed updating event", err)
	}

	deleteAll(ctx, s.Media, replacedIDs)

	logger.InfoWithUser(caller.ID.String(), "event_updated", map[string]interface{}{
		"event_id":        eventID.String(),
		"images_replaced": len(newIDs) > 0,
	})

	return s.Get(ctx, event.ID)
}

// Delete removes the event's assets best-effort, then the event together with
// its roster and history rows.
func (s *EventService) Delete(ctx context.Context, caller models.Caller, eventID uuid.UUID) error {
	var event models.Event
	if err := s.DB.WithContext(ctx).First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("event not found")
		}
		return apperr.Internal("failed loading event", err)
	}

	deleteAll(ctx, s.Media, event.ImagePublicIDs)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&models.EventVolunteer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&models.VolunteerHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, "id = ?", eventID).Error
	})
	if err != nil {
		return apperr.Internal("failed deleting event", err)
	}

	logger.InfoWithUser(caller.ID.String(), "event_deleted", map[string]interface{}{
		"event_id": eventID.String(),
	})
	return nil
}

// Register adds caller to the event roster and records a history entry in
// the same transaction. A user can be on a roster at most once.
func (s *EventService) Register(ctx context.Context, caller models.Caller, eventID uuid.UUID) (*models.Event, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Select("id").First(&event, "id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("event not found")
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.EventVolunteer{}).
			Where("event_id = ? AND user_id = ?", eventID, caller.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflict("already registered for this event")
		}

		if err := tx.Create(&models.EventVolunteer{EventID: eventID, UserID: caller.ID}).Error; err != nil {
			if isUniqueViolation(err) {
				return apperr.Conflict("already registered for this event")
			}
			return err
		}

		history := models.VolunteerHistory{
			UserID:  caller.ID,
			EventID: eventID,
			Status:  models.ParticipationSignedUp,
		}
		if err := tx.Create(&history).Error; err != nil {
			if isUniqueViolation(err) {
				return apperr.Conflict("already registered for this event")
			}
			return err
		}
		return nil
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperr.Internal("failed registering for event", err)
	}

	metrics.VolunteerRegistrations.Inc()
	logger.InfoWithUser(caller.ID.String(), "event_volunteer_registered", map[string]interface{}{
		"event_id": eventID.String(),
	})

	return s.Get(ctx, eventID)
}

func (s *EventService) Get(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := s.withRelations(ctx).First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("event not found")
		}
		return nil, apperr.Internal("failed loading event", err)
	}
	normalizeEvent(&event)
	return &event, nil
}

// List returns events newest-created first.
func (s *EventService) List(ctx context.Context, page utils.PaginationParams) (*EventPage, error) {
	return s.list(ctx, s.DB.WithContext(ctx).Model(&models.Event{}), page)
}

func (s *EventService) ListByOwner(ctx context.Context, ownerID uuid.UUID, page utils.PaginationParams) (*EventPage, error) {
	var owners int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", ownerID).Count(&owners).Error; err != nil {
		return nil, apperr.Internal("failed loading owner", err)
	}
	if owners == 0 {
		return nil, apperr.NotFound("owner not found")
	}

	return s.list(ctx, s.DB.WithContext(ctx).Model(&models.Event{}).Where("owner_id = ?", ownerID), page)
}

func (s *EventService) list(ctx context.Context, query *gorm.DB, page utils.PaginationParams) (*EventPage, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, apperr.Internal("failed counting events", err)
	}

	events := []models.Event{}
	err := utils.ApplyPagination(query.Session(&gorm.Session{}), page).
		Preload("Owner", ownerSummary).
		Preload("Volunteers", volunteerSummary).
		Order("created_at DESC, id DESC").
		Find(&events).Error
	if err != nil {
		return nil, apperr.Internal("failed listing events", err)
	}

	for i := range events {
		normalizeEvent(&events[i])
	}
	return &EventPage{Events: events, Total: total}, nil
}

func normalizeEvent(event *models.Event) {
	if event.Images == nil {
		event.Images = []string{}
	}
	if event.ImagePublicIDs == nil {
		event.ImagePublicIDs = []string{}
	}
	if event.Volunteers == nil {
		event.Volunteers = []models.User{}
	}
}
