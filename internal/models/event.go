package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "Upcoming"
	EventStatusOngoing   EventStatus = "Ongoing"
	EventStatusCompleted EventStatus = "Completed"
	EventStatusCancelled EventStatus = "Cancelled"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusUpcoming, EventStatusOngoing, EventStatusCompleted, EventStatusCancelled:
		return true
	default:
		return false
	}
}

// MaxEventImages bounds the images attached to a single event.
const MaxEventImages = 5

type Event struct {
	BaseModel
	Title          string      `json:"title" gorm:"type:varchar(200);not null"`
	Description    string      `json:"description" gorm:"type:text;not null"`
	Date           time.Time   `json:"date" gorm:"not null;index"`
	Location       string      `json:"location" gorm:"type:varchar(255);not null"`
	Status         EventStatus `json:"status" gorm:"type:varchar(20);not null;default:'Upcoming'"`
	Images         []string    `json:"images" gorm:"type:text;serializer:json"`
	ImagePublicIDs []string    `json:"-" gorm:"type:text;serializer:json"`
	OwnerID        uuid.UUID   `json:"ownerID" gorm:"type:uuid;not null;index"`

	Owner      *User  `json:"owner,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
	Volunteers []User `json:"volunteers" gorm:"many2many:event_volunteers;joinForeignKey:EventID;joinReferences:UserID"`
}

// EventVolunteer is the roster join row. The composite primary key keeps a
// user on an event's roster at most once.
type EventVolunteer struct {
	EventID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time
}

func (EventVolunteer) TableName() string {
	return "event_volunteers"
}

// SetupJoinTables must run before AutoMigrate so gorm uses EventVolunteer for
// the roster relation.
func SetupJoinTables(db *gorm.DB) error {
	return db.SetupJoinTable(&Event{}, "Volunteers", &EventVolunteer{})
}

// AllModels is the migration set, join models included.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Event{},
		&EventVolunteer{},
		&VolunteerHistory{},
	}
}
