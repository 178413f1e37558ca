package models

import "github.com/google/uuid"

type ParticipationStatus string

const (
	ParticipationSignedUp  ParticipationStatus = "signedUp"
	ParticipationAttended  ParticipationStatus = "attended"
	ParticipationCompleted ParticipationStatus = "completed"
	ParticipationAbsent    ParticipationStatus = "absent"
)

// VolunteerHistory records a user's participation in an event.
type VolunteerHistory struct {
	BaseModel
	UserID   uuid.UUID           `json:"userID" gorm:"type:uuid;not null;uniqueIndex:idx_history_user_event"`
	EventID  uuid.UUID           `json:"eventID" gorm:"type:uuid;not null;uniqueIndex:idx_history_user_event"`
	Status   ParticipationStatus `json:"status" gorm:"type:varchar(20);not null;default:'signedUp'"`
	Feedback string              `json:"feedback" gorm:"type:text"`

	Event *Event `json:"event,omitempty" gorm:"foreignKey:EventID;references:ID"`
}

func (VolunteerHistory) TableName() string {
	return "volunteer_histories"
}
