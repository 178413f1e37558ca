package models

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

func (r UserRole) Valid() bool {
	return r == UserRoleAdmin || r == UserRoleUser
}

type User struct {
	BaseModel
	FullName         string   `json:"fullName" gorm:"type:varchar(150);not null"`
	Email            string   `json:"email,omitempty" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash     string   `json:"-" gorm:"type:text;not null"`
	ContactNo        string   `json:"contactNo,omitempty" gorm:"type:varchar(32);not null"`
	Role             UserRole `json:"role,omitempty" gorm:"type:varchar(20);not null;default:'user'"`
	AvatarURL        *string  `json:"avatar,omitempty" gorm:"type:text"`
	AvatarPublicID   *string  `json:"-" gorm:"type:text"`
	RefreshTokenHash *string  `json:"-" gorm:"type:varchar(64)"`
}

// Caller builds the immutable identity handed to handlers and services.
func (u User) Caller() Caller {
	return Caller{ID: u.ID, Email: u.Email, Role: u.Role}
}

// PublicUserColumns lists the columns loaded for the caller's own profile.
var PublicUserColumns = []string{"id", "full_name", "email", "contact_no", "role", "avatar_url", "created_at", "updated_at"}

// OwnerSummaryColumns is what other users see of an event owner.
var OwnerSummaryColumns = []string{"id", "full_name", "email", "avatar_url"}

// VolunteerSummaryColumns is what other users see of a registered volunteer.
var VolunteerSummaryColumns = []string{"id", "full_name", "avatar_url"}
