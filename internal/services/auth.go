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
)

const invalidCredentials = "invalid credentials"

type RegisterInput struct {
	FullName   string `json:"fullName" validate:"required,max=150"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
	ContactNo  string `json:"contactNo" validate:"required,max=32"`
	Role       string `json:"role" validate:"omitempty,oneof=admin user"`
	AvatarPath string `json:"-"`
}

type AuthService struct {
	DB    *gorm.DB
	Media storage.MediaStore
	// AllowRoleSignup lets a registering user pick the admin role.
	AllowRoleSignup bool
}

func NewAuthService(db *gorm.DB, media storage.MediaStore, allowRoleSignup bool) *AuthService {
	return &AuthService{DB: db, Media: media, AllowRoleSignup: allowRoleSignup}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	defer removeTempFiles(input.AvatarPath)

	input.FullName = sanitize.Text(input.FullName)
	input.Email = normalizeEmail(input.Email)
	input.ContactNo = sanitize.Text(input.ContactNo)
	input.Role = strings.TrimSpace(input.Role)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	var existing int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", input.Email).Count(&existing).Error; err != nil {
		return nil, apperr.Internal("failed checking email", err)
	}
	if existing > 0 {
		metrics.AuthEvents.WithLabelValues("register", "rejected").Inc()
		return nil, apperr.Conflict("user with email already exists")
	}

	role := models.UserRoleUser
	if s.AllowRoleSignup && input.Role == string(models.UserRoleAdmin) {
		role = models.UserRoleAdmin
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal("failed hashing password", err)
	}

	user := models.User{
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: hash,
		ContactNo:    input.ContactNo,
		Role:         role,
	}

	if input.AvatarPath != "" {
		uploads, err := uploadAll(ctx, s.Media, []string{input.AvatarPath})
		if err != nil {
			logger.Error("avatar_upload_failed", err, map[string]interface{}{"email": input.Email})
			return nil, apperr.UploadFailed("avatar upload failed", err)
		}
		user.AvatarURL = &uploads[0].URL
		user.AvatarPublicID = &uploads[0].PublicID
	}

	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if user.AvatarPublicID != nil {
			deleteAll(ctx, s.Media, []string{*user.AvatarPublicID})
		}
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("user with email already exists")
		}
		return nil, apperr.Internal("failed creating user", err)
	}

	metrics.AuthEvents.WithLabelValues("register", "ok").Inc()
	logger.InfoWithUser(user.ID.String(), "user_registered", map[string]interface{}{
		"email": user.Email,
		"role":  string(user.Role),
	})

	return &user, nil
}

// Login verifies credentials and issues a new session pair. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, utils.TokenPair, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, utils.TokenPair{}, apperr.Validation("email and password are required")
	}

	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.AuthEvents.WithLabelValues("login", "rejected").Inc()
			logger.Warn("login_unknown_email", map[string]interface{}{"email": email})
			return nil, utils.TokenPair{}, apperr.Unauthorized(invalidCredentials)
		}
		return nil, utils.TokenPair{}, apperr.Internal("failed loading user", err)
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		metrics.AuthEvents.WithLabelValues("login", "rejected").Inc()
		logger.WarnWithUser(user.ID.String(), "login_wrong_password", nil)
		return nil, utils.TokenPair{}, apperr.Unauthorized(invalidCredentials)
	}

	pair, err := s.issueSession(ctx, &user)
	if err != nil {
		return nil, utils.TokenPair{}, err
	}

	metrics.AuthEvents.WithLabelValues("login", "ok").Inc()
	logger.InfoWithUser(user.ID.String(), "user_logged_in", nil)
	return &user, pair, nil
}

func (s *AuthService) issueSession(ctx context.Context, user *models.User) (utils.TokenPair, error) {
	pair, err := utils.GenerateTokenPair(user)
	if err != nil {
		return utils.TokenPair{}, apperr.Internal("failed generating tokens", err)
	}

	hash := utils.HashRefreshToken(pair.RefreshToken)
	if err := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("refresh_token_hash", hash).Error; err != nil {
		return utils.TokenPair{}, apperr.Internal("failed storing session", err)
	}
	user.RefreshTokenHash = &hash
	return pair, nil
}

// Refresh exchanges a live refresh token for a new pair. The stored hash is
// swapped only if it still matches the presented token, so a token can be
// used once even under concurrent requests.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.User, utils.TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, utils.TokenPair{}, apperr.Unauthorized("refresh token is required")
	}

	claims, err := utils.ValidateToken(refreshToken, utils.TokenKindRefresh)
	if err != nil {
		metrics.AuthEvents.WithLabelValues("refresh", "rejected").Inc()
		return nil, utils.TokenPair{}, apperr.Unauthorized("invalid refresh token")
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.AuthEvents.WithLabelValues("refresh", "rejected").Inc()
			return nil, utils.TokenPair{}, apperr.Unauthorized("invalid refresh token")
		}
		return nil, utils.TokenPair{}, apperr.Internal("failed loading user", err)
	}

	presented := utils.HashRefreshToken(refreshToken)
	if user.RefreshTokenHash == nil || *user.RefreshTokenHash != presented {
		metrics.AuthEvents.WithLabelValues("refresh", "rejected").Inc()
		logger.WarnWithUser(user.ID.String(), "refresh_token_reuse", nil)
		return nil, utils.TokenPair{}, apperr.Unauthorized("refresh token is expired or used")
	}

	pair, err := utils.GenerateTokenPair(&user)
	if err != nil {
		return nil, utils.TokenPair{}, apperr.Internal("failed generating tokens", err)
	}
	next := utils.HashRefreshToken(pair.RefreshToken)

	result := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND refresh_token_hash = ?", user.ID, presented).
		Update("refresh_token_hash", next)
	if result.Error != nil {
		return nil, utils.TokenPair{}, apperr.Internal("failed rotating session", result.Error)
	}
	if result.RowsAffected == 0 {
		metrics.AuthEvents.WithLabelValues("refresh", "rejected").Inc()
		return nil, utils.TokenPair{}, apperr.Unauthorized("refresh token is expired or used")
	}
	user.RefreshTokenHash = &next

	metrics.AuthEvents.WithLabelValues("refresh", "ok").Inc()
	logger.InfoWithUser(user.ID.String(), "session_refreshed", nil)
	return &user, pair, nil
}

// Logout invalidates the stored refresh token.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("refresh_token_hash", nil).Error; err != nil {
		return apperr.Internal("failed clearing session", err)
	}
	metrics.AuthEvents.WithLabelValues("logout", "ok").Inc()
	logger.InfoWithUser(userID.String(), "user_logged_out", nil)
	return nil
}

func (s *AuthService) Current(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Select(models.PublicUserColumns).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed loading user", err)
	}
	return &user, nil
}

// History lists the caller's participation records, newest first, with the
// event attached.
func (s *AuthService) History(ctx context.Context, userID uuid.UUID) ([]models.VolunteerHistory, error) {
	history := []models.VolunteerHistory{}
	err := s.DB.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&history).Error
	if err != nil {
		return nil, apperr.Internal("failed loading history", err)
	}
	for i := range history {
		if history[i].Event != nil {
			normalizeEvent(history[i].Event)
		}
	}
	return history, nil
}
