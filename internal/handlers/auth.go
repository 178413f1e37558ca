package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/volunteerhub/backend/internal/apperr"
	"github.com/volunteerhub/backend/internal/config"
	"github.com/volunteerhub/backend/internal/middleware"
	"github.com/volunteerhub/backend/internal/models"
	"github.com/volunteerhub/backend/internal/services"
	"github.com/volunteerhub/backend/pkg/utils"
)

type AuthHandler struct {
	Auth   *services.AuthService
	Upload config.UploadConfig
	Cookie config.CookieConfig
}

func NewAuthHandler(auth *services.AuthService, upload config.UploadConfig, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{Auth: auth, Upload: upload, Cookie: cookie}
}

type registerRequest struct {
	FullName  string `json:"fullName" form:"fullName"`
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
	ContactNo string `json:"contactNo" form:"contactNo"`
	Role      string `json:"role" form:"role"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

type sessionResponse struct {
	User         *models.User `json:"user,omitempty"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func (h *AuthHandler) setSessionCookies(c *fiber.Ctx, pair utils.TokenPair) {
	now := time.Now()
	c.Cookie(h.cookie(middleware.AccessTokenCookie, pair.AccessToken, now.Add(utils.AccessTTL())))
	c.Cookie(h.cookie(middleware.RefreshTokenCookie, pair.RefreshToken, now.Add(utils.RefreshTTL())))
}

func (h *AuthHandler) clearSessionCookies(c *fiber.Ctx) {
	for _, name := range []string{middleware.AccessTokenCookie, middleware.RefreshTokenCookie} {
		cookie := h.cookie(name, "", time.Unix(0, 0))
		cookie.MaxAge = -1
		c.Cookie(cookie)
	}
}

func (h *AuthHandler) cookie(name, value string, expires time.Time) *fiber.Cookie {
	sameSite := fiber.CookieSameSiteLaxMode
	if h.Cookie.Secure {
		sameSite = fiber.CookieSameSiteNoneMode
	}
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.Cookie.Secure,
		SameSite: sameSite,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	avatars, err := saveUploads(c, "avatar", 1, h.Upload)
	if err != nil {
		return utils.Fail(c, err)
	}

	input := services.RegisterInput{
		FullName:  req.FullName,
		Email:     req.Email,
		Password:  req.Password,
		ContactNo: req.ContactNo,
		Role:      req.Role,
	}
	if len(avatars) > 0 {
		input.AvatarPath = avatars[0]
	}

	user, err := h.Auth.Register(c.UserContext(), input)
	if err != nil {
		return utils.Fail(c, err)
	}

	return utils.Success(c, fiber.StatusCreated, "user registered successfully", user)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, pair, err := h.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return utils.Fail(c, err)
	}

	h.setSessionCookies(c, pair)
	return utils.Success(c, fiber.StatusOK, "user logged in successfully", sessionResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	caller := middleware.GetCaller(c)
	if caller.IsZero() {
		return utils.Fail(c, apperr.Unauthorized("unauthorized request"))
	}

	if err := h.Auth.Logout(c.UserContext(), caller.ID); err != nil {
		return utils.Fail(c, err)
	}

	h.clearSessionCookies(c)
	return utils.Success(c, fiber.StatusOK, "user logged out successfully", fiber.Map{})
}

// Refresh accepts the refresh token from its cookie or the request body.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	cookieToken := c.Cookies(middleware.RefreshTokenCookie)
	var bodyToken string
	if len(c.Body()) > 0 {
		var req refreshRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
		}
		bodyToken = strings.TrimSpace(req.RefreshToken)
	}

	token := cookieToken
	if token == "" {
		token = bodyToken
	}
	_, pair, err := h.Auth.Refresh(c.UserContext(), token)
	// A stale cookie must not shadow a valid token sent in the body.
	if err != nil && apperr.IsKind(err, apperr.KindUnauthorized) && bodyToken != "" && bodyToken != token {
		_, pair, err = h.Auth.Refresh(c.UserContext(), bodyToken)
	}
	if err != nil {
		return utils.Fail(c, err)
	}

	h.setSessionCookies(c, pair)
	return utils.Success(c, fiber.StatusOK, "access token refreshed", sessionResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *AuthHandler) CurrentUser(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Fail(c, apperr.Unauthorized("unauthorized request"))
	}
	return utils.Success(c, fiber.StatusOK, "current user fetched successfully", user)
}

func (h *AuthHandler) History(c *fiber.Ctx) error {
	caller := middleware.GetCaller(c)
	if caller.IsZero() {
		return utils.Fail(c, apperr.Unauthorized("unauthorized request"))
	}

	history, err := h.Auth.History(c.UserContext(), caller.ID)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "volunteer history fetched successfully", history)
}
