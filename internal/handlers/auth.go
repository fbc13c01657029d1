package handlers

import (
	"errors"
	"strings"
	"time"

	"teamforge/server/internal/apperr"
	"teamforge/server/internal/middleware"
	"teamforge/server/internal/models"
	"teamforge/server/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,max=100"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest lets clients that cannot keep cookies send the refresh token in the body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RegisterRequest) normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FullName = strings.TrimSpace(r.FullName)
}

func (r *LoginRequest) normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

var errInvalidCredentials = apperr.Unauthorized("Invalid email or password")

// Register handles user registration
func (h *Handler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user, err := h.users.Create(c.UserContext(), req.Email, hashedPassword, req.FullName)
	if errors.Is(err, apperr.ErrConflict) {
		return fiber.NewError(fiber.StatusConflict, "Email already registered")
	}
	if err != nil {
		return err
	}

	token, err := h.issueTokens(c, user)
	if err != nil {
		return err
	}

	h.log.Info("user registered", "user_id", user.ID)
	return ok(c, fiber.StatusCreated, fiber.Map{
		"user":  user,
		"token": token,
	})
}

// Login handles user login
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.FindByEmail(c.UserContext(), req.Email)
	if errors.Is(err, apperr.ErrNotFound) {
		return errInvalidCredentials
	}
	if err != nil {
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return errInvalidCredentials
	}

	token, err := h.issueTokens(c, user)
	if err != nil {
		return err
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"user":  user,
		"token": token,
	})
}

// Me returns the authenticated user and their profile
func (h *Handler) Me(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	user, err := h.users.FindByID(c.UserContext(), userID)
	if err != nil {
		return err
	}

	data := fiber.Map{"user": user}
	profile, err := h.profiles.Get(c.UserContext(), userID)
	switch {
	case err == nil:
		data["profile"] = profile
	case !errors.Is(err, apperr.ErrNotFound):
		return err
	}

	return ok(c, fiber.StatusOK, data)
}

// Logout clears both auth cookies
func (h *Handler) Logout(c *fiber.Ctx) error {
	h.setCookie(c, middleware.AccessCookie, "", -1)
	h.setCookie(c, middleware.RefreshCookie, "", -1)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// RefreshToken handles token refresh
func (h *Handler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies(middleware.RefreshCookie)
	if refreshToken == "" {
		var req RefreshRequest
		if len(c.Body()) > 0 {
			_ = c.BodyParser(&req)
		}
		refreshToken = req.RefreshToken
	}
	if refreshToken == "" {
		return apperr.Unauthorized("Refresh token not found")
	}

	claims, err := h.tokens.ValidateTokenOfType(refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return apperr.Unauthorized("Invalid refresh token")
	}

	user, err := h.users.FindByID(c.UserContext(), claims.UserID)
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.Unauthorized("Invalid refresh token")
	}
	if err != nil {
		return err
	}

	token, err := h.issueTokens(c, user)
	if err != nil {
		return err
	}

	return ok(c, fiber.StatusOK, fiber.Map{"token": token})
}

// issueTokens sets the access and refresh cookies and returns the access token.
func (h *Handler) issueTokens(c *fiber.Ctx, user models.User) (string, error) {
	access, err := h.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", err
	}
	refresh, err := h.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", err
	}

	h.setCookie(c, middleware.AccessCookie, access, h.tokens.AccessTTL())
	h.setCookie(c, middleware.RefreshCookie, refresh, h.tokens.RefreshTTL())
	return access, nil
}

func (h *Handler) setCookie(c *fiber.Ctx, name, value string, ttl time.Duration) {
	maxAge := int(ttl / time.Second)
	if ttl < 0 {
		maxAge = -1
	}
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   maxAge,
	})
}
