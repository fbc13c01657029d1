package middleware

import (
	"strings"

	"teamforge/server/internal/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	localUserID = "userID"
	localEmail  = "email"

	AccessCookie  = "token"
	RefreshCookie = "refresh_token"
)

// Auth validates the access token from the cookie or a Bearer header.
func Auth(tokens *utils.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerOrCookie(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Unauthorized - No token provided",
			})
		}

		claims, err := tokens.ValidateTokenOfType(tokenString, utils.TokenTypeAccess)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Unauthorized - Invalid token",
			})
		}

		c.Locals(localUserID, claims.UserID)
		c.Locals(localEmail, claims.Email)

		return c.Next()
	}
}

func bearerOrCookie(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return c.Cookies(AccessCookie)
}

// GetUserID gets user ID from context
func GetUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals(localUserID).(string)
	if !ok {
		return ""
	}
	return userID
}

// GetUserEmail gets user email from context
func GetUserEmail(c *fiber.Ctx) string {
	email, ok := c.Locals(localEmail).(string)
	if !ok {
		return ""
	}
	return email
}
