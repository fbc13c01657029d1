package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"teamforge/server/internal/apperr"
	"teamforge/server/internal/middleware"
	"teamforge/server/internal/models"
	"teamforge/server/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	t.Run("should create the user and set auth cookies", func(t *testing.T) {
		req := require.New(t)
		env := newTestEnv(t)
		env.users.EXPECT().
			Create(gomock.Any(), "ada@example.com", gomock.Any(), "Ada Lovelace").
			DoAndReturn(func(_ any, email, hash, _ string) (models.User, error) {
				req.True(utils.CheckPassword(hash, "analytical-engine"))
				return models.User{ID: testUser, Email: email}, nil
			})

		resp, body := env.do(t, http.MethodPost, "/auth/register", RegisterRequest{
			Email:    " Ada@Example.com ",
			Password: "analytical-engine",
			FullName: " Ada Lovelace ",
		}, true)

		req.Equal(fiber.StatusCreated, resp.StatusCode)
		req.True(body.Success)
		req.NotNil(cookieByName(resp, middleware.AccessCookie))
		req.NotNil(cookieByName(resp, middleware.RefreshCookie))
		req.True(cookieByName(resp, middleware.AccessCookie).HttpOnly)

		data := decode[struct {
			User  models.User `json:"user"`
			Token string      `json:"token"`
		}](t, body.Data)
		req.Equal(testUser, data.User.ID)
		claims, err := env.tokens.ValidateTokenOfType(data.Token, utils.TokenTypeAccess)
		req.NoError(err)
		req.Equal(testUser, claims.UserID)
	})

	t.Run("should reject a duplicate email", func(t *testing.T) {
		env := newTestEnv(t)
		env.users.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(models.User{}, apperr.ErrConflict)

		resp, body := env.do(t, http.MethodPost, "/auth/register", RegisterRequest{
			Email: "ada@example.com", Password: "analytical-engine", FullName: "Ada",
		}, true)

		require.Equal(t, fiber.StatusConflict, resp.StatusCode)
		require.Equal(t, "Email already registered", body.Error)
	})

	t.Run("should validate the body", func(t *testing.T) {
		env := newTestEnv(t)
		resp, body := env.do(t, http.MethodPost, "/auth/register", RegisterRequest{
			Email: "not-an-email", Password: "short",
		}, true)

		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		require.Contains(t, body.Error, "Email failed email")
	})
}

func TestLogin(t *testing.T) {
	hash, err := utils.HashPassword("analytical-engine")
	require.NoError(t, err)
	user := models.User{ID: testUser, Email: "ada@example.com", PasswordHash: hash}

	tests := []struct {
		name     string
		password string
		found    bool
		wantCode int
	}{
		{name: "should accept valid credentials", password: "analytical-engine", found: true, wantCode: fiber.StatusOK},
		{name: "should reject a wrong password", password: "difference-engine", found: true, wantCode: fiber.StatusUnauthorized},
		{name: "should reject an unknown email", password: "analytical-engine", found: false, wantCode: fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			env := newTestEnv(t)
			if tt.found {
				env.users.EXPECT().FindByEmail(gomock.Any(), "ada@example.com").Return(user, nil)
			} else {
				env.users.EXPECT().FindByEmail(gomock.Any(), "ada@example.com").Return(models.User{}, apperr.ErrNotFound)
			}

			resp, body := env.do(t, http.MethodPost, "/auth/login",
				LoginRequest{Email: "ada@example.com", Password: tt.password}, true)

			req.Equal(tt.wantCode, resp.StatusCode)
			req.NotContains(string(body.Data), "analytical-engine")
			req.NotContains(string(body.Data), hash)
		})
	}
}

func TestLogin_NormalisesEmailBeforeValidation(t *testing.T) {
	req := require.New(t)
	hash, err := utils.HashPassword("analytical-engine")
	req.NoError(err)

	env := newTestEnv(t)
	env.users.EXPECT().FindByEmail(gomock.Any(), "ada@example.com").
		Return(models.User{ID: testUser, Email: "ada@example.com", PasswordHash: hash}, nil)

	resp, body := env.do(t, http.MethodPost, "/auth/login",
		LoginRequest{Email: "  ADA@Example.com\t", Password: "analytical-engine"}, true)

	req.Equal(fiber.StatusOK, resp.StatusCode, body.Error)
}

func TestRegister_RejectsBlankNameAfterTrim(t *testing.T) {
	env := newTestEnv(t)
	env.users.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	resp, body := env.do(t, http.MethodPost, "/auth/register", RegisterRequest{
		Email: "ada@example.com", Password: "analytical-engine", FullName: "   ",
	}, true)

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Contains(t, body.Error, "FullName failed required")
}

func TestRefreshToken(t *testing.T) {
	t.Run("should rotate tokens from the refresh cookie", func(t *testing.T) {
		req := require.New(t)
		env := newTestEnv(t)
		refresh, err := env.tokens.GenerateRefreshToken(testUser, "ada@example.com")
		req.NoError(err)
		env.users.EXPECT().FindByID(gomock.Any(), testUser).Return(models.User{ID: testUser, Email: "ada@example.com"}, nil)

		r := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
		r.AddCookie(&http.Cookie{Name: middleware.RefreshCookie, Value: refresh})
		resp, body := env.send(t, r)

		req.Equal(fiber.StatusOK, resp.StatusCode)
		req.True(body.Success)
		req.NotNil(cookieByName(resp, middleware.AccessCookie))
	})

	t.Run("should refuse an access token", func(t *testing.T) {
		env := newTestEnv(t)
		access, err := env.tokens.GenerateToken(testUser, "ada@example.com")
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
		r.AddCookie(&http.Cookie{Name: middleware.RefreshCookie, Value: access})
		resp, _ := env.send(t, r)

		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("should require a token", func(t *testing.T) {
		env := newTestEnv(t)
		resp, body := env.do(t, http.MethodPost, "/auth/refresh", nil, true)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "Refresh token not found", body.Error)
	})
}

func TestMe(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	env.users.EXPECT().FindByID(gomock.Any(), testUser).Return(models.User{ID: testUser, Email: "me@example.com"}, nil)
	env.profiles.EXPECT().Get(gomock.Any(), testUser).Return(models.Profile{ID: testUser, FullName: "Me"}, nil)

	resp, body := env.do(t, http.MethodGet, "/auth/me", nil, false)

	req.Equal(fiber.StatusOK, resp.StatusCode)
	data := decode[struct {
		User    models.User    `json:"user"`
		Profile models.Profile `json:"profile"`
	}](t, body.Data)
	req.Equal("me@example.com", data.User.Email)
	req.Equal("Me", data.Profile.FullName)
}
