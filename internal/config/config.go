package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Config is read once at startup and passed down explicitly.
type Config struct {
	Host                  string        `env:"HOST"`
	Port                  int           `env:"PORT,default=8080"`
	DatabaseURL           string        `env:"DATABASE_URL,required=true"`
	JWTSecret             string        `env:"JWT_SECRET,required=true"`
	AccessTokenTTL        time.Duration `env:"ACCESS_TOKEN_TTL,default=15m"`
	RefreshTokenTTL       time.Duration `env:"REFRESH_TOKEN_TTL,default=168h"`
	LogLevel              string        `env:"LOG_LEVEL,default=info"`
	LogFormat             string        `env:"LOG_FORMAT,default=json"`
	AllowedOrigins        string        `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`
	UploadDir             string        `env:"UPLOAD_DIR,default=./uploads"`
	HideSelfConversations bool          `env:"HIDE_SELF_CONVERSATIONS,default=false"`
	CookieSecure          bool          `env:"COOKIE_SECURE,default=false"`
}

// Load reads an optional .env file and decodes the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found", "error", err)
	}

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL must not be empty"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("ACCESS_TOKEN_TTL must be positive, got %s", c.AccessTokenTTL))
	}
	if c.RefreshTokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("REFRESH_TOKEN_TTL must be positive, got %s", c.RefreshTokenTTL))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Address is the listen address handed to fiber.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
