package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"hrms-backend/internal/models"
)

const defaultJWTSecret = "change-me"

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Session  SessionConfig
	CORS     CORSConfig
	Seed     SeedConfig
}

type ServerConfig struct {
	Port     string `env:"PORT" envDefault:"5000"`
	GinMode  string `env:"GIN_MODE" envDefault:"debug"`
	LogLevel int    `env:"LOG_LEVEL" envDefault:"0"`
}

type DatabaseConfig struct {
	Host      string `env:"DB_HOST" envDefault:"localhost"`
	Port      string `env:"DB_PORT" envDefault:"3306"`
	User      string `env:"DB_USER" envDefault:"root"`
	Password  string `env:"DB_PASSWORD"`
	Database  string `env:"DB_NAME" envDefault:"hrms"`
	EnableLog bool   `env:"DB_ENABLE_LOG" envDefault:"false"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"MONGO_DB" envDefault:"scrum_mis"`
}

type JWTConfig struct {
	Secret      string `env:"JWT_SECRET" envDefault:"change-me"`
	AccessMin   int    `env:"ACCESS_MIN" envDefault:"15"`
	RefreshDays int    `env:"REFRESH_DAYS" envDefault:"15"`
	BcryptCost  int    `env:"BCRYPT_COST" envDefault:"12"`
}

// AccessTTL is the access token lifetime
func (j JWTConfig) AccessTTL() time.Duration {
	return time.Duration(j.AccessMin) * time.Minute
}

// RefreshTTL is the refresh token lifetime
func (j JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(j.RefreshDays) * 24 * time.Hour
}

// AuthConfig holds the auth kill switch and the per-resource role allow-lists.
// Raw lists are normalized into the Roles fields by Load.
type AuthConfig struct {
	Disabled bool `env:"AUTH_DISABLED" envDefault:"false"`

	UsersEndpointAllowed   []string `env:"USERS_ENDPOINT_ALLOWED" envSeparator:"," envDefault:"SUPER-ADMIN,ADMIN"`
	UserGetEndpointAllowed []string `env:"USER_GET_ENDPOINT_ALLOWED" envSeparator:"," envDefault:"SUPER-ADMIN,ADMIN"`
	RolesEndpointAllowed   []string `env:"ROLES_ENDPOINT_ALLOWED" envSeparator:"," envDefault:"SUPER-ADMIN,ADMIN"`
	OrgWriteAllowed        []string `env:"ORG_WRITE_ALLOWED" envSeparator:"," envDefault:"SUPER-ADMIN,ADMIN"`
	ProjectWriteAllowed    []string `env:"PROJECT_WRITE_ALLOWED" envSeparator:"," envDefault:"SUPER-ADMIN,ADMIN,MANAGER"`

	Roles RoleAllowLists
}

// RoleAllowLists are the normalized allow-lists consumed by the access guard
type RoleAllowLists struct {
	Users        []models.RoleName
	UserUpdate   []models.RoleName
	RoleList     []models.RoleName
	OrgWrite     []models.RoleName
	ProjectWrite []models.RoleName
}

type SessionConfig struct {
	RetentionDays   int           `env:"REFRESH_RETENTION_DAYS" envDefault:"30"`
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1h"`
}

// Retention is how long expired or revoked refresh tokens are kept for audit
func (s SessionConfig) Retention() time.Duration {
	return time.Duration(s.RetentionDays) * 24 * time.Hour
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
}

// SeedConfig optionally bootstraps a super admin account
type SeedConfig struct {
	AdminEmail    string `env:"SEED_ADMIN_EMAIL"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD"`
}

// Load reads .env (if present) and the process environment into a Config
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Auth.Roles = RoleAllowLists{
		Users:        models.NormalizeRoles(cfg.Auth.UsersEndpointAllowed),
		UserUpdate:   models.NormalizeRoles(cfg.Auth.UserGetEndpointAllowed),
		RoleList:     models.NormalizeRoles(cfg.Auth.RolesEndpointAllowed),
		OrgWrite:     models.NormalizeRoles(cfg.Auth.OrgWriteAllowed),
		ProjectWrite: models.NormalizeRoles(cfg.Auth.ProjectWriteAllowed),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsRelease reports whether gin runs in release mode
func (c *Config) IsRelease() bool {
	return c.Server.GinMode == "release"
}

// Validate rejects settings that are unsafe outside local development
func (c *Config) Validate() error {
	if c.JWT.AccessMin < 0 || c.JWT.RefreshDays <= 0 {
		return errors.New("ACCESS_MIN must be >= 0 and REFRESH_DAYS must be > 0")
	}
	if c.Session.CleanupInterval <= 0 {
		return errors.New("SESSION_CLEANUP_INTERVAL must be positive")
	}
	if !c.IsRelease() {
		return nil
	}
	if c.Auth.Disabled {
		return errors.New("AUTH_DISABLED is only allowed outside release mode")
	}
	if c.JWT.Secret == "" || c.JWT.Secret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in release mode")
	}
	return nil
}
