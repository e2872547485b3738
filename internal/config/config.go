package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port          string
	SQLitePath    string
	SessionSecret string
	// BcryptCost controls the work factor of the password hash
	BcryptCost int
	// AdminUserID is the distinguished identity granted elevated access.
	// Defaults to the first registered user.
	AdminUserID int
	// StrictDelete enables the ownership check on todo deletion
	StrictDelete bool
}

func LoadConfig() (*Config, error) {
	// A missing .env file is fine; the environment may be set directly
	_ = godotenv.Load()

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is not set")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5001"
	}

	sqlitePath := os.Getenv("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = filepath.Join("data", "todos.db")
	}

	bcryptCost := bcrypt.DefaultCost
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %q", v)
		}
		bcryptCost = cost
	}

	adminUserID := 1
	if v := os.Getenv("ADMIN_USER_ID"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id < 1 {
			return nil, fmt.Errorf("invalid ADMIN_USER_ID: %q", v)
		}
		adminUserID = id
	}

	strictDelete := false
	if v := os.Getenv("STRICT_DELETE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid STRICT_DELETE: %q", v)
		}
		strictDelete = b
	}

	return &Config{
		Port:          port,
		SQLitePath:    sqlitePath,
		SessionSecret: sessionSecret,
		BcryptCost:    bcryptCost,
		AdminUserID:   adminUserID,
		StrictDelete:  strictDelete,
	}, nil
}
