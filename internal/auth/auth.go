// Package auth implements single-user authentication: a bcrypt password,
// JWT session tokens, an API key for non-browser clients, and passkeys.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoPasswordSet      = errors.New("no password has been set")
	ErrPasswordRequired   = errors.New("password is required")
)

//nolint:gosec // setting names, not credentials
const (
	jwtSecretSettingKey = "jwt_secret"
	apiKeySettingKey    = "api_key"
)

// Service handles authentication operations.
type Service struct {
	db           *sql.DB
	jwtSecret    []byte
	sessionHours int
}

// Claims represents JWT claims.
type Claims struct {
	jwt.RegisteredClaims
}

// NewService creates a new auth service. When jwtSecret is empty a
// generated secret is persisted in the settings table so sessions
// survive restarts.
func NewService(db *sql.DB, jwtSecret string, sessionHours int) (*Service, error) {
	if sessionHours <= 0 {
		sessionHours = 24
	}

	secret := []byte(jwtSecret)
	if len(secret) == 0 {
		var err error
		secret, err = loadOrGenerateSecret(db)
		if err != nil {
			return nil, err
		}
	}

	return &Service{
		db:           db,
		jwtSecret:    secret,
		sessionHours: sessionHours,
	}, nil
}

// SetDB swaps the database connection, used when toggling developer mode.
func (s *Service) SetDB(db *sql.DB) {
	s.db = db
}

func loadOrGenerateSecret(db *sql.DB) ([]byte, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, jwtSecretSettingKey).Scan(&value)

	switch {
	case err == nil && value != "":
		secret, decErr := hex.DecodeString(value)
		if decErr != nil {
			return nil, fmt.Errorf("failed to decode stored JWT secret: %w", decErr)
		}
		return secret, nil

	case errors.Is(err, sql.ErrNoRows) || (err == nil && value == ""):
		return generateAndPersistSecret(db)

	default:
		return nil, fmt.Errorf("failed to load JWT secret: %w", err)
	}
}

func generateAndPersistSecret(db *sql.DB) ([]byte, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
	}

	_, err := db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		jwtSecretSettingKey, hex.EncodeToString(secret),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to persist JWT secret: %w", err)
	}
	return secret, nil
}

// SetPassword sets or updates the authentication password.
func (s *Service) SetPassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Upsert the password
	_, err = s.db.Exec(`
		INSERT INTO auth (id, password_hash, updated_at)
		VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			password_hash = excluded.password_hash,
			updated_at = CURRENT_TIMESTAMP
	`, string(hash))

	if err != nil {
		return fmt.Errorf("failed to save password: %w", err)
	}

	return nil
}

// ValidatePassword checks if the provided password is correct.
func (s *Service) ValidatePassword(password string) error {
	var hash string
	err := s.db.QueryRow("SELECT password_hash FROM auth WHERE id = 1").Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoPasswordSet
		}
		return fmt.Errorf("failed to get password: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	return nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *Service) ChangePassword(current, updated string) error {
	if err := s.ValidatePassword(current); err != nil {
		return err
	}
	return s.SetPassword(updated)
}

// IsPasswordSet returns true if a password has been configured.
func (s *Service) IsPasswordSet() bool {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM auth WHERE id = 1").Scan(&count)
	return err == nil && count > 0
}

// GenerateToken creates a new JWT session token.
func (s *Service) GenerateToken() (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(s.sessionHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "cadenza",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken validates a JWT token and returns the claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// GetAPIKey returns the API key, or an empty string when none exists.
func (s *Service) GetAPIKey(ctx context.Context) string {
	var value string
	if err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, apiKeySettingKey).Scan(&value); err != nil {
		return ""
	}
	return value
}

// RegenerateAPIKey replaces the API key and returns the new value.
func (s *Service) RegenerateAPIKey(ctx context.Context) (string, error) {
	key, err := GenerateAPIKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate API key: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		apiKeySettingKey, key,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save API key: %w", err)
	}
	return key, nil
}

// ValidateAPIKey reports whether key matches the stored API key.
func (s *Service) ValidateAPIKey(ctx context.Context, key string) bool {
	stored := s.GetAPIKey(ctx)
	if stored == "" || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(key)) == 1
}

// GenerateAPIKey generates a random API key.
func GenerateAPIKey() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
