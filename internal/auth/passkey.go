package auth

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/google/uuid"
)

var (
	ErrChallengeNotFound = errors.New("challenge expired or not found")
	ErrNoPasskeys        = errors.New("no passkeys registered")
	ErrPasskeyNotFound   = errors.New("passkey not found")
)

// ownerHandle is the WebAuthn user handle for the server owner. It must
// stay stable across registrations so discoverable logins resolve to
// the same account.
var ownerHandle = []byte("cadenza-owner")

// PasskeyService manages WebAuthn credentials for the server owner.
type PasskeyService struct {
	webAuthn   *webauthn.WebAuthn
	db         *sql.DB
	challenges sync.Map // map[string]*ChallengeData
	config     PasskeyConfig
}

type PasskeyConfig struct {
	RPDisplayName string
	RPID          string
	RPOrigins     []string
}

type ChallengeData struct {
	SessionData *webauthn.SessionData
	ExpiresAt   time.Time
}

type BeginRegistrationResponse struct {
	ChallengeID string                       `json:"challengeId"`
	Options     *protocol.CredentialCreation `json:"options"`
}

type BeginLoginResponse struct {
	ChallengeID string                        `json:"challengeId"`
	Options     *protocol.CredentialAssertion `json:"options"`
}

type PasskeyInfo struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	CreatedAt  string  `json:"createdAt"`
	LastUsedAt *string `json:"lastUsedAt"`
}

func NewPasskeyService(db *sql.DB, config PasskeyConfig) (*PasskeyService, error) {
	wconfig := &webauthn.Config{
		RPDisplayName: config.RPDisplayName,
		RPID:          config.RPID,
		RPOrigins:     config.RPOrigins,
	}

	webAuthn, err := webauthn.New(wconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create webauthn: %w", err)
	}

	s := &PasskeyService{
		webAuthn: webAuthn,
		db:       db,
		config:   config,
	}

	go s.cleanupExpiredChallenges()

	return s, nil
}

// SetDB swaps the database connection, used when toggling developer mode.
func (s *PasskeyService) SetDB(db *sql.DB) {
	s.db = db
}

func (s *PasskeyService) storeChallenge(challengeID string, data *ChallengeData) {
	data.ExpiresAt = time.Now().Add(5 * time.Minute)
	s.challenges.Store(challengeID, data)
}

func (s *PasskeyService) getChallenge(challengeID string) (*ChallengeData, bool) {
	val, ok := s.challenges.Load(challengeID)
	if !ok {
		return nil, false
	}
	data := val.(*ChallengeData)
	if time.Now().After(data.ExpiresAt) {
		s.challenges.Delete(challengeID)
		return nil, false
	}
	return data, true
}

func (s *PasskeyService) deleteChallenge(challengeID string) {
	s.challenges.Delete(challengeID)
}

func (s *PasskeyService) cleanupExpiredChallenges() {
	ticker := time.NewTicker(1 * time.Minute)
	for range ticker.C {
		now := time.Now()
		s.challenges.Range(func(key, value interface{}) bool {
			if data, ok := value.(*ChallengeData); ok {
				if now.After(data.ExpiresAt) {
					s.challenges.Delete(key)
				}
			}
			return true
		})
	}
}

// BeginRegistration starts registering a new passkey for the owner.
func (s *PasskeyService) BeginRegistration(ctx context.Context) (*BeginRegistrationResponse, error) {
	user, err := s.ownerUser(ctx)
	if err != nil {
		return nil, err
	}

	exclusions := make([]protocol.CredentialDescriptor, len(user.credentials))
	for i, cred := range user.credentials {
		exclusions[i] = protocol.CredentialDescriptor{
			Type:         protocol.PublicKeyCredentialType,
			CredentialID: cred.ID,
			Transport:    cred.Transport,
		}
	}

	options, session, err := s.webAuthn.BeginRegistration(user,
		webauthn.WithExclusions(exclusions),
		webauthn.WithResidentKeyRequirement(protocol.ResidentKeyRequirementPreferred),
		webauthn.WithAuthenticatorSelection(protocol.AuthenticatorSelection{
			UserVerification: protocol.VerificationPreferred,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to begin registration: %w", err)
	}

	challengeID := uuid.NewString()
	s.storeChallenge(challengeID, &ChallengeData{SessionData: session})

	return &BeginRegistrationResponse{
		ChallengeID: challengeID,
		Options:     options,
	}, nil
}

// FinishRegistration completes passkey registration using the HTTP request.
func (s *PasskeyService) FinishRegistration(ctx context.Context, challengeID, name string, r *http.Request) error {
	challenge, ok := s.getChallenge(challengeID)
	if !ok {
		return ErrChallengeNotFound
	}
	defer s.deleteChallenge(challengeID)

	user, err := s.ownerUser(ctx)
	if err != nil {
		return err
	}

	credential, err := s.webAuthn.FinishRegistration(user, *challenge.SessionData, r)
	if err != nil {
		return fmt.Errorf("failed to finish registration: %w", err)
	}

	raw, err := json.Marshal(credential)
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO passkey_credentials (id, credential_id, credential_json, name) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), encodeCredentialID(credential.ID), string(raw), name,
	)
	if err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	return nil
}

// BeginLogin starts passkey authentication (discoverable credentials).
func (s *PasskeyService) BeginLogin(ctx context.Context) (*BeginLoginResponse, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM passkey_credentials`).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count credentials: %w", err)
	}
	if count == 0 {
		return nil, ErrNoPasskeys
	}

	options, session, err := s.webAuthn.BeginDiscoverableLogin(
		webauthn.WithUserVerification(protocol.VerificationPreferred),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to begin login: %w", err)
	}

	challengeID := uuid.NewString()
	s.storeChallenge(challengeID, &ChallengeData{SessionData: session})

	return &BeginLoginResponse{
		ChallengeID: challengeID,
		Options:     options,
	}, nil
}

// FinishLogin completes passkey authentication using the HTTP request.
func (s *PasskeyService) FinishLogin(ctx context.Context, challengeID string, r *http.Request) error {
	challenge, ok := s.getChallenge(challengeID)
	if !ok {
		return ErrChallengeNotFound
	}
	defer s.deleteChallenge(challengeID)

	var matchedID string

	credential, err := s.webAuthn.FinishDiscoverableLogin(
		func(rawID, userHandle []byte) (webauthn.User, error) {
			var rowID string
			err := s.db.QueryRowContext(ctx,
				`SELECT id FROM passkey_credentials WHERE credential_id = ?`,
				encodeCredentialID(rawID),
			).Scan(&rowID)
			if err != nil {
				return nil, fmt.Errorf("credential not found")
			}
			matchedID = rowID

			return s.ownerUser(ctx)
		},
		*challenge.SessionData,
		r,
	)
	if err != nil {
		return fmt.Errorf("failed to finish login: %w", err)
	}

	// Persist the updated sign count alongside the last-used time.
	raw, err := json.Marshal(credential)
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE passkey_credentials SET credential_json = ?, last_used_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(raw), matchedID,
	)
	if err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}

	return nil
}

// ListCredentials returns all registered passkeys.
func (s *PasskeyService) ListCredentials(ctx context.Context) ([]PasskeyInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, last_used_at FROM passkey_credentials ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	defer rows.Close()

	result := []PasskeyInfo{}
	for rows.Next() {
		var (
			info      PasskeyInfo
			createdAt time.Time
			lastUsed  sql.NullTime
		)
		if err := rows.Scan(&info.ID, &info.Name, &createdAt, &lastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan credential: %w", err)
		}
		info.CreatedAt = createdAt.Format(time.RFC3339)
		if lastUsed.Valid {
			t := lastUsed.Time.Format(time.RFC3339)
			info.LastUsedAt = &t
		}
		result = append(result, info)
	}

	return result, rows.Err()
}

// UpdateCredentialName renames a passkey.
func (s *PasskeyService) UpdateCredentialName(ctx context.Context, credID, name string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE passkey_credentials SET name = ? WHERE id = ?`, name, credID)
	if err != nil {
		return fmt.Errorf("failed to rename credential: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPasskeyNotFound
	}
	return nil
}

// DeleteCredential removes a passkey.
func (s *PasskeyService) DeleteCredential(ctx context.Context, credID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM passkey_credentials WHERE id = ?`, credID)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPasskeyNotFound
	}
	return nil
}

// ownerUser builds the webauthn.User for the single owner account,
// using the profile display name when one is set.
func (s *PasskeyService) ownerUser(ctx context.Context) (*ownerAccount, error) {
	var displayName string
	err := s.db.QueryRowContext(ctx, `SELECT display_name FROM profile WHERE id = 1`).Scan(&displayName)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if displayName == "" {
		displayName = "Owner"
	}

	creds, err := s.loadCredentials(ctx)
	if err != nil {
		return nil, err
	}

	return &ownerAccount{
		displayName: displayName,
		credentials: creds,
	}, nil
}

func (s *PasskeyService) loadCredentials(ctx context.Context) ([]webauthn.Credential, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT credential_json FROM passkey_credentials ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	defer rows.Close()

	var creds []webauthn.Credential
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan credential: %w", err)
		}
		var cred webauthn.Credential
		if err := json.Unmarshal([]byte(raw), &cred); err != nil {
			return nil, fmt.Errorf("failed to decode stored credential: %w", err)
		}
		creds = append(creds, cred)
	}

	return creds, rows.Err()
}

func encodeCredentialID(id []byte) string {
	return base64.RawURLEncoding.EncodeToString(id)
}

// ownerAccount adapts the owner row for the webauthn.User interface.
type ownerAccount struct {
	displayName string
	credentials []webauthn.Credential
}

func (u *ownerAccount) WebAuthnID() []byte {
	return ownerHandle
}

func (u *ownerAccount) WebAuthnName() string {
	return "owner"
}

func (u *ownerAccount) WebAuthnDisplayName() string {
	return u.displayName
}

func (u *ownerAccount) WebAuthnCredentials() []webauthn.Credential {
	return u.credentials
}
