package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"careerhub/apperr"
	"careerhub/identity"
	"careerhub/models"
)

const (
	// SessionDuration is the fixed validity window of a session artifact
	SessionDuration = 5 * 24 * time.Hour
	// SessionCookieName is the cookie carrying the session artifact
	SessionCookieName = "session"
)

// EstablishPhase names the step of Establish that failed. The profile
// merge and the claim write are not transactional; the phase lets callers
// and tests see exactly which side effects landed before the failure.
type EstablishPhase string

const (
	PhaseVerify  EstablishPhase = "verify"
	PhaseProfile EstablishPhase = "profile"
	PhaseClaim   EstablishPhase = "claim"
	PhaseMint    EstablishPhase = "mint"
)

// EstablishError reports which phase of session establishment failed.
// Side effects from completed phases are not rolled back.
type EstablishError struct {
	Phase EstablishPhase
	Err   error
}

func (e *EstablishError) Error() string {
	return fmt.Sprintf("establish session (%s): %v", e.Phase, e.Err)
}

func (e *EstablishError) Unwrap() error { return e.Err }

// EstablishResult carries the resolved role and the minted artifact.
type EstablishResult struct {
	UID       string
	Role      models.Role
	Token     string
	ExpiresAt time.Time
}

var sessions *SessionManager

// Sessions returns the process-wide session manager
func Sessions() *SessionManager {
	return sessions
}

// InitSessions wires the session manager against the identity provider
// and the profile store
func InitSessions(provider identity.Provider, profiles ProfileStore) {
	sessions = NewSessionManager(provider, profiles)
}

// SessionManager turns verified ID tokens into session artifacts and is
// the only writer of the authoritative role claim. It keeps the role
// claim on the provider and the role field on the profile document in
// sync on every establish call.
type SessionManager struct {
	provider identity.Provider
	profiles ProfileStore
}

func NewSessionManager(provider identity.Provider, profiles ProfileStore) *SessionManager {
	return &SessionManager{provider: provider, profiles: profiles}
}

// ResolveRole picks the authoritative role from the ordered fallback
// chain: explicit payload role, then the stored profile role, then the
// provider claim, then the default. Empty strings mean "not present".
func ResolveRole(payloadRole string, storedRole, claimRole models.Role) models.Role {
	if payloadRole != "" && models.IsValidRole(payloadRole) {
		return models.Role(payloadRole)
	}
	if storedRole != "" {
		return storedRole
	}
	if claimRole != "" {
		return claimRole
	}
	return models.DefaultRole
}

// Establish verifies idToken, resolves and persists the caller's role,
// synchronizes the provider claim, and mints a session artifact.
//
// When profile is non-nil its "role" field is authoritative for this call
// (absent means student) and the payload is merged into the profile
// document. When profile is nil the stored role is reused and no document
// is created.
//
// The profile merge and the claim write are two separate single-document
// operations with no transaction across them; a failure between them
// leaves the earlier write in place. The returned *EstablishError names
// the failed phase.
func (m *SessionManager) Establish(ctx context.Context, idToken string, profile map[string]interface{}) (*EstablishResult, error) {
	ident, err := m.provider.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, &EstablishError{Phase: PhaseVerify, Err: err}
	}

	role := models.DefaultRole
	if profile != nil {
		role, err = m.mergeProfile(ctx, ident, profile)
		if err != nil {
			return nil, &EstablishError{Phase: PhaseProfile, Err: err}
		}
	} else {
		stored, err := m.profiles.Get(ctx, ident.UID)
		if err != nil {
			return nil, &EstablishError{Phase: PhaseProfile, Err: err}
		}
		if stored != nil && stored.Role != "" {
			role = stored.Role
		}
	}

	// Claim write happens after the persist so the claim reflects the
	// just-stored role.
	if err := m.provider.SetRoleClaim(ctx, ident.UID, string(role)); err != nil {
		return nil, &EstablishError{Phase: PhaseClaim, Err: err}
	}

	ident.Role = string(role)
	token, expiresAt, err := m.provider.MintSessionToken(ctx, ident, SessionDuration)
	if err != nil {
		return nil, &EstablishError{Phase: PhaseMint, Err: err}
	}

	slog.Info("Session established", "uid", ident.UID, "role", role)

	return &EstablishResult{
		UID:       ident.UID,
		Role:      role,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// mergeProfile merges the caller-supplied payload plus bookkeeping fields
// into the profile document and returns the role resolved for this call.
//
// The payload role is trusted as-is for privilege assignment when it is a
// known role; this mirrors the upstream product behavior and is flagged
// as an open security question rather than silently tightened. Unknown
// role values are rejected.
func (m *SessionManager) mergeProfile(ctx context.Context, ident *identity.Identity, profile map[string]interface{}) (models.Role, error) {
	payloadRole := ""
	if raw, ok := profile["role"]; ok {
		s, ok := raw.(string)
		if !ok || !models.IsValidRole(s) {
			return "", fmt.Errorf("unknown role %q", raw)
		}
		payloadRole = s
	}
	role := ResolveRole(payloadRole, "", "")

	now := time.Now().UTC()
	createdAt := ident.IssuedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	email := ident.Email
	if s, ok := profile["email"].(string); ok && s != "" {
		email = s
	}

	fields := make(map[string]interface{}, len(profile)+4)
	for k, v := range profile {
		switch k {
		case "role", "email", "uid", "createdAt", "updatedAt":
			continue
		}
		fields[k] = v
	}
	fields["email"] = email
	fields["role"] = role
	fields["createdAt"] = createdAt
	fields["updatedAt"] = now

	if _, err := m.profiles.Merge(ctx, ident.UID, fields); err != nil {
		return "", err
	}
	return role, nil
}

// CurrentUser resolves the caller from a session cookie value. A missing
// cookie and a cookie that fails verification both return (nil, nil):
// unauthenticated browsing is not an error on this read-only path. The
// returned view merges the stored profile under the token's uid and
// email; the role falls back from profile to token claim to the default.
// Nothing is written.
func (m *SessionManager) CurrentUser(ctx context.Context, cookieValue string) (map[string]interface{}, error) {
	if cookieValue == "" {
		return nil, nil
	}
	ident, err := m.provider.VerifySessionToken(ctx, cookieValue)
	if err != nil {
		return nil, nil
	}

	profile, err := m.profiles.Get(ctx, ident.UID)
	if err != nil {
		return nil, apperr.Upstream("read profile", err)
	}

	return mergedView(ident, profile), nil
}

// RequireUser is CurrentUser with hard failure: a missing or invalid
// session is an authentication error, for handlers that reject anonymous
// access.
func (m *SessionManager) RequireUser(ctx context.Context, cookieValue string) (map[string]interface{}, error) {
	if cookieValue == "" {
		return nil, apperr.Authentication("authentication required")
	}
	ident, err := m.provider.VerifySessionToken(ctx, cookieValue)
	if err != nil {
		return nil, apperr.AuthenticationWrap("invalid or expired session", err)
	}

	profile, err := m.profiles.Get(ctx, ident.UID)
	if err != nil {
		return nil, apperr.Upstream("read profile", err)
	}

	return mergedView(ident, profile), nil
}

// Profiles exposes the profile store for the profile handlers
func (m *SessionManager) Profiles() ProfileStore {
	return m.profiles
}

// Provider exposes the identity provider for the token-issuance handlers
func (m *SessionManager) Provider() identity.Provider {
	return m.provider
}

func mergedView(ident *identity.Identity, profile *models.UserProfile) map[string]interface{} {
	var view map[string]interface{}
	storedRole := models.Role("")
	if profile != nil {
		view = profile.View()
		storedRole = profile.Role
	} else {
		view = make(map[string]interface{}, 3)
	}
	view["uid"] = ident.UID
	view["email"] = ident.Email
	view["role"] = ResolveRole("", storedRole, models.Role(ident.Role))
	return view
}
