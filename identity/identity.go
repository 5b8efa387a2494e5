// Package identity adapts the external identity provider: token issuance
// and verification, session artifact minting, and the custom role claim
// attached to a subject. The rest of the system only sees the Provider
// interface; the HMAC implementation makes the platform runnable without
// a hosted provider.
package identity

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrWrongTokenKind = errors.New("wrong token kind")
)

// Identity is the verified subject carried by an ID token or a session
// artifact. Role is the custom claim as of issuance time; it may be empty
// when no claim has ever been set.
type Identity struct {
	UID      string
	Email    string
	Role     string
	IssuedAt time.Time
}

// Provider is the identity-provider adapter consumed by the session
// manager and the auth handlers.
type Provider interface {
	// VerifyIDToken checks a short-lived ID token and returns the subject.
	VerifyIDToken(ctx context.Context, token string) (*Identity, error)

	// IssueIDToken mints a short-lived ID token for a subject, embedding
	// the subject's current role claim if one exists.
	IssueIDToken(ctx context.Context, uid, email string) (string, error)

	// SetRoleClaim stores the authoritative role claim for a subject so
	// that tokens issued afterwards carry it.
	SetRoleClaim(ctx context.Context, uid, role string) error

	// MintSessionToken derives a longer-lived session artifact from a
	// verified identity, valid for ttl.
	MintSessionToken(ctx context.Context, id *Identity, ttl time.Duration) (string, time.Time, error)

	// VerifySessionToken checks a session artifact and returns the subject
	// with the role claim that was embedded at mint time.
	VerifySessionToken(ctx context.Context, token string) (*Identity, error)
}

// ClaimStore persists custom role claims per subject.
type ClaimStore interface {
	// Get returns the stored role claim, or "" when none has been set.
	Get(ctx context.Context, uid string) (string, error)
	Set(ctx context.Context, uid, role string) error
}

// MemoryClaimStore is an in-process ClaimStore, used in tests and as a
// fallback when no database is wired in.
type MemoryClaimStore struct {
	mu     sync.RWMutex
	claims map[string]string
}

func NewMemoryClaimStore() *MemoryClaimStore {
	return &MemoryClaimStore{claims: make(map[string]string)}
}

func (s *MemoryClaimStore) Get(ctx context.Context, uid string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims[uid], nil
}

func (s *MemoryClaimStore) Set(ctx context.Context, uid, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims[uid] = role
	return nil
}
