package identity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestIDTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := NewHMACProvider("test-secret", "test-issuer", NewMemoryClaimStore())

	token, err := p.IssueIDToken(ctx, "U1", "s@x.edu")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	ident, err := p.VerifyIDToken(ctx, token)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if ident.UID != "U1" || ident.Email != "s@x.edu" {
		t.Fatalf("unexpected identity: %+v", ident)
	}
	if ident.Role != "" {
		t.Fatalf("expected no role claim before one is set, got %q", ident.Role)
	}
	if ident.IssuedAt.IsZero() {
		t.Fatal("issued-at not carried")
	}
}

func TestIDTokenCarriesRoleClaim(t *testing.T) {
	ctx := context.Background()
	p := NewHMACProvider("test-secret", "test-issuer", NewMemoryClaimStore())

	if err := p.SetRoleClaim(ctx, "U1", "employer"); err != nil {
		t.Fatalf("set claim error: %v", err)
	}

	token, err := p.IssueIDToken(ctx, "U1", "e@corp.com")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	ident, err := p.VerifyIDToken(ctx, token)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if ident.Role != "employer" {
		t.Fatalf("role claim = %q, want employer", ident.Role)
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := NewHMACProvider("test-secret", "test-issuer", NewMemoryClaimStore())

	id := &Identity{UID: "U1", Email: "m@x.edu", Role: "faculty-mentor"}
	token, expiresAt, err := p.MintSessionToken(ctx, id, 5*24*time.Hour)
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	if until := time.Until(expiresAt); until < 5*24*time.Hour-time.Minute {
		t.Fatalf("expiry window too short: %v", until)
	}

	ident, err := p.VerifySessionToken(ctx, token)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if ident.UID != "U1" || ident.Role != "faculty-mentor" {
		t.Fatalf("unexpected identity: %+v", ident)
	}
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	ctx := context.Background()
	p := NewHMACProvider("test-secret", "test-issuer", NewMemoryClaimStore())

	idToken, err := p.IssueIDToken(ctx, "U1", "s@x.edu")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	if _, err := p.VerifySessionToken(ctx, idToken); !errors.Is(err, ErrWrongTokenKind) {
		t.Fatalf("ID token accepted as session token: %v", err)
	}

	sessToken, _, err := p.MintSessionToken(ctx, &Identity{UID: "U1"}, time.Hour)
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	if _, err := p.VerifyIDToken(ctx, sessToken); !errors.Is(err, ErrWrongTokenKind) {
		t.Fatalf("session token accepted as ID token: %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	ctx := context.Background()
	p := NewHMACProvider("test-secret", "test-issuer", NewMemoryClaimStore())

	token, _, err := p.MintSessionToken(ctx, &Identity{UID: "U1"}, -time.Minute)
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	if _, err := p.VerifySessionToken(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	ctx := context.Background()
	p := NewHMACProvider("secret-a", "test-issuer", NewMemoryClaimStore())
	other := NewHMACProvider("secret-b", "test-issuer", NewMemoryClaimStore())

	token, _, err := p.MintSessionToken(ctx, &Identity{UID: "U1"}, time.Hour)
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	if _, err := other.VerifySessionToken(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}
