package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	kindID      = "id"
	kindSession = "session"

	// ID tokens are short-lived; the long-lived credential is the
	// session artifact minted from a verified ID token.
	idTokenTTL = time.Hour
)

type tokenClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	Kind  string `json:"kind"`
	jwt.RegisteredClaims
}

// HMACProvider implements Provider with HS256-signed JWTs. Custom role
// claims are persisted in the ClaimStore so they survive restarts and are
// picked up by subsequent token issuance.
type HMACProvider struct {
	secret []byte
	issuer string
	claims ClaimStore
}

func NewHMACProvider(secret, issuer string, claims ClaimStore) *HMACProvider {
	if claims == nil {
		claims = NewMemoryClaimStore()
	}
	return &HMACProvider{secret: []byte(secret), issuer: issuer, claims: claims}
}

func (p *HMACProvider) sign(uid, email, role, kind string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	expires := now.Add(ttl)
	claims := tokenClaims{
		Email: email,
		Role:  role,
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			Issuer:    p.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

func (p *HMACProvider) parse(token, kind string) (*Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithIssuer(p.issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrWrongTokenKind
	}
	id := &Identity{
		UID:   claims.Subject,
		Email: claims.Email,
		Role:  claims.Role,
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	return id, nil
}

func (p *HMACProvider) VerifyIDToken(ctx context.Context, token string) (*Identity, error) {
	return p.parse(token, kindID)
}

func (p *HMACProvider) IssueIDToken(ctx context.Context, uid, email string) (string, error) {
	role, err := p.claims.Get(ctx, uid)
	if err != nil {
		return "", fmt.Errorf("failed to read role claim: %w", err)
	}
	signed, _, err := p.sign(uid, email, role, kindID, idTokenTTL)
	return signed, err
}

func (p *HMACProvider) SetRoleClaim(ctx context.Context, uid, role string) error {
	return p.claims.Set(ctx, uid, role)
}

func (p *HMACProvider) MintSessionToken(ctx context.Context, id *Identity, ttl time.Duration) (string, time.Time, error) {
	return p.sign(id.UID, id.Email, id.Role, kindSession, ttl)
}

func (p *HMACProvider) VerifySessionToken(ctx context.Context, token string) (*Identity, error) {
	return p.parse(token, kindSession)
}
