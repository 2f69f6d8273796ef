package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Typed validation failures.  Handlers map all three to HTTP 401 but the
// response message names the cause.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenRevoked   = errors.New("token revoked")
)

// Session describes a validated access token.
type Session struct {
	Identity  string
	JTI       string
	ExpiresAt time.Time
}

// TokenService issues and validates HS256 access tokens.  Each token
// carries the identity as subject, a fresh uuid as jti, issued-at and an
// expiry of issued-at plus the configured TTL.  Validation checks the
// signature, the expiry and the revocation store, in that order.
type TokenService struct {
	secret  []byte
	ttl     time.Duration
	revoked RevocationStore
	now     func() time.Time // injectable for tests
}

func NewTokenService(secret string, ttl time.Duration, revoked RevocationStore) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, revoked: revoked, now: time.Now}
}

// Issue signs a new access token for the identity.
func (s *TokenService) Issue(identity string) (string, error) {
	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   identity,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate parses and verifies a raw token string.  It fails with
// ErrTokenExpired when past expiry, ErrTokenRevoked when the jti is in the
// revocation set, and ErrTokenMalformed for everything else that keeps the
// token from being trusted (bad signature, wrong algorithm, garbage input).
func (s *TokenService) Validate(ctx context.Context, raw string) (*Session, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	if !tok.Valid || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, ErrTokenMalformed
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return &Session{
		Identity:  claims.Subject,
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke adds the session's jti to the revocation set.  The entry only
// needs to outlive the token, so its remaining lifetime is passed along as
// the ttl.  Revoking an already revoked session is a no-op.
func (s *TokenService) Revoke(ctx context.Context, sess *Session) error {
	return s.revoked.Revoke(ctx, sess.JTI, sess.ExpiresAt.Sub(s.now()))
}
