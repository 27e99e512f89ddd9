package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/trailhead/tours-api/internal/core/domain"
)

// Claims are the decoded contents of a verified session token.
type Claims struct {
	AccountID string
	IssuedAt  time.Time
}

// TokenService issues and verifies stateless HS256 session tokens. There is
// no revocation list: a signed token stays valid until natural expiry.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL returns the configured token validity window.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token binding accountID with the issuance time and a fixed
// expiry. The returned expiry lets callers align cookie lifetimes.
func (s *TokenService) Issue(accountID string) (string, time.Time, error) {
	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)

	claims := jwt.MapClaims{
		"sub": accountID,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks signature and expiry and returns the decoded claims. The
// failure is one of domain.ErrTokenMalformed, ErrTokenExpired or
// ErrTokenSignature; callers present them all with the same 401 message.
func (s *TokenService) Verify(signed string) (*Claims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domain.ErrTokenSignature
		default:
			return nil, domain.ErrTokenMalformed
		}
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenMalformed
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, domain.ErrTokenMalformed
	}
	iat, err := claims.GetIssuedAt()
	if err != nil || iat == nil {
		return nil, domain.ErrTokenMalformed
	}

	return &Claims{AccountID: sub, IssuedAt: iat.Time}, nil
}
