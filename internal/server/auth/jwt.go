// Package auth holds the credential primitives of the server: password
// hashing, signed access tokens and the identity attached to a verified
// request.
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrijs2005/sociopedia/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest signing secret the server accepts.
const MinSecretLength = 16

// Claims is the token payload: subject (user id), issued-at and expiry.
type Claims struct {
	jwt.RegisteredClaims
}

// Secret is the HMAC signing key. Its String and LogValue never reveal it.
type Secret string

func (s Secret) String() string { return "[REDACTED]" }

func (s Secret) LogValue() slog.Value { return slog.StringValue("[REDACTED]") }

// GenerateToken signs an HS256 token for userID that expires after
// validityDuration.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	return generateToken(userID, secretKey, validityDuration, time.Now())
}

// GetUserIDFromToken verifies tokenString with secretKey and returns its
// subject. Failures match common.ErrTokenMalformed,
// common.ErrTokenInvalidSignature or common.ErrTokenExpired.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	return parseToken(tokenString, secretKey, time.Now)
}

func generateToken(subject string, secret []byte, ttl time.Duration, now time.Time) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is empty")
	}
	if len(secret) == 0 {
		return "", errors.New("signing secret is empty")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

func parseToken(tokenString string, secret []byte, now func() time.Time) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("%w: signing secret is empty", common.ErrTokenInvalidSignature)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		return "", classifyTokenError(err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: no subject", common.ErrTokenMalformed)
	}

	return claims.Subject, nil
}

// jwt checks the signature before the claims, so a forged token that is also
// expired reports a signature failure.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", common.ErrTokenInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", common.ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", common.ErrTokenMalformed, err)
	}
}

// Keys is the process-wide token configuration: built once at startup and
// shared read-only by every request.
type Keys struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewKeys validates secret and ttl.
func NewKeys(secret Secret, ttl time.Duration) (*Keys, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("signing secret must be at least %d bytes", MinSecretLength)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	return &Keys{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns the lifetime of issued tokens.
func (k *Keys) TTL() time.Duration { return k.ttl }

// Issue signs a token for subject.
func (k *Keys) Issue(subject string) (string, error) {
	return generateToken(subject, k.secret, k.ttl, k.now())
}

// Verify checks token and returns its subject.
func (k *Keys) Verify(token string) (string, error) {
	return parseToken(token, k.secret, k.now)
}
