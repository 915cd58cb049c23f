package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/sociopedia/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret-key-0123")
	userID := "user-123"

	tok, err := GenerateToken(userID, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	if strings.Count(tok, ".") != 2 {
		t.Fatalf("expected compact JWS, got %q", tok)
	}

	gotUserID, err := GetUserIDFromToken(tok, secret)
	if err != nil {
		t.Fatalf("GetUserIDFromToken error: %v", err)
	}
	if gotUserID != userID {
		t.Fatalf("userID mismatch: got %q want %q", gotUserID, userID)
	}
}

func TestGenerateToken_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	if _, err := GenerateToken("", []byte("k"), time.Hour); err == nil {
		t.Fatal("expected error for empty subject")
	}
	if _, err := GenerateToken("u1", nil, time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestGetUserIDFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateToken("u1", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = GetUserIDFromToken(tok, secret)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expired token must also match ErrUnauthorized, got %v", err)
	}
}

func TestGetUserIDFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	for i, secrets := range [][2]string{
		{"right-secret", "wrong-secret"},
		{"k1", "k2"},
		{"a-long-enough-secret", "a-long-enough-secreT"},
	} {
		tok, err := GenerateToken(fmt.Sprintf("u%d", i), []byte(secrets[0]), time.Hour)
		if err != nil {
			t.Fatalf("GenerateToken error: %v", err)
		}

		_, err = GetUserIDFromToken(tok, []byte(secrets[1]))
		if !errors.Is(err, common.ErrTokenInvalidSignature) {
			t.Fatalf("expected ErrTokenInvalidSignature, got %v", err)
		}
	}
}

func TestGetUserIDFromToken_ExpiredAndForgedReportsSignature(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u1", []byte("issuer-secret"), -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = GetUserIDFromToken(tok, []byte("other-secret"))
	if !errors.Is(err, common.ErrTokenInvalidSignature) {
		t.Fatalf("expected ErrTokenInvalidSignature, got %v", err)
	}
}

func TestGetUserIDFromToken_TamperedPayload(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	a, _ := GenerateToken("alice", secret, time.Hour)
	b, _ := GenerateToken("mallory", secret, time.Hour)

	pa := strings.Split(a, ".")
	pb := strings.Split(b, ".")
	forged := pa[0] + "." + pb[1] + "." + pa[2]

	_, err := GetUserIDFromToken(forged, secret)
	if !errors.Is(err, common.ErrTokenInvalidSignature) {
		t.Fatalf("expected ErrTokenInvalidSignature, got %v", err)
	}
}

func TestGetUserIDFromToken_AlgNoneRejected(t *testing.T) {
	t.Parallel()

	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "root",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	_, err = GetUserIDFromToken(tok, []byte("secret"))
	if !errors.Is(err, common.ErrTokenInvalidSignature) {
		t.Fatalf("expected ErrTokenInvalidSignature, got %v", err)
	}
}

func TestGetUserIDFromToken_Malformed(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	}).SignedString(secret)

	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(secret)

	for name, tok := range map[string]string{
		"empty":           "",
		"not a jwt":       "not.a.jwt",
		"two segments":    "abc.def",
		"garbage":         "%%%",
		"missing exp":     noExp,
		"missing sub":     noSub,
		"bearer leftover": "Bearer " + noSub,
	} {
		_, err := GetUserIDFromToken(tok, secret)
		if !errors.Is(err, common.ErrTokenMalformed) {
			t.Fatalf("%s: expected ErrTokenMalformed, got %v", name, err)
		}
	}
}

func TestKeys_ExpiryIsStrict(t *testing.T) {
	t.Parallel()

	keys, err := NewKeys("0123456789abcdef", 10*time.Second)
	if err != nil {
		t.Fatalf("NewKeys error: %v", err)
	}

	issuedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	keys.now = func() time.Time { return issuedAt }

	tok, err := keys.Issue("u-42")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	keys.now = func() time.Time { return issuedAt.Add(10*time.Second - time.Millisecond) }
	sub, err := keys.Verify(tok)
	if err != nil || sub != "u-42" {
		t.Fatalf("just before expiry: got (%q, %v)", sub, err)
	}

	keys.now = func() time.Time { return issuedAt.Add(10 * time.Second) }
	if _, err := keys.Verify(tok); !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("at expiry: expected ErrTokenExpired, got %v", err)
	}

	keys.now = func() time.Time { return issuedAt.Add(time.Hour) }
	if _, err := keys.Verify(tok); !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("after expiry: expected ErrTokenExpired, got %v", err)
	}
}

func TestNewKeys_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewKeys("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := NewKeys("short", time.Hour); err == nil {
		t.Fatal("expected error for short secret")
	}
	if _, err := NewKeys("0123456789abcdef", 0); err == nil {
		t.Fatal("expected error for zero ttl")
	}

	keys, err := NewKeys("0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatalf("NewKeys error: %v", err)
	}
	if keys.TTL() != time.Hour {
		t.Fatalf("TTL() = %s", keys.TTL())
	}
}

func TestKeys_RotatedSecretInvalidatesTokens(t *testing.T) {
	t.Parallel()

	oldKeys, _ := NewKeys("old-secret-0123456789", time.Hour)
	newKeys, _ := NewKeys("new-secret-0123456789", time.Hour)

	tok, err := oldKeys.Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := newKeys.Verify(tok); !errors.Is(err, common.ErrTokenInvalidSignature) {
		t.Fatalf("expected ErrTokenInvalidSignature, got %v", err)
	}
}

func TestSecret_IsRedacted(t *testing.T) {
	t.Parallel()

	s := Secret("do-not-print-me-please")
	if got := fmt.Sprintf("%s %v", s, s); strings.Contains(got, "do-not-print") {
		t.Fatalf("secret leaked through fmt: %q", got)
	}

	var sb strings.Builder
	slog.New(slog.NewTextHandler(&sb, nil)).Info("cfg", "secret", s)
	if strings.Contains(sb.String(), "do-not-print") {
		t.Fatalf("secret leaked through slog: %q", sb.String())
	}
}
