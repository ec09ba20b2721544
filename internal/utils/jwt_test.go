package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	secret := "super-secret"
	var userID uint64 = 123

	tok, err := IssueAccessToken(secret, userID)
	if err != nil {
		t.Fatalf("IssueAccessToken error: %v", err)
	}

	claims, err := VerifyAccessToken(secret, tok.Token, time.Hour)
	if err != nil {
		t.Fatalf("VerifyAccessToken error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("userID mismatch: got %d want %d", claims.UserID, userID)
	}
	if !claims.IssuedAt.Equal(tok.IssuedAt) {
		t.Fatalf("issuedAt mismatch: got %v want %v", claims.IssuedAt, tok.IssuedAt)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	secret := "secret"
	// Lifetime is enforced against iat at verification time, so an old
	// issue timestamp is enough to trip expiry.
	old := jwt.MapClaims{"sub": uint64(1), "iat": time.Now().UTC().Add(-2 * time.Hour).Unix()}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, old).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = VerifyAccessToken(secret, raw, time.Hour)
	if err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := IssueAccessToken("right-secret", 2)
	if err != nil {
		t.Fatalf("IssueAccessToken error: %v", err)
	}

	_, err = VerifyAccessToken("wrong-secret", tok.Token, time.Hour)
	if err != ErrInvalidSignature {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerify_MalformedToken(t *testing.T) {
	t.Parallel()

	_, err := VerifyAccessToken("k", "not.a.jwt", time.Hour)
	if err != ErrInvalidSignature {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerify_RejectsUnsignedAlgorithm(t *testing.T) {
	t.Parallel()

	claims := jwt.MapClaims{"sub": uint64(3), "iat": time.Now().UTC().Unix()}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = VerifyAccessToken("k", raw, time.Hour)
	if err != ErrInvalidSignature {
		t.Fatalf("expected ErrInvalidSignature for alg=none, got %v", err)
	}
}

func TestVerify_MissingSubject(t *testing.T) {
	t.Parallel()

	claims := jwt.MapClaims{"iat": time.Now().UTC().Unix()}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = VerifyAccessToken("k", raw, time.Hour)
	if err != ErrInvalidSignature {
		t.Fatalf("expected ErrInvalidSignature for missing sub, got %v", err)
	}
}
