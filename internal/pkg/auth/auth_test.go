package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/ddct/showcase/internal/app/models"
	"github.com/ddct/showcase/internal/pkg/apperrors"
)

func testService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 720 * time.Hour,
		TokenIssuer:     "showcase.test",
	})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := testService(time.Hour)
	user := &models.User{ID: 42, Email: "student@example.edu", Role: models.RoleStudent}

	access, refresh, expiresIn, refreshExpiresIn, err := svc.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected non-empty tokens")
	}
	if expiresIn != 3600 {
		t.Fatalf("expected expiresIn 3600, got %d", expiresIn)
	}
	if refreshExpiresIn != int((720 * time.Hour).Seconds()) {
		t.Fatalf("unexpected refreshExpiresIn %d", refreshExpiresIn)
	}

	claims, err := svc.ValidateAndExtractClaims(access)
	if err != nil {
		t.Fatalf("ValidateAndExtractClaims: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected userID 42, got %d", claims.UserID)
	}
	if claims.Email != "student@example.edu" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
	if claims.Role != string(models.RoleStudent) {
		t.Fatalf("unexpected role %q", claims.Role)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := testService(-time.Minute)
	user := &models.User{ID: 1, Email: "a@b.edu", Role: models.RoleStudent}

	access, _, _, _, err := svc.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	_, err = svc.ValidateAndExtractClaims(access)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
	// Middleware matches on the shared sentinel to pick the expiry
	// error code, so the two must be the same error.
	if !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Fatalf("expired token error does not match apperrors.ErrTokenExpired: %v", err)
	}
}

func TestMalformedTokenReportsFormatError(t *testing.T) {
	svc := testService(time.Hour)

	_, err := svc.ValidateAndExtractClaims("not-a-jwt")
	if !errors.Is(err, apperrors.ErrInvalidFormat) {
		t.Fatalf("expected apperrors.ErrInvalidFormat, got %v", err)
	}
}

func TestTokenSignedWithWrongKeyRejected(t *testing.T) {
	issuer := testService(time.Hour)
	user := &models.User{ID: 7, Email: "a@b.edu", Role: models.RoleAdmin}

	access, _, _, _, err := issuer.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	verifier := NewJWTService(JWTConfig{
		SecretKey:       "a-different-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "showcase.test",
	})
	if _, err := verifier.ValidateAndExtractClaims(access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	if err != nil {
		t.Fatalf("ExtractBearerToken: %v", err)
	}
	if token != "abc.def.ghi" {
		t.Fatalf("unexpected token %q", token)
	}

	if _, err := ExtractBearerToken("bearer abc.def.ghi"); err != nil {
		t.Fatalf("scheme should be case-insensitive, got %v", err)
	}

	if _, err := ExtractBearerToken(""); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat for empty header, got %v", err)
	}
	if _, err := ExtractBearerToken("Basic abc"); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat for wrong scheme, got %v", err)
	}
}

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatalf("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "correct horse battery") {
		t.Fatalf("expected password to verify")
	}
	if CheckPassword(hash, "wrong password") {
		t.Fatalf("wrong password must not verify")
	}
}
