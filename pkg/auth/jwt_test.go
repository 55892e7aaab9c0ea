package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-for-jwt"

// TestAccessTokenRoundTrip 발급한 access 토큰이 그대로 검증되는지
func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, testSecret, 30)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := ValidateAccessToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("Expected UserID 42, got %d", claims.UserID)
	}
	if claims.Type != AccessToken {
		t.Errorf("Expected type '%s', got '%s'", AccessToken, claims.Type)
	}
	if claims.Issuer != issuer {
		t.Errorf("Expected issuer '%s', got '%s'", issuer, claims.Issuer)
	}
}

// TestRefreshTokenRoundTrip refresh 토큰 검증
func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(7, testSecret, 14)
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	claims, err := ValidateRefreshToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateRefreshToken failed: %v", err)
	}

	if claims.UserID != 7 {
		t.Errorf("Expected UserID 7, got %d", claims.UserID)
	}
	if claims.Type != RefreshToken {
		t.Errorf("Expected type '%s', got '%s'", RefreshToken, claims.Type)
	}
}

// TestTokenTypeMismatch access 검증기에 refresh 토큰을 넣으면 거부
func TestTokenTypeMismatch(t *testing.T) {
	refresh, err := GenerateRefreshToken(1, testSecret, 14)
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	if _, err := ValidateAccessToken(refresh, testSecret); !errors.Is(err, ErrInvalidTokenType) {
		t.Errorf("Expected ErrInvalidTokenType, got %v", err)
	}

	access, err := GenerateAccessToken(1, testSecret, 30)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := ValidateRefreshToken(access, testSecret); !errors.Is(err, ErrInvalidTokenType) {
		t.Errorf("Expected ErrInvalidTokenType, got %v", err)
	}
}

// TestExpiredTokenRejected 만료된 토큰 거부
func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateAccessToken(1, testSecret, -5)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := ValidateAccessToken(token, testSecret); err == nil {
		t.Error("Expected expired token to be rejected")
	}
}

// TestWrongSecretRejected 다른 키로 서명된 토큰 거부
func TestWrongSecretRejected(t *testing.T) {
	token, err := GenerateAccessToken(1, "other-secret", 30)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := ValidateAccessToken(token, testSecret); err == nil {
		t.Error("Expected token signed with a different secret to be rejected")
	}
}

// TestWrongIssuerRejected 발급자가 다른 토큰 거부
func TestWrongIssuerRejected(t *testing.T) {
	claims := Claims{
		UserID: 1,
		Type:   AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	if _, err := ValidateAccessToken(token, testSecret); err == nil {
		t.Error("Expected foreign issuer to be rejected")
	}
}

// TestGarbageTokenRejected 형식 불량 토큰 거부
func TestGarbageTokenRejected(t *testing.T) {
	for _, token := range []string{"", "abc", "a.b.c"} {
		if _, err := ValidateAccessToken(token, testSecret); err == nil {
			t.Errorf("Expected garbage token '%s' to be rejected", token)
		}
	}
}

// TestGenerateTokenPair 쌍 발급 후 각 검증기 통과 확인
func TestGenerateTokenPair(t *testing.T) {
	access, refresh, err := GenerateTokenPair(99, testSecret, 30, 14)
	if err != nil {
		t.Fatalf("GenerateTokenPair failed: %v", err)
	}

	if access == "" || refresh == "" || access == refresh {
		t.Fatal("Expected two distinct non-empty tokens")
	}

	if _, err := ValidateAccessToken(access, testSecret); err != nil {
		t.Errorf("Access token failed validation: %v", err)
	}
	if _, err := ValidateRefreshToken(refresh, testSecret); err != nil {
		t.Errorf("Refresh token failed validation: %v", err)
	}
}

// TestPasswordHashRoundTrip bcrypt 해시 검증
func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == "correct horse battery staple" {
		t.Error("Hash must not equal the plain password")
	}
	if !CheckPassword("correct horse battery staple", hash) {
		t.Error("Expected matching password to verify")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("Expected non-matching password to fail")
	}
}
