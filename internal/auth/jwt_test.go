package auth

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := NewAccessToken("secret", "issuer", time.Minute, "student@example.com")
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if claims.Email != "student@example.com" {
		t.Fatalf("unexpected email claim: %s", claims.Email)
	}
	if claims.Issuer != "issuer" {
		t.Fatalf("unexpected issuer: %s", claims.Issuer)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := NewAccessToken("secret", "issuer", time.Minute, "student@example.com")
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatalf("expected error for mismatched secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := NewAccessToken("secret", "issuer", -time.Minute, "student@example.com")
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	if _, err := ParseToken("secret", token); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestParseTokenMalformed(t *testing.T) {
	if _, err := ParseToken("secret", "not-a-token"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}
