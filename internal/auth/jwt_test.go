package auth

import (
	"testing"
	"time"

	"skillswap/config"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "skillswap",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateAccessToken(cfg, 42, "amina@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "amina@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Issuer != "skillswap" {
		t.Errorf("Issuer = %q", claims.Issuer)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateAccessToken(cfg, 1, "a@b.c")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	bad := testJWTConfig()
	bad.AccessSecret = "some-other-secret"
	if _, err := ParseAccessToken(bad, token); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessExpiry = -time.Minute
	token, err := GenerateAccessToken(cfg, 1, "a@b.c")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := ParseAccessToken(testJWTConfig(), "not.a.jwt"); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshTokenUsesSeparateSecret(t *testing.T) {
	cfg := testJWTConfig()
	refresh, err := GenerateRefreshToken(cfg, 7)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// A refresh token must never be accepted where an access token is expected.
	if _, err := ParseAccessToken(cfg, refresh); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
