package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jcampos-dev/storefront-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "storefront-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:   userID,
		Username: "testUser",
		JTI:      "jti-123",
	})
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessToken returned error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("unexpected user id %s", claims.UserID)
	}
	if claims.Username != "testUser" {
		t.Fatalf("unexpected username %q", claims.Username)
	}
	if claims.ID != "jti-123" {
		t.Fatalf("unexpected jti %q", claims.ID)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "testUser",
	})
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	bad := cfg
	bad.Secret = "other-secret"
	if _, err := ParseAccessToken(bad, signed); err == nil {
		t.Fatal("expected parse error with wrong secret")
	}
}

func TestParseAccessTokenAllowExpired(t *testing.T) {
	cfg := testJWTConfig()
	past := time.Now().Add(-2 * time.Hour)

	signed, err := MintAccessToken(cfg, past, AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "testUser",
		JTI:      "expired-jti",
	})
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to fail strict parse")
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessTokenAllowExpired returned error: %v", err)
	}
	if claims.ID != "expired-jti" {
		t.Fatalf("unexpected jti %q", claims.ID)
	}
}

func TestMintAccessTokenRequiresUsername(t *testing.T) {
	if _, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{UserID: uuid.New()}); err == nil {
		t.Fatal("expected error for missing username")
	}
}
