package token

import (
	"context"
	"testing"
	"time"

	"storefront/internal/util"

	"github.com/google/uuid"
)

func TestSignAndParseAccess(t *testing.T) {
	p := NewHSProvider("test-secret", "storefront", "storefront-clients")
	ctx := context.Background()
	userID := uuid.New()

	signed, exp, err := p.SignAccess(ctx, userID, "admin", 15*time.Minute)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if time.Until(exp) < 14*time.Minute {
		t.Errorf("unexpected expiry: %v", exp)
	}

	claims, err := p.ParseAndValidateAccess(ctx, signed)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user id = %v, want %v", claims.UserID, userID)
	}
	if claims.Role != "admin" {
		t.Errorf("role = %q, want admin", claims.Role)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	signer := NewHSProvider("secret-a", "storefront", "storefront-clients")
	verifier := NewHSProvider("secret-b", "storefront", "storefront-clients")
	ctx := context.Background()

	signed, _, err := signer.SignAccess(ctx, uuid.New(), "user", time.Minute)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := verifier.ParseAndValidateAccess(ctx, signed); err == nil {
		t.Fatal("expected verification failure with wrong secret")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	p := NewHSProvider("test-secret", "storefront", "storefront-clients")
	p.now = func() time.Time { return time.Now().Add(-time.Hour) }
	ctx := context.Background()

	signed, _, err := p.SignAccess(ctx, uuid.New(), "user", time.Minute)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	p.now = time.Now
	if _, err := p.ParseAndValidateAccess(ctx, signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseRejectsWrongAudience(t *testing.T) {
	signer := NewHSProvider("test-secret", "storefront", "other-audience")
	verifier := NewHSProvider("test-secret", "storefront", "storefront-clients")
	ctx := context.Background()

	signed, _, err := signer.SignAccess(ctx, uuid.New(), "user", time.Minute)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := verifier.ParseAndValidateAccess(ctx, signed); err == nil {
		t.Fatal("expected audience mismatch to be rejected")
	}
}

func TestNewRefreshHashMatchesOpaque(t *testing.T) {
	p := NewHSProvider("test-secret", "storefront", "storefront-clients")
	ctx := context.Background()

	opaque, hash, exp, err := p.NewRefresh(ctx, uuid.New(), 720*time.Hour)
	if err != nil {
		t.Fatalf("new refresh failed: %v", err)
	}
	if opaque == "" || hash == "" {
		t.Fatal("expected non-empty opaque and hash")
	}
	if hash == opaque {
		t.Fatal("hash must differ from opaque token")
	}
	if hash != util.Sha256Base64URL(opaque) {
		t.Error("hash is not sha256(opaque) base64url")
	}
	if time.Until(exp) < 719*time.Hour {
		t.Errorf("unexpected refresh expiry: %v", exp)
	}

	// Два вызова дают разные токены
	opaque2, _, _, err := p.NewRefresh(ctx, uuid.New(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if opaque2 == opaque {
		t.Error("refresh tokens must be unique")
	}
}
