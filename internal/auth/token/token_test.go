package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssueAndParse_RoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	userID := uuid.New()

	signed, expiresAt, err := issuer.Issue(userID, "jane@example.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if time.Until(expiresAt) < 59*time.Minute {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}

	claims, err := issuer.Parse(signed)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user %s, got %s", userID, claims.UserID)
	}
	if claims.Email != "jane@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
}

func TestParse_RejectsWrongSecret(t *testing.T) {
	signed, _, err := NewIssuer("secret-a", time.Hour).Issue(uuid.New(), "jane@example.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := NewIssuer("secret-b", time.Hour).Parse(signed); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParse_RejectsExpiredToken(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)
	signed, _, err := issuer.Issue(uuid.New(), "jane@example.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := issuer.Parse(signed); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParse_RejectsGarbage(t *testing.T) {
	if _, err := NewIssuer("test-secret", time.Hour).Parse("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
