package gateway

import (
	"strings"
	"testing"
	"time"

	"food-delivery/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token := issuer.Issue("alice", models.RoleCustomer)
	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Username != "alice" {
		t.Errorf("expected username alice, got %s", claims.Username)
	}
	if claims.Role != models.RoleCustomer {
		t.Errorf("expected role CUSTOMER, got %s", claims.Role)
	}
}

func TestTokenExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token := issuer.Issue("alice", models.RoleCustomer)
	if _, err := issuer.Verify(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestTokenTampered(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token := issuer.Issue("alice", models.RoleCustomer)
	tampered := strings.Replace(token, "a", "b", 1)
	if tampered == token {
		t.Skip("token contains no replaceable byte")
	}
	if _, err := issuer.Verify(tampered); err == nil {
		t.Error("expected tampered token to be rejected")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour)

	token := issuer.Issue("alice", models.RoleCustomer)
	if _, err := other.Verify(token); err == nil {
		t.Error("expected token signed with a different secret to be rejected")
	}
}

func TestTokenMalformed(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "abc.def", "!!!.sig"} {
		if _, err := issuer.Verify(token); err == nil {
			t.Errorf("expected malformed token %q to be rejected", token)
		}
	}
}
