package auth

import (
	"testing"
)

func TestTokenIdentityRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	issuer := NewTokenIdentity(secret, "")

	token, err := issuer.GenerateUserToken("farmer_42")
	if err != nil {
		t.Fatalf("GenerateUserToken failed: %v", err)
	}

	identity := NewTokenIdentity(secret, token)
	if got := identity.CurrentUserID(); got != "farmer_42" {
		t.Errorf("Expected farmer_42, got %q", got)
	}
}

func TestTokenIdentityFallsBackToGuest(t *testing.T) {
	secret := []byte("test-secret")

	// No token at all.
	if got := NewTokenIdentity(secret, "").CurrentUserID(); got != guestUserID {
		t.Errorf("Expected guest for empty token, got %q", got)
	}

	// Garbage token.
	if got := NewTokenIdentity(secret, "not.a.jwt").CurrentUserID(); got != guestUserID {
		t.Errorf("Expected guest for invalid token, got %q", got)
	}

	// Token signed with a different secret.
	other := NewTokenIdentity([]byte("other-secret"), "")
	token, err := other.GenerateUserToken("farmer_42")
	if err != nil {
		t.Fatalf("GenerateUserToken failed: %v", err)
	}
	if got := NewTokenIdentity(secret, token).CurrentUserID(); got != guestUserID {
		t.Errorf("Expected guest for mismatched signature, got %q", got)
	}
}

func TestValidateTokenRejectsWrongMethod(t *testing.T) {
	identity := NewTokenIdentity([]byte("test-secret"), "")

	// A token with alg=none must not validate.
	noneToken := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJ1c2VyX2lkIjoiZmFybWVyXzQyIn0."
	if _, err := identity.ValidateToken(noneToken); err == nil {
		t.Error("Expected validation failure for alg=none token")
	}
}
