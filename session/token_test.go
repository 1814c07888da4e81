package session

import (
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	secret := "test-secret"
	runID := "run-2e9f"
	worker := "worker-3"

	tokenString, expiresAt, err := Generate(secret, runID, worker, 10*time.Minute)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if tokenString == "" {
		t.Error("expected non-empty token string")
	}

	expectedExp := time.Now().Add(10 * time.Minute)
	diff := expiresAt.Sub(expectedExp).Abs()
	if diff > 2*time.Second {
		t.Errorf("expiration time differs by %v, expected ~%v, got %v", diff, expectedExp, expiresAt)
	}

	claims, err := Verify(tokenString, secret)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if claims.RunID != runID {
		t.Errorf("expected run ID %s, got %s", runID, claims.RunID)
	}
	if claims.Worker != worker {
		t.Errorf("expected worker %s, got %s", worker, claims.Worker)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	tokenString, _, err := Generate("secret-a", "run-1", "worker-1", time.Minute)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := Verify(tokenString, "secret-b"); err == nil {
		t.Error("expected verification to fail with the wrong secret")
	}
}

func TestVerify_Expired(t *testing.T) {
	tokenString, _, err := Generate("secret", "run-1", "worker-1", -time.Minute)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := Verify(tokenString, "secret"); err == nil {
		t.Error("expected verification of an expired token to fail")
	}
}

func TestVerify_Garbage(t *testing.T) {
	if _, err := Verify("not-a-token", "secret"); err == nil {
		t.Error("expected verification of a malformed token to fail")
	}
}
