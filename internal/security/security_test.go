package security

import (
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("kia-kaha-123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "kia-kaha-123" {
		t.Error("HashPassword() returned the plaintext password")
	}

	t.Run("correct password", func(t *testing.T) {
		if !CheckPassword("kia-kaha-123", hash) {
			t.Error("CheckPassword() = false for the correct password")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if CheckPassword("wrong-password", hash) {
			t.Error("CheckPassword() = true for the wrong password")
		}
	})

	t.Run("malformed hash", func(t *testing.T) {
		if CheckPassword("kia-kaha-123", "not-a-hash") {
			t.Error("CheckPassword() = true for a malformed hash")
		}
	})
}

func TestCSRFTokenRoundTrip(t *testing.T) {
	g := NewCSRFGenerator("test-secret")

	token, err := g.GenerateToken("session-abc")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if !g.ValidateToken("session-abc", token) {
		t.Error("ValidateToken() = false for a freshly generated token")
	}
	if g.ValidateToken("session-xyz", token) {
		t.Error("ValidateToken() = true for a different session")
	}
	if g.ValidateToken("session-abc", "") {
		t.Error("ValidateToken() = true for an empty token")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, 1*time.Minute)

	if !rl.Allow("10.0.0.1") {
		t.Error("first request should be allowed")
	}
	if !rl.Allow("10.0.0.1") {
		t.Error("second request should be allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("third request within the window should be denied")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("different client should have its own bucket")
	}
}
