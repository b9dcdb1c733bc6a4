// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"testing"
	"time"
)

func TestGenerateID(t *testing.T) {
	id1, err := GenerateID(16)
	if err != nil {
		t.Fatalf("GenerateID failed: %v", err)
	}
	if len(id1) != 32 {
		t.Errorf("Expected 32 hex chars, got %d", len(id1))
	}

	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("Expected unique IDs")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "secret123" {
		t.Error("Hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "secret123") {
		t.Error("Expected matching password to verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("Expected wrong password to fail")
	}
}

func TestIssueAndParseToken(t *testing.T) {
	secret := []byte("test-secret")

	raw, err := IssueToken("voter-1", "alice", true, TokenAccess, time.Hour, secret)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	principal, err := ParseToken(raw, secret)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if principal.VoterID != "voter-1" {
		t.Errorf("Expected voter-1, got %s", principal.VoterID)
	}
	if principal.Username != "alice" {
		t.Errorf("Expected alice, got %s", principal.Username)
	}
	if !principal.IsAdmin {
		t.Error("Expected admin claim")
	}
	if principal.Type != TokenAccess {
		t.Errorf("Expected access type, got %s", principal.Type)
	}
	if principal.TokenID == "" {
		t.Error("Expected a token ID")
	}
	if principal.Expires.Before(time.Now()) {
		t.Error("Expected future expiry")
	}
}

func TestParseTokenRejections(t *testing.T) {
	secret := []byte("test-secret")

	t.Run("wrong secret", func(t *testing.T) {
		raw, _ := IssueToken("voter-1", "alice", false, TokenAccess, time.Hour, secret)
		if _, err := ParseToken(raw, []byte("other-secret")); err == nil {
			t.Error("Expected rejection with wrong secret")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		raw, _ := IssueToken("voter-1", "alice", false, TokenAccess, -time.Minute, secret)
		if _, err := ParseToken(raw, secret); err == nil {
			t.Error("Expected rejection of expired token")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := ParseToken("not.a.token", secret); err == nil {
			t.Error("Expected rejection of malformed token")
		}
	})

	t.Run("token types are distinct", func(t *testing.T) {
		raw, _ := IssueToken("voter-1", "alice", false, TokenRefresh, time.Hour, secret)
		principal, err := ParseToken(raw, secret)
		if err != nil {
			t.Fatalf("ParseToken failed: %v", err)
		}
		if principal.Type != TokenRefresh {
			t.Errorf("Expected refresh type, got %s", principal.Type)
		}
	})
}
