package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestManagerRoundTrip(t *testing.T) {
	m, err := NewManager("test-secret", time.Hour, "couples-chat")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	token, expiresAt, err := m.Generate("u1", "alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if expiresAt <= time.Now().Unix() {
		t.Fatalf("expiresAt %d is not in the future", expiresAt)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UserID != "u1" || claims.Name != "alice" {
		t.Fatalf("claims = %q/%q, want u1/alice", claims.UserID, claims.Name)
	}
	if claims.Issuer != "couples-chat" {
		t.Fatalf("issuer = %q", claims.Issuer)
	}
}

func TestManagerRejectsEmptySecret(t *testing.T) {
	if _, err := NewManager("", time.Hour, "couples-chat"); err == nil {
		t.Fatal("NewManager accepted an empty secret")
	}
}

func TestValidateRejectsBadTokens(t *testing.T) {
	m, err := NewManager("test-secret", time.Hour, "couples-chat")
	if err != nil {
		t.Fatal(err)
	}
	other, err := NewManager("other-secret", time.Hour, "couples-chat")
	if err != nil {
		t.Fatal(err)
	}

	foreign, _, err := other.Generate("u1", "alice")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"wrong secret", foreign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Validate(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("Validate(%q) error = %v, want ErrInvalidToken", tt.token, err)
			}
		})
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	m, err := NewManager("test-secret", -time.Minute, "couples-chat")
	if err != nil {
		t.Fatal(err)
	}

	token, _, err := m.Generate("u1", "alice")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.Validate(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("Validate(expired) error = %v, want ErrExpiredToken", err)
	}
}
