package auth

import (
	"errors"
	"testing"
	"time"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if err := CheckPassword(hash, "secret1"); err != nil {
		t.Fatalf("expected password to match")
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatalf("expected password mismatch")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := NewToken("test-secret", time.Hour, "user-1", "a@b.com")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "a@b.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject to carry user id, got %q", claims.Subject)
	}
}

func TestTokenRejections(t *testing.T) {
	expired, err := NewToken("test-secret", -time.Minute, "user-1", "a@b.com")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	valid, err := NewToken("test-secret", time.Hour, "user-1", "a@b.com")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	cases := []struct {
		name   string
		secret string
		token  string
	}{
		{name: "expired", secret: "test-secret", token: expired},
		{name: "wrong secret", secret: "other-secret", token: valid},
		{name: "garbage", secret: "test-secret", token: "not-a-token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseToken(tc.secret, tc.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
