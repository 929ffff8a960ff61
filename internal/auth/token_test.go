package auth

import (
	"strings"
	"testing"
	"time"
)

func TestTokenCodecRoundTrip(t *testing.T) {
	codec := NewTokenCodec([]byte("test-secret"))

	token, err := codec.Issue(map[string]any{"sub": "user-42", "role": "admin"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims["sub"] != "user-42" {
		t.Fatalf("sub claim mismatch: got %v", claims["sub"])
	}
	if claims["role"] != "admin" {
		t.Fatalf("role claim mismatch: got %v", claims["role"])
	}
}

func TestTokenCodecExpired(t *testing.T) {
	codec := NewTokenCodec([]byte("test-secret"))

	token, err := codec.Issue(map[string]any{"sub": "u1"}, -1*time.Second)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := codec.Verify(token); err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenCodecWrongSecret(t *testing.T) {
	issuer := NewTokenCodec([]byte("right-secret"))
	verifier := NewTokenCodec([]byte("wrong-secret"))

	token, err := issuer.Issue(map[string]any{"sub": "u2"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := verifier.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestTokenCodecTamperedToken(t *testing.T) {
	codec := NewTokenCodec([]byte("test-secret"))

	token, err := codec.Issue(map[string]any{"sub": "u3"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Flip one byte of the payload segment. The signature must no longer match.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := codec.Verify(tampered); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestTokenCodecMalformed(t *testing.T) {
	codec := NewTokenCodec([]byte("test-secret"))

	tests := []string{"", "not.a.jwt", "garbage", "a.b"}
	for _, raw := range tests {
		if _, err := codec.Verify(raw); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", raw, err)
		}
	}
}
