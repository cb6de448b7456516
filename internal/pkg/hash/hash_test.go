package hash

import (
	"bytes"
	"testing"
)

func TestBcrypt(t *testing.T) {
	t.Run("HashAndVerify", func(t *testing.T) {
		h := NewBcrypt(4, "pepper")

		hashed, err := h.Hash("correct horse battery")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !h.Verify(string(hashed), "correct horse battery") {
			t.Fatal("expected the original password to verify")
		}
		if h.Verify(string(hashed), "wrong password") {
			t.Fatal("expected a wrong password to fail")
		}
	})

	t.Run("PepperIsPartOfTheSecret", func(t *testing.T) {
		h := NewBcrypt(4, "pepper")
		other := NewBcrypt(4, "different")

		hashed, err := h.Hash("correct horse battery")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if other.Verify(string(hashed), "correct horse battery") {
			t.Fatal("expected verification to fail under a different pepper")
		}
	})
}

func TestHMACSHA256(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		h := NewHMACSHA256("secret")

		a, _ := h.Hash("135790")
		b, _ := h.Hash("135790")
		if !bytes.Equal(a, b) {
			t.Fatal("expected the same input to produce the same digest")
		}
		if !h.Verify(string(a), "135790") {
			t.Fatal("expected the digest to verify its own input")
		}
		if h.Verify(string(a), "135791") {
			t.Fatal("expected a different input to fail")
		}
	})

	t.Run("KeyedDigest", func(t *testing.T) {
		a, _ := NewHMACSHA256("secret-a").Hash("135790")
		b, _ := NewHMACSHA256("secret-b").Hash("135790")
		if bytes.Equal(a, b) {
			t.Fatal("expected different keys to produce different digests")
		}
	})
}

func TestNewPassword(t *testing.T) {
	t.Run("Argon2idSelected", func(t *testing.T) {
		h := NewPassword("argon2id", 0, "")
		if _, ok := h.(*Argon2id); !ok {
			t.Fatalf("expected argon2id hasher, got %T", h)
		}
	})

	t.Run("UnknownAlgoFallsBackToBcrypt", func(t *testing.T) {
		h := NewPassword("md5", 4, "")
		if _, ok := h.(*Bcrypt); !ok {
			t.Fatalf("expected bcrypt hasher, got %T", h)
		}
	})
}
