package jwt

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type staticClock struct{ t time.Time }

func (c staticClock) Now() time.Time { return c.t }

type staticUUID struct{ v string }

func (u staticUUID) Generate() string { return u.v }

var testSecret = []byte(strings.Repeat("k", 64))

func newTestJWT(t *testing.T, now time.Time) *Symmetric {
	t.Helper()

	j, err := NewHS512(Config{
		Secret:    testSecret,
		Issuer:    "serik",
		Audiences: []string{"serik-api"},
		TTL:       15 * time.Minute,
		Clock:     staticClock{t: now},
		UUID:      staticUUID{v: "5f3c1a2b-0000-0000-0000-000000000001"},
	})
	if err != nil {
		t.Fatalf("failed to build jwt: %v", err)
	}

	return j
}

func TestSymmetric(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		j := newTestJWT(t, time.Now())

		token, err := j.Generate(11, "aigerim@example.kz", "USER")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		clm, err := j.Verify(token)
		if err != nil {
			t.Fatalf("expected the token to verify, got %v", err)
		}
		if clm.UserID != 11 || clm.UserEmail != "aigerim@example.kz" || clm.UserRole != "USER" {
			t.Fatalf("unexpected claims: %+v", clm)
		}
		if clm.Subject != "11" {
			t.Fatalf("unexpected subject %q", clm.Subject)
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		issuer := newTestJWT(t, time.Now().Add(-time.Hour))
		verifier := newTestJWT(t, time.Now())

		token, err := issuer.Generate(11, "aigerim@example.kz", "USER")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := verifier.Verify(token); !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		j := newTestJWT(t, time.Now())

		other, err := NewHS512(Config{
			Secret:    []byte(strings.Repeat("x", 64)),
			Issuer:    "serik",
			Audiences: []string{"serik-api"},
			TTL:       15 * time.Minute,
			Clock:     staticClock{t: time.Now()},
			UUID:      staticUUID{v: "id"},
		})
		if err != nil {
			t.Fatalf("failed to build jwt: %v", err)
		}

		token, err := other.Generate(11, "aigerim@example.kz", "USER")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := j.Verify(token); err == nil {
			t.Fatal("expected a token signed with another key to fail")
		}
	})

	t.Run("ShortKeyIsRejected", func(t *testing.T) {
		_, err := NewHS512(Config{Secret: []byte("too short")})
		if !errors.Is(err, ErrSigningKeyTooShort) {
			t.Fatalf("expected ErrSigningKeyTooShort, got %v", err)
		}
	})
}

func TestAuthContext(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		ctx := SetAuth(context.Background(), Claims{UserID: 11, UserRole: "USER"})

		clm := GetAuth(ctx)
		if clm == nil {
			t.Fatal("expected claims in context")
		}
		if clm.UserID != 11 || clm.UserRole != "USER" {
			t.Fatalf("unexpected claims: %+v", clm)
		}
	})

	t.Run("EmptyContext", func(t *testing.T) {
		if clm := GetAuth(context.Background()); clm != nil {
			t.Fatalf("expected nil claims, got %+v", clm)
		}
	})
}
