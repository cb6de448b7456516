package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/serikimmo/serik/internal/identity/entity"
	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/secret"
)

func TestPasswordForgot(t *testing.T) {
	const email = "erlan@example.com"

	t.Run("IssuesTokenAndPublishes", func(t *testing.T) {
		f := newFixture(t)
		f.repo.addUser(entity.User{ID: 41, Email: email, FirstName: "Erlan", LastName: "Abenov"})

		if err := f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: email}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(f.repo.issued) != 1 {
			t.Fatalf("expected one issued secret, got %d", len(f.repo.issued))
		}
		iss := f.repo.issued[0]
		if iss.purpose != secret.PurposePasswordReset {
			t.Fatalf("expected reset purpose, got %s", iss.purpose)
		}
		if !iss.expiresAt.Equal(testNow.Add(30 * time.Minute)) {
			t.Fatalf("unexpected expiry %v", iss.expiresAt)
		}

		if len(f.messenger.resetEvents) != 1 {
			t.Fatalf("expected one published event, got %d", len(f.messenger.resetEvents))
		}
		if f.messenger.resetEvents[0].Token != "135790" {
			t.Fatalf("expected plaintext token in the event, got %q", f.messenger.resetEvents[0].Token)
		}
	})

	t.Run("UnknownEmailStaysQuiet", func(t *testing.T) {
		f := newFixture(t)

		if err := f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: email}); err != nil {
			t.Fatalf("expected nil for unknown email, got %v", err)
		}
		if len(f.repo.issued) != 0 || len(f.messenger.resetEvents) != 0 {
			t.Fatalf("expected no side effects for unknown email")
		}
	})
}

func TestPasswordReset(t *testing.T) {
	const token = "24681357"

	seed := func(t *testing.T, f *fixture, expiresAt time.Time) {
		t.Helper()

		f.repo.addUser(entity.User{ID: 41, Email: "erlan@example.com"})
		f.repo.secretsByTok[f.digest(t, token)] = &entity.UserSecret{
			UserID: 41,
			Email:  "erlan@example.com",
			Secret: secret.Record{Hash: f.digest(t, token), ExpiresAt: expiresAt},
		}
	}

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		seed(t, f, testNow.Add(20*time.Minute))

		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{
			Token:           token,
			Password:        "fresh new secret",
			ConfirmPassword: "fresh new secret",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(f.repo.resetUsers) != 1 || f.repo.resetUsers[0] != 41 {
			t.Fatalf("expected password reset for user 41, got %v", f.repo.resetUsers)
		}
		if !f.password.Verify(f.repo.usersByID[41].Password, "fresh new secret") {
			t.Fatalf("expected stored hash to verify against the new password")
		}
	})

	t.Run("UnknownToken", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{
			Token:           token,
			Password:        "fresh new secret",
			ConfirmPassword: "fresh new secret",
		})

		wantBusinessCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("ExpiredTokenClearsItself", func(t *testing.T) {
		f := newFixture(t)
		seed(t, f, testNow.Add(-time.Minute))

		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{
			Token:           token,
			Password:        "fresh new secret",
			ConfirmPassword: "fresh new secret",
		})

		wantBusinessCode(t, err, goerror.CodeGone)
		if len(f.repo.cleared) != 1 || f.repo.cleared[0] != 41 {
			t.Fatalf("expected expired token cleared for user 41, got %v", f.repo.cleared)
		}
		if len(f.repo.resetUsers) != 0 {
			t.Fatalf("expected no password change on expired token")
		}
	})

	t.Run("ConfirmationMismatch", func(t *testing.T) {
		f := newFixture(t)
		seed(t, f, testNow.Add(20*time.Minute))

		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{
			Token:           token,
			Password:        "fresh new secret",
			ConfirmPassword: "different secret",
		})

		wantBusinessCode(t, err, goerror.CodeInvalidInput)
	})
}
