package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/serikimmo/serik/internal/identity/entity"
	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/secret"
)

func (f *fixture) loadOTPSecret(t *testing.T, email string, rec secret.Record) {
	t.Helper()

	f.repo.secrets[email] = &entity.UserSecret{
		UserID:    11,
		Email:     email,
		FirstName: "Aruzhan",
		LastName:  "Bekova",
		Role:      entity.RoleUser,
		Secret:    rec,
	}
	f.repo.addUser(entity.User{ID: 11, Email: email, Role: entity.RoleUser})
}

func TestOTPVerify(t *testing.T) {
	const email = "aruzhan@example.com"

	t.Run("WrongCodeBumpsAttempts", func(t *testing.T) {
		f := newFixture(t)
		f.loadOTPSecret(t, email, secret.Record{
			Hash:      f.digest(t, "135790"),
			ExpiresAt: testNow.Add(590 * time.Second),
		})

		_, err := f.uc.OTPVerify(context.Background(), OTPVerifyInput{Email: email, Code: "000000"})

		wantBusinessCode(t, err, goerror.CodeUnauthorized)
		if len(f.repo.bumped) != 1 || f.repo.bumped[0] != 11 {
			t.Fatalf("expected one attempt bump for user 11, got %v", f.repo.bumped)
		}
		if len(f.repo.verifiedUsers) != 0 {
			t.Fatalf("expected no verification, got %v", f.repo.verifiedUsers)
		}
	})

	t.Run("RightCodeVerifiesAndIssuesSession", func(t *testing.T) {
		f := newFixture(t)
		f.loadOTPSecret(t, email, secret.Record{
			Hash:      f.digest(t, "135790"),
			ExpiresAt: testNow.Add(580 * time.Second),
			Attempts:  1,
		})

		out, err := f.uc.OTPVerify(context.Background(), OTPVerifyInput{Email: email, Code: "135790"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if out.AccessToken != "jwt-for-"+email {
			t.Fatalf("unexpected access token %q", out.AccessToken)
		}
		if out.SessionToken != sessionTokenValue {
			t.Fatalf("unexpected session token %q", out.SessionToken)
		}
		if len(f.repo.verifiedUsers) != 1 || f.repo.verifiedUsers[0] != 11 {
			t.Fatalf("expected user 11 marked verified, got %v", f.repo.verifiedUsers)
		}
		if len(f.repo.sessions) != 1 {
			t.Fatalf("expected one session, got %d", len(f.repo.sessions))
		}
		sess := f.repo.sessions[0]
		if sess.UserID != 11 {
			t.Fatalf("expected session for user 11, got %d", sess.UserID)
		}
		if sess.Token != f.digest(t, sessionTokenValue) {
			t.Fatalf("expected session token stored hashed")
		}
		if !sess.ExpiresAt.Equal(testNow.Add(30 * 24 * time.Hour)) {
			t.Fatalf("unexpected session expiry %v", sess.ExpiresAt)
		}
	})

	t.Run("ClearedCodeHasNothingToVerify", func(t *testing.T) {
		f := newFixture(t)
		f.loadOTPSecret(t, email, secret.Record{})

		_, err := f.uc.OTPVerify(context.Background(), OTPVerifyInput{Email: email, Code: "135790"})

		wantBusinessCode(t, err, goerror.CodeUnauthorized)
		if len(f.repo.sessions) != 0 {
			t.Fatalf("expected no session, got %d", len(f.repo.sessions))
		}
	})

	t.Run("ExpiredCodeClearsItself", func(t *testing.T) {
		f := newFixture(t)
		f.loadOTPSecret(t, email, secret.Record{
			Hash:      f.digest(t, "135790"),
			ExpiresAt: testNow.Add(-time.Second),
		})

		_, err := f.uc.OTPVerify(context.Background(), OTPVerifyInput{Email: email, Code: "135790"})

		wantBusinessCode(t, err, goerror.CodeGone)
		if len(f.repo.cleared) != 1 || f.repo.cleared[0] != 11 {
			t.Fatalf("expected expired secret cleared for user 11, got %v", f.repo.cleared)
		}
	})

	t.Run("LockedAfterFiveFailures", func(t *testing.T) {
		f := newFixture(t)
		f.loadOTPSecret(t, email, secret.Record{
			Hash:      f.digest(t, "135790"),
			ExpiresAt: testNow.Add(5 * time.Minute),
			Attempts:  secret.DefaultMaxAttempts,
		})

		_, err := f.uc.OTPVerify(context.Background(), OTPVerifyInput{Email: email, Code: "135790"})

		wantBusinessCode(t, err, goerror.CodeTooManyRequest)
		if len(f.repo.cleared) != 1 {
			t.Fatalf("expected locked secret cleared, got %v", f.repo.cleared)
		}
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.OTPVerify(context.Background(), OTPVerifyInput{Email: "nobody@example.com", Code: "135790"})

		wantBusinessCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("MalformedCode", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.OTPVerify(context.Background(), OTPVerifyInput{Email: email, Code: "13579"})

		wantBusinessCode(t, err, goerror.CodeInvalidInput)
	})
}
