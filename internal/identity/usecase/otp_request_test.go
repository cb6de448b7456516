package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/serikimmo/serik/internal/identity/entity"
	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/idempotency"
	"github.com/serikimmo/serik/internal/pkg/secret"
)

func TestOTPRequest(t *testing.T) {
	const email = "madina@example.com"

	t.Run("IssuesCodeAndPublishes", func(t *testing.T) {
		f := newFixture(t)
		f.repo.addUser(entity.User{ID: 31, Email: email, FirstName: "Madina", LastName: "Serikova"})

		if err := f.uc.OTPRequest(context.Background(), OTPRequestInput{Email: email}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(f.repo.issued) != 1 {
			t.Fatalf("expected one issued secret, got %d", len(f.repo.issued))
		}
		iss := f.repo.issued[0]
		if iss.userID != 31 || iss.purpose != secret.PurposeEmailVerify {
			t.Fatalf("unexpected issuance %+v", iss)
		}
		if iss.hash != f.digest(t, "135790") {
			t.Fatalf("expected stored digest of the code, got %q", iss.hash)
		}
		if !iss.expiresAt.Equal(testNow.Add(10 * time.Minute)) {
			t.Fatalf("unexpected expiry %v", iss.expiresAt)
		}

		if len(f.messenger.otpEvents) != 1 {
			t.Fatalf("expected one published event, got %d", len(f.messenger.otpEvents))
		}
		evt := f.messenger.otpEvents[0]
		if evt.UserID != 31 || evt.Code != "135790" || evt.FullName != "Madina Serikova" {
			t.Fatalf("unexpected event %+v", evt)
		}
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.OTPRequest(context.Background(), OTPRequestInput{Email: email})

		wantBusinessCode(t, err, goerror.CodeNotFound)
	})

	t.Run("DoubleSubmitAbsorbed", func(t *testing.T) {
		f := newFixture(t)
		f.repo.addUser(entity.User{ID: 31, Email: email})
		f.idemp.err = idempotency.ErrAlreadyInProgress

		if err := f.uc.OTPRequest(context.Background(), OTPRequestInput{Email: email}); err != nil {
			t.Fatalf("expected guarded double submit to succeed, got %v", err)
		}

		if len(f.idemp.keys) != 1 || f.idemp.keys[0] != "identity:otp:"+email {
			t.Fatalf("unexpected idempotency keys %v", f.idemp.keys)
		}
		if len(f.repo.issued) != 0 {
			t.Fatalf("expected no issuance inside the lock window, got %d", len(f.repo.issued))
		}
	})

	t.Run("PublishFailureKeepsCodeValid", func(t *testing.T) {
		f := newFixture(t)
		f.repo.addUser(entity.User{ID: 31, Email: email})
		f.messenger.failWith = errors.New("broker down")

		if err := f.uc.OTPRequest(context.Background(), OTPRequestInput{Email: email}); err != nil {
			t.Fatalf("expected publish failure to be swallowed, got %v", err)
		}

		if len(f.repo.issued) != 1 {
			t.Fatalf("expected the code to stay issued, got %d", len(f.repo.issued))
		}
	})
}

func TestOTPResend(t *testing.T) {
	const email = "madina@example.com"

	f := newFixture(t)
	f.repo.addUser(entity.User{ID: 31, Email: email})

	if err := f.uc.OTPResend(context.Background(), OTPResendInput{Email: email}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Resend always overwrites, so the previous code dies with the new issuance.
	if len(f.repo.issued) != 1 {
		t.Fatalf("expected a fresh issuance, got %d", len(f.repo.issued))
	}
}
