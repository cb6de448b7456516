package usecase

import (
	"context"
	"testing"

	"github.com/serikimmo/serik/internal/identity/entity"
	"github.com/serikimmo/serik/internal/pkg/goerror"
)

func TestRegister(t *testing.T) {
	valid := RegisterInput{
		FirstName: "Aigerim",
		LastName:  "Tulegenova",
		Email:     "Aigerim@Example.com",
		Phone:     "+77011234567",
		Password:  "long enough pass",
	}

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)

		if err := f.uc.Register(context.Background(), valid); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		user, ok := f.repo.usersByEmail["aigerim@example.com"]
		if !ok {
			t.Fatalf("expected user stored under the lowered email")
		}
		if user.Role != entity.RoleUser {
			t.Fatalf("expected new accounts to start as USER, got %s", user.Role)
		}
		if !f.password.Verify(user.Password, "long enough pass") {
			t.Fatalf("expected stored hash to verify against the password")
		}

		// The first verification mail goes out with registration.
		if len(f.repo.issued) != 1 {
			t.Fatalf("expected an otp issuance, got %d", len(f.repo.issued))
		}
		if len(f.messenger.otpEvents) != 1 {
			t.Fatalf("expected an otp event, got %d", len(f.messenger.otpEvents))
		}
		if f.messenger.otpEvents[0].FullName != "Aigerim Tulegenova" {
			t.Fatalf("unexpected full name %q", f.messenger.otpEvents[0].FullName)
		}
	})

	t.Run("PasswordlessAccount", func(t *testing.T) {
		f := newFixture(t)
		in := valid
		in.Password = ""

		if err := f.uc.Register(context.Background(), in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if f.repo.usersByEmail["aigerim@example.com"].Password != "" {
			t.Fatalf("expected empty password column for otp-only account")
		}
	})

	t.Run("TakenEmail", func(t *testing.T) {
		f := newFixture(t)
		f.repo.addUser(entity.User{ID: 1, Email: "aigerim@example.com"})

		err := f.uc.Register(context.Background(), valid)

		wantBusinessCode(t, err, goerror.CodeConflict)
	})

	t.Run("BadNames", func(t *testing.T) {
		f := newFixture(t)
		in := valid
		in.FirstName = "Aigerim99"

		err := f.uc.Register(context.Background(), in)

		wantBusinessCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("ShortPassword", func(t *testing.T) {
		f := newFixture(t)
		in := valid
		in.Password = "short"

		err := f.uc.Register(context.Background(), in)

		wantBusinessCode(t, err, goerror.CodeInvalidInput)
	})
}
