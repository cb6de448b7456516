package usecase

import (
	"context"
	"testing"

	"github.com/serikimmo/serik/internal/identity/entity"
	"github.com/serikimmo/serik/internal/pkg/goerror"
)

func TestLogin(t *testing.T) {
	const email = "daniyar@example.com"

	seed := func(t *testing.T, f *fixture, verified bool) {
		t.Helper()

		hashed, err := f.password.Hash("correct horse battery")
		if err != nil {
			t.Fatalf("failed to hash password: %v", err)
		}
		f.repo.addUser(entity.User{
			ID:            21,
			Email:         email,
			Role:          entity.RoleCreator,
			Password:      string(hashed),
			EmailVerified: verified,
		})
	}

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		seed(t, f, true)

		out, err := f.uc.Login(context.Background(), LoginInput{Email: "  Daniyar@Example.com ", Password: "correct horse battery"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if out.AccessToken != "jwt-for-"+email {
			t.Fatalf("unexpected access token %q", out.AccessToken)
		}
		if out.SessionToken != sessionTokenValue {
			t.Fatalf("unexpected session token %q", out.SessionToken)
		}
		if len(f.repo.sessions) != 1 || f.repo.sessions[0].UserID != 21 {
			t.Fatalf("expected one session for user 21, got %+v", f.repo.sessions)
		}
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.Login(context.Background(), LoginInput{Email: email, Password: "whatever pass"})

		wantBusinessCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		f := newFixture(t)
		seed(t, f, true)

		_, err := f.uc.Login(context.Background(), LoginInput{Email: email, Password: "wrong horse battery"})

		wantBusinessCode(t, err, goerror.CodeUnauthorized)
		if len(f.repo.sessions) != 0 {
			t.Fatalf("expected no session on wrong password")
		}
	})

	t.Run("PasswordlessAccount", func(t *testing.T) {
		f := newFixture(t)
		f.repo.addUser(entity.User{ID: 22, Email: email, Role: entity.RoleUser, EmailVerified: true})

		_, err := f.uc.Login(context.Background(), LoginInput{Email: email, Password: "correct horse battery"})

		wantBusinessCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("UnverifiedEmail", func(t *testing.T) {
		f := newFixture(t)
		seed(t, f, false)

		_, err := f.uc.Login(context.Background(), LoginInput{Email: email, Password: "correct horse battery"})

		wantBusinessCode(t, err, goerror.CodeForbidden)
	})
}
