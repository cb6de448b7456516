package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/serikimmo/serik/internal/identity/entity"
	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/jwt"
)

func TestLogout(t *testing.T) {
	authed := jwt.SetAuth(context.Background(), jwt.Claims{UserID: 51, UserRole: "USER"})

	t.Run("RevokesByDigest", func(t *testing.T) {
		f := newFixture(t)

		if err := f.uc.Logout(authed, LogoutInput{SessionToken: sessionTokenValue}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(f.repo.revokedTokens) != 1 || f.repo.revokedTokens[0] != f.digest(t, sessionTokenValue) {
			t.Fatalf("expected revoke by digest, got %v", f.repo.revokedTokens)
		}
	})

	t.Run("MalformedTokenIsIgnored", func(t *testing.T) {
		f := newFixture(t)

		if err := f.uc.Logout(authed, LogoutInput{SessionToken: "short"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(f.repo.revokedTokens) != 0 {
			t.Fatalf("expected no revoke for a malformed token")
		}
	})

	t.Run("RequiresAuthentication", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.Logout(context.Background(), LogoutInput{SessionToken: sessionTokenValue})

		wantBusinessCode(t, err, goerror.CodeUnauthorized)
	})
}

func TestGoogleAuthURL(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.GoogleAuthURL(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.State != sessionTokenValue {
		t.Fatalf("unexpected state %q", out.State)
	}
	if out.URL != "https://accounts.google.test/auth?state="+sessionTokenValue {
		t.Fatalf("unexpected url %q", out.URL)
	}
}

func TestGoogleCallback(t *testing.T) {
	t.Run("NewUserGetsSession", func(t *testing.T) {
		f := newFixture(t)
		f.google.profile = &GoogleProfile{
			Email:         "Zhanar@Example.com",
			FirstName:     "Zhanar",
			LastName:      "Omarova",
			AvatarURL:     "https://lh3.example.com/a/photo",
			EmailVerified: true,
		}

		out, err := f.uc.GoogleCallback(context.Background(), GoogleCallbackInput{Code: "oauth-code"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		user, ok := f.repo.usersByEmail["zhanar@example.com"]
		if !ok {
			t.Fatalf("expected user upserted under the lowered email")
		}
		if !user.EmailVerified {
			t.Fatalf("expected google accounts to arrive verified")
		}
		if out.SessionToken != sessionTokenValue {
			t.Fatalf("unexpected session token %q", out.SessionToken)
		}
		if len(f.repo.sessions) != 1 {
			t.Fatalf("expected one session, got %d", len(f.repo.sessions))
		}
	})

	t.Run("UnverifiedGoogleEmail", func(t *testing.T) {
		f := newFixture(t)
		f.google.profile = &GoogleProfile{Email: "zhanar@example.com", EmailVerified: false}

		_, err := f.uc.GoogleCallback(context.Background(), GoogleCallbackInput{Code: "oauth-code"})

		wantBusinessCode(t, err, goerror.CodeForbidden)
	})

	t.Run("ExchangeFailure", func(t *testing.T) {
		f := newFixture(t)
		f.google.err = errors.New("invalid_grant")

		_, err := f.uc.GoogleCallback(context.Background(), GoogleCallbackInput{Code: "oauth-code"})

		wantBusinessCode(t, err, goerror.CodeUnauthorized)
	})
}

func TestProfile(t *testing.T) {
	t.Run("ReturnsOwnRow", func(t *testing.T) {
		f := newFixture(t)
		f.repo.addUser(entity.User{ID: 61, Email: "a@example.com", FirstName: "Asel", LastName: "Nurpeisova", Role: entity.RoleCreator})

		out, err := f.uc.Profile(jwt.SetAuth(context.Background(), jwt.Claims{UserID: 61}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if out.Email != "a@example.com" || out.FirstName != "Asel" {
			t.Fatalf("unexpected profile %+v", out)
		}
	})

	t.Run("RequiresAuthentication", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.Profile(context.Background())

		wantBusinessCode(t, err, goerror.CodeUnauthorized)
	})
}
