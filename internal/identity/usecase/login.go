package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/serikimmo/serik/internal/pkg/goerror"
)

type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type LoginOutput struct {
	AccessToken  string
	SessionToken string
}

func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "login for unknown email", "email", in.Email)
		return nil, goerror.NewBusiness("Invalid email or password", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	// Accounts created through OTP or Google have no password to check.
	if user.Password == "" {
		slog.WarnContext(ctx, "password login on passwordless account", "user_id", user.ID)
		return nil, goerror.NewBusiness("Invalid email or password", goerror.CodeUnauthorized)
	}

	if !s.password.Verify(user.Password, in.Password) {
		slog.WarnContext(ctx, "login with wrong password", "user_id", user.ID)
		return nil, goerror.NewBusiness("Invalid email or password", goerror.CodeUnauthorized)
	}

	if !user.EmailVerified {
		slog.WarnContext(ctx, "login on unverified account", "user_id", user.ID)
		return nil, goerror.NewBusiness("Email not verified", goerror.CodeForbidden)
	}

	access, session, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{AccessToken: access, SessionToken: session}, nil
}
