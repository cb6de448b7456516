package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/secret"
)

type PasswordForgotInput struct {
	Email string `validate:"required,email"`
}

func (s *Usecase) PasswordForgot(ctx context.Context, in PasswordForgotInput) error {
	ctx, span := s.startSpan(ctx, "PasswordForgot")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		// Do not leak which emails exist.
		slog.WarnContext(ctx, "password reset requested for unknown email", "email", in.Email)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	token, err := s.secretGen.Generate(secret.ResetDigits)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate reset token", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	tokenHash, err := s.hmac.Hash(token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash reset token", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	expiresAt := s.clock.Now().Add(s.cfg.GetMinute("modules.identity.reset_ttl_minutes"))
	if err := s.repoDB.IssueSecret(ctx, user.ID, secret.PurposePasswordReset, string(tokenHash), expiresAt); err != nil {
		slog.ErrorContext(ctx, "failed to repo issue reset secret", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishUserPasswordResetRequested(ctx, UserPasswordResetRequestedEvent{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName(),
		Token:    token,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish user password reset requested", "user_id", user.ID, "error", err)
	}

	return nil
}
