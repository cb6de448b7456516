package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/secret"
)

type PasswordResetInput struct {
	Token           string `validate:"required,len=8,number"`
	Password        string `validate:"required,password"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

func (s *Usecase) PasswordReset(ctx context.Context, in PasswordResetInput) error {
	ctx, span := s.startSpan(ctx, "PasswordReset")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	tokenHash, err := s.hmac.Hash(in.Token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash reset token", "error", err)
		return goerror.NewServer(err)
	}

	us, err := s.repoDB.LoadSecretByHash(ctx, string(tokenHash), secret.PurposePasswordReset)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "password reset with unknown token")
		return goerror.NewBusiness("Invalid or expired reset token", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo load reset secret", "error", err)
		return goerror.NewServer(err)
	}

	// The row was found by digest, so only the expiry check can fail here.
	outcome := secret.Evaluate(us.Secret, string(tokenHash), s.clock.Now(), secret.DefaultMaxAttempts)
	if outcome == secret.OutcomeExpired {
		if err := s.repoDB.ClearSecret(ctx, us.UserID, secret.PurposePasswordReset); err != nil {
			slog.ErrorContext(ctx, "failed to repo clear expired reset secret", "user_id", us.UserID, "error", err)
			return goerror.NewServer(err)
		}
		return goerror.NewBusiness("Reset token has expired. Request a new one.", goerror.CodeGone)
	}
	if outcome != secret.OutcomeOK {
		slog.WarnContext(ctx, "reset token rejected", "user_id", us.UserID, "outcome", outcome.String())
		return goerror.NewBusiness("Invalid or expired reset token", goerror.CodeUnauthorized)
	}

	passwordHash, err := s.password.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "user_id", us.UserID, "error", err)
		return goerror.NewServer(err)
	}

	// Sets the new password and clears the token in one statement.
	if err := s.repoDB.ResetPassword(ctx, us.UserID, string(passwordHash)); err != nil {
		slog.ErrorContext(ctx, "failed to repo reset password", "user_id", us.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
