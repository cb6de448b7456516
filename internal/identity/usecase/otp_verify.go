package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/serikimmo/serik/internal/identity/entity"
	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/secret"
)

type OTPVerifyInput struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,len=6,number"`
}

type OTPVerifyOutput struct {
	AccessToken  string
	SessionToken string
}

func (s *Usecase) OTPVerify(ctx context.Context, in OTPVerifyInput) (*OTPVerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "OTPVerify")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	us, err := s.repoDB.LoadSecret(ctx, in.Email, secret.PurposeEmailVerify)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otp verify for unknown email", "email", in.Email)
		return nil, goerror.NewBusiness("Invalid email or code", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo load otp secret", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	codeHash, err := s.hmac.Hash(in.Code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp", "user_id", us.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	outcome := secret.Evaluate(us.Secret, string(codeHash), s.clock.Now(), secret.DefaultMaxAttempts)
	switch outcome {
	case secret.OutcomeNoActive:
		slog.WarnContext(ctx, "otp verify without active code", "user_id", us.UserID)
		return nil, goerror.NewBusiness("No active code. Request a new one.", goerror.CodeUnauthorized)

	case secret.OutcomeExpired:
		if err := s.repoDB.ClearSecret(ctx, us.UserID, secret.PurposeEmailVerify); err != nil {
			slog.ErrorContext(ctx, "failed to repo clear expired otp", "user_id", us.UserID, "error", err)
			return nil, goerror.NewServer(err)
		}
		return nil, goerror.NewBusiness("Code has expired. Request a new one.", goerror.CodeGone)

	case secret.OutcomeLocked:
		if err := s.repoDB.ClearSecret(ctx, us.UserID, secret.PurposeEmailVerify); err != nil {
			slog.ErrorContext(ctx, "failed to repo clear locked otp", "user_id", us.UserID, "error", err)
			return nil, goerror.NewServer(err)
		}
		slog.WarnContext(ctx, "otp locked after repeated failures", "user_id", us.UserID)
		return nil, goerror.NewBusiness("Too many incorrect attempts. Request a new code.", goerror.CodeTooManyRequest)

	case secret.OutcomeMismatch:
		if err := s.repoDB.BumpSecretAttempts(ctx, us.UserID, secret.PurposeEmailVerify); err != nil {
			slog.ErrorContext(ctx, "failed to repo bump otp attempts", "user_id", us.UserID, "error", err)
			return nil, goerror.NewServer(err)
		}
		return nil, goerror.NewBusiness("Invalid email or code", goerror.CodeUnauthorized)
	}

	// Clears the code and flags the email in one statement.
	if err := s.repoDB.MarkEmailVerified(ctx, us.UserID); err != nil {
		slog.ErrorContext(ctx, "failed to repo mark email verified", "user_id", us.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	access, session, err := s.issueSession(ctx, &entity.User{
		ID:    us.UserID,
		Email: us.Email,
		Role:  us.Role,
	})
	if err != nil {
		return nil, err
	}

	return &OTPVerifyOutput{AccessToken: access, SessionToken: session}, nil
}
