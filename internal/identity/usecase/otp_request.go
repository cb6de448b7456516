package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/idempotency"
	"github.com/serikimmo/serik/internal/pkg/secret"
)

type OTPRequestInput struct {
	Email string `validate:"required,email"`
}

func (s *Usecase) OTPRequest(ctx context.Context, in OTPRequestInput) error {
	ctx, span := s.startSpan(ctx, "OTPRequest")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otp requested for unknown email", "email", in.Email)
		return goerror.NewBusiness("Account not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	// Double-submits within the lock window collapse into one issuance,
	// so the user gets one mail with one valid code.
	err = s.idemp.Exec(ctx, "identity:otp:"+in.Email, func(ctx context.Context) error {
		return s.issueLoginOTP(ctx, user.ID, user.Email, user.FullName())
	}, idempotency.WithLockDuration(s.cfg.GetSecond("modules.identity.otp_lock_seconds")))
	if errors.Is(err, idempotency.ErrAlreadyInProgress) || errors.Is(err, idempotency.ErrAlreadyCompleted) {
		slog.WarnContext(ctx, "otp issuance absorbed by idempotency guard", "user_id", user.ID)
		return nil
	}

	return err
}

// issueLoginOTP generates a verification code, persists its digest, then
// publishes the delivery event. Publish failures are logged only, the code
// is already valid at that point.
func (s *Usecase) issueLoginOTP(ctx context.Context, userID int64, email, fullName string) error {
	code, err := s.secretGen.Generate(secret.OTPDigits)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp", "user_id", userID, "error", err)
		return goerror.NewServer(err)
	}

	codeHash, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp", "user_id", userID, "error", err)
		return goerror.NewServer(err)
	}

	expiresAt := s.clock.Now().Add(s.cfg.GetMinute("modules.identity.otp_ttl_minutes"))
	if err := s.repoDB.IssueSecret(ctx, userID, secret.PurposeEmailVerify, string(codeHash), expiresAt); err != nil {
		slog.ErrorContext(ctx, "failed to repo issue otp secret", "user_id", userID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishUserOTPRequested(ctx, UserOTPRequestedEvent{
		UserID:   userID,
		Email:    email,
		FullName: fullName,
		Code:     code,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish user otp requested", "user_id", userID, "error", err)
	}

	return nil
}
