package usecase

import (
	"context"
)

type OTPResendInput struct {
	Email string `validate:"required,email"`
}

// OTPResend reissues the verification code. Issuance always overwrites, so
// resending invalidates whatever was mailed before.
func (s *Usecase) OTPResend(ctx context.Context, in OTPResendInput) error {
	ctx, span := s.startSpan(ctx, "OTPResend")
	defer span.End()

	return s.OTPRequest(ctx, OTPRequestInput{Email: in.Email})
}
