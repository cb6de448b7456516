package usecase

import (
	"context"
	"log/slog"

	"github.com/serikimmo/serik/internal/notification/entity"
)

type ConsumeUserOTPRequestedInput struct {
	UserID   int64  `validate:"required,gt=0"`
	Email    string `validate:"required,email"`
	FullName string `validate:"omitempty,max=200"`
	Code     string `validate:"required,len=6,number"`
}

func (s *Usecase) ConsumeUserOTPRequested(ctx context.Context, in ConsumeUserOTPRequestedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeUserOTPRequested")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		// A malformed event will never become valid, drop it.
		slog.ErrorContext(ctx, "invalid otp requested event", "user_id", in.UserID, "error", err)
		return nil
	}

	data := s.baseEmailTemplateData()
	data["full_name"] = in.FullName
	data["code"] = in.Code
	data["expires_minutes"] = int(s.cfg.GetMinute("modules.identity.otp_ttl_minutes").Minutes())

	s.deliverEmail(ctx, emailDeliveryInput{
		UserID:       in.UserID,
		Email:        in.Email,
		TriggerKey:   entity.TriggerKeyOTPRequested,
		TemplateData: data,
	})

	return nil
}
