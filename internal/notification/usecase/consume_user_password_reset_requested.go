package usecase

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/serikimmo/serik/internal/notification/entity"
)

type ConsumeUserPasswordResetRequestedInput struct {
	UserID   int64  `validate:"required,gt=0"`
	Email    string `validate:"required,email"`
	FullName string `validate:"omitempty,max=200"`
	Token    string `validate:"required,len=8,number"`
}

func (s *Usecase) ConsumeUserPasswordResetRequested(ctx context.Context, in ConsumeUserPasswordResetRequestedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeUserPasswordResetRequested")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "invalid password reset requested event", "user_id", in.UserID, "error", err)
		return nil
	}

	data := s.baseEmailTemplateData()
	data["full_name"] = in.FullName
	data["token"] = in.Token
	data["reset_url"] = s.cfg.GetString("app.web") + "/reset-password?token=" + url.QueryEscape(in.Token)
	data["expires_minutes"] = int(s.cfg.GetMinute("modules.identity.reset_ttl_minutes").Minutes())

	s.deliverEmail(ctx, emailDeliveryInput{
		UserID:       in.UserID,
		Email:        in.Email,
		TriggerKey:   entity.TriggerKeyPasswordReset,
		TemplateData: data,
	})

	return nil
}
