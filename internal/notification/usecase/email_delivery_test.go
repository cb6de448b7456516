package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/serikimmo/serik/internal/notification/entity"
)

const otpBody = `<p>Hi {{.full_name}},</p><p>Your code is {{.code}}. It expires in {{.expires_minutes}} minutes.</p><p>{{.company_name}}</p>`

const resetBody = `<p>Hi {{.full_name}},</p><p><a href="{{.reset_url}}">Reset your password</a> within {{.expires_minutes}} minutes.</p>`

func TestConsumeUserOTPRequested(t *testing.T) {
	validInput := ConsumeUserOTPRequestedInput{
		UserID:   11,
		Email:    "aigerim@example.kz",
		FullName: "Aigerim Tulegenova",
		Code:     "135790",
	}

	t.Run("RendersAndSends", func(t *testing.T) {
		f := newFixture(t)
		f.addTemplate(entity.TriggerKeyOTPRequested, "Your {{.company_name}} sign-in code", otpBody)

		if err := f.uc.ConsumeUserOTPRequested(context.Background(), validInput); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(f.mail.sent) != 1 {
			t.Fatalf("expected 1 mail sent, got %d", len(f.mail.sent))
		}
		msg := f.mail.sent[0]
		if msg.To[0] != "aigerim@example.kz" {
			t.Fatalf("unexpected recipient %q", msg.To[0])
		}
		if msg.Subject != "Your Serik sign-in code" {
			t.Fatalf("unexpected subject %q", msg.Subject)
		}
		if !strings.Contains(msg.HTMLBody, "135790") {
			t.Fatalf("body is missing the code: %q", msg.HTMLBody)
		}
		if !strings.Contains(msg.HTMLBody, "Aigerim Tulegenova") {
			t.Fatalf("body is missing the name: %q", msg.HTMLBody)
		}
		if !strings.Contains(msg.HTMLBody, "expires in 10 minutes") {
			t.Fatalf("body is missing the expiry: %q", msg.HTMLBody)
		}
	})

	t.Run("LogsQueuedThenSent", func(t *testing.T) {
		f := newFixture(t)
		f.addTemplate(entity.TriggerKeyOTPRequested, "Code", otpBody)

		if err := f.uc.ConsumeUserOTPRequested(context.Background(), validInput); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(f.repo.created) != 1 {
			t.Fatalf("expected 1 delivery log, got %d", len(f.repo.created))
		}
		created := f.repo.created[0]
		if created.Status != entity.DeliveryStatusQueued {
			t.Fatalf("expected QUEUED before send, got %s", created.Status)
		}
		if created.UserID != 11 || created.Recipient != "aigerim@example.kz" {
			t.Fatalf("unexpected log row: %+v", created)
		}
		if created.TriggerKey != entity.TriggerKeyOTPRequested || created.Channel != entity.ChannelEmail {
			t.Fatalf("unexpected log trigger/channel: %+v", created)
		}

		if len(f.repo.updated) != 1 {
			t.Fatalf("expected 1 log update, got %d", len(f.repo.updated))
		}
		updated := f.repo.updated[0]
		if updated.ID != created.ID {
			t.Fatalf("update targets log %d, created %d", updated.ID, created.ID)
		}
		if updated.Status != entity.DeliveryStatusSent {
			t.Fatalf("expected SENT, got %s", updated.Status)
		}
		if updated.NextRetryAt != nil {
			t.Fatalf("a sent log has no retry time, got %v", updated.NextRetryAt)
		}
	})

	t.Run("SendFailureMarksLogFailed", func(t *testing.T) {
		f := newFixture(t)
		f.addTemplate(entity.TriggerKeyOTPRequested, "Code", otpBody)
		f.mail.failWith = errors.New("smtp: connection refused")

		if err := f.uc.ConsumeUserOTPRequested(context.Background(), validInput); err != nil {
			t.Fatalf("delivery failures stay server-side, got %v", err)
		}

		if len(f.repo.updated) != 1 {
			t.Fatalf("expected 1 log update, got %d", len(f.repo.updated))
		}
		updated := f.repo.updated[0]
		if updated.Status != entity.DeliveryStatusFailed {
			t.Fatalf("expected FAILED, got %s", updated.Status)
		}
		if got := updated.ProviderResponse["error"]; got != "smtp: connection refused" {
			t.Fatalf("expected provider error recorded, got %v", got)
		}
		if updated.NextRetryAt == nil {
			t.Fatal("expected a retry time on a failed log")
		}
		if want := testNow.Add(15 * time.Minute); !updated.NextRetryAt.Equal(want) {
			t.Fatalf("expected retry at %v, got %v", want, *updated.NextRetryAt)
		}
	})

	t.Run("MissingTemplateSkipsDelivery", func(t *testing.T) {
		f := newFixture(t)

		if err := f.uc.ConsumeUserOTPRequested(context.Background(), validInput); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(f.repo.created) != 0 || len(f.mail.sent) != 0 {
			t.Fatal("expected nothing delivered without a template")
		}
	})

	t.Run("MalformedEventIsDropped", func(t *testing.T) {
		f := newFixture(t)
		f.addTemplate(entity.TriggerKeyOTPRequested, "Code", otpBody)

		in := validInput
		in.Code = "13A790"
		if err := f.uc.ConsumeUserOTPRequested(context.Background(), in); err != nil {
			t.Fatalf("a malformed event is dropped, not retried, got %v", err)
		}
		if len(f.repo.created) != 0 || len(f.mail.sent) != 0 {
			t.Fatal("expected nothing delivered for a malformed event")
		}
	})
}

func TestConsumeUserPasswordResetRequested(t *testing.T) {
	validInput := ConsumeUserPasswordResetRequestedInput{
		UserID:   11,
		Email:    "aigerim@example.kz",
		FullName: "Aigerim Tulegenova",
		Token:    "24681357",
	}

	t.Run("RendersResetLink", func(t *testing.T) {
		f := newFixture(t)
		f.addTemplate(entity.TriggerKeyPasswordReset, "Reset your {{.company_name}} password", resetBody)

		if err := f.uc.ConsumeUserPasswordResetRequested(context.Background(), validInput); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(f.mail.sent) != 1 {
			t.Fatalf("expected 1 mail sent, got %d", len(f.mail.sent))
		}
		msg := f.mail.sent[0]
		if !strings.Contains(msg.HTMLBody, "https://serik.test/reset-password?token=24681357") {
			t.Fatalf("body is missing the reset link: %q", msg.HTMLBody)
		}
		if !strings.Contains(msg.HTMLBody, "within 30 minutes") {
			t.Fatalf("body is missing the expiry: %q", msg.HTMLBody)
		}
		if len(f.repo.created) != 1 || f.repo.created[0].TriggerKey != entity.TriggerKeyPasswordReset {
			t.Fatalf("expected a password reset delivery log, got %+v", f.repo.created)
		}
	})

	t.Run("MalformedEventIsDropped", func(t *testing.T) {
		f := newFixture(t)
		f.addTemplate(entity.TriggerKeyPasswordReset, "Reset", resetBody)

		in := validInput
		in.Token = "short"
		if err := f.uc.ConsumeUserPasswordResetRequested(context.Background(), in); err != nil {
			t.Fatalf("a malformed event is dropped, not retried, got %v", err)
		}
		if len(f.mail.sent) != 0 {
			t.Fatal("expected nothing delivered for a malformed event")
		}
	})
}
