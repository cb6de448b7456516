package usecase

import (
	"context"
	"testing"

	"github.com/serikimmo/serik/internal/notification/entity"
	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/jwt"
)

func asRole(userID int64, role string) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: userID, UserRole: role})
}

func TestTemplateUpsert(t *testing.T) {
	validInput := TemplateUpsertInput{
		TriggerKey: "user_otp_requested",
		Channel:    "EMAIL",
		Subject:    "Your {{.company_name}} sign-in code",
		Body:       otpBody,
	}

	t.Run("AdminSaves", func(t *testing.T) {
		f := newFixture(t)

		if err := f.uc.TemplateUpsert(asRole(1, "ADMIN"), validInput); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(f.repo.upserted) != 1 {
			t.Fatalf("expected 1 upsert, got %d", len(f.repo.upserted))
		}
		saved := f.repo.upserted[0]
		if saved.TriggerKey != entity.TriggerKeyOTPRequested || saved.Channel != entity.ChannelEmail {
			t.Fatalf("unexpected saved template: %+v", saved)
		}
		if saved.Body != otpBody {
			t.Fatalf("body was altered on save: %q", saved.Body)
		}
	})

	t.Run("PlainUserCannotSave", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.TemplateUpsert(asRole(2, "USER"), validInput)
		wantBusinessCode(t, err, goerror.CodeForbidden)
		if len(f.repo.upserted) != 0 {
			t.Fatal("expected no upsert")
		}
	})

	t.Run("AnonymousIsRejected", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.TemplateUpsert(context.Background(), validInput)
		wantBusinessCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("UnknownTriggerKey", func(t *testing.T) {
		f := newFixture(t)

		in := validInput
		in.TriggerKey = "user_birthday"
		err := f.uc.TemplateUpsert(asRole(1, "ADMIN"), in)
		wantBusinessCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("UnparseableBodyIsRejected", func(t *testing.T) {
		f := newFixture(t)

		in := validInput
		in.Body = `<p>Hi {{.full_name</p>`
		err := f.uc.TemplateUpsert(asRole(1, "ADMIN"), in)
		wantBusinessCode(t, err, goerror.CodeInvalidInput)
		if len(f.repo.upserted) != 0 {
			t.Fatal("a template that cannot render must not be saved")
		}
	})
}

func TestTemplateList(t *testing.T) {
	t.Run("AdminListsAll", func(t *testing.T) {
		f := newFixture(t)
		f.addTemplate(entity.TriggerKeyOTPRequested, "Code", otpBody)
		f.addTemplate(entity.TriggerKeyPasswordReset, "Reset", resetBody)

		templates, err := f.uc.TemplateList(asRole(1, "ADMIN"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(templates) != 2 {
			t.Fatalf("expected 2 templates, got %d", len(templates))
		}
	})

	t.Run("PlainUserCannotList", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.TemplateList(asRole(2, "USER"))
		wantBusinessCode(t, err, goerror.CodeForbidden)
	})
}
