package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/serikimmo/serik/internal/notification/entity"
	"github.com/serikimmo/serik/internal/pkg/clock"
	"github.com/serikimmo/serik/internal/pkg/config"
	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/instrument"
	"github.com/serikimmo/serik/internal/pkg/jwt"
	"github.com/serikimmo/serik/internal/pkg/mail"
	"github.com/serikimmo/serik/internal/pkg/rbac"
	"github.com/serikimmo/serik/internal/pkg/validator"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const testConfigYAML = `
app:
  web: https://serik.test
modules:
  identity:
    otp_ttl_minutes: 10
    reset_ttl_minutes: 30
  notification:
    company_name: Serik
    support_email: support@serik.test
    retry_after_minutes: 15
`

type fakeNotifRepo struct {
	templates map[string]*entity.Template // keyed by trigger_key
	upserted  []entity.UpsertTemplate
	created   []entity.CreateDeliveryLog
	updated   []entity.UpdateDeliveryLog
	failWith  error
}

func newFakeNotifRepo() *fakeNotifRepo {
	return &fakeNotifRepo{templates: map[string]*entity.Template{}}
}

func (f *fakeNotifRepo) GetTemplateByTriggerChannel(_ context.Context, tk entity.TriggerKey, _ entity.Channel) (*entity.Template, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	tpl, ok := f.templates[tk.String()]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return tpl, nil
}

func (f *fakeNotifRepo) ListTemplates(context.Context) ([]entity.Template, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := []entity.Template{}
	for _, tpl := range f.templates {
		out = append(out, *tpl)
	}
	return out, nil
}

func (f *fakeNotifRepo) UpsertTemplate(_ context.Context, in entity.UpsertTemplate) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.upserted = append(f.upserted, in)
	return nil
}

func (f *fakeNotifRepo) CreateDeliveryLog(_ context.Context, in entity.CreateDeliveryLog) error {
	f.created = append(f.created, in)
	return nil
}

func (f *fakeNotifRepo) UpdateDeliveryLog(_ context.Context, in entity.UpdateDeliveryLog) error {
	f.updated = append(f.updated, in)
	return nil
}

type fakeMail struct {
	sent     []mail.Message
	failWith error
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.sent = append(f.sent, msg)
	return nil
}

// fakeGate allows ADMIN on templates and rejects everyone else.
type fakeGate struct{}

func (fakeGate) Authorize(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	if obj == rbac.ObjectTemplates && act == rbac.ActionWrite && clm.UserRole == "ADMIN" {
		return clm, nil
	}
	return nil, goerror.NewBusiness("You are not allowed to perform this action", goerror.CodeForbidden)
}

func (g fakeGate) AuthorizeOwner(ctx context.Context, _ int64, obj, act string) (*jwt.Claims, error) {
	return g.Authorize(ctx, obj, act)
}

type fakeNumberID struct{ next int64 }

func (f *fakeNumberID) Generate() int64 {
	f.next++
	return f.next
}

type fixture struct {
	uc   *Usecase
	repo *fakeNotifRepo
	mail *fakeMail
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}

	f := &fixture{
		repo: newFakeNotifRepo(),
		mail: &fakeMail{},
	}

	f.uc = NewNotification(Dependency{
		RepoDB:     f.repo,
		RepoMail:   f.mail,
		Gate:       fakeGate{},
		Config:     cfg,
		UID:        &fakeNumberID{},
		Clock:      clock.Static{T: testNow},
		Validator:  v,
		Instrument: instrument.NewNoop(),
	})

	return f
}

func (f *fixture) addTemplate(tk entity.TriggerKey, subject, body string) {
	f.repo.templates[tk.String()] = &entity.Template{
		ID:         100,
		TriggerKey: tk,
		Channel:    entity.ChannelEmail,
		Subject:    subject,
		Body:       body,
	}
}

func wantBusinessCode(t *testing.T, err error, code goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected goerror, got %v", err)
	}
	if gerr.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, gerr.Code(), err)
	}
}
