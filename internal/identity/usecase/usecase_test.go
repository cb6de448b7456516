package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/serikimmo/serik/internal/identity/entity"
	"github.com/serikimmo/serik/internal/pkg/clock"
	"github.com/serikimmo/serik/internal/pkg/config"
	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/hash"
	"github.com/serikimmo/serik/internal/pkg/idempotency"
	"github.com/serikimmo/serik/internal/pkg/instrument"
	"github.com/serikimmo/serik/internal/pkg/jwt"
	"github.com/serikimmo/serik/internal/pkg/secret"
	"github.com/serikimmo/serik/internal/pkg/validator"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const testConfigYAML = `
modules:
  identity:
    otp_ttl_minutes: 10
    otp_lock_seconds: 30
    reset_ttl_minutes: 30
    session_ttl_days: 30
`

// fakeRepo is an in-memory repoDB. Tests preload users and secrets, then
// assert on the mutations the use case performed.
type fakeRepo struct {
	usersByEmail map[string]*entity.User
	usersByID    map[int64]*entity.User
	secrets      map[string]*entity.UserSecret // keyed by email
	secretsByTok map[string]*entity.UserSecret // keyed by stored hash

	issued        []issuedSecret
	cleared       []int64
	bumped        []int64
	verifiedUsers []int64
	resetUsers    []int64
	sessions      []entity.Session
	revokedTokens []string

	failWith error
}

type issuedSecret struct {
	userID    int64
	purpose   secret.Purpose
	hash      string
	expiresAt time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		usersByEmail: map[string]*entity.User{},
		usersByID:    map[int64]*entity.User{},
		secrets:      map[string]*entity.UserSecret{},
		secretsByTok: map[string]*entity.UserSecret{},
	}
}

func (f *fakeRepo) addUser(u entity.User) {
	cp := u
	f.usersByEmail[u.Email] = &cp
	f.usersByID[u.ID] = &cp
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.usersByEmail[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetUserByID(_ context.Context, id int64) (*entity.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.usersByID[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) CreateUser(_ context.Context, in entity.NewUser) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.usersByEmail[in.Email]; ok {
		return goerror.ErrConflict
	}
	f.addUser(entity.User{
		ID:        in.ID,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Password:  in.Password,
		Role:      in.Role,
	})
	return nil
}

func (f *fakeRepo) UpsertGoogleUser(_ context.Context, in entity.GoogleUser) (*entity.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if u, ok := f.usersByEmail[in.Email]; ok {
		u.EmailVerified = true
		return u, nil
	}
	f.addUser(entity.User{
		ID:            in.ID,
		Email:         in.Email,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		AvatarURL:     in.AvatarURL,
		Role:          entity.RoleUser,
		EmailVerified: true,
	})
	return f.usersByEmail[in.Email], nil
}

func (f *fakeRepo) IssueSecret(_ context.Context, userID int64, p secret.Purpose, h string, expiresAt time.Time) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.usersByID[userID]; !ok {
		return goerror.ErrNotFound
	}
	f.issued = append(f.issued, issuedSecret{userID: userID, purpose: p, hash: h, expiresAt: expiresAt})
	return nil
}

func (f *fakeRepo) LoadSecret(_ context.Context, email string, _ secret.Purpose) (*entity.UserSecret, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	us, ok := f.secrets[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return us, nil
}

func (f *fakeRepo) LoadSecretByHash(_ context.Context, tokenHash string, _ secret.Purpose) (*entity.UserSecret, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	us, ok := f.secretsByTok[tokenHash]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return us, nil
}

func (f *fakeRepo) ClearSecret(_ context.Context, userID int64, _ secret.Purpose) error {
	f.cleared = append(f.cleared, userID)
	return nil
}

func (f *fakeRepo) BumpSecretAttempts(_ context.Context, userID int64, _ secret.Purpose) error {
	f.bumped = append(f.bumped, userID)
	return nil
}

func (f *fakeRepo) MarkEmailVerified(_ context.Context, userID int64) error {
	f.verifiedUsers = append(f.verifiedUsers, userID)
	if u, ok := f.usersByID[userID]; ok {
		u.EmailVerified = true
	}
	return nil
}

func (f *fakeRepo) ResetPassword(_ context.Context, userID int64, passwordHash string) error {
	f.resetUsers = append(f.resetUsers, userID)
	if u, ok := f.usersByID[userID]; ok {
		u.Password = passwordHash
	}
	return nil
}

func (f *fakeRepo) CreateSession(_ context.Context, in entity.Session) error {
	f.sessions = append(f.sessions, in)
	return nil
}

func (f *fakeRepo) RevokeSession(_ context.Context, tokenHash string) error {
	f.revokedTokens = append(f.revokedTokens, tokenHash)
	return nil
}

type fakeMessenger struct {
	otpEvents   []UserOTPRequestedEvent
	resetEvents []UserPasswordResetRequestedEvent
	failWith    error
}

func (f *fakeMessenger) PublishUserOTPRequested(_ context.Context, msg UserOTPRequestedEvent) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.otpEvents = append(f.otpEvents, msg)
	return nil
}

func (f *fakeMessenger) PublishUserPasswordResetRequested(_ context.Context, msg UserPasswordResetRequestedEvent) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.resetEvents = append(f.resetEvents, msg)
	return nil
}

type fakeGoogle struct {
	profile *GoogleProfile
	err     error
}

func (f *fakeGoogle) AuthURL(state string) string {
	return "https://accounts.google.test/auth?state=" + state
}

func (f *fakeGoogle) Exchange(context.Context, string) (*GoogleProfile, error) {
	return f.profile, f.err
}

// fakeIdemp runs the guarded function inline unless primed with an error.
type fakeIdemp struct {
	keys []string
	err  error
}

func (f *fakeIdemp) Acquire(context.Context, string, time.Duration) (idempotency.State, error) {
	return idempotency.StateNone, nil
}

func (f *fakeIdemp) MarkCompleted(context.Context, string, time.Duration) error { return nil }

func (f *fakeIdemp) MarkFailed(context.Context, string, time.Duration) error { return nil }

func (f *fakeIdemp) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

type fakeNumberID struct{ next int64 }

func (f *fakeNumberID) Generate() int64 {
	f.next++
	return f.next
}

type fakeStringID struct{ value string }

func (f *fakeStringID) Generate() string { return f.value }

type fakeSecretGen struct {
	code string
	err  error
}

func (f *fakeSecretGen) Generate(int) (string, error) { return f.code, f.err }

type fakeJWT struct{ err error }

func (f *fakeJWT) Generate(_ int64, email, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "jwt-for-" + email, nil
}

func (f *fakeJWT) Verify(string) (jwt.Claims, error) { return jwt.Claims{}, nil }

type fixture struct {
	uc        *Usecase
	repo      *fakeRepo
	messenger *fakeMessenger
	google    *fakeGoogle
	idemp     *fakeIdemp
	hmac      hash.Hash
	password  hash.Hash
}

const sessionTokenValue = "af2c1de96b7804531f2c1de96b7804531f2c1de96b7804531f2c1de96b780453"

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
		repo:      newFakeRepo(),
		messenger: &fakeMessenger{},
		google:    &fakeGoogle{},
		idemp:     &fakeIdemp{},
		hmac:      hash.NewHMACSHA256("test-hmac-secret"),
		password:  hash.NewBcrypt(4, ""),
	}

	f.uc = New(Dependency{
		RepoDB:        f.repo,
		RepoMessaging: f.messenger,
		Google:        f.google,
		Idempotency:   f.idemp,
		Validator:     v,
		Config:        cfg,
		HMAC:          f.hmac,
		Password:      f.password,
		SecretGen:     &fakeSecretGen{code: "135790"},
		UID:           &fakeNumberID{},
		OID:           &fakeStringID{value: sessionTokenValue},
		Clock:         clock.Static{T: testNow},
		JWT:           &fakeJWT{},
		Instrument:    instrument.NewNoop(),
	})

	return f
}

func (f *fixture) digest(t *testing.T, value string) string {
	t.Helper()

	h, err := f.hmac.Hash(value)
	if err != nil {
		t.Fatalf("failed to hash %q: %v", value, err)
	}
	return string(h)
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
