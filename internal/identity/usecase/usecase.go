package usecase

import (
	"context"
	"log/slog"
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
	"github.com/serikimmo/serik/internal/pkg/uid"
	"github.com/serikimmo/serik/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type UserOTPRequestedEvent struct {
	UserID   int64
	Email    string
	FullName string
	Code     string
}

type UserPasswordResetRequestedEvent struct {
	UserID   int64
	Email    string
	FullName string
	Token    string
}

// GoogleProfile is the subset of the Google userinfo payload we consume.
type GoogleProfile struct {
	Email         string
	FirstName     string
	LastName      string
	AvatarURL     string
	EmailVerified bool
}

type repoMessaging interface {
	PublishUserOTPRequested(ctx context.Context, msg UserOTPRequestedEvent) error
	PublishUserPasswordResetRequested(ctx context.Context, msg UserPasswordResetRequestedEvent) error
}

type repoDB interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	CreateUser(ctx context.Context, in entity.NewUser) error
	UpsertGoogleUser(ctx context.Context, in entity.GoogleUser) (*entity.User, error)

	IssueSecret(ctx context.Context, userID int64, p secret.Purpose, hash string, expiresAt time.Time) error
	LoadSecret(ctx context.Context, email string, p secret.Purpose) (*entity.UserSecret, error)
	LoadSecretByHash(ctx context.Context, tokenHash string, p secret.Purpose) (*entity.UserSecret, error)
	ClearSecret(ctx context.Context, userID int64, p secret.Purpose) error
	BumpSecretAttempts(ctx context.Context, userID int64, p secret.Purpose) error
	MarkEmailVerified(ctx context.Context, userID int64) error
	ResetPassword(ctx context.Context, userID int64, passwordHash string) error

	CreateSession(ctx context.Context, in entity.Session) error
	RevokeSession(ctx context.Context, tokenHash string) error
}

type googleOAuth interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*GoogleProfile, error)
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	google        googleOAuth
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	password      hash.Hash
	secretGen     secret.Generator
	uid           uid.NumberID
	oid           uid.StringID
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Google        googleOAuth
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	Password      hash.Hash
	SecretGen     secret.Generator
	UID           uid.NumberID
	OID           uid.StringID
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		google:        dep.Google,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		password:      dep.Password,
		secretGen:     dep.SecretGen,
		uid:           dep.UID,
		oid:           dep.OID,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

// issueSession persists a hashed opaque session token and returns the
// plaintext token alongside a signed access token.
func (s *Usecase) issueSession(ctx context.Context, user *entity.User) (accessToken, sessionToken string, err error) {
	sessionToken = s.oid.Generate()

	tokenHash, err := s.hmac.Hash(sessionToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash session token", "user_id", user.ID, "error", err)
		return "", "", goerror.NewServer(err)
	}

	if err := s.repoDB.CreateSession(ctx, entity.Session{
		ID:        s.uid.Generate(),
		UserID:    user.ID,
		Token:     string(tokenHash),
		ExpiresAt: s.clock.Now().Add(s.cfg.GetDay("modules.identity.session_ttl_days")),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create session", "user_id", user.ID, "error", err)
		return "", "", goerror.NewServer(err)
	}

	accessToken, err = s.jwt.Generate(user.ID, user.Email, user.Role.Ensure().String())
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access token", "user_id", user.ID, "error", err)
		return "", "", goerror.NewServer(err)
	}

	return accessToken, sessionToken, nil
}
