package identity

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serikimmo/serik/internal/identity/inbound"
	"github.com/serikimmo/serik/internal/identity/outbound/db"
	"github.com/serikimmo/serik/internal/identity/outbound/google"
	"github.com/serikimmo/serik/internal/identity/outbound/mq"
	"github.com/serikimmo/serik/internal/identity/usecase"
	"github.com/serikimmo/serik/internal/pkg/clock"
	"github.com/serikimmo/serik/internal/pkg/config"
	"github.com/serikimmo/serik/internal/pkg/hash"
	"github.com/serikimmo/serik/internal/pkg/idempotency"
	"github.com/serikimmo/serik/internal/pkg/instrument"
	"github.com/serikimmo/serik/internal/pkg/jwt"
	"github.com/serikimmo/serik/internal/pkg/messaging"
	"github.com/serikimmo/serik/internal/pkg/router"
	"github.com/serikimmo/serik/internal/pkg/secret"
	"github.com/serikimmo/serik/internal/pkg/uid"
	"github.com/serikimmo/serik/internal/pkg/validator"
)

type Dependency struct {
	DBConn      *pgxpool.Pool               `validate:"required"`
	Router      *router.Router              `validate:"required"`
	Idempotency idempotency.Idempotency     `validate:"required"`
	Messaging   messaging.Messaging         `validate:"required"`
	Config      config.Config               `validate:"required"`
	Instrument  instrument.Instrumentation  `validate:"required"`
	UID         uid.NumberID                `validate:"required"`
	OID         uid.StringID                `validate:"required"`
	HMAC        hash.Hash                   `validate:"required"`
	Password    hash.Hash                   `validate:"required"`
	SecretGen   secret.Generator            `validate:"required"`
	Clock       clock.Clocker               `validate:"required"`
	Validator   validator.Validator         `validate:"required"`
	JWT         jwt.JWT                     `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoDB := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)
	googleClient := google.NewClient(google.Config{
		ClientID:     dep.Config.GetString("modules.identity.google.client_id"),
		ClientSecret: dep.Config.GetString("modules.identity.google.client_secret"),
		RedirectURL:  dep.Config.GetString("modules.identity.google.redirect_url"),
	}, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        repoDB,
		RepoMessaging: repoMsg,
		Google:        googleClient,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		HMAC:          dep.HMAC,
		Password:      dep.Password,
		SecretGen:     dep.SecretGen,
		UID:           dep.UID,
		OID:           dep.OID,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
