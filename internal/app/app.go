package app

import (
	"context"
	"net/http"

	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/serikimmo/serik/internal/pkg/clock"
	"github.com/serikimmo/serik/internal/pkg/config"
	"github.com/serikimmo/serik/internal/pkg/goroutine"
	"github.com/serikimmo/serik/internal/pkg/hash"
	"github.com/serikimmo/serik/internal/pkg/idempotency"
	"github.com/serikimmo/serik/internal/pkg/instrument"
	"github.com/serikimmo/serik/internal/pkg/jwt"
	"github.com/serikimmo/serik/internal/pkg/mail"
	"github.com/serikimmo/serik/internal/pkg/messaging"
	"github.com/serikimmo/serik/internal/pkg/pgxcasbin"
	"github.com/serikimmo/serik/internal/pkg/rbac"
	"github.com/serikimmo/serik/internal/pkg/router"
	"github.com/serikimmo/serik/internal/pkg/secret"
	"github.com/serikimmo/serik/internal/pkg/storage"
	"github.com/serikimmo/serik/internal/pkg/uid"
	"github.com/serikimmo/serik/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	password  hash.Hash
	uid       uid.NumberID
	oid       uid.StringID
	uuid      uid.StringID
	secretGen secret.Generator
	jwt       jwt.JWT

	// resources
	dbConn        *pgxpool.Pool
	cacheConn     *redis.Client
	idemp         idempotency.Idempotency
	mail          mail.Mail
	messaging     messaging.Messaging
	storage       storage.Storage
	casbin        *casbin.Enforcer
	casbinWatcher *pgxcasbin.Watcher
	gate          rbac.Authorizer

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initStorage()
	app.initMessaging()
	app.initCasbin()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
