package rbac

import (
	"context"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serikimmo/serik/internal/pkg/pgxcasbin"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// defaultPolicies seed the rule table on first boot. Inserts conflict-skip,
// so reseeding an already provisioned database is a no-op.
var defaultPolicies = [][]string{
	{"USER", ObjectHouses, ActionEngage},
	{"CREATOR", ObjectHouses, ActionWrite},
	{"ADMIN", ObjectHouses, ActionManage},
	{"ADMIN", ObjectTemplates, ActionWrite},
	{"ADMIN", ObjectHouseImages, ActionSweep},
}

// defaultGroupings build the role ladder: SUPERADMIN > ADMIN > CREATOR > USER.
var defaultGroupings = [][]string{
	{"SUPERADMIN", "ADMIN"},
	{"ADMIN", "CREATOR"},
	{"CREATOR", "USER"},
}

// EnforcerOptions configures NewEnforcer.
type EnforcerOptions struct {
	// TableName is the Casbin rule table.
	TableName string
	// WatcherChannel is the Postgres NOTIFY channel for policy sync.
	WatcherChannel string
	// LocalID identifies this replica to the watcher.
	LocalID string
}

// NewEnforcer builds a Casbin enforcer on the pgx adapter, attaches the
// LISTEN/NOTIFY watcher, and seeds the default policies.
func NewEnforcer(ctx context.Context, pool *pgxpool.Pool, opts EnforcerOptions) (*casbin.Enforcer, *pgxcasbin.Watcher, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, nil, err
	}

	adapter, err := pgxcasbin.NewAdapter(ctx, pool, pgxcasbin.WithTableName(opts.TableName))
	if err != nil {
		return nil, nil, err
	}

	e, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, nil, err
	}

	watcher, err := pgxcasbin.NewWatcherWithPool(ctx, pool, pgxcasbin.OptionWatcher{
		NotifySelf: true,
		Channel:    opts.WatcherChannel,
		LocalID:    opts.LocalID,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := watcher.SetUpdateCallback(pgxcasbin.DefaultCallback(e)); err != nil {
		return nil, nil, err
	}

	if err := e.SetWatcher(watcher); err != nil {
		return nil, nil, err
	}

	e.EnableAutoSave(true)
	e.EnableAutoNotifyWatcher(true)

	if err := seed(e); err != nil {
		return nil, nil, err
	}

	return e, watcher, nil
}

func seed(e *casbin.Enforcer) error {
	for _, p := range defaultPolicies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}
	for _, g := range defaultGroupings {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return err
		}
	}
	return nil
}
