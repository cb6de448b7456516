// Package pgxcasbin persists and synchronizes Casbin policies on Postgres
// through pgx. The Adapter stores rules in a table, the Watcher propagates
// policy changes across replicas over LISTEN/NOTIFY.
package pgxcasbin

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/persist"
	"github.com/samber/lo"
	"go.uber.org/atomic"
)

// Adapter reads and writes Casbin policy rules in Postgres.
type Adapter struct {
	rules    *ruleTable
	filtered *atomic.Bool
}

var (
	_ persist.Adapter                 = (*Adapter)(nil)
	_ persist.ContextAdapter          = (*Adapter)(nil)
	_ persist.FilteredAdapter         = (*Adapter)(nil)
	_ persist.ContextFilteredAdapter  = (*Adapter)(nil)
	_ persist.BatchAdapter            = (*Adapter)(nil)
	_ persist.ContextBatchAdapter     = (*Adapter)(nil)
	_ persist.UpdatableAdapter        = (*Adapter)(nil)
	_ persist.ContextUpdatableAdapter = (*Adapter)(nil)
)

// Option configures the Adapter.
type Option func(*Adapter)

// WithTableName stores rules in the named table instead of casbin_rule.
func WithTableName(name string) Option {
	return func(a *Adapter) {
		a.rules.setTable(name)
	}
}

// NewAdapter builds the adapter on an established pgx pool or connection.
func NewAdapter(ctx context.Context, db interface {
	driver.Pinger
	Commander
}, opts ...Option) (*Adapter, error) {
	if err := db.Ping(ctx); err != nil {
		return nil, err
	}

	a := &Adapter{
		rules:    newRuleTable(db),
		filtered: atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// LoadPolicyCtx loads every rule into the model.
func (a *Adapter) LoadPolicyCtx(ctx context.Context, model model.Model) error {
	a.filtered.Store(false)
	rows, err := a.rules.selectAll(ctx)
	if err != nil {
		return err
	}
	return applyRows(model, rows)
}

// SavePolicyCtx replaces the stored rules with the model's policy.
func (a *Adapter) SavePolicyCtx(ctx context.Context, model model.Model) error {
	return a.rules.replaceAll(ctx, modelRows(model))
}

func (a *Adapter) AddPolicyCtx(ctx context.Context, sec string, ptype string, rule []string) error {
	return a.rules.insertRule(ctx, ptype, rule...)
}

func (a *Adapter) RemovePolicyCtx(ctx context.Context, sec string, ptype string, rule []string) error {
	return a.rules.deleteRule(ctx, ptype, rule...)
}

func (a *Adapter) RemoveFilteredPolicyCtx(ctx context.Context, sec string, ptype string, fieldIndex int, fieldValues ...string) error {
	return a.rules.deleteBy(ctx, ptype, fieldIndex, fieldValues...)
}

func (a *Adapter) AddPoliciesCtx(ctx context.Context, sec string, ptype string, rules [][]string) error {
	return a.rules.insertBatch(ctx, ptype, rules)
}

func (a *Adapter) RemovePoliciesCtx(ctx context.Context, sec string, ptype string, rules [][]string) error {
	return a.rules.deleteBatch(ctx, ptype, rules)
}

func (a *Adapter) UpdatePolicyCtx(ctx context.Context, sec string, ptype string, oldRule, newRule []string) error {
	return a.rules.updateRule(ctx, ptype, oldRule, newRule)
}

func (a *Adapter) UpdatePoliciesCtx(ctx context.Context, sec string, ptype string, oldRules, newRules [][]string) error {
	return a.rules.updateBatch(ctx, ptype, oldRules, newRules)
}

// UpdateFilteredPoliciesCtx swaps the rules matching the filter for newRules
// and returns the rules that were replaced.
func (a *Adapter) UpdateFilteredPoliciesCtx(ctx context.Context, sec string, ptype string, newRules [][]string, fieldIndex int, fieldValues ...string) ([][]string, error) {
	oldRows, err := a.rules.selectBy(ctx, ptype, fieldIndex, fieldValues...)
	if err != nil {
		return nil, err
	}
	if err := a.rules.deleteBy(ctx, ptype, fieldIndex, fieldValues...); err != nil {
		return nil, err
	}
	if err := a.rules.insertBatch(ctx, ptype, newRules); err != nil {
		return nil, err
	}

	oldRules := make([][]string, 0, len(oldRows))
	for _, row := range oldRows {
		if len(row) == 0 {
			continue
		}
		oldRules = append(oldRules, row[1:])
	}
	return oldRules, nil
}

// LoadFilteredPolicyCtx loads only the rules matching the filter. The filter
// is a map from ptype to OR-ed value tuples, empty values acting as
// wildcards. A nil filter falls back to a full load.
func (a *Adapter) LoadFilteredPolicyCtx(ctx context.Context, model model.Model, filter interface{}) error {
	if lo.IsNil(filter) {
		return a.LoadPolicyCtx(ctx, model)
	}
	a.filtered.Store(true)
	ft, ok := filter.(map[string][][]string)
	if !ok {
		return fmt.Errorf("%w: got %T, want map[string][][]string", ErrInvalidFilterType, filter)
	}
	var rows [][]string
	for ptype, tuples := range ft {
		for _, values := range tuples {
			matched, err := a.rules.selectBy(ctx, ptype, 0, values...)
			if err != nil {
				return err
			}
			rows = append(rows, matched...)
		}
	}
	rows = lo.UniqBy(rows, func(row []string) string {
		return strings.Join(row, ",")
	})
	if len(rows) == 0 {
		return nil
	}
	return applyRows(model, rows)
}

// IsFilteredCtx reports whether the last load was filtered.
func (a *Adapter) IsFilteredCtx(ctx context.Context) bool {
	return a.filtered.Load()
}

// The variants below satisfy the non-context persist interfaces and delegate
// to the context forms with a background context.

func (a *Adapter) LoadPolicy(model model.Model) error {
	return a.LoadPolicyCtx(context.Background(), model)
}

func (a *Adapter) SavePolicy(model model.Model) error {
	return a.SavePolicyCtx(context.Background(), model)
}

func (a *Adapter) AddPolicy(sec string, ptype string, rule []string) error {
	return a.AddPolicyCtx(context.Background(), sec, ptype, rule)
}

func (a *Adapter) RemovePolicy(sec string, ptype string, rule []string) error {
	return a.RemovePolicyCtx(context.Background(), sec, ptype, rule)
}

func (a *Adapter) RemoveFilteredPolicy(sec string, ptype string, fieldIndex int, fieldValues ...string) error {
	return a.RemoveFilteredPolicyCtx(context.Background(), sec, ptype, fieldIndex, fieldValues...)
}

func (a *Adapter) AddPolicies(sec string, ptype string, rules [][]string) error {
	return a.AddPoliciesCtx(context.Background(), sec, ptype, rules)
}

func (a *Adapter) RemovePolicies(sec string, ptype string, rules [][]string) error {
	return a.RemovePoliciesCtx(context.Background(), sec, ptype, rules)
}

func (a *Adapter) UpdatePolicy(sec string, ptype string, oldRule, newRule []string) error {
	return a.UpdatePolicyCtx(context.Background(), sec, ptype, oldRule, newRule)
}

func (a *Adapter) UpdatePolicies(sec string, ptype string, oldRules, newRules [][]string) error {
	return a.UpdatePoliciesCtx(context.Background(), sec, ptype, oldRules, newRules)
}

func (a *Adapter) UpdateFilteredPolicies(sec string, ptype string, newRules [][]string, fieldIndex int, fieldValues ...string) ([][]string, error) {
	return a.UpdateFilteredPoliciesCtx(context.Background(), sec, ptype, newRules, fieldIndex, fieldValues...)
}

func (a *Adapter) LoadFilteredPolicy(model model.Model, filter interface{}) error {
	return a.LoadFilteredPolicyCtx(context.Background(), model, filter)
}

func (a *Adapter) IsFiltered() bool {
	return a.IsFilteredCtx(context.Background())
}

// modelRows flattens the model's p and g sections into ptype-prefixed rows.
func modelRows(model model.Model) [][]string {
	var rows [][]string
	for _, sec := range []string{"p", "g"} {
		for ptype, ast := range model[sec] {
			for _, rule := range ast.Policy {
				rows = append(rows, withPtype(ptype, rule))
			}
		}
	}
	return rows
}

func applyRows(model model.Model, rows [][]string) error {
	for _, row := range rows {
		if err := persist.LoadPolicyArray(row, model); err != nil {
			return err
		}
	}
	return nil
}
