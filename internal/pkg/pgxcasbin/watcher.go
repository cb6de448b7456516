package pgxcasbin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

// UpdateType names the policy change carried by a watcher event.
type UpdateType string

const (
	Update                        UpdateType = "Update"
	UpdateForAddPolicy            UpdateType = "UpdateForAddPolicy"
	UpdateForRemovePolicy         UpdateType = "UpdateForRemovePolicy"
	UpdateForRemoveFilteredPolicy UpdateType = "UpdateForRemoveFilteredPolicy"
	UpdateForSavePolicy           UpdateType = "UpdateForSavePolicy"
	UpdateForAddPolicies          UpdateType = "UpdateForAddPolicies"
	UpdateForRemovePolicies       UpdateType = "UpdateForRemovePolicies"
	UpdateForUpdatePolicy         UpdateType = "UpdateForUpdatePolicy"
	UpdateForUpdatePolicies       UpdateType = "UpdateForUpdatePolicies"
)

const defaultChannel = "casbin_policy_watcher"

// policyEvent is the JSON payload sent over pg_notify.
type policyEvent struct {
	Method      UpdateType `json:"method"`
	ID          string     `json:"id"`
	Sec         string     `json:"sec,omitempty"`
	Ptype       string     `json:"ptype,omitempty"`
	OldRules    [][]string `json:"old_rules,omitempty"`
	NewRules    [][]string `json:"new_rules,omitempty"`
	FieldIndex  int        `json:"field_index,omitempty"`
	FieldValues []string   `json:"field_values,omitempty"`
}

// Watcher relays policy changes between replicas over Postgres
// LISTEN/NOTIFY. Each replica publishes its own writes and applies the
// events it receives through the registered callback.
type Watcher struct {
	mu       sync.RWMutex
	opt      OptionWatcher
	pool     *pgxpool.Pool
	callback func(string)
	cancel   func()
}

// OptionWatcher configures a Watcher.
type OptionWatcher struct {
	// Channel is the Postgres notification channel. Defaults to
	// casbin_policy_watcher.
	Channel string
	// Verbose logs every sent and received event.
	Verbose bool
	// LocalID identifies this replica. Defaults to a random UUID.
	LocalID string
	// NotifySelf also delivers events this replica published itself.
	NotifySelf bool
}

// NewWatcherWithPool starts a watcher on an existing pgx pool. The listener
// goroutine reconnects with backoff until the contexts is canceled.
func NewWatcherWithPool(ctx context.Context, pool *pgxpool.Pool, opt OptionWatcher) (*Watcher, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, errors.Join(ErrPingPool, err)
	}

	if opt.Channel == "" {
		opt.Channel = defaultChannel
	}
	if opt.LocalID == "" {
		opt.LocalID = uuid.New().String()
	}

	listenerCtx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		opt:    opt,
		pool:   pool,
		cancel: cancel,
	}

	go w.run(listenerCtx)

	return w, nil
}

func (w *Watcher) run(ctx context.Context) {
	b := retry.WithCappedDuration(5*time.Second, retry.NewFibonacci(200*time.Millisecond))

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		err := w.listen(ctx)
		if errors.Is(err, context.Canceled) {
			slog.Info("casbin watcher closed")
			return nil
		}
		if err != nil {
			slog.Error("casbin watcher listen failed", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.Error("casbin watcher stopped with error", "error", err)
	}

	slog.Info("casbin watcher exited")
}

// DefaultCallback applies a received event to the enforcer. Self* calls keep
// the event from echoing back through the watcher.
func DefaultCallback(e casbin.IEnforcer) func(string) {
	return func(s string) {
		var ev policyEvent
		if err := json.Unmarshal([]byte(s), &ev); err != nil {
			slog.Error("casbin watcher bad payload", "payload", s, "error", err)
			return
		}

		var applied bool
		var err error
		switch ev.Method {
		case Update, UpdateForSavePolicy:
			err = e.LoadPolicy()
			applied = true
		case UpdateForAddPolicy:
			if len(ev.NewRules) == 0 {
				slog.Warn("casbin watcher add policy event without rules")
				return
			}
			applied, err = e.SelfAddPolicy(ev.Sec, ev.Ptype, ev.NewRules[0])
		case UpdateForAddPolicies:
			applied, err = e.SelfAddPolicies(ev.Sec, ev.Ptype, ev.NewRules)
		case UpdateForRemovePolicy:
			if len(ev.NewRules) == 0 {
				slog.Warn("casbin watcher remove policy event without rules")
				return
			}
			applied, err = e.SelfRemovePolicy(ev.Sec, ev.Ptype, ev.NewRules[0])
		case UpdateForRemoveFilteredPolicy:
			applied, err = e.SelfRemoveFilteredPolicy(ev.Sec, ev.Ptype, ev.FieldIndex, ev.FieldValues...)
		case UpdateForRemovePolicies:
			applied, err = e.SelfRemovePolicies(ev.Sec, ev.Ptype, ev.NewRules)
		case UpdateForUpdatePolicy:
			if len(ev.OldRules) == 0 || len(ev.NewRules) == 0 {
				slog.Warn("casbin watcher update policy event without rules")
				return
			}
			applied, err = e.SelfUpdatePolicy(ev.Sec, ev.Ptype, ev.OldRules[0], ev.NewRules[0])
		case UpdateForUpdatePolicies:
			applied, err = e.SelfUpdatePolicies(ev.Sec, ev.Ptype, ev.OldRules, ev.NewRules)
		default:
			err = fmt.Errorf("%w: %s", ErrUnknownUpdateType, ev.Method)
		}
		if err != nil {
			slog.Error("casbin watcher apply policy failed", "error", err)
		}
		if !applied {
			slog.Warn("casbin watcher event was not applied")
		}
	}
}

// SetUpdateCallback registers the handler invoked for received events.
func (w *Watcher) SetUpdateCallback(callback func(string)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callback = callback
	return nil
}

// Update broadcasts a full policy reload.
func (w *Watcher) Update() error {
	return w.publish(&policyEvent{
		Method: Update,
		ID:     w.opt.LocalID,
	})
}

// Close stops the listener goroutine.
func (w *Watcher) Close() {
	w.cancel()
}

func (w *Watcher) UpdateForAddPolicy(sec, ptype string, params ...string) error {
	return w.publish(&policyEvent{
		Method:   UpdateForAddPolicy,
		ID:       w.opt.LocalID,
		Sec:      sec,
		Ptype:    ptype,
		NewRules: [][]string{params},
	})
}

func (w *Watcher) UpdateForRemovePolicy(sec, ptype string, params ...string) error {
	return w.publish(&policyEvent{
		Method:   UpdateForRemovePolicy,
		ID:       w.opt.LocalID,
		Sec:      sec,
		Ptype:    ptype,
		NewRules: [][]string{params},
	})
}

func (w *Watcher) UpdateForRemoveFilteredPolicy(sec, ptype string, fieldIndex int, fieldValues ...string) error {
	return w.publish(&policyEvent{
		Method:      UpdateForRemoveFilteredPolicy,
		ID:          w.opt.LocalID,
		Sec:         sec,
		Ptype:       ptype,
		FieldIndex:  fieldIndex,
		FieldValues: fieldValues,
	})
}

func (w *Watcher) UpdateForSavePolicy(model model.Model) error {
	return w.publish(&policyEvent{
		Method: UpdateForSavePolicy,
		ID:     w.opt.LocalID,
	})
}

func (w *Watcher) UpdateForAddPolicies(sec string, ptype string, rules ...[]string) error {
	return w.publish(&policyEvent{
		Method:   UpdateForAddPolicies,
		ID:       w.opt.LocalID,
		Sec:      sec,
		Ptype:    ptype,
		NewRules: rules,
	})
}

func (w *Watcher) UpdateForRemovePolicies(sec string, ptype string, rules ...[]string) error {
	return w.publish(&policyEvent{
		Method:   UpdateForRemovePolicies,
		ID:       w.opt.LocalID,
		Sec:      sec,
		Ptype:    ptype,
		NewRules: rules,
	})
}

func (w *Watcher) UpdateForUpdatePolicy(sec string, ptype string, oldRule, newRule []string) error {
	return w.publish(&policyEvent{
		Method:   UpdateForUpdatePolicy,
		ID:       w.opt.LocalID,
		Sec:      sec,
		Ptype:    ptype,
		OldRules: [][]string{oldRule},
		NewRules: [][]string{newRule},
	})
}

func (w *Watcher) UpdateForUpdatePolicies(sec string, ptype string, oldRules, newRules [][]string) error {
	return w.publish(&policyEvent{
		Method:   UpdateForUpdatePolicies,
		ID:       w.opt.LocalID,
		Sec:      sec,
		Ptype:    ptype,
		OldRules: oldRules,
		NewRules: newRules,
	})
}

func (w *Watcher) publish(ev *policyEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%w: %+v", errors.Join(ErrMarshalMessage, err), ev)
	}

	cmd := fmt.Sprintf("select pg_notify('%s', $1)", w.opt.Channel)
	if _, err := w.pool.Exec(context.Background(), cmd, string(b)); err != nil {
		return fmt.Errorf("%w: %s", errors.Join(ErrNotifyMessage, err), string(b))
	}

	if w.opt.Verbose {
		slog.Info("casbin watcher sent event", "channel", w.opt.Channel, "payload", string(b))
	}
	return nil
}

func (w *Watcher) listen(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return errors.Join(ErrAcquireConn, err)
	}
	defer conn.Release()

	if _, err = conn.Exec(ctx, fmt.Sprintf("listen %s", w.opt.Channel)); err != nil {
		return fmt.Errorf("%w: %s", errors.Join(ErrListenChannel, err), w.opt.Channel)
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if errors.Is(err, context.Canceled) {
			return err
		}
		if err != nil {
			return errors.Join(ErrWaitNotification, err)
		}

		if w.opt.Verbose {
			slog.Info("casbin watcher received event", "channel", w.opt.Channel, "local_id", w.opt.LocalID, "payload", notification.Payload)
		}

		var ev policyEvent
		if err := json.Unmarshal([]byte(notification.Payload), &ev); err != nil {
			slog.Error("casbin watcher bad notification", "payload", notification.Payload, "error", err)
			continue
		}

		if ev.ID == w.opt.LocalID && !w.opt.NotifySelf {
			continue
		}

		w.mu.RLock()
		cb := w.callback
		w.mu.RUnlock()
		if cb == nil {
			slog.Warn("casbin watcher has no callback, skipping event")
			continue
		}
		cb(notification.Payload)
	}
}
