package pgxcasbin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/lo"
)

// ruleWidth is the number of v0..v5 value columns in the rule table.
const ruleWidth = 6

const defaultTableName = "casbin_rule"

// Commander is the pgx surface the rule table needs. Both *pgxpool.Pool and
// *pgx.Conn satisfy it.
type Commander interface {
	Begin(context.Context) (pgx.Tx, error)
	SendBatch(context.Context, *pgx.Batch) pgx.BatchResults
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ruleTable issues SQL against the Casbin rule table. Inserts conflict-skip
// on (ptype, v0..v5), so writing a rule that already exists is a no-op. The
// policy seeding at boot depends on that.
type ruleTable struct {
	db    Commander
	table string
}

func newRuleTable(db Commander) *ruleTable {
	return &ruleTable{db: db, table: defaultTableName}
}

func (t *ruleTable) setTable(name string) {
	t.table = lo.SnakeCase(name)
}

// ruleColumns renders "v0,v1,...,v5".
func ruleColumns() string {
	return strings.Join(lo.Times(ruleWidth, func(i int) string {
		return "v" + strconv.Itoa(i)
	}), ",")
}

// rulePlaceholders renders "$start,...,$start+5".
func rulePlaceholders(start int) string {
	return strings.Join(lo.Times(ruleWidth, func(i int) string {
		return "$" + strconv.Itoa(i+start)
	}), ",")
}

// ruleAssignments renders "v0 = $start" .. "v5 = $start+5" joined by sep.
func ruleAssignments(start int, sep string) string {
	return strings.Join(lo.Times(ruleWidth, func(i int) string {
		return "v" + strconv.Itoa(i) + " = $" + strconv.Itoa(i+start)
	}), sep)
}

func (t *ruleTable) insertSQL() string {
	return fmt.Sprintf("insert into %[1]s (ptype, %[2]s) values ($1, %[3]s) on conflict (ptype, %[2]s) do nothing",
		t.table, ruleColumns(), rulePlaceholders(2))
}

func (t *ruleTable) updateSQL() string {
	return fmt.Sprintf("update %s set %s where ptype = $1 and %s",
		t.table, ruleAssignments(2, ", "), ruleAssignments(2+ruleWidth, " and "))
}

func (t *ruleTable) deleteSQL() string {
	return fmt.Sprintf("delete from %s where ptype = $1 and %s",
		t.table, ruleAssignments(2, " and "))
}

func (t *ruleTable) insertRule(ctx context.Context, ptype string, rule ...string) error {
	padded, err := padRule(rule)
	if err != nil {
		return err
	}
	if _, err := t.db.Exec(ctx, t.insertSQL(), lo.ToAnySlice(withPtype(ptype, padded))...); err != nil {
		return errors.Join(ErrInsertRow, err)
	}
	return nil
}

func (t *ruleTable) selectAll(ctx context.Context) ([][]string, error) {
	return t.selectBy(ctx, "", 0)
}

// selectBy returns ptype-prefixed rows matching the given field values.
// Empty values are wildcards, matching the Casbin filter convention.
func (t *ruleTable) selectBy(ctx context.Context, ptype string, startIdx int, values ...string) ([][]string, error) {
	if len(values) > ruleWidth-startIdx {
		return nil, fmt.Errorf("%w: %d > %d", ErrArgsTooLong, len(values), ruleWidth-startIdx)
	}

	query := fmt.Sprintf("select ptype, %s from %s", ruleColumns(), t.table)
	conditions := make([]string, 0, 1+len(values))
	args := make([]any, 0, 1+len(values))
	if ptype != "" {
		conditions = append(conditions, "ptype = $1")
		args = append(args, ptype)
	}
	for i, v := range values {
		if v == "" {
			continue
		}
		conditions = append(conditions, "v"+strconv.Itoa(i+startIdx)+" = $"+strconv.Itoa(len(args)+1))
		args = append(args, v)
	}
	if len(conditions) > 0 {
		query += " where " + strings.Join(conditions, " and ")
	}

	rows, err := t.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(ErrSelectWhere, err)
	}
	defer rows.Close()

	var result [][]string
	for rows.Next() {
		cols := make([]sql.NullString, ruleWidth+1)
		scan := make([]any, len(cols))
		for i := range cols {
			scan[i] = &cols[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, errors.Join(ErrScanRow, err)
		}
		row := make([]string, len(cols))
		for i := range cols {
			row[i] = cols[i].String
		}
		result = append(result, trimEmptyTail(row))
	}
	return result, nil
}

func (t *ruleTable) updateRule(ctx context.Context, ptype string, old, updated []string) error {
	paddedOld, err := padRule(old)
	if err != nil {
		return err
	}
	paddedNew, err := padRule(updated)
	if err != nil {
		return err
	}
	args := withPtype(ptype, append(paddedNew, paddedOld...))
	if _, err := t.db.Exec(ctx, t.updateSQL(), lo.ToAnySlice(args)...); err != nil {
		return errors.Join(ErrUpdateRow, err)
	}
	return nil
}

func (t *ruleTable) deleteRule(ctx context.Context, ptype string, rule ...string) error {
	padded, err := padRule(rule)
	if err != nil {
		return err
	}
	if _, err := t.db.Exec(ctx, t.deleteSQL(), lo.ToAnySlice(withPtype(ptype, padded))...); err != nil {
		return errors.Join(ErrDeleteRow, err)
	}
	return nil
}

func (t *ruleTable) deleteBy(ctx context.Context, ptype string, startIdx int, values ...string) error {
	if ptype == "" {
		return ErrEmptyPtype
	}
	if len(values) > ruleWidth-startIdx {
		return fmt.Errorf("%w: %d > %d", ErrArgsTooLong, len(values), ruleWidth-startIdx)
	}

	query := fmt.Sprintf("delete from %s where ptype = $1", t.table)
	args := []any{ptype}
	conditions := make([]string, 0, len(values))
	for i, v := range values {
		if v == "" {
			continue
		}
		conditions = append(conditions, "v"+strconv.Itoa(i+startIdx)+" = $"+strconv.Itoa(len(args)+1))
		args = append(args, v)
	}
	if len(conditions) > 0 {
		query += " and " + strings.Join(conditions, " and ")
	}

	if _, err := t.db.Exec(ctx, query, args...); err != nil {
		return errors.Join(ErrDeleteWhere, err)
	}
	return nil
}

// replaceAll truncates the table and writes the given ptype-prefixed rows in
// one transaction.
func (t *ruleTable) replaceAll(ctx context.Context, rows [][]string) (err error) {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return errors.Join(ErrBeginTx, err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, ErrRollbackTx, rbErr)
			}
		}
	}()

	if _, err = tx.Exec(ctx, fmt.Sprintf("truncate table %s restart identity", t.table)); err != nil {
		return errors.Join(ErrDeleteAll, err)
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		if len(row) == 0 {
			return ErrRuleEmpty
		}
		padded, padErr := padRule(row[1:])
		if padErr != nil {
			return padErr
		}
		batch.Queue(t.insertSQL(), lo.ToAnySlice(withPtype(row[0], padded))...)
	}
	if batch.Len() > 0 {
		if err = runBatch(tx.SendBatch(ctx, batch), batch.Len()); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return errors.Join(ErrCommitTx, err)
	}
	return nil
}

func (t *ruleTable) insertBatch(ctx context.Context, ptype string, rules [][]string) error {
	if len(rules) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rule := range rules {
		padded, err := padRule(rule)
		if err != nil {
			return err
		}
		batch.Queue(t.insertSQL(), lo.ToAnySlice(withPtype(ptype, padded))...)
	}
	return runBatch(t.db.SendBatch(ctx, batch), batch.Len())
}

func (t *ruleTable) deleteBatch(ctx context.Context, ptype string, rules [][]string) error {
	if len(rules) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rule := range rules {
		padded, err := padRule(rule)
		if err != nil {
			return err
		}
		batch.Queue(t.deleteSQL(), lo.ToAnySlice(withPtype(ptype, padded))...)
	}
	return runBatch(t.db.SendBatch(ctx, batch), batch.Len())
}

func (t *ruleTable) updateBatch(ctx context.Context, ptype string, oldRules, newRules [][]string) error {
	if len(oldRules) == 0 || len(newRules) == 0 {
		return nil
	}
	if len(oldRules) != len(newRules) {
		return fmt.Errorf("%w: %d vs %d", ErrRulesMismatch, len(oldRules), len(newRules))
	}

	batch := &pgx.Batch{}
	for i := range oldRules {
		paddedOld, err := padRule(oldRules[i])
		if err != nil {
			return err
		}
		paddedNew, err := padRule(newRules[i])
		if err != nil {
			return err
		}
		batch.Queue(t.updateSQL(), lo.ToAnySlice(withPtype(ptype, append(paddedNew, paddedOld...)))...)
	}
	return runBatch(t.db.SendBatch(ctx, batch), batch.Len())
}

func runBatch(br pgx.BatchResults, n int) error {
	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			return errors.Join(ErrBatchExec, err, closeBatch(br))
		}
	}
	return closeBatch(br)
}

func closeBatch(br pgx.BatchResults) error {
	if err := br.Close(); err != nil {
		return errors.Join(ErrBatchClose, err)
	}
	return nil
}

// padRule right-pads a rule with empty strings to the full column width.
func padRule(rule []string) ([]string, error) {
	if len(rule) > ruleWidth {
		return nil, fmt.Errorf("%w: %d > %d", ErrRuleTooLong, len(rule), ruleWidth)
	}
	padded := make([]string, ruleWidth)
	copy(padded, rule)
	return padded, nil
}

func withPtype(ptype string, rule []string) []string {
	row := make([]string, 1+len(rule))
	row[0] = ptype
	copy(row[1:], rule)
	return row
}

func trimEmptyTail(row []string) []string {
	last := len(row) - 1
	for last >= 0 && row[last] == "" {
		last--
	}
	return row[:last+1]
}
