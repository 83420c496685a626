package db

import (
	"context"
	"errors"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// recordedStmt captures one executed statement with its arguments.
type recordedStmt struct {
	sql  string
	args []any
}

// fakeRow scripts the outcome of a single QueryRow call. A nil value
// leaves the destination untouched.
type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i := range dest {
		if i >= len(r.vals) || r.vals[i] == nil {
			continue
		}
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(r.vals[i]))
	}
	return nil
}

// fakeQuerier drives ledger methods without a server. Rows, exec tags and
// exec errors are consumed in call order; every statement is recorded.
type fakeQuerier struct {
	stmts []recordedStmt

	rows     []fakeRow
	execTags []pgconn.CommandTag
	execErrs []error
	beginErr error
	tx       *fakeTx
}

func (f *fakeQuerier) record(sql string, args []any) {
	f.stmts = append(f.stmts, recordedStmt{sql: sql, args: args})
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.record(sql, args)
	if len(f.rows) == 0 {
		return fakeRow{err: pgx.ErrNoRows}
	}
	r := f.rows[0]
	f.rows = f.rows[1:]
	return r
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.record(sql, args)
	var tag pgconn.CommandTag
	if len(f.execTags) > 0 {
		tag = f.execTags[0]
		f.execTags = f.execTags[1:]
	}
	if len(f.execErrs) > 0 {
		err := f.execErrs[0]
		f.execErrs = f.execErrs[1:]
		return tag, err
	}
	return tag, nil
}

func (f *fakeQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.record(sql, args)
	return nil, errors.New("query not scripted")
}

func (f *fakeQuerier) Begin(context.Context) (pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	if f.tx == nil {
		f.tx = &fakeTx{}
	}
	return f.tx, nil
}

// fakeTx records transaction statements and counts commits and rollbacks.
// Methods outside the scripted surface panic via the embedded nil Tx.
type fakeTx struct {
	pgx.Tx
	q         fakeQuerier
	commits   int
	rollbacks int
	commitErr error
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.q.QueryRow(ctx, sql, args...)
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.q.Exec(ctx, sql, args...)
}

func (t *fakeTx) Commit(context.Context) error {
	t.commits++
	return t.commitErr
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rollbacks++
	return nil
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
