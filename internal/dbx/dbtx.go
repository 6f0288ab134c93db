// Package dbx holds the database/sql plumbing shared by repositories: the
// DBTX handle satisfied by *sql.DB and *sql.Tx, transaction helpers and
// row scanning.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Beginner starts transactions. *sql.DB satisfies it; *sql.Tx does not, which
// lets repositories detect whether they already run inside a transaction.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
//
// Typical use:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    // use tx instead of db
//	    _, err := tx.ExecContext(ctx, "UPDATE ...")
//	    return err
//	})
func WithTx(ctx context.Context, db Beginner, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}

// InTx runs fn inside a new transaction when db can begin one, and directly
// against db otherwise (db is already a *sql.Tx or a test double).
func InTx(ctx context.Context, db DBTX, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error {
	if b, ok := db.(Beginner); ok {
		return WithTx(ctx, b, opts, fn)
	}
	return fn(ctx, db)
}

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// QueryAll runs query and scans every row with scan.
func QueryAll[T any](ctx context.Context, db DBTX, scan func(Scanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ExpectOne checks that a statement touched exactly one row and returns
// notFound when it touched none.
func ExpectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return notFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
