// Package entries provides database/sql-backed storage for feedback
// entries on PostgreSQL (pgx) and SQLite (modernc).
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophfeedback/internal/common"
	"github.com/dmitrijs2005/gophfeedback/internal/dbx"
	"github.com/dmitrijs2005/gophfeedback/internal/server/models"
	"github.com/google/uuid"
)

const columns = `id, entry_key, site_key, page_key, name, email, comment, rating, status,
		create_date, update_date, assigned_to, archived`

// SQLRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type SQLRepository struct {
	db      dbx.DBTX
	dialect Dialect
}

var _ Repository = (*SQLRepository)(nil)

// NewSQLRepository constructs a repository bound to the given DBTX.
func NewSQLRepository(db dbx.DBTX, d Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: d}
}

// Insert stores entry and sets entry.ID to the generated row id.
func (r *SQLRepository) Insert(ctx context.Context, entry *models.Entry) error {
	query := `INSERT INTO feedback_entries (entry_key, site_key, page_key, name, email, comment, rating, status,
		create_date, update_date, assigned_to, archived)
		VALUES (` + r.dialect.placeholders(12) + `)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		entry.Key, entry.SiteKey, entry.PageKey, entry.Name, entry.Email, entry.Comment,
		entry.Rating, entry.Status, entry.CreateDate.UTC(), entry.UpdateDate.UTC(), entry.AssignedTo, entry.Archived,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of the entry with entry.Key.
func (r *SQLRepository) Update(ctx context.Context, entry *models.Entry) error {
	p := r.dialect.Placeholder
	query := fmt.Sprintf(`UPDATE feedback_entries SET name = %s, email = %s, comment = %s, rating = %s, status = %s,
		update_date = %s, assigned_to = %s, archived = %s
		WHERE entry_key = %s`, p(1), p(2), p(3), p(4), p(5), p(6), p(7), p(8), p(9))

	res, err := r.db.ExecContext(ctx, query,
		entry.Name, entry.Email, entry.Comment, entry.Rating, entry.Status,
		entry.UpdateDate.UTC(), entry.AssignedTo, entry.Archived, entry.Key,
	)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	return dbx.ExpectOne(res, common.ErrEntryNotFound)
}

// Delete removes the entry with key.
func (r *SQLRepository) Delete(ctx context.Context, key uuid.UUID) error {
	query := `DELETE FROM feedback_entries WHERE entry_key = ` + r.dialect.Placeholder(1)
	res, err := r.db.ExecContext(ctx, query, key)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return dbx.ExpectOne(res, common.ErrEntryNotFound)
}

// GetByKey loads a single entry.
func (r *SQLRepository) GetByKey(ctx context.Context, key uuid.UUID) (*models.Entry, error) {
	query := `SELECT ` + columns + ` FROM feedback_entries WHERE entry_key = ` + r.dialect.Placeholder(1)

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrEntryNotFound
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

func scanEntry(s dbx.Scanner) (*models.Entry, error) {
	var e models.Entry
	if err := s.Scan(
		&e.ID, &e.Key, &e.SiteKey, &e.PageKey, &e.Name, &e.Email, &e.Comment, &e.Rating, &e.Status,
		&e.CreateDate, &e.UpdateDate, &e.AssignedTo, &e.Archived,
	); err != nil {
		return nil, err
	}
	e.CreateDate = e.CreateDate.UTC()
	e.UpdateDate = e.UpdateDate.UTC()
	return &e, nil
}

// where renders the filter part of opts as a WHERE clause.
func (r *SQLRepository) where(opts models.GetEntriesOptions) (string, []any) {
	var (
		conds []string
		args  []any
	)
	eq := func(column string, v any) {
		args = append(args, v)
		conds = append(conds, column+" = "+r.dialect.Placeholder(len(args)))
	}

	if opts.SiteKey != nil {
		eq("site_key", *opts.SiteKey)
	}
	if opts.PageKey != nil {
		eq("page_key", *opts.PageKey)
	}
	if opts.Rating != nil {
		eq("rating", *opts.Rating)
	}
	if opts.Status != nil {
		eq("status", *opts.Status)
	}
	if opts.AssignedTo != nil {
		eq("assigned_to", *opts.AssignedTo)
	}
	if opts.Archived != nil {
		eq("archived", *opts.Archived)
	}
	switch opts.Type {
	case models.EntryTypeComment:
		conds = append(conds, "comment IS NOT NULL")
	case models.EntryTypeRating:
		conds = append(conds, "comment IS NULL")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderBy(opts models.GetEntriesOptions) string {
	column := "create_date"
	switch opts.SortField {
	case models.SortByRating:
		column = "rating"
	case models.SortByStatus:
		column = "status"
	}
	dir := "ASC"
	if opts.Descending() {
		dir = "DESC"
	}
	return " ORDER BY " + column + " " + dir + ", id ASC"
}

// Query counts the matching entries and loads the requested page. Both
// statements run in one transaction when the repository is bound to a *sql.DB.
func (r *SQLRepository) Query(ctx context.Context, opts models.GetEntriesOptions) ([]*models.Entry, int, error) {
	opts = opts.Normalize(models.DefaultPerPage)
	where, args := r.where(opts)

	var (
		total  int
		result []*models.Entry
	)
	err := dbx.InTx(ctx, r.db, r.dialect.txOptions, func(ctx context.Context, tx dbx.DBTX) error {
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback_entries`+where, args...).Scan(&total); err != nil {
			return fmt.Errorf("count entries: %w", err)
		}
		if total == 0 || opts.Offset() >= total {
			return nil
		}

		n := len(args)
		query := `SELECT ` + columns + ` FROM feedback_entries` + where + orderBy(opts) +
			fmt.Sprintf(" LIMIT %s OFFSET %s", r.dialect.Placeholder(n+1), r.dialect.Placeholder(n+2))

		page, err := dbx.QueryAll(ctx, tx, scanEntry, query, append(args, opts.PerPage, opts.Offset())...)
		if err != nil {
			return fmt.Errorf("select entries: %w", err)
		}
		result = page
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}
