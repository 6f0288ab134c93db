package entries

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophfeedback/internal/common"
	"github.com/dmitrijs2005/gophfeedback/internal/server/models"
	"github.com/google/uuid"
)

// Matches reports whether e passes every filter set in opts.
func Matches(e *models.Entry, opts models.GetEntriesOptions) bool {
	eq := func(want *uuid.UUID, got uuid.UUID) bool { return want == nil || *want == got }

	if !eq(opts.SiteKey, e.SiteKey) || !eq(opts.PageKey, e.PageKey) ||
		!eq(opts.Rating, e.Rating) || !eq(opts.Status, e.Status) {
		return false
	}
	if opts.AssignedTo != nil && (!e.AssignedTo.Valid || e.AssignedTo.UUID != *opts.AssignedTo) {
		return false
	}
	if opts.Archived != nil && e.Archived != *opts.Archived {
		return false
	}
	switch opts.Type {
	case models.EntryTypeComment, models.EntryTypeRating:
		return e.Type() == opts.Type
	}
	return true
}

// Compare orders entries the way the SQL store does: by the sort field in
// the requested direction, then by ID ascending.
func Compare(opts models.GetEntriesOptions) func(a, b *models.Entry) int {
	desc := opts.Descending()
	return func(a, b *models.Entry) int {
		var c int
		switch opts.SortField {
		case models.SortByRating:
			c = strings.Compare(a.Rating.String(), b.Rating.String())
		case models.SortByStatus:
			c = strings.Compare(a.Status.String(), b.Status.String())
		default:
			c = a.CreateDate.Compare(b.CreateDate)
		}
		if desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}
}

// SortAndPage sorts matched in place and returns the requested page of it
// together with the number of matches. opts must be normalized.
func SortAndPage(matched []*models.Entry, opts models.GetEntriesOptions) ([]*models.Entry, int) {
	slices.SortFunc(matched, Compare(opts))

	total := len(matched)
	from := min(opts.Offset(), total)
	to := from + min(max(opts.PerPage, 0), total-from)
	return matched[from:to], total
}

// MemoryRepository keeps entries in process memory. Nothing survives a
// restart.
type MemoryRepository struct {
	mu     sync.RWMutex
	rows   map[uuid.UUID]*models.Entry
	nextID int64
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[uuid.UUID]*models.Entry)}
}

func (r *MemoryRepository) Insert(_ context.Context, e *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[e.Key]; ok {
		return fmt.Errorf("insert entry %s: duplicate key", e.Key)
	}
	r.nextID++
	e.ID = r.nextID
	r.rows[e.Key] = e.Clone()
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, e *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.rows[e.Key]
	if !ok {
		return common.ErrEntryNotFound
	}
	row := e.Clone()
	row.ID = old.ID
	r.rows[e.Key] = row
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, key uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[key]; !ok {
		return common.ErrEntryNotFound
	}
	delete(r.rows, key)
	return nil
}

func (r *MemoryRepository) GetByKey(_ context.Context, key uuid.UUID) (*models.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.rows[key]
	if !ok {
		return nil, common.ErrEntryNotFound
	}
	return e.Clone(), nil
}

func (r *MemoryRepository) Query(_ context.Context, opts models.GetEntriesOptions) ([]*models.Entry, int, error) {
	opts = opts.Normalize(models.DefaultPerPage)

	r.mu.RLock()
	matched := make([]*models.Entry, 0, len(r.rows))
	for _, e := range r.rows {
		if Matches(e, opts) {
			matched = append(matched, e.Clone())
		}
	}
	r.mu.RUnlock()

	page, total := SortAndPage(matched, opts)
	return page, total, nil
}
