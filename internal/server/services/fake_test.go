package services

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/dmitrijs2005/gophfeedback/internal/common"
	"github.com/dmitrijs2005/gophfeedback/internal/server/models"
	"github.com/dmitrijs2005/gophfeedback/internal/server/plugins"
	"github.com/google/uuid"
)

// fakeRepo keeps entries in memory and can be told to fail.
type fakeRepo struct {
	mu      sync.Mutex
	rows    []*models.Entry
	nextID  int64
	inserts int
	updates int

	insertErr error
	updateErr error
	deleteErr error
	queryErr  error

	lastQuery models.GetEntriesOptions
}

func (r *fakeRepo) Insert(_ context.Context, e *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.nextID++
	e.ID = r.nextID
	r.rows = append(r.rows, e.Clone())
	r.inserts++
	return nil
}

func (r *fakeRepo) Update(_ context.Context, e *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	for i, row := range r.rows {
		if row.Key == e.Key {
			r.rows[i] = e.Clone()
			r.updates++
			return nil
		}
	}
	return common.ErrEntryNotFound
}

func (r *fakeRepo) Delete(_ context.Context, key uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for i, row := range r.rows {
		if row.Key == key {
			r.rows = slices.Delete(r.rows, i, i+1)
			return nil
		}
	}
	return common.ErrEntryNotFound
}

func (r *fakeRepo) GetByKey(_ context.Context, key uuid.UUID) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Key == key {
			return row.Clone(), nil
		}
	}
	return nil, common.ErrEntryNotFound
}

// Query filters by site and page only and returns newest first.
func (r *fakeRepo) Query(_ context.Context, opts models.GetEntriesOptions) ([]*models.Entry, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuery = opts
	if r.queryErr != nil {
		return nil, 0, r.queryErr
	}

	var matched []*models.Entry
	for i := len(r.rows) - 1; i >= 0; i-- {
		row := r.rows[i]
		if opts.SiteKey != nil && row.SiteKey != *opts.SiteKey {
			continue
		}
		if opts.PageKey != nil && row.PageKey != *opts.PageKey {
			continue
		}
		matched = append(matched, row.Clone())
	}

	total := len(matched)
	from := min(opts.Offset(), total)
	to := from + min(max(opts.PerPage, 0), total-from)
	return matched[from:to], total, nil
}

func (r *fakeRepo) get(key uuid.UUID) *models.Entry {
	e, _ := r.GetByKey(context.Background(), key)
	return e
}

// hookPlugin records hook calls and answers lookups from fixed data.
type hookPlugin struct {
	plugins.Base

	calls []string

	veto       bool
	vetoMsg    string
	vetoCode   int
	afterErr   error
	sites      map[uuid.UUID]*models.Site
	users      []models.User
	oldStatus  models.StatusRef
	oldUser    *models.User
	newUser    *models.User
	siteLookup int
}

func (p *hookPlugin) Name() string { return "hooks" }

func (p *hookPlugin) EntrySubmitting(_ context.Context, args *plugins.EntryArgs) (bool, error) {
	p.calls = append(p.calls, "EntrySubmitting")
	if p.veto {
		args.Message = p.vetoMsg
		args.StatusCode = p.vetoCode
		return false, nil
	}
	return true, nil
}

func (p *hookPlugin) EntrySubmitted(context.Context, *models.Entry) error {
	p.calls = append(p.calls, "EntrySubmitted")
	return p.afterErr
}

func (p *hookPlugin) EntryUpdating(_ context.Context, args *plugins.EntryArgs) (bool, error) {
	p.calls = append(p.calls, "EntryUpdating")
	if p.veto {
		args.Message = p.vetoMsg
		return false, nil
	}
	return true, nil
}

func (p *hookPlugin) EntryUpdated(context.Context, *models.Entry) error {
	p.calls = append(p.calls, "EntryUpdated")
	return p.afterErr
}

func (p *hookPlugin) StatusChanging(context.Context, *models.Entry, models.Status) (bool, error) {
	p.calls = append(p.calls, "StatusChanging")
	return !p.veto, nil
}

func (p *hookPlugin) StatusChanged(_ context.Context, _ *models.Entry, old models.StatusRef, _ models.Status) error {
	p.calls = append(p.calls, "StatusChanged")
	p.oldStatus = old
	return p.afterErr
}

func (p *hookPlugin) UserAssigning(context.Context, *models.Entry, *models.User) (bool, error) {
	p.calls = append(p.calls, "UserAssigning")
	return !p.veto, nil
}

func (p *hookPlugin) UserAssigned(_ context.Context, _ *models.Entry, oldUser, newUser *models.User) error {
	p.calls = append(p.calls, "UserAssigned")
	p.oldUser, p.newUser = oldUser, newUser
	return p.afterErr
}

func (p *hookPlugin) SiteByKey(_ context.Context, key uuid.UUID) (*models.Site, error) {
	p.siteLookup++
	if s, ok := p.sites[key]; ok {
		return s, nil
	}
	return nil, common.ErrSiteNotFound
}

func (p *hookPlugin) Users(context.Context) ([]models.User, error) { return p.users, nil }

func (p *hookPlugin) UserByKey(_ context.Context, key uuid.UUID) (*models.User, error) {
	for _, u := range p.users {
		if u.Key == key {
			return &u, nil
		}
	}
	return nil, common.ErrUserNotFound
}

var errBoom = errors.New("boom")
