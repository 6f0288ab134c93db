package services

import (
	"context"

	"github.com/dmitrijs2005/gophfeedback/internal/server/models"
	"github.com/google/uuid"
)

// resolver decorates entries of one query, looking up every site and user
// at most once.
type resolver struct {
	s     *EntryService
	sites map[uuid.UUID]*models.Site
	users map[uuid.UUID]*models.User
}

func (s *EntryService) newResolver() *resolver {
	return &resolver{
		s:     s,
		sites: make(map[uuid.UUID]*models.Site),
		users: make(map[uuid.UUID]*models.User),
	}
}

func (r *resolver) resolve(ctx context.Context, e *models.Entry) *models.ResolvedEntry {
	site, ok := r.sites[e.SiteKey]
	if !ok {
		site = r.s.siteOf(ctx, e)
		r.sites[e.SiteKey] = site
	}

	var user *models.User
	if e.AssignedTo.Valid {
		if user, ok = r.users[e.AssignedTo.UUID]; !ok {
			user = r.s.userOf(ctx, e.AssignedTo)
			r.users[e.AssignedTo.UUID] = user
		}
	}

	return &models.ResolvedEntry{
		Entry:      e,
		Site:       site,
		Rating:     models.ResolveRating(site, e.Rating),
		Status:     models.ResolveStatus(site, e.Status),
		AssignedTo: user,
	}
}

// GetEntryByKey loads one entry with its site, rating, status and assignee.
func (s *EntryService) GetEntryByKey(ctx context.Context, key uuid.UUID) (*models.ResolvedEntry, error) {
	e, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.newResolver().resolve(ctx, e), nil
}

// GetEntries returns one page of entries matching opts.
//
// Ratings and statuses are resolved against the current site configuration;
// keys a site no longer configures come back as placeholders.
func (s *EntryService) GetEntries(ctx context.Context, opts models.GetEntriesOptions) (*models.EntryList, error) {
	opts = opts.Normalize(s.perPage)

	items, total, err := s.repo.Query(ctx, opts)
	if err != nil {
		return nil, err
	}

	order := models.SortAsc
	if opts.Descending() {
		order = models.SortDesc
	}

	list := &models.EntryList{
		Page:      opts.Page,
		PerPage:   opts.PerPage,
		Total:     total,
		SortField: opts.SortField,
		SortOrder: order,
		Entries:   make([]*models.ResolvedEntry, 0, len(items)),
	}

	r := s.newResolver()
	for _, e := range items {
		list.Entries = append(list.Entries, r.resolve(ctx, e))
	}
	return list, nil
}

// GetEntriesForSite narrows opts to one site.
func (s *EntryService) GetEntriesForSite(ctx context.Context, siteKey uuid.UUID, opts models.GetEntriesOptions) (*models.EntryList, error) {
	opts.SiteKey = &siteKey
	return s.GetEntries(ctx, opts)
}

// GetEntriesForPage narrows opts to one page.
func (s *EntryService) GetEntriesForPage(ctx context.Context, pageKey uuid.UUID, opts models.GetEntriesOptions) (*models.EntryList, error) {
	opts.PageKey = &pageKey
	return s.GetEntries(ctx, opts)
}
