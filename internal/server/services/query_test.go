package services

import (
	"context"
	"math"
	"testing"

	"github.com/dmitrijs2005/gophfeedback/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEntriesForSite_Pagination(t *testing.T) {
	site := testSite()
	other := testSite()
	other.Key = uuid.New()
	repo := &fakeRepo{}
	p := &hookPlugin{sites: map[uuid.UUID]*models.Site{site.Key: site, other.Key: other}}
	s := newTestService(t, repo, p)

	for range 25 {
		seed(t, s, site, "")
	}
	seed(t, s, other, "")

	list, err := s.GetEntriesForSite(context.Background(), site.Key, models.GetEntriesOptions{Page: 2})
	require.NoError(t, err)

	assert.Equal(t, 25, list.Total)
	assert.Equal(t, 2, list.Page)
	assert.Equal(t, models.DefaultPerPage, list.PerPage)
	assert.Equal(t, 3, list.Pages())
	assert.Equal(t, models.SortByCreateDate, list.SortField)
	assert.Equal(t, models.SortDesc, list.SortOrder)
	require.Len(t, list.Entries, 10)
	for _, e := range list.Entries {
		assert.Equal(t, site.Key, e.SiteKey)
		assert.Same(t, site, e.Site)
	}
	require.NotNil(t, repo.lastQuery.SiteKey)
	assert.Equal(t, site.Key, *repo.lastQuery.SiteKey)

	// one site lookup per distinct site, not per entry
	assert.Equal(t, 1, countLookups(p, func() {
		_, err := s.GetEntriesForSite(context.Background(), site.Key, models.GetEntriesOptions{})
		require.NoError(t, err)
	}))
}

func countLookups(p *hookPlugin, fn func()) int {
	before := p.siteLookup
	fn()
	return p.siteLookup - before
}

func TestGetEntries_ConfiguredPerPage(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(t, repo, &hookPlugin{}, WithPerPage(4))
	for range 6 {
		seed(t, s, testSite(), "")
	}

	list, err := s.GetEntries(context.Background(), models.GetEntriesOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, list.PerPage)
	assert.Len(t, list.Entries, 4)
	assert.Equal(t, 2, list.Pages())

	list, err = s.GetEntries(context.Background(), models.GetEntriesOptions{PerPage: 5, SortField: models.SortByRating})
	require.NoError(t, err)
	assert.Equal(t, 5, list.PerPage)
	assert.Equal(t, models.SortAsc, list.SortOrder)
}

func TestGetEntries_PastLastPageIsEmpty(t *testing.T) {
	s := newTestService(t, &fakeRepo{}, &hookPlugin{})
	seed(t, s, testSite(), "")

	list, err := s.GetEntries(context.Background(), models.GetEntriesOptions{Page: 9})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Empty(t, list.Entries)
}

func TestGetEntries_HugePagingIsEmpty(t *testing.T) {
	s := newTestService(t, &fakeRepo{}, &hookPlugin{})
	for range 3 {
		seed(t, s, testSite(), "")
	}

	list, err := s.GetEntries(context.Background(), models.GetEntriesOptions{Page: 2, PerPage: math.MaxInt})
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, models.MaxPerPage, list.PerPage)
	assert.Empty(t, list.Entries)
	assert.Equal(t, 1, list.Pages())

	list, err = s.GetEntries(context.Background(), models.GetEntriesOptions{Page: math.MaxInt / 5, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	assert.Empty(t, list.Entries)
	assert.Equal(t, math.MaxInt, list.Offset())
}

func TestGetEntries_QueryError(t *testing.T) {
	s := newTestService(t, &fakeRepo{queryErr: errBoom}, &hookPlugin{})
	_, err := s.GetEntries(context.Background(), models.GetEntriesOptions{})
	assert.ErrorIs(t, err, errBoom)
}

func TestGetEntryByKey_ResolvesReferences(t *testing.T) {
	site := testSite()
	alice := models.User{ID: 7, Key: uuid.New(), Name: "Alice"}
	repo := &fakeRepo{}
	p := &hookPlugin{
		sites: map[uuid.UUID]*models.Site{site.Key: site},
		users: []models.User{alice},
	}
	s := newTestService(t, repo, p)
	e := seed(t, s, site, "hello")
	_, err := s.SetAssignedTo(context.Background(), e.Key, &alice)
	require.NoError(t, err)

	got, err := s.GetEntryByKey(context.Background(), e.Key)
	require.NoError(t, err)
	assert.Same(t, site, got.Site)
	assert.Equal(t, models.RatingPositive.Alias, got.Rating.Alias())
	assert.Equal(t, models.StatusNew.Alias, got.Status.Alias())
	require.NotNil(t, got.AssignedTo)
	assert.Equal(t, "Alice", got.AssignedTo.Name)
}

func TestGetEntryByKey_RemovedRatingAndStatusArePlaceholders(t *testing.T) {
	site := testSite()
	repo := &fakeRepo{}
	p := &hookPlugin{sites: map[uuid.UUID]*models.Site{site.Key: site}}
	s := newTestService(t, repo, p)
	e := seed(t, s, site, "")

	site.Ratings = []models.Rating{models.RatingNegative}
	site.Statuses = []models.Status{models.StatusClosed}

	got, err := s.GetEntryByKey(context.Background(), e.Key)
	require.NoError(t, err)
	assert.True(t, got.Rating.IsMissing())
	assert.Equal(t, models.NotFoundAlias, got.Rating.Alias())
	assert.Equal(t, models.RatingPositive.Key, got.Rating.Key())
	assert.True(t, got.Status.IsMissing())
	assert.Equal(t, models.NotFoundAlias, got.Status.Alias())
	assert.Equal(t, models.StatusNew.Key, got.Status.Key())
}

func TestGetEntryByKey_UnknownSiteAndUser(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(t, repo, &hookPlugin{})
	e := seed(t, s, testSite(), "")
	ghost := models.User{Key: uuid.New()}
	_, err := s.SetAssignedTo(context.Background(), e.Key, &ghost)
	require.NoError(t, err)

	got, err := s.GetEntryByKey(context.Background(), e.Key)
	require.NoError(t, err)
	assert.Nil(t, got.Site)
	assert.Nil(t, got.AssignedTo)
	assert.True(t, got.Rating.IsMissing())
	assert.True(t, got.Status.IsMissing())
}
