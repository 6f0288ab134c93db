package sites

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophfeedback/internal/common"
	"github.com/dmitrijs2005/gophfeedback/internal/server/content"
	"github.com/dmitrijs2005/gophfeedback/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider is a flat parent-linked tree.
type fakeProvider struct {
	nodes   map[uuid.UUID]content.Node
	parents map[uuid.UUID]uuid.UUID

	getErr      error
	ancestorErr error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{nodes: map[uuid.UUID]content.Node{}, parents: map[uuid.UUID]uuid.UUID{}}
}

func (f *fakeProvider) add(n content.Node, parent uuid.UUID) content.Node {
	f.nodes[n.Key] = n
	if parent != uuid.Nil {
		f.parents[n.Key] = parent
	}
	return n
}

func (f *fakeProvider) GetNodeByKey(_ context.Context, key uuid.UUID) (*content.Node, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	n, ok := f.nodes[key]
	if !ok {
		return nil, common.ErrPageNotFound
	}
	return &n, nil
}

func (f *fakeProvider) GetAncestors(_ context.Context, node *content.Node) ([]content.Node, error) {
	if f.ancestorErr != nil {
		return nil, f.ancestorErr
	}
	out := []content.Node{*node}
	key := node.Key
	for {
		p, ok := f.parents[key]
		if !ok {
			return out, nil
		}
		out = append(out, f.nodes[p])
		key = p
	}
}

type fixture struct {
	provider *fakeProvider
	root     content.Node
	site     content.Node
	section  content.Node
	page     content.Node
	orphan   content.Node
}

func newFixture() *fixture {
	p := newFakeProvider()
	f := &fixture{provider: p}
	f.root = p.add(content.Node{ID: 1, Key: uuid.New(), Name: "Root", ContentType: "folder"}, uuid.Nil)
	f.site = p.add(content.Node{ID: 2, Key: uuid.New(), Name: "Site", ContentType: "site", Domains: []string{"example.com"}}, f.root.Key)
	f.section = p.add(content.Node{ID: 3, Key: uuid.New(), Name: "Section", ContentType: "site"}, f.site.Key)
	f.page = p.add(content.Node{ID: 4, Key: uuid.New(), Name: "Page", ContentType: "page"}, f.section.Key)
	f.orphan = p.add(content.Node{ID: 5, Key: uuid.New(), Name: "Orphan", ContentType: "page"}, f.root.Key)
	return f
}

func TestResolveByPage_NearestSiteWins(t *testing.T) {
	f := newFixture()
	r := NewResolver(f.provider, DefaultSettings())

	site, err := r.ResolveByPage(context.Background(), f.page.Key)
	require.NoError(t, err)
	assert.Equal(t, f.section.Key, site.Key)
	assert.Equal(t, 3, site.ID)
	assert.Equal(t, models.DefaultStatuses(), site.Statuses)
	assert.Equal(t, models.DefaultRatings(), site.Ratings)
}

func TestResolveByPage_PageItselfCanBeSite(t *testing.T) {
	f := newFixture()
	r := NewResolver(f.provider, DefaultSettings())

	site, err := r.ResolveByPage(context.Background(), f.site.Key)
	require.NoError(t, err)
	assert.Equal(t, f.site.Key, site.Key)
}

func TestResolveByPage_NoSiteInChain(t *testing.T) {
	f := newFixture()
	r := NewResolver(f.provider, DefaultSettings())

	_, err := r.ResolveByPage(context.Background(), f.orphan.Key)
	assert.ErrorIs(t, err, common.ErrSiteNotFound)
}

func TestResolveByPage_UnknownPage(t *testing.T) {
	f := newFixture()
	r := NewResolver(f.provider, DefaultSettings())

	_, err := r.ResolveByPage(context.Background(), uuid.New())
	assert.ErrorIs(t, err, common.ErrPageNotFound)
}

func TestResolveByPage_ProviderErrors(t *testing.T) {
	f := newFixture()
	r := NewResolver(f.provider, DefaultSettings())

	f.provider.ancestorErr = errors.New("tree unavailable")
	_, err := r.ResolveByPage(context.Background(), f.page.Key)
	require.Error(t, err)
	assert.False(t, errors.Is(err, common.ErrorNotFound))

	f.provider.getErr = errors.New("tree unavailable")
	_, err = r.ResolveByPage(context.Background(), f.page.Key)
	require.Error(t, err)
	assert.False(t, errors.Is(err, common.ErrorNotFound))
}

func TestResolveByKey_RequiresDomain(t *testing.T) {
	f := newFixture()
	r := NewResolver(f.provider, DefaultSettings())
	ctx := context.Background()

	site, err := r.ResolveByKey(ctx, f.site.Key)
	require.NoError(t, err)
	assert.Equal(t, "Site", site.Name)

	_, err = r.ResolveByKey(ctx, f.section.Key)
	assert.ErrorIs(t, err, common.ErrSiteNotFound)

	_, err = r.ResolveByKey(ctx, uuid.New())
	assert.ErrorIs(t, err, common.ErrSiteNotFound)
}

func TestResolver_NodeOverrides(t *testing.T) {
	p := newFakeProvider()
	custom := []models.Status{{Key: uuid.New(), Alias: "open"}}
	site := p.add(content.Node{Key: uuid.New(), ContentType: "site", Domains: []string{"a.example"}, Statuses: custom}, uuid.Nil)

	r := NewResolver(p, Settings{SiteContentTypes: []string{"site"}})
	got, err := r.ResolveByKey(context.Background(), site.Key)
	require.NoError(t, err)
	assert.Equal(t, custom, got.Statuses)
	assert.Equal(t, models.DefaultRatings(), got.Ratings)
}

func TestResolver_IsPage(t *testing.T) {
	r := NewResolver(newFakeProvider(), Settings{PageContentTypes: []string{"page"}})
	assert.True(t, r.IsPage(&content.Node{ContentType: "page"}))
	assert.False(t, r.IsPage(&content.Node{ContentType: "folder"}))

	r = NewResolver(newFakeProvider(), Settings{})
	assert.True(t, r.IsPage(&content.Node{ContentType: "folder"}))
}

func TestSettingsFrom(t *testing.T) {
	s := SettingsFrom(content.FeedbackSettings{})
	assert.Equal(t, []string{"site"}, s.SiteContentTypes)
	assert.Nil(t, s.PageContentTypes)
	assert.Equal(t, models.DefaultRatings(), s.Ratings)
	assert.Equal(t, models.DefaultStatuses(), s.Statuses)

	closed := []models.Status{models.StatusClosed}
	s = SettingsFrom(content.FeedbackSettings{
		SiteContentTypes: []string{"portal"},
		PageContentTypes: []string{"article"},
		Statuses:         closed,
	})
	assert.Equal(t, []string{"portal"}, s.SiteContentTypes)
	assert.Equal(t, []string{"article"}, s.PageContentTypes)
	assert.Equal(t, models.DefaultRatings(), s.Ratings)
	assert.Equal(t, closed, s.Statuses)
}
