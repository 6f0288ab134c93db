package plugins

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophfeedback/internal/common"
	"github.com/dmitrijs2005/gophfeedback/internal/server/content"
	"github.com/dmitrijs2005/gophfeedback/internal/server/models"
	"github.com/dmitrijs2005/gophfeedback/internal/server/sites"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const treeYAML = `
feedback:
  siteContentTypes: [site]
nodes:
  - id: 1
    key: 7d0e3c2a-9b8f-4e1d-a6c5-000000000001
    name: Site
    contentType: site
    domains: [example.com]
    children:
      - id: 2
        key: 7d0e3c2a-9b8f-4e1d-a6c5-000000000002
        name: Page
        contentType: page
users:
  - id: 5
    key: 7d0e3c2a-9b8f-4e1d-a6c5-000000000005
    name: Bob
`

type failingDirectory struct{}

func (failingDirectory) ListUsers(context.Context) ([]models.User, error) {
	return nil, errors.New("directory offline")
}

func newDefault(t *testing.T) (*Default, *content.Tree) {
	t.Helper()
	tree, err := content.ParseTree([]byte(treeYAML))
	require.NoError(t, err)
	r := sites.NewResolver(tree, sites.Settings{SiteContentTypes: tree.Settings().SiteContentTypes})
	return NewDefault(r, tree), tree
}

func TestDefault_Sites(t *testing.T) {
	d, _ := newDefault(t)
	ctx := context.Background()
	pageKey := mustKey("7d0e3c2a-9b8f-4e1d-a6c5-000000000002")
	siteKey := mustKey("7d0e3c2a-9b8f-4e1d-a6c5-000000000001")

	site, err := d.SiteByPage(ctx, pageKey)
	require.NoError(t, err)
	assert.Equal(t, siteKey, site.Key)

	site, err = d.SiteByKey(ctx, siteKey)
	require.NoError(t, err)
	assert.Equal(t, "Site", site.Name)

	_, err = d.SiteByKey(ctx, pageKey)
	assert.ErrorIs(t, err, common.ErrSiteNotFound)
}

func TestDefault_Users(t *testing.T) {
	d, _ := newDefault(t)
	ctx := context.Background()

	u, err := d.UserByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Bob", u.Name)

	u, err = d.UserByKey(ctx, mustKey("7d0e3c2a-9b8f-4e1d-a6c5-000000000005"))
	require.NoError(t, err)
	assert.Equal(t, 5, u.ID)

	_, err = d.UserByID(ctx, 6)
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestDefault_UserDirectoryFailure(t *testing.T) {
	d := NewDefault(nil, failingDirectory{})
	_, err := d.UserByID(context.Background(), 1)
	require.Error(t, err)
	assert.False(t, errors.Is(err, common.ErrorNotFound))
}

func TestDefault_NeverVetoes(t *testing.T) {
	d, _ := newDefault(t)
	var p Plugin = d
	ok, err := p.EntrySubmitting(context.Background(), &EntryArgs{})
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, DefaultName, p.Name())
}

func mustKey(s string) uuid.UUID { return uuid.MustParse(s) }
