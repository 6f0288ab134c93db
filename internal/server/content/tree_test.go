package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/gophfeedback/internal/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
feedback:
  siteContentTypes: [site]
  pageContentTypes: [page, article]
nodes:
  - id: 1
    key: 0b7c1f34-1d3a-4a57-9a89-1e0e7b7d0001
    name: Main site
    contentType: site
    domains: [example.com]
    children:
      - id: 2
        key: 0b7c1f34-1d3a-4a57-9a89-1e0e7b7d0002
        name: News
        contentType: page
        children:
          - id: 3
            key: 0b7c1f34-1d3a-4a57-9a89-1e0e7b7d0003
            name: Article
            contentType: article
users:
  - id: 10
    key: 6f2a7a5e-0c1b-4d9e-8f3a-2b1c0d9e8f10
    name: Zoe
    email: zoe@example.com
  - id: 11
    key: 6f2a7a5e-0c1b-4d9e-8f3a-2b1c0d9e8f11
    name: Adam
    approved: false
dictionary:
  feedback:
    ratingPositive:
      en-US: Positive
      da: Positiv
`

var (
	siteKey    = uuid.MustParse("0b7c1f34-1d3a-4a57-9a89-1e0e7b7d0001")
	articleKey = uuid.MustParse("0b7c1f34-1d3a-4a57-9a89-1e0e7b7d0003")
)

func mustTree(t *testing.T) *Tree {
	t.Helper()
	tree, err := ParseTree([]byte(sampleYAML))
	require.NoError(t, err)
	return tree
}

func TestParseTree_Settings(t *testing.T) {
	tree := mustTree(t)
	s := tree.Settings()
	assert.Equal(t, []string{"site"}, s.SiteContentTypes)
	assert.Equal(t, []string{"page", "article"}, s.PageContentTypes)
	assert.Nil(t, s.Statuses)
}

func TestTree_GetNodeByKey(t *testing.T) {
	tree := mustTree(t)

	n, err := tree.GetNodeByKey(context.Background(), siteKey)
	require.NoError(t, err)
	assert.Equal(t, "Main site", n.Name)
	assert.True(t, n.HasDomains())

	_, err = tree.GetNodeByKey(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, common.ErrPageNotFound))
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestTree_GetAncestorsIsSelfInclusive(t *testing.T) {
	tree := mustTree(t)
	ctx := context.Background()

	n, err := tree.GetNodeByKey(ctx, articleKey)
	require.NoError(t, err)

	chain, err := tree.GetAncestors(ctx, n)
	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{chain[0].ID, chain[1].ID, chain[2].ID})
}

func TestTree_ListUsersSkipsUnapproved(t *testing.T) {
	tree := mustTree(t)
	users, err := tree.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Zoe", users[0].Name)
}

func TestTree_Localize(t *testing.T) {
	tree := mustTree(t)

	s, ok := tree.Localize("feedback", "ratingPositive", "en-US")
	assert.True(t, ok)
	assert.Equal(t, "Positive", s)

	s, ok = tree.Localize("feedback", "ratingPositive", "da-DK")
	assert.True(t, ok)
	assert.Equal(t, "Positiv", s)

	_, ok = tree.Localize("feedback", "ratingPositive", "de-DE")
	assert.False(t, ok)
	_, ok = tree.Localize("feedback", "statusNew", "en-US")
	assert.False(t, ok)
}

func TestParseTree_Errors(t *testing.T) {
	_, err := ParseTree([]byte("nodes: [ {name: a} ]"))
	assert.Error(t, err)

	dup := `
nodes:
  - key: 0b7c1f34-1d3a-4a57-9a89-1e0e7b7d0001
  - key: 0b7c1f34-1d3a-4a57-9a89-1e0e7b7d0001
`
	_, err = ParseTree([]byte(dup))
	assert.Error(t, err)

	_, err = ParseTree([]byte("nodes: {"))
	assert.Error(t, err)
}

func TestLoadTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	tree, err := LoadTree(path)
	require.NoError(t, err)
	_, err = tree.GetNodeByKey(context.Background(), siteKey)
	assert.NoError(t, err)

	_, err = LoadTree(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
