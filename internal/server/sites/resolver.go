// Package sites maps content nodes to the feedback site that governs them.
package sites

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/gophfeedback/internal/common"
	"github.com/dmitrijs2005/gophfeedback/internal/server/content"
	"github.com/dmitrijs2005/gophfeedback/internal/server/models"
	"github.com/google/uuid"
)

// Settings controls which content types act as sites and pages, and the
// ratings and statuses sites get unless a site node overrides them.
type Settings struct {
	SiteContentTypes []string
	PageContentTypes []string
	Ratings          []models.Rating
	Statuses         []models.Status
}

// DefaultSettings treats "site" nodes as sites and uses the built-in
// ratings and statuses.
func DefaultSettings() Settings {
	return Settings{
		SiteContentTypes: []string{"site"},
		Ratings:          models.DefaultRatings(),
		Statuses:         models.DefaultStatuses(),
	}
}

// SettingsFrom takes the settings of a content file, keeping the defaults
// for anything it leaves out.
func SettingsFrom(fs content.FeedbackSettings) Settings {
	s := DefaultSettings()
	if len(fs.SiteContentTypes) > 0 {
		s.SiteContentTypes = fs.SiteContentTypes
	}
	s.PageContentTypes = fs.PageContentTypes
	if len(fs.Ratings) > 0 {
		s.Ratings = fs.Ratings
	}
	if len(fs.Statuses) > 0 {
		s.Statuses = fs.Statuses
	}
	return s
}

// Resolver resolves sites through a content provider.
type Resolver struct {
	provider content.Provider
	settings Settings
}

// NewResolver builds a resolver. Nil ratings or statuses fall back to the defaults.
func NewResolver(p content.Provider, s Settings) *Resolver {
	if s.Ratings == nil {
		s.Ratings = models.DefaultRatings()
	}
	if s.Statuses == nil {
		s.Statuses = models.DefaultStatuses()
	}
	return &Resolver{provider: p, settings: s}
}

// ResolveByPage walks from the page up to the root and returns the first
// node whose content type is a site content type.
func (r *Resolver) ResolveByPage(ctx context.Context, pageKey uuid.UUID) (*models.Site, error) {
	page, err := r.provider.GetNodeByKey(ctx, pageKey)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrPageNotFound
		}
		return nil, fmt.Errorf("get page %s: %w", pageKey, err)
	}

	chain, err := r.provider.GetAncestors(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("get ancestors of %s: %w", pageKey, err)
	}

	for i := range chain {
		if r.IsSite(&chain[i]) {
			return r.site(&chain[i]), nil
		}
	}
	return nil, common.ErrSiteNotFound
}

// ResolveByKey returns the site rooted at siteKey. The node must have at
// least one domain bound to it.
func (r *Resolver) ResolveByKey(ctx context.Context, siteKey uuid.UUID) (*models.Site, error) {
	node, err := r.provider.GetNodeByKey(ctx, siteKey)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrSiteNotFound
		}
		return nil, fmt.Errorf("get site %s: %w", siteKey, err)
	}
	if !node.HasDomains() {
		return nil, common.ErrSiteNotFound
	}
	return r.site(node), nil
}

// IsSite reports whether node has a site content type.
func (r *Resolver) IsSite(node *content.Node) bool {
	return slices.Contains(r.settings.SiteContentTypes, node.ContentType)
}

// IsPage reports whether node may receive feedback. With no page content
// types configured every node qualifies.
func (r *Resolver) IsPage(node *content.Node) bool {
	if len(r.settings.PageContentTypes) == 0 {
		return true
	}
	return slices.Contains(r.settings.PageContentTypes, node.ContentType)
}

func (r *Resolver) site(node *content.Node) *models.Site {
	ratings := node.Ratings
	if ratings == nil {
		ratings = r.settings.Ratings
	}
	statuses := node.Statuses
	if statuses == nil {
		statuses = r.settings.Statuses
	}
	return &models.Site{
		ID:       node.ID,
		Key:      node.Key,
		Name:     node.Name,
		Ratings:  slices.Clone(ratings),
		Statuses: slices.Clone(statuses),
	}
}
