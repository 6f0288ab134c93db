package plugins

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/gophfeedback/internal/common"
	"github.com/dmitrijs2005/gophfeedback/internal/logging"
	"github.com/dmitrijs2005/gophfeedback/internal/server/models"
	"github.com/google/uuid"
)

// Chain runs plugins in registration order.
//
// Plugins are registered at startup; after that the chain is read-only and
// safe for concurrent use.
type Chain struct {
	plugins []Plugin
	logger  logging.Logger
}

func NewChain(logger logging.Logger, plugins ...Plugin) *Chain {
	return &Chain{
		plugins: slices.Clone(plugins),
		logger:  logger.With("module", "plugins"),
	}
}

// Register appends p. It must not be called once the chain is serving requests.
func (c *Chain) Register(p Plugin) {
	c.plugins = append(c.plugins, p)
}

// Plugins returns the registered plugins in invocation order.
func (c *Chain) Plugins() []Plugin {
	return slices.Clone(c.plugins)
}

// call runs one hook, turning a panic into an error.
func call[T any](p Plugin, fn func(Plugin) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("plugin %s panicked: %v", p.Name(), r)
		}
	}()
	return fn(p)
}

// before runs a gated hook. The first plugin returning false cancels the
// operation and stops the chain. A failing plugin counts as allowing it.
func (c *Chain) before(ctx context.Context, hook string, fn func(Plugin) (bool, error)) bool {
	for _, p := range c.plugins {
		ok, err := call(p, fn)
		if err != nil {
			c.logger.Error(ctx, "plugin hook failed", "plugin", p.Name(), "hook", hook, "error", err)
			continue
		}
		if !ok {
			c.logger.Info(ctx, "operation cancelled by plugin", "plugin", p.Name(), "hook", hook)
			return false
		}
	}
	return true
}

// after runs a notification hook on every plugin. Failures are logged only.
func (c *Chain) after(ctx context.Context, hook string, fn func(Plugin) error) {
	for _, p := range c.plugins {
		_, err := call(p, func(p Plugin) (struct{}, error) { return struct{}{}, fn(p) })
		if err != nil {
			c.logger.Error(ctx, "plugin hook failed", "plugin", p.Name(), "hook", hook, "error", err)
		}
	}
}

func (c *Chain) EntrySubmitting(ctx context.Context, args *EntryArgs) bool {
	return c.before(ctx, "EntrySubmitting", func(p Plugin) (bool, error) { return p.EntrySubmitting(ctx, args) })
}

func (c *Chain) EntrySubmitted(ctx context.Context, entry *models.Entry) {
	c.after(ctx, "EntrySubmitted", func(p Plugin) error { return p.EntrySubmitted(ctx, entry) })
}

func (c *Chain) EntryUpdating(ctx context.Context, args *EntryArgs) bool {
	return c.before(ctx, "EntryUpdating", func(p Plugin) (bool, error) { return p.EntryUpdating(ctx, args) })
}

func (c *Chain) EntryUpdated(ctx context.Context, entry *models.Entry) {
	c.after(ctx, "EntryUpdated", func(p Plugin) error { return p.EntryUpdated(ctx, entry) })
}

func (c *Chain) StatusChanging(ctx context.Context, entry *models.Entry, newStatus models.Status) bool {
	return c.before(ctx, "StatusChanging", func(p Plugin) (bool, error) { return p.StatusChanging(ctx, entry, newStatus) })
}

func (c *Chain) StatusChanged(ctx context.Context, entry *models.Entry, oldStatus models.StatusRef, newStatus models.Status) {
	c.after(ctx, "StatusChanged", func(p Plugin) error { return p.StatusChanged(ctx, entry, oldStatus, newStatus) })
}

func (c *Chain) UserAssigning(ctx context.Context, entry *models.Entry, newUser *models.User) bool {
	return c.before(ctx, "UserAssigning", func(p Plugin) (bool, error) { return p.UserAssigning(ctx, entry, newUser) })
}

func (c *Chain) UserAssigned(ctx context.Context, entry *models.Entry, oldUser, newUser *models.User) {
	c.after(ctx, "UserAssigned", func(p Plugin) error { return p.UserAssigned(ctx, entry, oldUser, newUser) })
}

// first returns the first successful lookup. Not-found answers move on to
// the next plugin; other failures are logged and reported only when no
// plugin answers.
func first[T any](ctx context.Context, c *Chain, lookup string, notFound error, fn func(Plugin) (*T, error)) (*T, error) {
	var lastErr error
	for _, p := range c.plugins {
		v, err := call(p, fn)
		if err == nil && v != nil {
			return v, nil
		}
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			c.logger.Warn(ctx, "plugin lookup failed", "plugin", p.Name(), "lookup", lookup, "error", err)
			lastErr = err
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%s: %w", lookup, lastErr)
	}
	return nil, notFound
}

func (c *Chain) SiteByKey(ctx context.Context, siteKey uuid.UUID) (*models.Site, error) {
	return first(ctx, c, "SiteByKey", common.ErrSiteNotFound, func(p Plugin) (*models.Site, error) {
		return p.SiteByKey(ctx, siteKey)
	})
}

func (c *Chain) SiteByPage(ctx context.Context, pageKey uuid.UUID) (*models.Site, error) {
	return first(ctx, c, "SiteByPage", common.ErrSiteNotFound, func(p Plugin) (*models.Site, error) {
		return p.SiteByPage(ctx, pageKey)
	})
}

func (c *Chain) UserByKey(ctx context.Context, key uuid.UUID) (*models.User, error) {
	return first(ctx, c, "UserByKey", common.ErrUserNotFound, func(p Plugin) (*models.User, error) {
		return p.UserByKey(ctx, key)
	})
}

func (c *Chain) UserByID(ctx context.Context, id int) (*models.User, error) {
	return first(ctx, c, "UserByID", common.ErrUserNotFound, func(p Plugin) (*models.User, error) {
		return p.UserByID(ctx, id)
	})
}

// Users merges every plugin's users, keeping the first occurrence of each
// key, ordered by name.
func (c *Chain) Users(ctx context.Context) []models.User {
	seen := make(map[uuid.UUID]struct{})
	var result []models.User
	for _, p := range c.plugins {
		users, err := call(p, func(p Plugin) ([]models.User, error) { return p.Users(ctx) })
		if err != nil {
			c.logger.Warn(ctx, "plugin lookup failed", "plugin", p.Name(), "lookup", "Users", "error", err)
			continue
		}
		for _, u := range users {
			if _, dup := seen[u.Key]; dup {
				continue
			}
			seen[u.Key] = struct{}{}
			result = append(result, u)
		}
	}
	slices.SortStableFunc(result, func(a, b models.User) int { return strings.Compare(a.Name, b.Name) })
	return result
}
