// Package plugins defines the extension points run around every entry
// mutation and the ordered chain that dispatches them.
package plugins

import (
	"context"

	"github.com/dmitrijs2005/gophfeedback/internal/common"
	"github.com/dmitrijs2005/gophfeedback/internal/server/models"
	"github.com/google/uuid"
)

// EntryArgs is passed to the submitting and updating hooks. A plugin that
// vetoes the operation may set Message and StatusCode to explain why.
type EntryArgs struct {
	Entry      *models.Entry
	Site       *models.Site
	Message    string
	StatusCode int
}

// Plugin is the capability set of a feedback extension.
//
// Before-stage hooks (EntrySubmitting, EntryUpdating, StatusChanging,
// UserAssigning) return false to cancel the operation. Errors returned by
// any hook are logged and never reach the caller. Lookups return an error
// wrapping common.ErrorNotFound when the plugin cannot answer.
type Plugin interface {
	Name() string

	EntrySubmitting(ctx context.Context, args *EntryArgs) (bool, error)
	EntrySubmitted(ctx context.Context, entry *models.Entry) error

	EntryUpdating(ctx context.Context, args *EntryArgs) (bool, error)
	EntryUpdated(ctx context.Context, entry *models.Entry) error

	StatusChanging(ctx context.Context, entry *models.Entry, newStatus models.Status) (bool, error)
	StatusChanged(ctx context.Context, entry *models.Entry, oldStatus models.StatusRef, newStatus models.Status) error

	// newUser is nil when the entry is being unassigned.
	UserAssigning(ctx context.Context, entry *models.Entry, newUser *models.User) (bool, error)
	UserAssigned(ctx context.Context, entry *models.Entry, oldUser, newUser *models.User) error

	SiteByKey(ctx context.Context, siteKey uuid.UUID) (*models.Site, error)
	SiteByPage(ctx context.Context, pageKey uuid.UUID) (*models.Site, error)

	Users(ctx context.Context) ([]models.User, error)
	UserByKey(ctx context.Context, key uuid.UUID) (*models.User, error)
	UserByID(ctx context.Context, id int) (*models.User, error)
}

// Base implements every hook as "allow" and every lookup as "not found".
// Plugins embed it and override what they need.
type Base struct{}

func (Base) EntrySubmitting(context.Context, *EntryArgs) (bool, error) { return true, nil }
func (Base) EntrySubmitted(context.Context, *models.Entry) error       { return nil }
func (Base) EntryUpdating(context.Context, *EntryArgs) (bool, error)   { return true, nil }
func (Base) EntryUpdated(context.Context, *models.Entry) error         { return nil }

func (Base) StatusChanging(context.Context, *models.Entry, models.Status) (bool, error) {
	return true, nil
}

func (Base) StatusChanged(context.Context, *models.Entry, models.StatusRef, models.Status) error {
	return nil
}

func (Base) UserAssigning(context.Context, *models.Entry, *models.User) (bool, error) {
	return true, nil
}

func (Base) UserAssigned(context.Context, *models.Entry, *models.User, *models.User) error {
	return nil
}

func (Base) SiteByKey(context.Context, uuid.UUID) (*models.Site, error) {
	return nil, common.ErrSiteNotFound
}

func (Base) SiteByPage(context.Context, uuid.UUID) (*models.Site, error) {
	return nil, common.ErrSiteNotFound
}

func (Base) Users(context.Context) ([]models.User, error) { return nil, nil }

func (Base) UserByKey(context.Context, uuid.UUID) (*models.User, error) {
	return nil, common.ErrUserNotFound
}

func (Base) UserByID(context.Context, int) (*models.User, error) {
	return nil, common.ErrUserNotFound
}
