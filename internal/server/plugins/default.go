package plugins

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophfeedback/internal/common"
	"github.com/dmitrijs2005/gophfeedback/internal/server/content"
	"github.com/dmitrijs2005/gophfeedback/internal/server/models"
	"github.com/dmitrijs2005/gophfeedback/internal/server/sites"
	"github.com/google/uuid"
)

// DefaultName is the name of the built-in plugin.
const DefaultName = "default"

// Default resolves sites through the content tree and users through the
// user directory. It never vetoes anything.
type Default struct {
	Base
	resolver *sites.Resolver
	users    content.UserDirectory
}

func NewDefault(r *sites.Resolver, users content.UserDirectory) *Default {
	return &Default{resolver: r, users: users}
}

func (d *Default) Name() string { return DefaultName }

func (d *Default) SiteByKey(ctx context.Context, siteKey uuid.UUID) (*models.Site, error) {
	return d.resolver.ResolveByKey(ctx, siteKey)
}

func (d *Default) SiteByPage(ctx context.Context, pageKey uuid.UUID) (*models.Site, error) {
	return d.resolver.ResolveByPage(ctx, pageKey)
}

func (d *Default) Users(ctx context.Context) ([]models.User, error) {
	users, err := d.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (d *Default) UserByKey(ctx context.Context, key uuid.UUID) (*models.User, error) {
	return d.find(ctx, func(u *models.User) bool { return u.Key == key })
}

func (d *Default) UserByID(ctx context.Context, id int) (*models.User, error) {
	return d.find(ctx, func(u *models.User) bool { return u.ID == id })
}

func (d *Default) find(ctx context.Context, match func(*models.User) bool) (*models.User, error) {
	users, err := d.Users(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if match(&users[i]) {
			return &users[i], nil
		}
	}
	return nil, common.ErrUserNotFound
}
