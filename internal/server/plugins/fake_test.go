package plugins

import (
	"context"

	"github.com/dmitrijs2005/gophfeedback/internal/server/models"
	"github.com/google/uuid"
)

// fakePlugin records invocations into a shared log and lets each test
// override individual hooks.
type fakePlugin struct {
	Base
	name string
	log  *[]string

	submitting func(*EntryArgs) (bool, error)
	submitted  func(*models.Entry) error
	changing   func(models.Status) (bool, error)
	changed    func() error
	assigning  func(*models.User) (bool, error)
	users      []models.User
	usersErr   error
	site       *models.Site
	siteErr    error
}

func (f *fakePlugin) Name() string { return f.name }

func (f *fakePlugin) record(hook string) {
	if f.log != nil {
		*f.log = append(*f.log, f.name+"."+hook)
	}
}

func (f *fakePlugin) EntrySubmitting(ctx context.Context, args *EntryArgs) (bool, error) {
	f.record("EntrySubmitting")
	if f.submitting != nil {
		return f.submitting(args)
	}
	return true, nil
}

func (f *fakePlugin) EntrySubmitted(ctx context.Context, e *models.Entry) error {
	f.record("EntrySubmitted")
	if f.submitted != nil {
		return f.submitted(e)
	}
	return nil
}

func (f *fakePlugin) StatusChanging(ctx context.Context, e *models.Entry, st models.Status) (bool, error) {
	f.record("StatusChanging")
	if f.changing != nil {
		return f.changing(st)
	}
	return true, nil
}

func (f *fakePlugin) StatusChanged(ctx context.Context, e *models.Entry, old models.StatusRef, st models.Status) error {
	f.record("StatusChanged")
	if f.changed != nil {
		return f.changed()
	}
	return nil
}

func (f *fakePlugin) UserAssigning(ctx context.Context, e *models.Entry, u *models.User) (bool, error) {
	f.record("UserAssigning")
	if f.assigning != nil {
		return f.assigning(u)
	}
	return true, nil
}

func (f *fakePlugin) UserAssigned(ctx context.Context, e *models.Entry, old, u *models.User) error {
	f.record("UserAssigned")
	return nil
}

func (f *fakePlugin) SiteByKey(ctx context.Context, key uuid.UUID) (*models.Site, error) {
	f.record("SiteByKey")
	if f.site == nil && f.siteErr == nil {
		return f.Base.SiteByKey(ctx, key)
	}
	return f.site, f.siteErr
}

func (f *fakePlugin) Users(ctx context.Context) ([]models.User, error) {
	return f.users, f.usersErr
}

func (f *fakePlugin) UserByKey(ctx context.Context, key uuid.UUID) (*models.User, error) {
	for i := range f.users {
		if f.users[i].Key == key {
			return &f.users[i], nil
		}
	}
	return f.Base.UserByKey(ctx, key)
}
