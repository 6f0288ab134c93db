// Package services implements the feedback entry lifecycle and the entry
// query engine on top of a repository and a plugin chain.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophfeedback/internal/common"
	"github.com/dmitrijs2005/gophfeedback/internal/logging"
	"github.com/dmitrijs2005/gophfeedback/internal/server/models"
	"github.com/dmitrijs2005/gophfeedback/internal/server/plugins"
	"github.com/dmitrijs2005/gophfeedback/internal/server/repositories/entries"
	"github.com/google/uuid"
)

// EntryService submits, mutates and queries feedback entries. Every mutation
// except Archive and Delete runs the plugin chain around the write.
type EntryService struct {
	repo    entries.Repository
	chain   *plugins.Chain
	logger  logging.Logger
	perPage int
	created bool
	now     func() time.Time
	newKey  func() uuid.UUID
}

type Option func(*EntryService)

// WithCreatedStatus makes successful submissions report 201 instead of 200.
func WithCreatedStatus() Option {
	return func(s *EntryService) { s.created = true }
}

// WithPerPage sets the page size used when a query does not ask for one.
func WithPerPage(n int) Option {
	return func(s *EntryService) {
		if n > 0 {
			s.perPage = n
		}
	}
}

func NewEntryService(repo entries.Repository, chain *plugins.Chain, logger logging.Logger, opts ...Option) *EntryService {
	s := &EntryService{
		repo:    repo,
		chain:   chain,
		logger:  logger.With("module", "entry_service"),
		perPage: models.DefaultPerPage,
		now:     time.Now,
		newKey:  uuid.New,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// nullIfBlank maps empty and whitespace-only values to nil. Other values
// are kept as given.
func nullIfBlank(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func nullIfBlankPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return nullIfBlank(*s)
}

// Submit records a new entry for pageKey on site.
//
// A site without statuses is a configuration error and is returned as an
// error. A plugin veto or a failing write is reported through the result.
func (s *EntryService) Submit(ctx context.Context, site *models.Site, pageKey uuid.UUID, rating models.Rating, name, email, comment string) (*models.EntryResult, error) {
	status, err := site.DefaultStatus()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	entry := &models.Entry{
		Key:        s.newKey(),
		SiteKey:    site.Key,
		PageKey:    pageKey,
		Name:       nullIfBlank(name),
		Email:      nullIfBlank(email),
		Comment:    nullIfBlank(comment),
		Rating:     rating.Key,
		Status:     status.Key,
		CreateDate: now,
		UpdateDate: now,
	}

	args := &plugins.EntryArgs{Entry: entry, Site: site}
	if !s.chain.EntrySubmitting(ctx, args) {
		return models.Cancelled(args.Message, args.StatusCode), nil
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		s.logger.Error(ctx, "unable to add feedback entry", "site", site.Key, "page", pageKey, "error", err)
		return models.Failed(models.FailedMessage), nil
	}

	s.chain.EntrySubmitted(ctx, entry)

	s.logger.Debug(ctx, "feedback entry added", "entry", entry.Key, "site", site.Key, "type", entry.Type())
	if s.created {
		return models.Created(entry), nil
	}
	return models.Success(entry), nil
}

// SubmitRating records a rating without name, email or comment.
func (s *EntryService) SubmitRating(ctx context.Context, site *models.Site, pageKey uuid.UUID, rating models.Rating) (*models.EntryResult, error) {
	return s.Submit(ctx, site, pageKey, rating, "", "", "")
}

// Update saves the edited name, email and comment of entry. Blank values
// are stored as absent. An entry that no longer exists is returned as
// common.ErrEntryNotFound.
func (s *EntryService) Update(ctx context.Context, entry *models.Entry) (*models.EntryResult, error) {
	entry.Name = nullIfBlankPtr(entry.Name)
	entry.Email = nullIfBlankPtr(entry.Email)
	entry.Comment = nullIfBlankPtr(entry.Comment)

	args := &plugins.EntryArgs{Entry: entry}
	if !s.chain.EntryUpdating(ctx, args) {
		return models.Cancelled(args.Message, args.StatusCode), nil
	}

	entry.UpdateDate = s.touch(entry)
	if err := s.repo.Update(ctx, entry); err != nil {
		if errors.Is(err, common.ErrEntryNotFound) {
			return nil, err
		}
		s.logger.Error(ctx, "unable to update feedback entry", "entry", entry.Key, "error", err)
		return models.Failed(models.UpdateFailedMessage), nil
	}

	s.chain.EntryUpdated(ctx, entry)

	return models.Success(entry), nil
}

// touch returns the new update timestamp, never earlier than the creation time.
func (s *EntryService) touch(e *models.Entry) time.Time {
	now := s.now().UTC()
	if now.Before(e.CreateDate) {
		return e.CreateDate
	}
	return now
}

// SetStatus moves the entry with entryKey to newStatus. It reports false
// when a plugin vetoes the change.
func (s *EntryService) SetStatus(ctx context.Context, entryKey uuid.UUID, newStatus models.Status) (bool, error) {
	entry, err := s.repo.GetByKey(ctx, entryKey)
	if err != nil {
		return false, err
	}

	site := s.siteOf(ctx, entry)
	oldStatus := models.ResolveStatus(site, entry.Status)

	if !s.chain.StatusChanging(ctx, entry, newStatus) {
		return false, nil
	}

	entry.Status = newStatus.Key
	entry.UpdateDate = s.touch(entry)
	if err := s.repo.Update(ctx, entry); err != nil {
		return false, fmt.Errorf("set status of %s: %w", entryKey, err)
	}

	s.chain.StatusChanged(ctx, entry, oldStatus, newStatus)
	return true, nil
}

// SetAssignedTo assigns the entry with entryKey to user, or unassigns it
// when user is nil. It reports false when a plugin vetoes the change.
func (s *EntryService) SetAssignedTo(ctx context.Context, entryKey uuid.UUID, user *models.User) (bool, error) {
	entry, err := s.repo.GetByKey(ctx, entryKey)
	if err != nil {
		return false, err
	}

	oldUser := s.userOf(ctx, entry.AssignedTo)

	if !s.chain.UserAssigning(ctx, entry, user) {
		return false, nil
	}

	entry.AssignedTo = uuid.NullUUID{}
	if user != nil {
		entry.AssignedTo = uuid.NullUUID{UUID: user.Key, Valid: true}
	}
	entry.UpdateDate = s.touch(entry)
	if err := s.repo.Update(ctx, entry); err != nil {
		return false, fmt.Errorf("assign %s: %w", entryKey, err)
	}

	s.chain.UserAssigned(ctx, entry, oldUser, user)
	return true, nil
}

// Archive flags the entry with entryKey as archived. No plugin hooks run.
func (s *EntryService) Archive(ctx context.Context, entryKey uuid.UUID) error {
	entry, err := s.repo.GetByKey(ctx, entryKey)
	if err != nil {
		return err
	}
	entry.Archived = true
	if err := s.repo.Update(ctx, entry); err != nil {
		return fmt.Errorf("archive %s: %w", entryKey, err)
	}
	return nil
}

// Delete removes the entry with entryKey. No plugin hooks run.
func (s *EntryService) Delete(ctx context.Context, entryKey uuid.UUID) error {
	if err := s.repo.Delete(ctx, entryKey); err != nil {
		if errors.Is(err, common.ErrEntryNotFound) {
			return err
		}
		return fmt.Errorf("delete %s: %w", entryKey, err)
	}
	return nil
}

func (s *EntryService) siteOf(ctx context.Context, e *models.Entry) *models.Site {
	site, err := s.chain.SiteByKey(ctx, e.SiteKey)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "site lookup failed", "site", e.SiteKey, "error", err)
		}
		return nil
	}
	return site
}

func (s *EntryService) userOf(ctx context.Context, key uuid.NullUUID) *models.User {
	if !key.Valid {
		return nil
	}
	user, err := s.chain.UserByKey(ctx, key.UUID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "user lookup failed", "user", key.UUID, "error", err)
		}
		return nil
	}
	return user
}

func (s *EntryService) SiteByKey(ctx context.Context, siteKey uuid.UUID) (*models.Site, error) {
	return s.chain.SiteByKey(ctx, siteKey)
}

func (s *EntryService) SiteByPage(ctx context.Context, pageKey uuid.UUID) (*models.Site, error) {
	return s.chain.SiteByPage(ctx, pageKey)
}

// Users lists every assignable user, ordered by name.
func (s *EntryService) Users(ctx context.Context) []models.User {
	return s.chain.Users(ctx)
}

func (s *EntryService) UserByKey(ctx context.Context, key uuid.UUID) (*models.User, error) {
	return s.chain.UserByKey(ctx, key)
}

func (s *EntryService) UserByID(ctx context.Context, id int) (*models.User, error) {
	return s.chain.UserByID(ctx, id)
}
