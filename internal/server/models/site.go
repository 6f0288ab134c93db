package models

import (
	"github.com/dmitrijs2005/gophfeedback/internal/common"
	"github.com/google/uuid"
)

// Rating is a sentiment a visitor picks when submitting feedback.
type Rating struct {
	Key    uuid.UUID `yaml:"key"`
	Alias  string    `yaml:"alias"`
	Name   string    `yaml:"name"`
	Active bool      `yaml:"active"`
}

// Status is a triage state of an entry.
type Status struct {
	Key    uuid.UUID `yaml:"key"`
	Alias  string    `yaml:"alias"`
	Name   string    `yaml:"name"`
	Active bool      `yaml:"active"`
}

var (
	RatingPositive = Rating{Key: uuid.MustParse("a2b6e5a0-3f1c-4c55-9b47-0f1a2d6d8c01"), Alias: "positive", Active: true}
	RatingNegative = Rating{Key: uuid.MustParse("a2b6e5a0-3f1c-4c55-9b47-0f1a2d6d8c02"), Alias: "negative", Active: true}

	StatusNew        = Status{Key: uuid.MustParse("5c1d9e2b-7a43-4e0f-8d6a-3b2c1f0e9d01"), Alias: "new", Active: true}
	StatusInProgress = Status{Key: uuid.MustParse("5c1d9e2b-7a43-4e0f-8d6a-3b2c1f0e9d02"), Alias: "inProgress", Active: true}
	StatusClosed     = Status{Key: uuid.MustParse("5c1d9e2b-7a43-4e0f-8d6a-3b2c1f0e9d03"), Alias: "closed", Active: true}
)

// DefaultRatings returns a fresh copy of the built-in ratings.
func DefaultRatings() []Rating {
	return []Rating{RatingPositive, RatingNegative}
}

// DefaultStatuses returns a fresh copy of the built-in statuses.
// The first one is assigned to new entries.
func DefaultStatuses() []Status {
	return []Status{StatusNew, StatusInProgress, StatusClosed}
}

// Site is the feedback configuration of a content subtree root.
type Site struct {
	ID       int
	Key      uuid.UUID
	Name     string
	Ratings  []Rating
	Statuses []Status
}

// Rating looks up a configured rating by key.
func (s *Site) Rating(key uuid.UUID) (Rating, bool) {
	for _, r := range s.Ratings {
		if r.Key == key {
			return r, true
		}
	}
	return Rating{}, false
}

// RatingByAlias looks up a configured rating by alias.
func (s *Site) RatingByAlias(alias string) (Rating, bool) {
	for _, r := range s.Ratings {
		if r.Alias == alias {
			return r, true
		}
	}
	return Rating{}, false
}

// Status looks up a configured status by key.
func (s *Site) Status(key uuid.UUID) (Status, bool) {
	for _, st := range s.Statuses {
		if st.Key == key {
			return st, true
		}
	}
	return Status{}, false
}

// DefaultStatus returns the status assigned to new entries.
func (s *Site) DefaultStatus() (Status, error) {
	if len(s.Statuses) == 0 {
		return Status{}, &common.ConfigurationError{Msg: "site " + s.Key.String() + " does not specify any statuses"}
	}
	return s.Statuses[0], nil
}
