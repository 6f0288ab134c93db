// Package models defines the feedback domain types shared by the service,
// the repositories and the transport layer.
package models

import (
	"time"

	"github.com/google/uuid"
)

// EntryType is the category an entry falls into for filtering.
type EntryType string

const (
	EntryTypeAll     EntryType = "all"
	EntryTypeRating  EntryType = "rating"
	EntryTypeComment EntryType = "comment"
)

// ParseEntryType maps a loosely formatted value to an EntryType.
// Unknown and empty values fall back to EntryTypeAll.
func ParseEntryType(s string) EntryType {
	switch EntryType(s) {
	case EntryTypeRating, EntryTypeComment:
		return EntryType(s)
	default:
		return EntryTypeAll
	}
}

// Entry is a single feedback submission tied to a page of a site.
type Entry struct {
	// ID is the store-assigned row identity. It grows with insertion order.
	ID int64

	Key     uuid.UUID
	SiteKey uuid.UUID
	PageKey uuid.UUID

	// Name, Email and Comment are nil when the visitor left them blank.
	Name    *string
	Email   *string
	Comment *string

	Rating uuid.UUID
	Status uuid.UUID

	CreateDate time.Time
	UpdateDate time.Time

	AssignedTo uuid.NullUUID
	Archived   bool
}

// Type reports whether the entry carries a comment or only a rating.
func (e *Entry) Type() EntryType {
	if e.Comment != nil {
		return EntryTypeComment
	}
	return EntryTypeRating
}

// Clone returns a shallow copy whose optional string fields do not alias e.
func (e *Entry) Clone() *Entry {
	c := *e
	c.Name = cloneString(e.Name)
	c.Email = cloneString(e.Email)
	c.Comment = cloneString(e.Comment)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
