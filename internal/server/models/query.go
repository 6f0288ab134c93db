package models

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// SortField names the column entries are ordered by.
type SortField string

const (
	SortByCreateDate SortField = "createDate"
	SortByRating     SortField = "rating"
	SortByStatus     SortField = "status"
)

// SortOrder is the direction of a sort. The empty value means "field default".
type SortOrder string

const (
	SortDefault SortOrder = ""
	SortAsc     SortOrder = "asc"
	SortDesc    SortOrder = "desc"
)

// DefaultPerPage is the page size used when none is requested.
const DefaultPerPage = 10

// MaxPerPage caps the page size a caller can ask for.
const MaxPerPage = 1000

// ParseSortField parses a case-insensitive field name, defaulting to create date.
func ParseSortField(s string) SortField {
	switch strings.ToLower(s) {
	case "rating":
		return SortByRating
	case "status":
		return SortByStatus
	default:
		return SortByCreateDate
	}
}

// ParseSortOrder parses a case-insensitive order. Unknown values keep the field default.
func ParseSortOrder(s string) SortOrder {
	switch strings.ToLower(s) {
	case "asc", "ascending":
		return SortAsc
	case "desc", "descending":
		return SortDesc
	default:
		return SortDefault
	}
}

// GetEntriesOptions describes a filtered, sorted and paginated entry query.
// Nil filters are ignored.
type GetEntriesOptions struct {
	SiteKey    *uuid.UUID
	PageKey    *uuid.UUID
	Rating     *uuid.UUID
	Status     *uuid.UUID
	AssignedTo *uuid.UUID
	Archived   *bool
	Type       EntryType

	SortField SortField
	SortOrder SortOrder

	// Page is 1-indexed.
	Page    int
	PerPage int
}

// Normalize fills in defaults: create date sorting, page 1 and the given page size.
func (o GetEntriesOptions) Normalize(defaultPerPage int) GetEntriesOptions {
	if o.SortField == "" {
		o.SortField = SortByCreateDate
	}
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PerPage < 1 {
		o.PerPage = defaultPerPage
	}
	if o.PerPage < 1 {
		o.PerPage = DefaultPerPage
	}
	o.PerPage = min(o.PerPage, MaxPerPage)
	if o.Type == "" {
		o.Type = EntryTypeAll
	}
	return o
}

// Descending reports the effective direction: explicit order wins, otherwise
// create date sorts newest first while rating and status sort ascending.
func (o GetEntriesOptions) Descending() bool {
	switch o.SortOrder {
	case SortAsc:
		return false
	case SortDesc:
		return true
	}
	return o.SortField == SortByCreateDate || o.SortField == ""
}

// Offset is the number of entries preceding the requested page. It
// saturates at math.MaxInt, which is past the end of any result set.
func (o GetEntriesOptions) Offset() int {
	return offset(o.Page, o.PerPage)
}

func offset(page, perPage int) int {
	if page < 1 || perPage < 1 {
		return 0
	}
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}

// ResolvedEntry is an entry decorated with its site and the current
// configuration its references point to.
type ResolvedEntry struct {
	*Entry

	// Site is nil when the entry's site no longer resolves.
	Site       *Site
	Rating     RatingRef
	Status     StatusRef
	AssignedTo *User
}

// EntryList is one page of query results.
type EntryList struct {
	Page      int
	PerPage   int
	Total     int
	SortField SortField
	SortOrder SortOrder
	Entries   []*ResolvedEntry
}

// Pages is the number of pages needed to hold Total entries.
func (l *EntryList) Pages() int {
	if l.PerPage < 1 || l.Total == 0 {
		return 0
	}
	n := l.Total / l.PerPage
	if l.Total%l.PerPage != 0 {
		n++
	}
	return n
}

// Offset is the number of entries preceding this page.
func (l *EntryList) Offset() int {
	return offset(l.Page, l.PerPage)
}
