package models

import "github.com/google/uuid"

// NotFoundAlias is the alias reported by placeholder references.
const NotFoundAlias = "not-found"

// Ref is a rating or status reference read back from a stored entry.
// It either holds the configured value or, when the site no longer
// configures the key, a placeholder that only remembers the key.
type Ref[T Rating | Status] struct {
	key      uuid.UUID
	value    T
	resolved bool
}

type (
	RatingRef = Ref[Rating]
	StatusRef = Ref[Status]
)

// Resolved wraps a configured value.
func Resolved[T Rating | Status](key uuid.UUID, v T) Ref[T] {
	return Ref[T]{key: key, value: v, resolved: true}
}

// Missing builds a placeholder for a key the site no longer configures.
func Missing[T Rating | Status](key uuid.UUID) Ref[T] {
	return Ref[T]{key: key}
}

// Key is the referenced key. Placeholders keep the original stored key.
func (r Ref[T]) Key() uuid.UUID { return r.key }

// Get returns the configured value and true, or the zero value and false
// for a placeholder.
func (r Ref[T]) Get() (T, bool) { return r.value, r.resolved }

// IsMissing reports whether r is a placeholder.
func (r Ref[T]) IsMissing() bool { return !r.resolved }

// Alias returns the configured alias, or NotFoundAlias for a placeholder.
func (r Ref[T]) Alias() string {
	if !r.resolved {
		return NotFoundAlias
	}
	switch v := any(r.value).(type) {
	case Rating:
		return v.Alias
	case Status:
		return v.Alias
	}
	return NotFoundAlias
}

// Name returns the configured display name. Placeholders have no name.
func (r Ref[T]) Name() string {
	if !r.resolved {
		return ""
	}
	switch v := any(r.value).(type) {
	case Rating:
		return v.Name
	case Status:
		return v.Name
	}
	return ""
}

// ResolveRating resolves key against the site's current ratings.
// A nil site yields a placeholder.
func ResolveRating(site *Site, key uuid.UUID) RatingRef {
	if site != nil {
		if r, ok := site.Rating(key); ok {
			return Resolved(key, r)
		}
	}
	return Missing[Rating](key)
}

// ResolveStatus resolves key against the site's current statuses.
// A nil site yields a placeholder.
func ResolveStatus(site *Site, key uuid.UUID) StatusRef {
	if site != nil {
		if st, ok := site.Status(key); ok {
			return Resolved(key, st)
		}
	}
	return Missing[Status](key)
}
