// Package common defines sentinel errors shared by the feedback server
// layers. Callers should use errors.Is / errors.As to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Lookup failures. Each wraps ErrorNotFound.
	ErrSiteNotFound   = fmt.Errorf("site %w", ErrorNotFound)
	ErrPageNotFound   = fmt.Errorf("page %w", ErrorNotFound)
	ErrEntryNotFound  = fmt.Errorf("entry %w", ErrorNotFound)
	ErrRatingNotFound = fmt.Errorf("rating %w", ErrorNotFound)
	ErrStatusNotFound = fmt.Errorf("status %w", ErrorNotFound)
	ErrUserNotFound   = fmt.Errorf("user %w", ErrorNotFound)

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Validation errors.
	ErrorInvalidArgument = errors.New("invalid argument")

	// ErrConfiguration is matched by every *ConfigurationError.
	ErrConfiguration = errors.New("configuration error")
)

// ConfigurationError reports a developer/operator misconfiguration, such as a
// site that does not define any statuses. It is not recoverable at the call site.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Msg
}

// Is makes errors.Is(err, ErrConfiguration) hold for any ConfigurationError.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
