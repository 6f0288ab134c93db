package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundSentinels_WrapErrorNotFound(t *testing.T) {
	for _, err := range []error{
		ErrSiteNotFound, ErrPageNotFound, ErrEntryNotFound,
		ErrRatingNotFound, ErrStatusNotFound, ErrUserNotFound,
	} {
		assert.ErrorIs(t, err, ErrorNotFound, err.Error())
	}
	assert.Equal(t, "site not found", ErrSiteNotFound.Error())
	assert.NotErrorIs(t, ErrSiteNotFound, ErrEntryNotFound)
}

func TestConfigurationError(t *testing.T) {
	var err error = &ConfigurationError{Msg: "site x does not specify any statuses"}
	wrapped := fmt.Errorf("submit: %w", err)

	assert.ErrorIs(t, wrapped, ErrConfiguration)
	assert.Equal(t, "configuration error: site x does not specify any statuses", err.Error())

	var ce *ConfigurationError
	assert.True(t, errors.As(wrapped, &ce))
	assert.Equal(t, "site x does not specify any statuses", ce.Msg)
}
