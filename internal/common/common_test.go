package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	t.Run("valid combinations", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			for _, format := range []string{"console", "json"} {
				assert.NoError(t, SetupLogger(level, format))
			}
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		err := SetupLogger("verbose", "console")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("invalid format", func(t *testing.T) {
		err := SetupLogger("info", "xml")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestUserError(t *testing.T) {
	cause := errors.New("boom")
	err := NewUserError("could not detect the statement format", cause)

	assert.Contains(t, err.Error(), "could not detect the statement format")
	assert.ErrorIs(t, err, cause)

	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "could not detect the statement format", userErr.UserMessage)
}
