package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		field          string
		message        string
		cause          error
		expectedString string
	}{
		{
			name:           "with field",
			field:          "routes[0].pattern",
			message:        "pattern is required",
			expectedString: "config error at routes[0].pattern: pattern is required",
		},
		{
			name:           "without field",
			message:        "invalid configuration",
			expectedString: "config error: invalid configuration",
		},
		{
			name:           "with cause",
			field:          "logging.level",
			message:        "invalid level",
			cause:          errors.New("unknown level"),
			expectedString: "config error at logging.level: invalid level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var err *ConfigError
			if tt.cause != nil {
				err = NewConfigErrorWithCause(tt.field, tt.message, tt.cause)
			} else {
				err = NewConfigError(tt.field, tt.message)
			}

			assert.Equal(t, tt.expectedString, err.Error())
			assert.Equal(t, tt.cause, err.Unwrap())
			assert.True(t, errors.Is(err, ErrConfigInvalid))
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := NewValidationError("invalid routes config")
	assert.False(t, err.HasErrors())
	assert.Equal(t, "validation error: invalid routes config", err.Error())

	err.AddField("routes[1].pattern", "must start with /")
	assert.True(t, err.HasErrors())
	assert.Contains(t, err.Error(), "routes[1].pattern")
	assert.True(t, errors.Is(err, ErrConfigInvalid))
	assert.True(t, errors.Is(err, &ValidationError{}))

	var nilFields ValidationError
	nilFields.AddField("a", "b")
	assert.Equal(t, "b", nilFields.Fields["a"])
}

func TestCompileError(t *testing.T) {
	t.Parallel()

	err := NewCompileError("/users/:id/:id", "id", "duplicate token")
	assert.Equal(t, `compile route "/users/:id/:id" token "id": duplicate token`, err.Error())
	assert.True(t, errors.Is(err, ErrCompile))
	assert.False(t, errors.Is(err, ErrAmbiguousToken))

	cause := errors.New("missing closing )")
	withCause := NewCompileErrorWithCause("/p/:sku", "sku", "invalid regex", cause)
	assert.Contains(t, withCause.Error(), "missing closing )")
	assert.True(t, errors.Is(withCause, cause))
	assert.Equal(t, cause, withCause.Unwrap())

	noToken := NewCompileError("", "", "pattern is empty")
	assert.Equal(t, `compile route "": pattern is empty`, noToken.Error())
}

func TestAmbiguousTokenError(t *testing.T) {
	t.Parallel()

	err := NewAmbiguousTokenError("/p/:sku", "sku", "(a)(b)", 2)
	assert.Contains(t, err.Error(), "2 capturing groups")
	assert.True(t, errors.Is(err, ErrAmbiguousToken))
	assert.True(t, errors.Is(err, ErrCompile))

	var target *AmbiguousTokenError
	wrapped := fmt.Errorf("register: %w", err)
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "sku", target.Token)
}

func TestRouteNotFoundError(t *testing.T) {
	t.Parallel()

	err := NewRouteNotFoundError("/nowhere/at/all/really")
	assert.Equal(t, "no match for route /nowhere/at/all/really", err.Error())
	assert.True(t, errors.Is(err, ErrNoRouteMatch))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsClientError(err))
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	assert.Nil(t, WrapError(nil, "context"))

	err := WrapError(ErrTableSealed, "register /users")
	assert.Equal(t, "register /users: route table is sealed", err.Error())
	assert.True(t, errors.Is(err, ErrTableSealed))
}

func TestIsClientError(t *testing.T) {
	t.Parallel()

	assert.False(t, IsClientError(nil))
	assert.True(t, IsClientError(ErrInvalidInput))
	assert.False(t, IsClientError(ErrTableSealed))
}
