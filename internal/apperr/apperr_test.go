package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"taskflow/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindsUnwrap(t *testing.T) {
	cases := []struct {
		err  error
		kind error
	}{
		{apperr.NotFound("project", "42"), apperr.ErrNotFound},
		{apperr.Unauthorized(), apperr.ErrUnauthorized},
		{apperr.Conflict("name %q taken", "Alpha"), apperr.ErrConflict},
		{apperr.InvalidState("inactive"), apperr.ErrInvalidState},
		{apperr.InvalidTransition("TODO", "DONE"), apperr.ErrInvalidTransition},
		{apperr.ValidationField("title", "required"), apperr.ErrValidationFailed},
	}

	for _, tc := range cases {
		wrapped := fmt.Errorf("service: %w", tc.err)
		assert.ErrorIs(t, wrapped, tc.kind)
		assert.True(t, apperr.IsExpected(wrapped))
	}
	assert.False(t, apperr.IsExpected(errors.New("connection reset")))
}

func TestInvalidTransitionMessage(t *testing.T) {
	err := apperr.InvalidTransition("TODO", "DONE")

	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "TODO", e.From)
	assert.Equal(t, "DONE", e.To)
	assert.Contains(t, err.Error(), "TODO -> DONE")
}

func TestValidationAggregatesFields(t *testing.T) {
	err := apperr.Validation(map[string]string{
		"title":   "is required",
		"content": "must be at most 1000 characters",
	})

	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Len(t, e.Fields, 2)
	assert.Equal(t, "validation failed: content: must be at most 1000 characters; title: is required", err.Error())
}

func TestNotFoundCarriesEntityAndID(t *testing.T) {
	e, ok := apperr.As(apperr.NotFound("task", 7))
	require.True(t, ok)
	assert.Equal(t, "task", e.Entity)
	assert.Equal(t, "7", e.ID)
	assert.Equal(t, "task not found: 7", e.Error())
}
