package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", InvalidInput("email is required"), http.StatusBadRequest},
		{"forbidden", Forbidden("only superadmin"), http.StatusForbidden},
		{"not found", NotFound("slot %d not found", 3), http.StatusNotFound},
		{"storage", Storage(errors.New("connection refused")), http.StatusInternalServerError},
		{"inconsistent", InconsistentState("user exists in identity store but not found"), http.StatusInternalServerError},
		{"partial", PartialFailure("credential removed", "profile removal", errors.New("boom")), http.StatusInternalServerError},
		{"wrapped invalid", fmt.Errorf("reorder: %w", InvalidInput("bad")), http.StatusBadRequest},
		{"plain", errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestStorage_PassesMessageThrough(t *testing.T) {
	base := errors.New("duplicate key value violates unique constraint")
	err := Storage(base)

	require.Error(t, err)
	assert.Equal(t, base.Error(), err.Error())
	assert.ErrorIs(t, err, base)

	// Wrapping twice keeps a single layer.
	assert.Same(t, err, Storage(err))
	assert.NoError(t, Storage(nil))
}

func TestPartialFailure(t *testing.T) {
	cause := errors.New("timeout")
	err := fmt.Errorf("delete manager: %w", PartialFailure("credential removed", "profile removal", cause))

	assert.True(t, IsPartialFailure(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "credential removed, but profile removal failed")
	assert.False(t, IsPartialFailure(Storage(cause)))
}
