package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsCarryStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NotFound("Thread", nil).Status)
	assert.Equal(t, http.StatusBadRequest, BadRequest("bad", nil).Status)
	assert.Equal(t, http.StatusBadRequest, Validation("invalid", nil).Status)
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("who", nil).Status)
	assert.Equal(t, http.StatusForbidden, Forbidden("no", nil).Status)
	assert.Equal(t, http.StatusConflict, Conflict("dup", nil).Status)
	assert.Equal(t, http.StatusInternalServerError, Internal("boom", nil).Status)
	assert.Equal(t, http.StatusTooManyRequests, TooManyRequests("slow down").Status)
}

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("Thread", nil)
	assert.Equal(t, "NOT_FOUND: Thread not found", err.Error())
}

func TestIsMatchesWrappedCode(t *testing.T) {
	inner := Forbidden("no", nil)
	wrapped := fmt.Errorf("handling request: %w", inner)

	assert.True(t, Is(wrapped, "FORBIDDEN"))
	assert.False(t, Is(wrapped, "NOT_FOUND"))
	assert.False(t, Is(fmt.Errorf("plain"), "FORBIDDEN"))
	assert.False(t, Is(nil, "FORBIDDEN"))
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("socket closed")
	err := Internal("boom", cause)
	assert.Equal(t, cause, err.Unwrap())
}
