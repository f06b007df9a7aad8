package axon

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_Constructors(t *testing.T) {
	body := map[string]string{"id": "123"}

	assert.Equal(t, 200, OK(body).StatusCode)
	assert.Equal(t, 201, Created(body).StatusCode)
	assert.Equal(t, 400, BadRequest(body).StatusCode)
	assert.Equal(t, 404, NotFound(body).StatusCode)
	assert.Equal(t, 500, InternalServerError(body).StatusCode)
	assert.Equal(t, body, NewResponse(202, body).Body)
}

func TestResponse_WriteJSONWithHeaders(t *testing.T) {
	c := newFakeContext()
	resp := Created(map[string]int{"id": 7}).WithHeader("Location", "/api/users/7")

	require.NoError(t, resp.Write(c))

	assert.Equal(t, http.StatusCreated, c.status)
	assert.Equal(t, map[string]int{"id": 7}, c.body)
	assert.Equal(t, "/api/users/7", c.headers["Location"])
}

func TestResponse_WriteString(t *testing.T) {
	c := newFakeContext()

	require.NoError(t, OK("User data updated").Write(c))

	assert.Equal(t, http.StatusOK, c.status)
	assert.Equal(t, "User data updated", c.text)
	assert.Nil(t, c.body)
}

func TestWriteError(t *testing.T) {
	t.Run("HttpError keeps its status and shape", func(t *testing.T) {
		c := newFakeContext()
		err := NewHttpErrorWithDetails(http.StatusConflict, "conflict", "duplicate")

		require.NoError(t, WriteError(c, err))
		assert.Equal(t, http.StatusConflict, c.status)
		assert.Same(t, err, c.body)
	})

	t.Run("wrapped HttpError is found in the chain", func(t *testing.T) {
		c := newFakeContext()
		he := ErrNotFound("gone")

		require.NoError(t, WriteError(c, fmt.Errorf("lookup: %w", he)))
		assert.Equal(t, http.StatusNotFound, c.status)
		assert.Same(t, he, c.body)
	})

	t.Run("plain errors become 500", func(t *testing.T) {
		c := newFakeContext()

		require.NoError(t, WriteError(c, errors.New("boom")))
		assert.Equal(t, http.StatusInternalServerError, c.status)
		assert.Equal(t, map[string]string{"error": "boom"}, c.body)
	})

	t.Run("written responses are left alone", func(t *testing.T) {
		c := newFakeContext()
		c.written = true
		c.status = http.StatusOK

		require.NoError(t, WriteError(c, errors.New("late")))
		assert.Equal(t, http.StatusOK, c.status)
	})
}

func TestErrorStatus(t *testing.T) {
	code, ok := ErrorStatus(ErrNotFound("missing"))
	assert.True(t, ok)
	assert.Equal(t, 404, code)

	code, ok = ErrorStatus(fmt.Errorf("wrapped: %w", NewHttpError(405, "method")))
	assert.True(t, ok)
	assert.Equal(t, 405, code)

	_, ok = ErrorStatus(errors.New("other"))
	assert.False(t, ok)
}

func TestHttpError_Cause(t *testing.T) {
	inner := errors.New("driver failure")
	err := ErrInternalServerError("internal").WithCause(inner)

	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "HTTP 500: internal: driver failure", err.Error())
	assert.Equal(t, "HTTP 400: bad", ErrBadRequest("bad").Error())
}
