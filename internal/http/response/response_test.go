package response_test

import (
	"encoding/json/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/notevault/notevault-server/internal/errors"
	"github.com/notevault/notevault-server/internal/http/response"
	"github.com/notevault/notevault-server/internal/store"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Success(rec, map[string]string{"hello": "world"}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Empty(t, env.Error)
}

func TestCreated(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Created(rec, map[string]string{"id": "note_1"}, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	response.NoContent(rec)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	response.BadRequest(rec, "bad input", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "bad input", env.Error)
}

func TestHandleError_DomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	response.HandleError(rec, domainerrors.NotFound("note not found"), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "note not found", decodeEnvelope(t, rec).Error)
}

func TestHandleError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := domainerrors.ValidationWithDetails("validation failed", map[string]string{
		"email": "must be a valid email address",
	})
	response.HandleError(rec, err, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "validation failed", env.Error)
	assert.NotNil(t, env.Details)
}

func TestHandleError_StoreError(t *testing.T) {
	rec := httptest.NewRecorder()
	response.HandleError(rec, store.ErrAlreadyExists, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleError_UnknownError(t *testing.T) {
	rec := httptest.NewRecorder()
	response.HandleError(rec, assert.AnError, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeEnvelope(t, rec).Error)
}
