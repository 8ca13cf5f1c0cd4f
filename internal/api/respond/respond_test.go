package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dom/weather-gate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErr_StatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{err: domain.ErrDuplicateUser, status: http.StatusConflict},
		{err: domain.ErrUnknownUser, status: http.StatusUnauthorized},
		{err: domain.ErrInvalidCredentials, status: http.StatusUnauthorized},
		{err: domain.ErrUnknownSession, status: http.StatusUnauthorized},
		{err: fmt.Errorf("%w: alice", domain.ErrInconsistentState), status: http.StatusInternalServerError},
		{err: fmt.Errorf("%w: disk", domain.ErrStorageIO), status: http.StatusInternalServerError},
		{err: domain.ErrLocationNotFound, status: http.StatusNotFound},
		{err: fmt.Errorf("%w: 503", domain.ErrExternalProvider), status: http.StatusBadGateway},
		{err: errors.New("anything else"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			Err(rec, "test", tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var env Envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, TypeError, env.Type)
			assert.NotEmpty(t, env.Message)
			assert.NotContains(t, env.Message, "disk")
		})
	}
}

func TestEnvelopeShapes(t *testing.T) {
	rec := httptest.NewRecorder()
	Redirect(rec, "/login.html")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"type":"redirect","route":"/login.html"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Success(rec, []int{1, 2})
	assert.JSONEq(t, `{"type":"success","payload":[1,2]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Error(rec, http.StatusBadRequest, "bad")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"type":"error","message":"bad"}`, rec.Body.String())
}
