package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ayush/paper-studio/internal/llm"
	"github.com/ayush/paper-studio/internal/prompt"
	"github.com/ayush/paper-studio/internal/store"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"missing", MissingParam("apiKey"), http.StatusBadRequest},
		{"invalid", InvalidParam("name", errors.New("bad")), http.StatusBadRequest},
		{"bad key", fmt.Errorf("put: %w", store.ErrInvalidKey), http.StatusBadRequest},
		{"unknown section", prompt.ErrUnknownSection, http.StatusBadRequest},
		{"no api key", llm.ErrMissingAPIKey, http.StatusBadRequest},
		{"not found", fmt.Errorf("document %q: %w", "x", store.ErrNotFound), http.StatusNotFound},
		{"conflict", fmt.Errorf("document %w", ErrConflict), http.StatusConflict},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestInvalidParam_WrapsBoth(t *testing.T) {
	reason := errors.New("too long")
	err := InvalidParam("name", reason)
	assert.ErrorIs(t, err, ErrInvalidParam)
	assert.ErrorIs(t, err, reason)
	assert.Equal(t, "invalid parameter name: too long", err.Error())
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]any{"content": nil, "name": "p"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"success","content":null,"name":"p"}`, rec.Body.String())
}

func TestError_LogsOnlyServerFailures(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	rec := httptest.NewRecorder()
	Error(rec, logger, MissingParam("content"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"missing required parameter: content"}`, rec.Body.String())
	assert.Zero(t, logs.Len())

	rec = httptest.NewRecorder()
	Error(rec, logger, errors.New("disk full"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "request failed", logs.All()[0].Message)
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, "a", v.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	err := DecodeJSON(r, &v)
	assert.ErrorIs(t, err, ErrInvalidParam)
	assert.Equal(t, http.StatusBadRequest, StatusFor(err))
}
