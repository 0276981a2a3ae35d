package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatClient_Complete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"ats_score\":80}"}}]}`))
	}))
	defer srv.Close()

	c := NewChatClient(srv.URL+"/v1/", "secret", "test-model", time.Second, srv.Client())
	out, err := c.Complete(context.Background(), "rate me")

	require.NoError(t, err)
	assert.Equal(t, `{"ats_score":80}`, out)
	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "rate me", got.Messages[1].Content)
	assert.Equal(t, "json_object", got.ResponseFormat["type"])
}

func TestChatClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`, wantErr: ErrDownstreamUnavailable},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{}`, wantErr: ErrRejected},
		{name: "bad request", status: http.StatusBadRequest, body: `{}`, wantErr: ErrRejected},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`, wantErr: ErrDownstreamUnavailable},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantErr: ErrInvalidResponse},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantErr: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewChatClient(srv.URL, "k", "m", time.Second, nil)
			_, err := c.Complete(context.Background(), "p")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStatusErr(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{status: http.StatusTooManyRequests, retryable: true},
		{status: http.StatusInternalServerError, retryable: true},
		{status: http.StatusServiceUnavailable, retryable: true},
		{status: http.StatusBadRequest},
		{status: http.StatusUnauthorized},
		{status: http.StatusForbidden},
		{status: http.StatusNotFound},
		{status: http.StatusUnprocessableEntity},
	}

	assert.NoError(t, statusErr(http.StatusOK))
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := statusErr(tt.status)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDownstreamUnavailable)
			assert.Equal(t, !tt.retryable, errors.Is(err, ErrRejected))
		})
	}
}

func TestChatClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewChatClient(url, "k", "m", time.Second, nil)
	_, err := c.Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrDownstreamUnavailable)
}
