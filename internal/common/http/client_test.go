package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		delay      time.Duration
		wantStatus int
		wantErr    error
		wantName   string
	}{
		{name: "ok", status: http.StatusOK, body: `{"name":"Via Carota"}`, wantName: "Via Carota"},
		{name: "not found", status: http.StatusNotFound, body: `missing`, wantStatus: http.StatusNotFound},
		{name: "bad json", status: http.StatusOK, body: `{"name":`},
		{name: "timeout", status: http.StatusOK, body: `{}`, delay: 200 * time.Millisecond, wantErr: ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "application/json", r.Header.Get("Accept"))
				time.Sleep(tt.delay)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			var out struct {
				Name string `json:"name"`
			}
			err := NewClient(50*time.Millisecond).GetJSON(context.Background(), srv.URL, &out)

			switch {
			case tt.wantName != "":
				require.NoError(t, err)
				assert.Equal(t, tt.wantName, out.Name)
			case tt.wantStatus != 0:
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, tt.wantStatus, statusErr.StatusCode)
				assert.Equal(t, "missing", statusErr.Body)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.Error(t, err)
				assert.NotErrorIs(t, err, ErrTimeout)
			}
		})
	}
}

func TestClient_GetJSON_TruncatesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(strings.Repeat("x", 4*maxErrorBody)))
	}))
	defer srv.Close()

	err := NewClient(time.Second).GetJSON(context.Background(), srv.URL, &struct{}{})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Len(t, statusErr.Body, maxErrorBody)
}

func TestClient_GetJSON_ContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := NewClient(time.Minute).GetJSON(ctx, srv.URL, &struct{}{})
	assert.ErrorIs(t, err, ErrTimeout)
}
