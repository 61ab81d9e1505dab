package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_PostsTrigger(t *testing.T) {
	var got Payload
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL, time.Second).Send(context.Background()))
	assert.Equal(t, "cms", got.Trigger)
	assert.Equal(t, "application/json", contentType)
}

func TestSend_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL, time.Second).Send(context.Background())
	assert.Error(t, err)
}

func TestTrigger_RunsInBackground(t *testing.T) {
	hit := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hit <- struct{}{}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	New(srv.URL, time.Second).Trigger()

	select {
	case <-hit:
	case <-time.After(2 * time.Second):
		t.Fatal("hook was not called")
	}
}

func TestDisabledHook(t *testing.T) {
	h := New("", 0)
	assert.False(t, h.Enabled())
	assert.NoError(t, h.Send(context.Background()))
	h.Trigger()

	var nilHook *Hook
	assert.False(t, nilHook.Enabled())
}
