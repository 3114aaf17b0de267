package callback

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostReturnsServerStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"hello":"world"}`, string(body))
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream says no"))
	}))
	defer srv.Close()

	resp, err := NewClient(ClientConfig{}).Post(context.Background(), srv.URL, map[string]string{"hello": "world"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestPostEmptyURL(t *testing.T) {
	_, err := NewClient(ClientConfig{}).Post(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrEmptyURL)
}

func TestPostTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewClient(ClientConfig{Timeout: 50 * time.Millisecond}).Post(context.Background(), srv.URL, struct{}{})
	assert.Error(t, err)
}

func TestPostUnencodablePayload(t *testing.T) {
	_, err := NewClient(ClientConfig{}).Post(context.Background(), "http://127.0.0.1:1", make(chan int))
	assert.Error(t, err)
}
