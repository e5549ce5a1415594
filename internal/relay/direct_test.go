package relay

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Luigi-p-git/sitelens/internal/config"
)

func newDirectFetcher(t *testing.T) *DirectFetcher {
	t.Helper()
	f, err := NewDirectFetcher(config.FetchConfig{
		UserAgent:       "sitelens-test/1.0",
		DirectTimeoutMs: 5000,
	}, zap.NewNop())
	require.NoError(t, err)
	return f
}

func TestDirectFetch(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, samplePage)
	}))
	t.Cleanup(srv.Close)

	status, body, err := newDirectFetcher(t).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, samplePage, string(body))
	assert.Equal(t, "sitelens-test/1.0", gotUA)
}

func TestDirectFetchHTTPFailureIsStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	status, _, err := newDirectFetcher(t).Fetch(context.Background(), srv.URL)
	// HTTP-level failures come back as a status, not an error, so the chain
	// can classify them with the relay responses.
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestDirectFetchTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, _, err := newDirectFetcher(t).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestDirectFetchConcurrentClones(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, samplePage)
	}))
	t.Cleanup(srv.Close)

	fetcher := newDirectFetcher(t)
	errCh := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() {
			_, _, err := fetcher.Fetch(context.Background(), srv.URL)
			errCh <- err
		}()
	}
	for i := 0; i < 4; i++ {
		assert.NoError(t, <-errCh)
	}
}
