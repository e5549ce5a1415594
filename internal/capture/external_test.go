package capture

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Luigi-p-git/sitelens/internal/config"
)

func captureConfig() config.CaptureConfig {
	return config.CaptureConfig{MinImageBytes: 64, EndpointTimeoutS: 5}
}

func imageHandler(payload []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(payload)
	}
}

func endpointFor(srv *httptest.Server, name string) Endpoint {
	return Endpoint{Name: name, Template: srv.URL + "/shot/%s", EncodeTarget: true}
}

func TestExternalCaptureSuccess(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte{0x89}, 256)
	srv := httptest.NewServer(imageHandler(payload))
	t.Cleanup(srv.Close)

	c := NewExternalCapturer(captureConfig(), []Endpoint{endpointFor(srv, "primary")}, zap.NewNop())
	uri, provider, err := c.Capture(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "primary", provider)
	assert.Contains(t, uri, "data:image/png;base64,")
}

func TestExternalCaptureFallsThrough(t *testing.T) {
	t.Parallel()

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	t.Cleanup(bad.Close)

	good := httptest.NewServer(imageHandler(bytes.Repeat([]byte{0x89}, 256)))
	t.Cleanup(good.Close)

	c := NewExternalCapturer(captureConfig(), []Endpoint{
		endpointFor(bad, "bad"),
		endpointFor(good, "good"),
	}, zap.NewNop())

	_, provider, err := c.Capture(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "good", provider)
}

func TestExternalCaptureRejectsImplausible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "not an image",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				w.Write([]byte("<html>error page</html>"))
			},
		},
		{
			name:    "below byte floor",
			handler: imageHandler([]byte{0x89, 0x50}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			t.Cleanup(srv.Close)

			c := NewExternalCapturer(captureConfig(), []Endpoint{endpointFor(srv, "only")}, zap.NewNop())
			_, _, err := c.Capture(context.Background(), "https://example.com")
			require.Error(t, err)
		})
	}
}

func TestEndpointRequestURL(t *testing.T) {
	t.Parallel()

	encoded := Endpoint{Name: "mshots", Template: "https://s0.wp.com/mshots/v1/%s?w=1280&h=800", EncodeTarget: true}
	assert.Equal(t,
		"https://s0.wp.com/mshots/v1/https%3A%2F%2Fexample.com?w=1280&h=800",
		encoded.RequestURL("https://example.com"))

	raw := Endpoint{Name: "thum.io", Template: "https://image.thum.io/get/width/1280/crop/800/%s", EncodeTarget: false}
	assert.Equal(t,
		"https://image.thum.io/get/width/1280/crop/800/https://example.com",
		raw.RequestURL("https://example.com"))
}
