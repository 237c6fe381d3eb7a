package npmregistry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agency-os/research-core/internal/resilience"
)

func TestPackageInfo_Success(t *testing.T) {
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/react", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "react",
			"description": "React is a JavaScript library for building user interfaces.",
			"maintainers": [{"name": "fb"}, {"name": "react-bot"}]
		}`))
	}))
	defer registry.Close()

	downloads := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/downloads/point/last-week/react", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"downloads": 25000000, "package": "react"}`))
	}))
	defer downloads.Close()

	client := NewClient(WithBaseURL(registry.URL), WithDownloadsBaseURL(downloads.URL))
	pkg, err := client.PackageInfo(context.Background(), "react")

	require.NoError(t, err)
	assert.Equal(t, "react", pkg.Name)
	assert.Equal(t, []string{"fb", "react-bot"}, pkg.Maintainers)
	assert.Equal(t, 25000000, pkg.DownloadsWeekly)
}

func TestPackageInfo_ScopedNameIsEscaped(t *testing.T) {
	var path string
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name": "@types/node"}`))
	}))
	defer registry.Close()

	downloads := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"downloads": 9000000}`))
	}))
	defer downloads.Close()

	client := NewClient(WithBaseURL(registry.URL), WithDownloadsBaseURL(downloads.URL))
	_, err := client.PackageInfo(context.Background(), "@types/node")

	require.NoError(t, err)
	assert.Equal(t, "/@types%2Fnode", path)
}

func TestPackageInfo_NotFound(t *testing.T) {
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "Not found"}`))
	}))
	defer registry.Close()

	client := NewClient(WithBaseURL(registry.URL))
	_, err := client.PackageInfo(context.Background(), "no-such-package")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "package not found (404)")
	assert.Contains(t, err.Error(), "no-such-package")
}

func TestPackageInfo_DownloadsFailureFailsCall(t *testing.T) {
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name": "lodash"}`))
	}))
	defer registry.Close()

	downloads := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer downloads.Close()

	client := NewClient(WithBaseURL(registry.URL), WithDownloadsBaseURL(downloads.URL))
	_, err := client.PackageInfo(context.Background(), "lodash")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error (status 503)")
	assert.True(t, resilience.IsTransient(err))
}

func TestPackageInfo_ServerErrorIsTransient(t *testing.T) {
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer registry.Close()

	client := NewClient(WithBaseURL(registry.URL))
	_, err := client.PackageInfo(context.Background(), "lodash")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error (status 500)")
	assert.True(t, resilience.IsTransient(err))
}
