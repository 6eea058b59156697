package gateway

import (
	"net/http"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
)

// NewCachingTransport creates a transport that honors Cache-Control headers
// on GET responses, backed by cacheDir. An empty cacheDir keeps the cache in
// memory only.
func NewCachingTransport(cacheDir string) http.RoundTripper {
	if cacheDir == "" {
		return httpcache.NewTransport(httpcache.NewMemoryCache())
	}

	return httpcache.NewTransport(diskcache.New(cacheDir))
}
