// Package cache provides a short-lived response cache for read-heavy pages.
package cache

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL is how long a rendered home-feed page stays fresh. New posts
// become visible within this window, or immediately after Clear.
const DefaultTTL = 20 * time.Second

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

// PageCache caches fully rendered GET responses keyed by request URI.
type PageCache struct {
	store *gocache.Cache
}

// NewPageCache creates a PageCache whose entries expire after ttl.
func NewPageCache(ttl time.Duration) *PageCache {
	return &PageCache{store: gocache.New(ttl, ttl)}
}

// Clear drops every cached page immediately.
func (p *PageCache) Clear() {
	p.store.Flush()
}

// Middleware serves cached responses for GET requests and records
// successful responses for later hits. Only 200 responses are cached.
func (p *PageCache) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			key := c.Request().RequestURI
			if entry, ok := p.store.Get(key); ok {
				cached := entry.(cachedResponse)
				return c.Blob(cached.status, cached.contentType, cached.body)
			}

			rec := &recorder{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = rec

			if err := next(c); err != nil {
				return err
			}

			if rec.status == http.StatusOK {
				p.store.Set(key, cachedResponse{
					status:      rec.status,
					contentType: rec.Header().Get(echo.HeaderContentType),
					body:        rec.body.Bytes(),
				}, gocache.DefaultExpiration)
			}
			return nil
		}
	}
}

// recorder tees the response body while passing writes through.
type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
