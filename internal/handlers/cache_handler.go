package handlers

import (
	"net/http"

	"github.com/inkwell-social/inkwell/internal/cache"
	"github.com/labstack/echo/v4"
)

// CacheHandler exposes the explicit page-cache invalidation operation
type CacheHandler struct {
	pageCache *cache.PageCache
}

// NewCacheHandler creates a new CacheHandler
func NewCacheHandler(pageCache *cache.PageCache) *CacheHandler {
	return &CacheHandler{pageCache: pageCache}
}

// RegisterCacheRoutes registers cache management routes
func (h *CacheHandler) RegisterCacheRoutes(g *echo.Group) {
	g.POST("/cache/clear", h.ClearCache)
}

// ClearCache drops every cached feed page so the next read hits the store
func (h *CacheHandler) ClearCache(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	h.pageCache.Clear()
	return c.JSON(http.StatusOK, echo.Map{"cleared": true})
}
