package handlers

import (
	"net/http"

	"github.com/inkwell-social/inkwell/internal/models"
	"github.com/inkwell-social/inkwell/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles the home feed and the personalized follow feed
type FeedHandler struct {
	postRepository repositories.PostRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository) *FeedHandler {
	return &FeedHandler{postRepository: postRepo}
}

// RegisterPublicFeedRoutes registers the home feed. Route-level middleware
// (the page cache) is applied here only.
func (h *FeedHandler) RegisterPublicFeedRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.GET("/posts", h.GetHomeFeed, m...)
}

// RegisterFeedRoutes registers the authenticated follow feed
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFollowFeed)
}

// GetHomeFeed returns one page of all posts, newest first
func (h *FeedHandler) GetHomeFeed(c echo.Context) error {
	page, err := postPage(c, h.postRepository.CountAll, h.postRepository.ListAll)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"page": page})
}

// GetFollowFeed returns one page of posts by authors the current user
// follows, newest first
func (h *FeedHandler) GetFollowFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, err := postPage(c,
		func() (int64, error) { return h.postRepository.CountFollowed(currentUserID) },
		func(offset, limit int) ([]models.Post, error) {
			return h.postRepository.ListFollowed(currentUserID, offset, limit)
		})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"page": page})
}
