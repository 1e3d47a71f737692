package handlers

import (
	"net/http"

	"github.com/inkwell-social/inkwell/internal/models"
	"github.com/inkwell-social/inkwell/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	userRepository   repositories.UserRepository
	postRepository   repositories.PostRepository
	followRepository repositories.FollowRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository, followRepo repositories.FollowRepository) *UserHandler {
	return &UserHandler{
		userRepository:   userRepo,
		postRepository:   postRepo,
		followRepository: followRepo,
	}
}

// RegisterPublicProfileRoutes registers profile pages readable by anyone.
// The routes sit behind the optional auth middleware so the "following"
// flag can be filled in for signed-in viewers.
func (h *UserHandler) RegisterPublicProfileRoutes(g *echo.Group) {
	g.GET("/profiles/:username", h.GetProfile)
}

// RegisterProfileRoutes registers routes on the caller's own account
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.DELETE("/profile", h.DeleteProfile)
}

// GetProfile returns the profile page context: one page of the author's
// posts, the author, and whether the viewer follows them.
func (h *UserHandler) GetProfile(c echo.Context) error {
	author, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	page, err := postPage(c,
		func() (int64, error) { return h.postRepository.CountByAuthor(author.ID) },
		func(offset, limit int) ([]models.Post, error) {
			return h.postRepository.ListByAuthor(author.ID, offset, limit)
		})
	if err != nil {
		return err
	}

	followers, err := h.followRepository.GetFollowersCount(author.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	following, err := h.followRepository.GetFollowingCount(author.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := echo.Map{
		"page":            page,
		"author":          author,
		"followers_count": followers,
		"following_count": following,
	}

	// Only tell signed-in viewers whether they follow this author
	if viewerID := getUserIDFromContext(c); viewerID != 0 {
		isFollowing, err := h.followRepository.IsFollowing(viewerID, author.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		resp["following"] = isFollowing
	}

	return c.JSON(http.StatusOK, resp)
}

// DeleteProfile removes the caller's account. Posts, comments and follow
// edges disappear with it through the store's cascade rules.
func (h *UserHandler) DeleteProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.userRepository.DeleteUser(currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
