package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/inkwell-social/inkwell/internal/models"
	"github.com/inkwell-social/inkwell/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// GroupHandler handles HTTP requests related to groups
type GroupHandler struct {
	groupRepository repositories.GroupRepository
	postRepository  repositories.PostRepository
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupRepo repositories.GroupRepository, postRepo repositories.PostRepository) *GroupHandler {
	return &GroupHandler{
		groupRepository: groupRepo,
		postRepository:  postRepo,
	}
}

// RegisterGroupRoutes registers group routes requiring authentication
func (h *GroupHandler) RegisterGroupRoutes(g *echo.Group) {
	g.POST("/groups", h.CreateGroup)
	g.PUT("/groups/:slug", h.UpdateGroup)
}

// RegisterPublicGroupRoutes registers read-only group routes
func (h *GroupHandler) RegisterPublicGroupRoutes(g *echo.Group) {
	g.GET("/groups", h.ListGroups)
	g.GET("/groups/:slug", h.GetGroupFeed)
}

// CreateGroup creates a new group
func (h *GroupHandler) CreateGroup(c echo.Context) error {
	var req models.CreateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.groupRepository.GetGroupBySlug(req.Slug); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Group with this slug already exists")
	}

	group := &models.Group{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	}

	if err := h.groupRepository.CreateGroup(group); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, group)
}

// ListGroups returns all groups
func (h *GroupHandler) ListGroups(c echo.Context) error {
	groups, err := h.groupRepository.ListGroups()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, groups)
}

// GetGroupFeed returns the group page context: the group and one page of
// its posts, newest first.
func (h *GroupHandler) GetGroupFeed(c echo.Context) error {
	group, err := h.groupRepository.GetGroupBySlug(c.Param("slug"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Group not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	page, err := postPage(c,
		func() (int64, error) { return h.postRepository.CountByGroup(group.ID) },
		func(offset, limit int) ([]models.Post, error) {
			return h.postRepository.ListByGroup(group.ID, offset, limit)
		})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"group": group,
		"page":  page,
	})
}

// UpdateGroup edits a group's title and description. The slug is fixed.
func (h *GroupHandler) UpdateGroup(c echo.Context) error {
	group, err := h.groupRepository.GetGroupBySlug(c.Param("slug"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Group not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req models.UpdateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Title != "" {
		group.Title = req.Title
	}
	if req.Description != "" {
		group.Description = req.Description
	}

	if err := h.groupRepository.UpdateGroup(group); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, group)
}
