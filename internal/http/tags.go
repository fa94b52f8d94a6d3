package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/koopstadt/impactcheck/internal/auth"
	"github.com/koopstadt/impactcheck/internal/entities"
)

// TagStore defines database operations for tag management.
type TagStore interface {
	GetTag(ctx context.Context, id uint) (*entities.Tag, error)
	GetAllForMunicipality(ctx context.Context, municipalityID uint) ([]entities.Tag, error)
	CreateTag(ctx context.Context, label string, principal *entities.User) (*entities.Tag, error)
	UpdateTag(ctx context.Context, id uint, updates map[string]any, principal *entities.User) (*entities.Tag, error)
	DeleteTag(ctx context.Context, id uint) error
}

type TagsController struct {
	store TagStore
}

func NewTagsController(store TagStore) *TagsController {
	return &TagsController{store: store}
}

// GetAllTags returns all tags of the caller's municipality.
// GET /api/tags
func (tc *TagsController) GetAllTags(c *gin.Context) {
	user := auth.CurrentUser(c)
	tags, err := tc.store.GetAllForMunicipality(c.Request.Context(), user.MunicipalityID)
	if err != nil {
		respondRepositoryError(c, err, "get all tags")
		return
	}
	c.JSON(http.StatusOK, tags)
}

// GetTag returns a single tag.
// GET /api/tags/:id
func (tc *TagsController) GetTag(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tag, err := tc.store.GetTag(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, "get tag")
		return
	}
	if err := auth.CheckAuthorized(auth.CurrentUser(c), tag.MunicipalityID); err != nil {
		respondRepositoryError(c, err, "get tag")
		return
	}

	c.JSON(http.StatusOK, tag)
}

// CreateTag creates a new tag in the caller's municipality.
// POST /api/tags
func (tc *TagsController) CreateTag(c *gin.Context) {
	var req struct {
		Label string `json:"label" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "label is required")
		return
	}

	tag, err := tc.store.CreateTag(c.Request.Context(), req.Label, auth.CurrentUser(c))
	if err != nil {
		respondRepositoryError(c, err, "create tag")
		return
	}

	respondCreated(c, tag)
}

// UpdateTag applies a partial update to a tag.
// PATCH /api/tags/:id
func (tc *TagsController) UpdateTag(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user := auth.CurrentUser(c)
	existing, err := tc.store.GetTag(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, "update tag")
		return
	}
	if err := auth.CheckAuthorized(user, existing.MunicipalityID); err != nil {
		respondRepositoryError(c, err, "update tag")
		return
	}

	tag, err := tc.store.UpdateTag(c.Request.Context(), id, updates, user)
	if err != nil {
		respondRepositoryError(c, err, "update tag")
		return
	}

	c.JSON(http.StatusOK, tag)
}

// DeleteTag removes a tag and detaches it from all indicators and text
// blocks.
// DELETE /api/tags/:id
func (tc *TagsController) DeleteTag(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	existing, err := tc.store.GetTag(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, "delete tag")
		return
	}
	if err := auth.CheckAuthorized(auth.CurrentUser(c), existing.MunicipalityID); err != nil {
		respondRepositoryError(c, err, "delete tag")
		return
	}

	if err := tc.store.DeleteTag(c.Request.Context(), id); err != nil {
		respondRepositoryError(c, err, "delete tag")
		return
	}

	respondSuccess(c, "tag deleted")
}
