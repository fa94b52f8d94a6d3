package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/koopstadt/impactcheck/internal/auth"
	"github.com/koopstadt/impactcheck/internal/entities"
)

// TextBlockStore defines database operations for text block management.
type TextBlockStore interface {
	GetTextBlock(ctx context.Context, id uint) (*entities.TextBlock, error)
	GetAllForMunicipality(ctx context.Context, municipalityID uint) ([]entities.TextBlock, error)
	CreateTextBlock(ctx context.Context, tb *entities.TextBlock, tagIDs []uint, principal *entities.User) (*entities.TextBlock, error)
	UpdateTextBlock(ctx context.Context, id uint, updates map[string]any, tagIDs []uint, principal *entities.User) (*entities.TextBlock, error)
	DeleteTextBlock(ctx context.Context, id uint) error
}

type TextBlocksController struct {
	store TextBlockStore
}

func NewTextBlocksController(store TextBlockStore) *TextBlocksController {
	return &TextBlocksController{store: store}
}

// GetAllTextBlocks returns the caller's text blocks.
// GET /api/text-blocks
func (tc *TextBlocksController) GetAllTextBlocks(c *gin.Context) {
	user := auth.CurrentUser(c)
	blocks, err := tc.store.GetAllForMunicipality(c.Request.Context(), user.MunicipalityID)
	if err != nil {
		respondRepositoryError(c, err, "get all text blocks")
		return
	}
	c.JSON(http.StatusOK, blocks)
}

// GetTextBlock returns one text block with its tags.
// GET /api/text-blocks/:id
func (tc *TextBlocksController) GetTextBlock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	block, err := tc.store.GetTextBlock(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, "get text block")
		return
	}
	if err := auth.CheckAuthorized(auth.CurrentUser(c), block.MunicipalityID); err != nil {
		respondRepositoryError(c, err, "get text block")
		return
	}

	c.JSON(http.StatusOK, block)
}

// CreateTextBlock creates a text block and attaches the given tags.
// POST /api/text-blocks
func (tc *TextBlocksController) CreateTextBlock(c *gin.Context) {
	var req struct {
		Label  string `json:"label" binding:"required"`
		TagIDs []uint `json:"tag_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "label is required")
		return
	}

	block := &entities.TextBlock{Label: req.Label}
	created, err := tc.store.CreateTextBlock(c.Request.Context(), block, req.TagIDs, auth.CurrentUser(c))
	if err != nil {
		respondRepositoryError(c, err, "create text block")
		return
	}

	respondCreated(c, created)
}

// UpdateTextBlock applies a partial update. When tag_ids is present the tag
// set is replaced; when absent it is left untouched.
// PATCH /api/text-blocks/:id
func (tc *TextBlocksController) UpdateTextBlock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	tagIDs, ok := popIDList(updates, "tag_ids")
	if !ok {
		respondBadRequest(c, "tag_ids must be a list of ids")
		return
	}

	user := auth.CurrentUser(c)
	existing, err := tc.store.GetTextBlock(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, "update text block")
		return
	}
	if err := auth.CheckAuthorized(user, existing.MunicipalityID); err != nil {
		respondRepositoryError(c, err, "update text block")
		return
	}

	block, err := tc.store.UpdateTextBlock(c.Request.Context(), id, updates, tagIDs, user)
	if err != nil {
		respondRepositoryError(c, err, "update text block")
		return
	}

	c.JSON(http.StatusOK, block)
}

// DeleteTextBlock removes a text block.
// DELETE /api/text-blocks/:id
func (tc *TextBlocksController) DeleteTextBlock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	existing, err := tc.store.GetTextBlock(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, "delete text block")
		return
	}
	if err := auth.CheckAuthorized(auth.CurrentUser(c), existing.MunicipalityID); err != nil {
		respondRepositoryError(c, err, "delete text block")
		return
	}

	if err := tc.store.DeleteTextBlock(c.Request.Context(), id); err != nil {
		respondRepositoryError(c, err, "delete text block")
		return
	}

	respondSuccess(c, "text block deleted")
}
