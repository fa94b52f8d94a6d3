package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/koopstadt/impactcheck/internal/auth"
	"github.com/koopstadt/impactcheck/internal/entities"
)

// IndicatorStore defines database operations for indicator management.
type IndicatorStore interface {
	GetIndicator(ctx context.Context, id uint) (*entities.Indicator, error)
	GetAllForMunicipality(ctx context.Context, municipalityID uint) ([]entities.Indicator, error)
	GetByTagLabel(ctx context.Context, municipalityID uint, label string) ([]entities.Indicator, error)
	CreateIndicator(ctx context.Context, ind *entities.Indicator, tagIDs []uint, principal *entities.User) (*entities.Indicator, error)
	UpdateIndicator(ctx context.Context, id uint, updates map[string]any, tagIDs []uint, principal *entities.User) (*entities.Indicator, error)
	DeleteIndicator(ctx context.Context, id uint) error
}

type IndicatorsController struct {
	store IndicatorStore
}

func NewIndicatorsController(store IndicatorStore) *IndicatorsController {
	return &IndicatorsController{store: store}
}

// GetAllIndicators returns the caller's indicators. An optional ?tag=label
// query filters by tag label through the association.
// GET /api/indicators
func (ic *IndicatorsController) GetAllIndicators(c *gin.Context) {
	user := auth.CurrentUser(c)

	if label := c.Query("tag"); label != "" {
		indicators, err := ic.store.GetByTagLabel(c.Request.Context(), user.MunicipalityID, label)
		if err != nil {
			respondRepositoryError(c, err, "get indicators by tag")
			return
		}
		c.JSON(http.StatusOK, indicators)
		return
	}

	indicators, err := ic.store.GetAllForMunicipality(c.Request.Context(), user.MunicipalityID)
	if err != nil {
		respondRepositoryError(c, err, "get all indicators")
		return
	}
	c.JSON(http.StatusOK, indicators)
}

// GetIndicator returns one indicator with its tags.
// GET /api/indicators/:id
func (ic *IndicatorsController) GetIndicator(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	indicator, err := ic.store.GetIndicator(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, "get indicator")
		return
	}
	if err := auth.CheckAuthorized(auth.CurrentUser(c), indicator.MunicipalityID); err != nil {
		respondRepositoryError(c, err, "get indicator")
		return
	}

	c.JSON(http.StatusOK, indicator)
}

// CreateIndicator creates an indicator and attaches the given tags.
// POST /api/indicators
func (ic *IndicatorsController) CreateIndicator(c *gin.Context) {
	var req struct {
		Label     string `json:"label" binding:"required"`
		SourceURL string `json:"source_url"`
		TagIDs    []uint `json:"tag_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "label is required")
		return
	}

	indicator := &entities.Indicator{Label: req.Label, SourceURL: req.SourceURL}
	created, err := ic.store.CreateIndicator(c.Request.Context(), indicator, req.TagIDs, auth.CurrentUser(c))
	if err != nil {
		respondRepositoryError(c, err, "create indicator")
		return
	}

	respondCreated(c, created)
}

// UpdateIndicator applies a partial update. When tag_ids is present the tag
// set is replaced; when absent it is left untouched.
// PATCH /api/indicators/:id
func (ic *IndicatorsController) UpdateIndicator(c *gin.Context) {
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
	existing, err := ic.store.GetIndicator(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, "update indicator")
		return
	}
	if err := auth.CheckAuthorized(user, existing.MunicipalityID); err != nil {
		respondRepositoryError(c, err, "update indicator")
		return
	}

	indicator, err := ic.store.UpdateIndicator(c.Request.Context(), id, updates, tagIDs, user)
	if err != nil {
		respondRepositoryError(c, err, "update indicator")
		return
	}

	c.JSON(http.StatusOK, indicator)
}

// DeleteIndicator removes an indicator. Tags survive, only the membership
// rows go.
// DELETE /api/indicators/:id
func (ic *IndicatorsController) DeleteIndicator(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	existing, err := ic.store.GetIndicator(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, "delete indicator")
		return
	}
	if err := auth.CheckAuthorized(auth.CurrentUser(c), existing.MunicipalityID); err != nil {
		respondRepositoryError(c, err, "delete indicator")
		return
	}

	if err := ic.store.DeleteIndicator(c.Request.Context(), id); err != nil {
		respondRepositoryError(c, err, "delete indicator")
		return
	}

	respondSuccess(c, "indicator deleted")
}
