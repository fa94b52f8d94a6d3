package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/koopstadt/impactcheck/internal/auth"
	"github.com/koopstadt/impactcheck/internal/entities"
)

// ObjectiveStore defines database operations for the objective taxonomy.
type ObjectiveStore interface {
	GetMainObjective(ctx context.Context, id uint) (*entities.MainObjective, error)
	GetAllForMunicipality(ctx context.Context, municipalityID uint) ([]entities.MainObjective, error)
	CreateMainObjective(ctx context.Context, m *entities.MainObjective, principal *entities.User) (*entities.MainObjective, error)
	UpdateMainObjective(ctx context.Context, id uint, updates map[string]any, principal *entities.User) (*entities.MainObjective, error)
	DeleteMainObjective(ctx context.Context, id uint) error
	GetSubObjective(ctx context.Context, id uint) (*entities.SubObjective, error)
	GetSubObjectivesFor(ctx context.Context, mainObjectiveID uint) ([]entities.SubObjective, error)
	CreateSubObjective(ctx context.Context, s *entities.SubObjective, principal *entities.User) (*entities.SubObjective, error)
	UpdateSubObjective(ctx context.Context, id uint, updates map[string]any, principal *entities.User) (*entities.SubObjective, error)
	DeleteSubObjective(ctx context.Context, id uint) error
}

type ObjectivesController struct {
	store ObjectiveStore
}

func NewObjectivesController(store ObjectiveStore) *ObjectivesController {
	return &ObjectivesController{store: store}
}

// GetAllMainObjectives returns the caller's objective taxonomy ordered by
// ordinal, sub-objectives included.
// GET /api/objectives
func (oc *ObjectivesController) GetAllMainObjectives(c *gin.Context) {
	user := auth.CurrentUser(c)
	objectives, err := oc.store.GetAllForMunicipality(c.Request.Context(), user.MunicipalityID)
	if err != nil {
		respondRepositoryError(c, err, "get all main objectives")
		return
	}
	c.JSON(http.StatusOK, objectives)
}

// GetMainObjective returns one main objective with its sub-objectives.
// GET /api/objectives/:id
func (oc *ObjectivesController) GetMainObjective(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	objective, err := oc.store.GetMainObjective(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, "get main objective")
		return
	}
	if err := auth.CheckAuthorized(auth.CurrentUser(c), objective.MunicipalityID); err != nil {
		respondRepositoryError(c, err, "get main objective")
		return
	}

	c.JSON(http.StatusOK, objective)
}

// CreateMainObjective creates a main objective in the caller's municipality.
// POST /api/objectives
func (oc *ObjectivesController) CreateMainObjective(c *gin.Context) {
	var req struct {
		No    int    `json:"no" binding:"required"`
		Label string `json:"label" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "no and label are required")
		return
	}

	objective := &entities.MainObjective{No: req.No, Label: req.Label}
	created, err := oc.store.CreateMainObjective(c.Request.Context(), objective, auth.CurrentUser(c))
	if err != nil {
		respondRepositoryError(c, err, "create main objective")
		return
	}

	respondCreated(c, created)
}

// UpdateMainObjective applies a partial update to a main objective.
// PATCH /api/objectives/:id
func (oc *ObjectivesController) UpdateMainObjective(c *gin.Context) {
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
	existing, err := oc.store.GetMainObjective(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, "update main objective")
		return
	}
	if err := auth.CheckAuthorized(user, existing.MunicipalityID); err != nil {
		respondRepositoryError(c, err, "update main objective")
		return
	}

	objective, err := oc.store.UpdateMainObjective(c.Request.Context(), id, updates, user)
	if err != nil {
		respondRepositoryError(c, err, "update main objective")
		return
	}

	c.JSON(http.StatusOK, objective)
}

// DeleteMainObjective removes a main objective and its sub-objectives.
// DELETE /api/objectives/:id
func (oc *ObjectivesController) DeleteMainObjective(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	existing, err := oc.store.GetMainObjective(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, "delete main objective")
		return
	}
	if err := auth.CheckAuthorized(auth.CurrentUser(c), existing.MunicipalityID); err != nil {
		respondRepositoryError(c, err, "delete main objective")
		return
	}

	if err := oc.store.DeleteMainObjective(c.Request.Context(), id); err != nil {
		respondRepositoryError(c, err, "delete main objective")
		return
	}

	respondSuccess(c, "main objective deleted")
}

// GetSubObjectives returns the sub-objectives of one main objective ordered
// by ordinal.
// GET /api/objectives/:id/sub-objectives
func (oc *ObjectivesController) GetSubObjectives(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	parent, err := oc.store.GetMainObjective(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, "get sub objectives")
		return
	}
	if err := auth.CheckAuthorized(auth.CurrentUser(c), parent.MunicipalityID); err != nil {
		respondRepositoryError(c, err, "get sub objectives")
		return
	}

	subs, err := oc.store.GetSubObjectivesFor(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, "get sub objectives")
		return
	}

	c.JSON(http.StatusOK, subs)
}

// CreateSubObjective creates a sub-objective under one main objective.
// POST /api/objectives/:id/sub-objectives
func (oc *ObjectivesController) CreateSubObjective(c *gin.Context) {
	mainID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		No    int    `json:"no" binding:"required"`
		Label string `json:"label" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "no and label are required")
		return
	}

	user := auth.CurrentUser(c)
	parent, err := oc.store.GetMainObjective(c.Request.Context(), mainID)
	if err != nil {
		respondRepositoryError(c, err, "create sub objective")
		return
	}
	if err := auth.CheckAuthorized(user, parent.MunicipalityID); err != nil {
		respondRepositoryError(c, err, "create sub objective")
		return
	}

	sub := &entities.SubObjective{No: req.No, Label: req.Label, MainObjectiveID: mainID}
	created, err := oc.store.CreateSubObjective(c.Request.Context(), sub, user)
	if err != nil {
		respondRepositoryError(c, err, "create sub objective")
		return
	}

	respondCreated(c, created)
}

// UpdateSubObjective applies a partial update to a sub-objective.
// PATCH /api/sub-objectives/:id
func (oc *ObjectivesController) UpdateSubObjective(c *gin.Context) {
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
	existing, err := oc.store.GetSubObjective(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, "update sub objective")
		return
	}
	if err := auth.CheckAuthorized(user, existing.MunicipalityID); err != nil {
		respondRepositoryError(c, err, "update sub objective")
		return
	}

	sub, err := oc.store.UpdateSubObjective(c.Request.Context(), id, updates, user)
	if err != nil {
		respondRepositoryError(c, err, "update sub objective")
		return
	}

	c.JSON(http.StatusOK, sub)
}

// DeleteSubObjective removes a sub-objective.
// DELETE /api/sub-objectives/:id
func (oc *ObjectivesController) DeleteSubObjective(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	existing, err := oc.store.GetSubObjective(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, "delete sub objective")
		return
	}
	if err := auth.CheckAuthorized(auth.CurrentUser(c), existing.MunicipalityID); err != nil {
		respondRepositoryError(c, err, "delete sub objective")
		return
	}

	if err := oc.store.DeleteSubObjective(c.Request.Context(), id); err != nil {
		respondRepositoryError(c, err, "delete sub objective")
		return
	}

	respondSuccess(c, "sub objective deleted")
}
