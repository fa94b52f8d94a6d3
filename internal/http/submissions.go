package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/koopstadt/impactcheck/internal/auth"
	"github.com/koopstadt/impactcheck/internal/entities"
	"github.com/koopstadt/impactcheck/internal/export"
)

// SubmissionStore defines database operations for mobility and climate
// submissions.
type SubmissionStore interface {
	GetMobilitySubmission(ctx context.Context, id uint) (*entities.MobilitySubmission, error)
	GetMobilitySubmissionsForUser(ctx context.Context, principal *entities.User) ([]entities.MobilitySubmission, error)
	CreateMobilitySubmission(ctx context.Context, s *entities.MobilitySubmission, principal *entities.User) (*entities.MobilitySubmission, error)
	UpdateMobilitySubmission(ctx context.Context, id uint, updates map[string]any, principal *entities.User) (*entities.MobilitySubmission, error)
	DeleteMobilitySubmission(ctx context.Context, id uint) error
	CopyMobilitySubmission(ctx context.Context, id uint, principal *entities.User) (*entities.MobilitySubmission, error)
	ExportMobilitySubmission(ctx context.Context, id uint, exp export.Exporter) ([]byte, error)

	GetClimateSubmission(ctx context.Context, id uint) (*entities.ClimateSubmission, error)
	GetClimateSubmissionsForUser(ctx context.Context, principal *entities.User) ([]entities.ClimateSubmission, error)
	CreateClimateSubmission(ctx context.Context, s *entities.ClimateSubmission, principal *entities.User) (*entities.ClimateSubmission, error)
	UpdateClimateSubmission(ctx context.Context, id uint, updates map[string]any, principal *entities.User) (*entities.ClimateSubmission, error)
	DeleteClimateSubmission(ctx context.Context, id uint) error
	CopyClimateSubmission(ctx context.Context, id uint, principal *entities.User) (*entities.ClimateSubmission, error)
	ExportClimateSubmission(ctx context.Context, id uint, exp export.Exporter) ([]byte, error)
}

type SubmissionsController struct {
	store    SubmissionStore
	exporter export.Exporter
}

func NewSubmissionsController(store SubmissionStore, exporter export.Exporter) *SubmissionsController {
	return &SubmissionsController{store: store, exporter: exporter}
}

// mobilityForCaller loads a mobility submission and enforces the tenant
// boundary. Responds on error and returns nil.
func (sc *SubmissionsController) mobilityForCaller(c *gin.Context, id uint, op string) *entities.MobilitySubmission {
	s, err := sc.store.GetMobilitySubmission(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, op)
		return nil
	}
	if err := auth.CheckAuthorized(auth.CurrentUser(c), s.MunicipalityID); err != nil {
		respondRepositoryError(c, err, op)
		return nil
	}
	return s
}

func (sc *SubmissionsController) climateForCaller(c *gin.Context, id uint, op string) *entities.ClimateSubmission {
	s, err := sc.store.GetClimateSubmission(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, op)
		return nil
	}
	if err := auth.CheckAuthorized(auth.CurrentUser(c), s.MunicipalityID); err != nil {
		respondRepositoryError(c, err, op)
		return nil
	}
	return s
}

// GetAllMobilitySubmissions returns the caller's mobility submissions,
// newest first.
// GET /api/submissions/mobility
func (sc *SubmissionsController) GetAllMobilitySubmissions(c *gin.Context) {
	subs, err := sc.store.GetMobilitySubmissionsForUser(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		respondRepositoryError(c, err, "get all mobility submissions")
		return
	}
	c.JSON(http.StatusOK, subs)
}

// GetMobilitySubmission returns one mobility submission with its full
// objectives tree.
// GET /api/submissions/mobility/:id
func (sc *SubmissionsController) GetMobilitySubmission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if s := sc.mobilityForCaller(c, id, "get mobility submission"); s != nil {
		c.JSON(http.StatusOK, s)
	}
}

// CreateMobilitySubmission creates a mobility submission, its results tree
// included, in the caller's municipality.
// POST /api/submissions/mobility
func (sc *SubmissionsController) CreateMobilitySubmission(c *gin.Context) {
	var submission entities.MobilitySubmission
	if err := c.ShouldBindJSON(&submission); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	created, err := sc.store.CreateMobilitySubmission(c.Request.Context(), &submission, auth.CurrentUser(c))
	if err != nil {
		respondRepositoryError(c, err, "create mobility submission")
		return
	}

	respondCreated(c, created)
}

// UpdateMobilitySubmission applies a partial update to the submission's own
// columns.
// PATCH /api/submissions/mobility/:id
func (sc *SubmissionsController) UpdateMobilitySubmission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if sc.mobilityForCaller(c, id, "update mobility submission") == nil {
		return
	}

	s, err := sc.store.UpdateMobilitySubmission(c.Request.Context(), id, updates, auth.CurrentUser(c))
	if err != nil {
		respondRepositoryError(c, err, "update mobility submission")
		return
	}

	c.JSON(http.StatusOK, s)
}

// DeleteMobilitySubmission removes a submission and its results tree.
// DELETE /api/submissions/mobility/:id
func (sc *SubmissionsController) DeleteMobilitySubmission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if sc.mobilityForCaller(c, id, "delete mobility submission") == nil {
		return
	}

	if err := sc.store.DeleteMobilitySubmission(c.Request.Context(), id); err != nil {
		respondRepositoryError(c, err, "delete mobility submission")
		return
	}

	respondSuccess(c, "mobility submission deleted")
}

// CopyMobilitySubmission duplicates a submission with its full results tree
// as a new unpublished draft.
// POST /api/submissions/mobility/:id/copy
func (sc *SubmissionsController) CopyMobilitySubmission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if sc.mobilityForCaller(c, id, "copy mobility submission") == nil {
		return
	}

	dup, err := sc.store.CopyMobilitySubmission(c.Request.Context(), id, auth.CurrentUser(c))
	if err != nil {
		respondRepositoryError(c, err, "copy mobility submission")
		return
	}

	respondCreated(c, dup)
}

// ExportMobilitySubmission renders the submission as a downloadable report.
// GET /api/submissions/mobility/:id/export
func (sc *SubmissionsController) ExportMobilitySubmission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if sc.mobilityForCaller(c, id, "export mobility submission") == nil {
		return
	}

	report, err := sc.store.ExportMobilitySubmission(c.Request.Context(), id, sc.exporter)
	if err != nil {
		respondRepositoryError(c, err, "export mobility submission")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="mobility-submission.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", report)
}

// GetAllClimateSubmissions returns the caller's climate submissions, newest
// first.
// GET /api/submissions/climate
func (sc *SubmissionsController) GetAllClimateSubmissions(c *gin.Context) {
	subs, err := sc.store.GetClimateSubmissionsForUser(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		respondRepositoryError(c, err, "get all climate submissions")
		return
	}
	c.JSON(http.StatusOK, subs)
}

// GetClimateSubmission returns one climate submission.
// GET /api/submissions/climate/:id
func (sc *SubmissionsController) GetClimateSubmission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if s := sc.climateForCaller(c, id, "get climate submission"); s != nil {
		c.JSON(http.StatusOK, s)
	}
}

// CreateClimateSubmission creates a climate submission in the caller's
// municipality.
// POST /api/submissions/climate
func (sc *SubmissionsController) CreateClimateSubmission(c *gin.Context) {
	var submission entities.ClimateSubmission
	if err := c.ShouldBindJSON(&submission); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	created, err := sc.store.CreateClimateSubmission(c.Request.Context(), &submission, auth.CurrentUser(c))
	if err != nil {
		respondRepositoryError(c, err, "create climate submission")
		return
	}

	respondCreated(c, created)
}

// UpdateClimateSubmission applies a partial update.
// PATCH /api/submissions/climate/:id
func (sc *SubmissionsController) UpdateClimateSubmission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if sc.climateForCaller(c, id, "update climate submission") == nil {
		return
	}

	s, err := sc.store.UpdateClimateSubmission(c.Request.Context(), id, updates, auth.CurrentUser(c))
	if err != nil {
		respondRepositoryError(c, err, "update climate submission")
		return
	}

	c.JSON(http.StatusOK, s)
}

// DeleteClimateSubmission removes a climate submission.
// DELETE /api/submissions/climate/:id
func (sc *SubmissionsController) DeleteClimateSubmission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if sc.climateForCaller(c, id, "delete climate submission") == nil {
		return
	}

	if err := sc.store.DeleteClimateSubmission(c.Request.Context(), id); err != nil {
		respondRepositoryError(c, err, "delete climate submission")
		return
	}

	respondSuccess(c, "climate submission deleted")
}

// CopyClimateSubmission duplicates a climate submission as a new
// unpublished draft.
// POST /api/submissions/climate/:id/copy
func (sc *SubmissionsController) CopyClimateSubmission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if sc.climateForCaller(c, id, "copy climate submission") == nil {
		return
	}

	dup, err := sc.store.CopyClimateSubmission(c.Request.Context(), id, auth.CurrentUser(c))
	if err != nil {
		respondRepositoryError(c, err, "copy climate submission")
		return
	}

	respondCreated(c, dup)
}

// ExportClimateSubmission renders the submission as a downloadable report.
// GET /api/submissions/climate/:id/export
func (sc *SubmissionsController) ExportClimateSubmission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if sc.climateForCaller(c, id, "export climate submission") == nil {
		return
	}

	report, err := sc.store.ExportClimateSubmission(c.Request.Context(), id, sc.exporter)
	if err != nil {
		respondRepositoryError(c, err, "export climate submission")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="climate-submission.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", report)
}
