// Package submissions manages mobility and climate submissions: the root
// aggregates of the two assessment forms. Besides CRUD it implements
// copying a submission into a fresh draft and exporting the materialized
// aggregate through the report exporter.
package submissions

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/koopstadt/impactcheck/internal/database/repository"
	"github.com/koopstadt/impactcheck/internal/entities"
	"github.com/koopstadt/impactcheck/internal/export"
)

// mobilityTree preloads the full aggregate: results, their sub-results and
// the indicators linked to each sub-result.
var mobilityTree = []string{
	"Objectives",
	"Objectives.MainObjective",
	"Objectives.SubObjectives",
	"Objectives.SubObjectives.SubObjective",
	"Objectives.SubObjectives.Indicators",
}

var newestFirst = []repository.SortParam{
	{Field: "created_at", Order: repository.Desc},
}

// Repository handles mobility and climate submission database operations.
type Repository struct {
	mobility *repository.Repository[entities.MobilitySubmission]
	climate  *repository.Repository[entities.ClimateSubmission]
}

// NewRepository creates a new submissions repository.
func NewRepository(db *gorm.DB) (*Repository, error) {
	mobility, err := repository.New[entities.MobilitySubmission](db)
	if err != nil {
		return nil, err
	}
	climate, err := repository.New[entities.ClimateSubmission](db)
	if err != nil {
		return nil, err
	}
	return &Repository{mobility: mobility, climate: climate}, nil
}

// GetMobilitySubmission retrieves a mobility submission with its full
// objectives tree.
func (r *Repository) GetMobilitySubmission(ctx context.Context, id uint) (*entities.MobilitySubmission, error) {
	return r.mobility.Get(ctx, id, mobilityTree...)
}

// GetMobilitySubmissionsForUser retrieves the submissions of the
// principal's municipality, newest first.
func (r *Repository) GetMobilitySubmissionsForUser(ctx context.Context, principal *entities.User) ([]entities.MobilitySubmission, error) {
	return r.mobility.GetByKey(ctx, "municipality_id", principal.MunicipalityID, newestFirst, mobilityTree...)
}

// CreateMobilitySubmission creates a submission, including any objectives
// tree carried in the payload, stamped from the principal.
func (r *Repository) CreateMobilitySubmission(ctx context.Context, s *entities.MobilitySubmission, principal *entities.User) (*entities.MobilitySubmission, error) {
	if err := r.mobility.Create(ctx, s, principal); err != nil {
		return nil, err
	}
	return r.GetMobilitySubmission(ctx, s.ID)
}

// UpdateMobilitySubmission applies a partial update to the submission row.
// The objectives tree is owned data and managed through its own routes.
func (r *Repository) UpdateMobilitySubmission(ctx context.Context, id uint, updates map[string]any, principal *entities.User) (*entities.MobilitySubmission, error) {
	if _, err := r.mobility.Update(ctx, id, updates, principal); err != nil {
		return nil, err
	}
	return r.GetMobilitySubmission(ctx, id)
}

// DeleteMobilitySubmission deletes a submission and the objectives tree it
// owns. Linked indicators survive.
func (r *Repository) DeleteMobilitySubmission(ctx context.Context, id uint) error {
	return r.mobility.Delete(ctx, id)
}

// CopyMobilitySubmission duplicates a submission into a fresh unpublished
// draft owned by the principal: new ids throughout the objectives tree, new
// created_at, authorship re-stamped, indicator links carried over.
func (r *Repository) CopyMobilitySubmission(ctx context.Context, id uint, principal *entities.User) (*entities.MobilitySubmission, error) {
	src, err := r.GetMobilitySubmission(ctx, id)
	if err != nil {
		return nil, err
	}

	dup := *src
	dup.ID = 0
	dup.CreatedAt = time.Time{}
	dup.UpdatedAt = time.Time{}
	dup.IsPublished = false
	dup.Author = nil
	dup.LastEditor = nil
	dup.Objectives = make([]entities.MobilityResult, len(src.Objectives))
	for i, obj := range src.Objectives {
		objCopy := obj
		objCopy.ID = 0
		objCopy.SubmissionID = 0
		objCopy.MainObjective = entities.MainObjective{}
		objCopy.SubObjectives = make([]entities.MobilitySubresult, len(obj.SubObjectives))
		for j, sub := range obj.SubObjectives {
			subCopy := sub
			subCopy.ID = 0
			subCopy.MobilityResultID = 0
			subCopy.SubObjective = entities.SubObjective{}
			objCopy.SubObjectives[j] = subCopy
		}
		dup.Objectives[i] = objCopy
	}

	if err := r.mobility.Create(ctx, &dup, principal); err != nil {
		return nil, err
	}
	return r.GetMobilitySubmission(ctx, dup.ID)
}

// ExportMobilitySubmission fetches the full aggregate and hands it to the
// exporter.
func (r *Repository) ExportMobilitySubmission(ctx context.Context, id uint, exp export.Exporter) ([]byte, error) {
	s, err := r.GetMobilitySubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	return exp.MobilityReport(s)
}

// GetClimateSubmission retrieves a climate submission.
func (r *Repository) GetClimateSubmission(ctx context.Context, id uint) (*entities.ClimateSubmission, error) {
	return r.climate.Get(ctx, id)
}

// GetClimateSubmissionsForUser retrieves the climate submissions of the
// principal's municipality, newest first.
func (r *Repository) GetClimateSubmissionsForUser(ctx context.Context, principal *entities.User) ([]entities.ClimateSubmission, error) {
	return r.climate.GetByKey(ctx, "municipality_id", principal.MunicipalityID, newestFirst)
}

// CreateClimateSubmission creates a climate submission stamped from the
// principal.
func (r *Repository) CreateClimateSubmission(ctx context.Context, s *entities.ClimateSubmission, principal *entities.User) (*entities.ClimateSubmission, error) {
	if err := r.climate.Create(ctx, s, principal); err != nil {
		return nil, err
	}
	return r.climate.Get(ctx, s.ID)
}

// UpdateClimateSubmission applies a partial update.
func (r *Repository) UpdateClimateSubmission(ctx context.Context, id uint, updates map[string]any, principal *entities.User) (*entities.ClimateSubmission, error) {
	return r.climate.Update(ctx, id, updates, principal)
}

// DeleteClimateSubmission deletes a climate submission.
func (r *Repository) DeleteClimateSubmission(ctx context.Context, id uint) error {
	return r.climate.Delete(ctx, id)
}

// CopyClimateSubmission duplicates a climate submission into a fresh
// unpublished draft owned by the principal.
func (r *Repository) CopyClimateSubmission(ctx context.Context, id uint, principal *entities.User) (*entities.ClimateSubmission, error) {
	src, err := r.climate.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	dup := *src
	dup.ID = 0
	dup.CreatedAt = time.Time{}
	dup.UpdatedAt = time.Time{}
	dup.IsPublished = false
	dup.Author = nil
	dup.LastEditor = nil

	if err := r.climate.Create(ctx, &dup, principal); err != nil {
		return nil, err
	}
	return r.climate.Get(ctx, dup.ID)
}

// ExportClimateSubmission fetches the submission and hands it to the
// exporter.
func (r *Repository) ExportClimateSubmission(ctx context.Context, id uint, exp export.Exporter) ([]byte, error) {
	s, err := r.climate.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return exp.ClimateReport(s)
}
