// Package indicators provides database operations for indicators and their
// tag associations. Tag membership is always replaced wholesale on update;
// leaving TagIDs nil keeps the existing membership.
package indicators

import (
	"context"

	"gorm.io/gorm"

	"github.com/koopstadt/impactcheck/internal/database/repository"
	"github.com/koopstadt/impactcheck/internal/entities"
)

// Repository handles all indicator database operations.
type Repository struct {
	core *repository.Repository[entities.Indicator]
}

// NewRepository creates a new indicators repository.
func NewRepository(db *gorm.DB) (*Repository, error) {
	core, err := repository.New[entities.Indicator](db)
	if err != nil {
		return nil, err
	}
	return &Repository{core: core}, nil
}

// GetIndicator retrieves an indicator with its tags.
func (r *Repository) GetIndicator(ctx context.Context, id uint) (*entities.Indicator, error) {
	return r.core.Get(ctx, id, "Tags")
}

// GetAllForMunicipality retrieves all indicators of one municipality,
// ordered by label.
func (r *Repository) GetAllForMunicipality(ctx context.Context, municipalityID uint) ([]entities.Indicator, error) {
	return r.core.GetAll(ctx, &municipalityID, []repository.SortParam{
		{Field: "label", Order: repository.Asc},
	}, "Tags")
}

// GetByTagLabel retrieves the municipality's indicators carrying a tag with
// the given label.
func (r *Repository) GetByTagLabel(ctx context.Context, municipalityID uint, label string) ([]entities.Indicator, error) {
	return r.core.GetByMultiKeys(ctx, map[string]any{
		"municipality_id": municipalityID,
		"tags.label":      label,
	}, nil, "Tags")
}

// CreateIndicator creates an indicator and attaches the tags resolved from
// tagIDs, in one transaction.
func (r *Repository) CreateIndicator(ctx context.Context, ind *entities.Indicator, tagIDs []uint, principal *entities.User) (*entities.Indicator, error) {
	err := r.core.CreateWithAssociations(ctx, ind, principal, []repository.Assoc{
		{Name: "Tags", IDs: tagIDs},
	})
	if err != nil {
		return nil, err
	}
	return r.GetIndicator(ctx, ind.ID)
}

// UpdateIndicator applies a partial update and, when tagIDs is non-nil,
// replaces the tag membership with exactly the resolved set.
func (r *Repository) UpdateIndicator(ctx context.Context, id uint, updates map[string]any, tagIDs []uint, principal *entities.User) (*entities.Indicator, error) {
	_, err := r.core.UpdateWithAssociations(ctx, id, updates, principal, []repository.Assoc{
		{Name: "Tags", IDs: tagIDs},
	})
	if err != nil {
		return nil, err
	}
	return r.GetIndicator(ctx, id)
}

// DeleteIndicator deletes an indicator. Its tags survive; only the
// membership rows go.
func (r *Repository) DeleteIndicator(ctx context.Context, id uint) error {
	return r.core.Delete(ctx, id)
}
