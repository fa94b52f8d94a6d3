// Package textblocks provides database operations for reusable text blocks
// and their tag associations.
package textblocks

import (
	"context"

	"gorm.io/gorm"

	"github.com/koopstadt/impactcheck/internal/database/repository"
	"github.com/koopstadt/impactcheck/internal/entities"
)

// Repository handles all text block database operations.
type Repository struct {
	core *repository.Repository[entities.TextBlock]
}

// NewRepository creates a new text blocks repository.
func NewRepository(db *gorm.DB) (*Repository, error) {
	core, err := repository.New[entities.TextBlock](db)
	if err != nil {
		return nil, err
	}
	return &Repository{core: core}, nil
}

// GetTextBlock retrieves a text block with its tags.
func (r *Repository) GetTextBlock(ctx context.Context, id uint) (*entities.TextBlock, error) {
	return r.core.Get(ctx, id, "Tags")
}

// GetAllForMunicipality retrieves all text blocks of one municipality,
// ordered by label.
func (r *Repository) GetAllForMunicipality(ctx context.Context, municipalityID uint) ([]entities.TextBlock, error) {
	return r.core.GetAll(ctx, &municipalityID, []repository.SortParam{
		{Field: "label", Order: repository.Asc},
	}, "Tags")
}

// CreateTextBlock creates a text block and attaches the tags resolved from
// tagIDs, in one transaction.
func (r *Repository) CreateTextBlock(ctx context.Context, tb *entities.TextBlock, tagIDs []uint, principal *entities.User) (*entities.TextBlock, error) {
	err := r.core.CreateWithAssociations(ctx, tb, principal, []repository.Assoc{
		{Name: "Tags", IDs: tagIDs},
	})
	if err != nil {
		return nil, err
	}
	return r.GetTextBlock(ctx, tb.ID)
}

// UpdateTextBlock applies a partial update and, when tagIDs is non-nil,
// replaces the tag membership with exactly the resolved set.
func (r *Repository) UpdateTextBlock(ctx context.Context, id uint, updates map[string]any, tagIDs []uint, principal *entities.User) (*entities.TextBlock, error) {
	_, err := r.core.UpdateWithAssociations(ctx, id, updates, principal, []repository.Assoc{
		{Name: "Tags", IDs: tagIDs},
	})
	if err != nil {
		return nil, err
	}
	return r.GetTextBlock(ctx, id)
}

// DeleteTextBlock deletes a text block, detaching its tags.
func (r *Repository) DeleteTextBlock(ctx context.Context, id uint) error {
	return r.core.Delete(ctx, id)
}
