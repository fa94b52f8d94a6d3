// Package tags provides database operations for tag management. Tags are the
// association target for indicators and text blocks; deleting either side of
// such an association never deletes a tag.
package tags

import (
	"context"

	"gorm.io/gorm"

	"github.com/koopstadt/impactcheck/internal/database/repository"
	"github.com/koopstadt/impactcheck/internal/entities"
)

// Repository handles all tag database operations.
type Repository struct {
	core *repository.Repository[entities.Tag]
}

// NewRepository creates a new tags repository.
func NewRepository(db *gorm.DB) (*Repository, error) {
	core, err := repository.New[entities.Tag](db)
	if err != nil {
		return nil, err
	}
	return &Repository{core: core}, nil
}

// GetTag retrieves a tag by ID.
func (r *Repository) GetTag(ctx context.Context, id uint) (*entities.Tag, error) {
	return r.core.Get(ctx, id)
}

// GetAllForMunicipality retrieves all tags of one municipality, ordered by
// label.
func (r *Repository) GetAllForMunicipality(ctx context.Context, municipalityID uint) ([]entities.Tag, error) {
	return r.core.GetAll(ctx, &municipalityID, []repository.SortParam{
		{Field: "label", Order: repository.Asc},
	})
}

// CreateTag creates a tag for the principal's municipality.
func (r *Repository) CreateTag(ctx context.Context, label string, principal *entities.User) (*entities.Tag, error) {
	tag := &entities.Tag{Label: label}
	if err := r.core.Create(ctx, tag, principal); err != nil {
		return nil, err
	}
	return tag, nil
}

// UpdateTag applies a partial update to a tag.
func (r *Repository) UpdateTag(ctx context.Context, id uint, updates map[string]any, principal *entities.User) (*entities.Tag, error) {
	return r.core.Update(ctx, id, updates, principal)
}

// DeleteTag deletes a tag. Indicator and text block memberships are
// detached, not deleted.
func (r *Repository) DeleteTag(ctx context.Context, id uint) error {
	return r.core.Delete(ctx, id)
}
