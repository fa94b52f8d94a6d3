// Package objectives manages the mobility objective taxonomy: main
// objectives and the sub-objectives they own. Both levels carry a `no`
// ordinal; result sets are returned ordered by it, with each main
// objective's sub-objectives nested-sorted the same way.
package objectives

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/koopstadt/impactcheck/internal/database/repository"
	"github.com/koopstadt/impactcheck/internal/entities"
)

// byNo orders main objectives by their ordinal and, nested, each one's
// sub-objectives by theirs.
var byNo = []repository.SortParam{
	{Field: "no", Order: repository.Asc},
	{Field: "sub_objectives", Nested: &repository.SortParam{Field: "no", Order: repository.Asc}},
}

// Repository handles main and sub objective database operations.
type Repository struct {
	main *repository.Repository[entities.MainObjective]
	sub  *repository.Repository[entities.SubObjective]
}

// NewRepository creates a new objectives repository.
func NewRepository(db *gorm.DB) (*Repository, error) {
	main, err := repository.New[entities.MainObjective](db)
	if err != nil {
		return nil, err
	}
	sub, err := repository.New[entities.SubObjective](db)
	if err != nil {
		return nil, err
	}
	return &Repository{main: main, sub: sub}, nil
}

// GetMainObjective retrieves a main objective with its sub-objectives,
// ordered by `no`.
func (r *Repository) GetMainObjective(ctx context.Context, id uint) (*entities.MainObjective, error) {
	m, err := r.main.Get(ctx, id, "SubObjectives")
	if err != nil {
		return nil, err
	}
	sortSubObjectives(m)
	return m, nil
}

// GetAllForMunicipality retrieves every main objective of one municipality,
// ordered by `no` with sub-objectives nested-sorted.
func (r *Repository) GetAllForMunicipality(ctx context.Context, municipalityID uint) ([]entities.MainObjective, error) {
	return r.main.GetAll(ctx, &municipalityID, byNo, "SubObjectives")
}

// CreateMainObjective creates a main objective stamped from the principal.
func (r *Repository) CreateMainObjective(ctx context.Context, m *entities.MainObjective, principal *entities.User) (*entities.MainObjective, error) {
	if err := r.main.Create(ctx, m, principal); err != nil {
		return nil, err
	}
	return r.GetMainObjective(ctx, m.ID)
}

// UpdateMainObjective applies a partial update.
func (r *Repository) UpdateMainObjective(ctx context.Context, id uint, updates map[string]any, principal *entities.User) (*entities.MainObjective, error) {
	if _, err := r.main.Update(ctx, id, updates, principal); err != nil {
		return nil, err
	}
	return r.GetMainObjective(ctx, id)
}

// DeleteMainObjective deletes a main objective and the sub-objectives it
// owns.
func (r *Repository) DeleteMainObjective(ctx context.Context, id uint) error {
	return r.main.Delete(ctx, id)
}

// GetSubObjective retrieves a sub-objective by ID.
func (r *Repository) GetSubObjective(ctx context.Context, id uint) (*entities.SubObjective, error) {
	return r.sub.Get(ctx, id)
}

// GetSubObjectivesFor retrieves a main objective's sub-objectives ordered
// by `no`.
func (r *Repository) GetSubObjectivesFor(ctx context.Context, mainObjectiveID uint) ([]entities.SubObjective, error) {
	return r.sub.GetByKey(ctx, "main_objective_id", mainObjectiveID, []repository.SortParam{
		{Field: "no", Order: repository.Asc},
	})
}

// CreateSubObjective creates a sub-objective stamped from the principal.
// The `no` ordinal is expected to be unique within the parent; the caller
// owns that invariant.
func (r *Repository) CreateSubObjective(ctx context.Context, s *entities.SubObjective, principal *entities.User) (*entities.SubObjective, error) {
	if err := r.sub.Create(ctx, s, principal); err != nil {
		return nil, err
	}
	return r.sub.Get(ctx, s.ID)
}

// UpdateSubObjective applies a partial update.
func (r *Repository) UpdateSubObjective(ctx context.Context, id uint, updates map[string]any, principal *entities.User) (*entities.SubObjective, error) {
	return r.sub.Update(ctx, id, updates, principal)
}

// DeleteSubObjective deletes a sub-objective.
func (r *Repository) DeleteSubObjective(ctx context.Context, id uint) error {
	return r.sub.Delete(ctx, id)
}

func sortSubObjectives(m *entities.MainObjective) {
	sort.SliceStable(m.SubObjectives, func(i, j int) bool {
		return m.SubObjectives[i].No < m.SubObjectives[j].No
	})
}
