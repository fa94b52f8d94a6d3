// Package repository implements the shared entity access layer every domain
// entity is built on: generic CRUD with transactional semantics, dynamic
// sorting of nested result sets, filtering by dotted relationship paths and
// wholesale reconciliation of many-to-many associations.
//
// # Usage
//
//	repo, err := repository.New[entities.Indicator](db)
//	indicator, err := repo.Get(ctx, id, "Tags")
//
// All failures surface as the typed errors in this package; the HTTP layer
// maps NotFoundError to 404, AuthorizationError to 403 and CommitError to a
// generic server error.
package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/koopstadt/impactcheck/internal/entities"
)

// schemaCache is shared across all repositories so each entity's metadata is
// parsed exactly once.
var schemaCache = &sync.Map{}

// Repository provides uniform create/read/update/delete over one entity type.
// It holds no mutable state beyond the connection handle and the immutable
// schema metadata parsed at construction, so a single instance is safe for
// concurrent use.
type Repository[T any] struct {
	db     *gorm.DB
	schema *schema.Schema
}

// New builds a repository for T. T must implement entities.Entity; its
// relationship metadata is resolved here, once, so unknown sort columns and
// filter paths can be rejected without touching the store.
func New[T any](db *gorm.DB) (*Repository[T], error) {
	model := new(T)
	if _, ok := any(model).(entities.Entity); !ok {
		return nil, fmt.Errorf("%T does not implement entities.Entity", model)
	}
	s, err := schema.Parse(model, schemaCache, db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("parsing schema for %T: %w", model, err)
	}
	return &Repository[T]{db: db, schema: s}, nil
}

// DB exposes the underlying handle for callers that compose their own
// queries on top of the generic operations.
func (r *Repository[T]) DB() *gorm.DB {
	return r.db
}

// EntityName returns the parsed entity name, e.g. "Indicator".
func (r *Repository[T]) EntityName() string {
	return r.schema.Name
}

// Get retrieves a single entity by id.
func (r *Repository[T]) Get(ctx context.Context, id uint, preloads ...string) (*T, error) {
	q := r.db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	var e T
	err := q.First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: r.schema.Name, Key: "id", Value: id}
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetAll retrieves every entity, optionally scoped to one municipality.
// An empty result set is reported as NotFoundError, never as an empty
// slice; callers that treat zero results as valid must special-case it.
func (r *Repository[T]) GetAll(ctx context.Context, municipalityID *uint, sort []SortParam, preloads ...string) ([]T, error) {
	q := r.db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if municipalityID != nil {
		f, ok := r.schema.FieldsByDBName["municipality_id"]
		if !ok {
			return nil, &InvalidFieldError{Entity: r.schema.Name, Field: "municipality_id"}
		}
		q = q.Where(fmt.Sprintf("%s.%s = ?", r.schema.Table, f.DBName), *municipalityID)
	}
	q, err := r.applyOrder(q, sort)
	if err != nil {
		return nil, err
	}
	var es []T
	if err := q.Find(&es).Error; err != nil {
		return nil, err
	}
	if len(es) == 0 {
		return nil, &NotFoundError{Entity: r.schema.Name}
	}
	if err := r.sortNested(ctx, es, sort); err != nil {
		return nil, err
	}
	return es, nil
}

// GetByKey retrieves the entities matching a single column predicate.
func (r *Repository[T]) GetByKey(ctx context.Context, key string, value any, sort []SortParam, preloads ...string) ([]T, error) {
	f, ok := r.schema.FieldsByDBName[key]
	if !ok {
		return nil, &InvalidFieldError{Entity: r.schema.Name, Field: key}
	}
	q := r.db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	q = q.Where(fmt.Sprintf("%s.%s = ?", r.schema.Table, f.DBName), value)
	q, err := r.applyOrder(q, sort)
	if err != nil {
		return nil, err
	}
	var es []T
	if err := q.Find(&es).Error; err != nil {
		return nil, err
	}
	if len(es) == 0 {
		return nil, &NotFoundError{Entity: r.schema.Name, Key: key, Value: value}
	}
	if err := r.sortNested(ctx, es, sort); err != nil {
		return nil, err
	}
	return es, nil
}

// GetByMultiKeys retrieves the entities matching every given (path, value)
// pair. A path containing dots traverses relationships, e.g. "author.role"
// or "tags.label"; repeated prefixes share one join. A nil value skips its
// key entirely: it contributes no predicate and no join.
func (r *Repository[T]) GetByMultiKeys(ctx context.Context, keys map[string]any, sort []SortParam, preloads ...string) ([]T, error) {
	q := r.db.WithContext(ctx).Model(new(T))
	for _, p := range preloads {
		q = q.Preload(p)
	}
	q, err := r.applyFilters(q, keys)
	if err != nil {
		return nil, err
	}
	q, err = r.applyOrder(q, sort)
	if err != nil {
		return nil, err
	}
	var es []T
	if err := q.Find(&es).Error; err != nil {
		return nil, err
	}
	if len(es) == 0 {
		return nil, &NotFoundError{Entity: r.schema.Name, Key: "keys", Value: keys}
	}
	if err := r.sortNested(ctx, es, sort); err != nil {
		return nil, err
	}
	return es, nil
}

// Create persists a new entity. When a principal is supplied the tenant and
// authorship columns are stamped from it, overriding anything the payload
// carried. The write is one transaction; on failure nothing is retained and
// a CommitError surfaces.
func (r *Repository[T]) Create(ctx context.Context, e *T, principal *entities.User) error {
	stamp(e, principal, true)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(e).Error
	})
	if err != nil {
		return &CommitError{Err: err}
	}
	return nil
}

// CreateWithAssociations persists a new entity and attaches the resolved
// association targets, in a single transaction: either both the row and all
// memberships are committed, or neither is. The named relationships are
// omitted from the primary insert so the row path and the membership path
// stay separate.
func (r *Repository[T]) CreateWithAssociations(ctx context.Context, e *T, principal *entities.User, assocs []Assoc) error {
	stamp(e, principal, true)
	omit := make([]string, 0, len(assocs))
	for _, a := range assocs {
		if _, err := r.relation(a.Name); err != nil {
			return err
		}
		omit = append(omit, a.Name)
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(omit...).Create(e).Error; err != nil {
			return err
		}
		for _, a := range assocs {
			if len(a.IDs) == 0 {
				continue
			}
			if err := r.appendAssociation(tx, e, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &CommitError{Err: err}
	}
	return nil
}

// Update applies a partial update to the entity with the given id. Only the
// keys present in updates are touched; a key set to its zero value is
// applied, an absent key is left alone. The id and tenant columns are
// immutable and rejected. Stamps last_edited_by when a principal is given.
func (r *Repository[T]) Update(ctx context.Context, id uint, updates map[string]any, principal *entities.User) (*T, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := r.updateTx(tx, id, updates, principal)
		return err
	})
	if err != nil {
		return nil, wrapWriteErr(err)
	}
	return r.Get(ctx, id)
}

// UpdateWithAssociations updates the entity and then replaces the
// membership of every association whose id list is non-nil, wholesale. An
// empty non-nil list clears the membership; a nil list leaves it untouched.
// Row update and membership sync share one transaction.
func (r *Repository[T]) UpdateWithAssociations(ctx context.Context, id uint, updates map[string]any, principal *entities.User, assocs []Assoc) (*T, error) {
	for _, a := range assocs {
		if _, err := r.relation(a.Name); err != nil {
			return nil, err
		}
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e, err := r.updateTx(tx, id, updates, principal)
		if err != nil {
			return err
		}
		for _, a := range assocs {
			if a.IDs == nil {
				continue
			}
			if err := r.replaceAssociation(tx, e, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapWriteErr(err)
	}
	return r.Get(ctx, id)
}

// Delete removes the entity and its owned children. Association membership
// rows are detached; the entities on the other side are never deleted.
func (r *Repository[T]) Delete(ctx context.Context, id uint) error {
	e, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Select(clause.Associations).Delete(e).Error
	})
	if err != nil {
		return &CommitError{Err: err}
	}
	return nil
}

// updateTx loads the row inside tx, validates the update keys and applies
// them. NotFoundError and InvalidFieldError pass through untouched.
func (r *Repository[T]) updateTx(tx *gorm.DB, id uint, updates map[string]any, principal *entities.User) (*T, error) {
	var e T
	err := tx.First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: r.schema.Name, Key: "id", Value: id}
	}
	if err != nil {
		return nil, err
	}

	applied := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		if k == "id" || k == "municipality_id" {
			return nil, &InvalidFieldError{Entity: r.schema.Name, Field: k}
		}
		if _, ok := r.schema.FieldsByDBName[k]; !ok {
			return nil, &InvalidFieldError{Entity: r.schema.Name, Field: k}
		}
		applied[k] = v
	}
	if principal != nil {
		if _, ok := any(&e).(entities.Authored); ok {
			applied["last_edited_by"] = principal.ID
		}
	}
	if len(applied) == 0 {
		return &e, nil
	}
	if err := tx.Model(&e).Updates(applied).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// stamp copies tenant and authorship columns from the principal onto the
// entity, for those capabilities the entity actually has.
func stamp[T any](e *T, principal *entities.User, creating bool) {
	if principal == nil {
		return
	}
	if ts, ok := any(e).(entities.TenantScoped); ok {
		ts.SetMunicipalityID(principal.MunicipalityID)
	}
	if au, ok := any(e).(entities.Authored); ok {
		if creating {
			au.SetCreatedBy(principal.ID)
		}
		au.SetLastEditedBy(principal.ID)
	}
}

// wrapWriteErr keeps the typed errors intact and wraps everything else as a
// commit failure.
func wrapWriteErr(err error) error {
	var nf *NotFoundError
	var fe *InvalidFieldError
	if errors.As(err, &nf) || errors.As(err, &fe) {
		return err
	}
	return &CommitError{Err: err}
}
