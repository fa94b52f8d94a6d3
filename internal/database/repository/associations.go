package repository

import (
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Assoc names a relationship on the entity ("Tags", "Indicators") together
// with the ids its membership should be built from. A nil id list means the
// relationship is not part of this write; an empty non-nil list means "no
// members".
type Assoc struct {
	Name string
	IDs  []uint
}

// relation resolves an association name against the entity schema, rejecting
// anything that is not a relationship.
func (r *Repository[T]) relation(name string) (*schema.Relationship, error) {
	rel, ok := r.schema.Relationships.Relations[name]
	if !ok {
		return nil, &InvalidFieldError{Entity: r.schema.Name, Field: name}
	}
	return rel, nil
}

// resolveTargets loads the association targets by id. Ids that do not exist
// are dropped without error; the membership is built from whatever resolves.
func (r *Repository[T]) resolveTargets(tx *gorm.DB, rel *schema.Relationship, ids []uint) (any, int, error) {
	slice := reflect.New(reflect.SliceOf(rel.FieldSchema.ModelType))
	if len(ids) == 0 {
		return slice.Interface(), 0, nil
	}
	if err := tx.Where("id IN ?", ids).Find(slice.Interface()).Error; err != nil {
		return nil, 0, err
	}
	return slice.Interface(), slice.Elem().Len(), nil
}

// appendAssociation attaches the resolved targets to the relationship. Used
// on the create path, where the membership starts empty.
func (r *Repository[T]) appendAssociation(tx *gorm.DB, e *T, a Assoc) error {
	rel, err := r.relation(a.Name)
	if err != nil {
		return err
	}
	targets, n, err := r.resolveTargets(tx, rel, a.IDs)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	return tx.Model(e).Association(a.Name).Append(targets)
}

// replaceAssociation swaps the relationship's membership for the resolved
// set. Detached members are not deleted, only unlinked.
func (r *Repository[T]) replaceAssociation(tx *gorm.DB, e *T, a Assoc) error {
	rel, err := r.relation(a.Name)
	if err != nil {
		return err
	}
	targets, n, err := r.resolveTargets(tx, rel, a.IDs)
	if err != nil {
		return err
	}
	if n == 0 {
		return tx.Model(e).Association(a.Name).Clear()
	}
	return tx.Model(e).Association(a.Name).Replace(targets)
}
