package repository

import (
	"context"
	"reflect"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// SortParam is one instruction of a sort specification. With Nested unset,
// Field names a scalar column on the current level. With Nested set, Field
// names a relationship collection: each element's collection is ordered by
// the chain's leaf (field, order), recursively, without re-querying the
// store.
type SortParam struct {
	Field  string
	Order  Order
	Nested *SortParam
}

// leaf follows the Nested chain to the terminal (field, order) pair.
func (p *SortParam) leaf() *SortParam {
	l := p
	for l.Nested != nil {
		l = l.Nested
	}
	return l
}

// applyOrder pushes top-level scalar sort params down as ORDER BY. Params
// with a Nested chain are handled in memory after materialization. Unknown
// columns fail here, before any row is read.
func (r *Repository[T]) applyOrder(q *gorm.DB, params []SortParam) (*gorm.DB, error) {
	for _, p := range params {
		if p.Nested != nil {
			if _, err := r.collectionRelation(r.schema, p.Field); err != nil {
				return nil, err
			}
			continue
		}
		f, ok := r.schema.FieldsByDBName[p.Field]
		if !ok {
			return nil, &InvalidFieldError{Entity: r.schema.Name, Field: p.Field}
		}
		q = q.Order(clause.OrderByColumn{
			Column: clause.Column{Table: r.schema.Table, Name: f.DBName},
			Desc:   p.Order == Desc,
		})
	}
	return q, nil
}

// sortNested orders the relationship collections of already-materialized
// entities in place. Top-level scalar params were already applied as ORDER
// BY and are skipped here.
func (r *Repository[T]) sortNested(ctx context.Context, items []T, params []SortParam) error {
	for i := range params {
		p := &params[i]
		if p.Nested == nil {
			continue
		}
		for j := range items {
			v := reflect.ValueOf(&items[j]).Elem()
			if err := sortCollection(ctx, r.schema, v, p); err != nil {
				return err
			}
		}
	}
	return nil
}

// sortCollection orders the collection named by p.Field on one struct value,
// then recurses while the chain names further collections. Every level is
// sorted by the chain's leaf (field, order) and every sort is stable.
func sortCollection(ctx context.Context, sch *schema.Schema, v reflect.Value, p *SortParam) error {
	rel, err := collectionRelationOf(sch, p.Field)
	if err != nil {
		return err
	}
	leaf := p.leaf()
	elemSch := rel.FieldSchema
	f, ok := elemSch.FieldsByDBName[leaf.Field]
	if !ok {
		return &InvalidFieldError{Entity: elemSch.Name, Field: leaf.Field}
	}

	slice := rel.Field.ReflectValueOf(ctx, v)
	if slice.Kind() != reflect.Slice {
		return nil
	}
	stableSortSlice(ctx, slice, f, leaf.Order == Desc)

	if p.Nested != nil && p.Nested.Nested != nil {
		for i := 0; i < slice.Len(); i++ {
			if err := sortCollection(ctx, elemSch, slice.Index(i), p.Nested); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Repository[T]) collectionRelation(sch *schema.Schema, name string) (*schema.Relationship, error) {
	return collectionRelationOf(sch, name)
}

func collectionRelationOf(sch *schema.Schema, name string) (*schema.Relationship, error) {
	for _, rel := range sch.Relationships.Relations {
		if rel.Name != name && !matchesColumnName(rel.Name, name) {
			continue
		}
		if rel.Type == schema.HasMany || rel.Type == schema.Many2Many {
			return rel, nil
		}
		return nil, &InvalidFieldError{Entity: sch.Name, Field: name}
	}
	return nil, &InvalidFieldError{Entity: sch.Name, Field: name}
}

// stableSortSlice orders slice elements by the given field. Descending
// numeric keys are negated under an ascending comparison; descending
// non-numeric keys reverse the comparator instead. Both paths stay stable.
func stableSortSlice(ctx context.Context, slice reflect.Value, f *schema.Field, desc bool) {
	sort.SliceStable(slice.Interface(), func(i, j int) bool {
		a, _ := f.ValueOf(ctx, slice.Index(i))
		b, _ := f.ValueOf(ctx, slice.Index(j))
		if fa, aok := toFloat(a); aok {
			fb, _ := toFloat(b)
			if desc {
				fa, fb = -fa, -fb
			}
			return fa < fb
		}
		if desc {
			return compareValue(b, a) < 0
		}
		return compareValue(a, b) < 0
	})
}

// toFloat reports whether the value is numeric, returning it widened.
func toFloat(v any) (float64, bool) {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return 0, false
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// compareValue is the non-numeric comparison: strings, times and bools.
// Anything else keeps its input order.
func compareValue(a, b any) int {
	av := reflect.Indirect(reflect.ValueOf(a))
	bv := reflect.Indirect(reflect.ValueOf(b))
	if !av.IsValid() || !bv.IsValid() {
		return 0
	}
	if at, ok := av.Interface().(time.Time); ok {
		bt, ok := bv.Interface().(time.Time)
		if !ok {
			return 0
		}
		switch {
		case at.Before(bt):
			return -1
		case at.After(bt):
			return 1
		}
		return 0
	}
	switch av.Kind() {
	case reflect.String:
		as, bs := av.String(), bv.String()
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		}
		return 0
	case reflect.Bool:
		ab, bb := av.Bool(), bv.Bool()
		switch {
		case !ab && bb:
			return -1
		case ab && !bb:
			return 1
		}
		return 0
	}
	return 0
}
