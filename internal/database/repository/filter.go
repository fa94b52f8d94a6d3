package repository

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// namer converts Go relationship names to their snake_case path form, the
// same way gorm derives column names.
var namer = schema.NamingStrategy{}

func matchesColumnName(goName, pathSegment string) bool {
	return namer.ColumnName("", goName) == pathSegment
}

// joinState tracks the aliases created while translating dotted filter
// paths. Two paths sharing a relationship prefix reuse the same alias, so
// filtering on two attributes of one related entity never produces two
// joins to it.
type joinState struct {
	aliases map[string]string         // path prefix -> alias
	schemas map[string]*schema.Schema // path prefix -> target schema
	joins   []string
}

// applyFilters translates a conjunction of (path, value) criteria into join
// and predicate chains. Nil values are skipped entirely: an unset optional
// filter contributes neither a predicate nor a join, and never turns into
// an IS NULL match.
func (r *Repository[T]) applyFilters(q *gorm.DB, keys map[string]any) (*gorm.DB, error) {
	st := &joinState{
		aliases: make(map[string]string),
		schemas: make(map[string]*schema.Schema),
	}

	// Deterministic predicate order keeps generated SQL reproducible.
	paths := make([]string, 0, len(keys))
	for k := range keys {
		paths = append(paths, k)
	}
	sort.Strings(paths)

	for _, path := range paths {
		value := keys[path]
		if value == nil {
			continue
		}
		segs := strings.Split(path, ".")
		alias, sch := r.schema.Table, r.schema
		if len(segs) > 1 {
			var err error
			alias, sch, err = st.resolve(r.schema, segs[:len(segs)-1])
			if err != nil {
				return nil, err
			}
		}
		term := segs[len(segs)-1]
		f, ok := sch.FieldsByDBName[term]
		if !ok {
			return nil, &InvalidFieldError{Entity: sch.Name, Field: term}
		}
		q = q.Where(fmt.Sprintf("%s.%s = ?", alias, f.DBName), value)
	}

	for _, j := range st.joins {
		q = q.Joins(j)
	}
	if len(st.joins) > 0 {
		// Joins through collections multiply rows; collapse them back to
		// one row per entity.
		q = q.Distinct()
	}
	return q, nil
}

// resolve walks the non-terminal segments of a path, creating or reusing a
// join alias for each relationship, and returns the alias and schema the
// terminal attribute is anchored at.
func (st *joinState) resolve(root *schema.Schema, segs []string) (string, *schema.Schema, error) {
	cur := root
	curAlias := root.Table
	for i, seg := range segs {
		prefix := strings.Join(segs[:i+1], ".")
		if a, ok := st.aliases[prefix]; ok {
			curAlias = a
			cur = st.schemas[prefix]
			continue
		}

		rel := findRelation(cur, seg)
		if rel == nil {
			return "", nil, &InvalidFieldError{Entity: cur.Name, Field: seg}
		}

		alias := strings.ReplaceAll(prefix, ".", "__")
		if rel.Type == schema.Many2Many {
			jt := alias + "__jt"
			var toJoin, toTarget []string
			for _, ref := range rel.References {
				if ref.OwnPrimaryKey {
					toJoin = append(toJoin, fmt.Sprintf("%s.%s = %s.%s", jt, ref.ForeignKey.DBName, curAlias, ref.PrimaryKey.DBName))
				} else {
					toTarget = append(toTarget, fmt.Sprintf("%s.%s = %s.%s", alias, ref.PrimaryKey.DBName, jt, ref.ForeignKey.DBName))
				}
			}
			st.joins = append(st.joins,
				fmt.Sprintf("JOIN %s AS %s ON %s", rel.JoinTable.Table, jt, strings.Join(toJoin, " AND ")),
				fmt.Sprintf("JOIN %s AS %s ON %s", rel.FieldSchema.Table, alias, strings.Join(toTarget, " AND ")),
			)
		} else {
			var conds []string
			for _, ref := range rel.References {
				if ref.OwnPrimaryKey {
					// has-one / has-many: the foreign key lives on the target.
					conds = append(conds, fmt.Sprintf("%s.%s = %s.%s", alias, ref.ForeignKey.DBName, curAlias, ref.PrimaryKey.DBName))
				} else {
					// belongs-to: the foreign key lives on the current entity.
					conds = append(conds, fmt.Sprintf("%s.%s = %s.%s", alias, ref.PrimaryKey.DBName, curAlias, ref.ForeignKey.DBName))
				}
			}
			st.joins = append(st.joins,
				fmt.Sprintf("JOIN %s AS %s ON %s", rel.FieldSchema.Table, alias, strings.Join(conds, " AND ")))
		}

		st.aliases[prefix] = alias
		st.schemas[prefix] = rel.FieldSchema
		curAlias = alias
		cur = rel.FieldSchema
	}
	return curAlias, cur, nil
}

// findRelation matches a path segment against the schema's relationships,
// accepting either the Go field name or its snake_case form.
func findRelation(sch *schema.Schema, seg string) *schema.Relationship {
	if rel, ok := sch.Relationships.Relations[seg]; ok {
		return rel
	}
	for _, rel := range sch.Relationships.Relations {
		if matchesColumnName(rel.Name, seg) {
			return rel
		}
	}
	return nil
}
