package sqlengine

import (
	"sort"

	"github.com/otelscope/otelscope/internal/attr"
)

// sortRows stably sorts rows by the statement's ORDER BY keys, in listed
// order, comparing each key per the column's attr.Value kind. A row missing
// a key (NULL) sorts before any non-null value, consistently for both
// ascending and descending directions.
func sortRows(rows []Row, orderBy []OrderTerm, schema TableSchema) error {
	if len(orderBy) == 0 {
		return nil
	}

	types := make([]ColumnType, len(orderBy))
	for i, term := range orderBy {
		def, ok := schema.ColumnDefByName(term.Column)
		if !ok {
			return validationErrorf("unknown column %q in ORDER BY", term.Column)
		}
		types[i] = def.Type
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for k, term := range orderBy {
			vi, oki := rows[i].Column(term.Column)
			vj, okj := rows[j].Column(term.Column)
			less, eq := compareForSort(vi, oki, vj, okj, types[k])
			if eq {
				continue
			}
			if term.Desc && oki && okj {
				return !less
			}
			return less
		}
		return false
	})
	return nil
}

func compareForSort(vi attr.Value, oki bool, vj attr.Value, okj bool, typ ColumnType) (less, equal bool) {
	if !oki && !okj {
		return false, true
	}
	if !oki {
		return true, false
	}
	if !okj {
		return false, false
	}
	cmp, comparable := vi.Compare(vj)
	if !comparable {
		return vi.String() < vj.String(), vi.String() == vj.String()
	}
	return cmp < 0, cmp == 0
}
