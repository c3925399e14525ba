package listing

import (
	"sort"
	"strings"

	"github.com/rpupo63/reelbyte-backend/errs"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortTable maps the public sort_by values of one entity onto its columns.
type SortTable struct {
	Default string
	Columns map[string]string
}

// Sort is a resolved ordering: a column that came from a SortTable and a direction.
type Sort struct {
	Key       string
	Column    string
	Direction Direction
}

// Keys returns the accepted sort_by values in a stable order.
func (t SortTable) Keys() []string {
	keys := make([]string, 0, len(t.Columns))
	for k := range t.Columns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolve validates sortBy and sortOrder. Empty values take the defaults
// (t.Default, descending); anything outside the allow-lists is rejected.
func (t SortTable) Resolve(sortBy, sortOrder string) (Sort, error) {
	key := strings.TrimSpace(sortBy)
	if key == "" {
		key = t.Default
	}

	column, ok := t.Columns[key]
	if !ok {
		return Sort{}, errs.NewInvalidEnumError("sort_by", sortBy, t.Keys())
	}

	var dir Direction
	switch strings.TrimSpace(sortOrder) {
	case "", string(Desc):
		dir = Desc
	case string(Asc):
		dir = Asc
	default:
		return Sort{}, errs.NewInvalidEnumError("sort_order", sortOrder, []string{string(Asc), string(Desc)})
	}

	return Sort{Key: key, Column: column, Direction: dir}, nil
}
