package table

import (
	"fmt"
	"slices"

	"github.com/vegasq/tabula/aggregate"
	"github.com/vegasq/tabula/column"
	"github.com/vegasq/tabula/errs"
	"github.com/vegasq/tabula/scalar"
)

// GroupSpec describes a GroupBy.
//
// When AggColumns is empty every numeric column that is not a group column
// is aggregated with the single entry of Operations. Otherwise Operations
// has one entry per aggregation column, or a single entry that applies to
// all of them. OutputNames defaults to "{column}.{operation}".
type GroupSpec struct {
	Columns     []string
	Operations  []string
	AggColumns  []string
	OutputNames []string
}

// GroupBy partitions rows by the values of the group columns and reduces
// every aggregation column per group. Groups appear in the order their key
// first occurs; a null key cell forms its own group.
func (t *Table) GroupBy(spec GroupSpec) (*Table, error) {
	if len(spec.Columns) == 0 {
		return nil, errs.Argument("group by", "at least one group column must be specified")
	}
	if len(spec.Operations) == 0 {
		return nil, errs.Argument("group by", "at least one group by operation must be specified")
	}
	keyCols, err := t.lookup("group by", spec.Columns...)
	if err != nil {
		return nil, err
	}

	aggNames := spec.AggColumns
	ops := spec.Operations
	if len(aggNames) == 0 {
		if len(ops) > 1 {
			return nil, errs.Argument("group by", "multiple group by operations only allowed if aggregation columns are specified")
		}
		for _, c := range t.columns {
			if !slices.Contains(spec.Columns, c.Name()) && c.Type().IsNumeric() {
				aggNames = append(aggNames, c.Name())
			}
		}
	}
	if len(ops) == 1 {
		ops = slices.Repeat(ops, len(aggNames))
	}
	if len(ops) != len(aggNames) {
		return nil, errs.Argument("group by", "group by operations list must have same length as aggregate columns list")
	}
	aggCols, err := t.lookup("group by", aggNames...)
	if err != nil {
		return nil, err
	}

	outNames := spec.OutputNames
	if len(outNames) == 0 {
		outNames = make([]string, len(aggNames))
		for i := range aggNames {
			outNames[i] = fmt.Sprintf("%s.%s", aggNames[i], ops[i])
		}
	}
	if len(outNames) != len(aggNames) {
		return nil, errs.Argument("group by", "new column names list count (%d) does not match aggregation column count (%d)", len(outNames), len(aggNames))
	}

	funcs := make([]aggregate.Func, len(ops))
	for i, op := range ops {
		if funcs[i], err = aggregate.Lookup(op); err != nil {
			return nil, err
		}
	}

	groups, firsts := partition(keyCols, t.rows)

	out := make([]*column.Column, 0, len(keyCols)+len(aggCols))
	for _, c := range keyCols {
		out = append(out, c.Gather(firsts))
	}
	for i, c := range aggCols {
		values := make([]scalar.Value, len(groups))
		for g, rows := range groups {
			v, err := funcs[i].Apply(c, rows)
			if err != nil {
				return nil, err
			}
			values[g] = v
		}
		reduced, err := column.New(outNames[i], funcs[i].ResultType(c.Type()), values)
		if err != nil {
			return nil, err
		}
		out = append(out, reduced)
	}
	return New(out...)
}

// partition groups row indices by the composite key over cols, in order of
// first occurrence. firsts holds the first row of every group.
func partition(cols []*column.Column, rows int) (groups [][]int, firsts []int) {
	index := make(map[string]int)
	for r := range rows {
		key := rowKey(cols, r)
		g, ok := index[key]
		if !ok {
			g = len(groups)
			index[key] = g
			groups = append(groups, nil)
			firsts = append(firsts, r)
		}
		groups[g] = append(groups[g], r)
	}
	return groups, firsts
}
