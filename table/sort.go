package table

import (
	"cmp"
	"slices"

	"github.com/vegasq/tabula/column"
	"github.com/vegasq/tabula/errs"
	"github.com/vegasq/tabula/scalar"
)

// SortKey orders rows by one column. NullsFirst alone decides where nulls
// go; Descending only reverses the order of non-null cells.
type SortKey struct {
	Column     string
	Descending bool
	NullsFirst bool
}

// Sort orders rows by keys, primary key first. descending and nullsFirst
// may be nil, which means false for every key; otherwise they must have one
// entry per key.
func (t *Table) Sort(keys []string, descending, nullsFirst []bool) (*Table, error) {
	if descending != nil && len(descending) != len(keys) {
		return nil, errs.Argument("sort", "descending flags must have the same length as the sort columns")
	}
	if nullsFirst != nil && len(nullsFirst) != len(keys) {
		return nil, errs.Argument("sort", "nulls-first flags must have the same length as the sort columns")
	}
	sk := make([]SortKey, len(keys))
	for i, name := range keys {
		sk[i] = SortKey{Column: name}
		if descending != nil {
			sk[i].Descending = descending[i]
		}
		if nullsFirst != nil {
			sk[i].NullsFirst = nullsFirst[i]
		}
	}
	return t.SortBy(sk...)
}

// SortBy orders rows by keys, primary key first. The sort is stable: rows
// equal under every key keep their relative order.
func (t *Table) SortBy(keys ...SortKey) (*Table, error) {
	if len(keys) == 0 {
		return nil, errs.Argument("sort", "at least one sort column must be specified")
	}
	cols := make([]*column.Column, len(keys))
	for i, k := range keys {
		c, err := t.lookup("sort", k.Column)
		if err != nil {
			return nil, err
		}
		cols[i] = c[0]
	}

	// One stable pass per key, last key first, so the primary key is
	// applied last and decides the final order.
	perm := identity(t.rows)
	rank := make([]int, t.rows)
	for k := len(keys) - 1; k >= 0; k-- {
		for pos, row := range perm {
			rank[row] = pos
		}
		c, key := cols[k], keys[k]
		slices.SortStableFunc(perm, func(a, b int) int {
			if r := compareCells(c.Value(a), c.Value(b), key); r != 0 {
				return r
			}
			return cmp.Compare(rank[a], rank[b])
		})
	}
	return t.gather(perm), nil
}

func compareCells(a, b scalar.Value, key SortKey) int {
	switch an, bn := a.IsNull(), b.IsNull(); {
	case an && bn:
		return 0
	case an:
		if key.NullsFirst {
			return -1
		}
		return 1
	case bn:
		if key.NullsFirst {
			return 1
		}
		return -1
	}
	r := scalar.Compare(a, b)
	if key.Descending {
		return -r
	}
	return r
}
