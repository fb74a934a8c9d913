package table

import (
	"strings"

	"github.com/vegasq/tabula/column"
	"github.com/vegasq/tabula/errs"
	"github.com/vegasq/tabula/scalar"
)

// JoinType represents the type of join operation
type JoinType int

const (
	JoinInner JoinType = iota // keep matching pairs only
	JoinLeft                  // keep every left row
	JoinRight                 // keep every right row
	JoinFull                  // keep every row of both sides
)

var joinNames = [...]string{"inner", "left", "right", "full"}

func (j JoinType) String() string {
	if int(j) < len(joinNames) {
		return joinNames[j]
	}
	return "unknown"
}

// ParseJoinType accepts inner, left, right, full, outer and "full outer",
// case-insensitively.
func ParseJoinType(s string) (JoinType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inner":
		return JoinInner, nil
	case "left":
		return JoinLeft, nil
	case "right":
		return JoinRight, nil
	case "full", "outer", "full outer":
		return JoinFull, nil
	}
	return 0, errs.Argument("join", "unknown join type '%s', must be one of 'inner', 'outer', 'right' or 'left'", s)
}

// JoinSpec describes an equality join.
//
// On names the key columns. When RightOn is empty the same names are used
// on both sides; otherwise RightOn pairs up with On by position. When both
// are empty the columns the two tables have in common are used.
type JoinSpec struct {
	Type    JoinType
	On      []string
	RightOn []string

	// Suffixes for column names present in both tables. They default to
	// ".left" and ".right" and must differ.
	LeftSuffix  string
	RightSuffix string

	// IncludeDuplicateKeys keeps both copies of same-named key columns.
	// Full joins always keep both.
	IncludeDuplicateKeys bool
}

// Join combines left and right on equal key values. Null keys never match,
// but outer joins still keep the rows that carry them. Output columns are
// the left columns followed by the right columns.
func Join(left, right *Table, spec JoinSpec) (*Table, error) {
	lsfx, rsfx := spec.LeftSuffix, spec.RightSuffix
	if lsfx == "" {
		lsfx = ".left"
	}
	if rsfx == "" {
		rsfx = ".right"
	}
	if lsfx == rsfx {
		return nil, errs.Argument("join", "left and right suffixes must be unique")
	}

	leftOn, rightOn := spec.On, spec.RightOn
	if len(leftOn) == 0 {
		if len(rightOn) != 0 {
			return nil, errs.Argument("join", "right join columns given without left join columns")
		}
		for _, name := range left.ColumnNames() {
			if right.HasColumn(name) {
				leftOn = append(leftOn, name)
			}
		}
		if len(leftOn) == 0 {
			return nil, errs.Argument("join", "cannot find common columns to join on and no join columns specified")
		}
	}
	if len(rightOn) == 0 {
		rightOn = leftOn
	}
	if len(leftOn) != len(rightOn) {
		return nil, errs.Argument("join", "left and right join column lists must have the same length")
	}

	lkeys, rkeys, err := joinKeys(left, right, leftOn, rightOn)
	if err != nil {
		return nil, err
	}
	lrows, rrows := matchRows(spec.Type, lkeys, rkeys, left.rows, right.rows)

	lcols := left.gather(lrows).columns
	rcols := right.gather(rrows).columns
	for i, c := range lcols {
		if right.HasColumn(c.Name()) {
			lcols[i] = c.Rename(c.Name() + lsfx)
		}
	}
	for i, c := range rcols {
		if left.HasColumn(c.Name()) {
			rcols[i] = c.Rename(c.Name() + rsfx)
		}
	}
	out := append(lcols, rcols...)

	if !spec.IncludeDuplicateKeys && spec.Type != JoinFull {
		out = dropDuplicateKeys(out, leftOn, rightOn, spec.Type, lsfx, rsfx)
	}
	return New(out...)
}

// joinKeys returns one composite key per row of each side; rows with a
// null key cell get "" and never match. Key columns of different types are
// compared in their promoted type.
func joinKeys(left, right *Table, leftOn, rightOn []string) ([]string, []string, error) {
	lc, err := left.lookup("join", leftOn...)
	if err != nil {
		return nil, nil, err
	}
	rc, err := right.lookup("join", rightOn...)
	if err != nil {
		return nil, nil, err
	}
	for i := range lc {
		if lc[i].Type() == rc[i].Type() {
			continue
		}
		pt, err := scalar.Promote(lc[i].Type(), rc[i].Type())
		if err != nil {
			return nil, nil, errs.Argument("join", "cannot join column '%s' (%s) with column '%s' (%s)",
				lc[i].Name(), lc[i].Type(), rc[i].Name(), rc[i].Type())
		}
		if lc[i], err = lc[i].Cast(pt); err != nil {
			return nil, nil, err
		}
		if rc[i], err = rc[i].Cast(pt); err != nil {
			return nil, nil, err
		}
	}
	return keysOf(lc, left.rows), keysOf(rc, right.rows), nil
}

func keysOf(cols []*column.Column, rows int) []string {
	keys := make([]string, rows)
	for r := range rows {
		null := false
		for _, c := range cols {
			if c.IsNull(r) {
				null = true
				break
			}
		}
		if !null {
			keys[r] = rowKey(cols, r)
		}
	}
	return keys
}

// matchRows builds the paired row indices of the join result using a hash
// join; -1 marks the missing side of an outer row. Rows follow the order of
// the preserved side, left for inner/left/full and right for right joins.
func matchRows(kind JoinType, lkeys, rkeys []string, nl, nr int) (lrows, rrows []int) {
	if kind == JoinRight {
		rrows, lrows = matchRows(JoinLeft, rkeys, lkeys, nr, nl)
		return lrows, rrows
	}

	hash := make(map[string][]int)
	for r, k := range rkeys {
		if k != "" {
			hash[k] = append(hash[k], r)
		}
	}

	matched := make([]bool, nr)
	for l, k := range lkeys {
		var candidates []int
		if k != "" {
			candidates = hash[k]
		}
		for _, r := range candidates {
			lrows = append(lrows, l)
			rrows = append(rrows, r)
			matched[r] = true
		}
		if len(candidates) == 0 && kind != JoinInner {
			lrows = append(lrows, l)
			rrows = append(rrows, -1)
		}
	}
	if kind == JoinFull {
		for r := range nr {
			if !matched[r] {
				lrows = append(lrows, -1)
				rrows = append(rrows, r)
			}
		}
	}
	return lrows, rrows
}

// dropDuplicateKeys removes the copy of every same-named key column that
// comes from the non-preserved side and gives the other copy the plain key
// name back.
func dropDuplicateKeys(cols []*column.Column, leftOn, rightOn []string, kind JoinType, lsfx, rsfx string) []*column.Column {
	keep, drop := lsfx, rsfx
	if kind == JoinRight {
		keep, drop = rsfx, lsfx
	}
	dropped := make(map[string]bool)
	renamed := make(map[string]string)
	for i, name := range leftOn {
		if rightOn[i] != name {
			continue
		}
		dropped[name+drop] = true
		renamed[name+keep] = name
	}

	out := cols[:0:0]
	for _, c := range cols {
		if dropped[c.Name()] {
			continue
		}
		if name, ok := renamed[c.Name()]; ok {
			c = c.Rename(name)
		}
		out = append(out, c)
	}
	return out
}
