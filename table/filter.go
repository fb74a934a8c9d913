package table

import (
	"strings"

	"github.com/vegasq/tabula/column"
	"github.com/vegasq/tabula/errs"
	"github.com/vegasq/tabula/expr"
	"github.com/vegasq/tabula/scalar"
)

// Filter keeps the rows for which expression evaluates to true. Rows where
// it evaluates to null are dropped. An empty expression returns a copy.
func (t *Table) Filter(expression string) (*Table, error) {
	if strings.TrimSpace(expression) == "" {
		return t.Copy(), nil
	}
	node, err := expr.Parse(expression)
	if err != nil {
		return nil, err
	}
	return t.FilterNode(node)
}

// FilterNode is Filter for an already parsed expression.
func (t *Table) FilterNode(node expr.Node) (*Table, error) {
	mask, err := expr.EvaluateNode(node, t)
	if err != nil {
		return nil, err
	}
	if mask.Type() != scalar.Boolean {
		return nil, errs.Operator("filter", "filter expression must evaluate to a boolean, got %s", mask.Type())
	}
	return t.keep(mask)
}

// FilterValue keeps the rows whose cell in the named column equals value
// (inclusive) or differs from it (exclusive). value is converted to the
// column type first. Null cells never match.
func (t *Table) FilterValue(name string, value any, inclusive bool) (*Table, error) {
	if scalar.IsMissing(value) {
		return nil, errs.Argument("filter", "filter value must not be null")
	}
	cols, err := t.lookup("filter", name)
	if err != nil {
		return nil, err
	}
	c := cols[0]
	v, err := scalar.Convert(value, c.Type())
	if err != nil {
		return nil, errs.Argument("filter", "could not convert value '%v' to type '%s'", value, c.Type())
	}

	op := column.OpEq
	if !inclusive {
		op = column.OpNe
	}
	mask, err := column.Compare(op, c, column.Repeat(c.Name(), v, c.Len()))
	if err != nil {
		return nil, err
	}
	return t.keep(mask)
}

func (t *Table) keep(mask *column.Column) (*Table, error) {
	rows, err := column.TrueIndices(mask)
	if err != nil {
		return nil, err
	}
	return t.gather(rows), nil
}
