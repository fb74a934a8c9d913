package expr

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vegasq/tabula/column"
	"github.com/vegasq/tabula/scalar"
)

// Function is a column-level function callable from expressions
type Function interface {
	// Name returns the function name (case-insensitive)
	Name() string
	// MinArity returns the minimum number of arguments
	MinArity() int
	// MaxArity returns the maximum number of arguments (-1 for unlimited)
	MaxArity() int
	// Evaluate evaluates the function over already evaluated arguments.
	// rows is the row count of the table being evaluated.
	Evaluate(args []Result, rows int) (Result, error)
}

// FunctionRegistry manages function lookup and registration
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry creates a new function registry
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]Function),
	}
}

// Register registers a function
func (r *FunctionRegistry) Register(f Function) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.functions[strings.ToUpper(f.Name())] = f
}

// Get retrieves a function by name (case-insensitive)
func (r *FunctionRegistry) Get(name string) (Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, exists := r.functions[strings.ToUpper(name)]
	return f, exists
}

// Names lists the registered function names in sorted order
func (r *FunctionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// globalRegistry is the default function registry
var globalRegistry *FunctionRegistry

func init() {
	globalRegistry = NewFunctionRegistry()

	// Null handling and conditionals
	globalRegistry.Register(&IsNullFunc{})
	globalRegistry.Register(&IifFunc{})

	// String functions
	globalRegistry.Register(&LenFunc{})
	globalRegistry.Register(&SubstringFunc{})
	globalRegistry.Register(&LeftFunc{})
	globalRegistry.Register(&RightFunc{})
	globalRegistry.Register(&TrimFunc{})
	globalRegistry.Register(&UpperFunc{})
	globalRegistry.Register(&LowerFunc{})
	globalRegistry.Register(&ReplaceFunc{})
	globalRegistry.Register(&RegexTestFunc{})
	globalRegistry.Register(&RegexFindFunc{})
	globalRegistry.Register(&RegexReplaceFunc{})

	// Math functions
	globalRegistry.Register(&AbsFunc{})
	globalRegistry.Register(&ExpFunc{})
	globalRegistry.Register(&LogFunc{})
	globalRegistry.Register(&RoundFunc{})
	globalRegistry.Register(&CumulativeFunc{name: "CUMSUM", apply: (*column.Column).CumSum})
	globalRegistry.Register(&CumulativeFunc{name: "CUMPROD", apply: (*column.Column).CumProd})
	globalRegistry.Register(&CumulativeFunc{name: "CUMMIN", apply: (*column.Column).CumMin})
	globalRegistry.Register(&CumulativeFunc{name: "CUMMAX", apply: (*column.Column).CumMax})

	// Date/time functions
	globalRegistry.Register(&FormatFunc{})
	globalRegistry.Register(&ToDateFunc{})
	globalRegistry.Register(&DatePartFunc{name: "YEAR", part: func(d dateParts) int { return d.year }})
	globalRegistry.Register(&DatePartFunc{name: "MONTH", part: func(d dateParts) int { return d.month }})
	globalRegistry.Register(&DatePartFunc{name: "DAY", part: func(d dateParts) int { return d.day }})
}

// GetGlobalRegistry returns the global function registry
func GetGlobalRegistry() *FunctionRegistry {
	return globalRegistry
}

// stringArg returns a String argument column; the NULL literal becomes an
// all-null String column
func stringArg(r Result, rows int, what string) (*column.Column, error) {
	c := r.Materialize(scalar.String, rows)
	if c.Type() != scalar.String {
		return nil, fmt.Errorf("%s must be a string, got %s", what, c.Type())
	}
	return c, nil
}

// numericArg returns a numeric argument column
func numericArg(r Result, rows int, what string) (*column.Column, error) {
	c := r.Materialize(scalar.Double, rows)
	if !c.Type().IsNumeric() {
		return nil, fmt.Errorf("%s must be numeric, got %s", what, c.Type())
	}
	return c, nil
}

// boolArg returns an optional Boolean argument, filled with def when absent
func boolArg(args []Result, i, rows int, def bool, what string) (*column.Column, error) {
	if i >= len(args) {
		return column.Repeat("", scalar.Bool(def), rows), nil
	}
	c := args[i].Materialize(scalar.Boolean, rows)
	if c.Type() != scalar.Boolean {
		return nil, fmt.Errorf("%s must be boolean, got %s", what, c.Type())
	}
	return c, nil
}

// rowWise builds a column of typ from one value per row
func rowWise(rows int, typ scalar.Type, f func(i int) (scalar.Value, error)) (Result, error) {
	out := make([]scalar.Value, rows)
	for i := range out {
		v, err := f(i)
		if err != nil {
			return Result{}, err
		}
		out[i] = v
	}
	c, err := column.New("", typ, out)
	if err != nil {
		return Result{}, err
	}
	return ColumnResult(c), nil
}

// anyNull reports whether any of the columns is null at row i
func anyNull(i int, cols ...*column.Column) bool {
	for _, c := range cols {
		if c.IsNull(i) {
			return true
		}
	}
	return false
}

// IsNullFunc replaces null cells of the first argument with the second
type IsNullFunc struct{}

func (f *IsNullFunc) Name() string  { return "ISNULL" }
func (f *IsNullFunc) MinArity() int { return 2 }
func (f *IsNullFunc) MaxArity() int { return 2 }
func (f *IsNullFunc) Evaluate(args []Result, rows int) (Result, error) {
	value, alt := args[0], args[1]
	switch {
	case value.IsNull():
		return alt, nil
	case alt.IsNull():
		return value, nil
	}
	return choose(column.IsNotNullMask(value.col), value.col, alt.col)
}

// IifFunc selects the second or third argument per row by a Boolean condition
type IifFunc struct{}

func (f *IifFunc) Name() string  { return "IIF" }
func (f *IifFunc) MinArity() int { return 3 }
func (f *IifFunc) MaxArity() int { return 3 }
func (f *IifFunc) Evaluate(args []Result, rows int) (Result, error) {
	cond := args[0].Materialize(scalar.Boolean, rows)
	if cond.Type() != scalar.Boolean {
		return Result{}, fmt.Errorf("condition must be boolean, got %s", cond.Type())
	}
	if args[1].IsNull() && args[2].IsNull() {
		return ColumnResult(column.Nulls("", scalar.Boolean, rows)), nil
	}

	then, otherwise := args[1].col, args[2].col
	switch {
	case then == nil:
		then = column.Nulls("", otherwise.Type(), rows)
	case otherwise == nil:
		otherwise = column.Nulls("", then.Type(), rows)
	}
	return choose(cond, then, otherwise)
}

// choose picks then where cond is true and otherwise where it is false.
// A null condition gives a null cell. Both branches are promoted to a
// common type first.
func choose(cond, then, otherwise *column.Column) (Result, error) {
	typ, err := scalar.Promote(then.Type(), otherwise.Type())
	if err != nil {
		return Result{}, err
	}
	if then, err = then.Cast(typ); err != nil {
		return Result{}, err
	}
	if otherwise, err = otherwise.Cast(typ); err != nil {
		return Result{}, err
	}
	if then.Len() != cond.Len() || otherwise.Len() != cond.Len() {
		return Result{}, fmt.Errorf("input columns must be the same length")
	}

	return rowWise(cond.Len(), typ, func(i int) (scalar.Value, error) {
		switch {
		case cond.IsNull(i):
			return scalar.Null(typ), nil
		case cond.Value(i).Bool():
			return then.Value(i), nil
		default:
			return otherwise.Value(i), nil
		}
	})
}
