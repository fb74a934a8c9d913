package expr

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/vegasq/tabula/column"
	"github.com/vegasq/tabula/scalar"
)

// String Functions

// LenFunc returns the number of characters in a string
type LenFunc struct{}

func (f *LenFunc) Name() string  { return "LEN" }
func (f *LenFunc) MinArity() int { return 1 }
func (f *LenFunc) MaxArity() int { return 1 }
func (f *LenFunc) Evaluate(args []Result, rows int) (Result, error) {
	s, err := stringArg(args[0], rows, "input")
	if err != nil {
		return Result{}, err
	}
	return rowWise(rows, scalar.Int32, func(i int) (scalar.Value, error) {
		if s.IsNull(i) {
			return scalar.Null(scalar.Int32), nil
		}
		return scalar.I32(int32(utf8.RuneCountInString(s.Value(i).Str()))), nil
	})
}

// intAt reads a numeric cell as an int, truncating toward zero
func intAt(c *column.Column, i int) int {
	f, _ := c.Value(i).Float()
	return int(f)
}

// substring returns up to length runes of s starting at start, clamped to
// the string bounds. A negative length means the rest of the string.
func substring(s string, start, length int) string {
	runes := []rune(s)
	if start < 0 {
		start = 0
	}
	if start >= len(runes) || length == 0 {
		return ""
	}
	end := len(runes)
	if length > 0 && start+length < end {
		end = start + length
	}
	return string(runes[start:end])
}

// SubstringFunc extracts part of a string: SUBSTRING(s, start[, length]).
// start is zero-based.
type SubstringFunc struct{}

func (f *SubstringFunc) Name() string  { return "SUBSTRING" }
func (f *SubstringFunc) MinArity() int { return 2 }
func (f *SubstringFunc) MaxArity() int { return 3 }
func (f *SubstringFunc) Evaluate(args []Result, rows int) (Result, error) {
	s, err := stringArg(args[0], rows, "input")
	if err != nil {
		return Result{}, err
	}
	start, err := numericArg(args[1], rows, "start index")
	if err != nil {
		return Result{}, err
	}
	length := column.Repeat("", scalar.I32(-1), rows)
	if len(args) == 3 {
		if length, err = numericArg(args[2], rows, "length"); err != nil {
			return Result{}, err
		}
	}

	return rowWise(rows, scalar.String, func(i int) (scalar.Value, error) {
		if anyNull(i, s, start, length) {
			return scalar.Null(scalar.String), nil
		}
		n := intAt(length, i)
		if len(args) == 3 && n < 0 {
			return scalar.Value{}, fmt.Errorf("length must not be negative (row %d)", i)
		}
		return scalar.Str(substring(s.Value(i).Str(), intAt(start, i), n)), nil
	})
}

// LeftFunc returns the first n characters of a string
type LeftFunc struct{}

func (f *LeftFunc) Name() string  { return "LEFT" }
func (f *LeftFunc) MinArity() int { return 2 }
func (f *LeftFunc) MaxArity() int { return 2 }
func (f *LeftFunc) Evaluate(args []Result, rows int) (Result, error) {
	return edge(args, rows, func(runes []rune, n int) string { return string(runes[:n]) })
}

// RightFunc returns the last n characters of a string
type RightFunc struct{}

func (f *RightFunc) Name() string  { return "RIGHT" }
func (f *RightFunc) MinArity() int { return 2 }
func (f *RightFunc) MaxArity() int { return 2 }
func (f *RightFunc) Evaluate(args []Result, rows int) (Result, error) {
	return edge(args, rows, func(runes []rune, n int) string { return string(runes[len(runes)-n:]) })
}

func edge(args []Result, rows int, take func(runes []rune, n int) string) (Result, error) {
	s, err := stringArg(args[0], rows, "input")
	if err != nil {
		return Result{}, err
	}
	length, err := numericArg(args[1], rows, "length")
	if err != nil {
		return Result{}, err
	}
	return rowWise(rows, scalar.String, func(i int) (scalar.Value, error) {
		if anyNull(i, s, length) {
			return scalar.Null(scalar.String), nil
		}
		runes := []rune(s.Value(i).Str())
		n := min(max(intAt(length, i), 0), len(runes))
		return scalar.Str(take(runes, n)), nil
	})
}

// mapString applies f to every non-null cell of a String argument
func mapString(arg Result, rows int, f func(string) string) (Result, error) {
	s, err := stringArg(arg, rows, "input")
	if err != nil {
		return Result{}, err
	}
	c, err := s.Map(scalar.String, func(v scalar.Value) (scalar.Value, error) {
		if v.IsNull() {
			return v, nil
		}
		return scalar.Str(f(v.Str())), nil
	})
	if err != nil {
		return Result{}, err
	}
	return ColumnResult(c), nil
}

// TrimFunc trims whitespace from both ends of a string
type TrimFunc struct{}

func (f *TrimFunc) Name() string  { return "TRIM" }
func (f *TrimFunc) MinArity() int { return 1 }
func (f *TrimFunc) MaxArity() int { return 1 }
func (f *TrimFunc) Evaluate(args []Result, rows int) (Result, error) {
	return mapString(args[0], rows, strings.TrimSpace)
}

// UpperFunc converts a string to uppercase
type UpperFunc struct{}

func (f *UpperFunc) Name() string  { return "UPPER" }
func (f *UpperFunc) MinArity() int { return 1 }
func (f *UpperFunc) MaxArity() int { return 1 }
func (f *UpperFunc) Evaluate(args []Result, rows int) (Result, error) {
	return mapString(args[0], rows, strings.ToUpper)
}

// LowerFunc converts a string to lowercase
type LowerFunc struct{}

func (f *LowerFunc) Name() string  { return "LOWER" }
func (f *LowerFunc) MinArity() int { return 1 }
func (f *LowerFunc) MaxArity() int { return 1 }
func (f *LowerFunc) Evaluate(args []Result, rows int) (Result, error) {
	return mapString(args[0], rows, strings.ToLower)
}

// ReplaceFunc replaces every occurrence of a substring:
// REPLACE(s, old, new[, caseSensitive]). A null old value leaves s as is.
type ReplaceFunc struct{}

func (f *ReplaceFunc) Name() string  { return "REPLACE" }
func (f *ReplaceFunc) MinArity() int { return 3 }
func (f *ReplaceFunc) MaxArity() int { return 4 }
func (f *ReplaceFunc) Evaluate(args []Result, rows int) (Result, error) {
	s, err := stringArg(args[0], rows, "input")
	if err != nil {
		return Result{}, err
	}
	old, err := stringArg(args[1], rows, "old value")
	if err != nil {
		return Result{}, err
	}
	repl, err := stringArg(args[2], rows, "new value")
	if err != nil {
		return Result{}, err
	}
	cs, err := boolArg(args, 3, rows, true, "case sensitive")
	if err != nil {
		return Result{}, err
	}

	cache := regexCache{}
	return rowWise(rows, scalar.String, func(i int) (scalar.Value, error) {
		switch {
		case s.IsNull(i):
			return scalar.Null(scalar.String), nil
		case old.IsNull(i) || old.Value(i).Str() == "":
			return s.Value(i), nil
		}
		src, from, to := s.Value(i).Str(), old.Value(i).Str(), repl.Value(i).String()
		if cs.IsNull(i) || cs.Value(i).Bool() {
			return scalar.Str(strings.ReplaceAll(src, from, to)), nil
		}
		re, err := cache.compileRegex(regexp.QuoteMeta(from), false)
		if err != nil {
			return scalar.Value{}, err
		}
		return scalar.Str(re.ReplaceAllLiteralString(src, to)), nil
	})
}

// regexArgs resolves the input, pattern and case-sensitivity columns shared
// by the REGEX_ functions
func regexArgs(args []Result, rows, csIndex int) (s, pattern, cs *column.Column, err error) {
	if s, err = stringArg(args[0], rows, "input"); err != nil {
		return
	}
	if pattern, err = stringArg(args[1], rows, "pattern"); err != nil {
		return
	}
	cs, err = boolArg(args, csIndex, rows, true, "case sensitive")
	return
}

func regexAt(cache regexCache, pattern, cs *column.Column, i int) (*regexp.Regexp, error) {
	caseSensitive := cs.IsNull(i) || cs.Value(i).Bool()
	re, err := cache.compileRegex(pattern.Value(i).Str(), caseSensitive)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern '%s' (row %d): %w", pattern.Value(i).Str(), i, err)
	}
	return re, nil
}

// RegexTestFunc reports whether a string matches a regular expression
type RegexTestFunc struct{}

func (f *RegexTestFunc) Name() string  { return "REGEX_TEST" }
func (f *RegexTestFunc) MinArity() int { return 2 }
func (f *RegexTestFunc) MaxArity() int { return 3 }
func (f *RegexTestFunc) Evaluate(args []Result, rows int) (Result, error) {
	s, pattern, cs, err := regexArgs(args, rows, 2)
	if err != nil {
		return Result{}, err
	}
	cache := regexCache{}
	return rowWise(rows, scalar.Boolean, func(i int) (scalar.Value, error) {
		if anyNull(i, s, pattern) {
			return scalar.Null(scalar.Boolean), nil
		}
		re, err := regexAt(cache, pattern, cs, i)
		if err != nil {
			return scalar.Value{}, err
		}
		return scalar.Bool(re.MatchString(s.Value(i).Str())), nil
	})
}

// RegexFindFunc returns the first match of a regular expression, or null
type RegexFindFunc struct{}

func (f *RegexFindFunc) Name() string  { return "REGEX_FIND" }
func (f *RegexFindFunc) MinArity() int { return 2 }
func (f *RegexFindFunc) MaxArity() int { return 3 }
func (f *RegexFindFunc) Evaluate(args []Result, rows int) (Result, error) {
	s, pattern, cs, err := regexArgs(args, rows, 2)
	if err != nil {
		return Result{}, err
	}
	cache := regexCache{}
	return rowWise(rows, scalar.String, func(i int) (scalar.Value, error) {
		if anyNull(i, s, pattern) {
			return scalar.Null(scalar.String), nil
		}
		re, err := regexAt(cache, pattern, cs, i)
		if err != nil {
			return scalar.Value{}, err
		}
		loc := re.FindStringIndex(s.Value(i).Str())
		if loc == nil {
			return scalar.Null(scalar.String), nil
		}
		return scalar.Str(s.Value(i).Str()[loc[0]:loc[1]]), nil
	})
}

// RegexReplaceFunc replaces every match of a regular expression.
// The replacement may reference groups as $1 or ${name}.
type RegexReplaceFunc struct{}

func (f *RegexReplaceFunc) Name() string  { return "REGEX_REPLACE" }
func (f *RegexReplaceFunc) MinArity() int { return 3 }
func (f *RegexReplaceFunc) MaxArity() int { return 4 }
func (f *RegexReplaceFunc) Evaluate(args []Result, rows int) (Result, error) {
	s, pattern, cs, err := regexArgs(args, rows, 3)
	if err != nil {
		return Result{}, err
	}
	repl, err := stringArg(args[2], rows, "replacement")
	if err != nil {
		return Result{}, err
	}
	cache := regexCache{}
	return rowWise(rows, scalar.String, func(i int) (scalar.Value, error) {
		if anyNull(i, s, pattern) {
			return scalar.Null(scalar.String), nil
		}
		re, err := regexAt(cache, pattern, cs, i)
		if err != nil {
			return scalar.Value{}, err
		}
		return scalar.Str(re.ReplaceAllString(s.Value(i).Str(), repl.Value(i).String())), nil
	})
}
