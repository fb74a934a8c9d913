package expr

import (
	"regexp"
	"strings"

	"github.com/vegasq/tabula/column"
	"github.com/vegasq/tabula/scalar"
)

// regexCache holds the patterns compiled during one function or operator
// evaluation, keyed by their final regex source. It is dropped with the call.
type regexCache map[string]*regexp.Regexp

func (c regexCache) compile(source string) (*regexp.Regexp, error) {
	if re, ok := c[source]; ok {
		return re, nil
	}
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, err
	}
	c[source] = re
	return re, nil
}

// compileRegex compiles a user regex, case-insensitive unless caseSensitive
func (c regexCache) compileRegex(pattern string, caseSensitive bool) (*regexp.Regexp, error) {
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	return c.compile(pattern)
}

// likeToRegex translates a LIKE pattern into an anchored regular
// expression: % matches any run, _ one character, and a backslash makes
// the next character literal.
func likeToRegex(pattern string, caseInsensitive bool) string {
	var b strings.Builder
	if caseInsensitive {
		b.WriteString("(?i)")
	}
	b.WriteString("^")

	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch ch := runes[i]; ch {
		case '\\':
			if i+1 < len(runes) {
				i++
				b.WriteString(regexp.QuoteMeta(string(runes[i])))
			} else {
				b.WriteString(`\\`)
			}
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(ch)))
		}
	}

	b.WriteString("$")
	return b.String()
}

// matchLike tests every probe cell against the pattern cell of the same
// row. A null on either side gives a null cell.
func matchLike(probe, pattern *column.Column, caseInsensitive, negate bool) (*column.Column, error) {
	cache := regexCache{}
	return zipBool(probe, pattern, func(s, p string) (bool, error) {
		re, err := cache.compile(likeToRegex(p, caseInsensitive))
		if err != nil {
			return false, err
		}
		return re.MatchString(s) != negate, nil
	})
}

// zipBool applies f to the string forms of two equal-length columns and
// collects a Boolean column
func zipBool(a, b *column.Column, f func(x, y string) (bool, error)) (*column.Column, error) {
	out := make([]scalar.Value, a.Len())
	for i := range out {
		if a.IsNull(i) || b.IsNull(i) {
			out[i] = scalar.Null(scalar.Boolean)
			continue
		}
		ok, err := f(a.Value(i).String(), b.Value(i).String())
		if err != nil {
			return nil, err
		}
		out[i] = scalar.Bool(ok)
	}
	return column.New(a.Name(), scalar.Boolean, out)
}
