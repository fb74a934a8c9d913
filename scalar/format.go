package scalar

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order by ParseDate. The first two are the exact
// ISO forms; the rest are the lenient fallbacks.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02T15:04:05.000",
	time.RFC3339,
	time.RFC3339Nano,
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"02-Jan-2006",
	"2-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
	"2006/01/02",
}

// ParseDate parses s as a date using the exact ISO layouts first and then
// the fallback layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var oaEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

const msPerDay = 86400000

// FromOADate converts an OLE automation serial date (days since 1899-12-30,
// fraction as time of day) into a time.
func FromOADate(d float64) (time.Time, bool) {
	if math.IsNaN(d) || d <= -657435.0 || d >= 2958466.0 {
		return time.Time{}, false
	}
	var ms int64
	if d >= 0 {
		ms = int64(d*msPerDay + 0.5)
	} else {
		ms = int64(d*msPerDay - 0.5)
	}
	if ms < 0 {
		ms -= (ms % msPerDay) * 2
	}
	return time.UnixMilli(oaEpoch.UnixMilli() + ms).UTC(), true
}

// ToOADate is the inverse of FromOADate.
func ToOADate(t time.Time) float64 {
	ms := t.UnixMilli() - oaEpoch.UnixMilli()
	if ms < 0 {
		frac := ms % msPerDay
		if frac != 0 {
			ms -= (msPerDay + frac) * 2
		}
	}
	return float64(ms) / msPerDay
}

// FormatDouble renders f rounded to six decimals with trailing zeros trimmed.
func FormatDouble(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	r := math.Round(f*1e6) / 1e6
	if math.IsInf(r, 0) || math.Abs(f) >= 1e15 {
		r = f
	}
	if r == 0 {
		r = 0
	}
	s := strconv.FormatFloat(r, 'f', 7, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// FormatDate renders a date, adding the time of day only when it is set.
func FormatDate(t time.Time) string {
	layout := "2006-01-02"
	if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 {
		layout += " 15:04:05"
		if t.Nanosecond()/int(time.Millisecond) != 0 {
			layout += ".000"
		}
	}
	return t.Format(layout)
}

func formatAny(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case charCell:
		return string(rune(x))
	case bool:
		if x {
			return "true"
		}
		return "false"
	case float64:
		return FormatDouble(x)
	case float32:
		return FormatDouble(float64(x))
	case decimal.Decimal:
		return x.String()
	case time.Time:
		return FormatDate(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int:
		return strconv.Itoa(x)
	case uint64:
		return strconv.FormatUint(x, 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	}
	return fmt.Sprint(v)
}
