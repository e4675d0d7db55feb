// Package normalize coerces the stored representations of money and dates
// into canonical Go values. It is the only place that inspects raw shapes;
// every function here is total and never panics.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/the-rent-must-flow/internal/model"
	"github.com/spf13/cast"
)

// extraDateLayouts are accepted after the layouts cast already understands.
var extraDateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"1/2/2006 15:04",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006/01/02",
}

// ToNumber converts v to a finite float64. Numbers pass through, strings are
// stripped of everything except digits, '.' and '-' before parsing, and any
// other input yields 0.
func ToNumber(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		return parseNumericString(string(n))
	case string:
		return parseNumericString(n)
	default:
		return 0
	}
	return finite(f)
}

// PositiveNumber returns the first value that normalizes to a number above zero.
func PositiveNumber(values ...any) (float64, bool) {
	for _, v := range values {
		if n := ToNumber(v); n > 0 {
			return n, true
		}
	}
	return 0, false
}

// ToDate converts v to a UTC time. It accepts time.Time, model.Timestamp, an
// object carrying a numeric "seconds" field, date strings, and numbers taken
// as epoch milliseconds. Anything it cannot interpret reports false.
func ToDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if d.IsZero() {
			return time.Time{}, false
		}
		return d.UTC(), true
	case *time.Time:
		if d == nil {
			return time.Time{}, false
		}
		return ToDate(*d)
	case model.Timestamp:
		return time.Unix(d.Seconds, d.Nanoseconds).UTC(), true
	case *model.Timestamp:
		if d == nil {
			return time.Time{}, false
		}
		return ToDate(*d)
	case map[string]any:
		return fromSecondsObject(d)
	case string:
		return parseDateString(d)
	case json.Number:
		ms, err := d.Float64()
		if err != nil {
			return parseDateString(string(d))
		}
		return fromEpochMillis(ms)
	case float64, float32, int, int32, int64, uint, uint32, uint64:
		return fromEpochMillis(ToNumber(d))
	default:
		return time.Time{}, false
	}
}

func parseNumericString(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func fromSecondsObject(obj map[string]any) (time.Time, bool) {
	raw, ok := obj["seconds"]
	if !ok {
		return time.Time{}, false
	}
	var seconds float64
	switch s := raw.(type) {
	case float64, float32, int, int32, int64, json.Number:
		seconds = ToNumber(s)
	default:
		return time.Time{}, false
	}
	nanos := ToNumber(obj["nanoseconds"])
	return time.Unix(int64(seconds), int64(nanos)).UTC(), true
}

func fromEpochMillis(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := cast.StringToDateInDefaultLocation(s, time.UTC); err == nil {
		return t.UTC(), true
	}
	for _, layout := range extraDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
