package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// IsEmptyHTML reports whether markup has no visible text once tags are
// stripped and entities decoded. "<p>&nbsp;</p>" is empty.
func IsEmptyHTML(s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF, or markup the tokenizer gave up on.
			return true
		case html.TextToken:
			if strings.TrimSpace(string(z.Text())) != "" {
				return false
			}
		}
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses the date formats sent by the admin forms.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseNumber parses a form number; anything unparsable is 0.
func ParseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseCount parses a form count, truncating fractions. Negative or
// out-of-range values are 0.
func ParseCount(s string) int {
	f := ParseNumber(s)
	if f < 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// SplitList splits a comma separated list, dropping blank entries.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ParseBool accepts checkbox and literal booleans.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1", "yes":
		return true, true
	case "off", "false", "0", "no", "":
		return false, true
	default:
		return false, false
	}
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
