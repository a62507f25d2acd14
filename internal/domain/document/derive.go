package document

import (
	"strconv"
	"strings"
	"unicode"
)

// Duration buckets.
const (
	DurationShort       = "short_term"
	DurationMedium      = "medium_term"
	DurationLong        = "long_term"
	DurationUnspecified = "unspecified"
)

// ParseBudgetValue strips everything but digits and the decimal point from a
// free-text budget. Nil when nothing numeric remains.
func ParseBudgetValue(text string) *float64 {
	var b strings.Builder
	for _, r := range text {
		if unicode.IsDigit(r) || r == '.' {
			b.WriteRune(r)
		}
	}
	s := strings.Trim(b.String(), ".")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// InferCurrency maps currency glyphs or ISO codes in a budget text to a code.
func InferCurrency(text string) string {
	switch {
	case strings.Contains(text, "$"):
		return "USD"
	case strings.Contains(text, "€"):
		return "EUR"
	case strings.Contains(text, "£"):
		return "GBP"
	}
	upper := strings.ToUpper(text)
	for _, code := range []string{"USD", "EUR", "GBP"} {
		if strings.Contains(upper, code) {
			return code
		}
	}
	return ""
}

// DurationBucket classifies a free-text gig duration.
func DurationBucket(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "week"), strings.Contains(t, "sprint"):
		return DurationShort
	case strings.Contains(t, "month"), strings.Contains(t, "quarter"):
		return DurationMedium
	case strings.Contains(t, "year"), strings.Contains(t, "long"):
		return DurationLong
	}
	return DurationUnspecified
}

// EmploymentBucket normalizes a job employment type into full_time, part_time,
// internship or contract, else the snake-cased raw value.
func EmploymentBucket(employmentType string) string {
	t := strings.ToLower(employmentType)
	switch {
	case strings.Contains(t, "full"):
		return "full_time"
	case strings.Contains(t, "part"):
		return "part_time"
	case strings.Contains(t, "intern"):
		return "internship"
	case strings.Contains(t, "contract"):
		return "contract"
	}
	return snakeCase(t)
}

func snakeCase(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}
