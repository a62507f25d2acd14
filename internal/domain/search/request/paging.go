package request

import (
	"math"
	"strconv"
	"strings"
)

// Paging limits.
const (
	DefaultPageSize       = 20
	MaxPageSize           = 50
	DefaultAggregateLimit = 5
)

// NormalizePage parses a 1-based page number. Anything unparsable or below 1 becomes 1.
func NormalizePage(raw string) int {
	n, ok := parseInt(raw)
	if !ok || n < 1 {
		return 1
	}
	return n
}

// NormalizePageSize parses a page size, clamped to [1, MaxPageSize].
// Missing or unparsable input yields DefaultPageSize.
func NormalizePageSize(raw string) int {
	n, ok := parseInt(raw)
	if !ok {
		return DefaultPageSize
	}
	return ClampPageSize(n)
}

// NormalizeLimit parses a per-category result limit. Unparsable or non-positive
// input yields fallback; values above MaxPageSize are clamped.
func NormalizeLimit(raw string, fallback int) int {
	n, ok := parseInt(raw)
	if !ok || n < 1 {
		return ClampPageSize(fallback)
	}
	return min(n, MaxPageSize)
}

// ClampPageSize clamps n to [1, MaxPageSize].
func ClampPageSize(n int) int {
	switch {
	case n < 1:
		return 1
	case n > MaxPageSize:
		return MaxPageSize
	}
	return n
}

// Offset returns the zero-based row offset for page.
func Offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

// TotalPages returns ceil(total/pageSize), never less than 1.
func TotalPages(total, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

func parseInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, true
	}
	// "2.0" and "1e1" still carry a usable integer
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || f > 1e9 || f < -1e9 {
		return 0, false
	}
	return int(f), true
}
