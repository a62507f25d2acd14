// Package ordering resolves named sort profiles per category.
package ordering

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/discovery/internal/domain/category"
)

// Direction is ascending or descending.
type Direction string

// Directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Profile names accepted in the sort parameter.
const (
	ProfileDefault      = "default"
	ProfileNewest       = "newest"
	ProfileAlphabetical = "alphabetical"
	ProfileBudget       = "budget"
	ProfileStatus       = "status"
)

// Expression is one ORDER BY term over a canonical document field.
type Expression struct {
	Field     string
	Direction Direction
}

// Descending reports whether the term sorts high to low.
func (e Expression) Descending() bool { return e.Direction == Desc }

func (e Expression) String() string { return fmt.Sprintf("%s %s", e.Field, e.Direction) }

var fallback = []Expression{{"updatedAt", Desc}, {"id", Desc}}

var common = map[string][]Expression{
	ProfileDefault:      fallback,
	ProfileNewest:       {{"createdAt", Desc}, {"id", Desc}},
	ProfileAlphabetical: {{"title", Asc}, {"id", Asc}},
}

func profiles(c category.Category) map[string][]Expression {
	switch c {
	case category.Gig:
		return map[string][]Expression{
			ProfileBudget: {{"budgetValue", Desc}, {"updatedAt", Desc}, {"id", Desc}},
		}
	case category.Project:
		return map[string][]Expression{
			ProfileStatus: {{"status", Asc}, {"updatedAt", Desc}, {"id", Desc}},
		}
	case category.Job, category.Launchpad, category.Volunteering:
		return nil
	}
	return nil
}

// Resolve returns the sort expressions for key on c. Unknown keys fall back to
// the category default and then to updatedAt desc, id desc.
func Resolve(c category.Category, key string) []Expression {
	key = strings.ToLower(strings.TrimSpace(key))
	if exprs, ok := profiles(c)[key]; ok {
		return clone(exprs)
	}
	if exprs, ok := common[key]; ok {
		return clone(exprs)
	}
	if exprs, ok := profiles(c)[ProfileDefault]; ok {
		return clone(exprs)
	}
	return clone(fallback)
}

// IsDefault reports whether key selects the default ordering on c.
func IsDefault(c category.Category, key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" || key == ProfileDefault {
		return true
	}
	_, own := profiles(c)[key]
	_, shared := common[key]
	return !own && !shared
}

func clone(exprs []Expression) []Expression {
	out := make([]Expression, len(exprs))
	copy(out, exprs)
	return out
}
