package filter

import (
	"slices"
	"time"

	"github.com/kailas-cloud/discovery/internal/domain/category"
)

// MaxValuesPerKey caps how many values a single list filter keeps.
const MaxValuesPerKey = 32

// Set is a normalized filter set. The zero value is an empty set.
type Set struct {
	lists     map[Key][]string
	remote    *bool
	budgetMin *float64
	budgetMax *float64
}

// Values returns the list values for k (nil when absent).
func (s Set) Values(k Key) []string {
	v := s.lists[k]
	if len(v) == 0 {
		return nil
	}
	return slices.Clone(v)
}

// Has reports whether k carries a value.
func (s Set) Has(k Key) bool {
	switch k.kind() {
	case kindBool:
		return s.remote != nil
	case kindNumber:
		if k == BudgetValueMin {
			return s.budgetMin != nil
		}
		return s.budgetMax != nil
	}
	return len(s.lists[k]) > 0
}

// Remote returns the requested isRemote value and whether it was set.
func (s Set) Remote() (bool, bool) {
	if s.remote == nil {
		return false, false
	}
	return *s.remote, true
}

// Budget returns the gig budget bounds as one range. Inverted bounds are dropped.
func (s Set) Budget() (Range, bool) {
	if s.budgetMin == nil && s.budgetMax == nil {
		return Range{}, false
	}
	r, err := NewRangeFilter(s.budgetMin, s.budgetMax)
	if err != nil {
		return Range{}, false
	}
	return r, true
}

// UpdatedWithin returns the requested recency window.
func (s Set) UpdatedWithin() (time.Duration, bool) {
	v := s.lists[UpdatedWithin]
	if len(v) == 0 {
		return 0, false
	}
	return Window(v[0])
}

// IsEmpty reports whether no filter is set.
func (s Set) IsEmpty() bool {
	return len(s.lists) == 0 && s.remote == nil && s.budgetMin == nil && s.budgetMax == nil
}

// ForCategory drops every key that does not apply to c.
func (s Set) ForCategory(c category.Category) Set {
	out := Set{}
	for k, v := range s.lists {
		if k.AppliesTo(c) {
			out.setList(k, slices.Clone(v))
		}
	}
	if IsRemote.AppliesTo(c) {
		out.remote = s.remote
	}
	if BudgetValueMin.AppliesTo(c) {
		out.budgetMin = s.budgetMin
	}
	if BudgetValueMax.AppliesTo(c) {
		out.budgetMax = s.budgetMax
	}
	return out
}

// Applied renders the set as a plain map, for echoing back to clients.
func (s Set) Applied() map[string]any {
	out := make(map[string]any)
	for _, k := range catalog {
		switch {
		case k == IsRemote && s.remote != nil:
			out[string(k)] = *s.remote
		case k == BudgetValueMin && s.budgetMin != nil:
			out[string(k)] = *s.budgetMin
		case k == BudgetValueMax && s.budgetMax != nil:
			out[string(k)] = *s.budgetMax
		case k == UpdatedWithin && len(s.lists[k]) > 0:
			out[string(k)] = s.lists[k][0]
		case len(s.lists[k]) > 0:
			out[string(k)] = slices.Clone(s.lists[k])
		}
	}
	return out
}

func (s *Set) setList(k Key, v []string) {
	if len(v) == 0 {
		return
	}
	if s.lists == nil {
		s.lists = make(map[Key][]string)
	}
	s.lists[k] = v
}
