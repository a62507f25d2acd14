package filter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/geo"
)

// Index field names that do not map one-to-one onto a filter key.
const (
	FieldBudgetValue    = "budgetValue"
	FieldUpdatedAtEpoch = "updatedAtEpoch"
	FieldGeoLat         = "geoLat"
	FieldGeoLng         = "geoLng"
)

// Expression is an AND of OR-groups understood by the search index.
type Expression struct {
	groups []Group
}

// Groups returns the conjunctive groups.
func (e Expression) Groups() []Group { return e.groups }

// IsEmpty reports whether the expression has no groups.
func (e Expression) IsEmpty() bool { return len(e.groups) == 0 }

// Group is a disjunction of conditions.
type Group struct {
	conditions []Condition
}

// NewGroup creates an OR-group. An empty group is rejected.
func NewGroup(conditions ...Condition) (Group, error) {
	if len(conditions) == 0 {
		return Group{}, fmt.Errorf("group requires at least one condition")
	}
	return Group{conditions: conditions}, nil
}

// Conditions returns the OR-ed conditions.
func (g Group) Conditions() []Condition { return g.conditions }

// Condition is a single filter clause: either a tag match or a numeric range.
type Condition struct {
	key       string
	match     string
	rangeExpr *Range
}

// NewMatch creates an exact tag match condition.
func NewMatch(key, match string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if match == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{key: key, match: match}, nil
}

// NewRange creates a numeric range condition.
func NewRange(key string, r Range) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	return Condition{key: key, rangeExpr: &r}, nil
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Match returns the exact match value.
func (c Condition) Match() string { return c.match }

// Range returns the numeric range expression.
func (c Condition) Range() *Range { return c.rangeExpr }

// IsMatch reports whether this is a match condition.
func (c Condition) IsMatch() bool { return c.match != "" }

// IsRange reports whether this is a range condition.
func (c Condition) IsRange() bool { return c.rangeExpr != nil }

// Range is an inclusive numeric range; nil bounds are open.
type Range struct {
	gte *float64
	lte *float64
}

// NewRangeFilter validates and creates a Range. At least one bound is required.
func NewRangeFilter(gte, lte *float64) (Range, error) {
	if gte == nil && lte == nil {
		return Range{}, fmt.Errorf("at least one range boundary is required")
	}
	if gte != nil && lte != nil && *gte > *lte {
		return Range{}, fmt.Errorf("lower bound %g exceeds upper bound %g", *gte, *lte)
	}
	return Range{gte: gte, lte: lte}, nil
}

// GTE returns the lower inclusive bound.
func (r Range) GTE() *float64 { return r.gte }

// LTE returns the upper inclusive bound.
func (r Range) LTE() *float64 { return r.lte }

// BuildIndexExpression translates a normalized filter set and viewport into index groups.
// The boolean is false when nothing constrains the query.
func BuildIndexExpression(
	c category.Category, s Set, viewport *geo.BoundingBox, now time.Time,
) (Expression, bool) {
	s = s.ForCategory(c)
	var groups []Group
	add := func(conds ...Condition) {
		if g, err := NewGroup(conds...); err == nil {
			groups = append(groups, g)
		}
	}

	for _, k := range catalog {
		if !k.AppliesTo(c) || !s.Has(k) {
			continue
		}
		switch k.kind() {
		case kindList:
			conds := make([]Condition, 0, len(s.lists[k]))
			for _, v := range s.lists[k] {
				if m, err := NewMatch(string(k), v); err == nil {
					conds = append(conds, m)
				}
			}
			add(conds...)
		case kindBool:
			remote, _ := s.Remote()
			m, _ := NewMatch(string(IsRemote), strconv.FormatBool(remote))
			add(m)
		case kindNumber:
			// both budget bounds collapse into one range; emit it once
			if k == BudgetValueMax && s.budgetMin != nil {
				continue
			}
			if r, ok := s.Budget(); ok {
				cond, _ := NewRange(FieldBudgetValue, r)
				add(cond)
			}
		case kindWindow:
			if d, ok := s.UpdatedWithin(); ok {
				threshold := float64(now.Add(-d).Unix())
				r, _ := NewRangeFilter(&threshold, nil)
				cond, _ := NewRange(FieldUpdatedAtEpoch, r)
				add(cond)
			}
		}
	}

	if viewport != nil {
		groups = append(groups, viewportGroups(*viewport)...)
	}

	return Expression{groups: groups}, len(groups) > 0
}

func viewportGroups(b geo.BoundingBox) []Group {
	south, north := b.South, b.North
	// inverted latitude bounds are kept as-is: they match nothing, like BoundingBox.Contains
	lat, _ := NewRange(FieldGeoLat, Range{gte: &south, lte: &north})
	latGroup, _ := NewGroup(lat)

	west, east := b.West, b.East
	var lngGroup Group
	if !b.CrossesAntimeridian() {
		r, _ := NewRangeFilter(&west, &east)
		c, _ := NewRange(FieldGeoLng, r)
		lngGroup, _ = NewGroup(c)
	} else {
		maxLng, minLng := 180.0, -180.0
		r1, _ := NewRangeFilter(&west, &maxLng)
		r2, _ := NewRangeFilter(&minLng, &east)
		c1, _ := NewRange(FieldGeoLng, r1)
		c2, _ := NewRange(FieldGeoLng, r2)
		lngGroup, _ = NewGroup(c1, c2)
	}
	return []Group{latGroup, lngGroup}
}
