package filter

import (
	"testing"

	"github.com/kailas-cloud/discovery/internal/domain/category"
)

func TestSet_ForCategory(t *testing.T) {
	s := NormalizeClientFilters(map[string]any{
		"employmentType": "full_time",
		"status":         "open",
		"budgetMin":      10,
		"isRemote":       true,
		"location":       "London",
	})

	job := s.ForCategory(category.Job)
	if !job.Has(EmploymentType) || job.Has(Status) || job.Has(BudgetValueMin) {
		t.Errorf("unexpected job filters %#v", job.Applied())
	}
	if !job.Has(IsRemote) || !job.Has(Location) {
		t.Error("shared filters must survive scoping")
	}

	project := s.ForCategory(category.Project)
	if !project.Has(Status) || project.Has(EmploymentType) {
		t.Errorf("unexpected project filters %#v", project.Applied())
	}

	gig := s.ForCategory(category.Gig)
	if !gig.Has(BudgetValueMin) || gig.Has(BudgetValueMax) {
		t.Errorf("unexpected gig filters %#v", gig.Applied())
	}
}

func TestSet_ValuesIsCopy(t *testing.T) {
	s := NormalizeClientFilters(map[string]any{"status": []any{"open"}})
	v := s.Values(Status)
	v[0] = "mutated"
	if s.Values(Status)[0] != "open" {
		t.Error("Values must return a copy")
	}
}

func TestSet_Applied(t *testing.T) {
	s := NormalizeClientFilters(map[string]any{
		"updatedWithin": "30d",
		"remote":        "0",
		"tracks":        "design",
	})
	applied := s.Applied()
	if applied["updatedWithin"] != "30d" {
		t.Errorf("updatedWithin = %#v", applied["updatedWithin"])
	}
	if applied["isRemote"] != false {
		t.Errorf("isRemote = %#v", applied["isRemote"])
	}
	if tracks, ok := applied["track"].([]string); !ok || tracks[0] != "design" {
		t.Errorf("track = %#v", applied["track"])
	}
}

func TestKey_AppliesTo_UnknownCategory(t *testing.T) {
	if Location.AppliesTo(category.Category("mentorship")) {
		t.Error("shared keys must not apply to unknown categories")
	}
}

func TestResolve(t *testing.T) {
	if k, ok := Resolve(" employmentTypes "); !ok || k != EmploymentType {
		t.Errorf("Resolve = %q, %v", k, ok)
	}
	if _, ok := Resolve("salary"); ok {
		t.Error("unknown alias must not resolve")
	}
}
