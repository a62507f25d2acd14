// Package category defines the closed set of opportunity listing types.
package category

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/discovery/internal/domain"
)

// Category is one of the five listing types served by discovery.
type Category string

// Listing types.
const (
	Job          Category = "job"
	Gig          Category = "gig"
	Project      Category = "project"
	Launchpad    Category = "launchpad"
	Volunteering Category = "volunteering"
)

var all = []Category{Job, Gig, Project, Launchpad, Volunteering}

// All returns every category in a stable order.
func All() []Category {
	out := make([]Category, len(all))
	copy(out, all)
	return out
}

// Parse resolves a client-supplied category name, accepting plural route aliases.
func Parse(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "job", "jobs":
		return Job, nil
	case "gig", "gigs":
		return Gig, nil
	case "project", "projects":
		return Project, nil
	case "launchpad", "launchpads", "experience-launchpad":
		return Launchpad, nil
	case "volunteering", "volunteer", "volunteering-roles":
		return Volunteering, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedCategory, s)
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case Job, Gig, Project, Launchpad, Volunteering:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (c Category) String() string { return string(c) }

// TextFields lists the document fields searched by a free-text query.
func (c Category) TextFields() []string {
	switch c {
	case Job, Gig, Project:
		return []string{"title", "description"}
	case Launchpad, Volunteering:
		return []string{"title"}
	}
	panic(fmt.Sprintf("category: unknown category %q", string(c)))
}
