// Package document maps stored opportunity records into the canonical search document.
package document

import "time"

// Taxonomy is one slug/label/type triple attached to an opportunity.
type Taxonomy struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// AutoAssign is the project auto-assignment configuration.
type AutoAssign struct {
	Enabled   bool       `json:"enabled"`
	MinScore  *float64   `json:"minScore,omitempty"`
	LastRunAt *time.Time `json:"lastRunAt,omitempty"`
}

// Record is an opportunity as loaded from the entity store. Only the fields of
// its own category are populated; zero timestamps mean "unknown".
type Record struct {
	ID          string
	Title       string
	Description string
	Location    string
	// Geo is the raw geo JSON column: lat/latitude, lng/longitude/lon, city,
	// region, country, label, isRemote/remote.
	Geo       map[string]any
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Taxonomy sources, highest priority first.
	TaxonomyAssignments []Taxonomy
	Taxonomies          []Taxonomy
	TaxonomySlugs       []string
	TaxonomyLabels      []string
	TaxonomyTypes       []string

	// Job
	EmploymentType     string
	EmploymentCategory string

	// Gig
	Budget           string
	BudgetValue      *float64
	BudgetCurrency   string
	Duration         string
	DurationCategory string

	// Project
	Status     string
	AutoAssign *AutoAssign

	// Launchpad
	Track string

	// Volunteering
	Organization string
}
