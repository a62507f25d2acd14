package document

import (
	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/geo"
)

// Document is the category-neutral projection searched, filtered and ranked by
// both execution paths. Built per query and never mutated afterwards.
type Document struct {
	ID          string            `json:"id"`
	Category    category.Category `json:"category"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	OwnerID     string            `json:"ownerId,omitempty"`

	CreatedAt      string `json:"createdAt,omitempty"`
	CreatedAtEpoch int64  `json:"createdAtEpoch,omitempty"`
	CreatedDay     string `json:"createdDay,omitempty"`
	UpdatedAt      string `json:"updatedAt,omitempty"`
	UpdatedAtEpoch int64  `json:"updatedAtEpoch,omitempty"`
	UpdatedDay     string `json:"updatedDay,omitempty"`
	FreshnessScore int64  `json:"freshnessScore"`

	Location   string     `json:"location,omitempty"`
	IsRemote   bool       `json:"isRemote"`
	Geo        *geo.Point `json:"geo"`
	GeoCity    string     `json:"geoCity,omitempty"`
	GeoRegion  string     `json:"geoRegion,omitempty"`
	GeoCountry string     `json:"geoCountry,omitempty"`

	TaxonomySlugs  []string `json:"taxonomySlugs"`
	TaxonomyTypes  []string `json:"taxonomyTypes"`
	TaxonomyLabels []string `json:"taxonomyLabels"`

	EmploymentType     string `json:"employmentType,omitempty"`
	EmploymentCategory string `json:"employmentCategory,omitempty"`

	Budget           string   `json:"budget,omitempty"`
	BudgetValue      *float64 `json:"budgetValue,omitempty"`
	BudgetCurrency   string   `json:"budgetCurrency,omitempty"`
	Duration         string   `json:"duration,omitempty"`
	DurationCategory string   `json:"durationCategory,omitempty"`

	Status     string      `json:"status,omitempty"`
	AutoAssign *AutoAssign `json:"autoAssign,omitempty"`

	Track        string `json:"track,omitempty"`
	Organization string `json:"organization,omitempty"`
}

// HasGeo reports whether the document carries a usable point.
func (d *Document) HasGeo() bool { return d.Geo != nil }

// Field returns the string values of a filterable field, as used for facet
// grouping. Unknown fields yield nil.
func (d *Document) Field(name string) []string {
	single := func(v string) []string {
		if v == "" {
			return nil
		}
		return []string{v}
	}
	switch name {
	case "employmentType":
		return single(d.EmploymentType)
	case "employmentCategory":
		return single(d.EmploymentCategory)
	case "durationCategory":
		return single(d.DurationCategory)
	case "budgetCurrency":
		return single(d.BudgetCurrency)
	case "status":
		return single(d.Status)
	case "track":
		return single(d.Track)
	case "organization":
		return single(d.Organization)
	case "location":
		return single(d.Location)
	case "geoCity":
		return single(d.GeoCity)
	case "geoRegion":
		return single(d.GeoRegion)
	case "geoCountry":
		return single(d.GeoCountry)
	case "isRemote":
		if d.IsRemote {
			return []string{"true"}
		}
		return []string{"false"}
	case "taxonomySlugs":
		return d.TaxonomySlugs
	case "taxonomyTypes":
		return d.TaxonomyTypes
	}
	return nil
}
