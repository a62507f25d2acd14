package filter

import "github.com/kailas-cloud/discovery/internal/domain/category"

// FacetKeys lists the fields whose value distributions are reported for c.
func FacetKeys(c category.Category) []Key {
	shared := []Key{Location, GeoCountry, IsRemote, TaxonomySlugs, TaxonomyTypes}
	var own []Key
	switch c {
	case category.Job:
		own = []Key{EmploymentType, EmploymentCategory}
	case category.Gig:
		own = []Key{DurationCategory, BudgetCurrency}
	case category.Project:
		own = []Key{Status}
	case category.Launchpad:
		own = []Key{Track}
	case category.Volunteering:
		own = []Key{Organization}
	default:
		return nil
	}
	return append(own, shared...)
}

// IsMultiValued reports whether a document can carry several values for k.
func (k Key) IsMultiValued() bool { return k.IsTaxonomy() }
