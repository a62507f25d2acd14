package search

import (
	"fmt"

	"github.com/kailas-cloud/discovery/internal/db"
	"github.com/kailas-cloud/discovery/internal/domain"
	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/search/filter"
)

// Key patterns: discovery:{category}:idx, discovery:{category}:doc:{id}

// tagSeparator joins multi-valued TAG fields in a hash.
const tagSeparator = "|"

// payloadField holds the JSON document returned to clients.
const payloadField = "payload"

// IndexName returns the FT index serving c.
func IndexName(c category.Category) string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, c)
}

func docPrefix(c category.Category) string {
	return fmt.Sprintf("%s%s:doc:", domain.KeyPrefix, c)
}

func docKey(c category.Category, id string) string {
	return docPrefix(c) + id
}

// ownTags lists the category-specific TAG fields.
func ownTags(c category.Category) []filter.Key {
	switch c {
	case category.Job:
		return []filter.Key{filter.EmploymentType, filter.EmploymentCategory}
	case category.Gig:
		return []filter.Key{filter.DurationCategory, filter.BudgetCurrency}
	case category.Project:
		return []filter.Key{filter.Status}
	case category.Launchpad:
		return []filter.Key{filter.Track}
	case category.Volunteering:
		return []filter.Key{filter.Organization}
	}
	panic(fmt.Sprintf("search: unknown category %q", string(c)))
}

var sharedTags = []filter.Key{
	filter.Location, filter.GeoCountry, filter.GeoRegion, filter.GeoCity,
	filter.IsRemote, filter.TaxonomySlugs, filter.TaxonomyTypes,
}

// buildIndex describes the hash schema of c's documents.
func buildIndex(c category.Category) (*db.IndexDefinition, error) {
	b := db.NewIndex(IndexName(c)).
		Prefix(docPrefix(c)).
		Text("title").NoStem().Sortable().
		Text("description").NoStem().
		Numeric("createdAtEpoch").Sortable().
		Numeric(filter.FieldUpdatedAtEpoch).Sortable().
		Numeric(filter.FieldGeoLat).
		Numeric(filter.FieldGeoLng)

	for _, k := range ownTags(c) {
		b.TagWithOpts(string(k), tagSeparator, true)
		if k == filter.Status {
			b.Sortable()
		}
	}
	for _, k := range sharedTags {
		b.TagWithOpts(string(k), tagSeparator, true)
	}
	if c == category.Gig {
		b.Numeric(filter.FieldBudgetValue).Sortable()
	}
	return b.Build()
}

// sortField maps an ordering field onto its sortable index attribute.
func sortField(field string) (string, bool) {
	switch field {
	case "updatedAt":
		return filter.FieldUpdatedAtEpoch, true
	case "createdAt":
		return "createdAtEpoch", true
	case "title", "status", filter.FieldBudgetValue:
		return field, true
	}
	return "", false
}
