package document

import "strings"

// MergeTaxonomies combines the record's taxonomy sources into one list, keyed by
// case-insensitive slug. Assignments win over the pre-joined list, which wins
// over the parallel arrays. Slugs and types are lower-cased.
func MergeTaxonomies(rec *Record) []Taxonomy {
	var out []Taxonomy
	seen := make(map[string]bool)
	add := func(t Taxonomy) {
		slug := strings.ToLower(strings.TrimSpace(t.Slug))
		if slug == "" || seen[slug] {
			return
		}
		seen[slug] = true
		label := strings.TrimSpace(t.Label)
		if label == "" {
			label = slug
		}
		out = append(out, Taxonomy{
			Slug:  slug,
			Label: label,
			Type:  strings.ToLower(strings.TrimSpace(t.Type)),
		})
	}
	for _, t := range rec.TaxonomyAssignments {
		add(t)
	}
	for _, t := range rec.Taxonomies {
		add(t)
	}
	for i, slug := range rec.TaxonomySlugs {
		t := Taxonomy{Slug: slug}
		if i < len(rec.TaxonomyLabels) {
			t.Label = rec.TaxonomyLabels[i]
		}
		if i < len(rec.TaxonomyTypes) {
			t.Type = rec.TaxonomyTypes[i]
		}
		add(t)
	}
	return out
}
