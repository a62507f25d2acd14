package filter

import (
	"strings"
	"time"

	"github.com/kailas-cloud/discovery/internal/domain/category"
)

// Key is a canonical filter name.
type Key string

// Canonical filter keys.
const (
	EmploymentType     Key = "employmentType"
	EmploymentCategory Key = "employmentCategory"
	DurationCategory   Key = "durationCategory"
	BudgetCurrency     Key = "budgetCurrency"
	BudgetValueMin     Key = "budgetValueMin"
	BudgetValueMax     Key = "budgetValueMax"
	Status             Key = "status"
	Track              Key = "track"
	Organization       Key = "organization"
	Location           Key = "location"
	GeoCountry         Key = "geoCountry"
	GeoRegion          Key = "geoRegion"
	GeoCity            Key = "geoCity"
	IsRemote           Key = "isRemote"
	UpdatedWithin      Key = "updatedWithin"
	TaxonomySlugs      Key = "taxonomySlugs"
	TaxonomyTypes      Key = "taxonomyTypes"
)

// catalog fixes the order in which keys are emitted into expressions and predicates.
var catalog = []Key{
	EmploymentType, EmploymentCategory,
	DurationCategory, BudgetCurrency, BudgetValueMin, BudgetValueMax,
	Status, Track, Organization,
	Location, GeoCountry, GeoRegion, GeoCity,
	IsRemote, UpdatedWithin,
	TaxonomySlugs, TaxonomyTypes,
}

// Keys returns all canonical keys in emission order.
func Keys() []Key {
	out := make([]Key, len(catalog))
	copy(out, catalog)
	return out
}

// aliases maps every accepted client spelling to its canonical key.
var aliases = map[string]Key{
	"employmentType":       EmploymentType,
	"employmentTypes":      EmploymentType,
	"employmentCategory":   EmploymentCategory,
	"employmentCategories": EmploymentCategory,
	"durationCategory":     DurationCategory,
	"durationCategories":   DurationCategory,
	"deliverySpeed":        DurationCategory,
	"duration":             DurationCategory,
	"budgetCurrency":       BudgetCurrency,
	"budgetCurrencies":     BudgetCurrency,
	"currency":             BudgetCurrency,
	"budgetValueMin":       BudgetValueMin,
	"budgetMin":            BudgetValueMin,
	"minBudget":            BudgetValueMin,
	"budgetValueMax":       BudgetValueMax,
	"budgetMax":            BudgetValueMax,
	"maxBudget":            BudgetValueMax,
	"status":               Status,
	"statuses":             Status,
	"track":                Track,
	"tracks":               Track,
	"organization":         Organization,
	"organizations":        Organization,
	"location":             Location,
	"locations":            Location,
	"geoCountry":           GeoCountry,
	"country":              GeoCountry,
	"geoRegion":            GeoRegion,
	"region":               GeoRegion,
	"geoCity":              GeoCity,
	"city":                 GeoCity,
	"isRemote":             IsRemote,
	"remote":               IsRemote,
	"updatedWithin":        UpdatedWithin,
	"freshness":            UpdatedWithin,
	"taxonomySlugs":        TaxonomySlugs,
	"taxonomySlug":         TaxonomySlugs,
	"taxonomies":           TaxonomySlugs,
	"taxonomyTypes":        TaxonomyTypes,
	"taxonomyType":         TaxonomyTypes,
}

// Resolve maps a client key to its canonical key.
func Resolve(raw string) (Key, bool) {
	k, ok := aliases[strings.TrimSpace(raw)]
	return k, ok
}

type kind int

const (
	kindList kind = iota
	kindBool
	kindNumber
	kindWindow
)

func (k Key) kind() kind {
	switch k {
	case IsRemote:
		return kindBool
	case BudgetValueMin, BudgetValueMax:
		return kindNumber
	case UpdatedWithin:
		return kindWindow
	}
	return kindList
}

// AppliesTo reports whether the key is meaningful for the category.
func (k Key) AppliesTo(c category.Category) bool {
	switch k {
	case EmploymentType, EmploymentCategory:
		return c == category.Job
	case DurationCategory, BudgetCurrency, BudgetValueMin, BudgetValueMax:
		return c == category.Gig
	case Status:
		return c == category.Project
	case Track:
		return c == category.Launchpad
	case Organization:
		return c == category.Volunteering
	case Location, GeoCountry, GeoRegion, GeoCity, IsRemote, UpdatedWithin, TaxonomySlugs, TaxonomyTypes:
		return c.IsValid()
	}
	return false
}

// IsTaxonomy reports whether the key filters through taxonomy assignments.
func (k Key) IsTaxonomy() bool {
	return k == TaxonomySlugs || k == TaxonomyTypes
}

// windows are the accepted updatedWithin values.
var windows = map[string]time.Duration{
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"90d": 90 * 24 * time.Hour,
}

// Window returns the duration named by an updatedWithin value.
func Window(v string) (time.Duration, bool) {
	d, ok := windows[strings.ToLower(strings.TrimSpace(v))]
	return d, ok
}

// deliverySpeeds translates gig delivery speed labels into duration buckets.
var deliverySpeeds = map[string]string{
	"express":  "short_term",
	"fast":     "short_term",
	"standard": "medium_term",
	"extended": "long_term",
	"flexible": "long_term",
}

func foldValue(k Key, rawKey, v string) string {
	switch k {
	case TaxonomySlugs, TaxonomyTypes:
		return strings.ToLower(v)
	case BudgetCurrency:
		return strings.ToUpper(v)
	case DurationCategory:
		if rawKey == "deliverySpeed" {
			if mapped, ok := deliverySpeeds[strings.ToLower(v)]; ok {
				return mapped
			}
		}
	}
	return v
}
