package opportunity

import (
	"fmt"

	"github.com/kailas-cloud/discovery/internal/domain/category"
)

// tableName returns the relation holding c.
func tableName(c category.Category) string {
	switch c {
	case category.Job:
		return "jobs"
	case category.Gig:
		return "gigs"
	case category.Project:
		return "projects"
	case category.Launchpad:
		return "launchpads"
	case category.Volunteering:
		return "volunteering_roles"
	}
	panic(fmt.Sprintf("opportunity: unknown category %q", string(c)))
}

// remotePattern mirrors the document mapper's remote heuristic in Postgres ARE syntax.
const remotePattern = `\y(remote|hybrid|anywhere|distributed|work[\s-]*from[\s-]*home|wfh)\y`

const numericPattern = `^\s*-?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?\s*$`

// Each expression reproduces the value the document mapper derives for the field,
// so predicates here select the same rows the index does.
const (
	isRemoteExpr = `CASE
		WHEN lower(btrim(o.geo->>'isRemote')) IN ('true', '1') THEN true
		WHEN lower(btrim(o.geo->>'isRemote')) IN ('false', '0') THEN false
		WHEN lower(btrim(o.geo->>'remote')) IN ('true', '1') THEN true
		WHEN lower(btrim(o.geo->>'remote')) IN ('false', '0') THEN false
		ELSE (coalesce(o.location, '') ~* '` + remotePattern + `' OR coalesce(o.description, '') ~* '` + remotePattern + `')
	END`

	geoLatText = `coalesce(o.geo->>'lat', o.geo->>'latitude')`
	geoLngText = `coalesce(o.geo->>'lng', o.geo->>'longitude', o.geo->>'lon')`
	geoLatExpr = `CASE WHEN ` + geoLatText + ` ~ '` + numericPattern + `' THEN btrim(` + geoLatText + `)::double precision END`
	geoLngExpr = `CASE WHEN ` + geoLngText + ` ~ '` + numericPattern + `' THEN btrim(` + geoLngText + `)::double precision END`

	// A point with either coordinate out of range is discarded as a whole.
	geoInRangeExpr = `(` + geoLatExpr + `) BETWEEN -90 AND 90 AND (` + geoLngExpr + `) BETWEEN -180 AND 180`

	budgetDigits    = `btrim(regexp_replace(coalesce(o.budget, ''), '[^0-9.]', '', 'g'), '.')`
	budgetValueExpr = `coalesce(o.budget_value::double precision, CASE WHEN ` + budgetDigits +
		` ~ '^[0-9]+(\.[0-9]+)?$' THEN ` + budgetDigits + `::double precision END)`

	budgetCurrencyExpr = `coalesce(nullif(upper(btrim(o.budget_currency)), ''), CASE
		WHEN o.budget LIKE '%$%' THEN 'USD'
		WHEN o.budget LIKE '%€%' THEN 'EUR'
		WHEN o.budget LIKE '%£%' THEN 'GBP'
		WHEN upper(o.budget) LIKE '%USD%' THEN 'USD'
		WHEN upper(o.budget) LIKE '%EUR%' THEN 'EUR'
		WHEN upper(o.budget) LIKE '%GBP%' THEN 'GBP'
	END)`

	durationCategoryExpr = `coalesce(nullif(btrim(o.duration_category), ''), CASE
		WHEN lower(o.duration) LIKE '%week%' OR lower(o.duration) LIKE '%sprint%' THEN 'short_term'
		WHEN lower(o.duration) LIKE '%month%' OR lower(o.duration) LIKE '%quarter%' THEN 'medium_term'
		WHEN lower(o.duration) LIKE '%year%' OR lower(o.duration) LIKE '%long%' THEN 'long_term'
		ELSE 'unspecified'
	END)`

	employmentCategoryExpr = `coalesce(nullif(btrim(o.employment_category), ''), CASE
		WHEN lower(o.employment_type) LIKE '%full%' THEN 'full_time'
		WHEN lower(o.employment_type) LIKE '%part%' THEN 'part_time'
		WHEN lower(o.employment_type) LIKE '%intern%' THEN 'internship'
		WHEN lower(o.employment_type) LIKE '%contract%' THEN 'contract'
		ELSE nullif(btrim(regexp_replace(lower(coalesce(o.employment_type, '')), '[^[:alnum:]]+', '_', 'g'), '_'), '')
	END)`
)

// fieldExpr maps a canonical document field onto its SQL expression for c.
// The boolean is false when c has no such field.
func fieldExpr(c category.Category, field string) (string, bool) {
	switch field {
	case "id":
		return "o.id", true
	case "title":
		return "o.title", true
	case "description":
		return "o.description", true
	case "createdAt":
		return "o.created_at", true
	case "updatedAt":
		return "o.updated_at", true
	case "location":
		return "btrim(o.location)", true
	case "geoCity":
		return "btrim(o.geo->>'city')", true
	case "geoRegion":
		return "btrim(o.geo->>'region')", true
	case "geoCountry":
		return "btrim(o.geo->>'country')", true
	case "isRemote":
		return isRemoteExpr, true
	}

	switch c {
	case category.Job:
		switch field {
		case "employmentType":
			return "o.employment_type", true
		case "employmentCategory":
			return employmentCategoryExpr, true
		}
	case category.Gig:
		switch field {
		case "budgetValue":
			return budgetValueExpr, true
		case "budgetCurrency":
			return budgetCurrencyExpr, true
		case "durationCategory":
			return durationCategoryExpr, true
		}
	case category.Project:
		if field == "status" {
			return "btrim(o.status)", true
		}
	case category.Launchpad:
		if field == "track" {
			return "btrim(o.track)", true
		}
	case category.Volunteering:
		if field == "organization" {
			return "btrim(o.organization)", true
		}
	}
	return "", false
}
