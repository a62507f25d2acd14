// Package opportunity reads opportunity records from the relational store.
package opportunity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/document"
	"github.com/kailas-cloud/discovery/internal/domain/search/ordering"
	"github.com/kailas-cloud/discovery/internal/domain/search/predicate"
)

// querier is the consumer interface over a pgx pool.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo implements usecase/search.Store on PostgreSQL.
type Repo struct {
	db querier
}

// New creates a relational opportunity repository.
func New(db querier) *Repo {
	return &Repo{db: db}
}

// Find returns one page of records matching w in sort order.
func (r *Repo) Find(
	ctx context.Context, c category.Category, w *predicate.Where,
	sort []ordering.Expression, offset, limit int,
) ([]document.Record, error) {
	sql, args, err := buildFind(c, w, sort, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c, err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c, err)
	}
	defer rows.Close()

	var out []document.Record
	for rows.Next() {
		rec, err := scanRecord(c, rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", c, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find %s: %w", c, err)
	}
	return out, nil
}

// Count returns the number of distinct records matching w.
func (r *Repo) Count(ctx context.Context, c category.Category, w *predicate.Where) (int, error) {
	sql, args, err := buildCount(c, w)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", c, err)
	}
	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", c, err)
	}
	return int(n), nil
}

// FacetCounts groups the records matching w by field. Taxonomy fields are not
// supported and return ErrUnsupportedField.
func (r *Repo) FacetCounts(
	ctx context.Context, c category.Category, w *predicate.Where, field string,
) (map[string]int, error) {
	sql, args, err := buildFacet(c, w, field)
	if err != nil {
		return nil, fmt.Errorf("facet %s.%s: %w", c, field, err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("facet %s.%s: %w", c, field, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var value string
		var n int64
		if err := rows.Scan(&value, &n); err != nil {
			return nil, fmt.Errorf("facet %s.%s: %w", c, field, err)
		}
		counts[value] = int(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("facet %s.%s: %w", c, field, err)
	}
	return counts, nil
}

func scanRecord(c category.Category, rows pgx.Rows) (document.Record, error) {
	var (
		rec                          document.Record
		title, description, location *string
		ownerID                      *string
		createdAt, updatedAt         *time.Time
		geoRaw, taxonomiesRaw        []byte
		s1, s2, s3, s4               *string
		budgetValue, minScore        *float64
		autoAssignEnabled            *bool
		lastRunAt                    *time.Time
	)
	dest := []any{&rec.ID, &title, &description, &location, &geoRaw, &ownerID, &createdAt, &updatedAt}
	switch c {
	case category.Job:
		dest = append(dest, &s1, &s2)
	case category.Gig:
		dest = append(dest, &s1, &budgetValue, &s2, &s3, &s4)
	case category.Project:
		dest = append(dest, &s1, &autoAssignEnabled, &minScore, &lastRunAt)
	case category.Launchpad, category.Volunteering:
		dest = append(dest, &s1)
	default:
		return rec, fmt.Errorf("unknown category %q", string(c))
	}
	dest = append(dest, &taxonomiesRaw)
	if err := rows.Scan(dest...); err != nil {
		return rec, err
	}

	rec.Title = deref(title)
	rec.Description = deref(description)
	rec.Location = deref(location)
	rec.OwnerID = deref(ownerID)
	if createdAt != nil {
		rec.CreatedAt = *createdAt
	}
	if updatedAt != nil {
		rec.UpdatedAt = *updatedAt
	}
	if len(geoRaw) > 0 {
		d := json.NewDecoder(strings.NewReader(string(geoRaw)))
		d.UseNumber()
		var g map[string]any
		if err := d.Decode(&g); err == nil {
			rec.Geo = g
		}
	}
	if len(taxonomiesRaw) > 0 {
		if err := json.Unmarshal(taxonomiesRaw, &rec.TaxonomyAssignments); err != nil {
			return rec, fmt.Errorf("decode taxonomies of %s: %w", rec.ID, err)
		}
	}

	switch c {
	case category.Job:
		rec.EmploymentType = deref(s1)
		rec.EmploymentCategory = deref(s2)
	case category.Gig:
		rec.Budget = deref(s1)
		rec.BudgetValue = budgetValue
		rec.BudgetCurrency = deref(s2)
		rec.Duration = deref(s3)
		rec.DurationCategory = deref(s4)
	case category.Project:
		rec.Status = deref(s1)
		if autoAssignEnabled != nil || minScore != nil || lastRunAt != nil {
			rec.AutoAssign = &document.AutoAssign{
				Enabled:   autoAssignEnabled != nil && *autoAssignEnabled,
				MinScore:  minScore,
				LastRunAt: lastRunAt,
			}
		}
	case category.Launchpad:
		rec.Track = deref(s1)
	case category.Volunteering:
		rec.Organization = deref(s1)
	}
	return rec, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
