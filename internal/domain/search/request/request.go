package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/discovery/internal/domain"
	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/geo"
	"github.com/kailas-cloud/discovery/internal/domain/search/filter"
)

// MaxQueryLength is the maximum allowed free-text query length in runes.
const MaxQueryLength = 512

// Request is a validated single-category search.
type Request struct {
	category      category.Category
	query         string
	page          int
	pageSize      int
	filters       filter.Set
	viewport      *geo.BoundingBox
	sort          string
	includeFacets bool
}

// New validates and normalizes search parameters. Page and page size are clamped,
// filters are scoped to the category.
func New(
	c category.Category,
	query string,
	page, pageSize int,
	filters filter.Set,
	viewport *geo.BoundingBox,
	sort string,
	includeFacets bool,
) (Request, error) {
	if !c.IsValid() {
		return Request{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedCategory, string(c))
	}
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return Request{}, domain.NewValidationError("query", "too long (max %d chars)", MaxQueryLength)
	}
	if page < 1 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	return Request{
		category:      c,
		query:         query,
		page:          page,
		pageSize:      ClampPageSize(pageSize),
		filters:       filters.ForCategory(c),
		viewport:      viewport,
		sort:          strings.TrimSpace(sort),
		includeFacets: includeFacets,
	}, nil
}

// Category returns the listing category searched.
func (r *Request) Category() category.Category { return r.category }

// Query returns the trimmed free-text query (may be empty).
func (r *Request) Query() string { return r.query }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// PageSize returns the number of items per page.
func (r *Request) PageSize() int { return r.pageSize }

// Offset returns the zero-based row offset.
func (r *Request) Offset() int { return Offset(r.page, r.pageSize) }

// Filters returns the category-scoped filter set.
func (r *Request) Filters() filter.Set { return r.filters }

// Viewport returns the bounding box, nil when none was supplied.
func (r *Request) Viewport() *geo.BoundingBox { return r.viewport }

// Sort returns the requested sort profile name.
func (r *Request) Sort() string { return r.sort }

// IncludeFacets reports whether facet distributions were requested.
func (r *Request) IncludeFacets() bool { return r.includeFacets }
