package ranking

import (
	"slices"
	"time"

	"github.com/kailas-cloud/discovery/internal/domain/document"
	"github.com/kailas-cloud/discovery/internal/domain/geo"
	"github.com/kailas-cloud/discovery/internal/domain/search/filter"
)

// Composite weights. They sum to 1.
const (
	WeightFreshness  = 0.30
	WeightQuery      = 0.30
	WeightTaxonomy   = 0.20
	WeightRemoteFit  = 0.10
	WeightReputation = 0.10
)

// Signals is the explainable score breakdown, every value in [0,1] at 4 decimals.
type Signals struct {
	Freshness     float64 `json:"freshness"`
	QueryAffinity float64 `json:"queryAffinity"`
	Taxonomy      float64 `json:"taxonomy"`
	RemoteFit     float64 `json:"remoteFit"`
	Reputation    float64 `json:"reputation"`
	Total         float64 `json:"total"`
}

// Scored is a document with its signals attached. The document's own fields
// are embedded untouched.
type Scored struct {
	document.Document
	AISignals Signals `json:"aiSignals"`
}

// Context is the query context shared by every document of one result page.
type Context struct {
	Query    string
	Filters  filter.Set
	Viewport *geo.BoundingBox
	// Reputation holds trust scores (0-100) keyed by document owner.
	Reputation map[string]float64
	Now        time.Time
}

// Score computes the signals for d.
func Score(d *document.Document, rc *Context) Signals {
	rep, ok := rc.Reputation[d.OwnerID]
	if d.OwnerID == "" {
		ok = false
	}
	s := Signals{
		Freshness:     round4(Freshness(d.UpdatedAtEpoch, rc.Now)),
		QueryAffinity: round4(QueryAffinity(rc.Query, d)),
		Taxonomy:      round4(TaxonomyAlignment(rc.Filters, d)),
		RemoteFit:     round4(RemoteFit(rc.Filters, d, rc.Viewport)),
		Reputation:    round4(Reputation(rep, ok)),
	}
	s.Total = round4(clamp01(WeightFreshness*s.Freshness +
		WeightQuery*s.QueryAffinity +
		WeightTaxonomy*s.Taxonomy +
		WeightRemoteFit*s.RemoteFit +
		WeightReputation*s.Reputation))
	return s
}

// Rank attaches signals to docs, keeping their order unless reorder is set, in
// which case items are stably sorted by descending total.
func Rank(docs []document.Document, rc *Context, reorder bool) []Scored {
	out := make([]Scored, len(docs))
	for i := range docs {
		out[i] = Scored{Document: docs[i], AISignals: Score(&docs[i], rc)}
	}
	if reorder {
		slices.SortStableFunc(out, func(a, b Scored) int {
			switch {
			case a.AISignals.Total > b.AISignals.Total:
				return -1
			case a.AISignals.Total < b.AISignals.Total:
				return 1
			}
			return 0
		})
	}
	return out
}

// Owners returns the distinct non-empty owner ids of docs, in first-seen order.
func Owners(docs []document.Document) []string {
	seen := make(map[string]bool)
	var out []string
	for i := range docs {
		id := docs[i].OwnerID
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
