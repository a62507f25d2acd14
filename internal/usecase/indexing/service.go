// Package indexing copies canonical documents from the relational store into the search index.
package indexing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/document"
	"github.com/kailas-cloud/discovery/internal/domain/search/ordering"
	"github.com/kailas-cloud/discovery/internal/domain/search/predicate"
	"github.com/kailas-cloud/discovery/internal/metrics"
)

// DefaultBatchSize is the number of records read and written per round trip.
const DefaultBatchSize = 500

var byID = []ordering.Expression{{Field: "id", Direction: ordering.Asc}}

// Report summarizes one category sync.
type Report struct {
	Category category.Category `json:"category"`
	Indexed  int               `json:"indexed"`
	Pruned   int               `json:"pruned"`
	Error    string            `json:"error,omitempty"`
}

// Service rebuilds index contents from the store.
type Service struct {
	source    Source
	writer    Writer
	batchSize int
	now       func() time.Time
	logger    *zap.Logger
}

// New creates an indexing service.
func New(source Source, writer Writer, batchSize int, logger *zap.Logger) *Service {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Service{source: source, writer: writer, batchSize: batchSize, now: time.Now, logger: logger}
}

// Reindex syncs each category in cats (all when empty). With recreate the index is
// dropped and rebuilt. Categories are synced independently; the returned error joins
// every category failure.
func (s *Service) Reindex(ctx context.Context, cats []category.Category, recreate bool) ([]Report, error) {
	if len(cats) == 0 {
		cats = category.All()
	}
	reports := make([]Report, 0, len(cats))
	var errs []error
	for _, c := range cats {
		r, err := s.reindexCategory(ctx, c, recreate)
		if err != nil {
			r.Error = err.Error()
			errs = append(errs, fmt.Errorf("reindex %s: %w", c, err))
			s.logger.Error("Reindex failed", zap.String("category", string(c)), zap.Error(err))
		} else {
			s.logger.Info("Reindexed category",
				zap.String("category", string(c)),
				zap.Int("indexed", r.Indexed),
				zap.Int("pruned", r.Pruned))
		}
		reports = append(reports, r)
	}
	return reports, errors.Join(errs...)
}

func (s *Service) reindexCategory(ctx context.Context, c category.Category, recreate bool) (Report, error) {
	r := Report{Category: c}
	if err := s.writer.EnsureIndex(ctx, c, recreate); err != nil {
		return r, err
	}

	now := s.now()
	keep := make(map[string]struct{})
	for offset := 0; ; offset += s.batchSize {
		records, err := s.source.Find(ctx, c, predicate.New(), byID, offset, s.batchSize)
		if err != nil {
			return r, fmt.Errorf("read batch at %d: %w", offset, err)
		}
		docs := make([]document.Document, len(records))
		for i := range records {
			docs[i] = document.MapToDocument(c, &records[i], now)
			keep[docs[i].ID] = struct{}{}
		}
		if err := s.writer.Upsert(ctx, c, docs); err != nil {
			return r, err
		}
		r.Indexed += len(docs)
		metrics.IndexDocumentsTotal.WithLabelValues(string(c)).Add(float64(len(docs)))
		if len(records) < s.batchSize {
			break
		}
	}

	pruned, err := s.writer.Prune(ctx, c, keep)
	if err != nil {
		return r, err
	}
	r.Pruned = pruned
	return r, nil
}
