package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/discovery/internal/db"
	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/document"
)

// writeStore is the consumer interface for index maintenance (ISP).
type writeStore interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Del(ctx context.Context, keys ...string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Writer keeps the per-category indexes in sync with the relational store.
type Writer struct {
	store writeStore
}

// NewWriter creates an index writer.
func NewWriter(s writeStore) *Writer {
	return &Writer{store: s}
}

// EnsureIndex creates c's index unless it already exists. With recreate the
// existing index is dropped first so schema changes take effect.
func (w *Writer) EnsureIndex(ctx context.Context, c category.Category, recreate bool) error {
	def, err := buildIndex(c)
	if err != nil {
		return fmt.Errorf("build index %s: %w", c, err)
	}
	exists, err := w.store.IndexExists(ctx, def.Name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", def.Name, err)
	}
	if exists && !recreate {
		return nil
	}
	if exists {
		if err := w.store.DropIndex(ctx, def.Name); err != nil {
			return fmt.Errorf("drop index %s: %w", def.Name, err)
		}
	}
	if err := w.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", def.Name, err)
	}
	return nil
}

// Upsert writes documents as hashes in one pipeline.
func (w *Writer) Upsert(ctx context.Context, c category.Category, docs []document.Document) error {
	if len(docs) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, 0, len(docs))
	for i := range docs {
		fields, err := buildHashFields(&docs[i])
		if err != nil {
			return err
		}
		items = append(items, db.HashSetItem{Key: docKey(c, docs[i].ID), Fields: fields})
	}
	if err := w.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("upsert %d %s documents: %w", len(items), c, err)
	}
	return nil
}

// Prune deletes indexed documents of c whose id is not in keep and returns how
// many were removed.
func (w *Writer) Prune(ctx context.Context, c category.Category, keep map[string]struct{}) (int, error) {
	prefix := docPrefix(c)
	keys, err := w.store.Scan(ctx, prefix+"*")
	if err != nil {
		return 0, fmt.Errorf("scan %s documents: %w", c, err)
	}
	var stale []string
	for _, k := range keys {
		if _, ok := keep[strings.TrimPrefix(k, prefix)]; !ok {
			stale = append(stale, k)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	if err := w.store.Del(ctx, stale...); err != nil {
		return 0, fmt.Errorf("prune %s documents: %w", c, err)
	}
	return len(stale), nil
}
