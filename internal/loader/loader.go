// loader.go
//
// A high performance relational loader for BioC scientific literature corpora
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of corpusload.
// corpusload is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// corpusload is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with corpusload.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package loader

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bioctools/corpusload/internal/models"
	"github.com/bioctools/corpusload/internal/store"
)

// ErrMissingArticleID marks a document that cannot be stored because the
// source supplied no natural key.
var ErrMissingArticleID = errors.New("document has no article id")

// Item is one unit of work: a normalized, filtered document bound to its
// resolved collection, tagged with the source file for progress reporting.
type Item struct {
	Doc        *models.Document
	Collection *models.Collection
	SourceFile string
}

// Progress is emitted after each document finishes anywhere in any slice.
// Completed increases monotonically across the whole run.
type Progress struct {
	RunID      string
	Completed  int
	Total      int
	ArticleID  string
	SourceFile string
}

// ProgressFunc receives progress updates. May be nil.
type ProgressFunc func(Progress)

// Summary aggregates the outcome of one run.
type Summary struct {
	Total     int
	Attempted int
	Inserted  int
	Replaced  int
	Failed    int
}

// Loader drives document persistence with bounded concurrency.
type Loader struct {
	store *store.Store
	log   *zap.Logger
}

// New creates a Loader over a store.
func New(s *store.Store, log *zap.Logger) *Loader {
	return &Loader{store: s, log: log}
}

// Upsert stores one normalized document under the full delete-and-replace
// policy: a previously stored document with the same natural key is
// cascade-deleted before the new version is written, never merged or
// skipped. Lookup, delete and all creates run in one transaction, so a
// failure or cancellation mid-sequence leaves the old state intact.
// Returns whether an old version was replaced.
func (l *Loader) Upsert(ctx context.Context, doc *models.Document, coll *models.Collection) (bool, error) {
	if doc.ArticleID == "" {
		return false, ErrMissingArticleID
	}

	replaced := false
	err := l.store.Transaction(ctx, func(tx *store.Store) error {
		existing, err := tx.FindDocumentByArticleID(ctx, doc.ArticleID)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := tx.DeleteDocumentCascading(ctx, existing.DocumentID); err != nil {
				return err
			}
			replaced = true
		}

		record := models.Document{
			ArticleID:    doc.ArticleID,
			CollectionID: coll.CollectionID,
		}
		if err := tx.CreateDocument(ctx, &record); err != nil {
			return err
		}
		return tx.CreatePassageTree(ctx, record.DocumentID, doc.Passages)
	})
	if err != nil {
		return false, err
	}
	return replaced, nil
}

// Partition splits items into at most max contiguous slices of roughly
// equal size (ceiling division, the last slice may be smaller). Every
// returned slice is non-empty and items keep their relative order within
// a slice.
func Partition(items []Item, max int) [][]Item {
	if len(items) == 0 {
		return nil
	}
	if max < 1 {
		max = 1
	}
	size := (len(items) + max - 1) / max
	slices := make([][]Item, 0, max)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		slices = append(slices, items[start:end])
	}
	return slices
}

// Run partitions the work list and drains the slices concurrently.
// Within a slice documents are upserted strictly in order; across slices
// no ordering holds. A single document's failure is logged with its
// identity and never aborts its slice or the run. Cancelling the context
// stops dispatch of remaining documents while in-flight transactions
// complete or roll back whole.
func (l *Loader) Run(ctx context.Context, items []Item, concurrency int, progress ProgressFunc) Summary {
	runID := uuid.NewString()
	total := len(items)
	slices := Partition(items, concurrency)

	l.log.Info("starting load run",
		zap.String("run_id", runID),
		zap.Int("documents", total),
		zap.Int("slices", len(slices)))

	var completed, inserted, replaced, failed atomic.Int64
	var wg sync.WaitGroup
	for _, slice := range slices {
		wg.Add(1)
		go func(slice []Item) {
			defer wg.Done()
			for _, item := range slice {
				if ctx.Err() != nil {
					return
				}
				didReplace, err := l.Upsert(ctx, item.Doc, item.Collection)
				switch {
				case err != nil:
					failed.Add(1)
					l.log.Warn("document failed",
						zap.String("run_id", runID),
						zap.String("file", item.SourceFile),
						zap.String("article_id", item.Doc.ArticleID),
						zap.Error(err))
				case didReplace:
					replaced.Add(1)
				default:
					inserted.Add(1)
				}
				done := completed.Add(1)
				if progress != nil {
					progress(Progress{
						RunID:      runID,
						Completed:  int(done),
						Total:      total,
						ArticleID:  item.Doc.ArticleID,
						SourceFile: item.SourceFile,
					})
				}
			}
		}(slice)
	}
	wg.Wait()

	return Summary{
		Total:     total,
		Attempted: int(completed.Load()),
		Inserted:  int(inserted.Load()),
		Replaced:  int(replaced.Load()),
		Failed:    int(failed.Load()),
	}
}
