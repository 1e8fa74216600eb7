// store.go
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

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"

	"github.com/bioctools/corpusload/internal/models"
)

// Store wraps the shared *gorm.DB handle with the repository operations
// the ingestion pipeline needs. It is safe for concurrent use; the
// connection pool underneath is the concurrency bound against the
// database.
type Store struct {
	db  *gorm.DB
	log *zap.Logger

	// collMu serializes the check-then-create of the collection registry
	// so concurrent first use of the same key yields exactly one row.
	collMu      sync.Mutex
	collections map[string]*models.Collection
}

// New creates a Store over an open database handle.
func New(db *gorm.DB, log *zap.Logger) *Store {
	return &Store{
		db:          db,
		log:         log,
		collections: make(map[string]*models.Collection),
	}
}

// Transaction runs fn against a transactional view of the store. The view
// carries its own empty registry (a rolled-back transaction must not
// poison the shared cache); it exists so all writes for one document
// commit or roll back together.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(txdb *gorm.DB) error {
		return fn(&Store{
			db:          txdb,
			log:         s.log,
			collections: make(map[string]*models.Collection),
		})
	})
}

// ResolveCollection returns the collection registered under key, creating
// it on first reference. Source and date on an existing row are never
// overwritten.
func (s *Store) ResolveCollection(ctx context.Context, key string, source, date *string) (*models.Collection, error) {
	s.collMu.Lock()
	defer s.collMu.Unlock()

	if coll, ok := s.collections[key]; ok {
		return coll, nil
	}

	var coll models.Collection
	err := s.db.WithContext(ctx).Where("collection_key = ?", key).First(&coll).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		coll = models.Collection{
			CollectionKey: key,
			Source:        source,
			Date:          date,
		}
		if err := s.db.WithContext(ctx).Create(&coll).Error; err != nil {
			return nil, fmt.Errorf("creating collection %q: %w", key, err)
		}
	default:
		return nil, fmt.Errorf("looking up collection %q: %w", key, err)
	}

	s.collections[key] = &coll
	return &coll, nil
}

// FindDocumentByArticleID returns the stored document row for a natural
// key, or nil when none exists. On MySQL the unique index is hinted
// explicitly; bulk loads hit this lookup once per document.
func (s *Store) FindDocumentByArticleID(ctx context.Context, articleID string) (*models.Document, error) {
	query := s.db.WithContext(ctx)
	if s.db.Dialector.Name() == "mysql" {
		query = query.Clauses(hints.UseIndex("idx_documents_article_id"))
	}

	var doc models.Document
	err := query.Where("article_id = ?", articleID).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up document %q: %w", articleID, err)
	}
	return &doc, nil
}

// DeleteDocumentCascading removes a document and everything it owns. The
// cascade is explicit so the behavior does not depend on dialect-level
// foreign key enforcement.
func (s *Store) DeleteDocumentCascading(ctx context.Context, documentID uint64) error {
	db := s.db.WithContext(ctx)

	passageIDs := s.db.Model(&models.Passage{}).
		Select("passage_id").
		Where("document_id = ?", documentID)
	annotationIDs := s.db.Model(&models.Annotation{}).
		Select("annotation_id").
		Where("passage_id IN (?)", passageIDs)

	if err := db.Where("annotation_id IN (?)", annotationIDs).
		Delete(&models.AnnotationInfon{}).Error; err != nil {
		return fmt.Errorf("deleting annotation infons of document %d: %w", documentID, err)
	}
	if err := db.Where("passage_id IN (?)", passageIDs).
		Delete(&models.Annotation{}).Error; err != nil {
		return fmt.Errorf("deleting annotations of document %d: %w", documentID, err)
	}
	if err := db.Where("passage_id IN (?)", passageIDs).
		Delete(&models.Infon{}).Error; err != nil {
		return fmt.Errorf("deleting infons of document %d: %w", documentID, err)
	}
	if err := db.Where("document_id = ?", documentID).
		Delete(&models.Passage{}).Error; err != nil {
		return fmt.Errorf("deleting passages of document %d: %w", documentID, err)
	}
	if err := db.Delete(&models.Document{}, documentID).Error; err != nil {
		return fmt.Errorf("deleting document %d: %w", documentID, err)
	}
	return nil
}

// CreateDocument inserts the document row only; the passage tree is
// written separately in batches.
func (s *Store) CreateDocument(ctx context.Context, doc *models.Document) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(doc).Error; err != nil {
		return fmt.Errorf("creating document %q: %w", doc.ArticleID, err)
	}
	return nil
}

// CreatePassageTree batch-inserts a document's passages together with
// their nested infons and annotations (and the annotations' own infons)
// in one call, minimizing store round-trips.
func (s *Store) CreatePassageTree(ctx context.Context, documentID uint64, passages []models.Passage) error {
	if len(passages) == 0 {
		return nil
	}
	for i := range passages {
		passages[i].DocumentID = documentID
	}
	if err := s.db.WithContext(ctx).Create(&passages).Error; err != nil {
		return fmt.Errorf("creating %d passages of document %d: %w", len(passages), documentID, err)
	}
	return nil
}

// CountDocuments reports the number of stored documents.
func (s *Store) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Document{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}
