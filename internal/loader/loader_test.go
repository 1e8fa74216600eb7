package loader

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bioctools/corpusload/internal/bioc"
	"github.com/bioctools/corpusload/internal/models"
	"github.com/bioctools/corpusload/internal/normalize"
	"github.com/bioctools/corpusload/internal/store"
)

// setupTestDB creates an in-memory SQLite database for testing. The pool
// is pinned to one connection so every session sees the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Collection{},
		&models.Document{},
		&models.Passage{},
		&models.Infon{},
		&models.Annotation{},
		&models.AnnotationInfon{},
	))
	return db
}

func setupLoader(t *testing.T) (*Loader, *store.Store, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	s := store.New(db, zap.NewNop())
	return New(s, zap.NewNop()), s, db
}

// sampleDoc builds a normalized one-passage document carrying one Gene
// annotation, with the passage text varying per version.
func sampleDoc(articleID, text string) *models.Document {
	return normalize.Document(bioc.Node{
		"id": articleID,
		"passage": bioc.Node{
			"offset": "0",
			"text":   text,
			"infon":  bioc.Node{"key": "section_type", "value": "TITLE"},
			"annotation": bioc.Node{
				"id":       "1",
				"text":     "BRCA1",
				"infon":    bioc.Node{"key": "type", "value": "Gene"},
				"location": bioc.Node{"offset": "0", "length": "5"},
			},
		},
	})
}

func resolveCollection(t *testing.T, s *store.Store) *models.Collection {
	t.Helper()
	coll, err := s.ResolveCollection(context.Background(), "corpus.xml", nil, nil)
	require.NoError(t, err)
	return coll
}

func TestPartitionCeilingDivision(t *testing.T) {
	items := make([]Item, 97)
	slices := Partition(items, 10)

	require.Len(t, slices, 10)
	total := 0
	for i, slice := range slices {
		assert.NotEmpty(t, slice, "slice %d", i)
		total += len(slice)
	}
	assert.Equal(t, 97, total)
	// Ceiling division: nine slices of 10, one trailing slice of 7.
	for i := 0; i < 9; i++ {
		assert.Len(t, slices[i], 10)
	}
	assert.Len(t, slices[9], 7)
}

func TestPartitionPreservesOrder(t *testing.T) {
	items := make([]Item, 97)
	for i := range items {
		items[i].SourceFile = fmt.Sprintf("f%03d", i)
	}
	slices := Partition(items, 10)

	next := 0
	for _, slice := range slices {
		for _, item := range slice {
			assert.Equal(t, fmt.Sprintf("f%03d", next), item.SourceFile)
			next++
		}
	}
	assert.Equal(t, 97, next)
}

func TestPartitionFewerItemsThanWorkers(t *testing.T) {
	slices := Partition(make([]Item, 5), 10)
	require.Len(t, slices, 5)
	for _, slice := range slices {
		assert.Len(t, slice, 1)
	}
}

func TestPartitionEmptyAndBadMax(t *testing.T) {
	assert.Nil(t, Partition(nil, 10))
	assert.Len(t, Partition(make([]Item, 4), 0), 1)
}

func TestUpsertMissingArticleID(t *testing.T) {
	l, s, _ := setupLoader(t)
	coll := resolveCollection(t, s)

	_, err := l.Upsert(context.Background(), &models.Document{}, coll)
	assert.ErrorIs(t, err, ErrMissingArticleID)
}

func TestUpsertInsertsDocumentTree(t *testing.T) {
	l, s, db := setupLoader(t)
	coll := resolveCollection(t, s)

	replaced, err := l.Upsert(context.Background(), sampleDoc("p1", "v1 title"), coll)
	require.NoError(t, err)
	assert.False(t, replaced)

	var doc models.Document
	require.NoError(t, db.Preload("Passages.Infons").Preload("Passages.Annotations.Infons").
		Where("article_id = ?", "p1").First(&doc).Error)
	assert.Equal(t, coll.CollectionID, doc.CollectionID)
	require.Len(t, doc.Passages, 1)
	assert.Equal(t, "v1 title", doc.Passages[0].Text)
	require.Len(t, doc.Passages[0].Annotations, 1)
	assert.Len(t, doc.Passages[0].Annotations[0].Infons, 1)
}

// Re-ingesting the same article fully replaces the stored subtree:
// exactly one document per article id, second version's passages only.
func TestUpsertReplacePolicy(t *testing.T) {
	l, s, db := setupLoader(t)
	coll := resolveCollection(t, s)
	ctx := context.Background()

	_, err := l.Upsert(ctx, sampleDoc("p1", "v1 title"), coll)
	require.NoError(t, err)
	replaced, err := l.Upsert(ctx, sampleDoc("p1", "v2 title"), coll)
	require.NoError(t, err)
	assert.True(t, replaced)

	var docs int64
	require.NoError(t, db.Model(&models.Document{}).Where("article_id = ?", "p1").Count(&docs).Error)
	assert.EqualValues(t, 1, docs)

	var passages []models.Passage
	require.NoError(t, db.Find(&passages).Error)
	require.Len(t, passages, 1)
	assert.Equal(t, "v2 title", passages[0].Text)

	var annotations, infons int64
	require.NoError(t, db.Model(&models.Annotation{}).Count(&annotations).Error)
	require.NoError(t, db.Model(&models.Infon{}).Count(&infons).Error)
	assert.EqualValues(t, 1, annotations)
	assert.EqualValues(t, 1, infons)
}

func TestRunIsolatesDocumentFailures(t *testing.T) {
	l, s, _ := setupLoader(t)
	coll := resolveCollection(t, s)

	items := []Item{
		{Doc: &models.Document{}, Collection: coll, SourceFile: "corpus.xml"},
		{Doc: sampleDoc("p1", "one"), Collection: coll, SourceFile: "corpus.xml"},
		{Doc: sampleDoc("p2", "two"), Collection: coll, SourceFile: "corpus.xml"},
	}
	summary := l.Run(context.Background(), items, 2, nil)

	assert.Equal(t, 3, summary.Attempted)
	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 0, summary.Replaced)

	count, err := s.CountDocuments(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestRunProgressIsMonotonicAndComplete(t *testing.T) {
	l, s, _ := setupLoader(t)
	coll := resolveCollection(t, s)

	const n = 23
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, Item{
			Doc:        sampleDoc(fmt.Sprintf("p%d", i), "text"),
			Collection: coll,
			SourceFile: "corpus.xml",
		})
	}

	var mu sync.Mutex
	var seen []int
	summary := l.Run(context.Background(), items, 4, func(p Progress) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, p.Completed)
		assert.Equal(t, n, p.Total)
		assert.NotEmpty(t, p.ArticleID)
	})

	assert.Equal(t, n, summary.Inserted)
	require.Len(t, seen, n)
	sort.Ints(seen)
	for i, v := range seen {
		assert.Equal(t, i+1, v)
	}
}

func TestRunCancelledContextStopsDispatch(t *testing.T) {
	l, s, _ := setupLoader(t)
	coll := resolveCollection(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []Item{
		{Doc: sampleDoc("p1", "one"), Collection: coll, SourceFile: "corpus.xml"},
		{Doc: sampleDoc("p2", "two"), Collection: coll, SourceFile: "corpus.xml"},
	}
	summary := l.Run(ctx, items, 2, nil)

	assert.Equal(t, 0, summary.Attempted)
	count, err := s.CountDocuments(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
