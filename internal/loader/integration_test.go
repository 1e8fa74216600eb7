//go:build integration

package loader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bioctools/corpusload/internal/config"
	"github.com/bioctools/corpusload/internal/database"
	"github.com/bioctools/corpusload/internal/devdb"
	"github.com/bioctools/corpusload/internal/store"
)

// Full round trip against a real MariaDB: schema from the embedded DDL,
// two ingestions of the same article, exactly one document remains.
func TestLoaderAgainstMariaDB(t *testing.T) {
	ctx := context.Background()

	container, err := devdb.StartMariaDB(ctx)
	if err != nil {
		t.Skipf("cannot start database container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	cfg := &config.Config{
		DBType:            "mariadb",
		DBHost:            container.Host,
		DBPort:            container.Port,
		DBDatabase:        container.Database,
		DBUser:            container.User,
		DBPassword:        container.Password,
		DBConnectionLimit: 5,
	}
	db, err := database.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close(db)
	})

	s := store.New(db, zap.NewNop())
	l := New(s, zap.NewNop())

	coll, err := s.ResolveCollection(ctx, "integration.xml", nil, nil)
	require.NoError(t, err)

	replaced, err := l.Upsert(ctx, sampleDoc("it-1", "first version"), coll)
	require.NoError(t, err)
	assert.False(t, replaced)

	replaced, err = l.Upsert(ctx, sampleDoc("it-1", "second version"), coll)
	require.NoError(t, err)
	assert.True(t, replaced)

	count, err := s.CountDocuments(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
