package diseases

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bioctools/corpusload/internal/models"
	"github.com/bioctools/corpusload/internal/store"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.DiseaseTerm{}))
	return store.New(db, zap.NewNop())
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Record
		ok   bool
	}{
		{
			name: "valid with prefix",
			line: "1\tname\tMESH:D001\tSome disease",
			want: Record{MeshID: "D001", Text: "Some disease"},
			ok:   true,
		},
		{
			name: "valid without prefix",
			line: "1\tname\tD001\tSome disease",
			want: Record{MeshID: "D001", Text: "Some disease"},
			ok:   true,
		},
		{
			name: "extra columns ignored",
			line: "1\tname\tMESH:D002\tOther disease\textra",
			want: Record{MeshID: "D002", Text: "Other disease"},
			ok:   true,
		},
		{
			name: "three columns",
			line: "1\tname\tD001",
			ok:   false,
		},
		{
			name: "empty id after prefix",
			line: "1\tname\tMESH:\tSome disease",
			ok:   false,
		},
		{
			name: "empty text",
			line: "1\tname\tD001\t  ",
			ok:   false,
		},
		{
			name: "blank line",
			line: "",
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	s := setupStore(t)

	content := "1\talpha\tMESH:D001\tDisease one\n" +
		"2\tbeta\tMESH:D002\tDisease two\n" +
		"3\tgamma\tD003\tDisease three\n" +
		"4\tdelta\tMESH:D001\tDisease one\n" + // duplicate (id, text)
		"5\tepsilon\tMESH:D004\tDisease four\n" +
		"bad line\n" +
		"6\tzeta\tMESH:\tmissing id\n"

	path := filepath.Join(t.TempDir(), "vocab.tsv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// Batch size 2 forces multiple flushes.
	summary, err := New(s, zap.NewNop(), 2).LoadFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 7, summary.Lines)
	assert.Equal(t, 5, summary.Valid)
	assert.Equal(t, 2, summary.Invalid)
	assert.Equal(t, 4, summary.Inserted)
	assert.Equal(t, 1, summary.Duplicates)

	count, err := s.CountDiseaseTerms(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)
}

func TestLoadFileMissing(t *testing.T) {
	s := setupStore(t)
	_, err := New(s, zap.NewNop(), 0).LoadFile(context.Background(), filepath.Join(t.TempDir(), "absent.tsv"))
	assert.Error(t, err)
}
