// diseases.go
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

// Package diseases ingests the flat tab-delimited disease vocabulary
// reference dataset.
package diseases

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/bioctools/corpusload/internal/models"
	"github.com/bioctools/corpusload/internal/store"
)

// DefaultBatchSize is the number of records per insert batch.
const DefaultBatchSize = 500

// Record is one parsed vocabulary entry.
type Record struct {
	MeshID string
	Text   string
}

// Summary aggregates the outcome of one vocabulary load.
type Summary struct {
	Lines      int
	Valid      int
	Invalid    int
	Inserted   int
	Duplicates int
}

// ParseLine parses one tab-delimited vocabulary line. A valid line has at
// least 4 columns; column 3 is the vocabulary identifier with an optional
// "PREFIX:" stripped, column 4 the display text. The second return value
// is false for malformed lines (too few columns, empty id or text).
func ParseLine(line string) (Record, bool) {
	fields := strings.Split(line, "\t")
	if len(fields) < 4 {
		return Record{}, false
	}
	id := strings.TrimSpace(fields[2])
	if _, rest, found := strings.Cut(id, ":"); found {
		id = rest
	}
	text := strings.TrimSpace(fields[3])
	if id == "" || text == "" {
		return Record{}, false
	}
	return Record{MeshID: id, Text: text}, true
}

// Loader ingests vocabulary files in fixed-size batches.
type Loader struct {
	store     *store.Store
	log       *zap.Logger
	batchSize int
}

// New creates a vocabulary Loader. batchSize <= 0 selects the default.
func New(s *store.Store, log *zap.Logger, batchSize int) *Loader {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Loader{store: s, log: log, batchSize: batchSize}
}

// LoadFile ingests one vocabulary file. Malformed lines are counted and
// skipped, not logged individually; duplicate (id, text) pairs are
// skipped at the store level. A store failure aborts the load.
func (l *Loader) LoadFile(ctx context.Context, path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("opening vocabulary file: %w", err)
	}
	defer f.Close()

	var summary Summary
	batch := make([]models.DiseaseTerm, 0, l.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		inserted, err := l.store.CreateDiseaseTerms(ctx, batch)
		if err != nil {
			return err
		}
		summary.Inserted += int(inserted)
		batch = batch[:0]
		return nil
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		summary.Lines++
		record, ok := ParseLine(scanner.Text())
		if !ok {
			summary.Invalid++
			continue
		}
		summary.Valid++
		batch = append(batch, models.DiseaseTerm{MeshID: record.MeshID, Text: record.Text})
		if len(batch) == l.batchSize {
			if err := flush(); err != nil {
				return summary, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("reading vocabulary file: %w", err)
	}
	if err := flush(); err != nil {
		return summary, err
	}

	summary.Duplicates = summary.Valid - summary.Inserted
	l.log.Info("vocabulary load complete",
		zap.String("file", path),
		zap.Int("lines", summary.Lines),
		zap.Int("valid", summary.Valid),
		zap.Int("invalid", summary.Invalid),
		zap.Int("inserted", summary.Inserted),
		zap.Int("duplicates", summary.Duplicates))
	return summary, nil
}
