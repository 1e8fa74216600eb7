// disease.go
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
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bioctools/corpusload/internal/models"
)

// CreateDiseaseTerms inserts a batch of vocabulary records, skipping
// (mesh_id, text) pairs already present. Returns the number of rows
// actually inserted.
func (s *Store) CreateDiseaseTerms(ctx context.Context, terms []models.DiseaseTerm) (int64, error) {
	if len(terms) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&terms)
	if result.Error != nil {
		return 0, fmt.Errorf("creating %d disease terms: %w", len(terms), result.Error)
	}
	return result.RowsAffected, nil
}

// CountDiseaseTerms reports the number of stored vocabulary records.
func (s *Store) CountDiseaseTerms(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.DiseaseTerm{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting disease terms: %w", err)
	}
	return count, nil
}

// DeleteAllDiseaseTerms clears the vocabulary table.
func (s *Store) DeleteAllDiseaseTerms(ctx context.Context) error {
	err := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.DiseaseTerm{}).Error
	if err != nil {
		return fmt.Errorf("deleting disease terms: %w", err)
	}
	return nil
}
