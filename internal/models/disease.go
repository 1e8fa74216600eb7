package models

import "time"

// DiseaseTerm represents one entry of the auxiliary disease vocabulary.
// The (mesh_id, text) pair is unique so duplicate source rows are skipped
// at the store level.
type DiseaseTerm struct {
	DiseaseTermID uint64 `gorm:"primaryKey;autoIncrement"`
	MeshID        string `gorm:"uniqueIndex:idx_disease_terms_mesh_text;size:64;not null"`
	Text          string `gorm:"uniqueIndex:idx_disease_terms_mesh_text;size:255;not null"`
	CreatedAt     time.Time
}

// TableName overrides the table name for DiseaseTerm
func (DiseaseTerm) TableName() string {
	return "disease_terms"
}
