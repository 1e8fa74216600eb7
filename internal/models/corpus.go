package models

import "time"

// Collection represents the top-level grouping of documents from one input source
type Collection struct {
	CollectionID  uint64     `gorm:"primaryKey;autoIncrement"`
	Source        *string    `gorm:"size:255"`
	Date          *string    `gorm:"size:64"`
	CollectionKey string     `gorm:"uniqueIndex;size:255;not null"`
	CreatedAt     time.Time
	Documents     []Document `gorm:"foreignKey:CollectionID"`
}

// Document represents one ingested article, identified by its domain-level natural key
type Document struct {
	DocumentID   uint64    `gorm:"primaryKey;autoIncrement"`
	ArticleID    string    `gorm:"uniqueIndex:idx_documents_article_id;size:128;not null"`
	CollectionID uint64    `gorm:"not null;index"`
	CreatedAt    time.Time
	Passages     []Passage `gorm:"foreignKey:DocumentID"`
}

// Passage represents a titled/typed text segment within a document
type Passage struct {
	PassageID   uint64       `gorm:"primaryKey;autoIncrement"`
	DocumentID  uint64       `gorm:"not null;index"`
	Offset      int          `gorm:"not null;default:0"`
	Text        string       `gorm:"type:text"`
	SectionType *string      `gorm:"size:64"`
	Type        *string      `gorm:"size:64"`
	Infons      []Infon      `gorm:"foreignKey:PassageID"`
	Annotations []Annotation `gorm:"foreignKey:PassageID"`
}

// Infon represents a key/value metadata pair attached to a passage.
// Keys are not unique within a passage, repeats from the source are kept.
type Infon struct {
	InfonID   uint64 `gorm:"primaryKey;autoIncrement"`
	PassageID uint64 `gorm:"not null;index"`
	Key       string `gorm:"size:128;not null"`
	Value     string `gorm:"type:text"`
}

// Annotation represents an entity mention within a passage
type Annotation struct {
	AnnotationID uint64            `gorm:"primaryKey;autoIncrement"`
	PassageID    uint64            `gorm:"not null;index"`
	LocalID      string            `gorm:"size:64"`
	Identifier   *string           `gorm:"size:255"`
	Type         *string           `gorm:"size:64"`
	Offset       int               `gorm:"not null;default:0"`
	Length       int               `gorm:"not null;default:0"`
	Text         string            `gorm:"type:text"`
	Infons       []AnnotationInfon `gorm:"foreignKey:AnnotationID"`
}

// AnnotationInfon represents a key/value metadata pair attached to an annotation
type AnnotationInfon struct {
	AnnotationInfonID uint64 `gorm:"primaryKey;autoIncrement"`
	AnnotationID      uint64 `gorm:"not null;index"`
	Key               string `gorm:"size:128;not null"`
	Value             string `gorm:"type:text"`
}

// TableName overrides the table name for Collection
func (Collection) TableName() string {
	return "collections"
}

// TableName overrides the table name for Document
func (Document) TableName() string {
	return "documents"
}

// TableName overrides the table name for Passage
func (Passage) TableName() string {
	return "passages"
}

// TableName overrides the table name for Infon
func (Infon) TableName() string {
	return "infons"
}

// TableName overrides the table name for Annotation
func (Annotation) TableName() string {
	return "annotations"
}

// TableName overrides the table name for AnnotationInfon
func (AnnotationInfon) TableName() string {
	return "annotation_infons"
}
