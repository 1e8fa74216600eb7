package normalize

import (
	"strings"

	"github.com/bioctools/corpusload/internal/models"
)

// CategorySet holds the required annotation categories for document
// inclusion. An empty set means pass-through: every document is included.
type CategorySet map[string]struct{}

// NewCategorySet builds a set from raw category values, dropping empties.
func NewCategorySet(values []string) CategorySet {
	set := make(CategorySet)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// Accept reports whether a normalized document should be ingested. The
// decision is all-or-nothing at the document level: one annotation whose
// type or identifier metadata matches any required category admits the
// whole document unfiltered. Matching is case-sensitive exact equality.
func (s CategorySet) Accept(doc *models.Document) bool {
	if len(s) == 0 {
		return true
	}
	for pi := range doc.Passages {
		for ai := range doc.Passages[pi].Annotations {
			for _, infon := range doc.Passages[pi].Annotations[ai].Infons {
				if infon.Key != "type" && infon.Key != "identifier" {
					continue
				}
				if _, ok := s[infon.Value]; ok {
					return true
				}
			}
		}
	}
	return false
}
