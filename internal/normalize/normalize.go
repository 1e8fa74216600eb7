// Package normalize converts loose BioC document trees into fully-typed
// relational record trees and decides document inclusion. Everything in
// this package is purely functional: no I/O, deterministic for a given
// input tree.
package normalize

import (
	"github.com/bioctools/corpusload/internal/bioc"
	"github.com/bioctools/corpusload/internal/models"
)

// Document converts one loose document node into a typed Document record
// tree. Missing optional fields are filled with their defaults (0 for
// offsets and lengths, empty string for text, nil for classification
// columns); the conversion never fails. A missing document id leaves
// ArticleID empty, which the upsert engine rejects per document.
func Document(doc bioc.Node) *models.Document {
	out := &models.Document{
		ArticleID: bioc.Str(doc, "id"),
	}
	for _, node := range bioc.List(doc, "passage") {
		out.Passages = append(out.Passages, passage(node))
	}
	return out
}

func passage(node bioc.Node) models.Passage {
	p := models.Passage{
		Offset: bioc.Int(node, "offset"),
		Text:   bioc.Str(node, "text"),
	}
	for _, infon := range bioc.List(node, "infon") {
		key := bioc.Str(infon, "key")
		value := bioc.Str(infon, "value")
		p.Infons = append(p.Infons, models.Infon{Key: key, Value: value})
		// Unconditional overwrite: when a key repeats, the last occurrence wins.
		switch key {
		case "section_type":
			p.SectionType = ptr(value)
		case "type":
			p.Type = ptr(value)
		}
	}
	for _, annot := range bioc.List(node, "annotation") {
		p.Annotations = append(p.Annotations, annotation(annot))
	}
	return p
}

func annotation(node bioc.Node) models.Annotation {
	a := models.Annotation{
		LocalID: bioc.Str(node, "id"),
		Text:    bioc.Str(node, "text"),
	}
	for _, infon := range bioc.List(node, "infon") {
		key := bioc.Str(infon, "key")
		value := bioc.Str(infon, "value")
		a.Infons = append(a.Infons, models.AnnotationInfon{Key: key, Value: value})
		// Last occurrence wins here as well.
		switch key {
		case "identifier":
			a.Identifier = ptr(value)
		case "type":
			a.Type = ptr(value)
		}
	}
	// The span comes from the first location element; no location means 0/0.
	if loc := bioc.Child(node, "location"); loc != nil {
		a.Offset = bioc.Int(loc, "offset")
		a.Length = bioc.Int(loc, "length")
	}
	return a
}

func ptr(s string) *string {
	return &s
}
