package bioc

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

// xml decoding targets for the BioC format
type xmlCollection struct {
	XMLName   xml.Name      `xml:"collection"`
	Source    string        `xml:"source"`
	Date      string        `xml:"date"`
	Key       string        `xml:"key"`
	Documents []xmlDocument `xml:"document"`
}

type xmlDocument struct {
	ID       string       `xml:"id"`
	Passages []xmlPassage `xml:"passage"`
}

type xmlPassage struct {
	Infons      []xmlInfon      `xml:"infon"`
	Offset      string          `xml:"offset"`
	Text        string          `xml:"text"`
	Annotations []xmlAnnotation `xml:"annotation"`
}

type xmlInfon struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

type xmlAnnotation struct {
	ID        string        `xml:"id,attr"`
	Infons    []xmlInfon    `xml:"infon"`
	Locations []xmlLocation `xml:"location"`
	Text      string        `xml:"text"`
}

type xmlLocation struct {
	Offset string `xml:"offset,attr"`
	Length string `xml:"length,attr"`
}

// ParseFile reads one BioC XML file and returns its collection node.
func ParseFile(path string) (Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes BioC XML into the loose collection tree.
func Parse(data []byte) (Node, error) {
	var coll xmlCollection
	if err := xml.Unmarshal(data, &coll); err != nil {
		return nil, fmt.Errorf("parsing BioC collection: %w", err)
	}
	return coll.loose(), nil
}

func (c xmlCollection) loose() Node {
	n := Node{}
	setStr(n, "source", c.Source)
	setStr(n, "date", c.Date)
	setStr(n, "key", c.Key)
	docs := make([]any, 0, len(c.Documents))
	for _, d := range c.Documents {
		docs = append(docs, d.loose())
	}
	setSeq(n, "document", docs)
	return n
}

func (d xmlDocument) loose() any {
	n := Node{}
	setStr(n, "id", strings.TrimSpace(d.ID))
	passages := make([]any, 0, len(d.Passages))
	for _, p := range d.Passages {
		passages = append(passages, p.loose())
	}
	setSeq(n, "passage", passages)
	return n
}

func (p xmlPassage) loose() any {
	n := Node{}
	setStr(n, "offset", strings.TrimSpace(p.Offset))
	setStr(n, "text", p.Text)
	setSeq(n, "infon", looseInfons(p.Infons))
	annotations := make([]any, 0, len(p.Annotations))
	for _, a := range p.Annotations {
		annotations = append(annotations, a.loose())
	}
	setSeq(n, "annotation", annotations)
	return n
}

func (a xmlAnnotation) loose() any {
	n := Node{}
	setStr(n, "id", a.ID)
	setStr(n, "text", a.Text)
	setSeq(n, "infon", looseInfons(a.Infons))
	locations := make([]any, 0, len(a.Locations))
	for _, l := range a.Locations {
		loc := Node{}
		setStr(loc, "offset", l.Offset)
		setStr(loc, "length", l.Length)
		locations = append(locations, loc)
	}
	setSeq(n, "location", locations)
	return n
}

func looseInfons(infons []xmlInfon) []any {
	out := make([]any, 0, len(infons))
	for _, i := range infons {
		infon := Node{}
		setStr(infon, "key", i.Key)
		setStr(infon, "value", strings.TrimSpace(i.Value))
		out = append(out, infon)
	}
	return out
}

func setStr(n Node, key, value string) {
	if value != "" {
		n[key] = value
	}
}

// setSeq stores a child sequence preserving the one-or-many shape of the
// source: absent when empty, a bare node for a single child, a slice for
// repeats.
func setSeq(n Node, key string, items []any) {
	switch len(items) {
	case 0:
	case 1:
		n[key] = items[0]
	default:
		n[key] = items
	}
}
