// Package semdiff computes block-level alignments between two versions of a
// ProseMirror document, word-level diffs for modified blocks, and merges a
// selected subset of the resulting segments back onto a base document.
package semdiff

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Document is the root of a ProseMirror document tree.
type Document struct {
	Type    string `json:"type"`
	Content []Node `json:"content,omitempty"`
}

// Node represents a node in the ProseMirror document tree
type Node struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []Node         `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
}

// Mark represents a text mark (formatting)
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// ParseDocument decodes ProseMirror JSON. A missing content array is an
// empty document, not an error.
func ParseDocument(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}
	if doc.Type == "" {
		doc.Type = "doc"
	}
	return doc, nil
}

// Kind is the block classification used for fingerprinting.
type Kind int

const (
	KindParagraph Kind = iota
	KindHeading
	KindBulletList
	KindOrderedList
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindHeading:
		return "heading"
	case KindBulletList:
		return "bullet_list"
	case KindOrderedList:
		return "ordered_list"
	default:
		return "other"
	}
}

// KindOf maps a raw ProseMirror node type onto a Kind. Nodes without a type
// are treated as paragraphs.
func KindOf(rawType string) Kind {
	switch rawType {
	case "", "paragraph":
		return KindParagraph
	case "heading":
		return KindHeading
	case "bulletList", "bullet_list":
		return KindBulletList
	case "orderedList", "ordered_list":
		return KindOrderedList
	default:
		return KindOther
	}
}

// Kind returns the block kind of the node.
func (n Node) Kind() Kind {
	return KindOf(n.Type)
}

// SegmentKind is the collapsed kind exposed on segments.
type SegmentKind string

const (
	SegmentParagraph SegmentKind = "paragraph"
	SegmentHeading   SegmentKind = "heading"
	SegmentList      SegmentKind = "list"
)

func segmentKindOf(k Kind) SegmentKind {
	switch k {
	case KindHeading:
		return SegmentHeading
	case KindBulletList, KindOrderedList:
		return SegmentList
	default:
		return SegmentParagraph
	}
}

// Flatten concatenates the text leaves under n depth-first, joining the
// children of container nodes with a single space.
func Flatten(n Node) string {
	if len(n.Content) == 0 {
		return n.Text
	}
	parts := make([]string, len(n.Content))
	for i, child := range n.Content {
		parts[i] = Flatten(child)
	}
	return strings.Join(parts, " ")
}

// FlattenDocument joins the flattened top-level blocks with newlines.
func FlattenDocument(doc Document) string {
	parts := make([]string, len(doc.Content))
	for i, block := range doc.Content {
		parts[i] = Flatten(block)
	}
	return strings.Join(parts, "\n")
}

const fingerprintPrefix = 50

// Fingerprint is a cheap equality pre-filter for blocks. Two blocks with the
// same kind, the same first 50 characters and the same length are treated
// as identical.
type Fingerprint struct {
	Kind   Kind
	Prefix string
	Length int
}

// FingerprintOf derives the fingerprint of a block.
func FingerprintOf(n Node) Fingerprint {
	return fingerprint(n.Kind(), Flatten(n))
}

func fingerprint(kind Kind, text string) Fingerprint {
	return Fingerprint{
		Kind:   kind,
		Prefix: firstRunes(text, fingerprintPrefix),
		Length: utf8.RuneCountInString(text),
	}
}

func firstRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	out := Node{
		Type:  n.Type,
		Text:  n.Text,
		Attrs: cloneAttrs(n.Attrs),
	}
	if n.Content != nil {
		out.Content = cloneNodes(n.Content)
	}
	if n.Marks != nil {
		out.Marks = make([]Mark, len(n.Marks))
		for i, mark := range n.Marks {
			out.Marks[i] = Mark{Type: mark.Type, Attrs: cloneAttrs(mark.Attrs)}
		}
	}
	return out
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, node := range nodes {
		out[i] = node.Clone()
	}
	return out
}

func cloneAttrs(attrs map[string]any) map[string]any {
	if attrs == nil {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for key, value := range attrs {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneAttrs(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
