package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Content states
const (
	StateDraft     = "draft"
	StatePublished = "published"
)

// ContentSnapshot represents one immutable stored version of the content
// document for a given state. Rows are only ever inserted, never updated.
type ContentSnapshot struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"` // JSON-serialized Document
	State     string    `json:"state"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy *int64    `json:"created_by,omitempty"` // nil for system-seeded rows
}

// Document returns the snapshot's content parsed into a Document.
func (s *ContentSnapshot) Document() (Document, error) {
	var doc Document
	if err := json.Unmarshal([]byte(s.Content), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot content: %w", err)
	}
	return doc, nil
}

// VersionMeta is the metadata shown in the version history listing.
type VersionMeta struct {
	ID        int64     `json:"id"`
	Version   int       `json:"version"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by,omitempty"` // author email, empty for system rows
}

// Document is the tree-structured content document: a mapping from field
// names to strings, arrays, or nested Documents. Dotted-path access is an
// explicit recursive walk over pre-split segments, never reflection.
type Document map[string]any

// SplitPath splits a dotted field path into its segments.
func SplitPath(path string) []string {
	return strings.Split(path, ".")
}

// Get walks the document along the dotted path and returns the value at the
// leaf. The second return is false if any segment is missing or a non-map
// value is hit before the last segment.
func (d Document) Get(path string) (any, bool) {
	segments := SplitPath(path)
	current := d
	for i, seg := range segments {
		value, ok := current[seg]
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return value, true
		}
		next, ok := toDocument(value)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// Set walks the document along the dotted path and sets the leaf value,
// creating intermediate maps as needed. A non-map value on an intermediate
// segment is replaced by a map.
func (d Document) Set(path string, value any) {
	segments := SplitPath(path)
	current := d
	for _, seg := range segments[:len(segments)-1] {
		next, ok := toDocument(current[seg])
		if !ok {
			next = Document{}
			current[seg] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
}

// Clone returns a deep copy of the document. Scalar leaves are copied by
// value, arrays and nested maps recursively.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for key, value := range d {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case Document:
		return v.Clone()
	case map[string]any:
		return Document(v).Clone()
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = cloneValue(item)
		}
		return items
	default:
		return v
	}
}

// toDocument normalizes nested map values. JSON unmarshaling produces
// map[string]any, in-memory construction produces Document.
func toDocument(value any) (Document, bool) {
	switch v := value.(type) {
	case Document:
		return v, true
	case map[string]any:
		return Document(v), true
	default:
		return nil, false
	}
}

// DefaultContent returns the built-in default content document. It is the
// fallback for every read path and the seed for content version 1.
func DefaultContent() Document {
	return Document{
		"home": Document{
			"nav": Document{
				"servicesLabel": "Services",
				"processLabel":  "Process",
				"contactLabel":  "Contact",
			},
			"hero": Document{
				"eyebrowText":          "LINK AI AGENCY",
				"headline":             "INTELLIGENT AI SOLUTIONS",
				"subheadline":          "We build AI-powered systems that automate, engage, and scale your business.",
				"primaryButtonLabel":   "Services",
				"primaryButtonLink":    "#services",
				"secondaryButtonLabel": "Process",
				"secondaryButtonLink":  "#process",
				"backgroundImage":      nil,
			},
			"logos": Document{
				"items": []any{},
			},
		},
		"services": Document{
			"title":    "Our Services",
			"subtitle": "AI solutions tailored to your business needs",
		},
		"process": Document{
			"title":    "Our Process",
			"subtitle": "How we build your AI systems",
		},
		"contact": Document{
			"title":    "Get in Touch",
			"subtitle": "Ready to transform your business with AI?",
			"email":    "hello@linkai.agency",
		},
	}
}
