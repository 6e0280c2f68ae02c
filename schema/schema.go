// Package schema declares which content fields are editable and validates
// incoming partial updates against those declarations. It is a pure gate:
// validation never writes anything and never mutates its input.
package schema

import (
	"github.com/linkai-agency/cms/models"
)

// Field types
const (
	TypeText  = "text"
	TypeEmail = "email"
	TypeArray = "array"
	TypeImage = "image"
)

// Field declares the constraints for one editable leaf path.
type Field struct {
	Type      string
	MaxLength int // text/email: max value length in characters, 0 = unlimited
	MaxItems  int // array: max number of items, 0 = unlimited
}

// Group is an interior node of the schema tree. Values are either Field
// (leaf) or Group (nested section), mirroring the content document's shape
// so path lookup is a structural walk.
type Group map[string]any

// Lookup walks the schema tree along a dotted path and returns the declared
// field. The second return is false for unknown paths and for paths that
// stop on a group node.
func (g Group) Lookup(path string) (Field, bool) {
	segments := models.SplitPath(path)
	current := g
	for i, seg := range segments {
		node, ok := current[seg]
		if !ok {
			return Field{}, false
		}
		if i == len(segments)-1 {
			field, ok := node.(Field)
			return field, ok
		}
		next, ok := node.(Group)
		if !ok {
			return Field{}, false
		}
		current = next
	}
	return Field{}, false
}

// Content is the schema for the site content document: every dotted path an
// editor may target, with its type and limits.
var Content = Group{
	"home": Group{
		"nav": Group{
			"servicesLabel": Field{Type: TypeText, MaxLength: 20},
			"processLabel":  Field{Type: TypeText, MaxLength: 20},
			"contactLabel":  Field{Type: TypeText, MaxLength: 20},
		},
		"hero": Group{
			"eyebrowText":          Field{Type: TypeText, MaxLength: 50},
			"headline":             Field{Type: TypeText, MaxLength: 100},
			"subheadline":          Field{Type: TypeText, MaxLength: 200},
			"primaryButtonLabel":   Field{Type: TypeText, MaxLength: 20},
			"primaryButtonLink":    Field{Type: TypeText, MaxLength: 100},
			"secondaryButtonLabel": Field{Type: TypeText, MaxLength: 20},
			"secondaryButtonLink":  Field{Type: TypeText, MaxLength: 100},
			"backgroundImage":      Field{Type: TypeImage},
		},
		"logos": Group{
			"items": Field{Type: TypeArray, MaxItems: 10},
		},
	},
	"services": Group{
		"title":    Field{Type: TypeText, MaxLength: 50},
		"subtitle": Field{Type: TypeText, MaxLength: 200},
	},
	"process": Group{
		"title":    Field{Type: TypeText, MaxLength: 50},
		"subtitle": Field{Type: TypeText, MaxLength: 200},
	},
	"contact": Group{
		"title":    Field{Type: TypeText, MaxLength: 50},
		"subtitle": Field{Type: TypeText, MaxLength: 200},
		"email":    Field{Type: TypeEmail, MaxLength: 100},
	},
}
