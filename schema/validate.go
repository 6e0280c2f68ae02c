package schema

import (
	"fmt"
	"strings"
)

// FieldError reports the first validation failure for a patch. Validation
// short-circuits on the first invalid field; the whole patch is rejected.
type FieldError struct {
	Path    string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate checks one path/value pair against the schema and returns the
// sanitized value to store. It returns a *FieldError for unknown paths and
// constraint violations. The input value is never mutated.
func (g Group) Validate(path string, value any) (any, error) {
	field, ok := g.Lookup(path)
	if !ok {
		return nil, &FieldError{Path: path, Message: "unknown field"}
	}

	switch field.Type {
	case TypeText:
		text, ok := value.(string)
		if !ok {
			return nil, &FieldError{Path: path, Message: "must be a string"}
		}
		if field.MaxLength > 0 && len([]rune(text)) > field.MaxLength {
			return nil, &FieldError{Path: path, Message: fmt.Sprintf("exceeds max length of %d", field.MaxLength)}
		}
		return Sanitize(text), nil

	case TypeEmail:
		email, ok := value.(string)
		if !ok {
			return nil, &FieldError{Path: path, Message: "must be a string"}
		}
		if field.MaxLength > 0 && len(email) > field.MaxLength {
			return nil, &FieldError{Path: path, Message: fmt.Sprintf("exceeds max length of %d", field.MaxLength)}
		}
		if !IsValidEmail(email) {
			return nil, &FieldError{Path: path, Message: "is not a valid email"}
		}
		return email, nil

	case TypeArray:
		items, ok := value.([]any)
		if !ok {
			return nil, &FieldError{Path: path, Message: "must be an array"}
		}
		if field.MaxItems > 0 && len(items) > field.MaxItems {
			return nil, &FieldError{Path: path, Message: fmt.Sprintf("exceeds max items of %d", field.MaxItems)}
		}
		return items, nil

	case TypeImage:
		// Opaque reference; binary validation belongs to the media layer.
		switch value.(type) {
		case string, nil:
			return value, nil
		default:
			return nil, &FieldError{Path: path, Message: "must be an image reference"}
		}

	default:
		return nil, &FieldError{Path: path, Message: "unsupported field type"}
	}
}

// escaper escapes markup-significant characters so stored values render
// verbatim when injected into a page.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"`", "&#96;",
	`\`, "&#x5C;",
	"/", "&#x2F;",
)

// Sanitize strips ASCII control characters (including DEL) and escapes
// markup-significant characters. Returns a new string; the input is unchanged.
func Sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	return escaper.Replace(b.String())
}

// IsValidEmail performs basic email validation: exactly one @, not at either
// end, with a dot somewhere after it that is not the final character.
func IsValidEmail(email string) bool {
	atIndex := -1
	for i, char := range email {
		if char == '@' {
			if atIndex != -1 {
				return false
			}
			atIndex = i
		}
	}

	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	for i := atIndex + 1; i < len(email); i++ {
		if email[i] == '.' && i < len(email)-1 {
			return true
		}
	}

	return false
}
