package models

import (
	"encoding/json"
	"testing"
)

func TestDocumentGetSet(t *testing.T) {
	doc := Document{
		"contact": Document{
			"title": "Get in Touch",
		},
	}

	// Get existing leaf
	value, ok := doc.Get("contact.title")
	if !ok || value != "Get in Touch" {
		t.Errorf("Expected contact.title = 'Get in Touch', got %v (ok=%v)", value, ok)
	}

	// Get missing paths
	if _, ok := doc.Get("contact.missing"); ok {
		t.Error("Expected missing leaf to report not found")
	}
	if _, ok := doc.Get("nope.title"); ok {
		t.Error("Expected missing section to report not found")
	}
	if _, ok := doc.Get("contact.title.deeper"); ok {
		t.Error("Expected walk through a scalar to report not found")
	}

	// Set replaces a leaf
	doc.Set("contact.title", "Reach Out")
	value, _ = doc.Get("contact.title")
	if value != "Reach Out" {
		t.Errorf("Expected updated title, got %v", value)
	}

	// Set creates intermediate structure
	doc.Set("home.hero.headline", "Welcome")
	value, ok = doc.Get("home.hero.headline")
	if !ok || value != "Welcome" {
		t.Errorf("Expected created nested leaf, got %v (ok=%v)", value, ok)
	}
}

func TestDocumentGetSetAfterJSONRoundTrip(t *testing.T) {
	// Documents loaded from storage arrive as map[string]any; path walks must
	// handle both representations.
	data, err := json.Marshal(DefaultContent())
	if err != nil {
		t.Fatalf("Failed to marshal default content: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Failed to unmarshal document: %v", err)
	}

	value, ok := doc.Get("contact.title")
	if !ok || value != "Get in Touch" {
		t.Errorf("Expected contact.title from round-tripped document, got %v (ok=%v)", value, ok)
	}

	doc.Set("home.nav.servicesLabel", "Offerings")
	value, _ = doc.Get("home.nav.servicesLabel")
	if value != "Offerings" {
		t.Errorf("Expected updated label, got %v", value)
	}
}

func TestDocumentClone(t *testing.T) {
	original := Document{
		"contact": Document{"title": "Get in Touch"},
		"logos":   Document{"items": []any{"a", "b"}},
	}

	clone := original.Clone()
	clone.Set("contact.title", "Changed")
	items, _ := clone.Get("logos.items")
	items.([]any)[0] = "changed"

	value, _ := original.Get("contact.title")
	if value != "Get in Touch" {
		t.Error("Expected clone mutation not to touch the original map")
	}
	originalItems, _ := original.Get("logos.items")
	if originalItems.([]any)[0] != "a" {
		t.Error("Expected clone mutation not to touch the original array")
	}
}

func TestDefaultContentShape(t *testing.T) {
	doc := DefaultContent()

	for _, path := range []string{
		"home.nav.servicesLabel",
		"home.hero.headline",
		"services.title",
		"process.subtitle",
		"contact.email",
	} {
		if _, ok := doc.Get(path); !ok {
			t.Errorf("Expected default content to declare %s", path)
		}
	}

	email, _ := doc.Get("contact.email")
	if email != "hello@linkai.agency" {
		t.Errorf("Expected default contact email, got %v", email)
	}
}
