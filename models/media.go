package models

import (
	"encoding/json"
	"time"
)

// Media represents an uploaded file's metadata. The binary itself lives on
// disk; this layer treats it as opaque.
type Media struct {
	ID              int64     `json:"id"`
	Filename        string    `json:"filename"`
	OriginalName    string    `json:"original_name,omitempty"`
	AltText         string    `json:"alt_text"`
	MimeType        string    `json:"mime_type,omitempty"`
	Size            int64     `json:"size"`
	Usage           string    `json:"usage"` // JSON array of content paths referencing this file
	UploadedAt      time.Time `json:"uploaded_at"`
	UploadedBy      *int64    `json:"uploaded_by,omitempty"`
	UploadedByEmail string    `json:"uploaded_by_email,omitempty"`
}

// UsageList parses the usage column. An empty or malformed column counts as
// unused.
func (m *Media) UsageList() []string {
	if m.Usage == "" {
		return nil
	}
	var usage []string
	if err := json.Unmarshal([]byte(m.Usage), &usage); err != nil {
		return nil
	}
	return usage
}

// InUse reports whether any content path still references this file.
func (m *Media) InUse() bool {
	return len(m.UsageList()) > 0
}
