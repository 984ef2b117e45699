package models

import (
	"fmt"
	"path/filepath"
)

// Fallback reasons recorded when a paper is not placed by classification.
// They are logged, not printed.
const (
	FallbackNone             = ""
	FallbackExtractionFailed = "extraction failed"
	FallbackNoText           = "no text"
	FallbackInvalidCategory  = "invalid category"
)

// Outcome is the result of adding one file to the index.
type Outcome struct {
	Source   string `json:"source"`
	Target   string `json:"target,omitempty"`
	Category string `json:"category,omitempty"`
	Fallback string `json:"fallback,omitempty"`
	Err      error  `json:"-"`
}

// PaperStatus renders a paper outcome as a single status line.
func (o Outcome) PaperStatus() string {
	if o.Err != nil {
		return fmt.Sprintf("Error: %v", o.Err)
	}
	return fmt.Sprintf("Added: %s -> %s", filepath.Base(o.Source), o.Category)
}

// ImageStatus renders an image outcome as a single status line.
func (o Outcome) ImageStatus() string {
	if o.Err != nil {
		return fmt.Sprintf("Error: %v", o.Err)
	}
	return fmt.Sprintf("Added image: %s", filepath.Base(o.Source))
}
