// Package content defines the data model for product copy generation:
// the raw product record fed into the pipeline, the generated content that
// comes out, and the validation/repair logic that guarantees every piece of
// content handed back to a caller satisfies the format invariants.
package content

import (
	"strings"
)

// Attribute is a single product attribute carried through from an input
// column. Attributes keep their original column order, which matters for
// deterministic prompt construction.
type Attribute struct {
	Key   string
	Value string
}

// ProductRecord is one raw product as submitted by a caller or decoded from
// an input row. At least one of Name or ImageData must be set. Records are
// immutable after construction and consumed once by the generator.
type ProductRecord struct {
	Name       string
	ImageData  []byte
	Attributes []Attribute
}

// Validate checks the record against input invariants. It never mutates the
// record.
func (r ProductRecord) Validate() ValidationOutcome {
	var out ValidationOutcome

	if r.Name == "" && len(r.ImageData) == 0 {
		out.Errors = append(out.Errors, "either product name or image data must be provided")
	}

	if r.Name != "" {
		if strings.TrimSpace(r.Name) == "" {
			out.Errors = append(out.Errors, "product name cannot be blank")
		} else if len([]rune(r.Name)) > 200 {
			out.Warnings = append(out.Warnings, "product name is very long (>200 characters)")
		}
	}

	for _, attr := range r.Attributes {
		if attr.Key == "" {
			out.Errors = append(out.Errors, "attribute keys cannot be empty")
			break
		}
	}

	out.Valid = len(out.Errors) == 0
	return out
}

// GeneratedContent is the structured marketing copy produced for one product.
// It is created by the response parser, possibly passed once through Repair,
// and treated as immutable afterwards.
type GeneratedContent struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Hashtags    []string `json:"hashtags"`
}

// WordCount returns the whitespace-split word count of the description.
func (c GeneratedContent) WordCount() int {
	return len(strings.Fields(c.Description))
}

// ValidationOutcome is the result of any validation pass. Errors make the
// subject invalid; warnings are advisory only. Outcomes are pure values.
type ValidationOutcome struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Status is the per-row processing status recorded in batch output.
type Status string

const (
	StatusPending    Status = "pending"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
	StatusChunkError Status = "chunk_error"
)

// InputError reports a product record that failed input validation. Rows
// failing this way are never retried.
type InputError struct {
	Errors []string
}

func (e *InputError) Error() string {
	return "invalid product record: " + strings.Join(e.Errors, ", ")
}
