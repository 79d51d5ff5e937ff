package model

import (
	"time"

	"github.com/google/uuid"
)

// Metadata keys used by the pre-populated index. The ingestion pipeline
// tags every chunk with its hierarchy level, litigation type, document
// type and section label.
const (
	MetaKeyLevel    = "nivel"
	MetaKeyCaseType = "tipo_lit"
	MetaKeyDocType  = "tipo_doc"
	MetaKeySection  = "secao"
)

// Document type tags distinguishing plaintiff filings from defense answers.
const (
	DocTypePleading = "inicial"
	DocTypeAnswer   = "contestacao"
)

// Chunk represents one retrievable unit of prior defense material.
// Instances are produced by retrieval calls and never mutated afterwards.
type Chunk struct {
	ID        int       `json:"id"`
	RID       uuid.UUID `json:"rid"`
	Content   string    `json:"content"`
	Level     int       `json:"level"`
	Metadata  Metadata  `json:"metadata,omitempty"`
	Embedding []float32 `json:"embedding,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	// Results
	Distance   float64 `json:"distance,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`
}

// CaseType returns the litigation type tag of the chunk,
// CaseTypeUnknown if the tag is absent or empty.
func (c *Chunk) CaseType() CaseType {
	if v, ok := c.Metadata[MetaKeyCaseType].(string); ok && v != "" {
		return CaseType(v)
	}
	return CaseTypeUnknown
}

// DocType returns the document type tag of the chunk, empty if untagged.
func (c *Chunk) DocType() string {
	if v, ok := c.Metadata[MetaKeyDocType].(string); ok {
		return v
	}
	return ""
}

// Section returns the section label of the chunk, empty if untagged.
func (c *Chunk) Section() string {
	if v, ok := c.Metadata[MetaKeySection].(string); ok {
		return v
	}
	return ""
}
