// Package contextbuilder trims a hierarchical retrieval result into the
// bounded context bundle handed to downstream document generation.
package contextbuilder

import "github.com/pbms01/rag-dialetico/model"

// Reranker reorders a chunk list before truncation. The default is the
// identity transform: chunks keep their index order.
type Reranker func(chunks []*model.Chunk) []*model.Chunk

// Builder assembles bounded per-level chunk sets from a retrieval result.
// Pure and deterministic; no I/O.
type Builder struct {
	limits model.ContextLimits
	rerank Reranker
}

// NewBuilder creates a builder with the given per-level bounds.
func NewBuilder(limits model.ContextLimits) *Builder {
	return &Builder{
		limits: limits,
		rerank: func(chunks []*model.Chunk) []*model.Chunk { return chunks },
	}
}

// SetReranker replaces the identity reranker.
func (b *Builder) SetReranker(rerank Reranker) {
	if rerank != nil {
		b.rerank = rerank
	}
}

// Build truncates each level list to its bound and extracts the
// case-type-specific chunks. Specific filtering runs on the untruncated
// level-2 list, then truncates; it is empty (never an error) when the
// classified type is unset or nothing matches.
func (b *Builder) Build(result *model.HierarchicalResult) *model.AssembledContext {
	var caseType model.CaseType
	if result.Classification != nil {
		caseType = result.Classification.CaseType
	}

	level2 := result.Level(2)

	return &model.AssembledContext{
		Level1:   Truncate(b.rerank(result.Level(1)), b.limits.Level1),
		Level2:   Truncate(b.rerank(level2), b.limits.Level2),
		Level3:   Truncate(b.rerank(result.Level(3)), b.limits.Level3),
		Specific: Truncate(FilterByCaseType(level2, caseType), b.limits.Specific),
	}
}

// Truncate returns the first limit chunks, fewer if the list is shorter.
func Truncate(chunks []*model.Chunk, limit int) []*model.Chunk {
	if limit < 0 {
		limit = 0
	}
	if len(chunks) <= limit {
		return chunks
	}
	return chunks[:limit]
}

// FilterByCaseType keeps chunks whose case-type tag exactly equals
// caseType, preserving order. An empty caseType matches nothing.
func FilterByCaseType(chunks []*model.Chunk, caseType model.CaseType) []*model.Chunk {
	if caseType == "" {
		return nil
	}

	var filtered []*model.Chunk
	for _, chunk := range chunks {
		if chunk.CaseType() == caseType {
			filtered = append(filtered, chunk)
		}
	}
	return filtered
}
