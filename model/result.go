package model

// ClassificationResult represents the inferred case category for a query.
// CaseType is empty when classification found no candidates. ScoreByType
// is the full score distribution, kept for diagnostics and not normalized
// to sum to 1.
type ClassificationResult struct {
	CaseType    CaseType             `json:"case_type,omitempty"`
	Confidence  float64              `json:"confidence"`
	ScoreByType map[CaseType]float64 `json:"score_by_type"`
}

// HierarchicalResult aggregates one retrieval transaction.
// Constructed fresh per query, held only through context assembly.
type HierarchicalResult struct {
	Classification *ClassificationResult `json:"classification"`
	ChunksByLevel  map[int][]*Chunk      `json:"chunks_by_level"`
	TotalChunks    int                   `json:"total_chunks"`
	// QueryEmbedding is retained for reuse and debugging by callers;
	// nothing in the core reads it back.
	QueryEmbedding []float32 `json:"query_embedding,omitempty"`
}

// Level returns the chunk list for the given hierarchy level.
func (r *HierarchicalResult) Level(level int) []*Chunk {
	return r.ChunksByLevel[level]
}

// AssembledContext is the trimmed, downstream-facing context bundle.
// Specific holds level-2 chunks whose case-type tag equals the classified
// type, selected from the untruncated level-2 list.
type AssembledContext struct {
	Level1   []*Chunk `json:"level_1"`
	Level2   []*Chunk `json:"level_2"`
	Level3   []*Chunk `json:"level_3"`
	Specific []*Chunk `json:"specific"`
}

// Stats represents chunk counts of the backing store.
type Stats struct {
	TotalChunks int              `json:"total_chunks"`
	ByLevel     map[int]int      `json:"by_level"`
	ByCaseType  map[CaseType]int `json:"by_case_type"`
}
