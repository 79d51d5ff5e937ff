package model

// DistanceMetric identifies the distance function the vector index was
// built with.
type DistanceMetric string

const (
	DistanceMetricCosine DistanceMetric = "cosine"
)

// LevelConfig represents the retrieval policy for one hierarchy level.
type LevelConfig struct {
	TopK          int     `json:"top_k"`
	MinSimilarity float64 `json:"min_similarity"`
	// Weight is advisory configuration for a cross-level ranking step.
	// No scoring formula consults it today.
	Weight float64 `json:"weight"`
}

// ContextLimits bounds the per-level chunk lists of an assembled context.
type ContextLimits struct {
	Level1   int `json:"level_1"`
	Level2   int `json:"level_2"`
	Level3   int `json:"level_3"`
	Specific int `json:"specific"`
}

// RetrievalConfig represents configuration for hierarchical retrieval.
// Loaded once, never mutated during operation.
type RetrievalConfig struct {
	Levels map[int]LevelConfig `json:"levels"`

	// Classification parameters
	MinConfidenceClassification float64 `json:"min_confidence_classification"`

	// Index parameters
	DistanceMetric DistanceMetric `json:"distance_metric"`

	// Level 2 is constrained to answer-style documents so retrieved
	// context mirrors defense sections rather than plaintiff filings.
	AnswerDocType string `json:"answer_doc_type"`

	// Context assembly bounds
	Limits ContextLimits `json:"limits"`
}

// DefaultRetrievalConfig returns the retrieval policy the index was
// calibrated with.
func DefaultRetrievalConfig() *RetrievalConfig {
	return &RetrievalConfig{
		Levels: map[int]LevelConfig{
			1: {TopK: 10, MinSimilarity: 0.70, Weight: 0.4},
			2: {TopK: 20, MinSimilarity: 0.65, Weight: 0.35},
			3: {TopK: 15, MinSimilarity: 0.60, Weight: 0.25},
		},
		MinConfidenceClassification: 0.70,
		DistanceMetric:              DistanceMetricCosine,
		AnswerDocType:               DocTypeAnswer,
		Limits: ContextLimits{
			Level1:   5,
			Level2:   10,
			Level3:   8,
			Specific: 5,
		},
	}
}

// Level returns the configuration for the given hierarchy level.
func (c *RetrievalConfig) Level(level int) (LevelConfig, bool) {
	levelConfig, ok := c.Levels[level]
	return levelConfig, ok
}
