package retrieval

import (
	"context"
	"sort"

	"github.com/pbms01/rag-dialetico/helper"
	"github.com/pbms01/rag-dialetico/model"
)

// classifierWidth is the fixed exploration width for case-type inference.
const classifierWidth = 10

// Score blending: half candidate frequency, half average similarity.
const (
	frequencyWeight  = 0.5
	similarityWeight = 0.5
)

// Classifier infers the most likely case category for a query embedding
// from the level-1 neighborhood of the index.
type Classifier struct {
	engine *Engine
}

// NewClassifier creates a new case-type classifier
func NewClassifier(engine *Engine) *Classifier {
	return &Classifier{engine: engine}
}

// Classify runs an unfiltered (case-type-ignoring) level-1 query and
// scores each observed case type by
// score(T) = 0.5*freq(T) + 0.5*avgSim(T).
// No similarity floor is applied to the candidates. With zero candidates
// the result is an empty type with confidence 0. ScoreByType carries the
// full distribution verbatim.
func (c *Classifier) Classify(ctx context.Context, embedding []float32) (*model.ClassificationResult, error) {
	filter := model.Clause{Field: model.MetaKeyLevel, Value: 1}

	candidates, err := c.engine.searchWithFloor(ctx, embedding, filter, classifierWidth, 0, 1)
	if err != nil {
		return nil, helper.NewError("classification search", err)
	}

	if len(candidates) == 0 {
		return &model.ClassificationResult{
			Confidence:  0.0,
			ScoreByType: map[model.CaseType]float64{},
		}, nil
	}

	counts := map[model.CaseType]int{}
	similaritySums := map[model.CaseType]float64{}
	for _, candidate := range candidates {
		caseType := candidate.CaseType()
		counts[caseType]++
		similaritySums[caseType] += candidate.Similarity
	}

	total := float64(len(candidates))
	scores := make(map[model.CaseType]float64, len(counts))
	for caseType, count := range counts {
		frequency := float64(count) / total
		avgSimilarity := similaritySums[caseType] / float64(count)
		scores[caseType] = frequencyWeight*frequency + similarityWeight*avgSimilarity
	}

	// Argmax over lexically sorted labels with replacement only on a
	// strictly greater score, so ties resolve to the lexically smallest
	// label and the result is stable across runs.
	types := make([]model.CaseType, 0, len(scores))
	for caseType := range scores {
		types = append(types, caseType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	best := types[0]
	for _, caseType := range types[1:] {
		if scores[caseType] > scores[best] {
			best = caseType
		}
	}

	return &model.ClassificationResult{
		CaseType:    best,
		Confidence:  scores[best],
		ScoreByType: scores,
	}, nil
}
