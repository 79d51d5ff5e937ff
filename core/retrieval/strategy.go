package retrieval

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/pbms01/rag-dialetico/model"
)

// Strategy defines a retrieval strategy
type Strategy interface {
	Retrieve(ctx context.Context, embedding []float32) (*model.HierarchicalResult, error)
}

// HierarchicalStrategy sequences case-type classification and the three
// level-scoped queries into one retrieval transaction.
type HierarchicalStrategy struct {
	engine     *Engine
	classifier *Classifier
	// knownType, when set, skips classification and is reported with
	// confidence 1.0.
	knownType model.CaseType
	log       *slog.Logger
}

// NewHierarchicalStrategy creates a new hierarchical strategy
func NewHierarchicalStrategy(engine *Engine, classifier *Classifier, logger *slog.Logger) *HierarchicalStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	return &HierarchicalStrategy{
		engine:     engine,
		classifier: classifier,
		log:        logger,
	}
}

// WithKnownCaseType returns the strategy configured to use a
// caller-supplied case type instead of classifying.
func (s *HierarchicalStrategy) WithKnownCaseType(caseType model.CaseType) *HierarchicalStrategy {
	s.knownType = caseType
	return s
}

// Retrieve executes one hierarchical retrieval transaction:
// classification, confidence-gated filter relaxation and the three level
// queries. Level 2 is additionally constrained to answer-style documents.
// Any index error is fatal to the whole transaction; no partial result
// is returned.
func (s *HierarchicalStrategy) Retrieve(ctx context.Context, embedding []float32) (*model.HierarchicalResult, error) {
	classification, effectiveType, err := s.classify(ctx, embedding)
	if err != nil {
		return nil, err
	}

	// The three level queries are mutually independent and share the
	// read-only index handle.
	var level1, level2, level3 []*model.Chunk
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var searchErr error
		level1, searchErr = s.engine.SearchLevel(gctx, 1, embedding, effectiveType, "", 0)
		return searchErr
	})
	g.Go(func() error {
		var searchErr error
		level2, searchErr = s.engine.SearchLevel(gctx, 2, embedding, effectiveType, s.engine.config.AnswerDocType, 0)
		return searchErr
	})
	g.Go(func() error {
		var searchErr error
		level3, searchErr = s.engine.SearchLevel(gctx, 3, embedding, effectiveType, "", 0)
		return searchErr
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &model.HierarchicalResult{
		Classification: classification,
		ChunksByLevel: map[int][]*model.Chunk{
			1: level1,
			2: level2,
			3: level3,
		},
		TotalChunks:    len(level1) + len(level2) + len(level3),
		QueryEmbedding: embedding,
	}

	s.log.Info("Hierarchical retrieval finished",
		slog.String("case_type", string(classification.CaseType)),
		slog.Float64("confidence", classification.Confidence),
		slog.String("applied_filter", string(effectiveType)),
		slog.Int("total_chunks", result.TotalChunks),
	)

	return result, nil
}

// classify produces the reported classification and the case type
// actually applied as a filter. Below the confidence threshold the
// filter is relaxed to no type while the reported classification keeps
// the computed type and confidence.
func (s *HierarchicalStrategy) classify(ctx context.Context, embedding []float32) (*model.ClassificationResult, model.CaseType, error) {
	if s.knownType != "" {
		classification := &model.ClassificationResult{
			CaseType:    s.knownType,
			Confidence:  1.0,
			ScoreByType: map[model.CaseType]float64{s.knownType: 1.0},
		}
		return classification, s.knownType, nil
	}

	classification, err := s.classifier.Classify(ctx, embedding)
	if err != nil {
		return nil, "", err
	}

	effectiveType := classification.CaseType
	if classification.Confidence < s.engine.config.MinConfidenceClassification {
		s.log.Warn("Classification confidence below threshold, searching without type filter",
			slog.String("case_type", string(classification.CaseType)),
			slog.Float64("confidence", classification.Confidence),
		)
		effectiveType = ""
	}

	return classification, effectiveType, nil
}
