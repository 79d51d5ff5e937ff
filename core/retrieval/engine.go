package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pbms01/rag-dialetico/helper"
	"github.com/pbms01/rag-dialetico/model"
)

// ChunkStore defines the interface for the vector index consumed by the
// retrieval core. Queries return hits in ascending distance order.
type ChunkStore interface {
	SelectChunksBySimilarity(embedding []float32, filter model.Filter, limit int) ([]*model.Chunk, error)
	CountChunks(filter model.Filter) (int, error)
}

// Engine executes level-scoped similarity queries against the index.
type Engine struct {
	store  ChunkStore
	config *model.RetrievalConfig
	log    *slog.Logger
}

// NewEngine creates a new retrieval engine
func NewEngine(store ChunkStore, config *model.RetrievalConfig, logger *slog.Logger) *Engine {
	if config == nil {
		config = model.DefaultRetrievalConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:  store,
		config: config,
		log:    logger,
	}
}

// Config returns the retrieval configuration the engine was built with.
func (e *Engine) Config() *model.RetrievalConfig {
	return e.config
}

// SearchLevel executes one filtered top-k query for a single hierarchy
// level. The metadata filter always constrains the level; caseType and
// docType clauses are added only when non-empty. Hits below the level's
// similarity floor are dropped after the index returns its top-k, so
// fewer than topK (even zero) chunks is normal, not an error. Hit order
// is the index order (similarity descending); no re-sort.
// A topK <= 0 uses the level's configured topK.
func (e *Engine) SearchLevel(ctx context.Context, level int, embedding []float32, caseType model.CaseType, docType string, topK int) ([]*model.Chunk, error) {
	levelConfig, ok := e.config.Level(level)
	if !ok {
		return nil, helper.NewError("level config lookup", fmt.Errorf("no configuration for level %d", level))
	}
	if topK <= 0 {
		topK = levelConfig.TopK
	}

	filter := model.NewFilterBuilder(model.Clause{Field: model.MetaKeyLevel, Value: level}).
		AppendIf(caseType != "", model.Clause{Field: model.MetaKeyCaseType, Value: string(caseType)}).
		AppendIf(docType != "", model.Clause{Field: model.MetaKeyDocType, Value: docType}).
		Build()

	hits, err := e.searchWithFloor(ctx, embedding, filter, topK, levelConfig.MinSimilarity, level)
	if err != nil {
		return nil, err
	}

	e.log.Debug("Level search finished",
		slog.Int("level", level),
		slog.String("case_type", string(caseType)),
		slog.Int("num_chunks", len(hits)),
	)

	return hits, nil
}

// searchWithFloor runs one index query and applies a similarity floor.
// A floor of 0 keeps every hit (used by classification).
func (e *Engine) searchWithFloor(ctx context.Context, embedding []float32, filter model.Filter, limit int, minSimilarity float64, level int) ([]*model.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, helper.NewError("similarity search", err)
	}

	hits, err := e.store.SelectChunksBySimilarity(embedding, filter, limit)
	if err != nil {
		return nil, helper.NewError("similarity search", err)
	}

	var chunks []*model.Chunk
	for _, hit := range hits {
		similarity := ToSimilarity(hit.Distance, e.config.DistanceMetric)
		if similarity < minSimilarity {
			continue
		}
		hit.Similarity = similarity
		hit.Level = level
		chunks = append(chunks, hit)
	}

	return chunks, nil
}
