// Package ragdialetico retrieves prior defense material for a legal
// pleading at three granularities, filtered and weighted by the inferred
// case category, and assembles the trimmed context bundle consumed by
// downstream document generation.
package ragdialetico

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pbms01/rag-dialetico/core/contextbuilder"
	"github.com/pbms01/rag-dialetico/core/pipeline"
	"github.com/pbms01/rag-dialetico/core/retrieval"
	"github.com/pbms01/rag-dialetico/database"
	"github.com/pbms01/rag-dialetico/helper"
	"github.com/pbms01/rag-dialetico/model"
	loadSql "github.com/pbms01/rag-dialetico/sql"
)

// Dialetico provides a unified interface to hierarchical retrieval and
// context assembly over a pre-populated vector store. It owns the store
// connection and the embedder: open at startup with New, closed with
// Close.
type Dialetico struct {
	DB         *helper.Database
	Chunks     *database.ChunksDBHandler
	Engine     *retrieval.Engine
	Classifier *retrieval.Classifier
	Builder    *contextbuilder.Builder
	Config     *model.RetrievalConfig
	Embedder   pipeline.EmbedFunc // Optional, required for Retrieve
	// Logging
	log *slog.Logger
}

// New creates a Dialetico instance connected to the vector store.
// A store that is unreachable or cannot be initialized fails construction,
// so no retrieval can be attempted against it. A nil retrieval config
// uses the defaults the index was calibrated with.
func New(dbConfig *helper.DatabaseConfiguration, config *model.RetrievalConfig, embeddingDim int) (*Dialetico, error) {
	if config == nil {
		config = model.DefaultRetrievalConfig()
	}

	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("ragdialetico", dbConfig, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	chunks, err := database.NewChunksDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create chunks handler", err)
	}

	total, err := chunks.CountChunks(nil)
	if err != nil {
		return nil, helper.NewError("count chunks", err)
	}
	logger.Info("Connected to vector store", slog.Int("total_chunks", total))

	engine := retrieval.NewEngine(chunks, config, logger)

	return &Dialetico{
		DB:         db,
		Chunks:     chunks,
		Engine:     engine,
		Classifier: retrieval.NewClassifier(engine),
		Builder:    contextbuilder.NewBuilder(config.Limits),
		Config:     config,
		log:        logger,
	}, nil
}

// Close closes the database connection
func (d *Dialetico) Close() error {
	if d.DB != nil && d.DB.Instance != nil {
		return d.DB.Instance.Close()
	}
	return nil
}

// SetEmbedder sets the embedding function used by Retrieve.
func (d *Dialetico) SetEmbedder(embedder pipeline.EmbedFunc) {
	d.Embedder = embedder
}

// UseDefaultEmbedder sets up the default sentence transformer embedder
// (multilingual-e5-large, 1024 dimensions).
func (d *Dialetico) UseDefaultEmbedder() error {
	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}
	d.Embedder = embedder
	return nil
}

// Retrieve runs one hierarchical retrieval transaction for the query
// text: embedding, case-type classification with confidence-gated filter
// relaxation, and the three level searches. Embedding may block on model
// inference; wrap ctx with a deadline at the call boundary. Any embedding
// or index error fails the whole transaction, no partial result.
func (d *Dialetico) Retrieve(ctx context.Context, queryText string) (*model.HierarchicalResult, error) {
	embedding, err := d.embed(queryText)
	if err != nil {
		return nil, err
	}

	strategy := retrieval.NewHierarchicalStrategy(d.Engine, d.Classifier, d.log)
	return strategy.Retrieve(ctx, embedding)
}

// RetrieveForCaseType runs a hierarchical retrieval with a caller-known
// case type: classification is skipped, the type is reported with
// confidence 1.0 and applied as the filter directly.
func (d *Dialetico) RetrieveForCaseType(ctx context.Context, queryText string, caseType model.CaseType) (*model.HierarchicalResult, error) {
	if caseType == "" {
		return d.Retrieve(ctx, queryText)
	}

	embedding, err := d.embed(queryText)
	if err != nil {
		return nil, err
	}

	strategy := retrieval.NewHierarchicalStrategy(d.Engine, d.Classifier, d.log).
		WithKnownCaseType(caseType)
	return strategy.Retrieve(ctx, embedding)
}

// Assemble trims a retrieval result into the bounded context bundle for
// downstream generation.
func (d *Dialetico) Assemble(result *model.HierarchicalResult) *model.AssembledContext {
	return d.Builder.Build(result)
}

// Stats returns chunk counts of the vector store, total and broken down
// by hierarchy level and case type.
func (d *Dialetico) Stats(ctx context.Context) (*model.Stats, error) {
	total, err := d.Chunks.CountChunks(nil)
	if err != nil {
		return nil, helper.NewError("count chunks", err)
	}

	stats := &model.Stats{
		TotalChunks: total,
		ByLevel:     map[int]int{},
		ByCaseType:  map[model.CaseType]int{},
	}

	for level := 1; level <= 3; level++ {
		count, err := d.Chunks.CountChunks(model.Clause{Field: model.MetaKeyLevel, Value: level})
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("count level %d chunks", level), err)
		}
		stats.ByLevel[level] = count
	}

	for _, caseType := range model.KnownCaseTypes() {
		count, err := d.Chunks.CountChunks(model.Clause{Field: model.MetaKeyCaseType, Value: string(caseType)})
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("count %s chunks", caseType), err)
		}
		stats.ByCaseType[caseType] = count
	}

	return stats, nil
}

// ChangeIndexType changes the vector index type between HNSW and IVFFlat
func (d *Dialetico) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	return d.Chunks.ChangeIndexType(ctx, indexType, params)
}

func (d *Dialetico) embed(queryText string) ([]float32, error) {
	if d.Embedder == nil {
		return nil, helper.NewError("generate embedding", fmt.Errorf("embedder not set, use SetEmbedder() or UseDefaultEmbedder() first"))
	}
	embedding, err := d.Embedder(queryText)
	if err != nil {
		return nil, helper.NewError("generate embedding", err)
	}
	return embedding, nil
}
