package ragdialetico

import (
	"context"
	"testing"

	"github.com/pbms01/rag-dialetico/core/pipeline"
	"github.com/pbms01/rag-dialetico/helper"
	"github.com/pbms01/rag-dialetico/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEmbeddingDim keeps the test vectors small and their cosine
// similarities exact.
const testEmbeddingDim = 4

// Query texts mapped to fixed unit vectors so every similarity in the
// end-to-end assertions is a known value.
var queryEmbeddings = map[string][]float32{
	"negativa de cobertura de home care": {1, 0, 0, 0},
	"divergência no valor do reembolso":  {0.36, 0.48, 0.8, 0},
}

func testEmbedder() pipeline.EmbedFunc {
	return func(text string) ([]float32, error) {
		if embedding, ok := queryEmbeddings[text]; ok {
			return embedding, nil
		}
		return []float32{1, 0, 0, 0}, nil
	}
}

// seedChunks is the fixed knowledge base for the end-to-end tests.
// Similarities to the home care query (1,0,0,0) and the reembolso query
// (0.36,0.48,0.8,0) follow directly from the dot products.
func seedChunks() []*model.Chunk {
	return []*model.Chunk{
		// Level 1: case summaries.
		{
			Content:   "Contestação integral em caso de home care.",
			Level:     1,
			Metadata:  model.Metadata{model.MetaKeyCaseType: "HOME_CARE", model.MetaKeyDocType: model.DocTypeAnswer},
			Embedding: []float32{1, 0, 0, 0},
		},
		{
			Content:   "Contestação em caso de internação domiciliar.",
			Level:     1,
			Metadata:  model.Metadata{model.MetaKeyCaseType: "HOME_CARE", model.MetaKeyDocType: model.DocTypeAnswer},
			Embedding: []float32{0.96, 0.28, 0, 0},
		},
		{
			Content:   "Contestação em caso de cobrança.",
			Level:     1,
			Metadata:  model.Metadata{model.MetaKeyCaseType: "REEMBOLSO", model.MetaKeyDocType: model.DocTypeAnswer},
			Embedding: []float32{0.6, 0.8, 0, 0},
		},
		{
			Content:   "Contestação em caso de reembolso de despesas.",
			Level:     1,
			Metadata:  model.Metadata{model.MetaKeyCaseType: "REEMBOLSO", model.MetaKeyDocType: model.DocTypeAnswer},
			Embedding: []float32{0.36, 0.48, 0.8, 0},
		},
		// Level 2: document sections.
		{
			Content:   "DO MÉRITO. Ausência de cobertura para home care.",
			Level:     2,
			Metadata:  model.Metadata{model.MetaKeyCaseType: "HOME_CARE", model.MetaKeyDocType: model.DocTypeAnswer, model.MetaKeySection: "MERITO"},
			Embedding: []float32{1, 0, 0, 0},
		},
		{
			Content:   "DOS FATOS. Narrativa da petição inicial sobre home care.",
			Level:     2,
			Metadata:  model.Metadata{model.MetaKeyCaseType: "HOME_CARE", model.MetaKeyDocType: model.DocTypePleading, model.MetaKeySection: "FATOS"},
			Embedding: []float32{1, 0, 0, 0},
		},
		{
			Content:   "DO MÉRITO. Limites contratuais do reembolso.",
			Level:     2,
			Metadata:  model.Metadata{model.MetaKeyCaseType: "REEMBOLSO", model.MetaKeyDocType: model.DocTypeAnswer, model.MetaKeySection: "MERITO"},
			Embedding: []float32{0, 1, 0, 0},
		},
		{
			Content:   "DO MÉRITO. Procedimento domiciliar e reembolso conexo.",
			Level:     2,
			Metadata:  model.Metadata{model.MetaKeyCaseType: "HOME_CARE", model.MetaKeyDocType: model.DocTypeAnswer, model.MetaKeySection: "MERITO"},
			Embedding: []float32{0.36, 0.48, 0.8, 0},
		},
		// Level 3: argument fragments.
		{
			Content:   "Súmula sobre indicação médica para internação domiciliar.",
			Level:     3,
			Metadata:  model.Metadata{model.MetaKeyCaseType: "HOME_CARE"},
			Embedding: []float32{0.8, 0.6, 0, 0},
		},
	}
}

func initDialetico(t *testing.T) *Dialetico {
	helper.SetTestDatabaseConfigEnvs(t, dbPort)
	dbConfig, err := helper.NewDatabaseConfiguration()
	require.NoError(t, err, "failed to create database configuration")

	d, err := New(dbConfig, nil, testEmbeddingDim)
	require.NoError(t, err, "failed to create retriever")
	require.NotNil(t, d, "expected retriever to be non-nil")

	d.SetEmbedder(testEmbedder())

	t.Cleanup(func() {
		d.Close()
	})

	return d
}

func seedStore(t *testing.T, d *Dialetico) {
	for _, chunk := range seedChunks() {
		err := d.Chunks.InsertChunk(chunk)
		require.NoError(t, err, "failed to seed chunk")
		id := chunk.ID
		t.Cleanup(func() {
			d.Chunks.DeleteChunk(id)
		})
	}
}

func TestNewDialetico(t *testing.T) {
	helper.SetTestDatabaseConfigEnvs(t, dbPort)
	dbConfig, err := helper.NewDatabaseConfiguration()
	require.NoError(t, err)

	t.Run("Valid call New", func(t *testing.T) {
		d, err := New(dbConfig, nil, testEmbeddingDim)
		require.NoError(t, err, "Expected New to not return an error")
		require.NotNil(t, d, "Expected New to return a non-nil instance")
		assert.NotNil(t, d.DB, "Expected retriever to have a database instance")
		assert.NotNil(t, d.Chunks, "Expected retriever to have a chunks handler")
		assert.NotNil(t, d.Engine, "Expected retriever to have a retrieval engine")
		assert.NotNil(t, d.Classifier, "Expected retriever to have a classifier")
		assert.NotNil(t, d.Builder, "Expected retriever to have a context builder")
		assert.Nil(t, d.Embedder, "Expected embedder to be nil initially")

		// Cleanup
		err = d.Close()
		assert.NoError(t, err, "Expected Close to not return an error")
	})

	t.Run("Custom retrieval config is kept", func(t *testing.T) {
		config := model.DefaultRetrievalConfig()
		config.MinConfidenceClassification = 0.9

		d, err := New(dbConfig, config, testEmbeddingDim)
		require.NoError(t, err)
		defer d.Close()

		assert.Equal(t, 0.9, d.Config.MinConfidenceClassification)
		assert.Equal(t, 0.9, d.Engine.Config().MinConfidenceClassification)
	})

	t.Run("Close handles nil database gracefully", func(t *testing.T) {
		d := &Dialetico{}
		err := d.Close()
		assert.NoError(t, err, "Expected Close to handle nil DB gracefully")
	})
}

func TestRetrieveWithoutEmbedder(t *testing.T) {
	helper.SetTestDatabaseConfigEnvs(t, dbPort)
	dbConfig, err := helper.NewDatabaseConfiguration()
	require.NoError(t, err)

	d, err := New(dbConfig, nil, testEmbeddingDim)
	require.NoError(t, err)
	defer d.Close()

	_, err = d.Retrieve(context.Background(), "qualquer consulta")
	assert.Error(t, err, "Expected Retrieve to fail without an embedder")
	assert.Contains(t, err.Error(), "embedder not set")
}

func TestRetrieveEndToEnd(t *testing.T) {
	d := initDialetico(t)
	seedStore(t, d)

	result, err := d.Retrieve(context.Background(), "negativa de cobertura de home care")
	require.NoError(t, err)

	t.Run("Classifies the dominant case type", func(t *testing.T) {
		// Level-1 neighborhood similarities: HOME_CARE 1.0 and 0.96,
		// REEMBOLSO 0.6 and 0.36. score(HOME_CARE) = 0.5*0.5 + 0.5*0.98.
		assert.Equal(t, model.CaseTypeHomeCare, result.Classification.CaseType)
		assert.InDelta(t, 0.74, result.Classification.Confidence, 0.01)
		assert.Contains(t, result.Classification.ScoreByType, model.CaseTypeReembolso)
	})

	t.Run("Applies case type and doc type filters per level", func(t *testing.T) {
		require.Len(t, result.Level(1), 2, "Both HOME_CARE summaries clear the 0.70 floor")
		require.Len(t, result.Level(2), 1, "The pleading section and the off-type section are excluded")
		require.Len(t, result.Level(3), 1)
		assert.Equal(t, 4, result.TotalChunks)

		assert.Equal(t, model.DocTypeAnswer, result.Level(2)[0].DocType())
		for _, chunk := range result.Level(1) {
			assert.Equal(t, model.CaseTypeHomeCare, chunk.CaseType())
		}
	})

	t.Run("Hits carry similarity in descending order", func(t *testing.T) {
		level1 := result.Level(1)
		assert.InDelta(t, 1.0, level1[0].Similarity, 0.001)
		assert.InDelta(t, 0.96, level1[1].Similarity, 0.001)
		assert.InDelta(t, 0.8, result.Level(3)[0].Similarity, 0.001)
	})

	t.Run("Assembles the bounded context bundle", func(t *testing.T) {
		bundle := d.Assemble(result)

		assert.Len(t, bundle.Level1, 2)
		assert.Len(t, bundle.Level2, 1)
		assert.Len(t, bundle.Level3, 1)
		require.Len(t, bundle.Specific, 1)
		assert.Equal(t, model.CaseTypeHomeCare, bundle.Specific[0].CaseType())
	})
}

func TestRetrieveRelaxesLowConfidenceFilter(t *testing.T) {
	d := initDialetico(t)
	seedStore(t, d)

	result, err := d.Retrieve(context.Background(), "divergência no valor do reembolso")
	require.NoError(t, err)

	t.Run("Reports the best type below the threshold", func(t *testing.T) {
		// score(REEMBOLSO) = 0.5*0.5 + 0.5*0.8 = 0.65, under 0.70.
		assert.Equal(t, model.CaseTypeReembolso, result.Classification.CaseType)
		assert.InDelta(t, 0.65, result.Classification.Confidence, 0.01)
	})

	t.Run("Off-type chunks stay reachable", func(t *testing.T) {
		// The best level-2 section for this query is tagged HOME_CARE;
		// a type-filtered search would have missed it.
		require.Len(t, result.Level(2), 1)
		assert.Equal(t, model.CaseTypeHomeCare, result.Level(2)[0].CaseType())

		require.Len(t, result.Level(1), 1)
		assert.Empty(t, result.Level(3), "No level-3 fragment clears the 0.60 floor for this query")
		assert.Equal(t, 2, result.TotalChunks)
	})
}

func TestRetrieveForCaseType(t *testing.T) {
	d := initDialetico(t)
	seedStore(t, d)

	t.Run("Known type skips classification", func(t *testing.T) {
		result, err := d.RetrieveForCaseType(context.Background(), "divergência no valor do reembolso", model.CaseTypeReembolso)
		require.NoError(t, err)

		assert.Equal(t, model.CaseTypeReembolso, result.Classification.CaseType)
		assert.Equal(t, 1.0, result.Classification.Confidence)

		require.Len(t, result.Level(1), 1)
		assert.Equal(t, model.CaseTypeReembolso, result.Level(1)[0].CaseType())
		assert.Empty(t, result.Level(2), "The off-type level-2 section must be filtered out")
		assert.Equal(t, 1, result.TotalChunks)
	})

	t.Run("Empty type falls back to classification", func(t *testing.T) {
		result, err := d.RetrieveForCaseType(context.Background(), "negativa de cobertura de home care", "")
		require.NoError(t, err)

		assert.Equal(t, model.CaseTypeHomeCare, result.Classification.CaseType)
		assert.Less(t, result.Classification.Confidence, 1.0)
	})
}

func TestStats(t *testing.T) {
	d := initDialetico(t)
	seedStore(t, d)

	stats, err := d.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 9, stats.TotalChunks)
	assert.Equal(t, 4, stats.ByLevel[1])
	assert.Equal(t, 4, stats.ByLevel[2])
	assert.Equal(t, 1, stats.ByLevel[3])
	assert.Equal(t, 6, stats.ByCaseType[model.CaseTypeHomeCare])
	assert.Equal(t, 3, stats.ByCaseType[model.CaseTypeReembolso])
	assert.Equal(t, 0, stats.ByCaseType[model.CaseTypeAvisoPrevio])
}

func TestChangeIndexTypeThroughFacade(t *testing.T) {
	d := initDialetico(t)

	err := d.ChangeIndexType(context.Background(), "ivfflat", map[string]interface{}{"lists": 50})
	assert.NoError(t, err)

	err = d.ChangeIndexType(context.Background(), "hnsw", nil)
	assert.NoError(t, err)
}
