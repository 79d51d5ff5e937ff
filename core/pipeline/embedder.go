package pipeline

import (
	"fmt"

	"github.com/knights-analytics/hugot"

	"github.com/pbms01/rag-dialetico/helper"
)

// DefaultEmbeddingModel is the sentence transformer the index was built
// with. It produces 1024-dimensional, L2-normalized embeddings.
const (
	DefaultEmbeddingModel = "intfloat/multilingual-e5-large"
	DefaultEmbeddingDim   = 1024
)

// DefaultEmbedder creates an embedder backed by the default sentence
// transformer model, downloading it on first use.
func DefaultEmbedder() (EmbedFunc, error) {
	return NewEmbedder(DefaultEmbeddingModel)
}

// NewEmbedder creates an embedder for the named sentence transformer model.
func NewEmbedder(modelName string) (EmbedFunc, error) {
	// Prepare model (download if needed)
	modelPath, err := helper.PrepareModel(modelName)
	if err != nil {
		return nil, err
	}

	// Initialize hugot session with Go backend
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	// Create sentence transformers pipeline configuration
	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "embedder-pipeline",
	}
	sentencePipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create sentence pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create sentence pipeline: %w", err)
	}

	return func(text string) ([]float32, error) {
		result, err := sentencePipeline.RunPipeline([]string{text})
		if err != nil {
			return nil, fmt.Errorf("failed to generate embedding: %w", err)
		}

		if len(result.Embeddings) == 0 {
			return nil, fmt.Errorf("no embedding generated")
		}

		return result.Embeddings[0], nil
	}, nil
}
