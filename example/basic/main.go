package main

import (
	"context"
	"fmt"
	"log"

	ragdialetico "github.com/pbms01/rag-dialetico"
	"github.com/pbms01/rag-dialetico/core/pipeline"
	"github.com/pbms01/rag-dialetico/helper"
	"github.com/pbms01/rag-dialetico/model"
)

// A miniature knowledge base: prior defense material at the three
// hierarchy levels, tagged the way the ingestion job tags real chunks.
var sampleChunks = []*model.Chunk{
	{
		Content: "Contestação em ação de obrigação de fazer por negativa de cobertura de home care. A operadora sustenta ausência de previsão contratual para internação domiciliar.",
		Level:   1,
		Metadata: model.Metadata{
			model.MetaKeyCaseType: "HOME_CARE",
			model.MetaKeyDocType:  model.DocTypeAnswer,
		},
	},
	{
		Content: "DO MÉRITO. O serviço de home care não integra o rol de coberturas obrigatórias, nos termos da regulamentação vigente, sendo facultativa sua contratação.",
		Level:   2,
		Metadata: model.Metadata{
			model.MetaKeyCaseType: "HOME_CARE",
			model.MetaKeyDocType:  model.DocTypeAnswer,
			model.MetaKeySection:  "MERITO",
		},
	},
	{
		Content: "Súmula: a internação domiciliar substitutiva da hospitalar depende de indicação médica e previsão contratual expressa.",
		Level:   3,
		Metadata: model.Metadata{
			model.MetaKeyCaseType: "HOME_CARE",
		},
	},
	{
		Content: "Contestação em ação de cobrança por divergência de valores de reembolso de despesas médicas realizadas fora da rede credenciada.",
		Level:   1,
		Metadata: model.Metadata{
			model.MetaKeyCaseType: "REEMBOLSO",
			model.MetaKeyDocType:  model.DocTypeAnswer,
		},
	},
}

func main() {
	// Start a test PostgreSQL container with pgvector
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	d, err := ragdialetico.New(dbConfig, nil, pipeline.DefaultEmbeddingDim)
	if err != nil {
		log.Fatalf("Failed to create retriever: %v", err)
	}
	defer d.Close()

	// Set up the default embedder (downloads the model on first run)
	if err := d.UseDefaultEmbedder(); err != nil {
		log.Fatalf("Failed to set up embedder: %v", err)
	}

	// Populate the store the way the ingestion job would
	fmt.Println("Populating vector store...")
	for _, chunk := range sampleChunks {
		chunk.Embedding, err = d.Embedder(chunk.Content)
		if err != nil {
			log.Fatalf("Failed to embed chunk: %v", err)
		}
		if err := d.Chunks.InsertChunk(chunk); err != nil {
			log.Fatalf("Failed to insert chunk: %v", err)
		}
	}

	stats, err := d.Stats(context.Background())
	if err != nil {
		log.Fatalf("Failed to get stats: %v", err)
	}
	fmt.Printf("Store: %d chunks, by level: %v\n\n", stats.TotalChunks, stats.ByLevel)

	// Retrieve context for an incoming pleading
	query := "Paciente requer home care negado pela operadora após alta hospitalar."
	fmt.Printf("Query: %s\n\n", query)

	result, err := d.Retrieve(context.Background(), query)
	if err != nil {
		log.Fatalf("Retrieval failed: %v", err)
	}

	fmt.Printf("Classified case type: %s (confidence %.2f)\n",
		result.Classification.CaseType, result.Classification.Confidence)
	fmt.Printf("Retrieved %d chunks (level 1: %d, level 2: %d, level 3: %d)\n\n",
		result.TotalChunks, len(result.Level(1)), len(result.Level(2)), len(result.Level(3)))

	// Assemble the bounded context bundle for generation
	bundle := d.Assemble(result)
	fmt.Printf("Assembled context: %d/%d/%d chunks, %d type-specific\n",
		len(bundle.Level1), len(bundle.Level2), len(bundle.Level3), len(bundle.Specific))

	for _, chunk := range bundle.Specific {
		fmt.Printf("  [%.2f] %s\n", chunk.Similarity, chunk.Content)
	}
}
