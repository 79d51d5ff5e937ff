package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRetrievalConfig(t *testing.T) {
	t.Run("Returns correct default values", func(t *testing.T) {
		config := DefaultRetrievalConfig()

		level1, ok := config.Level(1)
		require.True(t, ok)
		assert.Equal(t, 10, level1.TopK, "Level 1 TopK should be 10")
		assert.Equal(t, 0.70, level1.MinSimilarity, "Level 1 MinSimilarity should be 0.70")
		assert.Equal(t, 0.4, level1.Weight, "Level 1 Weight should be 0.4")

		level2, ok := config.Level(2)
		require.True(t, ok)
		assert.Equal(t, 20, level2.TopK, "Level 2 TopK should be 20")
		assert.Equal(t, 0.65, level2.MinSimilarity, "Level 2 MinSimilarity should be 0.65")
		assert.Equal(t, 0.35, level2.Weight, "Level 2 Weight should be 0.35")

		level3, ok := config.Level(3)
		require.True(t, ok)
		assert.Equal(t, 15, level3.TopK, "Level 3 TopK should be 15")
		assert.Equal(t, 0.60, level3.MinSimilarity, "Level 3 MinSimilarity should be 0.60")
		assert.Equal(t, 0.25, level3.Weight, "Level 3 Weight should be 0.25")

		assert.Equal(t, 0.70, config.MinConfidenceClassification, "Default classification confidence threshold should be 0.70")
		assert.Equal(t, DistanceMetricCosine, config.DistanceMetric, "Default metric should be cosine")
		assert.Equal(t, DocTypeAnswer, config.AnswerDocType, "Level 2 should be constrained to answer-style documents")
	})

	t.Run("Default level weights sum to 1.0", func(t *testing.T) {
		config := DefaultRetrievalConfig()

		sum := 0.0
		for _, levelConfig := range config.Levels {
			sum += levelConfig.Weight
		}
		assert.InDelta(t, 1.0, sum, 0.001, "Level weights should sum to 1.0")
	})

	t.Run("Default context limits are 5/10/8 plus 5 specific", func(t *testing.T) {
		config := DefaultRetrievalConfig()

		assert.Equal(t, 5, config.Limits.Level1)
		assert.Equal(t, 10, config.Limits.Level2)
		assert.Equal(t, 8, config.Limits.Level3)
		assert.Equal(t, 5, config.Limits.Specific)
	})

	t.Run("Unknown level lookup fails", func(t *testing.T) {
		config := DefaultRetrievalConfig()

		_, ok := config.Level(4)
		assert.False(t, ok, "Level 4 should not be configured")
	})

	t.Run("Can be modified after creation", func(t *testing.T) {
		config := DefaultRetrievalConfig()

		config.Levels[1] = LevelConfig{TopK: 3, MinSimilarity: 0.5, Weight: 0.4}
		config.MinConfidenceClassification = 0.9

		level1, ok := config.Level(1)
		require.True(t, ok)
		assert.Equal(t, 3, level1.TopK)
		assert.Equal(t, 0.9, config.MinConfidenceClassification)
	})
}
