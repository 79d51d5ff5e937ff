package retrieval

import "github.com/pbms01/rag-dialetico/model"

// ToSimilarity converts a raw index distance into a similarity score
// under the configured metric. For cosine the index returns a distance
// in [0,2] and similarity is 1 - distance. Any other metric passes
// through unchanged; a metric-specific inversion must be added here if
// other metrics are introduced.
func ToSimilarity(distance float64, metric model.DistanceMetric) float64 {
	if metric == model.DistanceMetricCosine {
		return 1 - distance
	}
	return distance
}
