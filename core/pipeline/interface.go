package pipeline

// EmbedFunc is a function that generates an L2-normalized embedding for
// text. Implementations must be deterministic for identical input so
// retrieval stays reproducible.
type EmbedFunc func(text string) ([]float32, error)
