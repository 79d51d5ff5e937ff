package retrieval

import (
	"sync"

	"github.com/pbms01/rag-dialetico/model"
)

// storeCall records one query the fake store received.
type storeCall struct {
	Where model.Metadata
	Limit int
}

// fakeStore is an in-memory ChunkStore for core tests. Queries are
// answered by the respond function; every call is recorded. Safe for the
// concurrent level queries of the hierarchical strategy.
type fakeStore struct {
	mu      sync.Mutex
	calls   []storeCall
	respond func(call storeCall) ([]*model.Chunk, error)
}

func (s *fakeStore) SelectChunksBySimilarity(embedding []float32, filter model.Filter, limit int) ([]*model.Chunk, error) {
	where := model.Metadata{}
	if filter != nil {
		where = filter.Where()
	}
	call := storeCall{Where: where, Limit: limit}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()

	if s.respond == nil {
		return nil, nil
	}
	return s.respond(call)
}

func (s *fakeStore) CountChunks(filter model.Filter) (int, error) {
	return 0, nil
}

func (s *fakeStore) recorded() []storeCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]storeCall{}, s.calls...)
}

// hit builds an index hit with a cosine distance matching the wanted
// similarity. Similarity and Level are left unset, the engine fills them.
func hit(caseType model.CaseType, docType string, similarity float64) *model.Chunk {
	metadata := model.Metadata{}
	if caseType != "" {
		metadata[model.MetaKeyCaseType] = string(caseType)
	}
	if docType != "" {
		metadata[model.MetaKeyDocType] = docType
	}
	return &model.Chunk{
		Content:  "chunk",
		Metadata: metadata,
		Distance: 1 - similarity,
	}
}

// repeat returns count copies of the hit template.
func repeat(count int, caseType model.CaseType, similarity float64) []*model.Chunk {
	chunks := make([]*model.Chunk, count)
	for i := range chunks {
		chunks[i] = hit(caseType, "", similarity)
	}
	return chunks
}
