package models

// Chunk is a contiguous span of source text produced by the chunker.
// Chunks are created once during document processing, embedded once,
// persisted into the vector index, and never mutated afterwards.
type Chunk struct {
	// ChunkID is unique within a document, derived from ordinal position
	// ("chunk_{index}").
	ChunkID string `json:"chunk_id"`

	// Content is the chunk text, non-empty after trimming.
	Content string `json:"content"`

	// Metadata always includes "document_id" and "chunk_index".
	Metadata map[string]interface{} `json:"metadata"`
}

// ScoredChunk is a chunk returned from a nearest-neighbor query together
// with its distance from the query vector (smaller is more similar).
type ScoredChunk struct {
	Chunk
	Distance float64 `json:"distance"`
}

// EmbeddingResult holds the vectors produced for a batch of texts.
type EmbeddingResult struct {
	// Embeddings are in the same order as the non-empty input texts.
	Embeddings [][]float32 `json:"embeddings"`

	// TokenCount is the total tokens across inputs. When the precise
	// tokenizer is unavailable this is the len/4 estimate, not an exact
	// figure; do not use it for billing.
	TokenCount int `json:"token_count"`

	// Model is the embedding model that produced the vectors.
	Model string `json:"model"`
}
