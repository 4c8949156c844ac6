package vectorstore

// Point is one indexed chunk crossing the vector store boundary. Payload
// values must be primitives only; run Sanitize before upserting.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// ScoredPoint is a search hit. Score is cosine similarity, higher is better.
type ScoredPoint struct {
	ID      string
	Payload map[string]any
	Score   float64
}

// VectorDimension is the embedding size for text-embedding-3-small.
const VectorDimension = 1536
