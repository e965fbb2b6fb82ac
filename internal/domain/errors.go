package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrEmbeddingNotConfigured signals that the semantic path was invoked
	// without an embedding provider credential.
	ErrEmbeddingNotConfigured = errors.New("embedding provider not configured")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrVectorDimMismatch signals a vector dimension mismatch in the corpus.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrCorpusInconsistent signals that a scorer ranked a key absent from
	// the corpus store. This is a wiring bug, never a user error.
	ErrCorpusInconsistent = errors.New("corpus inconsistency")
)
