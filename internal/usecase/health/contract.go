package health

import "context"

// SourcePinger checks corpus source availability (e.g. the Redis
// backend the corpus was loaded from). File-backed deployments have no
// live source and pass nil.
type SourcePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
