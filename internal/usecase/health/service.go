package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status  Status
	Records int
	Checks  map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	records   int
	source    SourcePinger
	embedding EmbeddingChecker
}

// New creates a Service. source and embedding can be nil.
func New(records int, source SourcePinger, embedding EmbeddingChecker) *Service {
	return &Service{records: records, source: source, embedding: embedding}
}

// Check runs health checks against all configured components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.source != nil {
		if err := s.source.Ping(ctx); err != nil {
			checks["corpus_source"] = CheckError
		} else {
			checks["corpus_source"] = CheckOK
		}
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Records: s.records, Checks: checks}
}
