package health

import (
	"context"
	"sync"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates a provider is failing while the database is up.
	Degraded Status = "degraded"
	// Unhealthy indicates the database is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names used as Report.Checks keys.
const (
	ComponentDatabase   = "database"
	ComponentEmbedding  = "embedding"
	ComponentGeneration = "generation"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	providers map[string]ProviderChecker
}

// New creates a Service. embedding and generation can be nil.
func New(db DBPinger, embedding, generation ProviderChecker) *Service {
	providers := make(map[string]ProviderChecker, 2)
	if embedding != nil {
		providers[ComponentEmbedding] = embedding
	}
	if generation != nil {
		providers[ComponentGeneration] = generation
	}
	return &Service{db: db, providers: providers}
}

// Check runs all health checks concurrently.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.providers)+1)
	var mu sync.Mutex
	var wg sync.WaitGroup

	record := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			checks[name] = CheckError
		} else {
			checks[name] = CheckOK
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		record(ComponentDatabase, s.db.Ping(ctx))
	}()
	for name, p := range s.providers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record(name, p.HealthCheck(ctx))
		}()
	}
	wg.Wait()

	status := Healthy
	if checks[ComponentDatabase] == CheckError {
		status = Unhealthy
	} else {
		for _, v := range checks {
			if v == CheckError {
				status = Degraded
				break
			}
		}
	}

	return Report{Status: status, Checks: checks}
}
