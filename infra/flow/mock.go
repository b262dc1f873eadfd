package flow

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/fleetyard/dispatchboard/core/scheduling"
)

// MockEngine is a scripted scheduling engine for tests and local runs.
// Jobs complete after a configurable number of status checks, echoing one
// recommendation per submitted order id when a Script is installed.
type MockEngine struct {
	mu   sync.Mutex
	jobs map[string]*mockJob

	// ChecksUntilDone is the number of FetchJobStatus calls before a job
	// reports Completed. Zero means the first check completes it.
	ChecksUntilDone int
	// Script produces the terminal record for a job. When nil the job
	// completes with no recommendations.
	Script func(jobID string, req scheduling.SubmitRequest) scheduling.JobRecord
}

type mockJob struct {
	req    scheduling.SubmitRequest
	checks int
}

// NewMockEngine returns an empty mock engine.
func NewMockEngine() *MockEngine {
	return &MockEngine{jobs: map[string]*mockJob{}}
}

// Submit registers the job and returns a fresh identifier.
func (e *MockEngine) Submit(ctx context.Context, req scheduling.SubmitRequest) (string, error) {
	if strings.TrimSpace(req.OrderIDList) == "" {
		return "", fmt.Errorf("mock engine: empty order list")
	}
	id := uuid.NewString()
	e.mu.Lock()
	e.jobs[id] = &mockJob{req: req}
	e.mu.Unlock()
	return id, nil
}

// FetchJobStatus advances the scripted job state.
func (e *MockEngine) FetchJobStatus(ctx context.Context, jobID string) (scheduling.JobRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	j, ok := e.jobs[jobID]
	if !ok {
		return scheduling.JobRecord{}, fmt.Errorf("mock engine: unknown job %s", jobID)
	}
	if j.checks < e.ChecksUntilDone {
		j.checks++
		return scheduling.JobRecord{ID: jobID, Status: scheduling.JobInProgress}, nil
	}
	if e.Script != nil {
		rec := e.Script(jobID, j.req)
		rec.ID = jobID
		return rec, nil
	}
	return scheduling.JobRecord{ID: jobID, Status: scheduling.JobCompleted}, nil
}
