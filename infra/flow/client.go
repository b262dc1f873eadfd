// Package flow implements the external scheduling engine contract: job
// submission and job-status reads over HTTP, plus a scripted mock.
package flow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fleetyard/dispatchboard/core/scheduling"
	"github.com/fleetyard/dispatchboard/infra/logger"
)

// Config selects and configures the engine backend.
type Config struct {
	// Mode selects the backend: "http" or "mock".
	Mode string `json:"mode"`
	// BaseURL is the root of the scheduling engine API.
	BaseURL string `json:"base_url"`
	// TimeoutSeconds bounds each engine call.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Mode == "" {
		c.Mode = "http"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 15
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch strings.ToLower(c.Mode) {
	case "mock":
	case "http":
		if c.BaseURL == "" {
			return fmt.Errorf("base_url is required in http mode")
		}
	default:
		return fmt.Errorf("unknown engine mode %s", c.Mode)
	}
	return nil
}

// New creates an engine client depending on cfg.Mode.
func New(cfg Config) (scheduling.Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strings.ToLower(cfg.Mode) == "mock" {
		return NewMockEngine(), nil
	}
	return NewHTTPEngine(cfg), nil
}

// HTTPEngine talks to the scheduling engine's REST API.
type HTTPEngine struct {
	base   string
	client *http.Client
	log    logger.Logger
}

// NewHTTPEngine creates an engine client for the given configuration.
func NewHTTPEngine(cfg Config) *HTTPEngine {
	return &HTTPEngine{
		base:   cfg.BaseURL,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:    logger.New("flow-client"),
	}
}

// Submit hands the request to the engine and returns the job identifier.
func (e *HTTPEngine) Submit(ctx context.Context, req scheduling.SubmitRequest) (string, error) {
	buf, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.base+"/jobs", bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := e.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("flow: submit: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("flow: submit: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	var out struct {
		JobID string `json:"jobId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("flow: decode submit response: %w", err)
	}
	if out.JobID == "" {
		return "", fmt.Errorf("flow: submit response carried no job id")
	}
	e.log.Infof("submitted scheduling job %s", out.JobID)
	return out.JobID, nil
}

// FetchJobStatus reads the job record.
func (e *HTTPEngine) FetchJobStatus(ctx context.Context, jobID string) (scheduling.JobRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.base+"/jobs/"+url.PathEscape(jobID), nil)
	if err != nil {
		return scheduling.JobRecord{}, err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return scheduling.JobRecord{}, fmt.Errorf("flow: job status: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return scheduling.JobRecord{}, fmt.Errorf("flow: job status: status %d", resp.StatusCode)
	}
	var rec scheduling.JobRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return scheduling.JobRecord{}, fmt.Errorf("flow: decode job record: %w", err)
	}
	if rec.ID == "" {
		rec.ID = jobID
	}
	return rec, nil
}
