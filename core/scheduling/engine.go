package scheduling

import "context"

// JobStatus is the lifecycle state reported by the external engine's job
// record.
type JobStatus string

const (
	JobSubmitted  JobStatus = "Submitted"
	JobInProgress JobStatus = "InProgress"
	JobCompleted  JobStatus = "Completed"
	JobFailed     JobStatus = "Failed"
)

// Terminal reports whether the status ends the polling cycle.
func (s JobStatus) Terminal() bool { return s == JobCompleted || s == JobFailed }

// SubmitRequest is the payload handed to the external scheduling engine.
// Week bounds use DD/MM/YYYY, the sole exception to the ISO date rule.
type SubmitRequest struct {
	WeekStartDate string `json:"weekStartDate"`
	WeekEndDate   string `json:"weekEndDate"`
	OrderIDList   string `json:"orderIdList"` // comma-joined order ids
}

// Recommendation is one proposed order placement produced by the engine.
type Recommendation struct {
	OrderID      string `json:"orderId"`
	TruckID      string `json:"truckId"`
	DeliveryDate string `json:"deliveryDate"` // ISO
}

// DeliveryCondition is a diagnostic item attached to a completed job.
type DeliveryCondition struct {
	OrderID  string `json:"orderId"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// JobRecord is the engine's job-status record. Recommendations and
// diagnostics are populated once the job completed.
type JobRecord struct {
	ID              string              `json:"id"`
	Status          JobStatus           `json:"status"`
	Log             string              `json:"log,omitempty"`
	Recommendations []Recommendation    `json:"recommendations,omitempty"`
	Diagnostics     []DeliveryCondition `json:"diagnostics,omitempty"`
}

// Engine is the external scheduling engine. Submit hands off a request and
// returns the job identifier; FetchJobStatus reads the job record.
type Engine interface {
	Submit(ctx context.Context, req SubmitRequest) (string, error)
	FetchJobStatus(ctx context.Context, jobID string) (JobRecord, error)
}
