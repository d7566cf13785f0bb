package models

// RecordStatus is the outcome of a single record in a batch operation.
type RecordStatus string

const (
	StatusInserted   RecordStatus = "inserted"
	StatusUpdated    RecordStatus = "updated"
	StatusNotUpdated RecordStatus = "not_updated"
	StatusDeleted    RecordStatus = "deleted"
	StatusNotFound   RecordStatus = "not_found"
	StatusError      RecordStatus = "error"
)

// BatchStatus is the aggregate outcome of a whole batch call.
type BatchStatus string

const (
	BatchSuccess    BatchStatus = "success"
	BatchNotUpdated BatchStatus = "not_updated"
	BatchSkipped    BatchStatus = "skipped"
	BatchPartial    BatchStatus = "partial"
	BatchFailed     BatchStatus = "failed"
)

// VertexRecord is one flat entity record on its way into or out of the graph.
// InternalID is the store's own vertex identifier, set once the vertex exists.
type VertexRecord struct {
	Entity     string         `json:"entity"`
	InternalID string         `json:"internal_id,omitempty"`
	Fields     map[string]any `json:"fields"`
}

// EdgeRow is a single edge to be written.
type EdgeRow struct {
	From       string         `json:"from"`
	To         string         `json:"to"`
	Properties map[string]any `json:"properties,omitempty"`
}

// EdgeWriteSet groups edge rows under one edge label.
type EdgeWriteSet struct {
	Label string    `json:"label"`
	Rows  []EdgeRow `json:"rows"`
}

// RecordOutcome is the per-record result inside a BatchResult.
type RecordOutcome struct {
	Record  map[string]any `json:"record,omitempty"`
	Status  RecordStatus   `json:"status"`
	ID      string         `json:"id,omitempty"`
	Message string         `json:"message,omitempty"`
}

// BatchResult is the response shape for every batch operation. Callers always
// receive one, even on partial failure; only spec-resolution failures surface
// as a bare error instead.
type BatchResult struct {
	OverallStatus BatchStatus     `json:"overall_status"`
	Results       []RecordOutcome `json:"results"`
	SuccessIDs    []string        `json:"success_ids,omitempty"`
	FailedIDs     []string        `json:"failed_ids,omitempty"`
}
