package graph

import (
	"fmt"
	"strconv"
)

// Result statuses returned across the client boundary. The client never
// raises past this envelope; the orchestrator decides what a failure means
// for the batch.
const (
	StatusSuccess    = "success"
	StatusError      = "error"
	StatusNotUpdated = "not_updated"
	StatusNotFound   = "not_found"
	StatusDeleted    = "deleted"
)

// Result is the uniform envelope for every client operation.
type Result struct {
	Status  string           `json:"status"`
	Data    []map[string]any `json:"data,omitempty"`
	ID      string           `json:"id,omitempty"`
	Message string           `json:"message,omitempty"`
}

func successResult() Result {
	return Result{Status: StatusSuccess}
}

func errorResult(err error) Result {
	return Result{Status: StatusError, Message: err.Error()}
}

// FlattenProperties unwraps the store's property-map encoding, where each
// value may come back wrapped in a single-element list. Multi-valued lists
// are left intact.
func FlattenProperties(props map[string]any) map[string]any {
	flat := make(map[string]any, len(props))
	for key, value := range props {
		if list, ok := value.([]any); ok && len(list) == 1 {
			flat[key] = list[0]
			continue
		}
		flat[key] = value
	}
	return flat
}

// NormalizeValue renders a property value into its canonical string form so
// values that differ only in representation (int 30 vs string "30", float
// 30.0) compare equal during diffing.
func NormalizeValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// DiffProperties returns the subset of incoming whose normalized value
// differs from existing. Fields absent from existing are always included.
func DiffProperties(existing, incoming map[string]any) map[string]any {
	changed := make(map[string]any)
	for key, value := range incoming {
		current, ok := existing[key]
		if !ok || NormalizeValue(current) != NormalizeValue(value) {
			changed[key] = value
		}
	}
	return changed
}
