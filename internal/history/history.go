// Package history records the outcome of every mutation the dashboard
// proxies to the backend.
package history

import "time"

// Action names the kind of mutation performed.
type Action string

const (
	ActionStart       Action = "start"
	ActionStop        Action = "stop"
	ActionAddDocument Action = "add_document"
	ActionAddLibrary  Action = "add_library"
	ActionAddStage    Action = "add_stage"
	ActionDeleteStage Action = "delete_stage"
)

// Entry is a single history record.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	Target    string    `json:"target"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
}
