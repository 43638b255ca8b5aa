// Package queue defines message payloads exchanged over the message broker.
package queue

// TaskCompletedEvent is published when a user marks a task as completed.
// It carries enough information for downstream consumers to log or feed
// analytics without querying the primary database.
type TaskCompletedEvent struct {
	TaskID      uint64 `json:"task_id"`
	TaskGUID    string `json:"task_guid"`
	UserID      uint64 `json:"user_id"`
	Text        string `json:"text"`
	Priority    int    `json:"priority"`
	PostedAt    string `json:"posted_at"`
	CompletedAt string `json:"completed_at"`
}
