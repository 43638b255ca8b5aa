package model

import "time"

// Task is a single to-do item owned by exactly one user. Priority is an
// integer where a lower value means a higher priority; the list endpoints
// order by it ascending. PostedAt is the calendar date the task belongs
// to (time component is always midnight UTC).
type Task struct {
	ID        uint64    // tasks.id
	GUID      string    // tasks.guid
	UserID    uint64    // tasks.user_id (owner)
	Priority  int       // tasks.priority (lower = higher priority)
	Text      string    // tasks.text
	Completed bool      // tasks.completed
	PostedAt  time.Time // tasks.posted_at (DATE)
	CreatedAt time.Time // tasks.created_at
	UpdatedAt time.Time // tasks.updated_at
}
