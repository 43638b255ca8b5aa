package repository

import (
	"context"
	"time"

	"github.com/avoskan/taskboard/internal/model"
)

// UserStore enumerates every operation the auth core performs against
// user rows. The auth handlers and the access-token middleware depend on
// this interface rather than the concrete MySQL type so tests can swap
// in an in-memory implementation.
type UserStore interface {
	// GetByID fetches a user by primary key; ErrUserNotFound when absent.
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	// GetByUsername fetches a user by exact username.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// GetByEmail fetches a user by normalized (lowercase) email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// GetByUsernameOrEmail fetches a user whose username or email equals
	// the identifier. Token subjects resolve through this lookup.
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error)
	// Create inserts the user and populates ID, GUID and timestamps.
	Create(ctx context.Context, u *model.User) error
	// UpdateLastLogin stamps the user's last_login column.
	UpdateLastLogin(ctx context.Context, id uint64, at time.Time) error
	// SoftDelete marks the user as deleted without removing the row.
	SoftDelete(ctx context.Context, id uint64) error
}

// TaskStore enumerates the task operations used by the task handlers.
// Every mutation is owner-gated by the handler before it is called,
// except BulkUpdatePriorities which enforces ownership itself so the
// membership check and the write share one transaction.
type TaskStore interface {
	// GetByID fetches a task by primary key; ErrTaskNotFound when absent.
	GetByID(ctx context.Context, id uint64) (*model.Task, error)
	// ListByDate returns the user's tasks for the given calendar date,
	// ordered by priority ascending.
	ListByDate(ctx context.Context, userID uint64, day time.Time) ([]model.Task, error)
	// Create inserts the task and populates ID, GUID and timestamps.
	Create(ctx context.Context, t *model.Task) error
	// Update persists the task's mutable fields (text, priority, completed).
	Update(ctx context.Context, t *model.Task) error
	// Delete removes the task row.
	Delete(ctx context.Context, id uint64) error
	// BulkUpdatePriorities applies the id->priority mapping atomically.
	// The submitted id set must exactly cover tasks owned by userID;
	// any mismatch fails the whole batch with ErrConflict and no row is
	// touched.
	BulkUpdatePriorities(ctx context.Context, userID uint64, priorities map[uint64]int) error
}
