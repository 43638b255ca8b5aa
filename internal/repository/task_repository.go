package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avoskan/taskboard/internal/model"
)

const taskColumns = "id,guid,user_id,priority,text,completed,posted_at,created_at,updated_at"

// TaskRepo implements TaskStore against MySQL.
type TaskRepo struct{ DB *sql.DB }

func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{DB: db} }

func scanTask(row *sql.Row) (*model.Task, error) {
	var t model.Task
	err := row.Scan(&t.ID, &t.GUID, &t.UserID, &t.Priority, &t.Text,
		&t.Completed, &t.PostedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetByID retrieves a task by its ID. It returns ErrTaskNotFound if
// there is no matching row.
func (r *TaskRepo) GetByID(ctx context.Context, id uint64) (*model.Task, error) {
	return scanTask(r.DB.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id=? LIMIT 1", id))
}

// ListByDate returns the user's tasks for a calendar date ordered by
// priority ascending. When no tasks exist it returns an empty slice and
// nil error.
func (r *TaskRepo) ListByDate(ctx context.Context, userID uint64, day time.Time) ([]model.Task, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE user_id=? AND posted_at=? ORDER BY priority ASC",
		userID, day.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.GUID, &t.UserID, &t.Priority, &t.Text,
			&t.Completed, &t.PostedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Create inserts a new task and assigns the generated ID and defaults
// back to the struct.
func (r *TaskRepo) Create(ctx context.Context, t *model.Task) error {
	t.GUID = uuid.NewString()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tasks (guid, user_id, priority, text, completed, posted_at) VALUES (?,?,?,?,?,?)",
		t.GUID, t.UserID, t.Priority, t.Text, t.Completed, t.PostedAt.UTC().Format("2006-01-02"))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	fresh, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *fresh
	return nil
}

// Update persists the task's mutable fields.
func (r *TaskRepo) Update(ctx context.Context, t *model.Task) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE tasks SET priority=?, text=?, completed=? WHERE id=?",
		t.Priority, t.Text, t.Completed, t.ID)
	return err
}

// Delete removes a task row. Ownership is checked by the handler before
// this is called.
func (r *TaskRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM tasks WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// BulkUpdatePriorities applies an id->priority mapping in one
// transaction. The ids are first locked and counted against the user's
// own tasks; if the cardinality does not match, some id is missing or
// owned by someone else and the whole batch is rejected with ErrConflict
// before any write happens.
func (r *TaskRepo) BulkUpdatePriorities(ctx context.Context, userID uint64, priorities map[uint64]int) error {
	if len(priorities) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(priorities)), ",")
	args := make([]any, 0, len(priorities)+1)
	args = append(args, userID)
	for id := range priorities {
		args = append(args, id)
	}

	var owned int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tasks WHERE user_id=? AND id IN ("+placeholders+") FOR UPDATE",
		args...).Scan(&owned)
	if err != nil {
		return err
	}
	if owned != len(priorities) {
		return ErrConflict
	}

	// Single statement CASE update so the batch is all-or-nothing.
	var b strings.Builder
	b.WriteString("UPDATE tasks SET priority = CASE id")
	updArgs := make([]any, 0, 3*len(priorities)+1)
	for id, prio := range priorities {
		b.WriteString(" WHEN ? THEN ?")
		updArgs = append(updArgs, id, prio)
	}
	b.WriteString(" END WHERE user_id=? AND id IN (" + placeholders + ")")
	updArgs = append(updArgs, userID)
	for id := range priorities {
		updArgs = append(updArgs, id)
	}
	if _, err := tx.ExecContext(ctx, b.String(), updArgs...); err != nil {
		return err
	}
	return tx.Commit()
}
