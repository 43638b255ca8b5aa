package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avoskan/taskboard/internal/middleware"
	"github.com/avoskan/taskboard/internal/model"
	"github.com/avoskan/taskboard/internal/queue"
	"github.com/avoskan/taskboard/internal/repository"
	queue_publisher "github.com/avoskan/taskboard/internal/service"
)

const dateLayout = "2006-01-02"

// TaskHandler serves the per-user task CRUD endpoints. Every route is
// behind AccessAuth, so the owner is always the identity resolved from
// the access token. Mutations check existence before ownership: a task
// that does not exist is a 404 and a task owned by someone else is a
// 403, and the two are deliberately distinct.
type TaskHandler struct {
	Tasks repository.TaskStore
}

func NewTaskHandler(tasks repository.TaskStore) *TaskHandler {
	return &TaskHandler{Tasks: tasks}
}

// ----- DTOs -----

type createTaskReq struct {
	Text     string `json:"text"`
	Priority int    `json:"priority"`
	PostedAt string `json:"posted_at"` // YYYY-MM-DD
}

type updateTaskReq struct {
	Text      *string `json:"text"`
	Priority  *int    `json:"priority"`
	Completed *bool   `json:"completed"`
}

type updateOrderReq struct {
	Priorities map[uint64]int `json:"priorities"` // task id -> new priority
}

type taskResp struct {
	ID        uint64    `json:"id"`
	GUID      string    `json:"guid"`
	Priority  int       `json:"priority"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	PostedAt  string    `json:"posted_at"`
	CreatedAt time.Time `json:"created_at"`
}

func toTaskResp(t *model.Task) taskResp {
	return taskResp{
		ID:        t.ID,
		GUID:      t.GUID,
		Priority:  t.Priority,
		Text:      t.Text,
		Completed: t.Completed,
		PostedAt:  t.PostedAt.Format(dateLayout),
		CreatedAt: t.CreatedAt,
	}
}

// Create handles POST /v1/tasks and adds a task owned by the caller.
func (h *TaskHandler) Create(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createTaskReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
	}
	postedAt, err := time.Parse(dateLayout, req.PostedAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid posted_at format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	task := &model.Task{
		UserID:   user.ID,
		Priority: req.Priority,
		Text:     req.Text,
		PostedAt: postedAt,
	}
	if err := h.Tasks.Create(ctx, task); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create task"})
	}
	return c.JSON(http.StatusCreated, toTaskResp(task))
}

// List handles GET /v1/tasks?date=YYYY-MM-DD and returns the caller's
// tasks for that date ordered by priority ascending.
func (h *TaskHandler) List(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	day, err := time.Parse(dateLayout, c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date query param required (YYYY-MM-DD)"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tasks, err := h.Tasks.ListByDate(ctx, user.ID, day)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]taskResp, 0, len(tasks))
	for i := range tasks {
		out = append(out, toTaskResp(&tasks[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Update handles PATCH /v1/tasks/:id with partial field updates. When a
// task transitions to completed, a task.completed event is published;
// broker failures are logged by the publisher and never fail the
// request.
func (h *TaskHandler) Update(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid task id"})
	}
	var req updateTaskReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	task, err := h.authorizeMutate(ctx, c, user, id)
	if task == nil {
		return err
	}

	wasCompleted := task.Completed
	if req.Text != nil {
		task.Text = *req.Text
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	if err := h.Tasks.Update(ctx, task); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update task"})
	}

	if !wasCompleted && task.Completed {
		_ = queue_publisher.PublishTaskCompleted(ctx, queue.TaskCompletedEvent{
			TaskID:      task.ID,
			TaskGUID:    task.GUID,
			UserID:      task.UserID,
			Text:        task.Text,
			Priority:    task.Priority,
			PostedAt:    task.PostedAt.Format(dateLayout),
			CompletedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, toTaskResp(task))
}

// Delete handles DELETE /v1/tasks/:id.
func (h *TaskHandler) Delete(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid task id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	task, err := h.authorizeMutate(ctx, c, user, id)
	if task == nil {
		return err
	}
	if err := h.Tasks.Delete(ctx, task.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete task"})
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateOrder handles PATCH /v1/tasks/order and reassigns priorities in
// bulk. The submitted id set must consist entirely of the caller's own
// tasks with matching cardinality; any mismatch rejects the whole batch
// with 409 and no partial application.
func (h *TaskHandler) UpdateOrder(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Priorities) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "priorities required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tasks.BulkUpdatePriorities(ctx, user.ID, req.Priorities); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "provided ids do not match tasks of the user"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update priorities"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "priorities have been updated"})
}

// authorizeMutate loads a task and gates the mutation on ownership. The
// existence check runs first, so a non-owner probing a real task id sees
// a 403 where a nonexistent id gives a 404. On failure it writes the
// response and returns a nil task; the returned error is the handler's
// return value either way.
func (h *TaskHandler) authorizeMutate(ctx context.Context, c echo.Context, user *model.User, id uint64) (*model.Task, error) {
	task, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
		}
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if task.UserID != user.ID {
		return nil, c.JSON(http.StatusForbidden, echo.Map{"error": repository.ErrTaskForbidden.Error()})
	}
	return task, nil
}
