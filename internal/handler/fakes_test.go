package handler

// In-memory UserStore and TaskStore implementations used by the handler
// tests. They mimic the MySQL repositories closely enough for the auth
// and authorization flows: identifier lookups, soft deletes, and the
// all-or-nothing semantics of the bulk priority update.

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avoskan/taskboard/internal/model"
	"github.com/avoskan/taskboard/internal/repository"
)

type memUserStore struct {
	mu    sync.Mutex
	seq   uint64
	users map[uint64]*model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uint64]*model.User)}
}

func (s *memUserStore) GetByID(_ context.Context, id uint64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) GetByUsernameOrEmail(_ context.Context, identifier string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == identifier || u.Email == strings.ToLower(identifier) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	u.ID = s.seq
	u.GUID = uuid.NewString()
	u.Email = strings.ToLower(u.Email)
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memUserStore) UpdateLastLogin(_ context.Context, id uint64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.LastLogin = &at
	return nil
}

func (s *memUserStore) SoftDelete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.IsDeleted = true
	return nil
}

func (s *memUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type memTaskStore struct {
	mu    sync.Mutex
	seq   uint64
	tasks map[uint64]*model.Task
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{tasks: make(map[uint64]*model.Task)}
}

func (s *memTaskStore) GetByID(_ context.Context, id uint64) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, repository.ErrTaskNotFound
}

func (s *memTaskStore) ListByDate(_ context.Context, userID uint64, day time.Time) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, 0)
	for _, t := range s.tasks {
		if t.UserID == userID && t.PostedAt.Format("2006-01-02") == day.Format("2006-01-02") {
			out = append(out, *t)
		}
	}
	// priority ascending, matching the SQL ORDER BY
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Priority > out[j].Priority; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out, nil
}

func (s *memTaskStore) Create(_ context.Context, t *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t.ID = s.seq
	t.GUID = uuid.NewString()
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	s.tasks[t.ID] = &cp
	return nil
}

func (s *memTaskStore) Update(_ context.Context, t *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.tasks[t.ID]
	if !ok {
		return repository.ErrTaskNotFound
	}
	stored.Text = t.Text
	stored.Priority = t.Priority
	stored.Completed = t.Completed
	return nil
}

func (s *memTaskStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return repository.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *memTaskStore) BulkUpdatePriorities(_ context.Context, userID uint64, priorities map[uint64]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Membership and cardinality check before any write, like the
	// transactional SQL version.
	for id := range priorities {
		t, ok := s.tasks[id]
		if !ok || t.UserID != userID {
			return repository.ErrConflict
		}
	}
	for id, prio := range priorities {
		s.tasks[id].Priority = prio
	}
	return nil
}

func (s *memTaskStore) priorityOf(id uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks[id].Priority
}
