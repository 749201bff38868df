package handler

import (
	"context"
	"time"

	"github.com/taskline/taskline-go/internal/model"
	"github.com/taskline/taskline-go/internal/repository"
	"github.com/taskline/taskline-go/internal/service"
)

// memUserStore is an in-memory service.UserStore for handler tests.
type memUserStore struct {
	users  map[int64]*model.User
	nextID int64
}

var _ service.UserStore = (*memUserStore)(nil)

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]*model.User)}
}

func (s *memUserStore) Create(_ context.Context, user *model.User) error {
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// memTaskStore is an in-memory service.TaskStore for handler tests.
type memTaskStore struct {
	tasks  map[int64]*model.Task
	nextID int64
}

var _ service.TaskStore = (*memTaskStore)(nil)

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{tasks: make(map[int64]*model.Task)}
}

func (s *memTaskStore) Create(_ context.Context, task *model.Task) error {
	s.nextID++
	task.ID = s.nextID
	stored := *task
	s.tasks[task.ID] = &stored
	return nil
}

func (s *memTaskStore) GetByID(_ context.Context, id int64, _ []string) (*model.Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (s *memTaskStore) List(_ context.Context, filter model.TaskFilter, opts model.QueryOptions) ([]model.Task, error) {
	matched := []model.Task{}
	for _, task := range s.tasks {
		if filter.Title != nil && task.Title != *filter.Title {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && (task.Priority == nil || *task.Priority != *filter.Priority) {
			continue
		}
		if filter.AssigneeID != nil && (task.AssigneeID == nil || *task.AssigneeID != *filter.AssigneeID) {
			continue
		}
		matched = append(matched, *task)
	}

	start := (opts.Page - 1) * opts.Limit
	if start >= len(matched) {
		return []model.Task{}, nil
	}
	end := start + opts.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (s *memTaskStore) Update(_ context.Context, task *model.Task) error {
	if _, ok := s.tasks[task.ID]; !ok {
		return repository.ErrTaskNotFound
	}
	stored := *task
	s.tasks[task.ID] = &stored
	return nil
}

func (s *memTaskStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.tasks[id]; !ok {
		return repository.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}
