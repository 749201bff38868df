package service

import (
	"context"
	"errors"
	"time"

	"github.com/taskline/taskline-go/internal/model"
	"github.com/taskline/taskline-go/internal/repository"
)

var (
	ErrTaskNotFound     = errors.New("Task not found")
	ErrAssigneeNotFound = errors.New("assignee not found")
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// TaskStore is the persistence surface the task service needs. It is
// satisfied by *repository.TaskRepository.
type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id int64, fields []string) (*model.Task, error)
	List(ctx context.Context, filter model.TaskFilter, opts model.QueryOptions) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id int64) error
}

// AssigneeStore resolves user ids when validating task assignments.
type AssigneeStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// TaskService handles task business logic. It applies no scoping of its
// own: callers supply any assignee restriction through the filter.
type TaskService struct {
	tasks TaskStore
	users AssigneeStore
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks TaskStore, users AssigneeStore) *TaskService {
	return &TaskService{tasks: tasks, users: users}
}

// CreateTask inserts a new task. Status defaults to "open" when absent; the
// assignee must reference an existing user.
func (s *TaskService) CreateTask(ctx context.Context, req model.CreateTaskRequest) (*model.Task, error) {
	status := model.StatusOpen
	if req.Status != "" {
		normalized, ok := model.NormalizeStatus(req.Status)
		if !ok {
			return nil, model.ErrInvalidStatus
		}
		status = normalized
	}

	if req.AssigneeID != nil {
		if err := s.checkAssignee(ctx, *req.AssigneeID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	task := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      status,
		AssigneeID:  req.AssigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// QueryTasks returns a page of tasks matching the equality filter, sorted
// and projected per the options. Pagination defaults: page 1, limit 10.
func (s *TaskService) QueryTasks(ctx context.Context, filter model.TaskFilter, opts model.QueryOptions) ([]model.Task, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = defaultPageLimit
	}
	if opts.Limit > maxPageLimit {
		opts.Limit = maxPageLimit
	}

	return s.tasks.List(ctx, filter, opts)
}

// GetTaskByID returns the projected task, or (nil, nil) when no task has
// that id. Callers decide whether absence is an error.
func (s *TaskService) GetTaskByID(ctx context.Context, id int64, fields ...string) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return task, nil
}

// UpdateTaskByID applies a partial update and returns the updated record.
// It fails with ErrTaskNotFound when no task has that id.
func (s *TaskService) UpdateTaskByID(ctx context.Context, id int64, patch model.UpdateTaskRequest) (*model.Task, error) {
	task, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = patch.Description
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if patch.Priority != nil {
		if *patch.Priority < 1 || *patch.Priority > 5 {
			return nil, model.ErrInvalidPriority
		}
		task.Priority = patch.Priority
	}
	if patch.Status != nil {
		status, ok := model.NormalizeStatus(*patch.Status)
		if !ok {
			return nil, model.ErrInvalidStatus
		}
		task.Status = status
	}
	if patch.AssigneeID != nil {
		if err := s.checkAssignee(ctx, *patch.AssigneeID); err != nil {
			return nil, err
		}
		task.AssigneeID = patch.AssigneeID
	}

	task.UpdatedAt = time.Now().UTC()

	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	return task, nil
}

// DeleteTaskByID permanently removes the task and returns the pre-deletion
// snapshot. It fails with ErrTaskNotFound when no task has that id.
func (s *TaskService) DeleteTaskByID(ctx context.Context, id int64) (*model.Task, error) {
	task, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	return task, nil
}

// checkAssignee verifies that the assignee references an existing user.
func (s *TaskService) checkAssignee(ctx context.Context, assigneeID int64) error {
	_, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrAssigneeNotFound
		}
		return err
	}
	return nil
}
