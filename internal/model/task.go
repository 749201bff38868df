package model

import (
	"errors"
	"time"
)

var (
	ErrTitleRequired      = errors.New("title is required")
	ErrAssigneeIDRequired = errors.New("Assignee ID is required")
	ErrStatusRequired     = errors.New("Status is required")
	ErrInvalidStatus      = errors.New("status must be one of open, in_progress, completed")
	ErrInvalidPriority    = errors.New("priority must be between 1 and 5")
	ErrEmptyPatch         = errors.New("update payload must contain at least one field")
)

// TaskStatus is the task lifecycle state. There is no guarded transition
// graph: any status may follow any other.
type TaskStatus string

const (
	StatusOpen       TaskStatus = "open"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// NormalizeStatus maps an input status string to its canonical form. The
// legacy spelling "in progress" is accepted and normalized to "in_progress".
func NormalizeStatus(s string) (TaskStatus, bool) {
	switch s {
	case "open":
		return StatusOpen, true
	case "in_progress", "in progress":
		return StatusInProgress, true
	case "completed":
		return StatusCompleted, true
	}
	return "", false
}

// Task represents a task record. Optional columns are pointers so that
// absent values serialize as null and projections can omit them.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	Status      TaskStatus `json:"status,omitempty"`
	AssigneeID  *int64     `json:"assigneeId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    *int       `json:"priority"`
	AssigneeID  *int64     `json:"assigneeId"`
	Status      string     `json:"status"`
}

// Validate checks the creation payload. Status defaults to "open" when
// absent; the assignee is required at creation time.
func (r CreateTaskRequest) Validate() error {
	if r.Title == "" {
		return ErrTitleRequired
	}
	if r.AssigneeID == nil {
		return ErrAssigneeIDRequired
	}
	if r.Priority != nil && (*r.Priority < 1 || *r.Priority > 5) {
		return ErrInvalidPriority
	}
	if r.Status != "" {
		if _, ok := NormalizeStatus(r.Status); !ok {
			return ErrInvalidStatus
		}
	}
	return nil
}

// UpdateTaskRequest represents a partial task update. Nil fields are left
// untouched.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    *int       `json:"priority"`
	AssigneeID  *int64     `json:"assigneeId"`
	Status      *string    `json:"status"`
}

// Validate checks the patch payload and requires at least one field.
func (r UpdateTaskRequest) Validate() error {
	if r.Title == nil && r.Description == nil && r.DueDate == nil &&
		r.Priority == nil && r.AssigneeID == nil && r.Status == nil {
		return ErrEmptyPatch
	}
	if r.Title != nil && *r.Title == "" {
		return ErrTitleRequired
	}
	if r.Priority != nil && (*r.Priority < 1 || *r.Priority > 5) {
		return ErrInvalidPriority
	}
	if r.Status != nil {
		if _, ok := NormalizeStatus(*r.Status); !ok {
			return ErrInvalidStatus
		}
	}
	return nil
}

// AssignTaskRequest carries the new assignee for the dedicated assign
// endpoint.
type AssignTaskRequest struct {
	AssigneeID *int64 `json:"assigneeId"`
}

// UpdateTaskStatusRequest carries the new status for the dedicated status
// endpoint.
type UpdateTaskStatusRequest struct {
	Status *string `json:"status"`
}

// TaskFilter is an equality filter over task columns. Nil fields do not
// constrain the query. Services are filter-agnostic: callers (controllers)
// supply any assignee scoping.
type TaskFilter struct {
	Title      *string
	Status     *TaskStatus
	Priority   *int
	AssigneeID *int64
}

// QueryOptions controls sorting, pagination and field projection for task
// queries.
type QueryOptions struct {
	// SortBy is "field:asc" or "field:desc"; empty means created_at desc.
	SortBy string
	// Page is 1-based; values below 1 are treated as 1.
	Page int
	// Limit is the page size; values below 1 default to 10, capped at 100.
	Limit int
	// Fields projects the result to the named fields. Empty means the
	// default projection.
	Fields []string
}
