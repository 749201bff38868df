package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/taskline/taskline-go/internal/model"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrUnknownField = errors.New("unknown task field")
	ErrInvalidSort  = errors.New("sort must be in the format field:asc or field:desc")
)

// taskFieldColumns maps API field names to their backing columns. It is the
// whitelist for projections and sorting.
var taskFieldColumns = map[string]string{
	"id":          "id",
	"title":       "title",
	"description": "description",
	"dueDate":     "due_date",
	"priority":    "priority",
	"status":      "status",
	"assigneeId":  "assignee_id",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

// defaultTaskFields is the projection used when the caller names none.
var defaultTaskFields = []string{
	"id", "title", "description", "dueDate", "priority",
	"status", "assigneeId", "createdAt", "updatedAt",
}

// TaskRepository handles task persistence operations.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new task and sets the generated ID on the task struct.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	query := `INSERT INTO tasks (title, description, due_date, priority, status, assignee_id)
		VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, task.DueDate, task.Priority, task.Status, task.AssigneeID,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	task.ID = id
	return nil
}

// GetByID retrieves a task by id, projected to the given fields (default
// projection when fields is empty).
func (r *TaskRepository) GetByID(ctx context.Context, id int64, fields []string) (*model.Task, error) {
	resolved, columns, err := selectColumns(fields)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + strings.Join(columns, ", ") + ` FROM tasks WHERE id = ?`

	task, err := scanTask(resolved, r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// List retrieves tasks matching the equality filter, sorted and paginated
// per the options.
func (r *TaskRepository) List(ctx context.Context, filter model.TaskFilter, opts model.QueryOptions) ([]model.Task, error) {
	resolved, columns, err := selectColumns(opts.Fields)
	if err != nil {
		return nil, err
	}

	where, args := whereClause(filter)

	order, err := orderClause(opts.SortBy)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + strings.Join(columns, ", ") + ` FROM tasks` + where +
		` ORDER BY ` + order + ` LIMIT ? OFFSET ?`
	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task, err := scanTask(resolved, rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	return tasks, rows.Err()
}

// Update writes all mutable columns of the task.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	query := `UPDATE tasks SET title = ?, description = ?, due_date = ?, priority = ?,
		status = ?, assignee_id = ?, updated_at = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, task.DueDate, task.Priority,
		task.Status, task.AssigneeID, task.UpdatedAt, task.ID,
	)
	return err
}

// Delete permanently removes a task.
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// selectColumns resolves a projection against the field whitelist, returning
// the resolved field names and their columns. Empty input selects the
// default projection.
func selectColumns(fields []string) ([]string, []string, error) {
	if len(fields) == 0 {
		fields = defaultTaskFields
	}

	columns := make([]string, 0, len(fields))
	for _, f := range fields {
		col, ok := taskFieldColumns[f]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownField, f)
		}
		columns = append(columns, col)
	}
	return fields, columns, nil
}

// whereClause builds the WHERE clause for an equality filter. It returns an
// empty string when the filter has no constraints.
func whereClause(filter model.TaskFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Title != nil {
		conds = append(conds, "title = ?")
		args = append(args, *filter.Title)
	}
	if filter.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Priority != nil {
		conds = append(conds, "priority = ?")
		args = append(args, *filter.Priority)
	}
	if filter.AssigneeID != nil {
		conds = append(conds, "assignee_id = ?")
		args = append(args, *filter.AssigneeID)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderClause parses a "field:asc|desc" sort option against the field
// whitelist. Empty input sorts by created_at descending.
func orderClause(sortBy string) (string, error) {
	if sortBy == "" {
		return "created_at DESC", nil
	}

	field, dir, found := strings.Cut(sortBy, ":")
	if !found {
		return "", ErrInvalidSort
	}

	col, ok := taskFieldColumns[field]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	switch dir {
	case "asc":
		return col + " ASC", nil
	case "desc":
		return col + " DESC", nil
	}
	return "", ErrInvalidSort
}

// scanTask scans one row into a Task according to the projected fields.
// Unprojected fields are left at their zero values.
func scanTask(fields []string, row interface{ Scan(...any) error }) (*model.Task, error) {
	task := &model.Task{}

	var (
		description sql.NullString
		dueDate     sql.NullTime
		priority    sql.NullInt64
		status      string
		assigneeID  sql.NullInt64
	)

	dests := make([]any, 0, len(fields))
	for _, f := range fields {
		switch f {
		case "id":
			dests = append(dests, &task.ID)
		case "title":
			dests = append(dests, &task.Title)
		case "description":
			dests = append(dests, &description)
		case "dueDate":
			dests = append(dests, &dueDate)
		case "priority":
			dests = append(dests, &priority)
		case "status":
			dests = append(dests, &status)
		case "assigneeId":
			dests = append(dests, &assigneeID)
		case "createdAt":
			dests = append(dests, &task.CreatedAt)
		case "updatedAt":
			dests = append(dests, &task.UpdatedAt)
		}
	}

	if err := row.Scan(dests...); err != nil {
		return nil, err
	}

	if description.Valid {
		task.Description = &description.String
	}
	if dueDate.Valid {
		task.DueDate = &dueDate.Time
	}
	if priority.Valid {
		p := int(priority.Int64)
		task.Priority = &p
	}
	task.Status = model.TaskStatus(status)
	if assigneeID.Valid {
		task.AssigneeID = &assigneeID.Int64
	}

	return task, nil
}
