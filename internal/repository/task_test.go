package repository

import (
	"errors"
	"reflect"
	"testing"

	"github.com/taskline/taskline-go/internal/model"
)

func TestWhereClauseEmpty(t *testing.T) {
	where, args := whereClause(model.TaskFilter{})
	if where != "" {
		t.Errorf("expected empty clause, got %q", where)
	}
	if args != nil {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestWhereClauseSingleCondition(t *testing.T) {
	status := model.StatusOpen
	where, args := whereClause(model.TaskFilter{Status: &status})

	if where != " WHERE status = ?" {
		t.Errorf("unexpected clause: %q", where)
	}
	if !reflect.DeepEqual(args, []any{model.StatusOpen}) {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestWhereClauseAllConditions(t *testing.T) {
	title := "report"
	status := model.StatusCompleted
	priority := 2
	assignee := int64(7)

	where, args := whereClause(model.TaskFilter{
		Title:      &title,
		Status:     &status,
		Priority:   &priority,
		AssigneeID: &assignee,
	})

	want := " WHERE title = ? AND status = ? AND priority = ? AND assignee_id = ?"
	if where != want {
		t.Errorf("clause = %q, want %q", where, want)
	}
	if len(args) != 4 {
		t.Errorf("expected 4 args, got %d", len(args))
	}
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name    string
		sortBy  string
		want    string
		wantErr bool
	}{
		{name: "default", sortBy: "", want: "created_at DESC"},
		{name: "ascending", sortBy: "priority:asc", want: "priority ASC"},
		{name: "descending", sortBy: "dueDate:desc", want: "due_date DESC"},
		{name: "missing direction", sortBy: "priority", wantErr: true},
		{name: "bad direction", sortBy: "priority:up", wantErr: true},
		{name: "unknown field", sortBy: "password:asc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := orderClause(tt.sortBy)
			if tt.wantErr {
				if err == nil {
					t.Errorf("orderClause(%q) expected error", tt.sortBy)
				}
				return
			}
			if err != nil {
				t.Fatalf("orderClause(%q) unexpected error: %v", tt.sortBy, err)
			}
			if got != tt.want {
				t.Errorf("orderClause(%q) = %q, want %q", tt.sortBy, got, tt.want)
			}
		})
	}
}

func TestSelectColumnsDefault(t *testing.T) {
	fields, columns, err := selectColumns(nil)
	if err != nil {
		t.Fatalf("selectColumns(nil) unexpected error: %v", err)
	}
	if len(fields) != len(defaultTaskFields) || len(columns) != len(defaultTaskFields) {
		t.Errorf("expected default projection of %d fields, got %d/%d", len(defaultTaskFields), len(fields), len(columns))
	}
}

func TestSelectColumnsProjection(t *testing.T) {
	fields, columns, err := selectColumns([]string{"id", "title", "assigneeId"})
	if err != nil {
		t.Fatalf("selectColumns() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(fields, []string{"id", "title", "assigneeId"}) {
		t.Errorf("unexpected fields: %v", fields)
	}
	if !reflect.DeepEqual(columns, []string{"id", "title", "assignee_id"}) {
		t.Errorf("unexpected columns: %v", columns)
	}
}

func TestSelectColumnsUnknownField(t *testing.T) {
	_, _, err := selectColumns([]string{"id", "passwordHash"})
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}
