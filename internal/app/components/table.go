package components

import (
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/yigit/cuetclass/internal/app/models"
	"github.com/yigit/cuetclass/internal/pkg/apperrors"
)

// Action identifies a row control
type Action string

const (
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionView   Action = "view"
)

// Column renders one cell per row
type Column[T any] struct {
	Header string
	Class  string
	Value  func(T) string
}

// Table lists entities with per-row Edit/Delete (and optional View) controls.
// It holds no state of its own and performs no I/O; controls only call back.
type Table[T any] struct {
	// Noun is the plural entity name used in the loading and empty messages
	Noun    string
	Columns []Column[T]
	Key     func(T) string

	Items   []T
	Loading bool

	OnEdit   func(T)
	OnDelete func(T)
	OnView   func(T)

	// Href builds the link of a row control; defaults to "?{action}={key}"
	Href func(action Action, key string) string
}

// TableView is the render model of a table
type TableView struct {
	Loading     bool
	LoadingText string
	EmptyText   string
	Headers     []HeaderView
	Rows        []RowView
}

// HeaderView is one column heading
type HeaderView struct {
	Label string
	Class string
}

// RowView is one rendered row
type RowView struct {
	Key     string
	Cells   []CellView
	Actions []ActionButton
}

// CellView is one rendered cell
type CellView struct {
	Text  string
	Class string
}

// Empty reports whether the empty-state message is shown
func (v TableView) Empty() bool {
	return !v.Loading && len(v.Rows) == 0
}

func (t *Table[T]) href(action Action, key string) string {
	if t.Href != nil {
		return t.Href(action, key)
	}
	return "?" + string(action) + "=" + url.QueryEscape(key)
}

func (t *Table[T]) actions(key string) []ActionButton {
	var out []ActionButton
	if t.OnView != nil {
		out = append(out, ActionButton{Label: "View", Icon: "eye", Variant: VariantGhost, Size: SizeSmall, Href: t.href(ActionView, key)})
	}
	if t.OnEdit != nil {
		out = append(out, ActionButton{Label: "Edit", Icon: "edit", Variant: VariantOutline, Size: SizeSmall, Href: t.href(ActionEdit, key)})
	}
	if t.OnDelete != nil {
		out = append(out, ActionButton{Label: "Delete", Icon: "trash-2", Variant: VariantDestructive, Size: SizeSmall, Href: t.href(ActionDelete, key)})
	}
	return out
}

// View builds the render model. Rows keep the order of Items.
func (t *Table[T]) View() TableView {
	v := TableView{
		Loading:     t.Loading,
		LoadingText: fmt.Sprintf("Loading %s...", t.Noun),
		EmptyText:   fmt.Sprintf("No %s found.", t.Noun),
	}
	for _, c := range t.Columns {
		v.Headers = append(v.Headers, HeaderView{Label: c.Header, Class: c.Class})
	}
	if t.Loading {
		return v
	}

	for _, item := range t.Items {
		key := t.Key(item)
		row := RowView{Key: key, Actions: t.actions(key)}
		for _, c := range t.Columns {
			row.Cells = append(row.Cells, CellView{Text: c.Value(item), Class: c.Class})
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

// Render implements Renderer
func (t *Table[T]) Render(w io.Writer) error {
	return render(w, "table", t.View())
}

// Trigger performs a row control: the handler receives the row's entity
// synchronously. Rows hidden by the loading state cannot be triggered.
func (t *Table[T]) Trigger(action Action, key string) error {
	if t.Loading {
		return apperrors.ErrActionUnavailable
	}

	var handler func(T)
	switch action {
	case ActionEdit:
		handler = t.OnEdit
	case ActionDelete:
		handler = t.OnDelete
	case ActionView:
		handler = t.OnView
	}
	if handler == nil {
		return fmt.Errorf("%s: %w", action, apperrors.ErrActionUnavailable)
	}

	for _, item := range t.Items {
		if t.Key(item) == key {
			handler(item)
			return nil
		}
	}
	return apperrors.NewResourceNotFoundError(fmt.Sprintf("no row %q", key))
}

// NewDepartmentTable lists departments by code and name
func NewDepartmentTable(items []models.Department, loading bool) *Table[models.Department] {
	return &Table[models.Department]{
		Noun: "departments",
		Columns: []Column[models.Department]{
			{Header: "Code", Class: "w-1/4 font-semibold", Value: func(d models.Department) string { return d.Code }},
			{Header: "Name", Value: func(d models.Department) string { return d.Name }},
		},
		Key:     func(d models.Department) string { return d.ID },
		Items:   items,
		Loading: loading,
	}
}

// DepartmentName resolves a department id to its name, falling back to the code
// and then to the raw id
func DepartmentName(departments []models.Department, id string) string {
	for _, d := range departments {
		if d.ID == id {
			if d.Name != "" {
				return d.Name
			}
			return d.Code
		}
	}
	return id
}

// NewCourseTable lists courses; the department column is resolved through departments
func NewCourseTable(items []models.Course, departments []models.Department, loading bool) *Table[models.Course] {
	return &Table[models.Course]{
		Noun: "courses",
		Columns: []Column[models.Course]{
			{Header: "Code", Class: "w-1/6 font-semibold", Value: func(c models.Course) string { return c.Code }},
			{Header: "Name", Value: func(c models.Course) string { return c.Name }},
			{Header: "Department", Value: func(c models.Course) string { return DepartmentName(departments, c.DepartmentID) }},
			{Header: "Credits", Value: func(c models.Course) string { return strconv.Itoa(c.Credits) }},
		},
		Key:     func(c models.Course) string { return c.ID },
		Items:   items,
		Loading: loading,
	}
}

// UnassignedTeacher is shown for classes without a teacher
const UnassignedTeacher = "Unassigned"

// NewClassTable lists classes; rows without a code show the derived label
func NewClassTable(items []models.Class, loading bool) *Table[models.Class] {
	return &Table[models.Class]{
		Noun: "classes",
		Columns: []Column[models.Class]{
			{Header: "Class Code", Class: "font-semibold", Value: models.Class.Label},
			{Header: "Course Name", Value: func(c models.Class) string { return c.CourseName }},
			{Header: "Department", Value: func(c models.Class) string { return c.DepartmentCode }},
			{Header: "Session", Value: func(c models.Class) string { return c.Session }},
			{Header: "Section", Value: func(c models.Class) string { return c.Section }},
			{Header: "Teacher", Value: func(c models.Class) string {
				if c.TeacherName == "" {
					return UnassignedTeacher
				}
				return c.TeacherName
			}},
		},
		Key:     func(c models.Class) string { return c.ID },
		Items:   items,
		Loading: loading,
	}
}

// ClassRepresentativeBadge marks a class representative in the student table
const ClassRepresentativeBadge = "CR"

// NewUserTable lists accounts of one role. Students also show their cohort
// and class representative status.
func NewUserTable(items []models.User, role models.RoleType, loading bool) *Table[models.User] {
	cols := []Column[models.User]{
		{Header: "Name", Class: "font-semibold", Value: func(u models.User) string { return u.Name }},
		{Header: "Email", Value: func(u models.User) string { return u.Email }},
		{Header: "Department", Value: func(u models.User) string { return u.DepartmentCode }},
	}
	if role == models.RoleStudent {
		cols = append(cols,
			Column[models.User]{Header: "Session", Value: func(u models.User) string { return u.Session }},
			Column[models.User]{Header: "Section", Value: func(u models.User) string { return u.Section }},
			Column[models.User]{Header: "CR Status", Value: func(u models.User) string {
				if u.IsClassRepresentative {
					return ClassRepresentativeBadge
				}
				return ""
			}},
		)
	}
	return &Table[models.User]{
		Noun:    string(role) + "s",
		Columns: cols,
		Key:     func(u models.User) string { return u.ID },
		Items:   items,
		Loading: loading,
	}
}
