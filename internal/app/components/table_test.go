package components

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/cuetclass/internal/app/models"
	"github.com/yigit/cuetclass/internal/pkg/apperrors"
)

func renderString(t *testing.T, r Renderer) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf))
	return buf.String()
}

func TestDepartmentTable_SingleRow(t *testing.T) {
	table := NewDepartmentTable([]models.Department{{ID: "1", Code: "CSE", Name: "Computer Science"}}, false)
	table.OnEdit = func(models.Department) {}
	table.OnDelete = func(models.Department) {}

	v := table.View()
	require.Len(t, v.Rows, 1)
	assert.Equal(t, []CellView{{Text: "CSE", Class: "w-1/4 font-semibold"}, {Text: "Computer Science"}}, v.Rows[0].Cells)

	require.Len(t, v.Rows[0].Actions, 2)
	for _, a := range v.Rows[0].Actions {
		assert.False(t, a.Disabled, a.Label)
	}
	assert.Equal(t, "Edit", v.Rows[0].Actions[0].Label)
	assert.Equal(t, "Delete", v.Rows[0].Actions[1].Label)

	html := renderString(t, table)
	assert.Contains(t, html, "CSE")
	assert.Contains(t, html, "Computer Science")
	assert.Contains(t, html, `href="?edit=1"`)
	assert.Contains(t, html, `href="?delete=1"`)
}

func TestTable_LoadingHidesRows(t *testing.T) {
	table := NewDepartmentTable([]models.Department{{ID: "1", Code: "CSE", Name: "Computer Science"}}, true)
	table.OnEdit = func(models.Department) {}

	v := table.View()
	assert.True(t, v.Loading)
	assert.Empty(t, v.Rows)

	html := renderString(t, table)
	assert.Contains(t, html, "Loading departments...")
	assert.NotContains(t, html, "Computer Science")

	assert.ErrorIs(t, table.Trigger(ActionEdit, "1"), apperrors.ErrActionUnavailable)
}

func TestTable_EmptyHasNoControls(t *testing.T) {
	table := NewCourseTable(nil, nil, false)
	table.OnEdit = func(models.Course) {}
	table.OnDelete = func(models.Course) {}

	v := table.View()
	assert.True(t, v.Empty())

	html := renderString(t, table)
	assert.Contains(t, html, "No courses found.")
	assert.NotContains(t, html, "Edit")
	assert.NotContains(t, html, "Delete")
}

func TestTable_KeepsGivenOrder(t *testing.T) {
	items := []models.Department{
		{ID: "3", Code: "ME"},
		{ID: "1", Code: "CE"},
		{ID: "2", Code: "EEE"},
	}
	v := NewDepartmentTable(items, false).View()

	var keys []string
	for _, r := range v.Rows {
		keys = append(keys, r.Key)
	}
	assert.Equal(t, []string{"3", "1", "2"}, keys)
}

func TestClassTable_DerivedLabelAndFallbacks(t *testing.T) {
	table := NewClassTable([]models.Class{
		{ID: "c1", DepartmentCode: "EEE", Section: "B", CourseName: "Electronics I", Session: "2023-24"},
		{ID: "c2", Code: "CSE-21", DepartmentCode: "CSE", Section: "A", TeacherName: "Dr. Rahman"},
	}, false)

	v := table.View()
	require.Len(t, v.Rows, 2)
	assert.Equal(t, "EEE-B", v.Rows[0].Cells[0].Text)
	assert.Equal(t, UnassignedTeacher, v.Rows[0].Cells[5].Text)
	assert.Equal(t, "CSE-21", v.Rows[1].Cells[0].Text)
	assert.Equal(t, "Dr. Rahman", v.Rows[1].Cells[5].Text)
	assert.Empty(t, v.Rows[0].Actions, "no handlers, no controls")
}

func TestCourseTable_ResolvesDepartment(t *testing.T) {
	depts := []models.Department{{ID: "d1", Code: "CSE", Name: "Computer Science"}, {ID: "d2", Code: "EEE"}}
	v := NewCourseTable([]models.Course{
		{ID: "c1", Code: "CSE-101", DepartmentID: "d1", Credits: 3},
		{ID: "c2", Code: "EEE-101", DepartmentID: "d2", Credits: 4},
		{ID: "c3", Code: "X-1", DepartmentID: "gone", Credits: 1},
	}, depts, false).View()

	assert.Equal(t, "Computer Science", v.Rows[0].Cells[2].Text)
	assert.Equal(t, "EEE", v.Rows[1].Cells[2].Text)
	assert.Equal(t, "4", v.Rows[1].Cells[3].Text)
	assert.Equal(t, "gone", v.Rows[2].Cells[2].Text)
}

func TestTable_TriggerInvokesHandlerWithRow(t *testing.T) {
	var edited, deleted []string
	table := NewDepartmentTable([]models.Department{{ID: "1", Code: "CSE"}, {ID: "2", Code: "EEE"}}, false)
	table.OnEdit = func(d models.Department) { edited = append(edited, d.Code) }
	table.OnDelete = func(d models.Department) { deleted = append(deleted, d.Code) }

	require.NoError(t, table.Trigger(ActionEdit, "2"))
	require.NoError(t, table.Trigger(ActionDelete, "1"))
	assert.Equal(t, []string{"EEE"}, edited)
	assert.Equal(t, []string{"CSE"}, deleted)

	assert.ErrorIs(t, table.Trigger(ActionView, "1"), apperrors.ErrActionUnavailable)
	assert.ErrorIs(t, table.Trigger(ActionEdit, "9"), apperrors.ErrResourceNotFound)
}

func TestTable_ViewControlAndCustomHref(t *testing.T) {
	table := NewClassTable([]models.Class{{ID: "c1", Code: "CSE-21"}}, false)
	table.OnView = func(models.Class) {}
	table.Href = func(a Action, key string) string { return "/admin/classes/" + key + "/" + string(a) }

	v := table.View()
	require.Len(t, v.Rows[0].Actions, 1)
	assert.Equal(t, "View", v.Rows[0].Actions[0].Label)
	assert.Equal(t, "/admin/classes/c1/view", v.Rows[0].Actions[0].Href)
}

func TestUserTable_StudentColumns(t *testing.T) {
	students := []models.User{
		{ID: "s1", Name: "Tanvir Ahmed", Email: "t@cuet.ac.bd", DepartmentCode: "CSE", Session: "2023-2024", Section: "A", IsClassRepresentative: true},
		{ID: "s2", Name: "Nusrat Jahan", Email: "n@cuet.ac.bd", DepartmentCode: "CSE", Session: "2023-2024", Section: "A"},
	}
	v := NewUserTable(students, models.RoleStudent, false).View()

	var headers []string
	for _, h := range v.Headers {
		headers = append(headers, h.Label)
	}
	assert.Equal(t, []string{"Name", "Email", "Department", "Session", "Section", "CR Status"}, headers)
	require.Len(t, v.Rows, 2)
	assert.Equal(t, ClassRepresentativeBadge, v.Rows[0].Cells[5].Text)
	assert.Empty(t, v.Rows[1].Cells[5].Text)
}

func TestUserTable_TeacherColumnsAndEmptyState(t *testing.T) {
	table := NewUserTable(nil, models.RoleTeacher, false)
	v := table.View()

	assert.Len(t, v.Headers, 3)
	assert.True(t, v.Empty())
	assert.Contains(t, renderString(t, table), "No teachers found.")
}
