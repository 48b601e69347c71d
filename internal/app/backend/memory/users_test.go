package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/cuetclass/internal/app/backend"
	"github.com/yigit/cuetclass/internal/app/models"
)

func TestStore_UserLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u, err := s.CreateUser(ctx, models.UserInput{
		Name: "Rafi Islam", Email: "u2304010@student.cuet.ac.bd", Role: models.RoleStudent,
		DepartmentCode: "CSE", StudentNumber: "2304010", Session: "2023-2024", Section: "B",
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", u.ID)

	_, err = s.CreateUser(ctx, models.UserInput{Name: "Dup", Email: "U2304010@student.cuet.ac.bd", Role: models.RoleStudent})
	assert.ErrorIs(t, err, backend.ErrConflict)

	u, err = s.UpdateUser(ctx, u.ID, models.UserInput{Name: "Rafi Islam", Email: u.Email, DepartmentCode: "EEE", Session: "2023-2024", Section: "A"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, u.Role, "role is kept when the edit leaves it blank")
	assert.Equal(t, "EEE", u.DepartmentCode)

	_, err = s.UpdateUser(ctx, u.ID, models.UserInput{Name: "Rafi Islam", Email: u.Email, Role: models.RoleTeacher})
	assert.ErrorIs(t, err, backend.ErrValidation)

	students, err := s.Users(ctx, models.RoleStudent)
	require.NoError(t, err)
	assert.Len(t, students, 4)

	require.NoError(t, s.DeleteUser(ctx, u.ID))
	assert.ErrorIs(t, s.DeleteUser(ctx, u.ID), backend.ErrNotFound)
}

func TestStore_CreateUserValidates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.CreateUser(ctx, models.UserInput{Name: " ", Email: "x@cuet.ac.bd", Role: models.RoleTeacher})
	assert.ErrorIs(t, err, backend.ErrValidation)

	_, err = s.CreateUser(ctx, models.UserInput{Name: "X", Email: "x@cuet.ac.bd", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, backend.ErrValidation)

	_, err = s.CreateUser(ctx, models.UserInput{Name: "X", Email: "x@cuet.ac.bd", Role: models.RoleTeacher, DepartmentCode: "BIO"})
	assert.ErrorIs(t, err, backend.ErrNotFound)

	teacher, err := s.CreateUser(ctx, models.UserInput{Name: "X", Email: "x@cuet.ac.bd", Role: models.RoleTeacher, Session: "2023-2024"})
	require.NoError(t, err)
	assert.Empty(t, teacher.Session, "teachers carry no cohort")
}

func TestStore_DeleteTeacherUnassignsClasses(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.DeleteUser(ctx, "teacher-1"))

	classes, err := s.Classes(ctx)
	require.NoError(t, err)
	assert.Empty(t, classes[0].TeacherID)
	assert.Empty(t, classes[0].TeacherName)

	teachers, err := s.Teachers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Teacher{{ID: "teacher-2", Name: "Prof. Hossain"}}, teachers)
}

func TestStore_DeleteStudentDropsEnrollmentsAndAttendance(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.SaveAttendance(ctx, models.AttendanceSheet{
		ClassID: "class-1", Date: "2024-01-15",
		Marks: []models.AttendanceMark{{StudentID: "student-2", Status: models.AttendancePresent}},
	}))

	require.NoError(t, s.DeleteUser(ctx, "student-2"))

	roster, err := s.Roster(ctx, "class-1")
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "student-3", roster[0].ID)

	marks, err := s.Attendance(ctx, "class-1", "2024-01-15")
	require.NoError(t, err)
	assert.Empty(t, marks)
}

func TestStore_SetClassRepresentative(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u, err := s.SetClassRepresentative(ctx, "student-3", true)
	require.NoError(t, err)
	assert.True(t, u.IsClassRepresentative)

	students, err := s.Users(ctx, models.RoleStudent)
	require.NoError(t, err)
	previous, _ := backend.FindUser(students, "student-2")
	assert.False(t, previous.IsClassRepresentative, "one representative per section")

	u, err = s.SetClassRepresentative(ctx, "student-3", false)
	require.NoError(t, err)
	assert.False(t, u.IsClassRepresentative)

	_, err = s.SetClassRepresentative(ctx, "teacher-1", true)
	assert.ErrorIs(t, err, backend.ErrConflict)
	_, err = s.SetClassRepresentative(ctx, "missing", true)
	assert.ErrorIs(t, err, backend.ErrNotFound)
}

func TestStore_MovingRepresentativeDropsFlag(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	students, err := s.Users(ctx, models.RoleStudent)
	require.NoError(t, err)
	cr, _ := backend.FindUser(students, "student-2")
	in := cr.Input()

	in.Name = "Tanvir Ahmed Khan"
	u, err := s.UpdateUser(ctx, cr.ID, in)
	require.NoError(t, err)
	assert.True(t, u.IsClassRepresentative, "same section keeps the flag")

	in.Section = "B"
	u, err = s.UpdateUser(ctx, cr.ID, in)
	require.NoError(t, err)
	assert.False(t, u.IsClassRepresentative)
}

func TestStore_Attendance(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	roster, err := s.Roster(ctx, "class-1")
	require.NoError(t, err)
	require.Len(t, roster, 2)

	sheet := models.AttendanceSheet{ClassID: "class-1", Date: "2024-01-15", MarkedBy: "teacher-1",
		Marks: []models.AttendanceMark{
			{StudentID: "student-3", Status: models.AttendanceLate},
			{StudentID: "student-2", Status: models.AttendancePresent},
		}}
	require.NoError(t, s.SaveAttendance(ctx, sheet))

	marks, err := s.Attendance(ctx, "class-1", "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, []models.AttendanceMark{
		{StudentID: "student-2", Status: models.AttendancePresent},
		{StudentID: "student-3", Status: models.AttendanceLate},
	}, marks)

	sheet.Marks = []models.AttendanceMark{{StudentID: "student-3", Status: models.AttendanceAbsent}}
	require.NoError(t, s.SaveAttendance(ctx, sheet))
	marks, err = s.Attendance(ctx, "class-1", "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceAbsent, marks[1].Status, "saving again overwrites")
	assert.Equal(t, models.AttendancePresent, marks[0].Status, "unmarked students are left alone")

	other, err := s.Attendance(ctx, "class-1", "2024-01-16")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestStore_SaveAttendanceRejects(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	mark := func(id string, st models.AttendanceStatus) []models.AttendanceMark {
		return []models.AttendanceMark{{StudentID: id, Status: st}}
	}

	tests := []struct {
		name  string
		sheet models.AttendanceSheet
		want  error
	}{
		{"no marks", models.AttendanceSheet{ClassID: "class-1", Date: "2024-01-15"}, backend.ErrValidation},
		{"bad date", models.AttendanceSheet{ClassID: "class-1", Date: "15/01/2024", Marks: mark("student-2", models.AttendancePresent)}, backend.ErrValidation},
		{"bad status", models.AttendanceSheet{ClassID: "class-1", Date: "2024-01-15", Marks: mark("student-2", "excused")}, backend.ErrValidation},
		{"not enrolled", models.AttendanceSheet{ClassID: "class-1", Date: "2024-01-15", Marks: mark("student-1", models.AttendancePresent)}, backend.ErrValidation},
		{"missing class", models.AttendanceSheet{ClassID: "missing", Date: "2024-01-15", Marks: mark("student-2", models.AttendancePresent)}, backend.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, s.SaveAttendance(ctx, tt.sheet), tt.want)
		})
	}
}
