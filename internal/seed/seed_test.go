package seed

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/cuetclass/internal/app/backend/memory"
	"github.com/yigit/cuetclass/internal/app/models"
)

type recordingExecer struct {
	statements []string
	args       [][]any
	failOn     string
}

func (r *recordingExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.statements = append(r.statements, sql)
	r.args = append(r.args, args)
	if r.failOn != "" && strings.Contains(sql, r.failOn) {
		return pgconn.CommandTag{}, errors.New("boom")
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestInsert_WritesEveryRow(t *testing.T) {
	data := memory.DefaultSeed()
	rec := &recordingExecer{}

	require.NoError(t, Insert(context.Background(), rec, data))

	want := len(data.Departments) + len(data.Courses) + len(data.Users) +
		len(data.Classes) + len(data.Enrollments) + len(data.Notices)
	assert.Len(t, rec.statements, want)
	for _, s := range rec.statements {
		assert.Contains(t, s, "ON CONFLICT DO NOTHING")
	}
	assert.Contains(t, rec.statements[0], "INSERT INTO departments")
}

func TestInsert_UnassignedTeacherIsNull(t *testing.T) {
	data := memory.DefaultSeed()
	rec := &recordingExecer{}
	require.NoError(t, Insert(context.Background(), rec, data))

	for i, s := range rec.statements {
		if strings.Contains(s, "INSERT INTO classes") && rec.args[i][0] == "class-3" {
			assert.Nil(t, rec.args[i][6])
			return
		}
	}
	t.Fatal("class-3 was not inserted")
}

func TestInsert_ContinuesAfterFailure(t *testing.T) {
	data := memory.DefaultSeed()
	rec := &recordingExecer{failOn: "INSERT INTO courses"}

	err := Insert(context.Background(), rec, data)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed course CSE-101")
	assert.True(t, len(rec.statements) > len(data.Departments)+len(data.Courses))
}

func TestInsert_UsersGoToTheirRoleTable(t *testing.T) {
	data := memory.DefaultSeed()
	rec := &recordingExecer{}
	require.NoError(t, Insert(context.Background(), rec, data))

	var teachers, students int
	for i, s := range rec.statements {
		switch {
		case strings.Contains(s, "INSERT INTO teachers"):
			teachers++
		case strings.Contains(s, "INSERT INTO students"):
			students++
			if rec.args[i][0] == "student-2" {
				assert.Equal(t, true, rec.args[i][8], "seeded representative")
			}
		}
	}
	assert.Equal(t, 2, teachers)
	assert.Equal(t, 3, students)
}

func TestInsert_RejectsAdminUser(t *testing.T) {
	data := memory.Seed{Users: []models.User{{ID: "admin-1", Role: models.RoleAdmin}}}
	err := Insert(context.Background(), &recordingExecer{}, data)
	assert.ErrorContains(t, err, "unsupported role")
}
