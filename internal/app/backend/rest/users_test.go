package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/cuetclass/internal/app/backend"
	"github.com/yigit/cuetclass/internal/app/models"
)

func TestClient_UsersFiltersByRole(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/admin/users", r.URL.Path)
		assert.Equal(t, "student", r.URL.Query().Get("role"))
		_ = json.NewEncoder(w).Encode([]models.User{{ID: "s1", Name: "Ayesha", Role: models.RoleStudent, DepartmentCode: "CSE"}})
	})

	got, err := c.Users(context.Background(), models.RoleStudent)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "CSE", got[0].DepartmentCode)
}

func TestClient_UserMutations(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.Body != nil && r.ContentLength > 0 {
			var in models.UserInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "u@cuet.ac.bd", in.Email)
		}
		_ = json.NewEncoder(w).Encode(models.User{ID: "u1"})
	})
	ctx := context.Background()
	in := models.UserInput{Name: "U", Email: "u@cuet.ac.bd", Role: models.RoleTeacher}

	_, err := c.CreateUser(ctx, in)
	require.NoError(t, err)
	_, err = c.UpdateUser(ctx, "u1", in)
	require.NoError(t, err)
	require.NoError(t, c.DeleteUser(ctx, "u1"))
	_, err = c.SetClassRepresentative(ctx, "u1", true)
	require.NoError(t, err)
	_, err = c.SetClassRepresentative(ctx, "u1", false)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"POST /api/admin/users",
		"PUT /api/admin/users/u1",
		"DELETE /api/admin/users/u1",
		"POST /api/admin/users/u1/promote-cr",
		"POST /api/admin/users/u1/demote-cr",
	}, seen)
}

func TestClient_PromoteTeacherConflicts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(apiError{Error: "user is not a student"})
	})

	_, err := c.SetClassRepresentative(context.Background(), "teacher-1", true)
	assert.ErrorIs(t, err, backend.ErrConflict)
	assert.ErrorContains(t, err, "not a student")
}

func TestClient_Attendance(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/teacher/classes/class-1/attendance", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "2024-01-15", r.URL.Query().Get("date"))
			_, _ = w.Write([]byte(`[{"student_id":"s1","status":"late"}]`))
		case http.MethodPost:
			assert.Equal(t, "teacher-1", r.Header.Get(userHeader))
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "class-1", body["class_id"])
			assert.Equal(t, "2024-01-15", body["date"])
			assert.Len(t, body["records"], 1)
			assert.NotContains(t, body, "MarkedBy")
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()

	marks, err := c.Attendance(ctx, "class-1", "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, []models.AttendanceMark{{StudentID: "s1", Status: models.AttendanceLate}}, marks)

	err = c.SaveAttendance(ctx, models.AttendanceSheet{ClassID: "class-1", Date: "2024-01-15", MarkedBy: "teacher-1",
		Marks: []models.AttendanceMark{{StudentID: "s1", Status: models.AttendancePresent}}})
	require.NoError(t, err)
}

func TestClient_Roster(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/teacher/classes/class-1/students", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]models.User{{ID: "s1"}, {ID: "s2"}})
	})

	got, err := c.Roster(context.Background(), "class-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
