package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassLabel(t *testing.T) {
	assert.Equal(t, "CSE-A", Class{DepartmentCode: "CSE", Section: "A"}.Label())
	assert.Equal(t, "CSE-21", Class{Code: "CSE-21", DepartmentCode: "CSE", Section: "A"}.Label())
}

func TestNewNotice_Scope(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	global := NewNotice("n1", NoticeInput{Title: "Holiday", Content: "Closed"}, at)
	assert.True(t, global.IsGlobal)
	assert.Empty(t, global.ClassID)

	scoped := NewNotice("n2", NoticeInput{Title: "Quiz", Content: "Friday", ClassID: "class-1"}, at)
	assert.False(t, scoped.IsGlobal)
	assert.Equal(t, "class-1", scoped.ClassID)
	assert.Equal(t, at, scoped.CreatedAt)
}

func TestEnrollmentRespond(t *testing.T) {
	requested := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	e := Enrollment{ID: "e1", Status: EnrollmentPending, RequestDate: requested}
	assert.Nil(t, e.ResponseDate)

	at := requested.Add(48 * time.Hour)
	require.NoError(t, e.Respond(EnrollmentApproved, at))
	assert.Equal(t, EnrollmentApproved, e.Status)
	require.NotNil(t, e.ResponseDate)
	assert.Equal(t, at, *e.ResponseDate)

	assert.Error(t, e.Respond(EnrollmentRejected, at), "already answered")
}

func TestEnrollmentRespond_RejectsPendingTarget(t *testing.T) {
	e := Enrollment{ID: "e1", Status: EnrollmentPending}
	assert.Error(t, e.Respond(EnrollmentPending, time.Now()))
	assert.Nil(t, e.ResponseDate)
}

func TestEnrollmentReapply(t *testing.T) {
	at := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	e := Enrollment{ID: "e1", Status: EnrollmentPending}
	require.NoError(t, e.Respond(EnrollmentRejected, at))

	later := at.Add(time.Hour)
	require.NoError(t, e.Reapply(later))
	assert.Equal(t, EnrollmentPending, e.Status)
	assert.Nil(t, e.ResponseDate)
	assert.Equal(t, later, e.RequestDate)

	assert.Error(t, e.Reapply(later), "pending cannot be reapplied")
}

func TestUser_InitialAndSectionKey(t *testing.T) {
	u := User{Name: " rahim uddin", DepartmentCode: "CSE", Section: "A", Session: "2023-24"}
	assert.Equal(t, "R", u.Initial())
	assert.Equal(t, "CSE-A-2023-24", u.SectionKey())
	assert.Equal(t, "?", User{}.Initial())
}

func TestSummarize(t *testing.T) {
	roster := []User{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}, {ID: "s4"}}
	marks := map[string]AttendanceStatus{
		"s1":       AttendancePresent,
		"s2":       AttendanceLate,
		"s3":       AttendanceAbsent,
		"outsider": AttendancePresent,
	}

	assert.Equal(t, AttendanceSummary{Total: 4, Present: 1, Late: 1, Absent: 1, Unmarked: 1}, Summarize(roster, marks))
	assert.False(t, AttendanceStatus("excused").Valid())
}
