package components

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/cuetclass/internal/app/models"
	"github.com/yigit/cuetclass/internal/app/notify"
	"github.com/yigit/cuetclass/internal/pkg/apperrors"
)

var testRoster = []models.User{
	{ID: "s1", Name: "Ayesha Siddiqua", Email: "a@cuet.ac.bd", Role: models.RoleStudent},
	{ID: "s2", Name: "Tanvir Ahmed", Email: "t@cuet.ac.bd", Role: models.RoleStudent, IsClassRepresentative: true},
	{ID: "s3", Name: "nusrat", Email: "n@cuet.ac.bd", Role: models.RoleStudent},
}

type saverFunc func(ctx context.Context, sheet models.AttendanceSheet) error

func (f saverFunc) SaveAttendance(ctx context.Context, sheet models.AttendanceSheet) error {
	return f(ctx, sheet)
}

func TestAttendanceGrid_MarkAndSummary(t *testing.T) {
	g := NewAttendanceGrid("class-1", "teacher-1", "2024-03-04", testRoster,
		[]models.AttendanceMark{{StudentID: "s1", Status: models.AttendancePresent}}, nil, nil)

	assert.Equal(t, models.AttendancePresent, g.Status("s1"))
	require.NoError(t, g.Mark("s2", models.AttendanceLate))
	assert.ErrorIs(t, g.Mark("s3", "excused"), apperrors.ErrValidationFailed)
	assert.ErrorIs(t, g.Mark("ghost", models.AttendanceAbsent), apperrors.ErrResourceNotFound)

	assert.Equal(t, models.AttendanceSummary{Total: 3, Present: 1, Late: 1, Unmarked: 1}, g.Summary())

	g.ClearAll()
	assert.Equal(t, models.AttendanceSummary{Total: 3, Unmarked: 3}, g.Summary())
	assert.False(t, g.CanSave())
}

func TestAttendanceGrid_SetValuesIgnoresUnknown(t *testing.T) {
	g := NewAttendanceGrid("class-1", "teacher-1", "2024-03-04", testRoster, nil, nil, nil)

	g.SetValues(url.Values{
		"status[s1]":    {"absent"},
		"status[s2]":    {"sleeping"},
		"status[ghost]": {"present"},
	})

	assert.Equal(t, models.AttendanceAbsent, g.Status("s1"))
	assert.Empty(t, g.Status("s2"))
	assert.Equal(t, 2, g.Summary().Unmarked)
}

func TestAttendanceGrid_SaveSendsRosterOrderOnce(t *testing.T) {
	release := make(chan struct{})
	var got []models.AttendanceSheet
	var mu sync.Mutex
	rec := &notify.Recorder{}
	g := NewAttendanceGrid("class-1", "teacher-1", "2024-03-04", testRoster, nil,
		saverFunc(func(_ context.Context, sheet models.AttendanceSheet) error {
			<-release
			mu.Lock()
			got = append(got, sheet)
			mu.Unlock()
			return nil
		}), rec)

	assert.ErrorIs(t, g.Save(context.Background()), apperrors.ErrActionDisabled)

	require.NoError(t, g.Mark("s3", models.AttendanceAbsent))
	require.NoError(t, g.Mark("s1", models.AttendancePresent))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, g.Save(context.Background()))
	}()
	require.Eventually(t, g.Saving, time.Second, 5*time.Millisecond)
	assert.False(t, g.CanSave())
	assert.ErrorIs(t, g.Save(context.Background()), apperrors.ErrInFlight)
	close(release)
	wg.Wait()

	require.Len(t, got, 1)
	assert.Equal(t, models.AttendanceSheet{
		ClassID: "class-1", Date: "2024-03-04", MarkedBy: "teacher-1",
		Marks: []models.AttendanceMark{
			{StudentID: "s1", Status: models.AttendancePresent},
			{StudentID: "s3", Status: models.AttendanceAbsent},
		},
	}, got[0])
	assert.Equal(t, []notify.Notification{AttendanceSaved}, rec.All())
}

func TestAttendanceGrid_FailureNotifiesRequestNotifier(t *testing.T) {
	var fallback, carried notify.Recorder
	boom := errors.New("down")
	g := NewAttendanceGrid("class-1", "teacher-1", "2024-03-04", testRoster, nil,
		saverFunc(func(context.Context, models.AttendanceSheet) error { return boom }), &fallback)
	require.NoError(t, g.Mark("s2", models.AttendanceLate))

	err := g.Save(notify.NewContext(context.Background(), &carried))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []notify.Notification{AttendanceSaveFailed}, carried.All())
	assert.Empty(t, fallback.All())
	assert.Equal(t, models.AttendanceLate, g.Status("s2"), "marks survive a failed save")
}

func TestAttendanceGrid_Render(t *testing.T) {
	g := NewAttendanceGrid("class-1", "teacher-1", "2024-03-04", testRoster,
		[]models.AttendanceMark{{StudentID: "s2", Status: models.AttendanceLate}}, nil, nil)
	g.Action = "/teacher/classes/class-1/attendance"

	v := g.View()
	require.Len(t, v.Rows, 3)
	assert.Equal(t, "AS", v.Rows[0].Initials)
	assert.Equal(t, "N", v.Rows[2].Initials)
	assert.Equal(t, "Late", v.Rows[1].Choices[1].Label)
	assert.True(t, v.Rows[1].Choices[1].Checked)

	html := renderString(t, g)
	assert.Contains(t, html, `value="2024-03-04"`)
	assert.Contains(t, html, `action="/teacher/classes/class-1/attendance"`)
	assert.Contains(t, html, `name="status[s2]" value="late" class="sr-only" checked`)
	assert.Contains(t, html, "Students (3)")
}

func testSections() ([]models.Class, []models.User) {
	classes := []models.Class{
		{ID: "c1", CourseName: "Data Structures", DepartmentCode: "CSE", Section: "A", Session: "2023-2024"},
		{ID: "c2", CourseName: "Algorithms", DepartmentCode: "CSE", Section: "A", Session: "2023-2024"},
		{ID: "c3", CourseName: "Circuits", DepartmentCode: "EEE", Section: "B", Session: "2023-2024"},
	}
	students := []models.User{
		{ID: "s1", Name: "Ayesha", Role: models.RoleStudent, DepartmentCode: "CSE", Section: "A", Session: "2023-2024"},
		{ID: "s2", Name: "Tanvir", Role: models.RoleStudent, DepartmentCode: "CSE", Section: "A", Session: "2023-2024", IsClassRepresentative: true},
		{ID: "s4", Name: "Rafi", Role: models.RoleStudent, DepartmentCode: "EEE", Section: "B", Session: "2023-2024"},
		{ID: "s5", Name: "Mim", Role: models.RoleStudent, DepartmentCode: "ME", Section: "A", Session: "2023-2024"},
		{ID: "t1", Name: "Dr. Rahman", Role: models.RoleTeacher, DepartmentCode: "CSE"},
	}
	return classes, students
}

func TestGroupSections(t *testing.T) {
	groups := GroupSections(testSections())

	require.Len(t, groups, 2)
	assert.Equal(t, "CSE-A-2023-2024", groups[0].Key)
	assert.Equal(t, "Data Structures", groups[0].Class.CourseName, "the first class of a section heads it")
	assert.Len(t, groups[0].Students, 2)
	rep, ok := groups[0].Representative()
	assert.True(t, ok)
	assert.Equal(t, "s2", rep.ID)

	_, ok = groups[1].Representative()
	assert.False(t, ok)
}

func TestCRPanel_SetAndStats(t *testing.T) {
	type change struct {
		id string
		cr bool
	}
	var got []change
	rec := &notify.Recorder{}
	p := NewCRPanel(GroupSections(testSections()), func(_ context.Context, id string, cr bool) error {
		got = append(got, change{id, cr})
		return nil
	}, rec)

	assert.Equal(t, CRStats{TotalClasses: 2, ActiveCRs: 1, NeedCRs: 1}, p.Stats())

	require.NoError(t, p.Set(context.Background(), "s4", true))
	assert.ErrorIs(t, p.Set(context.Background(), "s5", true), apperrors.ErrResourceNotFound)
	assert.ErrorIs(t, p.Set(context.Background(), "t1", true), apperrors.ErrResourceNotFound)

	assert.Equal(t, []change{{"s4", true}}, got)
	assert.Equal(t, []notify.Notification{CRSaved}, rec.All())
}

func TestCRPanel_FailureNotifies(t *testing.T) {
	var carried notify.Recorder
	boom := errors.New("conflict")
	p := NewCRPanel(GroupSections(testSections()), func(context.Context, string, bool) error { return boom }, nil)

	assert.ErrorIs(t, p.Set(notify.NewContext(context.Background(), &carried), "s1", true), boom)
	assert.Equal(t, []notify.Notification{CRSaveFailed}, carried.All())

	p.OnChange = nil
	assert.ErrorIs(t, p.Set(context.Background(), "s1", true), apperrors.ErrActionUnavailable)
}

func TestCRPanel_ToggleAndRender(t *testing.T) {
	var got bool
	p := NewCRPanel(GroupSections(testSections()), func(_ context.Context, _ string, cr bool) error {
		got = cr
		return nil
	}, nil)
	p.Action = func(id string) string { return "/admin/students/" + id + "/cr" }

	groups := p.Groups
	promote := p.Toggle(groups[0].Students[0])
	assert.Equal(t, "Make CR", promote.Label)
	assert.Equal(t, "1", promote.Value)
	remove := p.Toggle(groups[0].Students[1])
	assert.Equal(t, "Remove CR", remove.Label)
	assert.Equal(t, "0", remove.Value)
	assert.Equal(t, VariantSecondary, remove.Variant)

	require.NoError(t, remove.OnClick())
	assert.False(t, got)

	html := renderString(t, p)
	assert.Contains(t, html, "Data Structures - Section A")
	assert.Contains(t, html, "CR Assigned")
	assert.Contains(t, html, `action="/admin/students/s4/cr"`)
	assert.Contains(t, html, "Need CRs")
}

func TestParseStudentCSV_HeaderAliases(t *testing.T) {
	in := "student_id,full_name,email,dept_code,batch,section,picture_url,notes\n" +
		"2304010, Rafi Islam ,U2304010@Student.CUET.ac.bd,cse,2023-2024,b,https://img/r.png,ignored\n" +
		"2304011,,u2304011@student.cuet.ac.bd,CSE,2023-2024,A\n"

	rows, err := ParseStudentCSV(strings.NewReader(in))

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, StudentRow{Line: 2, Complete: true, Input: models.UserInput{
		Role: models.RoleStudent, StudentNumber: "2304010", Name: "Rafi Islam",
		Email: "u2304010@student.cuet.ac.bd", DepartmentCode: "CSE", Session: "2023-2024",
		Section: "B", ProfileImage: "https://img/r.png",
	}}, rows[0])
	assert.Equal(t, 3, rows[1].Line)
	assert.False(t, rows[1].Complete)
}

func TestParseStudentCSV_SampleAndBadHeaders(t *testing.T) {
	rows, err := ParseStudentCSV(strings.NewReader(SampleCSV))
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	for _, r := range rows {
		assert.True(t, r.Complete)
	}

	_, err = ParseStudentCSV(strings.NewReader("Name,Department\nA,CSE\n"))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = ParseStudentCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestBulkUploadForm_AllRowsSucceed(t *testing.T) {
	var created []string
	rec := &notify.Recorder{}
	f := NewBulkUploadForm(func(_ context.Context, in models.UserInput) error {
		created = append(created, in.StudentNumber)
		return nil
	}, rec)

	res, err := f.Upload(context.Background(), "students.CSV", int64(len(SampleCSV)), strings.NewReader(SampleCSV))

	require.NoError(t, err)
	assert.Equal(t, BulkResult{Success: 3}, res)
	assert.Equal(t, []string{"2309026", "2309027", "2309028"}, created)
	assert.Equal(t, []notify.Notification{notify.Success("Upload Successful", "Successfully uploaded 3 students.")}, rec.All())
	assert.Equal(t, &res, f.Result())
}

func TestBulkUploadForm_CountsFailuresAndCapsErrors(t *testing.T) {
	var b strings.Builder
	b.WriteString("CUET ID,Full Name,Email\n")
	b.WriteString("2304100,Good Row,good@cuet.ac.bd\n")
	for i := 0; i < 6; i++ {
		fmt.Fprintf(&b, "23042%02d,,missing@cuet.ac.bd\n", i)
	}
	b.WriteString("2304300,Taken,taken@cuet.ac.bd\n")

	var carried notify.Recorder
	f := NewBulkUploadForm(func(_ context.Context, in models.UserInput) error {
		if in.Email == "taken@cuet.ac.bd" {
			return errors.New("email already registered")
		}
		return nil
	}, nil)

	res, err := f.Upload(notify.NewContext(context.Background(), &carried), "s.csv", 100, strings.NewReader(b.String()))

	require.NoError(t, err)
	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 7, res.Failed)
	require.Len(t, res.Errors, 5)
	assert.Equal(t, "Row 3: Missing required fields", res.Errors[0])
	assert.Equal(t, 2, res.MoreErrors())
	assert.Equal(t, []notify.Notification{notify.Failure("Upload Completed with Errors", "1 students uploaded, 7 failed.")}, carried.All())

	html := renderString(t, f)
	assert.Contains(t, html, "And 2 more errors...")
	assert.Contains(t, html, "s.csv")
	assert.Contains(t, html, `enctype="multipart/form-data"`)
}

func TestBulkUploadForm_RejectsNonCSV(t *testing.T) {
	calls := 0
	rec := &notify.Recorder{}
	f := NewBulkUploadForm(func(context.Context, models.UserInput) error { calls++; return nil }, rec)

	_, err := f.Upload(context.Background(), "students.xlsx", 10, strings.NewReader(SampleCSV))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = f.Upload(context.Background(), "students.csv", 10, strings.NewReader("Name\nA\n"))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	assert.Zero(t, calls)
	assert.Equal(t, []notify.Notification{InvalidUploadFile, UploadFailed}, rec.All())
	assert.Nil(t, f.Result())
}
