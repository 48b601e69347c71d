package components

import (
	"context"
	"io"
	"net/url"

	"github.com/yigit/cuetclass/internal/app/models"
)

// ClassForm creates or edits a class. Course choices are limited to the
// selected department and switching department clears the course.
type ClassForm struct {
	dialogState
	OnSubmit    func(ctx context.Context, in models.ClassInput) error
	Departments []models.Department
	Courses     []models.Course
	Teachers    []models.Teacher

	editing      bool
	entity       identity
	departmentID string
	courseID     string
	section      string
	session      string
	code         string
	teacherID    string
	errs         fieldErrors
}

// NewClassForm creates a form in create mode
func NewClassForm(departments []models.Department, courses []models.Course, teachers []models.Teacher) *ClassForm {
	f := &ClassForm{Departments: departments, Courses: courses, Teachers: teachers}
	f.SetEntity(nil)
	return f
}

// SetEntity switches the record being edited; nil selects create mode
func (f *ClassForm) SetEntity(c *models.Class) {
	key := entityKey("", false)
	if c != nil {
		key = entityKey(c.ID, true)
	}
	if !f.entity.changed(key) {
		return
	}

	f.editing = c != nil
	f.errs = nil
	if c == nil {
		f.departmentID, f.courseID, f.teacherID = "", "", ""
		f.section, f.session, f.code = "", "", ""
		return
	}
	f.departmentID = c.DepartmentID
	f.courseID = c.CourseID
	f.section = c.Section
	f.session = c.Session
	f.code = c.Code
	f.teacherID = c.TeacherID
}

// SelectDepartment changes the department and resets the course
func (f *ClassForm) SelectDepartment(id string) {
	if id != f.departmentID {
		f.courseID = ""
	}
	f.departmentID = id
}

// SetValues replaces the field values with submitted input
func (f *ClassForm) SetValues(v url.Values) {
	f.SelectDepartment(v.Get("departmentId"))
	f.courseID = v.Get("courseId")
	f.section = v.Get("section")
	f.session = v.Get("session")
	f.code = v.Get("code")
	f.teacherID = v.Get("teacherId")
}

// CourseOptions lists the courses of the selected department
func (f *ClassForm) CourseOptions() []models.Course {
	if f.departmentID == "" {
		return nil
	}
	var out []models.Course
	for _, c := range f.Courses {
		if c.DepartmentID == f.departmentID {
			out = append(out, c)
		}
	}
	return out
}

func (f *ClassForm) validate() (models.ClassInput, fieldErrors) {
	errs := fieldErrors{}
	dept := departmentRule.Check(f.departmentID)
	course := courseRule.Check(f.courseID)
	section := sectionRule.Check(f.section)
	session := sessionRule.Check(f.session)
	code := classCodeRule.Check(f.code)
	teacher := teacherRule.Check(f.teacherID)

	errs.check("departmentId", dept.Message)
	errs.check("courseId", course.Message)
	errs.check("section", section.Message)
	errs.check("session", session.Message)
	errs.check("code", code.Message)

	if course.Valid() && dept.Valid() {
		found := false
		for _, c := range f.CourseOptions() {
			if c.ID == course.Value {
				found = true
				break
			}
		}
		if !found {
			errs.check("courseId", "Course must belong to the selected department")
		}
	}

	in := models.ClassInput{
		DepartmentID: dept.Value,
		CourseID:     course.Value,
		Section:      section.Value,
		Session:      session.Value,
		Code:         code.Value,
		TeacherID:    teacher.Value,
	}
	return in, errs
}

// Submit validates and hands the input to OnSubmit exactly once
func (f *ClassForm) Submit(ctx context.Context) (bool, error) {
	return submit(ctx, &f.dialogState, f.validate, f.OnSubmit, &f.errs)
}

// Errors returns the per-field messages of the last submit
func (f *ClassForm) Errors() map[string]string { return copyErrors(f.errs) }

// View builds the render model
func (f *ClassForm) View() FormView {
	depts := make([]OptionView, 0, len(f.Departments))
	for _, d := range f.Departments {
		depts = append(depts, OptionView{Value: d.ID, Label: d.Code + " - " + d.Name, Selected: d.ID == f.departmentID})
	}
	var courses []OptionView
	for _, c := range f.CourseOptions() {
		courses = append(courses, OptionView{Value: c.ID, Label: c.Code + " - " + c.Name, Selected: c.ID == f.courseID})
	}
	teachers := []OptionView{{Value: "", Label: UnassignedTeacher, Selected: f.teacherID == ""}}
	for _, t := range f.Teachers {
		teachers = append(teachers, OptionView{Value: t.ID, Label: t.Name, Selected: t.ID == f.teacherID})
	}

	v := FormView{
		ID:          "class-form",
		Title:       "Add New Class",
		SubmitLabel: "Add Class",
		Action:      f.Action,
		CancelHref:  f.CancelHref,
		Open:        f.Open,
		Loading:     f.Loading,
		Fields: []FieldView{
			{Name: "departmentId", Label: "Department", Type: "select", Value: f.departmentID, Placeholder: "Select department",
				Required: true, Refresh: true, Options: depts, Error: f.errs["departmentId"]},
			{Name: "courseId", Label: "Course", Type: "select", Value: f.courseID, Placeholder: "Select course",
				Required: true, Disabled: f.departmentID == "", Options: courses, Error: f.errs["courseId"]},
			{Name: "section", Label: "Section", Type: "text", Value: f.section, Placeholder: "A, B, C...", Required: true, Error: f.errs["section"]},
			{Name: "session", Label: "Session", Type: "text", Value: f.session, Placeholder: "2023-24", Required: true, Error: f.errs["session"]},
			{Name: "code", Label: "Class Code", Type: "text", Value: f.code, Placeholder: "Derived from department and section", Error: f.errs["code"]},
			{Name: "teacherId", Label: "Teacher", Type: "select", Value: f.teacherID, Options: teachers},
		},
	}
	if f.editing {
		v.Title, v.SubmitLabel = "Edit Class", "Update Class"
	}
	if f.Loading {
		v.SubmitLabel = "Saving..."
	}
	return v
}

// Render implements Renderer
func (f *ClassForm) Render(w io.Writer) error {
	return renderForm(w, f.View())
}
