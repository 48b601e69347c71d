package components

import (
	"context"
	"io"
	"net/url"

	"github.com/yigit/cuetclass/internal/app/models"
)

// CourseForm creates or edits a course
type CourseForm struct {
	dialogState
	OnSubmit    func(ctx context.Context, in models.CourseInput) error
	Departments []models.Department

	editing      bool
	entity       identity
	code         string
	name         string
	credits      string
	departmentID string
	errs         fieldErrors
}

// NewCourseForm creates a form in create mode
func NewCourseForm(departments []models.Department) *CourseForm {
	f := &CourseForm{Departments: departments}
	f.SetEntity(nil)
	return f
}

// SetEntity switches the record being edited; nil selects create mode with
// the default credit count. Fields are re-initialized only on identity change.
func (f *CourseForm) SetEntity(c *models.Course) {
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
		f.code, f.name, f.departmentID = "", "", ""
		f.credits = itoa(models.DefaultCredits)
		return
	}
	f.code, f.name, f.departmentID = c.Code, c.Name, c.DepartmentID
	f.credits = itoa(c.Credits)
}

// SetValues replaces the field values with submitted input
func (f *CourseForm) SetValues(v url.Values) {
	f.code = v.Get("code")
	f.name = v.Get("name")
	f.credits = v.Get("credits")
	f.departmentID = v.Get("departmentId")
}

func (f *CourseForm) validate() (models.CourseInput, fieldErrors) {
	errs := fieldErrors{}
	code := codeRule.Check(f.code)
	name := nameRule.Check(f.name)
	credits := creditsRule.Check(f.credits)
	dept := departmentRule.Check(f.departmentID)
	errs.check("code", code.Message)
	errs.check("name", name.Message)
	errs.check("credits", credits.Message)
	errs.check("departmentId", dept.Message)
	return models.CourseInput{
		Code:         code.Value,
		Name:         name.Value,
		Credits:      credits.Value,
		DepartmentID: dept.Value,
	}, errs
}

// Submit validates and hands the input to OnSubmit exactly once
func (f *CourseForm) Submit(ctx context.Context) (bool, error) {
	return submit(ctx, &f.dialogState, f.validate, f.OnSubmit, &f.errs)
}

// Errors returns the per-field messages of the last submit
func (f *CourseForm) Errors() map[string]string { return copyErrors(f.errs) }

// View builds the render model
func (f *CourseForm) View() FormView {
	opts := make([]OptionView, 0, len(f.Departments))
	for _, d := range f.Departments {
		opts = append(opts, OptionView{Value: d.ID, Label: d.Name, Selected: d.ID == f.departmentID})
	}

	v := FormView{
		ID:          "course-form",
		Title:       "Add Course",
		SubmitLabel: "Add",
		Action:      f.Action,
		CancelHref:  f.CancelHref,
		Open:        f.Open,
		Loading:     f.Loading,
		Fields: []FieldView{
			{Name: "code", Label: "Course Code", Type: "text", Value: f.code, Placeholder: "e.g. CSE-201", Required: true, Error: f.errs["code"]},
			{Name: "name", Label: "Course Name", Type: "text", Value: f.name, Placeholder: "e.g. Data Structures", Required: true, Error: f.errs["name"]},
			{Name: "credits", Label: "Credits", Type: "number", Value: f.credits, Required: true,
				Min: itoa(models.MinCredits), Max: itoa(models.MaxCredits), Error: f.errs["credits"]},
			{Name: "departmentId", Label: "Department", Type: "select", Value: f.departmentID, Placeholder: "Select Department",
				Required: true, Options: opts, Error: f.errs["departmentId"]},
		},
	}
	if f.editing {
		v.Title, v.SubmitLabel = "Edit Course", "Update"
	}
	return v
}

// Render implements Renderer
func (f *CourseForm) Render(w io.Writer) error {
	return renderForm(w, f.View())
}
