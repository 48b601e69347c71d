package components

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/yigit/cuetclass/internal/app/models"
	"github.com/yigit/cuetclass/internal/pkg/validation"
)

var (
	fullNameRule      = validation.String("Full name").Required().MaxLength(255)
	emailRule         = validation.String("Email").Required().Email().MaxLength(255)
	studentNumberRule = validation.String("Student ID").MaxLength(20)
	userSectionRule   = validation.String("Section").MaxLength(10)
)

// UserForm creates or edits a student or teacher account. The role is fixed
// by the page; cohort fields only exist for students.
type UserForm struct {
	dialogState
	OnSubmit    func(ctx context.Context, in models.UserInput) error
	Departments []models.Department

	role          models.RoleType
	editing       bool
	entity        identity
	name          string
	email         string
	department    string
	studentNumber string
	session       string
	section       string
	profileImage  string
	errs          fieldErrors
}

// NewUserForm creates a form for role in create mode
func NewUserForm(role models.RoleType, departments []models.Department) *UserForm {
	f := &UserForm{role: role, Departments: departments}
	f.SetEntity(nil)
	return f
}

// SetEntity switches the account being edited; nil selects create mode
func (f *UserForm) SetEntity(u *models.User) {
	key := entityKey("", false)
	if u != nil {
		key = entityKey(u.ID, true)
	}
	if !f.entity.changed(key) {
		return
	}

	f.editing = u != nil
	f.errs = nil
	if u == nil {
		u = &models.User{}
	}
	f.name, f.email, f.department = u.Name, u.Email, u.DepartmentCode
	f.studentNumber, f.session, f.section = u.StudentNumber, u.Session, u.Section
	f.profileImage = u.ProfileImage
}

// SetValues replaces the field values with submitted input
func (f *UserForm) SetValues(v url.Values) {
	f.name = v.Get("name")
	f.email = v.Get("email")
	f.department = v.Get("department")
	if f.role == models.RoleStudent {
		f.studentNumber = v.Get("studentNumber")
		f.session = v.Get("session")
		f.section = v.Get("section")
	}
}

func (f *UserForm) student() bool { return f.role == models.RoleStudent }

func (f *UserForm) validate() (models.UserInput, fieldErrors) {
	errs := fieldErrors{}
	name := fullNameRule.Check(f.name)
	email := emailRule.Check(f.email)
	dept := departmentRule.Check(f.department)
	errs.check("name", name.Message)
	errs.check("email", email.Message)
	errs.check("department", dept.Message)

	in := models.UserInput{
		Name:           name.Value,
		Email:          strings.ToLower(email.Value),
		Role:           f.role,
		DepartmentCode: dept.Value,
		ProfileImage:   f.profileImage,
	}
	if f.student() {
		number := studentNumberRule.Check(f.studentNumber)
		session := sessionRule.Check(f.session)
		section := userSectionRule.Check(f.section)
		errs.check("studentNumber", number.Message)
		errs.check("session", session.Message)
		errs.check("section", section.Message)
		in.StudentNumber, in.Session, in.Section = number.Value, session.Value, strings.ToUpper(section.Value)
	}
	return in, errs
}

// Submit validates and hands the input to OnSubmit exactly once
func (f *UserForm) Submit(ctx context.Context) (bool, error) {
	return submit(ctx, &f.dialogState, f.validate, f.OnSubmit, &f.errs)
}

// Errors returns the per-field messages of the last submit
func (f *UserForm) Errors() map[string]string { return copyErrors(f.errs) }

// View builds the render model
func (f *UserForm) View() FormView {
	noun := "Teacher"
	placeholder := "teacher@cuet.ac.bd"
	if f.student() {
		noun, placeholder = "Student", "student@cuet.ac.bd"
	}

	opts := make([]OptionView, 0, len(f.Departments))
	for _, d := range f.Departments {
		opts = append(opts, OptionView{Value: d.Code, Label: d.Code + " - " + d.Name, Selected: d.Code == f.department})
	}

	v := FormView{
		ID:          "user-form",
		Title:       "Add New " + noun,
		SubmitLabel: "Add " + noun,
		Action:      f.Action,
		CancelHref:  f.CancelHref,
		Open:        f.Open,
		Loading:     f.Loading,
		Fields: []FieldView{
			{Name: "name", Label: "Full Name", Type: "text", Value: f.name, Placeholder: "Enter full name", Required: true, Error: f.errs["name"]},
			{Name: "email", Label: "Email", Type: "email", Value: f.email, Placeholder: placeholder, Required: true, Error: f.errs["email"]},
			{Name: "department", Label: "Department", Type: "select", Value: f.department, Placeholder: "Select department",
				Required: true, Options: opts, Error: f.errs["department"]},
		},
	}
	if f.student() {
		v.Fields = append(v.Fields,
			FieldView{Name: "studentNumber", Label: "CUET ID", Type: "text", Value: f.studentNumber, Placeholder: "2309026", Error: f.errs["studentNumber"]},
			FieldView{Name: "session", Label: "Session", Type: "text", Value: f.session, Placeholder: "2023-24", Required: true, Error: f.errs["session"]},
			FieldView{Name: "section", Label: "Section", Type: "text", Value: f.section, Placeholder: "A, B, C...", Error: f.errs["section"]},
		)
	}
	if f.editing {
		v.Title, v.SubmitLabel = "Edit "+noun, "Update "+noun
	}
	if f.Loading {
		v.SubmitLabel = "Saving..."
	}
	return v
}

// Render implements Renderer
func (f *UserForm) Render(w io.Writer) error {
	return renderForm(w, f.View())
}
