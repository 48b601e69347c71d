package components

import (
	"context"
	"io"
	"net/url"

	"github.com/yigit/cuetclass/internal/app/models"
)

// DepartmentForm creates or edits a department
type DepartmentForm struct {
	dialogState
	OnSubmit func(ctx context.Context, in models.DepartmentInput) error

	editing bool
	entity  identity
	code    string
	name    string
	errs    fieldErrors
}

// NewDepartmentForm creates a form in create mode
func NewDepartmentForm() *DepartmentForm {
	f := &DepartmentForm{}
	f.SetEntity(nil)
	return f
}

// SetEntity switches the record being edited; nil selects create mode.
// Fields are re-initialized only when the record identity changes.
func (f *DepartmentForm) SetEntity(d *models.Department) {
	key := entityKey("", false)
	if d != nil {
		key = entityKey(d.ID, true)
	}
	if !f.entity.changed(key) {
		return
	}

	f.editing = d != nil
	f.errs = nil
	if d == nil {
		f.code, f.name = "", ""
		return
	}
	f.code, f.name = d.Code, d.Name
}

// SetValues replaces the field values with submitted input
func (f *DepartmentForm) SetValues(v url.Values) {
	f.code = v.Get("code")
	f.name = v.Get("name")
}

func (f *DepartmentForm) validate() (models.DepartmentInput, fieldErrors) {
	errs := fieldErrors{}
	code := codeRule.Check(f.code)
	name := nameRule.Check(f.name)
	errs.check("code", code.Message)
	errs.check("name", name.Message)
	return models.DepartmentInput{Code: code.Value, Name: name.Value}, errs
}

// Submit validates and hands the input to OnSubmit. It reports whether
// OnSubmit was called and returns its error; the form neither clears nor closes itself.
func (f *DepartmentForm) Submit(ctx context.Context) (bool, error) {
	return submit(ctx, &f.dialogState, f.validate, f.OnSubmit, &f.errs)
}

// Errors returns the per-field messages of the last submit
func (f *DepartmentForm) Errors() map[string]string { return copyErrors(f.errs) }

// View builds the render model
func (f *DepartmentForm) View() FormView {
	v := FormView{
		ID:          "department-form",
		Title:       "Add Department",
		SubmitLabel: "Add",
		Action:      f.Action,
		CancelHref:  f.CancelHref,
		Open:        f.Open,
		Loading:     f.Loading,
		Fields: []FieldView{
			{Name: "code", Label: "Department Code", Type: "text", Value: f.code, Placeholder: "e.g. CSE", Required: true, Error: f.errs["code"]},
			{Name: "name", Label: "Department Name", Type: "text", Value: f.name, Placeholder: "e.g. Computer Science and Engineering", Required: true, Error: f.errs["name"]},
		},
	}
	if f.editing {
		v.Title, v.SubmitLabel = "Edit Department", "Update"
	}
	return v
}

// Render implements Renderer
func (f *DepartmentForm) Render(w io.Writer) error {
	return renderForm(w, f.View())
}
