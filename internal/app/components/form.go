package components

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"github.com/yigit/cuetclass/internal/app/models"
	"github.com/yigit/cuetclass/internal/pkg/apperrors"
	"github.com/yigit/cuetclass/internal/pkg/validation"
)

// Field validators shared by the entity forms
var (
	codeRule       = validation.String("Code").Required().MaxLength(20)
	nameRule       = validation.String("Name").Required().MaxLength(255)
	creditsRule    = validation.Int("Credits").Required().Between(models.MinCredits, models.MaxCredits)
	departmentRule = validation.String("Department").Required()
	courseRule     = validation.String("Course").Required()
	sectionRule    = validation.String("Section").Required().MaxLength(10)
	sessionRule    = validation.String("Session").Required().MaxLength(20)
	classCodeRule  = validation.String("Class code").MaxLength(30)
	teacherRule    = validation.String("Teacher")
)

// FieldView is the render model of one form input
type FieldView struct {
	Name        string
	Label       string
	Type        string
	Value       string
	Placeholder string
	Error       string
	Required    bool
	Disabled    bool
	// Refresh reloads the form when the value changes so dependent options follow
	Refresh  bool
	Min, Max string
	Options  []OptionView
}

// OptionView is one select option
type OptionView struct {
	Value    string
	Label    string
	Selected bool
}

// FormView is the render model of an entity form dialog
type FormView struct {
	ID          string
	Title       string
	Action      string
	CancelHref  string
	SubmitLabel string
	Open        bool
	Loading     bool
	Fields      []FieldView
}

// dialogState is what every form and dialog shares: visibility, the in-flight
// flag handed down by the owner and the open-change callback
type dialogState struct {
	Open         bool
	Loading      bool
	Action       string
	CancelHref   string
	OnOpenChange func(open bool)
}

// Cancel closes without submitting
func (d *dialogState) Cancel() error {
	if d.Loading {
		return apperrors.ErrActionDisabled
	}
	if d.OnOpenChange != nil {
		d.OnOpenChange(false)
	}
	return nil
}

// identity tracks which entity a form was initialized from
type identity struct {
	set bool
	key string
}

// changed records key and reports whether it differs from the previous one
func (id *identity) changed(key string) bool {
	if id.set && id.key == key {
		return false
	}
	id.set, id.key = true, key
	return true
}

func entityKey(id string, present bool) string {
	if !present {
		return ""
	}
	return "id:" + id
}

// fieldErrors collects per-field validation messages
type fieldErrors map[string]string

func (e fieldErrors) check(name, msg string) {
	if msg != "" {
		e[name] = msg
	}
}

// Form is implemented by the entity forms
type Form interface {
	Renderer
	SetValues(v url.Values)
	Submit(ctx context.Context) (bool, error)
	Cancel() error
	Errors() map[string]string
}

// submit runs the shared submit sequence: refuse while loading, stop on
// validation errors, otherwise call the owner exactly once
func submit[T any](ctx context.Context, d *dialogState, validate func() (T, fieldErrors), onSubmit func(context.Context, T) error, errs *fieldErrors) (bool, error) {
	if d.Loading {
		return false, apperrors.ErrActionDisabled
	}
	in, fe := validate()
	*errs = fe
	if len(fe) > 0 {
		return false, nil
	}
	if onSubmit == nil {
		return false, apperrors.ErrActionUnavailable
	}
	return true, onSubmit(ctx, in)
}

func renderForm(w io.Writer, v FormView) error {
	return render(w, "entity_form", v)
}

func itoa(n int) string { return strconv.Itoa(n) }

func copyErrors(e fieldErrors) map[string]string {
	out := make(map[string]string, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
