package components

import (
	"io"

	"github.com/yigit/cuetclass/internal/pkg/apperrors"
)

// UnnamedEntity is shown when the dialog has no entity
const UnnamedEntity = "this item"

// ConfirmDeleteDialog asks before a destructive action. It never deletes
// anything itself; Confirm only calls back.
type ConfirmDeleteDialog struct {
	dialogState
	Title     string
	OnConfirm func()

	name string
}

// SetEntity sets the name shown in the prompt; empty falls back to UnnamedEntity
func (d *ConfirmDeleteDialog) SetEntity(name string) {
	d.name = name
}

// Name is the displayed entity name
func (d *ConfirmDeleteDialog) Name() string {
	if d.name == "" {
		return UnnamedEntity
	}
	return d.name
}

// Confirm calls OnConfirm once per call
func (d *ConfirmDeleteDialog) Confirm() error {
	if d.Loading {
		return apperrors.ErrActionDisabled
	}
	if d.OnConfirm == nil {
		return apperrors.ErrActionUnavailable
	}
	d.OnConfirm()
	return nil
}

type confirmView struct {
	Title      string
	Name       string
	Action     string
	CancelHref string
	Open       bool
	Loading    bool
}

// Render implements Renderer
func (d *ConfirmDeleteDialog) Render(w io.Writer) error {
	title := d.Title
	if title == "" {
		title = "Delete"
	}
	return render(w, "confirm_dialog", confirmView{
		Title:      title,
		Name:       d.Name(),
		Action:     d.Action,
		CancelHref: d.CancelHref,
		Open:       d.Open,
		Loading:    d.Loading,
	})
}
