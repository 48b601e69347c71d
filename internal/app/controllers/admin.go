package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yigit/cuetclass/internal/app/components"
	"github.com/yigit/cuetclass/internal/app/notify"
	"github.com/yigit/cuetclass/internal/app/views"
)

// entityText holds the words and paths of one admin section
type entityText struct {
	Singular    string
	Plural      string
	Base        string
	Description string
}

func (t entityText) noun() string { return strings.ToLower(t.Singular) }

func (t entityText) added() notify.Notification {
	return notify.Success("Added "+t.Singular, t.Singular+" added successfully.")
}

func (t entityText) updated() notify.Notification {
	return notify.Success("Updated "+t.Singular, t.Singular+" updated successfully.")
}

func (t entityText) deleted() notify.Notification {
	return notify.Success("Deleted "+t.Singular, t.Singular+" deleted successfully.")
}

func (t entityText) failed(verb string, err error) notify.Notification {
	return notify.Failure("Error", failureText(t.noun(), verb, err))
}

func (t entityText) item(id string) string { return t.Base + "/" + id }

func (t entityText) deleteAction(id string) string { return t.item(id) + "/delete" }

func (t entityText) page() views.Page {
	return views.Page{
		Title:       t.Singular + " Management",
		Description: t.Description,
		Nav:         views.AdminNav(t.Base),
	}
}

func (t entityText) toolbar() views.Toolbar {
	return views.Toolbar{
		Heading: t.Plural,
		Action: &components.ActionButton{
			Label:   "Add " + t.Singular,
			Icon:    "plus",
			Variant: components.VariantSecondary,
			Href:    t.Base + "?new=1",
		},
	}
}

// adminView is the state of one admin page request
type adminView struct {
	form   components.Form
	open   bool
	dialog *components.ConfirmDeleteDialog
}

// sections lays out toolbar, table and whichever overlay is open
func (v adminView) sections(t entityText, table components.Renderer) []components.Renderer {
	out := []components.Renderer{t.toolbar(), table}
	if v.open && v.form != nil {
		out = append(out, v.form)
	}
	if v.dialog != nil && v.dialog.Open {
		out = append(out, v.dialog)
	}
	return out
}

// newDeleteDialog builds the closed confirm dialog of a section
func newDeleteDialog(t entityText) *components.ConfirmDeleteDialog {
	d := &components.ConfirmDeleteDialog{Title: "Delete " + t.Singular}
	d.CancelHref = t.Base
	return d
}

// isDraft reports whether a GET carries unsaved form input to redisplay
func isDraft(ctx *gin.Context) bool {
	return ctx.Query("draft") == "1"
}
