package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/cuetclass/internal/app/backend"
	"github.com/yigit/cuetclass/internal/app/components"
	"github.com/yigit/cuetclass/internal/app/models"
	"github.com/yigit/cuetclass/internal/middleware"
)

var classText = entityText{
	Singular:    "Class",
	Plural:      "Classes",
	Base:        "/admin/classes",
	Description: "Manage class sections, sessions and teacher assignments.",
}

// ClassController serves the class admin screen
type ClassController struct {
	*Pages
	catalog backend.Catalog
	admin   backend.AdminActions
}

// NewClassController creates a new ClassController
func NewClassController(pages *Pages, catalog backend.Catalog, admin backend.AdminActions) *ClassController {
	return &ClassController{Pages: pages, catalog: catalog, admin: admin}
}

type classScreen struct {
	table  *components.Table[models.Class]
	form   *components.ClassForm
	dialog *components.ConfirmDeleteDialog
}

func (s classScreen) view(open bool) adminView {
	return adminView{form: s.form, open: open, dialog: s.dialog}
}

// load reads classes with the form's reference lists and wires the row controls
func (c *ClassController) load(ctx *gin.Context) (classScreen, error) {
	rc := ctx.Request.Context()
	classes, err := c.catalog.Classes(rc)
	if err != nil {
		return classScreen{}, err
	}
	departments, err := c.catalog.Departments(rc)
	if err != nil {
		return classScreen{}, err
	}
	courses, err := c.catalog.Courses(rc)
	if err != nil {
		return classScreen{}, err
	}
	teachers, err := c.catalog.Teachers(rc)
	if err != nil {
		return classScreen{}, err
	}

	t := classText
	s := classScreen{
		table:  components.NewClassTable(classes, false),
		form:   components.NewClassForm(departments, courses, teachers),
		dialog: newDeleteDialog(t),
	}
	s.form.Action, s.form.CancelHref = t.Base, t.Base

	s.table.OnEdit = func(class models.Class) {
		s.form.SetEntity(&class)
		s.form.Open = true
		s.form.Action = t.item(class.ID)
	}
	s.table.OnDelete = func(class models.Class) {
		s.dialog.SetEntity(class.Label())
		s.dialog.Open = true
		s.dialog.Action = t.deleteAction(class.ID)
	}
	return s, nil
}

// Index lists classes; ?new=1, ?edit=id and ?delete=id open the overlays.
// A draft reload redisplays the form after its department changed.
func (c *ClassController) Index(ctx *gin.Context) {
	s, err := c.load(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	switch {
	case ctx.Query("edit") != "":
		err = s.table.Trigger(components.ActionEdit, ctx.Query("edit"))
	case ctx.Query("delete") != "":
		err = s.table.Trigger(components.ActionDelete, ctx.Query("delete"))
	case ctx.Query("new") != "":
		s.form.Open = true
	}
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if s.form.Open && isDraft(ctx) {
		s.form.SetValues(ctx.Request.URL.Query())
	}

	c.render(ctx, http.StatusOK, classText.page(), s.view(s.form.Open).sections(classText, s.table)...)
}

// Create handles the add form
func (c *ClassController) Create(ctx *gin.Context) {
	c.save(ctx, "", func(rc context.Context, in models.ClassInput) error {
		_, err := c.admin.CreateClass(rc, in)
		return err
	})
}

// Update handles the edit form
func (c *ClassController) Update(ctx *gin.Context) {
	id := ctx.Param("id")
	c.save(ctx, id, func(rc context.Context, in models.ClassInput) error {
		_, err := c.admin.UpdateClass(rc, id, in)
		return err
	})
}

func (c *ClassController) save(ctx *gin.Context, id string, onSubmit func(context.Context, models.ClassInput) error) {
	t := classText
	s, err := c.load(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if id != "" {
		if err := s.table.Trigger(components.ActionEdit, id); err != nil {
			_ = ctx.Error(err)
			return
		}
	}
	if err := ctx.Request.ParseForm(); err != nil {
		_ = ctx.Error(err)
		return
	}
	s.form.SetValues(ctx.Request.PostForm)
	s.form.OnSubmit = onSubmit

	rc := ctx.Request.Context()
	notifier := c.notifier(ctx)
	submitted, err := s.form.Submit(rc)
	switch {
	case err != nil:
		verb := "add"
		if id != "" {
			verb = "update"
		}
		notifier.Notify(rc, t.failed(verb, err))
	case !submitted:
	case id == "":
		notifier.Notify(rc, t.added())
		seeOther(ctx, t.Base)
		return
	default:
		notifier.Notify(rc, t.updated())
		seeOther(ctx, t.Base)
		return
	}

	status := http.StatusUnprocessableEntity
	if err != nil {
		status = middleware.StatusFor(err)
	}
	s.form.Open = true
	c.render(ctx, status, t.page(), s.view(true).sections(t, s.table)...)
}

// Delete handles the confirm dialog
func (c *ClassController) Delete(ctx *gin.Context) {
	t := classText
	id := ctx.Param("id")
	rc := ctx.Request.Context()

	s, err := c.load(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if err := s.table.Trigger(components.ActionDelete, id); err != nil {
		_ = ctx.Error(err)
		return
	}

	var deleteErr error
	s.dialog.OnConfirm = func() { deleteErr = c.admin.DeleteClass(rc, id) }
	if err := s.dialog.Confirm(); err != nil {
		_ = ctx.Error(err)
		return
	}

	notifier := c.notifier(ctx)
	if deleteErr != nil {
		notifier.Notify(rc, t.failed("delete", deleteErr))
	} else {
		notifier.Notify(rc, t.deleted())
	}
	seeOther(ctx, t.Base)
}
