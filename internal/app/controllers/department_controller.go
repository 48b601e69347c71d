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

var departmentText = entityText{
	Singular:    "Department",
	Plural:      "Departments",
	Base:        "/admin/departments",
	Description: "Manage university departments here.",
}

// DepartmentController serves the department admin screen
type DepartmentController struct {
	*Pages
	catalog backend.Catalog
	admin   backend.AdminActions
}

// NewDepartmentController creates a new DepartmentController
func NewDepartmentController(pages *Pages, catalog backend.Catalog, admin backend.AdminActions) *DepartmentController {
	return &DepartmentController{Pages: pages, catalog: catalog, admin: admin}
}

// screen wires table row controls to the form and the confirm dialog
func (c *DepartmentController) screen(items []models.Department) (*components.Table[models.Department], *components.DepartmentForm, *components.ConfirmDeleteDialog) {
	t := departmentText
	table := components.NewDepartmentTable(items, false)
	form := components.NewDepartmentForm()
	form.Action, form.CancelHref = t.Base, t.Base
	dialog := newDeleteDialog(t)

	table.OnEdit = func(d models.Department) {
		form.SetEntity(&d)
		form.Open = true
		form.Action = t.item(d.ID)
	}
	table.OnDelete = func(d models.Department) {
		dialog.SetEntity(d.Name)
		dialog.Open = true
		dialog.Action = t.deleteAction(d.ID)
	}
	return table, form, dialog
}

// Index lists departments; ?new=1, ?edit=id and ?delete=id open the overlays
func (c *DepartmentController) Index(ctx *gin.Context) {
	items, err := c.catalog.Departments(ctx.Request.Context())
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	table, form, dialog := c.screen(items)
	switch {
	case ctx.Query("edit") != "":
		err = table.Trigger(components.ActionEdit, ctx.Query("edit"))
	case ctx.Query("delete") != "":
		err = table.Trigger(components.ActionDelete, ctx.Query("delete"))
	case ctx.Query("new") != "":
		form.Open = true
	}
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if form.Open && isDraft(ctx) {
		form.SetValues(ctx.Request.URL.Query())
	}

	v := adminView{form: form, open: form.Open, dialog: dialog}
	c.render(ctx, http.StatusOK, departmentText.page(), v.sections(departmentText, table)...)
}

// Create handles the add form
func (c *DepartmentController) Create(ctx *gin.Context) {
	c.save(ctx, "", func(rc context.Context, in models.DepartmentInput) error {
		_, err := c.admin.CreateDepartment(rc, in)
		return err
	})
}

// Update handles the edit form
func (c *DepartmentController) Update(ctx *gin.Context) {
	id := ctx.Param("id")
	c.save(ctx, id, func(rc context.Context, in models.DepartmentInput) error {
		_, err := c.admin.UpdateDepartment(rc, id, in)
		return err
	})
}

func (c *DepartmentController) save(ctx *gin.Context, id string, onSubmit func(context.Context, models.DepartmentInput) error) {
	t := departmentText
	items, err := c.catalog.Departments(ctx.Request.Context())
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	table, form, dialog := c.screen(items)
	form.Open = true
	if id != "" {
		if err := table.Trigger(components.ActionEdit, id); err != nil {
			_ = ctx.Error(err)
			return
		}
	}
	if err := ctx.Request.ParseForm(); err != nil {
		_ = ctx.Error(err)
		return
	}
	form.SetValues(ctx.Request.PostForm)
	form.OnSubmit = onSubmit

	notifier := c.notifier(ctx)
	submitted, err := form.Submit(ctx.Request.Context())
	switch {
	case err != nil:
		verb := "add"
		if id != "" {
			verb = "update"
		}
		notifier.Notify(ctx.Request.Context(), t.failed(verb, err))
	case !submitted:
	case id == "":
		notifier.Notify(ctx.Request.Context(), t.added())
		seeOther(ctx, t.Base)
		return
	default:
		notifier.Notify(ctx.Request.Context(), t.updated())
		seeOther(ctx, t.Base)
		return
	}

	status := http.StatusUnprocessableEntity
	if err != nil {
		status = middleware.StatusFor(err)
	}
	v := adminView{form: form, open: true, dialog: dialog}
	c.render(ctx, status, t.page(), v.sections(t, table)...)
}

// Delete handles the confirm dialog
func (c *DepartmentController) Delete(ctx *gin.Context) {
	t := departmentText
	id := ctx.Param("id")
	rc := ctx.Request.Context()

	items, err := c.catalog.Departments(rc)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	table, _, dialog := c.screen(items)
	if err := table.Trigger(components.ActionDelete, id); err != nil {
		_ = ctx.Error(err)
		return
	}

	var deleteErr error
	dialog.OnConfirm = func() { deleteErr = c.admin.DeleteDepartment(rc, id) }
	if err := dialog.Confirm(); err != nil {
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
