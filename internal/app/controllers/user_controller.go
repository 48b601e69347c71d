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

var (
	studentText = entityText{
		Singular:    "Student",
		Plural:      "Students",
		Base:        "/admin/students",
		Description: "Manage student accounts, sessions and sections.",
	}
	teacherText = entityText{
		Singular:    "Teacher",
		Plural:      "Teachers",
		Base:        "/admin/teachers",
		Description: "Manage teacher accounts.",
	}
)

// UserController serves the student or teacher admin screen
type UserController struct {
	*Pages
	role    models.RoleType
	text    entityText
	catalog backend.Catalog
	users   backend.UserActions
}

// NewUserController creates the admin screen for one role
func NewUserController(pages *Pages, role models.RoleType, catalog backend.Catalog, users backend.UserActions) *UserController {
	text := teacherText
	if role == models.RoleStudent {
		text = studentText
	}
	return &UserController{Pages: pages, role: role, text: text, catalog: catalog, users: users}
}

type userScreen struct {
	table  *components.Table[models.User]
	form   *components.UserForm
	dialog *components.ConfirmDeleteDialog
}

func (s userScreen) view(open bool) adminView {
	return adminView{form: s.form, open: open, dialog: s.dialog}
}

func (c *UserController) load(ctx *gin.Context) (userScreen, error) {
	rc := ctx.Request.Context()
	items, err := c.users.Users(rc, c.role)
	if err != nil {
		return userScreen{}, err
	}
	departments, err := c.catalog.Departments(rc)
	if err != nil {
		return userScreen{}, err
	}

	t := c.text
	s := userScreen{
		table:  components.NewUserTable(items, c.role, false),
		form:   components.NewUserForm(c.role, departments),
		dialog: newDeleteDialog(t),
	}
	s.form.Action, s.form.CancelHref = t.Base, t.Base

	s.table.OnEdit = func(u models.User) {
		s.form.SetEntity(&u)
		s.form.Open = true
		s.form.Action = t.item(u.ID)
	}
	s.table.OnDelete = func(u models.User) {
		s.dialog.SetEntity(u.Name)
		s.dialog.Open = true
		s.dialog.Action = t.deleteAction(u.ID)
	}
	return s, nil
}

// Index lists the accounts; ?new=1, ?edit=id and ?delete=id open the overlays
func (c *UserController) Index(ctx *gin.Context) {
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

	c.render(ctx, http.StatusOK, c.text.page(), s.view(s.form.Open).sections(c.text, s.table)...)
}

// Create handles the add form
func (c *UserController) Create(ctx *gin.Context) {
	c.save(ctx, "", func(rc context.Context, in models.UserInput) error {
		_, err := c.users.CreateUser(rc, in)
		return err
	})
}

// Update handles the edit form
func (c *UserController) Update(ctx *gin.Context) {
	id := ctx.Param("id")
	c.save(ctx, id, func(rc context.Context, in models.UserInput) error {
		_, err := c.users.UpdateUser(rc, id, in)
		return err
	})
}

func (c *UserController) save(ctx *gin.Context, id string, onSubmit func(context.Context, models.UserInput) error) {
	t := c.text
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
func (c *UserController) Delete(ctx *gin.Context) {
	t := c.text
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
	s.dialog.OnConfirm = func() { deleteErr = c.users.DeleteUser(rc, id) }
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
