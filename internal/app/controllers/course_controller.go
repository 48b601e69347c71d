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

var courseText = entityText{
	Singular:    "Course",
	Plural:      "Courses",
	Base:        "/admin/courses",
	Description: "Manage courses offered by each department.",
}

// CourseController serves the course admin screen
type CourseController struct {
	*Pages
	catalog backend.Catalog
	admin   backend.AdminActions
}

// NewCourseController creates a new CourseController
func NewCourseController(pages *Pages, catalog backend.Catalog, admin backend.AdminActions) *CourseController {
	return &CourseController{Pages: pages, catalog: catalog, admin: admin}
}

type courseScreen struct {
	table  *components.Table[models.Course]
	form   *components.CourseForm
	dialog *components.ConfirmDeleteDialog
}

func (s courseScreen) view(open bool) adminView {
	return adminView{form: s.form, open: open, dialog: s.dialog}
}

// load reads courses and departments and wires the row controls
func (c *CourseController) load(ctx *gin.Context) (courseScreen, error) {
	rc := ctx.Request.Context()
	courses, err := c.catalog.Courses(rc)
	if err != nil {
		return courseScreen{}, err
	}
	departments, err := c.catalog.Departments(rc)
	if err != nil {
		return courseScreen{}, err
	}

	t := courseText
	s := courseScreen{
		table:  components.NewCourseTable(courses, departments, false),
		form:   components.NewCourseForm(departments),
		dialog: newDeleteDialog(t),
	}
	s.form.Action, s.form.CancelHref = t.Base, t.Base

	s.table.OnEdit = func(course models.Course) {
		s.form.SetEntity(&course)
		s.form.Open = true
		s.form.Action = t.item(course.ID)
	}
	s.table.OnDelete = func(course models.Course) {
		s.dialog.SetEntity(course.Name)
		s.dialog.Open = true
		s.dialog.Action = t.deleteAction(course.ID)
	}
	return s, nil
}

// Index lists courses; ?new=1, ?edit=id and ?delete=id open the overlays
func (c *CourseController) Index(ctx *gin.Context) {
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

	c.render(ctx, http.StatusOK, courseText.page(), s.view(s.form.Open).sections(courseText, s.table)...)
}

// Create handles the add form
func (c *CourseController) Create(ctx *gin.Context) {
	c.save(ctx, "", func(rc context.Context, in models.CourseInput) error {
		_, err := c.admin.CreateCourse(rc, in)
		return err
	})
}

// Update handles the edit form
func (c *CourseController) Update(ctx *gin.Context) {
	id := ctx.Param("id")
	c.save(ctx, id, func(rc context.Context, in models.CourseInput) error {
		_, err := c.admin.UpdateCourse(rc, id, in)
		return err
	})
}

func (c *CourseController) save(ctx *gin.Context, id string, onSubmit func(context.Context, models.CourseInput) error) {
	t := courseText
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
func (c *CourseController) Delete(ctx *gin.Context) {
	t := courseText
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
	s.dialog.OnConfirm = func() { deleteErr = c.admin.DeleteCourse(rc, id) }
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
