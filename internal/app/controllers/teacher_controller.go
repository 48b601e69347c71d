package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/cuetclass/internal/app/backend"
	"github.com/yigit/cuetclass/internal/app/components"
	"github.com/yigit/cuetclass/internal/app/models"
	"github.com/yigit/cuetclass/internal/app/views"
	"github.com/yigit/cuetclass/internal/middleware"
	"github.com/yigit/cuetclass/internal/pkg/apperrors"
)

const globalNoticesPath = "/teacher/notices"

// TeacherController serves the notice board of a teacher's classes
type TeacherController struct {
	*Pages
	catalog backend.Catalog
	teacher backend.TeacherActions
	forms   *components.Registry[*components.NoticeForm]
}

// NewTeacherController creates a new TeacherController
func NewTeacherController(pages *Pages, catalog backend.Catalog, teacher backend.TeacherActions) *TeacherController {
	return &TeacherController{
		Pages:   pages,
		catalog: catalog,
		teacher: teacher,
		forms:   components.NewRegistry[*components.NoticeForm](),
	}
}

func noticesPath(classID string) string {
	if classID == "" {
		return globalNoticesPath
	}
	return "/teacher/classes/" + classID + "/notices"
}

// board is the notice page of one class, or the global board
type board struct {
	class   *models.Class
	classes []models.Class
}

func (b board) classID() string {
	if b.class == nil {
		return ""
	}
	return b.class.ID
}

func (b board) page() views.Page {
	if b.class == nil {
		return views.Page{Title: "Global Notices", Description: "Notices posted here are shown in every class."}
	}
	return views.Page{
		Title:       b.class.CourseCode + ": " + b.class.CourseName,
		Description: "Section " + b.class.Section + " • " + b.class.Session,
	}
}

func (b board) picker() views.ClassPicker {
	p := views.ClassPicker{Links: []views.NavLink{{Label: "All Classes", Href: globalNoticesPath, Active: b.class == nil}}}
	for _, cls := range b.classes {
		p.Links = append(p.Links, views.NavLink{
			Label:  cls.Label(),
			Href:   noticesPath(cls.ID),
			Active: cls.ID == b.classID(),
		})
	}
	return p
}

// load resolves the class in the path and checks the viewer teaches it
func (c *TeacherController) load(ctx *gin.Context) (board, error) {
	viewer := middleware.GetViewer(ctx)
	all, err := c.catalog.Classes(ctx.Request.Context())
	if err != nil {
		return board{}, err
	}

	var b board
	for _, cls := range all {
		if cls.TeacherID == viewer.ID {
			b.classes = append(b.classes, cls)
		}
	}

	id := ctx.Param("id")
	if id == "" {
		return b, nil
	}
	cls, ok := backend.FindClass(all, id)
	if !ok {
		return board{}, apperrors.NewResourceNotFoundError("Class not found.")
	}
	if cls.TeacherID != viewer.ID {
		return board{}, apperrors.NewForbiddenError("You are not assigned to this class.")
	}
	b.class = &cls
	return b, nil
}

// form returns the shared notice form of the viewer's board. release must be called.
func (c *TeacherController) form(ctx *gin.Context, b board) (*components.NoticeForm, func()) {
	viewer := middleware.GetViewer(ctx)
	classID := b.classID()
	return c.forms.Acquire(viewer.ID+":"+classID, func() *components.NoticeForm {
		f := components.NewNoticeForm(classID, viewer.ID, c.teacher, nil)
		f.Action = noticesPath(classID)
		f.ClearHref = noticesPath(classID) + "/clear"
		return f
	})
}

func (c *TeacherController) show(ctx *gin.Context, status int, b board, form *components.NoticeForm) {
	notices, err := c.teacher.Notices(ctx.Request.Context(), b.classID())
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	sections := []components.Renderer{b.picker()}
	if b.class != nil {
		sections = append(sections, views.Toolbar{
			Heading: "Notices",
			Action: &components.ActionButton{
				Label:   "Take Attendance",
				Icon:    "check-circle",
				Variant: components.VariantSecondary,
				Href:    attendancePath(b.classID()),
			},
		})
	}
	sections = append(sections, form, components.NoticeList{Notices: notices})
	c.render(ctx, status, b.page(), sections...)
}

// Notices shows the board with an empty form
func (c *TeacherController) Notices(ctx *gin.Context) {
	b, err := c.load(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	form, release := c.form(ctx, b)
	defer release()
	c.show(ctx, http.StatusOK, b, form)
}

// Post publishes the submitted notice
func (c *TeacherController) Post(ctx *gin.Context) {
	b, err := c.load(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if err := ctx.Request.ParseForm(); err != nil {
		_ = ctx.Error(err)
		return
	}

	form, release := c.form(ctx, b)
	defer release()
	form.SetValues(ctx.Request.PostForm)

	err = form.Submit(c.requestContext(ctx))
	switch {
	case err == nil:
		seeOther(ctx, noticesPath(b.classID()))
	case errors.Is(err, apperrors.ErrInFlight):
		seeOther(ctx, noticesPath(b.classID()))
	default:
		if !errors.Is(err, apperrors.ErrValidationFailed) {
			c.logger.Warn().Err(err).Str("class_id", b.classID()).Msg("Notice post failed")
		}
		c.show(ctx, middleware.StatusFor(err), b, form)
	}
}

// Clear empties the form without posting
func (c *TeacherController) Clear(ctx *gin.Context) {
	b, err := c.load(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	form, release := c.form(ctx, b)
	defer release()
	form.Clear()
	seeOther(ctx, noticesPath(b.classID()))
}
