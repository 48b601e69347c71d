package controllers

import (
	"context"
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

const studentClassesPath = "/student/classes"

// StudentController serves the student's class list and enrollment requests
type StudentController struct {
	*Pages
	student backend.StudentActions
	cards   *components.Registry[*components.EnrollmentCard]
}

// NewStudentController creates a new StudentController
func NewStudentController(pages *Pages, student backend.StudentActions) *StudentController {
	return &StudentController{
		Pages:   pages,
		student: student,
		cards:   components.NewRegistry[*components.EnrollmentCard](),
	}
}

func enrollPath(classID string) string {
	return studentClassesPath + "/" + classID + "/enroll"
}

// card returns the shared card of the viewer's offering. release must be called.
func (c *StudentController) card(ctx *gin.Context, o models.ClassOffering) (*components.EnrollmentCard, func()) {
	viewer := middleware.GetViewer(ctx)
	return c.cards.Acquire(viewer.ID+":"+o.ID, func() *components.EnrollmentCard {
		card := components.NewEnrollmentCard(o, func(rc context.Context, classID string) error {
			_, err := c.student.Enroll(rc, viewer.ID, classID)
			return err
		}, nil)
		card.Action = enrollPath(o.ID)
		return card
	})
}

// Classes lists every class with the viewer's enrollment state
func (c *StudentController) Classes(ctx *gin.Context) {
	viewer := middleware.GetViewer(ctx)
	offerings, err := c.student.ClassOfferings(ctx.Request.Context(), viewer.ID)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	page := views.Page{Title: "My Classes", Description: "Browse classes and request enrollment."}
	if len(offerings) == 0 {
		c.render(ctx, http.StatusOK, page, views.Message{
			Heading: "No classes available",
			Body:    "There are no classes open for enrollment yet.",
		})
		return
	}

	grid := views.Grid{Columns: 3}
	for _, o := range offerings {
		card, release := c.card(ctx, o)
		grid.Items = append(grid.Items, card)
		defer release()
	}
	c.render(ctx, http.StatusOK, page, grid)
}

// Enroll requests a seat in the class. Live requests get the updated card
// back; plain form posts are redirected to the class list.
func (c *StudentController) Enroll(ctx *gin.Context) {
	viewer := middleware.GetViewer(ctx)
	classID := ctx.Param("id")
	rc := ctx.Request.Context()

	offerings, err := c.student.ClassOfferings(rc, viewer.ID)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	var offering *models.ClassOffering
	for i := range offerings {
		if offerings[i].ID == classID {
			offering = &offerings[i]
			break
		}
	}
	if offering == nil {
		_ = ctx.Error(apperrors.NewResourceNotFoundError("Class not found."))
		return
	}

	card, release := c.card(ctx, *offering)
	defer release()

	err = card.Enroll(c.requestContext(ctx))
	if err != nil && !errors.Is(err, apperrors.ErrActionDisabled) && !errors.Is(err, apperrors.ErrInFlight) {
		c.logger.Warn().Err(err).Str("class_id", classID).Str("student_id", viewer.ID).Msg("Enrollment request failed")
	}

	if !middleware.IsLive(ctx) {
		seeOther(ctx, studentClassesPath)
		return
	}

	status := http.StatusOK
	if err != nil {
		status = middleware.StatusFor(err)
	}
	html, renderErr := components.HTML(card)
	if renderErr != nil {
		_ = ctx.Error(renderErr)
		return
	}
	ctx.Data(status, "text/html; charset=utf-8", []byte(html))
}
