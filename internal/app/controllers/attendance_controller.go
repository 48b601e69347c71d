package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/cuetclass/internal/app/components"
	"github.com/yigit/cuetclass/internal/app/models"
	"github.com/yigit/cuetclass/internal/app/views"
	"github.com/yigit/cuetclass/internal/middleware"
	"github.com/yigit/cuetclass/internal/pkg/apperrors"
)

func attendancePath(classID string) string {
	return "/teacher/classes/" + classID + "/attendance"
}

// attendanceDate reads the day from the request; today when absent
func attendanceDate(raw string) (string, error) {
	if raw == "" {
		return time.Now().Format(models.AttendanceDateLayout), nil
	}
	if _, err := time.Parse(models.AttendanceDateLayout, raw); err != nil {
		return "", fmt.Errorf("attendance date %q: %w", raw, apperrors.ErrBadRequest)
	}
	return raw, nil
}

func attendancePage(b board) views.Page {
	p := b.page()
	p.Title += " - Attendance"
	return p
}

func (b board) attendancePicker() views.ClassPicker {
	var p views.ClassPicker
	for _, cls := range b.classes {
		p.Links = append(p.Links, views.NavLink{
			Label:  cls.Label(),
			Href:   attendancePath(cls.ID),
			Active: cls.ID == b.classID(),
		})
	}
	return p
}

// grid loads the roster of the board's class with the marks saved for date
func (c *TeacherController) grid(ctx *gin.Context, b board, date string, prefill bool) (*components.AttendanceGrid, error) {
	rc := ctx.Request.Context()
	roster, err := c.teacher.Roster(rc, b.classID())
	if err != nil {
		return nil, err
	}
	var saved []models.AttendanceMark
	if prefill {
		if saved, err = c.teacher.Attendance(rc, b.classID(), date); err != nil {
			return nil, err
		}
	}
	viewer := middleware.GetViewer(ctx)
	g := components.NewAttendanceGrid(b.classID(), viewer.ID, date, roster, saved, c.teacher, nil)
	g.Action = attendancePath(b.classID())
	g.ClearHref = attendancePath(b.classID()) + "?date=" + date + "&clear=1"
	return g, nil
}

// Attendance shows the grid for ?date=; ?clear=1 hides the saved marks
func (c *TeacherController) Attendance(ctx *gin.Context) {
	b, err := c.load(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	date, err := attendanceDate(ctx.Query("date"))
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	g, err := c.grid(ctx, b, date, ctx.Query("clear") == "")
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	c.render(ctx, http.StatusOK, attendancePage(b), b.attendancePicker(), g)
}

// SaveAttendance records the submitted marks
func (c *TeacherController) SaveAttendance(ctx *gin.Context) {
	b, err := c.load(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if err := ctx.Request.ParseForm(); err != nil {
		_ = ctx.Error(err)
		return
	}
	date, err := attendanceDate(ctx.Request.PostForm.Get("date"))
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	g, err := c.grid(ctx, b, date, false)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	g.SetValues(ctx.Request.PostForm)

	err = g.Save(c.requestContext(ctx))
	switch {
	case err == nil, errors.Is(err, apperrors.ErrInFlight):
		seeOther(ctx, attendancePath(b.classID())+"?date="+date)
	default:
		if !errors.Is(err, apperrors.ErrActionDisabled) {
			c.logger.Warn().Err(err).Str("class_id", b.classID()).Str("date", date).Msg("Attendance save failed")
		}
		c.render(ctx, middleware.StatusFor(err), attendancePage(b), b.attendancePicker(), g)
	}
}
