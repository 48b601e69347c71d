package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/cuetclass/internal/app/backend"
	"github.com/yigit/cuetclass/internal/app/components"
	"github.com/yigit/cuetclass/internal/app/models"
	"github.com/yigit/cuetclass/internal/app/views"
	"github.com/yigit/cuetclass/internal/pkg/apperrors"
)

const (
	representativesPath = "/admin/promote-crs"
	bulkUploadPath      = "/admin/bulk-upload"
	sampleCSVPath       = bulkUploadPath + "/sample.csv"
)

func representativeAction(studentID string) string {
	return studentText.item(studentID) + "/cr"
}

// RepresentativeController lets the admin assign one class representative
// per section
type RepresentativeController struct {
	*Pages
	catalog backend.Catalog
	users   backend.UserActions
}

// NewRepresentativeController creates a new RepresentativeController
func NewRepresentativeController(pages *Pages, catalog backend.Catalog, users backend.UserActions) *RepresentativeController {
	return &RepresentativeController{Pages: pages, catalog: catalog, users: users}
}

func (c *RepresentativeController) panel(ctx *gin.Context) (*components.CRPanel, error) {
	rc := ctx.Request.Context()
	classes, err := c.catalog.Classes(rc)
	if err != nil {
		return nil, err
	}
	students, err := c.users.Users(rc, models.RoleStudent)
	if err != nil {
		return nil, err
	}
	p := components.NewCRPanel(components.GroupSections(classes, students), func(rc context.Context, id string, cr bool) error {
		_, err := c.users.SetClassRepresentative(rc, id, cr)
		return err
	}, nil)
	p.Action = representativeAction
	return p, nil
}

func (c *RepresentativeController) page() views.Page {
	return views.Page{
		Title:       "Promote Class Representatives",
		Description: "Assign Class Representatives for each class section.",
		Nav:         views.AdminNav(representativesPath),
	}
}

// Index shows every section with its students
func (c *RepresentativeController) Index(ctx *gin.Context) {
	p, err := c.panel(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	c.render(ctx, http.StatusOK, c.page(), p)
}

// Set promotes (cr=1) or demotes (cr=0) one student
func (c *RepresentativeController) Set(ctx *gin.Context) {
	id := ctx.Param("id")
	var cr bool
	switch ctx.PostForm("cr") {
	case "1":
		cr = true
	case "0":
	default:
		_ = ctx.Error(fmt.Errorf("cr must be 0 or 1: %w", apperrors.ErrBadRequest))
		return
	}

	p, err := c.panel(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if !p.Has(id) {
		_ = ctx.Error(apperrors.NewResourceNotFoundError("Student not found in any class section."))
		return
	}
	if err := p.Set(c.requestContext(ctx), id, cr); err != nil && !errors.Is(err, apperrors.ErrInFlight) {
		c.logger.Warn().Err(err).Str("student_id", id).Bool("cr", cr).Msg("Class representative change failed")
	}
	seeOther(ctx, representativesPath)
}

// BulkUploadController creates student accounts from a CSV file
type BulkUploadController struct {
	*Pages
	users backend.UserActions
}

// NewBulkUploadController creates a new BulkUploadController
func NewBulkUploadController(pages *Pages, users backend.UserActions) *BulkUploadController {
	return &BulkUploadController{Pages: pages, users: users}
}

func (c *BulkUploadController) form() *components.BulkUploadForm {
	f := components.NewBulkUploadForm(func(rc context.Context, in models.UserInput) error {
		_, err := c.users.CreateUser(rc, in)
		return err
	}, nil)
	f.Action, f.SampleHref = bulkUploadPath, sampleCSVPath
	return f
}

func (c *BulkUploadController) page() views.Page {
	return views.Page{
		Title:       "Bulk Upload Students",
		Description: "Upload multiple students at once using a CSV file.",
		Nav:         views.AdminNav(bulkUploadPath),
	}
}

// Index shows the upload form
func (c *BulkUploadController) Index(ctx *gin.Context) {
	c.render(ctx, http.StatusOK, c.page(), c.form())
}

// Upload processes the posted file and shows the results in place
func (c *BulkUploadController) Upload(ctx *gin.Context) {
	f := c.form()
	rc := c.requestContext(ctx)

	fh, err := ctx.FormFile(components.CSVField)
	if err != nil {
		c.notifier(ctx).Notify(rc, components.InvalidUploadFile)
		c.render(ctx, http.StatusBadRequest, c.page(), f)
		return
	}
	file, err := fh.Open()
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	defer file.Close()

	res, err := f.Upload(rc, fh.Filename, fh.Size, file)
	if err != nil {
		c.logger.Warn().Err(err).Str("file", fh.Filename).Msg("Bulk upload rejected")
		c.render(ctx, http.StatusBadRequest, c.page(), f)
		return
	}
	c.logger.Info().Int("success", res.Success).Int("failed", res.Failed).Msg("Bulk upload processed")
	c.render(ctx, http.StatusOK, c.page(), f)
}

// Sample downloads the CSV template
func (c *BulkUploadController) Sample(ctx *gin.Context) {
	ctx.Header("Content-Disposition", `attachment; filename="sample_students.csv"`)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(components.SampleCSV))
}
