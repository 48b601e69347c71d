package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/cuetclass/internal/app/backend"
	"github.com/yigit/cuetclass/internal/app/components"
	"github.com/yigit/cuetclass/internal/app/views"
)

// DashboardController serves the admin overview
type DashboardController struct {
	*Pages
	catalog backend.Catalog
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(pages *Pages, catalog backend.Catalog) *DashboardController {
	return &DashboardController{Pages: pages, catalog: catalog}
}

// Index shows the four counters
func (c *DashboardController) Index(ctx *gin.Context) {
	stats, err := c.catalog.Stats(ctx.Request.Context())
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	grid := views.Grid{Columns: 4, Items: []components.Renderer{
		components.StatCard{Title: "Total Students", Value: stats.StudentsCount, Icon: "users", Color: "from-blue-600 to-blue-800"},
		components.StatCard{Title: "Total Teachers", Value: stats.TeachersCount, Icon: "graduation-cap", Color: "from-emerald-600 to-emerald-800"},
		components.StatCard{Title: "Active Classes", Value: stats.ClassesCount, Icon: "book-open", Color: "from-purple-600 to-purple-800"},
		components.StatCard{Title: "Departments", Value: stats.DepartmentsCount, Icon: "building", Color: "from-amber-600 to-amber-800"},
	}}

	c.render(ctx, http.StatusOK, views.Page{
		Title:       "Admin Dashboard",
		Description: "Overview of the class management system.",
		Nav:         views.AdminNav("/admin/dashboard"),
	}, grid)
}
