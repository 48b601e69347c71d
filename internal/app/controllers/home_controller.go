package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/cuetclass/internal/app/components"
	"github.com/yigit/cuetclass/internal/app/views"
)

// HomeController serves the public landing page
type HomeController struct {
	*Pages
	heroThreshold float64
}

// NewHomeController creates a new HomeController. A non-positive threshold
// uses the hero default.
func NewHomeController(pages *Pages, heroThreshold float64) *HomeController {
	if heroThreshold <= 0 {
		heroThreshold = components.DefaultHeroThreshold
	}
	return &HomeController{Pages: pages, heroThreshold: heroThreshold}
}

// Hero returns the landing banner with the configured threshold
func (c *HomeController) Hero() components.Hero {
	h := components.NewHero()
	h.Threshold = c.heroThreshold
	return h
}

// Landing renders the hero, the features grid and the call to action
func (c *HomeController) Landing(ctx *gin.Context) {
	c.render(ctx, http.StatusOK, views.Page{
		Title:   "CUET Class Management System",
		Landing: true,
	}, c.Hero(), views.LandingFeatures(), components.NewCTA())
}

// Health reports liveness
func (c *HomeController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
