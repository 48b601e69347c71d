package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/cuetclass/internal/app/backend"
	"github.com/yigit/cuetclass/internal/app/components"
	"github.com/yigit/cuetclass/internal/app/notify"
	"github.com/yigit/cuetclass/internal/app/views"
	"github.com/yigit/cuetclass/internal/middleware"
)

// Pages is what every page controller shares: toast delivery and the layout
type Pages struct {
	mailbox   *notify.Mailbox
	publisher notify.Publisher
	logger    zerolog.Logger
	// observers see every toast besides the viewer, e.g. metrics
	observers []notify.Notifier
}

// NewPages creates the shared page helpers. publisher may be nil.
func NewPages(mailbox *notify.Mailbox, publisher notify.Publisher, logger zerolog.Logger, observers ...notify.Notifier) *Pages {
	return &Pages{mailbox: mailbox, publisher: publisher, logger: logger, observers: observers}
}

// notifier delivers toasts for the request: straight to the live page for
// script requests, otherwise into the session mailbox for the next render
func (p *Pages) notifier(ctx *gin.Context) notify.Notifier {
	topic := middleware.SessionTopic(ctx)
	sinks := append([]notify.Notifier{notify.Logging(p.logger)}, p.observers...)
	if middleware.IsLive(ctx) && p.publisher != nil {
		return notify.Fanout(append(sinks, notify.ToTopic(p.publisher, topic))...)
	}
	return notify.Fanout(append(sinks, p.mailbox.For(topic))...)
}

// requestContext carries the notifier of this request so shared widgets
// deliver toasts to the session and mode that triggered them
func (p *Pages) requestContext(ctx *gin.Context) context.Context {
	return notify.NewContext(ctx.Request.Context(), p.notifier(ctx))
}

// render writes the page with any pending toasts of the session
func (p *Pages) render(ctx *gin.Context, status int, page views.Page, sections ...components.Renderer) {
	html, err := views.Sections(sections...)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	page.Sections = append(page.Sections, html...)
	page.Toasts = p.mailbox.Drain(middleware.SessionTopic(ctx))
	page.CSRFToken = middleware.CSRFToken(ctx.Request)
	ctx.HTML(status, views.PageTemplate, page)
}

// ErrorPage renders a failed request as a full page
func (p *Pages) ErrorPage(ctx *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		p.logger.Error().Err(err).Str("path", ctx.Request.URL.Path).Msg("Request failed")
	}
	p.render(ctx, status, views.Page{Title: http.StatusText(status)}, views.Message{
		Heading: errorHeading(status),
		Body:    middleware.Message(err),
		Back:    &components.ActionButton{Label: "Back to Home", Variant: components.VariantSecondary, Href: "/"},
	})
}

// NotFound renders the page for unknown routes
func (p *Pages) NotFound(ctx *gin.Context) {
	p.ErrorPage(ctx, http.StatusNotFound, backend.ErrNotFound)
}

func errorHeading(status int) string {
	switch status {
	case http.StatusNotFound:
		return "Not Found"
	case http.StatusForbidden:
		return "Access Denied"
	case http.StatusBadGateway:
		return "Service Unavailable"
	default:
		return "Something went wrong"
	}
}

// seeOther finishes a successful post
func seeOther(ctx *gin.Context, location string) {
	ctx.Redirect(http.StatusSeeOther, location)
}

// failureText is the toast description for a failed backend action
func failureText(noun, verb string, err error) string {
	switch {
	case errors.Is(err, backend.ErrConflict):
		return "The " + noun + " conflicts with an existing record or is still in use."
	case errors.Is(err, backend.ErrNotFound):
		return "The " + noun + " no longer exists."
	case errors.Is(err, backend.ErrValidation):
		return "The " + noun + " was rejected. Please check the values and try again."
	default:
		return "Failed to " + verb + " " + noun + ". Please try again."
	}
}
