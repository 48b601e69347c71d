// Package views holds the page layout the controllers render components into.
package views

import (
	"embed"
	"html/template"
	"io"

	"github.com/yigit/cuetclass/internal/app/components"
	"github.com/yigit/cuetclass/internal/app/notify"
	"github.com/yigit/cuetclass/internal/app/reveal"
)

// PageTemplate is the name of the full document template
const PageTemplate = "page"

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("views").
		Funcs(template.FuncMap{
			"toastClass": toastClass,
			"component":  components.HTML,
		}).
		ParseFS(templateFS, "templates/*.html"),
)

// Templates returns the parsed page templates for the gin HTML renderer
func Templates() *template.Template {
	return templates
}

func toastClass(v notify.Variant) string {
	if v == notify.VariantDestructive {
		return "border-red-500/40 bg-red-900/80"
	}
	return "border-white/10 bg-cuet-dark/90"
}

// NavLink is one entry of the section navigation
type NavLink struct {
	Label  string
	Href   string
	Active bool
}

// Page is the data of one rendered document
type Page struct {
	Title       string
	Description string
	Nav         []NavLink
	Sections    []template.HTML
	Toasts      []notify.Notification
	// CSRFToken is copied into every form by the page script
	CSRFToken string
	// Landing drops the dashboard heading and uses the full-bleed layout
	Landing bool
}

var adminLinks = []NavLink{
	{Label: "Dashboard", Href: "/admin/dashboard"},
	{Label: "Departments", Href: "/admin/departments"},
	{Label: "Courses", Href: "/admin/courses"},
	{Label: "Classes", Href: "/admin/classes"},
	{Label: "Students", Href: "/admin/students"},
	{Label: "Teachers", Href: "/admin/teachers"},
	{Label: "Bulk Upload", Href: "/admin/bulk-upload"},
	{Label: "Promote CRs", Href: "/admin/promote-crs"},
}

// AdminNav returns the admin navigation with href marked active
func AdminNav(active string) []NavLink {
	out := make([]NavLink, len(adminLinks))
	for i, l := range adminLinks {
		l.Active = l.Href == active
		out[i] = l
	}
	return out
}

// Toolbar is the heading row above a table with its primary action
type Toolbar struct {
	Heading string
	Action  *components.ActionButton
}

// ClassPicker lets a teacher switch between classes
type ClassPicker struct {
	Links []NavLink
}

// Message is a standalone notice panel, used for errors and empty states
type Message struct {
	Heading string
	Body    string
	Back    *components.ActionButton
}

// Grid lays components out in responsive columns
type Grid struct {
	Columns int
	Items   []components.Renderer
}

// ColumnClass is the css grid class for the column count
func (g Grid) ColumnClass() string {
	switch g.Columns {
	case 2:
		return "md:grid-cols-2"
	case 4:
		return "md:grid-cols-2 lg:grid-cols-4"
	default:
		return "md:grid-cols-2 lg:grid-cols-3"
	}
}

// Render implements components.Renderer
func (g Grid) Render(w io.Writer) error {
	return templates.ExecuteTemplate(w, "grid", g)
}

// Feature is one card of the landing features grid
type Feature struct {
	Icon        string
	Title       string
	Description string
}

// Features is the landing section listing what the system offers; cards use
// the scroll-reveal marker
type Features struct {
	Heading string
	Items   []Feature
}

// LandingFeatures returns the landing features section
func LandingFeatures() Features {
	return Features{
		Heading: "Everything you need in one place",
		Items: []Feature{
			{Icon: "book-open", Title: "Course Management", Description: "Browse departments, courses and class sections offered each session."},
			{Icon: "users", Title: "Easy Enrollment", Description: "Request a seat in a class and follow the approval status from your dashboard."},
			{Icon: "bell", Title: "Notice Board", Description: "Teachers post notices to a class or to everyone, students see them instantly."},
			{Icon: "bar-chart", Title: "Admin Overview", Description: "Administrators keep an eye on students, teachers, classes and departments."},
		},
	}
}

// RevealClass is the scroll-reveal marker carried by each card
func (f Features) RevealClass() string { return reveal.MarkerClass }

// Render implements components.Renderer
func (f Features) Render(w io.Writer) error {
	return templates.ExecuteTemplate(w, "features", f)
}

// Sections renders each renderer in order
func Sections(rs ...components.Renderer) ([]template.HTML, error) {
	out := make([]template.HTML, 0, len(rs))
	for _, r := range rs {
		h, err := components.HTML(r)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

// Render implements components.Renderer
func (t Toolbar) Render(w io.Writer) error {
	return templates.ExecuteTemplate(w, "toolbar", t)
}

// Render implements components.Renderer
func (p ClassPicker) Render(w io.Writer) error {
	return templates.ExecuteTemplate(w, "class_picker", p)
}

// Render implements components.Renderer
func (m Message) Render(w io.Writer) error {
	return templates.ExecuteTemplate(w, "message", m)
}
