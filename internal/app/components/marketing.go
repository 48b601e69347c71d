package components

import (
	"io"

	"github.com/yigit/cuetclass/internal/app/reveal"
)

// Hero element ids watched by the visibility observer
const (
	HeroTitleID    = "hero-title"
	HeroSubtitleID = "hero-subtitle"
	HeroActionsID  = "hero-actions"
)

// DefaultHeroThreshold is the visible ratio at which hero elements animate in
const DefaultHeroThreshold = 0.1

// Hero is the landing page banner. Its elements animate in through the
// visibility observer rather than the scroll tracker.
type Hero struct {
	Title      string
	Highlight  string
	Subtitle   string
	PrimaryCTA ActionButton
	LearnMore  ActionButton
	Threshold  float64
}

// NewHero returns the landing banner
func NewHero() Hero {
	return Hero{
		Title:     "Welcome to CUET's",
		Highlight: "Class Management System",
		Subtitle:  "Streamlining education for students and faculty at Chittagong University of Engineering and Technology",
		PrimaryCTA: ActionButton{
			Label: "Get Started", Icon: "arrow-right", Size: SizeLarge, Href: "/login",
			Class: "bg-gradient-to-r from-[#3b82f6] to-[#1d4ed8] hover:from-[#1d4ed8] hover:to-[#1e40af]",
		},
		LearnMore: ActionButton{
			Label: "Learn More", Variant: VariantOutline, Size: SizeLarge, Href: "#about",
			Class: "border-white/20 bg-white/5 backdrop-blur-sm",
		},
		Threshold: DefaultHeroThreshold,
	}
}

// Targets are the observed element ids in document order
func (h Hero) Targets() []string {
	return []string{HeroTitleID, HeroSubtitleID, HeroActionsID}
}

// Observe registers the hero elements with the observer; onVisible runs once per element
func (h Hero) Observe(o *reveal.Observer, onVisible func(id string)) {
	for _, id := range h.Targets() {
		o.Observe(id, h.Threshold, onVisible)
	}
}

// Render implements Renderer
func (h Hero) Render(w io.Writer) error {
	return render(w, "hero", h)
}

// CTA is the sign-up call to action; its panel uses the scroll tracker
type CTA struct {
	Heading string
	Body    string
	SignUp  ActionButton
}

// CTAPanelID identifies the revealed panel
const CTAPanelID = "cta-panel"

// NewCTA returns the sign-up section
func NewCTA() CTA {
	return CTA{
		Heading: "Ready to enhance your CUET experience?",
		Body:    "Join thousands of students and faculty already using our platform to streamline their academic journey.",
		SignUp: ActionButton{
			Label: "Sign Up Now", Icon: "arrow-right", Size: SizeLarge, Href: "/signup",
			Class: "bg-gradient-to-r from-blue-600 to-blue-800 hover:shadow-lg",
		},
	}
}

// PanelID is the id of the revealed element
func (c CTA) PanelID() string { return CTAPanelID }

// RevealClass is the scroll-reveal marker carried by the panel
func (c CTA) RevealClass() string { return reveal.MarkerClass }

// Render implements Renderer
func (c CTA) Render(w io.Writer) error {
	return render(w, "cta", c)
}
