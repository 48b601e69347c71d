package components

import (
	"fmt"
	"io"

	"github.com/yigit/cuetclass/internal/app/reveal"
	"github.com/yigit/cuetclass/internal/pkg/apperrors"
)

// ButtonVariant selects the button styling
type ButtonVariant string

const (
	VariantDefault     ButtonVariant = "default"
	VariantDestructive ButtonVariant = "destructive"
	VariantOutline     ButtonVariant = "outline"
	VariantSecondary   ButtonVariant = "secondary"
	VariantGhost       ButtonVariant = "ghost"
	VariantLink        ButtonVariant = "link"
)

// ButtonSize selects the button dimensions
type ButtonSize string

const (
	SizeDefault ButtonSize = "default"
	SizeSmall   ButtonSize = "sm"
	SizeLarge   ButtonSize = "lg"
	SizeIcon    ButtonSize = "icon"
)

var variantClasses = map[ButtonVariant]string{
	VariantDefault:     "bg-blue-600 text-white hover:bg-blue-700",
	VariantDestructive: "bg-red-600 text-white hover:bg-red-700",
	VariantOutline:     "border border-white/10 bg-transparent hover:bg-white/10",
	VariantSecondary:   "bg-white/10 text-white hover:bg-white/20",
	VariantGhost:       "hover:bg-white/10",
	VariantLink:        "text-blue-400 underline-offset-4 hover:underline",
}

var sizeClasses = map[ButtonSize]string{
	SizeDefault: "h-10 px-4 py-2",
	SizeSmall:   "h-9 rounded-md px-3",
	SizeLarge:   "h-11 rounded-md px-8",
	SizeIcon:    "h-10 w-10",
}

// ActionButton is a labelled button with an icon. With Href set it renders as a
// link; otherwise as a form button carrying Name=Value.
type ActionButton struct {
	Label    string
	Icon     string
	Variant  ButtonVariant
	Size     ButtonSize
	Class    string
	Disabled bool

	Href  string
	Type  string
	Name  string
	Value string

	OnClick func() error
}

// Click invokes OnClick unless the button is disabled and returns its error
func (b ActionButton) Click() error {
	if b.Disabled {
		return apperrors.ErrActionDisabled
	}
	if b.OnClick == nil {
		return apperrors.ErrActionUnavailable
	}
	return b.OnClick()
}

// Classes returns the css classes for the variant and size
func (b ActionButton) Classes() string {
	v, ok := variantClasses[b.Variant]
	if !ok {
		v = variantClasses[VariantDefault]
	}
	s, ok := sizeClasses[b.Size]
	if !ok {
		s = sizeClasses[SizeDefault]
	}
	return classes("inline-flex items-center justify-center rounded-md text-sm font-medium transition-colors disabled:pointer-events-none disabled:opacity-50", v, s, b.Class)
}

// ButtonType is the html button type, "button" unless set
func (b ActionButton) ButtonType() string {
	if b.Type == "" {
		return "button"
	}
	return b.Type
}

// Render implements Renderer
func (b ActionButton) Render(w io.Writer) error {
	return render(w, "action_button", b)
}

// DefaultStatColor is the gradient used when a StatCard has no color
const DefaultStatColor = "from-blue-600 to-blue-800"

// StatCard shows one dashboard figure
type StatCard struct {
	Title string
	Value any
	Icon  string
	Color string
}

// Gradient returns the card color or the default
func (c StatCard) Gradient() string {
	if c.Color == "" {
		return DefaultStatColor
	}
	return c.Color
}

// DisplayValue formats the value for display
func (c StatCard) DisplayValue() string {
	if c.Value == nil {
		return "0"
	}
	return fmt.Sprint(c.Value)
}

// RevealClass is the scroll-reveal marker carried by the card
func (c StatCard) RevealClass() string {
	return reveal.MarkerClass
}

// Render implements Renderer
func (c StatCard) Render(w io.Writer) error {
	return render(w, "stat_card", c)
}
