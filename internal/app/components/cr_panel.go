package components

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/yigit/cuetclass/internal/app/models"
	"github.com/yigit/cuetclass/internal/app/notify"
	"github.com/yigit/cuetclass/internal/pkg/apperrors"
)

// Class representative notification texts
var (
	CRSaved      = notify.Success("CR Assignments Saved", "Class Representative assignments have been updated successfully.")
	CRSaveFailed = notify.Failure("Error", "Failed to save CR assignments.")
)

// SectionGroup is one department, section and session with the students in it.
// Class supplies the course shown in the heading.
type SectionGroup struct {
	Key      string
	Class    models.Class
	Students []models.User
}

// Representative returns the class representative of the section, if any
func (g SectionGroup) Representative() (models.User, bool) {
	for _, s := range g.Students {
		if s.IsClassRepresentative {
			return s, true
		}
	}
	return models.User{}, false
}

// GroupSections groups students under the first class of each section, in
// class order
func GroupSections(classes []models.Class, students []models.User) []SectionGroup {
	var out []SectionGroup
	seen := make(map[string]bool)
	for _, c := range classes {
		key := models.SectionKey(c.DepartmentCode, c.Section, c.Session)
		if seen[key] {
			continue
		}
		seen[key] = true

		g := SectionGroup{Key: key, Class: c}
		for _, s := range students {
			if s.Role == models.RoleStudent && s.SectionKey() == key {
				g.Students = append(g.Students, s)
			}
		}
		out = append(out, g)
	}
	return out
}

// CRPanel lets the admin pick one class representative per section. Each
// toggle is saved right away.
type CRPanel struct {
	Groups   []SectionGroup
	OnChange func(ctx context.Context, studentID string, cr bool) error
	Notifier notify.Notifier
	// Action builds the form target of a student's toggle
	Action func(studentID string) string

	inFlight atomic.Bool
}

// NewCRPanel creates a panel over the grouped sections
func NewCRPanel(groups []SectionGroup, onChange func(context.Context, string, bool) error, n notify.Notifier) *CRPanel {
	if n == nil {
		n = notify.Discard
	}
	return &CRPanel{Groups: groups, OnChange: onChange, Notifier: n}
}

// CRStats are the panel counters
type CRStats struct {
	TotalClasses int
	ActiveCRs    int
	NeedCRs      int
}

// Stats counts sections with and without a representative
func (p *CRPanel) Stats() CRStats {
	s := CRStats{TotalClasses: len(p.Groups)}
	for _, g := range p.Groups {
		if _, ok := g.Representative(); ok {
			s.ActiveCRs++
		}
	}
	s.NeedCRs = s.TotalClasses - s.ActiveCRs
	return s
}

// Has reports whether the student belongs to one of the sections
func (p *CRPanel) Has(studentID string) bool {
	for _, g := range p.Groups {
		for _, s := range g.Students {
			if s.ID == studentID {
				return true
			}
		}
	}
	return false
}

// Set promotes or demotes one student of the panel. The outcome goes to the
// notifier carried by ctx, or to Notifier when ctx has none.
func (p *CRPanel) Set(ctx context.Context, studentID string, cr bool) error {
	if p.OnChange == nil {
		return apperrors.ErrActionUnavailable
	}
	if !p.Has(studentID) {
		return apperrors.NewResourceNotFoundError("student " + studentID + " is in no section")
	}
	if !p.inFlight.CompareAndSwap(false, true) {
		return apperrors.ErrInFlight
	}
	defer p.inFlight.Store(false)

	n := notify.FromContext(ctx, p.Notifier)
	if err := p.OnChange(ctx, studentID, cr); err != nil {
		n.Notify(ctx, CRSaveFailed)
		return err
	}
	n.Notify(ctx, CRSaved)
	return nil
}

// Toggle is the control of one student: "Make CR" or "Remove CR"
func (p *CRPanel) Toggle(s models.User) ActionButton {
	b := ActionButton{Label: "Make CR", Icon: "crown", Variant: VariantOutline, Size: SizeSmall,
		Type: "submit", Name: "cr", Value: "1", Disabled: p.inFlight.Load()}
	if s.IsClassRepresentative {
		b.Label, b.Value, b.Variant = "Remove CR", "0", VariantSecondary
	}
	b.OnClick = func() error { return p.Set(context.Background(), s.ID, !s.IsClassRepresentative) }
	return b
}

type crRow struct {
	Student models.User
	Action  string
	Button  ActionButton
}

type crGroupView struct {
	Key               string
	DepartmentCode    string
	CourseName        string
	Section           string
	Session           string
	HasRepresentative bool
	Rows              []crRow
}

// Render implements Renderer
func (p *CRPanel) Render(w io.Writer) error {
	s := p.Stats()
	view := struct {
		Stats  []StatCard
		Groups []crGroupView
	}{
		Stats: []StatCard{
			{Title: "Total Classes", Value: s.TotalClasses, Icon: "users"},
			{Title: "Active CRs", Value: s.ActiveCRs, Icon: "crown", Color: "from-yellow-600 to-yellow-800"},
			{Title: "Need CRs", Value: s.NeedCRs, Icon: "users", Color: "from-red-600 to-red-800"},
		},
	}
	for _, g := range p.Groups {
		_, has := g.Representative()
		gv := crGroupView{
			Key: g.Key, DepartmentCode: g.Class.DepartmentCode, CourseName: g.Class.CourseName,
			Section: g.Class.Section, Session: g.Class.Session, HasRepresentative: has,
		}
		for _, st := range g.Students {
			row := crRow{Student: st, Button: p.Toggle(st)}
			if p.Action != nil {
				row.Action = p.Action(st.ID)
			}
			gv.Rows = append(gv.Rows, row)
		}
		view.Groups = append(view.Groups, gv)
	}
	return render(w, "cr_panel", view)
}
