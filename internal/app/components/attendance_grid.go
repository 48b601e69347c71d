package components

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/yigit/cuetclass/internal/app/models"
	"github.com/yigit/cuetclass/internal/app/notify"
	"github.com/yigit/cuetclass/internal/pkg/apperrors"
)

// Attendance notification texts
var (
	AttendanceSaved      = notify.Success("Attendance Saved", "Attendance has been recorded successfully.")
	AttendanceSaveFailed = notify.Failure("Error", "Failed to save attendance. Please try again.")
)

// AttendanceSaver stores the marks of one class and day
type AttendanceSaver interface {
	SaveAttendance(ctx context.Context, sheet models.AttendanceSheet) error
}

// AttendanceGrid lets a teacher mark every enrolled student present, late or
// absent for one date. Marks stay local until Save.
type AttendanceGrid struct {
	ClassID  string
	MarkedBy string
	Date     string
	Roster   []models.User
	Saver    AttendanceSaver
	Notifier notify.Notifier

	// Action is the save target; ClearHref reloads the grid with no marks
	Action    string
	ClearHref string

	mu       sync.Mutex
	marks    map[string]models.AttendanceStatus
	inFlight atomic.Bool
}

// NewAttendanceGrid creates a grid for date prefilled with the saved marks
func NewAttendanceGrid(classID, markedBy, date string, roster []models.User, saved []models.AttendanceMark, saver AttendanceSaver, n notify.Notifier) *AttendanceGrid {
	if n == nil {
		n = notify.Discard
	}
	g := &AttendanceGrid{
		ClassID: classID, MarkedBy: markedBy, Date: date, Roster: roster,
		Saver: saver, Notifier: n,
		marks: make(map[string]models.AttendanceStatus),
	}
	for _, m := range saved {
		_ = g.Mark(m.StudentID, m.Status)
	}
	return g
}

func (g *AttendanceGrid) enrolled(studentID string) bool {
	for _, u := range g.Roster {
		if u.ID == studentID {
			return true
		}
	}
	return false
}

// Mark sets the status of one student
func (g *AttendanceGrid) Mark(studentID string, status models.AttendanceStatus) error {
	if !status.Valid() {
		return fmt.Errorf("attendance status %q: %w", status, apperrors.ErrValidationFailed)
	}
	if !g.enrolled(studentID) {
		return apperrors.NewResourceNotFoundError("student " + studentID + " is not on the roster")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.marks[studentID] = status
	return nil
}

// Status returns the mark of one student; empty when unmarked
func (g *AttendanceGrid) Status(studentID string) models.AttendanceStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.marks[studentID]
}

// ClearAll drops every mark without saving
func (g *AttendanceGrid) ClearAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.marks = make(map[string]models.AttendanceStatus)
}

// SetValues replaces the marks with the submitted status[<student id>] fields.
// Unknown students and statuses are ignored.
func (g *AttendanceGrid) SetValues(v url.Values) {
	g.ClearAll()
	for _, u := range g.Roster {
		_ = g.Mark(u.ID, models.AttendanceStatus(v.Get(statusField(u.ID))))
	}
}

// Summary counts the marks over the roster
func (g *AttendanceGrid) Summary() models.AttendanceSummary {
	g.mu.Lock()
	defer g.mu.Unlock()
	return models.Summarize(g.Roster, g.marks)
}

// Saving reports whether a save is in flight
func (g *AttendanceGrid) Saving() bool {
	return g.inFlight.Load()
}

// CanSave reports whether at least one student is marked and nothing is in flight
func (g *AttendanceGrid) CanSave() bool {
	g.mu.Lock()
	n := len(g.marks)
	g.mu.Unlock()
	return n > 0 && !g.Saving()
}

// Save sends the marks in roster order. The outcome goes to the notifier
// carried by ctx, or to Notifier when ctx has none.
func (g *AttendanceGrid) Save(ctx context.Context) error {
	if g.Saver == nil {
		return apperrors.ErrActionUnavailable
	}
	sheet := models.AttendanceSheet{ClassID: g.ClassID, Date: g.Date, MarkedBy: g.MarkedBy}
	g.mu.Lock()
	for _, u := range g.Roster {
		if st, ok := g.marks[u.ID]; ok {
			sheet.Marks = append(sheet.Marks, models.AttendanceMark{StudentID: u.ID, Status: st})
		}
	}
	g.mu.Unlock()
	if len(sheet.Marks) == 0 {
		return apperrors.ErrActionDisabled
	}

	if !g.inFlight.CompareAndSwap(false, true) {
		return apperrors.ErrInFlight
	}
	defer g.inFlight.Store(false)

	n := notify.FromContext(ctx, g.Notifier)
	if err := g.Saver.SaveAttendance(ctx, sheet); err != nil {
		n.Notify(ctx, AttendanceSaveFailed)
		return err
	}
	n.Notify(ctx, AttendanceSaved)
	return nil
}

func statusField(studentID string) string {
	return "status[" + studentID + "]"
}

// Initials are the first letters of the first two words of name
func Initials(name string) string {
	var out []rune
	for _, w := range strings.Fields(name) {
		out = append(out, []rune(strings.ToUpper(w))[0])
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

// AttendanceChoice is one status option of a row
type AttendanceChoice struct {
	Value   models.AttendanceStatus
	Label   string
	Checked bool
}

// AttendanceRow is one student of the grid
type AttendanceRow struct {
	Student  models.User
	Initials string
	Field    string
	Status   models.AttendanceStatus
	Choices  []AttendanceChoice
}

// AttendanceGridView is the render model of the grid
type AttendanceGridView struct {
	Date      string
	Action    string
	ClearHref string
	Saving    bool
	Stats     []StatCard
	Rows      []AttendanceRow
}

// View builds the render model
func (g *AttendanceGrid) View() AttendanceGridView {
	s := g.Summary()
	v := AttendanceGridView{
		Date:      g.Date,
		Action:    g.Action,
		ClearHref: g.ClearHref,
		Saving:    g.Saving(),
		Stats: []StatCard{
			{Title: "Total", Value: s.Total, Icon: "users", Color: "from-slate-600 to-slate-800"},
			{Title: "Present", Value: s.Present, Icon: "check-circle", Color: "from-green-600 to-green-800"},
			{Title: "Late", Value: s.Late, Icon: "clock", Color: "from-yellow-600 to-yellow-800"},
			{Title: "Absent", Value: s.Absent, Icon: "x-circle", Color: "from-red-600 to-red-800"},
			{Title: "Unmarked", Value: s.Unmarked, Icon: "circle", Color: DefaultStatColor},
		},
	}
	for _, u := range g.Roster {
		st := g.Status(u.ID)
		row := AttendanceRow{Student: u, Initials: Initials(u.Name), Field: statusField(u.ID), Status: st}
		for _, choice := range models.AttendanceStatuses {
			row.Choices = append(row.Choices, AttendanceChoice{
				Value:   choice,
				Label:   strings.ToUpper(string(choice[:1])) + string(choice[1:]),
				Checked: choice == st,
			})
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

// Render implements Renderer
func (g *AttendanceGrid) Render(w io.Writer) error {
	return render(w, "attendance_grid", g.View())
}
