package components

import (
	"context"
	"io"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/yigit/cuetclass/internal/app/models"
	"github.com/yigit/cuetclass/internal/app/notify"
	"github.com/yigit/cuetclass/internal/pkg/apperrors"
)

// Enrollment notification texts
var (
	EnrollSuccess = notify.Success("Enrollment Request Sent",
		"Your enrollment request has been sent to the Class Representative for approval.")
	EnrollFailure = notify.Failure("Error",
		"Failed to send enrollment request. Please try again.")
)

// EnrollmentCard shows one class to a student and drives the enrollment state:
// not enrolled (empty status) and rejected can enroll, pending and approved cannot.
type EnrollmentCard struct {
	Offering models.ClassOffering
	OnEnroll func(ctx context.Context, classID string) error
	Notifier notify.Notifier
	// Action is the form target of the enroll control
	Action string

	mu       sync.Mutex
	status   models.EnrollmentStatus
	inFlight atomic.Bool
}

// NewEnrollmentCard creates a card in the offering's current state
func NewEnrollmentCard(o models.ClassOffering, onEnroll func(context.Context, string) error, n notify.Notifier) *EnrollmentCard {
	if n == nil {
		n = notify.Discard
	}
	return &EnrollmentCard{Offering: o, OnEnroll: onEnroll, Notifier: n, status: o.Status}
}

// Status is the current enrollment state; empty means not enrolled
func (c *EnrollmentCard) Status() models.EnrollmentStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Enrolling reports whether an enroll action is in flight
func (c *EnrollmentCard) Enrolling() bool {
	return c.inFlight.Load()
}

func enrollable(s models.EnrollmentStatus) bool {
	return s == "" || s == models.EnrollmentRejected
}

// Enroll sends the enrollment request. Only one request runs at a time; the
// in-flight flag is released whatever the outcome. On failure the state is
// left unchanged and a destructive notification is sent to the notifier
// carried by ctx, or to Notifier when ctx has none.
func (c *EnrollmentCard) Enroll(ctx context.Context) error {
	if !enrollable(c.Status()) {
		return apperrors.ErrActionDisabled
	}
	if c.OnEnroll == nil {
		return apperrors.ErrActionUnavailable
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		return apperrors.ErrInFlight
	}
	defer c.inFlight.Store(false)
	// a request that finished between the first check and the flag
	if !enrollable(c.Status()) {
		return apperrors.ErrActionDisabled
	}

	n := notify.FromContext(ctx, c.Notifier)
	if err := c.OnEnroll(ctx, c.Offering.ID); err != nil {
		n.Notify(ctx, EnrollFailure)
		return err
	}

	c.mu.Lock()
	c.status = models.EnrollmentPending
	c.mu.Unlock()
	n.Notify(ctx, EnrollSuccess)
	return nil
}

// Button is the action control for the current state
func (c *EnrollmentCard) Button() ActionButton {
	b := ActionButton{Variant: VariantOutline, Size: SizeSmall, Type: "submit"}
	switch c.Status() {
	case models.EnrollmentApproved:
		b.Label, b.Icon, b.Disabled = "Enrolled", "book-open", true
	case models.EnrollmentPending:
		b.Label, b.Icon, b.Disabled = "Pending Approval", "clock", true
	case models.EnrollmentRejected:
		b.Label, b.Disabled = "Reapply", c.Enrolling()
	default:
		b.Label, b.Disabled = "Enroll", c.Enrolling()
		if c.Enrolling() {
			b.Label = "Enrolling..."
		}
	}
	b.OnClick = func() error { return c.Enroll(context.Background()) }
	return b
}

// Badge is the status label and its css classes; empty when not enrolled
type Badge struct {
	Label string
	Class string
}

// Badge returns the badge for the current state
func (c *EnrollmentCard) Badge() Badge {
	switch c.Status() {
	case models.EnrollmentPending:
		return Badge{Label: "Pending", Class: "bg-yellow-500/10 text-yellow-400"}
	case models.EnrollmentApproved:
		return Badge{Label: "Enrolled", Class: "bg-green-500/10 text-green-400"}
	case models.EnrollmentRejected:
		return Badge{Label: "Rejected", Class: "bg-red-500/10 text-red-400"}
	}
	return Badge{}
}

// StudentCount is the occupancy line shown on the card
func (c *EnrollmentCard) StudentCount() string {
	if c.Offering.EnrolledCount == 1 {
		return "1 student"
	}
	return strconv.Itoa(c.Offering.EnrolledCount) + " students"
}

type enrollmentCardView struct {
	Class        models.Class
	Title        string
	Action       string
	Badge        Badge
	Button       ActionButton
	StudentCount string
}

// Render implements Renderer
func (c *EnrollmentCard) Render(w io.Writer) error {
	cls := c.Offering.Class
	return render(w, "enrollment_card", enrollmentCardView{
		Class:        cls,
		Title:        cls.CourseCode + ": " + cls.CourseName,
		Action:       c.Action,
		Badge:        c.Badge(),
		Button:       c.Button(),
		StudentCount: c.StudentCount(),
	})
}
