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
	"github.com/yigit/cuetclass/internal/pkg/validation"
)

// Notice notification texts
var (
	NoticePosted     = notify.Success("Notice Posted", "Your notice has been posted successfully.")
	NoticePostFailed = notify.Failure("Error", "Failed to post notice. Please try again.")
)

var (
	noticeTitleRule   = validation.String("Title").Required().MaxLength(255)
	noticeContentRule = validation.String("Content").Required()
)

// NoticePoster publishes a notice
type NoticePoster interface {
	PostNotice(ctx context.Context, in models.NoticeInput) (models.Notice, error)
}

// NoticeForm lets a teacher post a notice to one class, or a global notice
// when ClassID is empty
type NoticeForm struct {
	ClassID   string
	CreatedBy string
	Poster    NoticePoster
	Notifier  notify.Notifier
	OnCreated func(models.Notice)

	Action    string
	ClearHref string

	mu       sync.Mutex
	title    string
	content  string
	errs     fieldErrors
	inFlight atomic.Bool
}

// NewNoticeForm creates an empty form
func NewNoticeForm(classID, createdBy string, poster NoticePoster, n notify.Notifier) *NoticeForm {
	if n == nil {
		n = notify.Discard
	}
	return &NoticeForm{ClassID: classID, CreatedBy: createdBy, Poster: poster, Notifier: n}
}

// SetValues replaces the field values with submitted input
func (f *NoticeForm) SetValues(v url.Values) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.title = v.Get("title")
	f.content = v.Get("content")
}

// Values returns the current title and content
func (f *NoticeForm) Values() (title, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.title, f.content
}

// Clear empties both fields without submitting
func (f *NoticeForm) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.title, f.content = "", ""
	f.errs = nil
}

// Posting reports whether a submit is in flight
func (f *NoticeForm) Posting() bool {
	return f.inFlight.Load()
}

// Errors returns the per-field messages of the last submit
func (f *NoticeForm) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyErrors(f.errs)
}

// Submit posts the notice. On success both fields are cleared and OnCreated
// runs; on failure the fields are kept for a retry. The outcome goes to the
// notifier carried by ctx, or to Notifier when ctx has none.
func (f *NoticeForm) Submit(ctx context.Context) error {
	if f.Poster == nil {
		return apperrors.ErrActionUnavailable
	}

	f.mu.Lock()
	title := noticeTitleRule.Check(f.title)
	content := noticeContentRule.Check(f.content)
	errs := fieldErrors{}
	errs.check("title", title.Message)
	errs.check("content", content.Message)
	f.errs = errs
	f.mu.Unlock()
	if len(errs) > 0 {
		return fmt.Errorf("notice: %w", apperrors.ErrValidationFailed)
	}

	if !f.inFlight.CompareAndSwap(false, true) {
		return apperrors.ErrInFlight
	}
	defer f.inFlight.Store(false)

	nt := notify.FromContext(ctx, f.Notifier)
	n, err := f.Poster.PostNotice(ctx, models.NoticeInput{
		Title:     title.Value,
		Content:   content.Value,
		ClassID:   f.ClassID,
		CreatedBy: f.CreatedBy,
	})
	if err != nil {
		nt.Notify(ctx, NoticePostFailed)
		return err
	}

	nt.Notify(ctx, NoticePosted)
	f.Clear()
	if f.OnCreated != nil {
		f.OnCreated(n)
	}
	return nil
}

// View builds the render model
func (f *NoticeForm) View() FormView {
	f.mu.Lock()
	defer f.mu.Unlock()

	label := "Post Notice"
	if f.inFlight.Load() {
		label = "Posting..."
	}
	return FormView{
		ID:          "notice-form",
		Title:       "Post New Notice",
		Action:      f.Action,
		CancelHref:  f.ClearHref,
		SubmitLabel: label,
		Open:        true,
		Loading:     f.inFlight.Load(),
		Fields: []FieldView{
			{Name: "title", Label: "Title", Type: "text", Value: f.title, Placeholder: "Enter notice title", Required: true, Error: f.errs["title"]},
			{Name: "content", Label: "Content", Type: "textarea", Value: f.content, Placeholder: "Enter notice content", Required: true, Error: f.errs["content"]},
		},
	}
}

// Global reports whether the form posts a global notice
func (f *NoticeForm) Global() bool {
	return strings.TrimSpace(f.ClassID) == ""
}

// Render implements Renderer
func (f *NoticeForm) Render(w io.Writer) error {
	return render(w, "notice_form", struct {
		FormView
		Global bool
	}{f.View(), f.Global()})
}
