package components

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/cuetclass/internal/app/models"
	"github.com/yigit/cuetclass/internal/app/notify"
	"github.com/yigit/cuetclass/internal/app/reveal"
	"github.com/yigit/cuetclass/internal/pkg/apperrors"
)

func testOffering(status models.EnrollmentStatus) models.ClassOffering {
	return models.ClassOffering{
		Class: models.Class{
			ID: "class-1", CourseCode: "CSE-201", CourseName: "Data Structures",
			DepartmentCode: "CSE", Section: "A", Session: "2023-24", TeacherName: "Dr. Rahman",
		},
		EnrolledCount: 42,
		Status:        status,
	}
}

func TestEnrollmentCard_SuccessGoesPending(t *testing.T) {
	release := make(chan struct{})
	rec := &notify.Recorder{}
	card := NewEnrollmentCard(testOffering(""), func(ctx context.Context, classID string) error {
		assert.Equal(t, "class-1", classID)
		<-release
		return nil
	}, rec)

	assert.Equal(t, "Enroll", card.Button().Label)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, card.Enroll(context.Background()))
	}()

	require.Eventually(t, card.Enrolling, time.Second, 5*time.Millisecond)
	b := card.Button()
	assert.True(t, b.Disabled)
	assert.Equal(t, "Enrolling...", b.Label)
	assert.ErrorIs(t, card.Enroll(context.Background()), apperrors.ErrInFlight)

	close(release)
	wg.Wait()

	assert.False(t, card.Enrolling())
	assert.Equal(t, models.EnrollmentPending, card.Status())
	assert.Equal(t, "Pending", card.Badge().Label)
	b = card.Button()
	assert.True(t, b.Disabled)
	assert.Equal(t, "Pending Approval", b.Label)
	assert.Equal(t, []notify.Notification{EnrollSuccess}, rec.All())
}

func TestEnrollmentCard_FailureRestoresEnrollable(t *testing.T) {
	rec := &notify.Recorder{}
	boom := errors.New("network")
	card := NewEnrollmentCard(testOffering(""), func(context.Context, string) error { return boom }, rec)

	assert.ErrorIs(t, card.Enroll(context.Background()), boom)

	assert.False(t, card.Enrolling())
	assert.Empty(t, card.Status())
	assert.Empty(t, card.Badge().Label)
	b := card.Button()
	assert.False(t, b.Disabled)
	assert.Equal(t, "Enroll", b.Label)

	require.Len(t, rec.All(), 1)
	assert.Equal(t, notify.VariantDestructive, rec.All()[0].Variant)
	assert.Equal(t, "Failed to send enrollment request. Please try again.", rec.All()[0].Description)
}

func TestEnrollmentCard_ClickReturnsEnrollError(t *testing.T) {
	boom := errors.New("network")
	card := NewEnrollmentCard(testOffering(""), func(context.Context, string) error { return boom }, nil)

	assert.ErrorIs(t, card.Button().Click(), boom)
	assert.Empty(t, card.Status())
}

func TestEnrollmentCard_ConcurrentEnrollSendsOnce(t *testing.T) {
	for i := 0; i < 200; i++ {
		var calls atomic.Int32
		card := NewEnrollmentCard(testOffering(""), func(context.Context, string) error {
			calls.Add(1)
			return nil
		}, nil)

		var wg sync.WaitGroup
		start := make(chan struct{})
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				_ = card.Enroll(context.Background())
			}()
		}
		close(start)
		wg.Wait()

		require.Equal(t, int32(1), calls.Load(), "iteration %d", i)
		assert.Equal(t, models.EnrollmentPending, card.Status())
	}
}

func TestEnrollmentCard_NotifiesRequestNotifier(t *testing.T) {
	created, carried := &notify.Recorder{}, &notify.Recorder{}
	card := NewEnrollmentCard(testOffering(""), func(context.Context, string) error { return nil }, created)

	ctx := notify.NewContext(context.Background(), carried)
	require.NoError(t, card.Enroll(ctx))

	assert.Empty(t, created.All())
	assert.Equal(t, []notify.Notification{EnrollSuccess}, carried.All())
}

func TestEnrollmentCard_RejectedCanReapply(t *testing.T) {
	calls := 0
	card := NewEnrollmentCard(testOffering(models.EnrollmentRejected), func(context.Context, string) error { calls++; return nil }, nil)

	assert.Equal(t, "Rejected", card.Badge().Label)
	b := card.Button()
	assert.Equal(t, "Reapply", b.Label)
	assert.False(t, b.Disabled)

	require.NoError(t, b.Click())
	assert.Equal(t, 1, calls)
	assert.Equal(t, models.EnrollmentPending, card.Status())
}

func TestEnrollmentCard_ApprovedAndPendingAreLocked(t *testing.T) {
	for _, status := range []models.EnrollmentStatus{models.EnrollmentApproved, models.EnrollmentPending} {
		calls := 0
		card := NewEnrollmentCard(testOffering(status), func(context.Context, string) error { calls++; return nil }, nil)

		assert.True(t, card.Button().Disabled)
		assert.ErrorIs(t, card.Enroll(context.Background()), apperrors.ErrActionDisabled)
		assert.ErrorIs(t, card.Button().Click(), apperrors.ErrActionDisabled)
		assert.Zero(t, calls)
	}

	card := NewEnrollmentCard(testOffering(models.EnrollmentApproved), nil, nil)
	assert.Equal(t, "Enrolled", card.Button().Label)
	assert.Equal(t, "Enrolled", card.Badge().Label)
}

func TestEnrollmentCard_Render(t *testing.T) {
	card := NewEnrollmentCard(testOffering(""), nil, nil)
	card.Action = "/student/classes/class-1/enroll"

	html := renderString(t, card)
	assert.Contains(t, html, "CSE-201: Data Structures")
	assert.Contains(t, html, "42 students")
	assert.Contains(t, html, "Instructor: Dr. Rahman")
	assert.Contains(t, html, `action="/student/classes/class-1/enroll"`)
}

type posterFunc func(ctx context.Context, in models.NoticeInput) (models.Notice, error)

func (f posterFunc) PostNotice(ctx context.Context, in models.NoticeInput) (models.Notice, error) {
	return f(ctx, in)
}

func TestNoticeForm_SuccessClearsAndNotifies(t *testing.T) {
	rec := &notify.Recorder{}
	var posted []models.NoticeInput
	var created []models.Notice
	f := NewNoticeForm("class-1", "teacher-1", posterFunc(func(_ context.Context, in models.NoticeInput) (models.Notice, error) {
		posted = append(posted, in)
		return models.NewNotice("n1", in, time.Now()), nil
	}), rec)
	f.OnCreated = func(n models.Notice) { created = append(created, n) }

	f.SetValues(url.Values{"title": {"Quiz"}, "content": {"Friday at 10am"}})
	require.NoError(t, f.Submit(context.Background()))

	assert.Equal(t, []models.NoticeInput{{Title: "Quiz", Content: "Friday at 10am", ClassID: "class-1", CreatedBy: "teacher-1"}}, posted)
	require.Len(t, created, 1)
	assert.False(t, created[0].IsGlobal)

	title, content := f.Values()
	assert.Empty(t, title)
	assert.Empty(t, content)
	assert.False(t, f.Posting())
	assert.Equal(t, []notify.Notification{NoticePosted}, rec.All())
}

func TestNoticeForm_FailureKeepsFields(t *testing.T) {
	rec := &notify.Recorder{}
	f := NewNoticeForm("", "teacher-1", posterFunc(func(context.Context, models.NoticeInput) (models.Notice, error) {
		return models.Notice{}, errors.New("down")
	}), rec)
	assert.True(t, f.Global())

	f.SetValues(url.Values{"title": {"Holiday"}, "content": {"Closed"}})
	assert.Error(t, f.Submit(context.Background()))

	title, content := f.Values()
	assert.Equal(t, "Holiday", title)
	assert.Equal(t, "Closed", content)
	assert.False(t, f.Posting())
	assert.Equal(t, []notify.Notification{NoticePostFailed}, rec.All())
}

func TestNoticeForm_NotifiesRequestNotifier(t *testing.T) {
	created, carried := &notify.Recorder{}, &notify.Recorder{}
	f := NewNoticeForm("class-1", "teacher-1", posterFunc(func(_ context.Context, in models.NoticeInput) (models.Notice, error) {
		return models.NewNotice("n1", in, time.Now()), nil
	}), created)

	f.SetValues(url.Values{"title": {"Quiz"}, "content": {"Friday"}})
	require.NoError(t, f.Submit(notify.NewContext(context.Background(), carried)))

	assert.Empty(t, created.All())
	assert.Equal(t, []notify.Notification{NoticePosted}, carried.All())
}

func TestNoticeForm_RequiredFields(t *testing.T) {
	calls := 0
	f := NewNoticeForm("class-1", "t", posterFunc(func(context.Context, models.NoticeInput) (models.Notice, error) {
		calls++
		return models.Notice{}, nil
	}), nil)

	f.SetValues(url.Values{"title": {" "}, "content": {"body"}})
	assert.ErrorIs(t, f.Submit(context.Background()), apperrors.ErrValidationFailed)
	assert.Zero(t, calls)
	assert.Equal(t, "Title is required", f.Errors()["title"])

	html := renderString(t, f)
	assert.Contains(t, html, "required")
	assert.Contains(t, html, "Title is required")

	f.Clear()
	title, content := f.Values()
	assert.Empty(t, title)
	assert.Empty(t, content)
	assert.Empty(t, f.Errors())
}

func TestNoticeList_RendersMarkdown(t *testing.T) {
	html := renderString(t, NoticeList{Notices: []models.Notice{
		{ID: "n1", Title: "Quiz", Content: "**Friday** <script>x</script>", CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}})

	assert.Contains(t, html, "<strong>Friday</strong>")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "Mar 1, 2024")
	assert.Contains(t, renderString(t, NoticeList{}), "No notices yet.")
}

func TestHero_ObserveAndRender(t *testing.T) {
	hero := NewHero()
	page := reveal.NewPage(0)
	var seen []string
	hero.Observe(page.Observer, func(id string) { seen = append(seen, id) })

	assert.Equal(t, hero.Targets(), page.Observer.Watched())
	page.Handle(reveal.Event{Kind: reveal.EventIntersect, Entries: []reveal.Entry{{ID: HeroTitleID, Ratio: 0.1}}})
	assert.Equal(t, []string{HeroTitleID}, seen)

	html := renderString(t, hero)
	assert.Contains(t, html, `id="hero-title"`)
	assert.Contains(t, html, `data-observe="0.1"`)
	assert.Contains(t, html, `href="/login"`)
	assert.Contains(t, html, `href="#about"`)
}

func TestCTA_UsesRevealMarker(t *testing.T) {
	html := renderString(t, NewCTA())
	assert.Contains(t, html, `id="cta-panel" class="reveal `)
	assert.Contains(t, html, `href="/signup"`)
	assert.Contains(t, html, "Sign Up Now")
}

func TestPrimitives(t *testing.T) {
	card := StatCard{Title: "Students", Value: 12}
	assert.Equal(t, DefaultStatColor, card.Gradient())
	html := renderString(t, card)
	assert.Contains(t, html, "from-blue-600 to-blue-800")
	assert.Contains(t, html, `class="reveal `)
	assert.Contains(t, html, ">12<")

	clicks := 0
	b := ActionButton{Label: "Save", OnClick: func() error { clicks++; return nil }}
	require.NoError(t, b.Click())
	b.Disabled = true
	assert.ErrorIs(t, b.Click(), apperrors.ErrActionDisabled)
	assert.Equal(t, 1, clicks)
	assert.ErrorIs(t, ActionButton{}.Click(), apperrors.ErrActionUnavailable)

	assert.Contains(t, renderString(t, ActionButton{Label: "Go", Href: "/x", Disabled: true}), "<button")
	assert.Contains(t, ActionButton{Variant: VariantDestructive, Size: SizeSmall}.Classes(), "bg-red-600")
}

func TestRegistry_SharesWhileHeld(t *testing.T) {
	r := NewRegistry[*EnrollmentCard]()
	created := 0
	create := func() *EnrollmentCard { created++; return NewEnrollmentCard(testOffering(""), nil, nil) }

	a, releaseA := r.Acquire("s1:class-1", create)
	b, releaseB := r.Acquire("s1:class-1", create)
	assert.Same(t, a, b)
	assert.Equal(t, 1, created)

	releaseA()
	releaseA()
	assert.Equal(t, 1, r.Len())
	releaseB()
	assert.Zero(t, r.Len())

	c, releaseC := r.Acquire("s1:class-1", create)
	defer releaseC()
	assert.NotSame(t, a, c)
}
