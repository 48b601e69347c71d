// Package memory is an in-process Backend used in development mode and tests
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yigit/cuetclass/internal/app/backend"
	"github.com/yigit/cuetclass/internal/app/models"
)

// Store holds all entities in memory. Slices keep insertion order so tables
// render in a stable order.
type Store struct {
	mu sync.RWMutex

	departments []models.Department
	courses     []models.Course
	classes     []models.Class
	users       []models.User
	enrollments []models.Enrollment
	notices     []models.Notice
	attendance  map[attendanceKey]models.AttendanceStatus

	now   func() time.Time
	newID func() string
}

var _ backend.Backend = (*Store)(nil)

type attendanceKey struct {
	classID, date, studentID string
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs overrides the identifier generator
func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New creates a store populated from seed
func New(seed Seed, opts ...Option) *Store {
	s := &Store{
		departments: append([]models.Department(nil), seed.Departments...),
		courses:     append([]models.Course(nil), seed.Courses...),
		classes:     append([]models.Class(nil), seed.Classes...),
		users:       append([]models.User(nil), seed.Users...),
		enrollments: append([]models.Enrollment(nil), seed.Enrollments...),
		notices:     append([]models.Notice(nil), seed.Notices...),
		attendance:  make(map[attendanceKey]models.AttendanceStatus),
		now:         time.Now,
		newID:       func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Departments implements backend.Catalog
func (s *Store) Departments(ctx context.Context) ([]models.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Department(nil), s.departments...), nil
}

// Courses implements backend.Catalog
func (s *Store) Courses(ctx context.Context) ([]models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Course(nil), s.courses...), nil
}

// Classes implements backend.Catalog; display fields are resolved on read
func (s *Store) Classes(ctx context.Context) ([]models.Class, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Class, 0, len(s.classes))
	for _, c := range s.classes {
		out = append(out, s.resolveClass(c))
	}
	return out, nil
}

// Teachers implements backend.Catalog
func (s *Store) Teachers(ctx context.Context) ([]models.Teacher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Teacher
	for _, u := range s.users {
		if u.Role == models.RoleTeacher {
			out = append(out, u.Teacher())
		}
	}
	return out, nil
}

// Stats implements backend.Catalog
func (s *Store) Stats(ctx context.Context) (models.DashboardStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.DashboardStats{
		StudentsCount:    s.countRole(models.RoleStudent),
		TeachersCount:    s.countRole(models.RoleTeacher),
		ClassesCount:     len(s.classes),
		DepartmentsCount: len(s.departments),
	}, nil
}

// CreateDepartment implements backend.AdminActions
func (s *Store) CreateDepartment(ctx context.Context, in models.DepartmentInput) (models.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.departmentCodeTaken(in.Code, "") {
		return models.Department{}, fmt.Errorf("department code %q: %w", in.Code, backend.ErrConflict)
	}
	d := models.Department{ID: s.newID(), Code: in.Code, Name: in.Name}
	s.departments = append(s.departments, d)
	return d, nil
}

// UpdateDepartment implements backend.AdminActions
func (s *Store) UpdateDepartment(ctx context.Context, id string, in models.DepartmentInput) (models.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.departments, func(d models.Department) bool { return d.ID == id })
	if i < 0 {
		return models.Department{}, fmt.Errorf("department %s: %w", id, backend.ErrNotFound)
	}
	if s.departmentCodeTaken(in.Code, id) {
		return models.Department{}, fmt.Errorf("department code %q: %w", in.Code, backend.ErrConflict)
	}
	s.departments[i].Code = in.Code
	s.departments[i].Name = in.Name
	return s.departments[i], nil
}

// DeleteDepartment implements backend.AdminActions. Departments still referenced
// by courses or classes cannot be deleted.
func (s *Store) DeleteDepartment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.departments, func(d models.Department) bool { return d.ID == id })
	if i < 0 {
		return fmt.Errorf("department %s: %w", id, backend.ErrNotFound)
	}
	if indexOf(s.courses, func(c models.Course) bool { return c.DepartmentID == id }) >= 0 ||
		indexOf(s.classes, func(c models.Class) bool { return c.DepartmentID == id }) >= 0 {
		return fmt.Errorf("department %s is in use: %w", id, backend.ErrConflict)
	}
	s.departments = append(s.departments[:i], s.departments[i+1:]...)
	return nil
}

// CreateCourse implements backend.AdminActions
func (s *Store) CreateCourse(ctx context.Context, in models.CourseInput) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCourse(in, ""); err != nil {
		return models.Course{}, err
	}
	c := models.Course{ID: s.newID(), DepartmentID: in.DepartmentID, Code: in.Code, Name: in.Name, Credits: in.Credits}
	s.courses = append(s.courses, c)
	return c, nil
}

// UpdateCourse implements backend.AdminActions
func (s *Store) UpdateCourse(ctx context.Context, id string, in models.CourseInput) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.courses, func(c models.Course) bool { return c.ID == id })
	if i < 0 {
		return models.Course{}, fmt.Errorf("course %s: %w", id, backend.ErrNotFound)
	}
	if err := s.checkCourse(in, id); err != nil {
		return models.Course{}, err
	}
	s.courses[i] = models.Course{ID: id, DepartmentID: in.DepartmentID, Code: in.Code, Name: in.Name, Credits: in.Credits}
	return s.courses[i], nil
}

// DeleteCourse implements backend.AdminActions
func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.courses, func(c models.Course) bool { return c.ID == id })
	if i < 0 {
		return fmt.Errorf("course %s: %w", id, backend.ErrNotFound)
	}
	if indexOf(s.classes, func(c models.Class) bool { return c.CourseID == id }) >= 0 {
		return fmt.Errorf("course %s is in use: %w", id, backend.ErrConflict)
	}
	s.courses = append(s.courses[:i], s.courses[i+1:]...)
	return nil
}

// CreateClass implements backend.AdminActions
func (s *Store) CreateClass(ctx context.Context, in models.ClassInput) (models.Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkClass(in); err != nil {
		return models.Class{}, err
	}
	c := classFromInput(s.newID(), in)
	s.classes = append(s.classes, c)
	return s.resolveClass(c), nil
}

// UpdateClass implements backend.AdminActions
func (s *Store) UpdateClass(ctx context.Context, id string, in models.ClassInput) (models.Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.classes, func(c models.Class) bool { return c.ID == id })
	if i < 0 {
		return models.Class{}, fmt.Errorf("class %s: %w", id, backend.ErrNotFound)
	}
	if err := s.checkClass(in); err != nil {
		return models.Class{}, err
	}
	s.classes[i] = classFromInput(id, in)
	return s.resolveClass(s.classes[i]), nil
}

// DeleteClass implements backend.AdminActions; enrollments and notices of the class go with it
func (s *Store) DeleteClass(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.classes, func(c models.Class) bool { return c.ID == id })
	if i < 0 {
		return fmt.Errorf("class %s: %w", id, backend.ErrNotFound)
	}
	s.classes = append(s.classes[:i], s.classes[i+1:]...)
	s.enrollments = filter(s.enrollments, func(e models.Enrollment) bool { return e.ClassID != id })
	s.notices = filter(s.notices, func(n models.Notice) bool { return n.ClassID != id })
	for k := range s.attendance {
		if k.classID == id {
			delete(s.attendance, k)
		}
	}
	return nil
}

// ClassOfferings implements backend.StudentActions
func (s *Store) ClassOfferings(ctx context.Context, studentID string) ([]models.ClassOffering, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ClassOffering, 0, len(s.classes))
	for _, c := range s.classes {
		o := models.ClassOffering{Class: s.resolveClass(c)}
		for _, e := range s.enrollments {
			if e.ClassID != c.ID {
				continue
			}
			if e.Status == models.EnrollmentApproved {
				o.EnrolledCount++
			}
			if e.StudentID == studentID {
				o.Status = e.Status
			}
		}
		out = append(out, o)
	}
	return out, nil
}

// Enroll implements backend.StudentActions. A rejected request is reopened;
// pending and approved requests are conflicts.
func (s *Store) Enroll(ctx context.Context, studentID, classID string) (models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.classes, func(c models.Class) bool { return c.ID == classID }) < 0 {
		return models.Enrollment{}, fmt.Errorf("class %s: %w", classID, backend.ErrNotFound)
	}

	now := s.now()
	i := indexOf(s.enrollments, func(e models.Enrollment) bool {
		return e.ClassID == classID && e.StudentID == studentID
	})
	if i >= 0 {
		if err := s.enrollments[i].Reapply(now); err != nil {
			return models.Enrollment{}, fmt.Errorf("%s: %w", err.Error(), backend.ErrConflict)
		}
		return s.enrollments[i], nil
	}

	e := models.Enrollment{
		ID:          s.newID(),
		ClassID:     classID,
		StudentID:   studentID,
		Status:      models.EnrollmentPending,
		RequestDate: now,
	}
	s.enrollments = append(s.enrollments, e)
	return e, nil
}

// Review answers a pending enrollment request
func (s *Store) Review(ctx context.Context, studentID, classID string, status models.EnrollmentStatus) (models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.enrollments, func(e models.Enrollment) bool {
		return e.ClassID == classID && e.StudentID == studentID
	})
	if i < 0 {
		return models.Enrollment{}, fmt.Errorf("enrollment of %s in %s: %w", studentID, classID, backend.ErrNotFound)
	}
	if err := s.enrollments[i].Respond(status, s.now()); err != nil {
		return models.Enrollment{}, fmt.Errorf("%s: %w", err.Error(), backend.ErrConflict)
	}
	return s.enrollments[i], nil
}

// Notices implements backend.TeacherActions; newest first, global notices included
func (s *Store) Notices(ctx context.Context, classID string) ([]models.Notice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Notice
	for i := len(s.notices) - 1; i >= 0; i-- {
		n := s.notices[i]
		if n.IsGlobal || n.ClassID == classID {
			out = append(out, n)
		}
	}
	return out, nil
}

// PostNotice implements backend.TeacherActions
func (s *Store) PostNotice(ctx context.Context, in models.NoticeInput) (models.Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return models.Notice{}, fmt.Errorf("notice title and content: %w", backend.ErrValidation)
	}
	if in.ClassID != "" && indexOf(s.classes, func(c models.Class) bool { return c.ID == in.ClassID }) < 0 {
		return models.Notice{}, fmt.Errorf("class %s: %w", in.ClassID, backend.ErrNotFound)
	}
	n := models.NewNotice(s.newID(), in, s.now())
	s.notices = append(s.notices, n)
	return n, nil
}

func (s *Store) departmentCodeTaken(code, exceptID string) bool {
	return indexOf(s.departments, func(d models.Department) bool {
		return d.ID != exceptID && strings.EqualFold(d.Code, code)
	}) >= 0
}

func (s *Store) checkCourse(in models.CourseInput, exceptID string) error {
	if in.Credits < models.MinCredits || in.Credits > models.MaxCredits {
		return fmt.Errorf("credits %d: %w", in.Credits, backend.ErrValidation)
	}
	if in.DepartmentID != "" {
		if _, ok := backend.FindDepartment(s.departments, in.DepartmentID); !ok {
			return fmt.Errorf("department %s: %w", in.DepartmentID, backend.ErrNotFound)
		}
	}
	taken := indexOf(s.courses, func(c models.Course) bool {
		return c.ID != exceptID && strings.EqualFold(c.Code, in.Code)
	}) >= 0
	if taken {
		return fmt.Errorf("course code %q: %w", in.Code, backend.ErrConflict)
	}
	return nil
}

func (s *Store) checkClass(in models.ClassInput) error {
	if _, ok := backend.FindDepartment(s.departments, in.DepartmentID); !ok {
		return fmt.Errorf("department %s: %w", in.DepartmentID, backend.ErrNotFound)
	}
	if _, ok := backend.FindCourse(s.courses, in.CourseID); !ok {
		return fmt.Errorf("course %s: %w", in.CourseID, backend.ErrNotFound)
	}
	if in.TeacherID != "" && indexOf(s.users, func(u models.User) bool {
		return u.ID == in.TeacherID && u.Role == models.RoleTeacher
	}) < 0 {
		return fmt.Errorf("teacher %s: %w", in.TeacherID, backend.ErrNotFound)
	}
	return nil
}

// resolveClass fills the denormalized display fields; caller holds the lock
func (s *Store) resolveClass(c models.Class) models.Class {
	if d, ok := backend.FindDepartment(s.departments, c.DepartmentID); ok {
		c.DepartmentCode = d.Code
	}
	if co, ok := backend.FindCourse(s.courses, c.CourseID); ok {
		c.CourseCode = co.Code
		c.CourseName = co.Name
	}
	c.TeacherName = ""
	if t, ok := backend.FindUser(s.users, c.TeacherID); ok {
		c.TeacherName = t.Name
	}
	return c
}

func classFromInput(id string, in models.ClassInput) models.Class {
	return models.Class{
		ID:           id,
		DepartmentID: in.DepartmentID,
		CourseID:     in.CourseID,
		Session:      in.Session,
		Section:      in.Section,
		Code:         in.Code,
		TeacherID:    in.TeacherID,
	}
}

func indexOf[T any](list []T, match func(T) bool) int {
	for i, v := range list {
		if match(v) {
			return i
		}
	}
	return -1
}

func filter[T any](list []T, keep func(T) bool) []T {
	out := list[:0]
	for _, v := range list {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
