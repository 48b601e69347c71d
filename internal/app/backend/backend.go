// Package backend defines the ports through which page controllers reach the
// class-management API. Every operation is a passthrough; adapters live in the
// rest, postgres and memory subpackages.
package backend

import (
	"context"
	"errors"

	"github.com/yigit/cuetclass/internal/app/models"
	"github.com/yigit/cuetclass/internal/pkg/apperrors"
)

// Backend errors. Adapters wrap these so callers can use errors.Is.
var (
	ErrNotFound    = apperrors.ErrResourceNotFound
	ErrConflict    = apperrors.ErrConflict
	ErrValidation  = apperrors.ErrValidationFailed
	ErrUnavailable = apperrors.ErrBackendUnavailable
)

// Catalog reads reference data for the admin screens
type Catalog interface {
	Departments(ctx context.Context) ([]models.Department, error)
	Courses(ctx context.Context) ([]models.Course, error)
	Classes(ctx context.Context) ([]models.Class, error)
	Teachers(ctx context.Context) ([]models.Teacher, error)
	Stats(ctx context.Context) (models.DashboardStats, error)
}

// AdminActions mutates departments, courses and classes
type AdminActions interface {
	CreateDepartment(ctx context.Context, in models.DepartmentInput) (models.Department, error)
	UpdateDepartment(ctx context.Context, id string, in models.DepartmentInput) (models.Department, error)
	DeleteDepartment(ctx context.Context, id string) error

	CreateCourse(ctx context.Context, in models.CourseInput) (models.Course, error)
	UpdateCourse(ctx context.Context, id string, in models.CourseInput) (models.Course, error)
	DeleteCourse(ctx context.Context, id string) error

	CreateClass(ctx context.Context, in models.ClassInput) (models.Class, error)
	UpdateClass(ctx context.Context, id string, in models.ClassInput) (models.Class, error)
	DeleteClass(ctx context.Context, id string) error
}

// StudentActions are the student-facing operations
type StudentActions interface {
	ClassOfferings(ctx context.Context, studentID string) ([]models.ClassOffering, error)
	Enroll(ctx context.Context, studentID, classID string) (models.Enrollment, error)
}

// TeacherActions are the teacher-facing operations
type TeacherActions interface {
	Notices(ctx context.Context, classID string) ([]models.Notice, error)
	PostNotice(ctx context.Context, in models.NoticeInput) (models.Notice, error)

	// Roster lists the students with an approved enrollment in the class
	Roster(ctx context.Context, classID string) ([]models.User, error)
	// Attendance returns the marks saved for the class on date (YYYY-MM-DD)
	Attendance(ctx context.Context, classID, date string) ([]models.AttendanceMark, error)
	// SaveAttendance upserts the marks of the sheet; unmarked students are left alone
	SaveAttendance(ctx context.Context, sheet models.AttendanceSheet) error
}

// UserActions manages student and teacher accounts
type UserActions interface {
	Users(ctx context.Context, role models.RoleType) ([]models.User, error)
	CreateUser(ctx context.Context, in models.UserInput) (models.User, error)
	UpdateUser(ctx context.Context, id string, in models.UserInput) (models.User, error)
	DeleteUser(ctx context.Context, id string) error

	// SetClassRepresentative promotes or demotes a student. Promoting demotes
	// the previous representative of the same section.
	SetClassRepresentative(ctx context.Context, id string, cr bool) (models.User, error)
}

// Backend is the full surface a deployment provides
type Backend interface {
	Catalog
	AdminActions
	StudentActions
	TeacherActions
	UserActions
}

// FindDepartment returns the department with the id from list
func FindDepartment(list []models.Department, id string) (models.Department, bool) {
	for _, d := range list {
		if d.ID == id {
			return d, true
		}
	}
	return models.Department{}, false
}

// FindCourse returns the course with the id from list
func FindCourse(list []models.Course, id string) (models.Course, bool) {
	for _, c := range list {
		if c.ID == id {
			return c, true
		}
	}
	return models.Course{}, false
}

// FindClass returns the class with the id from list
func FindClass(list []models.Class, id string) (models.Class, bool) {
	for _, c := range list {
		if c.ID == id {
			return c, true
		}
	}
	return models.Class{}, false
}

// FindUser returns the user with the id from list
func FindUser(list []models.User, id string) (models.User, bool) {
	for _, u := range list {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// IsNotFound reports whether err means the entity does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
