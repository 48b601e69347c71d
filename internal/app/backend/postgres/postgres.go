// Package postgres implements the backend ports directly against the
// class-management database, for deployments co-located with it.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/cuetclass/internal/app/backend"
	"github.com/yigit/cuetclass/internal/app/models"
	"github.com/yigit/cuetclass/internal/pkg/dberrors"
)

// Store runs queries through a pgx pool
type Store struct {
	db *pgxpool.Pool
}

var _ backend.Backend = (*Store)(nil)

// NewStore creates a new postgres-backed store
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// translate maps driver errors onto the backend sentinels
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case dberrors.IsNoRows(err):
		return fmt.Errorf("%s: %w", what, backend.ErrNotFound)
	case dberrors.IsDuplicateConstraintError(err, ""):
		return fmt.Errorf("%s: %v: %w", what, err, backend.ErrConflict)
	case dberrors.IsForeignKeyViolation(err):
		return fmt.Errorf("%s: %v: %w", what, err, backend.ErrConflict)
	case dberrors.IsCheckViolation(err):
		return fmt.Errorf("%s: %v: %w", what, err, backend.ErrValidation)
	default:
		return fmt.Errorf("%s: %v: %w", what, err, backend.ErrUnavailable)
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func collect[T any](rows pgx.Rows, err error, what string, scan func(pgx.Rows) (T, error)) ([]T, error) {
	if err != nil {
		return nil, translate(err, what)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, translate(err, what)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, what)
	}
	return out, nil
}

func scanDepartment(row pgx.Row) (models.Department, error) {
	var d models.Department
	err := row.Scan(&d.ID, &d.Code, &d.Name)
	return d, err
}

func scanCourse(row pgx.Row) (models.Course, error) {
	var c models.Course
	var dept *string
	err := row.Scan(&c.ID, &dept, &c.Code, &c.Name, &c.Credits)
	if dept != nil {
		c.DepartmentID = *dept
	}
	return c, err
}

const classColumns = `
	c.id, c.department_id, d.code, c.course_id, co.code, co.name,
	c.session, c.section, c.code, COALESCE(c.teacher_id, ''), COALESCE(t.name, '')
`

const classJoins = `
	FROM classes c
	JOIN departments d ON d.id = c.department_id
	JOIN courses co ON co.id = c.course_id
	LEFT JOIN teachers t ON t.id = c.teacher_id
`

func scanClass(row pgx.Row) (models.Class, error) {
	var c models.Class
	err := row.Scan(&c.ID, &c.DepartmentID, &c.DepartmentCode, &c.CourseID, &c.CourseCode, &c.CourseName,
		&c.Session, &c.Section, &c.Code, &c.TeacherID, &c.TeacherName)
	return c, err
}

func scanNotice(row pgx.Row) (models.Notice, error) {
	var n models.Notice
	var classID *string
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.CreatedBy, &classID, &n.IsGlobal)
	if classID != nil {
		n.ClassID = *classID
	}
	return n, err
}

func scanEnrollment(row pgx.Row) (models.Enrollment, error) {
	var e models.Enrollment
	err := row.Scan(&e.ID, &e.ClassID, &e.StudentID, &e.Status, &e.RequestDate, &e.ResponseDate)
	return e, err
}

// Departments implements backend.Catalog
func (s *Store) Departments(ctx context.Context) ([]models.Department, error) {
	rows, err := s.db.Query(ctx, `SELECT id, code, name FROM departments ORDER BY code`)
	return collect(rows, err, "list departments", func(r pgx.Rows) (models.Department, error) { return scanDepartment(r) })
}

// Courses implements backend.Catalog
func (s *Store) Courses(ctx context.Context) ([]models.Course, error) {
	rows, err := s.db.Query(ctx, `SELECT id, department_id, code, name, credits FROM courses ORDER BY code`)
	return collect(rows, err, "list courses", func(r pgx.Rows) (models.Course, error) { return scanCourse(r) })
}

// Classes implements backend.Catalog
func (s *Store) Classes(ctx context.Context) ([]models.Class, error) {
	rows, err := s.db.Query(ctx, `SELECT `+classColumns+classJoins+` ORDER BY c.session DESC, d.code, c.section`)
	return collect(rows, err, "list classes", func(r pgx.Rows) (models.Class, error) { return scanClass(r) })
}

// Teachers implements backend.Catalog
func (s *Store) Teachers(ctx context.Context) ([]models.Teacher, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name FROM teachers ORDER BY name`)
	return collect(rows, err, "list teachers", func(r pgx.Rows) (models.Teacher, error) {
		var t models.Teacher
		err := r.Scan(&t.ID, &t.Name)
		return t, err
	})
}

// Stats implements backend.Catalog
func (s *Store) Stats(ctx context.Context) (models.DashboardStats, error) {
	var st models.DashboardStats
	err := s.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM students),
			(SELECT COUNT(*) FROM teachers),
			(SELECT COUNT(*) FROM classes),
			(SELECT COUNT(*) FROM departments)
	`).Scan(&st.StudentsCount, &st.TeachersCount, &st.ClassesCount, &st.DepartmentsCount)
	return st, translate(err, "dashboard stats")
}

// CreateDepartment implements backend.AdminActions
func (s *Store) CreateDepartment(ctx context.Context, in models.DepartmentInput) (models.Department, error) {
	d, err := scanDepartment(s.db.QueryRow(ctx, `
		INSERT INTO departments (code, name) VALUES ($1, $2)
		RETURNING id, code, name
	`, in.Code, in.Name))
	return d, translate(err, "create department")
}

// UpdateDepartment implements backend.AdminActions
func (s *Store) UpdateDepartment(ctx context.Context, id string, in models.DepartmentInput) (models.Department, error) {
	d, err := scanDepartment(s.db.QueryRow(ctx, `
		UPDATE departments SET code = $2, name = $3 WHERE id = $1
		RETURNING id, code, name
	`, id, in.Code, in.Name))
	return d, translate(err, "update department "+id)
}

// DeleteDepartment implements backend.AdminActions
func (s *Store) DeleteDepartment(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "departments", id)
}

// CreateCourse implements backend.AdminActions
func (s *Store) CreateCourse(ctx context.Context, in models.CourseInput) (models.Course, error) {
	c, err := scanCourse(s.db.QueryRow(ctx, `
		INSERT INTO courses (department_id, code, name, credits) VALUES ($1, $2, $3, $4)
		RETURNING id, department_id, code, name, credits
	`, nullable(in.DepartmentID), in.Code, in.Name, in.Credits))
	return c, translate(err, "create course")
}

// UpdateCourse implements backend.AdminActions
func (s *Store) UpdateCourse(ctx context.Context, id string, in models.CourseInput) (models.Course, error) {
	c, err := scanCourse(s.db.QueryRow(ctx, `
		UPDATE courses SET department_id = $2, code = $3, name = $4, credits = $5 WHERE id = $1
		RETURNING id, department_id, code, name, credits
	`, id, nullable(in.DepartmentID), in.Code, in.Name, in.Credits))
	return c, translate(err, "update course "+id)
}

// DeleteCourse implements backend.AdminActions
func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "courses", id)
}

// CreateClass implements backend.AdminActions
func (s *Store) CreateClass(ctx context.Context, in models.ClassInput) (models.Class, error) {
	var id string
	err := s.db.QueryRow(ctx, `
		INSERT INTO classes (department_id, course_id, session, section, code, teacher_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, in.DepartmentID, in.CourseID, in.Session, in.Section, in.Code, nullable(in.TeacherID)).Scan(&id)
	if err != nil {
		return models.Class{}, translate(err, "create class")
	}
	return s.class(ctx, id)
}

// UpdateClass implements backend.AdminActions
func (s *Store) UpdateClass(ctx context.Context, id string, in models.ClassInput) (models.Class, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE classes
		SET department_id = $2, course_id = $3, session = $4, section = $5, code = $6, teacher_id = $7
		WHERE id = $1
	`, id, in.DepartmentID, in.CourseID, in.Session, in.Section, in.Code, nullable(in.TeacherID))
	if err != nil {
		return models.Class{}, translate(err, "update class "+id)
	}
	if tag.RowsAffected() == 0 {
		return models.Class{}, fmt.Errorf("class %s: %w", id, backend.ErrNotFound)
	}
	return s.class(ctx, id)
}

// DeleteClass implements backend.AdminActions
func (s *Store) DeleteClass(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "classes", id)
}

func (s *Store) class(ctx context.Context, id string) (models.Class, error) {
	c, err := scanClass(s.db.QueryRow(ctx, `SELECT `+classColumns+classJoins+` WHERE c.id = $1`, id))
	return c, translate(err, "class "+id)
}

// deleteByID removes one row; table names are fixed by the callers
func (s *Store) deleteByID(ctx context.Context, table, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return translate(err, "delete from "+table)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", strings.TrimSuffix(table, "s"), id, backend.ErrNotFound)
	}
	return nil
}

// ClassOfferings implements backend.StudentActions
func (s *Store) ClassOfferings(ctx context.Context, studentID string) ([]models.ClassOffering, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+classColumns+`,
			(SELECT COUNT(*) FROM enrollments e WHERE e.class_id = c.id AND e.status = 'approved'),
			COALESCE((SELECT e.status FROM enrollments e WHERE e.class_id = c.id AND e.student_id = $1), '')
		`+classJoins+`
		ORDER BY c.session DESC, d.code, c.section
	`, studentID)
	return collect(rows, err, "list class offerings", func(r pgx.Rows) (models.ClassOffering, error) {
		var o models.ClassOffering
		c := &o.Class
		err := r.Scan(&c.ID, &c.DepartmentID, &c.DepartmentCode, &c.CourseID, &c.CourseCode, &c.CourseName,
			&c.Session, &c.Section, &c.Code, &c.TeacherID, &c.TeacherName, &o.EnrolledCount, &o.Status)
		return o, err
	})
}

// Enroll implements backend.StudentActions. The existing request is locked so a
// concurrent reapply cannot race the check.
func (s *Store) Enroll(ctx context.Context, studentID, classID string) (models.Enrollment, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return models.Enrollment{}, translate(err, "begin enroll")
	}
	defer tx.Rollback(ctx)

	const cols = `id, class_id, student_id, status, request_date, response_date`

	existing, err := scanEnrollment(tx.QueryRow(ctx, `
		SELECT `+cols+` FROM enrollments WHERE class_id = $1 AND student_id = $2 FOR UPDATE
	`, classID, studentID))

	var e models.Enrollment
	switch {
	case dberrors.IsNoRows(err):
		e, err = scanEnrollment(tx.QueryRow(ctx, `
			INSERT INTO enrollments (class_id, student_id, status) VALUES ($1, $2, 'pending')
			RETURNING `+cols, classID, studentID))
		if dberrors.IsForeignKeyViolation(err) {
			return models.Enrollment{}, fmt.Errorf("class %s: %w", classID, backend.ErrNotFound)
		}
	case err != nil:
	default:
		if existing.Status != models.EnrollmentRejected {
			return models.Enrollment{}, fmt.Errorf("enrollment is %s: %w", existing.Status, backend.ErrConflict)
		}
		e, err = scanEnrollment(tx.QueryRow(ctx, `
			UPDATE enrollments SET status = 'pending', request_date = now(), response_date = NULL
			WHERE id = $1
			RETURNING `+cols, existing.ID))
	}
	if err != nil {
		return models.Enrollment{}, translate(err, "enroll")
	}

	if _, err := tx.Exec(ctx, `INSERT INTO students (id) VALUES ($1) ON CONFLICT DO NOTHING`, studentID); err != nil {
		return models.Enrollment{}, translate(err, "register student")
	}
	if err := tx.Commit(ctx); err != nil {
		return models.Enrollment{}, translate(err, "commit enroll")
	}
	return e, nil
}

// Notices implements backend.TeacherActions
func (s *Store) Notices(ctx context.Context, classID string) ([]models.Notice, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, content, created_at, created_by, class_id, is_global
		FROM notices
		WHERE is_global OR class_id = $1
		ORDER BY created_at DESC
	`, classID)
	return collect(rows, err, "list notices", func(r pgx.Rows) (models.Notice, error) { return scanNotice(r) })
}

// PostNotice implements backend.TeacherActions
func (s *Store) PostNotice(ctx context.Context, in models.NoticeInput) (models.Notice, error) {
	n, err := scanNotice(s.db.QueryRow(ctx, `
		INSERT INTO notices (title, content, created_by, class_id, is_global)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, content, created_at, created_by, class_id, is_global
	`, in.Title, in.Content, in.CreatedBy, nullable(in.ClassID), in.ClassID == ""))
	if dberrors.IsForeignKeyViolation(err) {
		return models.Notice{}, fmt.Errorf("class %s: %w", in.ClassID, backend.ErrNotFound)
	}
	return n, translate(err, "post notice")
}
