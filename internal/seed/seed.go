// Package seed loads the demo data set into an empty postgres schema
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/yigit/cuetclass/internal/app/backend/memory"
	"github.com/yigit/cuetclass/internal/app/models"
)

// Execer runs one statement; satisfied by pgx pools and transactions
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Insert writes every row of data, skipping rows whose key already exists.
// All rows are attempted; the returned error joins every failure.
func Insert(ctx context.Context, ex Execer, data memory.Seed) error {
	var finalErr error
	exec := func(what, sql string, args ...any) {
		if _, err := ex.Exec(ctx, sql, args...); err != nil {
			finalErr = errors.Join(finalErr, fmt.Errorf("seed %s: %w", what, err))
		}
	}

	for _, d := range data.Departments {
		exec("department "+d.Code,
			`INSERT INTO departments (id, code, name) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			d.ID, d.Code, d.Name)
	}
	for _, c := range data.Courses {
		exec("course "+c.Code,
			`INSERT INTO courses (id, department_id, code, name, credits) VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING`,
			c.ID, c.DepartmentID, c.Code, c.Name, c.Credits)
	}
	for _, u := range data.Users {
		switch u.Role {
		case models.RoleTeacher:
			exec("teacher "+u.ID,
				`INSERT INTO teachers (id, name, email, department_code, profile_image)
				 VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING`,
				u.ID, u.Name, u.Email, u.DepartmentCode, u.ProfileImage)
		case models.RoleStudent:
			exec("student "+u.ID,
				`INSERT INTO students (id, name, email, department_code, student_number, session, section,
				 profile_image, is_class_representative)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) ON CONFLICT DO NOTHING`,
				u.ID, u.Name, u.Email, u.DepartmentCode, u.StudentNumber, u.Session, u.Section,
				u.ProfileImage, u.IsClassRepresentative)
		default:
			finalErr = errors.Join(finalErr, fmt.Errorf("seed user %s: unsupported role %q", u.ID, u.Role))
		}
	}
	for _, c := range data.Classes {
		var teacher *string
		if c.TeacherID != "" {
			teacher = &c.TeacherID
		}
		exec("class "+c.ID,
			`INSERT INTO classes (id, department_id, course_id, session, section, code, teacher_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT DO NOTHING`,
			c.ID, c.DepartmentID, c.CourseID, c.Session, c.Section, c.Code, teacher)
	}
	for _, e := range data.Enrollments {
		exec("enrollment "+e.ID,
			`INSERT INTO enrollments (id, class_id, student_id, status, request_date, response_date)
			 VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT DO NOTHING`,
			e.ID, e.ClassID, e.StudentID, string(e.Status), e.RequestDate, e.ResponseDate)
	}
	for _, n := range data.Notices {
		var class *string
		if n.ClassID != "" {
			class = &n.ClassID
		}
		exec("notice "+n.ID,
			`INSERT INTO notices (id, title, content, created_at, created_by, class_id, is_global)
			 VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT DO NOTHING`,
			n.ID, n.Title, n.Content, n.CreatedAt, n.CreatedBy, class, n.IsGlobal)
	}
	return finalErr
}

// CreateDefaultData seeds the demo data in one transaction
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, data memory.Seed, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data...")

	tx, err := dbPool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := Insert(ctx, tx, data); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	lgr.Info().
		Int("departments", len(data.Departments)).
		Int("courses", len(data.Courses)).
		Int("classes", len(data.Classes)).
		Int("users", len(data.Users)).
		Msg("Default data ready")
	return nil
}
