package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/cuetclass/internal/app/backend"
	"github.com/yigit/cuetclass/internal/app/models"
	"github.com/yigit/cuetclass/internal/pkg/dberrors"
)

// teachers and students live in separate tables; this view lines them up
const userSelect = `
	SELECT id, name, email, role, department_code, student_number, session, section,
		profile_image, is_class_representative
	FROM (
		SELECT id, name, email, 'teacher' AS role, department_code, '' AS student_number,
			'' AS session, '' AS section, profile_image, FALSE AS is_class_representative
		FROM teachers
		UNION ALL
		SELECT id, name, email, 'student', department_code, student_number,
			session, section, profile_image, is_class_representative
		FROM students
	) u
`

const studentColumns = `id, name, email, 'student', department_code, student_number, session, section,
	profile_image, is_class_representative`

const teacherColumns = `id, name, email, 'teacher', department_code, '', '', '', profile_image, FALSE`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.DepartmentCode, &u.StudentNumber,
		&u.Session, &u.Section, &u.ProfileImage, &u.IsClassRepresentative)
	return u, err
}

// Users implements backend.UserActions
func (s *Store) Users(ctx context.Context, role models.RoleType) ([]models.User, error) {
	rows, err := s.db.Query(ctx, userSelect+` WHERE $1 = '' OR role = $1 ORDER BY name`, string(role))
	return collect(rows, err, "list users", func(r pgx.Rows) (models.User, error) { return scanUser(r) })
}

func (s *Store) user(ctx context.Context, id string) (models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, userSelect+` WHERE id = $1`, id))
	return u, translate(err, "user "+id)
}

// CreateUser implements backend.UserActions
func (s *Store) CreateUser(ctx context.Context, in models.UserInput) (models.User, error) {
	if err := s.checkDepartmentCode(ctx, in.DepartmentCode); err != nil {
		return models.User{}, err
	}

	id := uuid.NewString()
	var row pgx.Row
	switch in.Role {
	case models.RoleTeacher:
		row = s.db.QueryRow(ctx, `
			INSERT INTO teachers (id, name, email, department_code, profile_image)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+teacherColumns,
			id, in.Name, in.Email, in.DepartmentCode, in.ProfileImage)
	case models.RoleStudent:
		row = s.db.QueryRow(ctx, `
			INSERT INTO students (id, name, email, department_code, student_number, session, section, profile_image)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+studentColumns,
			id, in.Name, in.Email, in.DepartmentCode, in.StudentNumber, in.Session, in.Section, in.ProfileImage)
	default:
		return models.User{}, fmt.Errorf("user role %q: %w", in.Role, backend.ErrValidation)
	}
	u, err := scanUser(row)
	return u, translate(err, "create user")
}

// UpdateUser implements backend.UserActions. Moving a representative to
// another section clears the flag.
func (s *Store) UpdateUser(ctx context.Context, id string, in models.UserInput) (models.User, error) {
	current, err := s.user(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if in.Role == "" {
		in.Role = current.Role
	}
	if in.Role != current.Role {
		return models.User{}, fmt.Errorf("user %s role is %s: %w", id, current.Role, backend.ErrValidation)
	}
	if err := s.checkDepartmentCode(ctx, in.DepartmentCode); err != nil {
		return models.User{}, err
	}

	var row pgx.Row
	if in.Role == models.RoleTeacher {
		row = s.db.QueryRow(ctx, `
			UPDATE teachers SET name = $2, email = $3, department_code = $4, profile_image = $5
			WHERE id = $1
			RETURNING `+teacherColumns,
			id, in.Name, in.Email, in.DepartmentCode, in.ProfileImage)
	} else {
		row = s.db.QueryRow(ctx, `
			UPDATE students
			SET name = $2, email = $3, department_code = $4, student_number = $5, session = $6, section = $7,
				profile_image = $8,
				is_class_representative = is_class_representative
					AND department_code = $4 AND session = $6 AND section = $7
			WHERE id = $1
			RETURNING `+studentColumns,
			id, in.Name, in.Email, in.DepartmentCode, in.StudentNumber, in.Session, in.Section, in.ProfileImage)
	}
	u, err := scanUser(row)
	return u, translate(err, "update user "+id)
}

// DeleteUser implements backend.UserActions. Class assignments are released by
// the foreign key; enrollments carry no key and are removed here.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return translate(err, "begin delete user")
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return translate(err, "delete teacher "+id)
	}
	if tag.RowsAffected() == 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM enrollments WHERE student_id = $1`, id); err != nil {
			return translate(err, "delete enrollments of "+id)
		}
		tag, err = tx.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
		if err != nil {
			return translate(err, "delete student "+id)
		}
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, backend.ErrNotFound)
	}
	return translate(tx.Commit(ctx), "commit delete user")
}

// SetClassRepresentative implements backend.UserActions
func (s *Store) SetClassRepresentative(ctx context.Context, id string, cr bool) (models.User, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return models.User{}, translate(err, "begin set representative")
	}
	defer tx.Rollback(ctx)

	var dept, section, session string
	err = tx.QueryRow(ctx, `
		SELECT department_code, section, session FROM students WHERE id = $1 FOR UPDATE
	`, id).Scan(&dept, &section, &session)
	if dberrors.IsNoRows(err) {
		var teacher bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM teachers WHERE id = $1)`, id).Scan(&teacher); err != nil {
			return models.User{}, translate(err, "user "+id)
		}
		if teacher {
			return models.User{}, fmt.Errorf("user %s is not a student: %w", id, backend.ErrConflict)
		}
		return models.User{}, fmt.Errorf("user %s: %w", id, backend.ErrNotFound)
	}
	if err != nil {
		return models.User{}, translate(err, "student "+id)
	}

	if cr {
		if _, err := tx.Exec(ctx, `
			UPDATE students SET is_class_representative = FALSE
			WHERE department_code = $1 AND section = $2 AND session = $3 AND id <> $4
		`, dept, section, session, id); err != nil {
			return models.User{}, translate(err, "demote representative")
		}
	}
	u, err := scanUser(tx.QueryRow(ctx, `
		UPDATE students SET is_class_representative = $2 WHERE id = $1
		RETURNING `+studentColumns, id, cr))
	if err != nil {
		return models.User{}, translate(err, "set representative "+id)
	}
	if err := tx.Commit(ctx); err != nil {
		return models.User{}, translate(err, "commit set representative")
	}
	return u, nil
}

func (s *Store) checkDepartmentCode(ctx context.Context, code string) error {
	if code == "" {
		return nil
	}
	var ok bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM departments WHERE lower(code) = lower($1))`, code).Scan(&ok)
	if err != nil {
		return translate(err, "department "+code)
	}
	if !ok {
		return fmt.Errorf("department %s: %w", code, backend.ErrNotFound)
	}
	return nil
}
