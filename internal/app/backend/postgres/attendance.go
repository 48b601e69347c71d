package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yigit/cuetclass/internal/app/backend"
	"github.com/yigit/cuetclass/internal/app/models"
)

// Roster implements backend.TeacherActions
func (s *Store) Roster(ctx context.Context, classID string) ([]models.User, error) {
	if err := s.classExists(ctx, classID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+studentColumns+`
		FROM students
		WHERE id IN (SELECT student_id FROM enrollments WHERE class_id = $1 AND status = 'approved')
		ORDER BY name
	`, classID)
	return collect(rows, err, "roster of "+classID, func(r pgx.Rows) (models.User, error) { return scanUser(r) })
}

// Attendance implements backend.TeacherActions
func (s *Store) Attendance(ctx context.Context, classID, date string) ([]models.AttendanceMark, error) {
	if err := checkDate(date); err != nil {
		return nil, err
	}
	if err := s.classExists(ctx, classID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, `
		SELECT a.student_id, a.status
		FROM attendance a JOIN students st ON st.id = a.student_id
		WHERE a.class_id = $1 AND a.date = $2::date
		ORDER BY st.name
	`, classID, date)
	return collect(rows, err, "attendance of "+classID, func(r pgx.Rows) (models.AttendanceMark, error) {
		var m models.AttendanceMark
		err := r.Scan(&m.StudentID, &m.Status)
		return m, err
	})
}

// SaveAttendance implements backend.TeacherActions. All marks are written in
// one transaction after the roster check.
func (s *Store) SaveAttendance(ctx context.Context, sheet models.AttendanceSheet) error {
	if err := checkDate(sheet.Date); err != nil {
		return err
	}
	if len(sheet.Marks) == 0 {
		return fmt.Errorf("attendance of %s on %s has no marks: %w", sheet.ClassID, sheet.Date, backend.ErrValidation)
	}
	ids := make([]string, 0, len(sheet.Marks))
	for _, m := range sheet.Marks {
		if !m.Status.Valid() {
			return fmt.Errorf("attendance status %q: %w", m.Status, backend.ErrValidation)
		}
		ids = append(ids, m.StudentID)
	}
	if err := s.classExists(ctx, sheet.ClassID); err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return translate(err, "begin save attendance")
	}
	defer tx.Rollback(ctx)

	var enrolled int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(DISTINCT student_id) FROM enrollments
		WHERE class_id = $1 AND status = 'approved' AND student_id = ANY($2)
	`, sheet.ClassID, ids).Scan(&enrolled)
	if err != nil {
		return translate(err, "check roster of "+sheet.ClassID)
	}
	if enrolled != distinct(ids) {
		return fmt.Errorf("attendance names students outside the roster of %s: %w", sheet.ClassID, backend.ErrValidation)
	}

	batch := &pgx.Batch{}
	for _, m := range sheet.Marks {
		batch.Queue(`
			INSERT INTO attendance (class_id, student_id, date, status, marked_by)
			VALUES ($1, $2, $3::date, $4, $5)
			ON CONFLICT (class_id, student_id, date)
			DO UPDATE SET status = EXCLUDED.status, marked_by = EXCLUDED.marked_by, updated_at = now()
		`, sheet.ClassID, m.StudentID, sheet.Date, string(m.Status), sheet.MarkedBy)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return translate(err, "save attendance")
	}
	return translate(tx.Commit(ctx), "commit attendance")
}

func (s *Store) classExists(ctx context.Context, id string) error {
	var ok bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM classes WHERE id = $1)`, id).Scan(&ok); err != nil {
		return translate(err, "class "+id)
	}
	if !ok {
		return fmt.Errorf("class %s: %w", id, backend.ErrNotFound)
	}
	return nil
}

func checkDate(date string) error {
	if _, err := time.Parse(models.AttendanceDateLayout, date); err != nil {
		return fmt.Errorf("attendance date %q: %w", date, backend.ErrValidation)
	}
	return nil
}

func distinct(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
