package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/yigit/cuetclass/internal/app/backend"
	"github.com/yigit/cuetclass/internal/app/models"
)

// Roster implements backend.TeacherActions
func (s *Store) Roster(ctx context.Context, classID string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if indexOf(s.classes, func(c models.Class) bool { return c.ID == classID }) < 0 {
		return nil, fmt.Errorf("class %s: %w", classID, backend.ErrNotFound)
	}
	return s.roster(classID), nil
}

// Attendance implements backend.TeacherActions; marks follow roster order
func (s *Store) Attendance(ctx context.Context, classID, date string) ([]models.AttendanceMark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkSheet(classID, date); err != nil {
		return nil, err
	}
	var out []models.AttendanceMark
	for _, u := range s.users {
		if st, ok := s.attendance[attendanceKey{classID, date, u.ID}]; ok {
			out = append(out, models.AttendanceMark{StudentID: u.ID, Status: st})
		}
	}
	return out, nil
}

// SaveAttendance implements backend.TeacherActions. Every mark must name a
// student on the roster; nothing is written when one does not.
func (s *Store) SaveAttendance(ctx context.Context, sheet models.AttendanceSheet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkSheet(sheet.ClassID, sheet.Date); err != nil {
		return err
	}
	if len(sheet.Marks) == 0 {
		return fmt.Errorf("attendance of %s on %s has no marks: %w", sheet.ClassID, sheet.Date, backend.ErrValidation)
	}
	enrolled := make(map[string]bool)
	for _, u := range s.roster(sheet.ClassID) {
		enrolled[u.ID] = true
	}
	for _, m := range sheet.Marks {
		if !m.Status.Valid() {
			return fmt.Errorf("attendance status %q: %w", m.Status, backend.ErrValidation)
		}
		if !enrolled[m.StudentID] {
			return fmt.Errorf("student %s is not enrolled in %s: %w", m.StudentID, sheet.ClassID, backend.ErrValidation)
		}
	}

	for _, m := range sheet.Marks {
		s.attendance[attendanceKey{sheet.ClassID, sheet.Date, m.StudentID}] = m.Status
	}
	return nil
}

// roster lists approved students in user order; caller holds the lock
func (s *Store) roster(classID string) []models.User {
	approved := make(map[string]bool)
	for _, e := range s.enrollments {
		if e.ClassID == classID && e.Status == models.EnrollmentApproved {
			approved[e.StudentID] = true
		}
	}
	var out []models.User
	for _, u := range s.users {
		if approved[u.ID] {
			out = append(out, u)
		}
	}
	return out
}

func (s *Store) checkSheet(classID, date string) error {
	if _, err := time.Parse(models.AttendanceDateLayout, date); err != nil {
		return fmt.Errorf("attendance date %q: %w", date, backend.ErrValidation)
	}
	if indexOf(s.classes, func(c models.Class) bool { return c.ID == classID }) < 0 {
		return fmt.Errorf("class %s: %w", classID, backend.ErrNotFound)
	}
	return nil
}
