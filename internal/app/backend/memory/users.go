package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/cuetclass/internal/app/backend"
	"github.com/yigit/cuetclass/internal/app/models"
)

// Users implements backend.UserActions; an empty role lists everyone
func (s *Store) Users(ctx context.Context, role models.RoleType) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.User
	for _, u := range s.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

// CreateUser implements backend.UserActions
func (s *Store) CreateUser(ctx context.Context, in models.UserInput) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUser(in, ""); err != nil {
		return models.User{}, err
	}
	u := userFromInput(s.newID(), in)
	s.users = append(s.users, u)
	return u, nil
}

// UpdateUser implements backend.UserActions. The role of an account is fixed;
// a representative moved to another section loses the flag.
func (s *Store) UpdateUser(ctx context.Context, id string, in models.UserInput) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.users, func(u models.User) bool { return u.ID == id })
	if i < 0 {
		return models.User{}, fmt.Errorf("user %s: %w", id, backend.ErrNotFound)
	}
	current := s.users[i]
	if in.Role == "" {
		in.Role = current.Role
	}
	if in.Role != current.Role {
		return models.User{}, fmt.Errorf("user %s role is %s: %w", id, current.Role, backend.ErrValidation)
	}
	if err := s.checkUser(in, id); err != nil {
		return models.User{}, err
	}

	u := userFromInput(id, in)
	u.IsClassRepresentative = current.IsClassRepresentative && u.SectionKey() == current.SectionKey()
	s.users[i] = u
	return u, nil
}

// DeleteUser implements backend.UserActions. Classes of a removed teacher become
// unassigned; enrollments and attendance of a removed student go with it.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.users, func(u models.User) bool { return u.ID == id })
	if i < 0 {
		return fmt.Errorf("user %s: %w", id, backend.ErrNotFound)
	}
	s.users = append(s.users[:i], s.users[i+1:]...)

	for j := range s.classes {
		if s.classes[j].TeacherID == id {
			s.classes[j].TeacherID = ""
		}
	}
	s.enrollments = filter(s.enrollments, func(e models.Enrollment) bool { return e.StudentID != id })
	for k := range s.attendance {
		if k.studentID == id {
			delete(s.attendance, k)
		}
	}
	return nil
}

// SetClassRepresentative implements backend.UserActions
func (s *Store) SetClassRepresentative(ctx context.Context, id string, cr bool) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.users, func(u models.User) bool { return u.ID == id })
	if i < 0 {
		return models.User{}, fmt.Errorf("user %s: %w", id, backend.ErrNotFound)
	}
	if s.users[i].Role != models.RoleStudent {
		return models.User{}, fmt.Errorf("user %s is not a student: %w", id, backend.ErrConflict)
	}

	if cr {
		key := s.users[i].SectionKey()
		for j := range s.users {
			if s.users[j].Role == models.RoleStudent && s.users[j].SectionKey() == key {
				s.users[j].IsClassRepresentative = false
			}
		}
	}
	s.users[i].IsClassRepresentative = cr
	return s.users[i], nil
}

func (s *Store) checkUser(in models.UserInput, exceptID string) error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return fmt.Errorf("user name and email: %w", backend.ErrValidation)
	}
	if in.Role != models.RoleStudent && in.Role != models.RoleTeacher {
		return fmt.Errorf("user role %q: %w", in.Role, backend.ErrValidation)
	}
	if in.DepartmentCode != "" && indexOf(s.departments, func(d models.Department) bool {
		return strings.EqualFold(d.Code, in.DepartmentCode)
	}) < 0 {
		return fmt.Errorf("department %s: %w", in.DepartmentCode, backend.ErrNotFound)
	}
	taken := indexOf(s.users, func(u models.User) bool {
		return u.ID != exceptID && strings.EqualFold(u.Email, in.Email)
	}) >= 0
	if taken {
		return fmt.Errorf("email %q: %w", in.Email, backend.ErrConflict)
	}
	return nil
}

func (s *Store) countRole(role models.RoleType) int {
	n := 0
	for _, u := range s.users {
		if u.Role == role {
			n++
		}
	}
	return n
}

func userFromInput(id string, in models.UserInput) models.User {
	u := models.User{
		ID:             id,
		Name:           in.Name,
		Email:          in.Email,
		Role:           in.Role,
		DepartmentCode: in.DepartmentCode,
		ProfileImage:   in.ProfileImage,
	}
	if in.Role == models.RoleStudent {
		u.StudentNumber = in.StudentNumber
		u.Session = in.Session
		u.Section = in.Section
	}
	return u
}
