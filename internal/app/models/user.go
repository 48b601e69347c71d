package models

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// User is a student or teacher account managed by the admin
type User struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Email                 string   `json:"email"`
	Role                  RoleType `json:"role"`
	DepartmentCode        string   `json:"department,omitempty"`
	StudentNumber         string   `json:"studentNumber,omitempty"`
	Session               string   `json:"session,omitempty"`
	Section               string   `json:"section,omitempty"`
	ProfileImage          string   `json:"profileImage,omitempty"`
	IsClassRepresentative bool     `json:"isClassRepresentative,omitempty"`
}

// UserInput is the editable shape of a user. Class representative status is
// changed through its own operation, never through an edit.
type UserInput struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Role           RoleType `json:"role"`
	DepartmentCode string   `json:"department,omitempty"`
	StudentNumber  string   `json:"studentNumber,omitempty"`
	Session        string   `json:"session,omitempty"`
	Section        string   `json:"section,omitempty"`
	ProfileImage   string   `json:"profileImage,omitempty"`
}

// Input returns the editable fields of the user
func (u User) Input() UserInput {
	return UserInput{
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		DepartmentCode: u.DepartmentCode,
		StudentNumber:  u.StudentNumber,
		Session:        u.Session,
		Section:        u.Section,
		ProfileImage:   u.ProfileImage,
	}
}

// Teacher returns the assignment view of a teacher account
func (u User) Teacher() Teacher {
	return Teacher{ID: u.ID, Name: u.Name}
}

// Initial is the avatar letter shown when there is no profile image
func (u User) Initial() string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(u.Name))
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}

// SectionKey identifies the cohort a student belongs to; a section has at
// most one class representative.
func (u User) SectionKey() string {
	return SectionKey(u.DepartmentCode, u.Section, u.Session)
}

// SectionKey joins department code, section and session
func SectionKey(departmentCode, section, session string) string {
	return departmentCode + "-" + section + "-" + session
}
