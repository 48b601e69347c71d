package models

// RoleType defines the viewer role
type RoleType string

const (
	RoleStudent RoleType = "student"
	RoleTeacher RoleType = "teacher"
	RoleAdmin   RoleType = "admin"
)

// Teacher is the subset of a teacher profile needed for assignment
type Teacher struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DashboardStats are the admin dashboard counters
type DashboardStats struct {
	StudentsCount    int `json:"studentsCount"`
	TeachersCount    int `json:"teachersCount"`
	ClassesCount     int `json:"classesCount"`
	DepartmentsCount int `json:"departmentsCount"`
}
