package models

// Credit bounds for a course
const (
	MinCredits     = 1
	MaxCredits     = 6
	DefaultCredits = 3
)

// Course represents a course offered by a department.
type Course struct {
	ID           string `json:"id"`
	DepartmentID string `json:"departmentId"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Credits      int    `json:"credits"`
}

// CourseInput is the editable shape of a course
type CourseInput struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Credits      int    `json:"credits"`
	DepartmentID string `json:"departmentId"`
}

// Input returns the editable fields of the course
func (c Course) Input() CourseInput {
	return CourseInput{
		Code:         c.Code,
		Name:         c.Name,
		Credits:      c.Credits,
		DepartmentID: c.DepartmentID,
	}
}
