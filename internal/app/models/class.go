package models

// Class is a section of a course running in a session.
// Department/course/teacher display fields are denormalized by the backend.
type Class struct {
	ID             string `json:"id"`
	DepartmentID   string `json:"departmentId"`
	DepartmentCode string `json:"departmentCode,omitempty"`
	CourseID       string `json:"courseId"`
	CourseCode     string `json:"courseCode,omitempty"`
	CourseName     string `json:"courseName,omitempty"`
	Session        string `json:"session"`
	Section        string `json:"section"`
	Code           string `json:"code,omitempty"`
	TeacherID      string `json:"teacherId,omitempty"`
	TeacherName    string `json:"teacherName,omitempty"`
}

// ClassInput is the editable shape of a class
type ClassInput struct {
	DepartmentID string `json:"departmentId"`
	CourseID     string `json:"courseId"`
	Session      string `json:"session"`
	Section      string `json:"section"`
	Code         string `json:"code,omitempty"`
	TeacherID    string `json:"teacherId,omitempty"`
}

// DeriveClassCode builds the fallback class code
func DeriveClassCode(departmentCode, section string) string {
	return departmentCode + "-" + section
}

// Label is the identifier shown for the class
func (c Class) Label() string {
	if c.Code != "" {
		return c.Code
	}
	return DeriveClassCode(c.DepartmentCode, c.Section)
}

// Input returns the editable fields of the class
func (c Class) Input() ClassInput {
	return ClassInput{
		DepartmentID: c.DepartmentID,
		CourseID:     c.CourseID,
		Session:      c.Session,
		Section:      c.Section,
		Code:         c.Code,
		TeacherID:    c.TeacherID,
	}
}

// ClassOffering is a class as seen by one student
type ClassOffering struct {
	Class
	EnrolledCount int              `json:"enrolledCount"`
	Status        EnrollmentStatus `json:"status,omitempty"`
}
