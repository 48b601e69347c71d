package memory

import (
	"time"

	"github.com/yigit/cuetclass/internal/app/models"
)

// Seed is the initial content of a Store
type Seed struct {
	Departments []models.Department
	Courses     []models.Course
	Classes     []models.Class
	Users       []models.User
	Enrollments []models.Enrollment
	Notices     []models.Notice
}

// DefaultSeed returns the demo data set used in development mode
func DefaultSeed() Seed {
	approvedAt := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	return Seed{
		Departments: []models.Department{
			{ID: "dept-1", Code: "CE", Name: "Civil Engineering"},
			{ID: "dept-2", Code: "EEE", Name: "Electrical and Electronic Engineering"},
			{ID: "dept-3", Code: "ME", Name: "Mechanical Engineering"},
			{ID: "dept-4", Code: "CSE", Name: "Computer Science and Engineering"},
			{ID: "dept-5", Code: "URP", Name: "Urban & Regional Planning"},
			{ID: "dept-6", Code: "ARCH", Name: "Architecture"},
			{ID: "dept-7", Code: "PME", Name: "Petroleum and Mining Engineering"},
			{ID: "dept-8", Code: "ETE", Name: "Electronics and Telecommunication Engineering"},
		},
		Courses: []models.Course{
			{ID: "course-1", DepartmentID: "dept-4", Code: "CSE-101", Name: "Introduction to Computer Science", Credits: 3},
			{ID: "course-2", DepartmentID: "dept-4", Code: "CSE-102", Name: "Structured Programming", Credits: 3},
			{ID: "course-3", DepartmentID: "dept-4", Code: "CSE-201", Name: "Data Structures", Credits: 3},
			{ID: "course-4", DepartmentID: "dept-4", Code: "CSE-202", Name: "Object Oriented Programming", Credits: 3},
			{ID: "course-5", DepartmentID: "dept-2", Code: "EEE-101", Name: "Electrical Circuits I", Credits: 3},
			{ID: "course-6", DepartmentID: "dept-2", Code: "EEE-102", Name: "Electrical Circuits II", Credits: 3},
			{ID: "course-7", DepartmentID: "dept-2", Code: "EEE-201", Name: "Electronics I", Credits: 3},
			{ID: "course-8", DepartmentID: "dept-2", Code: "EEE-202", Name: "Digital Logic Design", Credits: 3},
		},
		Users: []models.User{
			{ID: "teacher-1", Name: "Dr. Rahman", Email: "rahman@cuet.ac.bd", Role: models.RoleTeacher, DepartmentCode: "CSE"},
			{ID: "teacher-2", Name: "Prof. Hossain", Email: "hossain@cuet.ac.bd", Role: models.RoleTeacher, DepartmentCode: "CSE"},
			{ID: "student-1", Name: "Ayesha Siddiqua", Email: "u2304001@student.cuet.ac.bd", Role: models.RoleStudent,
				DepartmentCode: "CSE", StudentNumber: "2304001", Session: "2023-2024", Section: "A"},
			{ID: "student-2", Name: "Tanvir Ahmed", Email: "u2304002@student.cuet.ac.bd", Role: models.RoleStudent,
				DepartmentCode: "CSE", StudentNumber: "2304002", Session: "2023-2024", Section: "A", IsClassRepresentative: true},
			{ID: "student-3", Name: "Nusrat Jahan", Email: "u2304003@student.cuet.ac.bd", Role: models.RoleStudent,
				DepartmentCode: "CSE", StudentNumber: "2304003", Session: "2023-2024", Section: "A"},
		},
		Classes: []models.Class{
			{ID: "class-1", DepartmentID: "dept-4", CourseID: "course-1", Session: "2023-2024", Section: "A", Code: "CSE-21", TeacherID: "teacher-1"},
			{ID: "class-2", DepartmentID: "dept-4", CourseID: "course-3", Session: "2023-2024", Section: "B", TeacherID: "teacher-2"},
			{ID: "class-3", DepartmentID: "dept-2", CourseID: "course-5", Session: "2022-2023", Section: "A"},
		},
		Enrollments: []models.Enrollment{
			{ID: "enrollment-1", ClassID: "class-1", StudentID: "student-2", Status: models.EnrollmentApproved,
				RequestDate: approvedAt, ResponseDate: &approvedAt},
			{ID: "enrollment-2", ClassID: "class-1", StudentID: "student-3", Status: models.EnrollmentApproved,
				RequestDate: approvedAt, ResponseDate: &approvedAt},
		},
	}
}
