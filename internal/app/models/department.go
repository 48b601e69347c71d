package models

// Department represents an academic department
type Department struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// DepartmentInput is the editable shape of a department
type DepartmentInput struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Input returns the editable fields of the department
func (d Department) Input() DepartmentInput {
	return DepartmentInput{Code: d.Code, Name: d.Name}
}
