package models

import (
	"fmt"
	"time"
)

// EnrollmentStatus is the review state of an enrollment request
type EnrollmentStatus string

const (
	EnrollmentPending  EnrollmentStatus = "pending"
	EnrollmentApproved EnrollmentStatus = "approved"
	EnrollmentRejected EnrollmentStatus = "rejected"
)

// Valid reports whether s is a known status
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentPending, EnrollmentApproved, EnrollmentRejected:
		return true
	}
	return false
}

// Enrollment links one student to one class
type Enrollment struct {
	ID           string           `json:"id"`
	ClassID      string           `json:"classId"`
	StudentID    string           `json:"studentId"`
	Status       EnrollmentStatus `json:"status"`
	RequestDate  time.Time        `json:"requestDate"`
	ResponseDate *time.Time       `json:"responseDate,omitempty"`
}

// Respond moves a pending request to approved or rejected and stamps the response date
func (e *Enrollment) Respond(status EnrollmentStatus, at time.Time) error {
	if e.Status != EnrollmentPending {
		return fmt.Errorf("enrollment %s is already %s", e.ID, e.Status)
	}
	if status != EnrollmentApproved && status != EnrollmentRejected {
		return fmt.Errorf("invalid response status %q", status)
	}
	e.Status = status
	e.ResponseDate = &at
	return nil
}

// Reapply resets a rejected request to pending
func (e *Enrollment) Reapply(at time.Time) error {
	if e.Status != EnrollmentRejected {
		return fmt.Errorf("enrollment %s is %s, only rejected requests can be reapplied", e.ID, e.Status)
	}
	e.Status = EnrollmentPending
	e.RequestDate = at
	e.ResponseDate = nil
	return nil
}
