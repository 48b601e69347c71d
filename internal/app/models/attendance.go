package models

// AttendanceDateLayout is the calendar-day format attendance is keyed by
const AttendanceDateLayout = "2006-01-02"

// AttendanceStatus is the mark one student gets for one day
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// AttendanceStatuses lists the marks in display order
var AttendanceStatuses = []AttendanceStatus{AttendancePresent, AttendanceLate, AttendanceAbsent}

// Valid reports whether s is a known mark
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceAbsent:
		return true
	}
	return false
}

// AttendanceMark is one student's mark
type AttendanceMark struct {
	StudentID string           `json:"student_id"`
	Status    AttendanceStatus `json:"status"`
}

// AttendanceSheet is the set of marks a teacher saves for a class on a date
type AttendanceSheet struct {
	ClassID  string           `json:"class_id"`
	Date     string           `json:"date"`
	Marks    []AttendanceMark `json:"records"`
	MarkedBy string           `json:"-"`
}

// AttendanceSummary counts marks over a roster
type AttendanceSummary struct {
	Total    int
	Present  int
	Late     int
	Absent   int
	Unmarked int
}

// Summarize counts the marks of the students in roster; marks for students
// outside the roster are ignored.
func Summarize(roster []User, marks map[string]AttendanceStatus) AttendanceSummary {
	s := AttendanceSummary{Total: len(roster)}
	for _, u := range roster {
		switch marks[u.ID] {
		case AttendancePresent:
			s.Present++
		case AttendanceLate:
			s.Late++
		case AttendanceAbsent:
			s.Absent++
		default:
			s.Unmarked++
		}
	}
	return s
}
