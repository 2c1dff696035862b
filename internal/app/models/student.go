package models

// Student is an enrollee admitted into exactly one domain
type Student struct {
	StudentID     int64    `json:"studentId" example:"1"`                                           // Identity
	RollNumber    string   `json:"rollNumber" example:"BT2024001"`                                  // Server generated, immutable
	FirstName     string   `json:"firstName" example:"John"`                                        // Student's first name
	LastName      string   `json:"lastName" example:"Doe"`                                          // Student's last name
	Email         string   `json:"email" example:"john.doe@student.university.edu"`                 // Unique across students
	DomainID      int64    `json:"domainId" example:"1"`                                            // Fixed at admission
	DomainProgram string   `json:"domainProgram,omitempty" example:"Bachelor of Technology in CSE"` // Denormalised program name
	JoinYear      int      `json:"joinYear" example:"2024"`                                         // Fixed at admission
	ExamMarks     *float64 `json:"examMarks,omitempty" example:"80.50"`                             // Nil when the backend has no mark
}

// FullName joins first and last name for display
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StudentAdmissionRequest is posted to /students/admit. It carries no studentId.
type StudentAdmissionRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	DomainID  int64   `json:"domainId"`
	JoinYear  int     `json:"joinYear"`
	ExamMarks float64 `json:"examMarks"`
}

// StudentUpdateRequest is patched to /students/{id}; studentId must match the path.
type StudentUpdateRequest struct {
	StudentID int64   `json:"studentId"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	DomainID  int64   `json:"domainId"`
	JoinYear  int     `json:"joinYear"`
	ExamMarks float64 `json:"examMarks"`
}
