package models

// Domain is an academic program/cohort as returned by the backend
type Domain struct {
	DomainID     int64    `json:"domainId" example:"1"`                            // Server-assigned identity
	Program      string   `json:"program" example:"Bachelor of Technology in CSE"` // Program name
	Batch        string   `json:"batch,omitempty" example:"2024"`                  // 4-digit batch year
	Capacity     int      `json:"capacity" example:"60"`                           // Seat capacity (0-150)
	ExamName     string   `json:"examName,omitempty" example:"JEE Main"`           // Qualifying exam
	CutoffMarks  *float64 `json:"cutoffMarks,omitempty" example:"75.00"`           // Admission cutoff (optional)
	StudentCount *int64   `json:"studentCount,omitempty" example:"25"`             // Server-computed, read-only
}

// DomainRequest is the body of create, update and impact calls
type DomainRequest struct {
	Program     string  `json:"program"`
	Batch       string  `json:"batch"`
	Capacity    int     `json:"capacity"`
	ExamName    string  `json:"examName"`
	CutoffMarks float64 `json:"cutoffMarks"`
}

// UpdateImpact is the server-computed effect of a proposed domain update or delete.
// It is never persisted.
type UpdateImpact struct {
	DomainID              int64  `json:"domainId" example:"1"`
	AffectedStudentsCount int64  `json:"affectedStudentsCount" example:"5"`
	Message               string `json:"message" example:"5 students will be removed if cutoff marks are increased to 80.00"`
}

// HasImpact reports whether the change touches any enrolled student.
func (i *UpdateImpact) HasImpact() bool {
	return i != nil && i.AffectedStudentsCount > 0
}
