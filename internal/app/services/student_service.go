package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/yigit/erpconsole/internal/app/models"
)

// StudentStore is the backend surface StudentService needs
type StudentStore interface {
	StudentLister
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
}

// Student texts
const (
	DeleteStudentPrompt = "Are you sure you want to delete this student? This action cannot be undone."
	admittedFlash       = "Student admitted. Generated roll number: %s"
	StudentSavedFlash   = "Student updated successfully!"
	StudentDeletedFlash = "Student deleted successfully!"
)

// AdmittedFlash is the banner shown after an admission
func AdmittedFlash(rollNumber string) string {
	return fmt.Sprintf(admittedFlash, rollNumber)
}

// StudentService handles student lists
type StudentService struct {
	students StudentStore
}

// NewStudentService creates a new student service instance
func NewStudentService(students StudentStore) *StudentService {
	return &StudentService{
		students: students,
	}
}

// ListByDomain returns the students of a domain ordered by exam marks
func (s *StudentService) ListByDomain(ctx context.Context, domainID int64, order models.SortOrder) ([]models.Student, error) {
	students, err := s.students.GetByDomain(ctx, domainID)
	if err != nil {
		return nil, fmt.Errorf("list students of domain %d: %w", domainID, err)
	}
	return SortByExamMarks(students, order), nil
}

// Get returns one student
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get student %d: %w", id, err)
	}
	return student, nil
}

// Delete removes a student
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.students.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete student %d: %w", id, err)
	}
	return nil
}

// SortByExamMarks returns a sorted copy. Students without marks always come
// last, and equal keys keep their backend order. SortNone keeps backend order.
func SortByExamMarks(students []models.Student, order models.SortOrder) []models.Student {
	out := make([]models.Student, len(students))
	copy(out, students)
	if order != models.SortAsc && order != models.SortDesc {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].ExamMarks, out[j].ExamMarks
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		case order == models.SortDesc:
			return *a > *b
		default:
			return *a < *b
		}
	})
	return out
}
