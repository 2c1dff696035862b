package repositories

import (
	"context"
	"fmt"
	"net/http"

	"github.com/yigit/erpconsole/internal/app/models"
)

// StudentRepository reads and writes students through the backend
type StudentRepository struct {
	client *BackendClient
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(client *BackendClient) *StudentRepository {
	return &StudentRepository{
		client: client,
	}
}

// GetByDomain lists the students enrolled in a domain
func (r *StudentRepository) GetByDomain(ctx context.Context, domainID int64) ([]models.Student, error) {
	var students []models.Student
	path := fmt.Sprintf("/api/students/domain/%d", domainID)
	if err := r.client.doJSON(ctx, "students.by_domain", http.MethodGet, path, nil, &students); err != nil {
		return nil, err
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, nil
}

// GetByID fetches one student
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	var student models.Student
	if err := r.client.doJSON(ctx, "students.get", http.MethodGet, fmt.Sprintf("/api/students/%d", id), nil, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// Admit enrolls a new student; the backend assigns the roll number
func (r *StudentRepository) Admit(ctx context.Context, req models.StudentAdmissionRequest) (*models.Student, error) {
	var student models.Student
	if err := r.client.doJSON(ctx, "students.admit", http.MethodPost, "/api/students/admit", req, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// Update replaces a student's editable fields
func (r *StudentRepository) Update(ctx context.Context, req models.StudentUpdateRequest) (*models.Student, error) {
	var student models.Student
	path := fmt.Sprintf("/api/students/%d", req.StudentID)
	if err := r.client.doJSON(ctx, "students.update", http.MethodPatch, path, req, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// Delete removes a student
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	return r.client.doJSON(ctx, "students.delete", http.MethodDelete, fmt.Sprintf("/api/students/%d", id), nil, nil)
}
