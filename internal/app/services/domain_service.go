package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yigit/erpconsole/internal/app/models"
)

// DomainReader is the backend surface DomainService reads through
type DomainReader interface {
	GetAll(ctx context.Context) ([]models.Domain, error)
	GetByID(ctx context.Context, id int64) (*models.Domain, error)
	DeleteImpact(ctx context.Context, id int64) (*models.UpdateImpact, error)
	Delete(ctx context.Context, id int64) error
}

// StudentLister lists the students of a domain
type StudentLister interface {
	GetByDomain(ctx context.Context, domainID int64) ([]models.Student, error)
}

// Delete confirmation texts
const (
	DeleteDomainPrompt    = "Are you sure you want to delete this domain? This action cannot be undone."
	NoStudentsAffected    = "No students are associated with this domain."
	DomainSavedFlash      = "Domain saved successfully!"
	DomainDeletedFlash    = "Domain and all associated students deleted successfully!"
	studentsRemovedNotice = "All %d student(s) will be permanently removed from the database."
)

// DomainService handles domain pages
type DomainService struct {
	domains  DomainReader
	students StudentLister
}

// NewDomainService creates a new domain service instance
func NewDomainService(domains DomainReader, students StudentLister) *DomainService {
	return &DomainService{
		domains:  domains,
		students: students,
	}
}

// List returns every domain, fetched fresh
func (s *DomainService) List(ctx context.Context) ([]models.Domain, error) {
	domains, err := s.domains.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	return domains, nil
}

// Get returns one domain
func (s *DomainService) Get(ctx context.Context, id int64) (*models.Domain, error) {
	domain, err := s.domains.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get domain %d: %w", id, err)
	}
	return domain, nil
}

// DomainDetail is a domain together with its enrolled students
type DomainDetail struct {
	Domain   *models.Domain
	Students []models.Student
}

// Detail fetches the domain and its students concurrently
func (s *DomainService) Detail(ctx context.Context, id int64) (*DomainDetail, error) {
	var detail DomainDetail

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		domain, err := s.domains.GetByID(gctx, id)
		if err != nil {
			return fmt.Errorf("get domain %d: %w", id, err)
		}
		detail.Domain = domain
		return nil
	})
	g.Go(func() error {
		students, err := s.students.GetByDomain(gctx, id)
		if err != nil {
			return fmt.Errorf("list students of domain %d: %w", id, err)
		}
		detail.Students = students
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &detail, nil
}

// DeleteConfirmation is what the user sees before a domain is deleted
type DeleteConfirmation struct {
	DomainID int64
	Prompt   string
	Impact   *models.UpdateImpact
	// Lines follow the prompt: the server message and removal notice, or the
	// no-students notice
	Lines []string
}

// PrepareDelete asks the backend for the delete impact
func (s *DomainService) PrepareDelete(ctx context.Context, id int64) (*DeleteConfirmation, error) {
	impact, err := s.domains.DeleteImpact(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete impact of domain %d: %w", id, err)
	}

	c := &DeleteConfirmation{DomainID: id, Prompt: DeleteDomainPrompt, Impact: impact}
	if impact.HasImpact() {
		if impact.Message != "" {
			c.Lines = append(c.Lines, impact.Message)
		}
		c.Lines = append(c.Lines, fmt.Sprintf(studentsRemovedNotice, impact.AffectedStudentsCount))
	} else {
		c.Lines = []string{NoStudentsAffected}
	}
	return c, nil
}

// Delete removes the domain; the backend cascades to its students
func (s *DomainService) Delete(ctx context.Context, id int64) error {
	if err := s.domains.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete domain %d: %w", id, err)
	}
	return nil
}
