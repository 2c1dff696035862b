package repositories

import (
	"context"
	"fmt"
	"net/http"

	"github.com/yigit/erpconsole/internal/app/models"
)

// DomainRepository reads and writes domains through the backend
type DomainRepository struct {
	client *BackendClient
}

// NewDomainRepository creates a new domain repository
func NewDomainRepository(client *BackendClient) *DomainRepository {
	return &DomainRepository{
		client: client,
	}
}

// GetAll lists every domain with its enrolled count
func (r *DomainRepository) GetAll(ctx context.Context) ([]models.Domain, error) {
	var domains []models.Domain
	if err := r.client.doJSON(ctx, "domains.list", http.MethodGet, "/api/domains", nil, &domains); err != nil {
		return nil, err
	}
	if domains == nil {
		domains = []models.Domain{}
	}
	return domains, nil
}

// GetByID fetches a single domain
func (r *DomainRepository) GetByID(ctx context.Context, id int64) (*models.Domain, error) {
	var domain models.Domain
	if err := r.client.doJSON(ctx, "domains.get", http.MethodGet, fmt.Sprintf("/api/domains/%d", id), nil, &domain); err != nil {
		return nil, err
	}
	return &domain, nil
}

// Create creates a new domain
func (r *DomainRepository) Create(ctx context.Context, req models.DomainRequest) (*models.Domain, error) {
	var domain models.Domain
	if err := r.client.doJSON(ctx, "domains.create", http.MethodPost, "/api/domains", req, &domain); err != nil {
		return nil, err
	}
	return &domain, nil
}

// Update applies a partial update to a domain
func (r *DomainRepository) Update(ctx context.Context, id int64, req models.DomainRequest) (*models.Domain, error) {
	var domain models.Domain
	if err := r.client.doJSON(ctx, "domains.update", http.MethodPatch, fmt.Sprintf("/api/domains/%d", id), req, &domain); err != nil {
		return nil, err
	}
	return &domain, nil
}

// UpdateImpact asks how many enrolled students a proposed update would strand
func (r *DomainRepository) UpdateImpact(ctx context.Context, id int64, req models.DomainRequest) (*models.UpdateImpact, error) {
	var impact models.UpdateImpact
	if err := r.client.doJSON(ctx, "domains.impact", http.MethodPost, fmt.Sprintf("/api/domains/%d/impact", id), req, &impact); err != nil {
		return nil, err
	}
	return &impact, nil
}

// DeleteImpact asks how many students a delete would remove
func (r *DomainRepository) DeleteImpact(ctx context.Context, id int64) (*models.UpdateImpact, error) {
	var impact models.UpdateImpact
	if err := r.client.doJSON(ctx, "domains.delete_impact", http.MethodGet, fmt.Sprintf("/api/domains/%d/delete-impact", id), nil, &impact); err != nil {
		return nil, err
	}
	return &impact, nil
}

// Delete removes a domain and, server-side, its students
func (r *DomainRepository) Delete(ctx context.Context, id int64) error {
	return r.client.doJSON(ctx, "domains.delete", http.MethodDelete, fmt.Sprintf("/api/domains/%d", id), nil, nil)
}
