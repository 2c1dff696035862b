package repositories

import (
	"context"
	"net/http"
	"strings"
)

// InitResult is the backend's reply to a table creation request
type InitResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DatabaseRepository covers the backend's maintenance endpoints
type DatabaseRepository struct {
	client *BackendClient
}

// NewDatabaseRepository creates a new database repository
func NewDatabaseRepository(client *BackendClient) *DatabaseRepository {
	return &DatabaseRepository{
		client: client,
	}
}

// Init asks the backend to create any missing tables
func (r *DatabaseRepository) Init(ctx context.Context) (*InitResult, error) {
	var result InitResult
	if err := r.client.doJSON(ctx, "database.init", http.MethodPost, "/api/database/init", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health returns the backend's plain-text health banner
func (r *DatabaseRepository) Health(ctx context.Context) (string, error) {
	resp, err := r.client.do(ctx, "health", http.MethodGet, "/api/health", nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(resp.body)), nil
}
