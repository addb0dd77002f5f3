package order

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// APICustomerDirectory resolves customer references against the membership
// service over HTTP. A Get error is reported to the caller, which treats the
// reference as unresolved rather than failing the order.
type APICustomerDirectory struct {
	client *apt.ServiceClient
	logger apt.Logger
}

func NewAPICustomerDirectory(baseURL string, logger apt.Logger) *APICustomerDirectory {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &APICustomerDirectory{
		client: apt.NewServiceClient(baseURL),
		logger: logger,
	}
}

func (d *APICustomerDirectory) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	resp, err := d.client.Get(ctx, "customers", id.String())
	if err != nil {
		return false, fmt.Errorf("failed to fetch customer %s: %w", id, err)
	}
	return resp != nil && resp.Data != nil, nil
}
