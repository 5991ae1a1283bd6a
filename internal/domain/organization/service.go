package organization

import "context"

type OrganizationService interface {
	GetCurrent(ctx context.Context) (OrganizationResponse, error)
	UpdateCurrent(ctx context.Context, req UpdateOrganizationRequest) (OrganizationResponse, error)
}
