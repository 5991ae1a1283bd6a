package organization

import "context"

type OrganizationRepository interface {
	Create(ctx context.Context, o Organization) (Organization, error)
	GetByID(ctx context.Context, id string) (Organization, error)
	Update(ctx context.Context, id string, req UpdateOrganizationRequest) (Organization, error)
}
