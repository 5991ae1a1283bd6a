package designation

import "context"

type DesignationRepository interface {
	Create(ctx context.Context, d Designation) (Designation, error)
	GetByID(ctx context.Context, id string, organizationID string) (Designation, error)
	List(ctx context.Context, organizationID string) ([]Designation, error)
	Update(ctx context.Context, d Designation) (Designation, error)
	Delete(ctx context.Context, id string, organizationID string) error
	CountEmployees(ctx context.Context, id string, organizationID string) (int, error)
}
