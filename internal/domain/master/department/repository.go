package department

import "context"

type DepartmentRepository interface {
	Create(ctx context.Context, d Department) (Department, error)
	GetByID(ctx context.Context, id string, organizationID string) (Department, error)
	List(ctx context.Context, organizationID string) ([]Department, error)
	Update(ctx context.Context, d Department) (Department, error)
	Delete(ctx context.Context, id string, organizationID string) error
	CountEmployees(ctx context.Context, id string, organizationID string) (int, error)
}
