package holiday

import "context"

type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	GetByID(ctx context.Context, id string, organizationID string) (Holiday, error)
	ListByYear(ctx context.Context, organizationID string, year int) ([]Holiday, error)
	Update(ctx context.Context, h Holiday) (Holiday, error)
	Delete(ctx context.Context, id string, organizationID string) error
}
