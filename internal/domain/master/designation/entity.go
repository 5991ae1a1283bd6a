package designation

import "time"

type Designation struct {
	ID             string
	OrganizationID string
	Name           string
	Description    *string
	Level          int
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time

	EmployeeCount int
}
