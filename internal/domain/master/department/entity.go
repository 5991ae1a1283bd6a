package department

import "time"

type Department struct {
	ID             string
	OrganizationID string
	Name           string
	Description    *string
	HeadID         *string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined
	HeadName      *string
	EmployeeCount int
}
