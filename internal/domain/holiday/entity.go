package holiday

import "time"

type Type string

const (
	TypePublic     Type = "PUBLIC"
	TypeCompany    Type = "COMPANY"
	TypeRestricted Type = "RESTRICTED"
)

type Holiday struct {
	ID             string
	OrganizationID string
	Name           string
	Date           time.Time
	Type           Type
	IsOptional     bool
	Description    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
