package organization

import "errors"

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrEmailExists          = errors.New("organization email already in use")
	ErrSlugExists           = errors.New("organization slug already in use")
	ErrNothingToUpdate      = errors.New("no updatable fields provided")
)
