package user

import "errors"

var (
	ErrUnauthenticated         = errors.New("authentication required")
	ErrOrganizationRequired    = errors.New("no organization associated with this account")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
