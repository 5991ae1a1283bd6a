package designation

import "errors"

var (
	ErrDesignationNotFound   = errors.New("designation not found")
	ErrDesignationNameExists = errors.New("designation with this name already exists")
	ErrDesignationInUse      = errors.New("designation is assigned to employees")
)
