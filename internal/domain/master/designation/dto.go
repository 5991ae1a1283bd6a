package designation

import (
	"strings"

	"github.com/hrmlabs/hrm-backend-go/internal/pkg/validator"
)

type DesignationResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	Level         int     `json:"level"`
	IsActive      bool    `json:"is_active"`
	EmployeeCount int     `json:"employee_count"`
}

type CreateDesignationRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Level       int     `json:"level"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (r *CreateDesignationRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(strings.TrimSpace(r.Name)) < 2 {
		errs.Add("name", "name must be at least 2 characters")
	}
	if len(r.Name) > 100 {
		errs.Add("name", "name must not exceed 100 characters")
	}
	if r.Level < 1 {
		errs.Add("level", "level must be greater than or equal to 1")
	}

	return errs.OrNil()
}

type UpdateDesignationRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Level       *int    `json:"level,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (r *UpdateDesignationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Name != nil {
		if len(strings.TrimSpace(*r.Name)) < 2 {
			errs.Add("name", "name must be at least 2 characters")
		}
		if len(*r.Name) > 100 {
			errs.Add("name", "name must not exceed 100 characters")
		}
	}
	if r.Level != nil && *r.Level < 1 {
		errs.Add("level", "level must be greater than or equal to 1")
	}

	return errs.OrNil()
}
