package department

import (
	"strings"

	"github.com/hrmlabs/hrm-backend-go/internal/pkg/validator"
)

type DepartmentResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	HeadID        *string `json:"head_id,omitempty"`
	HeadName      *string `json:"head_name,omitempty"`
	IsActive      bool    `json:"is_active"`
	EmployeeCount int     `json:"employee_count"`
}

type CreateDepartmentRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	HeadID      *string `json:"head_id,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (r *CreateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors

	name := strings.TrimSpace(r.Name)
	if len(name) < 2 {
		errs.Add("name", "name must be at least 2 characters")
	}
	if len(name) > 100 {
		errs.Add("name", "name must not exceed 100 characters")
	}
	if r.HeadID != nil && *r.HeadID != "" && !validator.IsValidUUID(*r.HeadID) {
		errs.Add("head_id", "head_id must be a valid UUID")
	}

	return errs.OrNil()
}

type UpdateDepartmentRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	HeadID      *string `json:"head_id,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (r *UpdateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if len(name) < 2 {
			errs.Add("name", "name must be at least 2 characters")
		}
		if len(name) > 100 {
			errs.Add("name", "name must not exceed 100 characters")
		}
	}
	// An empty head_id clears the head.
	if r.HeadID != nil && *r.HeadID != "" && !validator.IsValidUUID(*r.HeadID) {
		errs.Add("head_id", "head_id must be a valid UUID")
	}

	return errs.OrNil()
}
