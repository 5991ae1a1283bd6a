package holiday

import (
	"strings"

	"github.com/hrmlabs/hrm-backend-go/internal/pkg/validator"
)

type CreateHolidayRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Type        Type    `json:"type" validate:"required,oneof=PUBLIC COMPANY RESTRICTED"`
	IsOptional  bool    `json:"is_optional"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

func (r *CreateHolidayRequest) Validate() error {
	return validator.Struct(r)
}

func (r *CreateHolidayRequest) Holiday(organizationID string) Holiday {
	date, _ := validator.IsValidDate(r.Date)
	return Holiday{
		OrganizationID: organizationID,
		Name:           strings.TrimSpace(r.Name),
		Date:           date,
		Type:           r.Type,
		IsOptional:     r.IsOptional,
		Description:    emptyToNil(r.Description),
	}
}

type UpdateHolidayRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Date        *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Type        *Type   `json:"type,omitempty" validate:"omitempty,oneof=PUBLIC COMPANY RESTRICTED"`
	IsOptional  *bool   `json:"is_optional,omitempty"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

func (r *UpdateHolidayRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if validator.IsEmpty(r.ID) {
		return validator.ValidationErrors{{Field: "id", Message: "id is required"}}
	}
	return nil
}

func (r *UpdateHolidayRequest) Apply(h *Holiday) {
	if r.Name != nil {
		h.Name = strings.TrimSpace(*r.Name)
	}
	if r.Date != nil {
		h.Date, _ = validator.IsValidDate(*r.Date)
	}
	if r.Type != nil {
		h.Type = *r.Type
	}
	if r.IsOptional != nil {
		h.IsOptional = *r.IsOptional
	}
	if r.Description != nil {
		h.Description = emptyToNil(r.Description)
	}
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

type HolidayResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	Type        Type    `json:"type"`
	IsOptional  bool    `json:"is_optional"`
	Description *string `json:"description,omitempty"`
}
