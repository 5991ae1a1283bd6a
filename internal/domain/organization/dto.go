package organization

import (
	"regexp"
	"strings"
	"time"

	"github.com/hrmlabs/hrm-backend-go/internal/pkg/validator"
)

type OrganizationResponse struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Slug               string             `json:"slug"`
	Email              string             `json:"email"`
	Phone              *string            `json:"phone,omitempty"`
	Address            *Address           `json:"address,omitempty"`
	LogoURL            *string            `json:"logo_url,omitempty"`
	SubscriptionPlan   SubscriptionPlan   `json:"subscription_plan"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// UpdateOrganizationRequest is a partial update. The slug and subscription fields are not editable here.
type UpdateOrganizationRequest struct {
	Name    *string  `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Email   *string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string  `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address *Address `json:"address,omitempty"`
	LogoURL *string  `json:"logo_url,omitempty" validate:"omitempty,url"`
}

func (r *UpdateOrganizationRequest) Validate() error {
	return validator.Struct(r)
}

func (r *UpdateOrganizationRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Phone == nil && r.Address == nil && r.LogoURL == nil
}

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CreateOrganizationRequest onboards a new tenant. Subscription fields take their defaults.
type CreateOrganizationRequest struct {
	Name  string  `json:"name" validate:"required,min=2,max=255"`
	Slug  string  `json:"slug" validate:"required,min=2,max=63"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

func (r *CreateOrganizationRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Slug = strings.TrimSpace(r.Slug)
	if err := validator.Struct(r); err != nil {
		return err
	}
	if !slugRegex.MatchString(r.Slug) {
		var errs validator.ValidationErrors
		errs.Add("slug", "must be lowercase letters, digits and single hyphens")
		return errs
	}
	return nil
}

func (r CreateOrganizationRequest) Organization() Organization {
	o := Organization{
		Name:               r.Name,
		Slug:               r.Slug,
		SubscriptionPlan:   PlanFree,
		SubscriptionStatus: SubscriptionActive,
	}
	if r.Email != nil {
		o.Email = strings.TrimSpace(*r.Email)
	}
	return o
}
