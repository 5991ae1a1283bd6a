package organization

import "time"

type SubscriptionPlan string

const (
	PlanFree       SubscriptionPlan = "FREE"
	PlanBasic      SubscriptionPlan = "BASIC"
	PlanPro        SubscriptionPlan = "PRO"
	PlanEnterprise SubscriptionPlan = "ENTERPRISE"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "ACTIVE"
	SubscriptionInactive  SubscriptionStatus = "INACTIVE"
	SubscriptionTrial     SubscriptionStatus = "TRIAL"
	SubscriptionCancelled SubscriptionStatus = "CANCELLED"
)

// Address is stored as JSON on organizations and employees.
type Address struct {
	Street     string `json:"street,omitempty" validate:"max=255"`
	City       string `json:"city,omitempty" validate:"max=100"`
	State      string `json:"state,omitempty" validate:"max=100"`
	PostalCode string `json:"postal_code,omitempty" validate:"max=20"`
	Country    string `json:"country,omitempty" validate:"max=100"`
}

type Organization struct {
	ID                 string
	Name               string
	Slug               string
	Email              string
	Phone              *string
	Address            *Address
	LogoURL            *string
	SubscriptionPlan   SubscriptionPlan
	SubscriptionStatus SubscriptionStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
