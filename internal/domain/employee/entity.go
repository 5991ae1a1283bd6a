package employee

import (
	"time"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/organization"
)

type Employee struct {
	ID                string
	OrganizationID    string
	UserID            *string
	EmployeeCode      string
	FirstName         string
	LastName          string
	Email             string
	Phone             string
	DateOfBirth       time.Time
	Gender            Gender
	BloodGroup        *string
	MaritalStatus     MaritalStatus
	ProfileImageURL   *string
	DepartmentID      string
	DesignationID     string
	ManagerID         *string
	EmploymentType    EmploymentType
	JoiningDate       time.Time
	ConfirmationDate  *time.Time
	ResignationDate   *time.Time
	Status            Status
	CurrentAddress    *organization.Address
	PermanentAddress  *organization.Address
	EmergencyContacts []EmergencyContact
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Joined
	DepartmentName  string
	DesignationName string
	ManagerName     *string
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type EmergencyContact struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Relationship string `json:"relationship" validate:"required,min=2,max=50"`
	Phone        string `json:"phone" validate:"required,numeric,len=10"`
}

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "SINGLE"
	MaritalMarried  MaritalStatus = "MARRIED"
	MaritalDivorced MaritalStatus = "DIVORCED"
	MaritalWidowed  MaritalStatus = "WIDOWED"
)

type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "FULL_TIME"
	EmploymentPartTime EmploymentType = "PART_TIME"
	EmploymentContract EmploymentType = "CONTRACT"
	EmploymentIntern   EmploymentType = "INTERN"
)

type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusInactive   Status = "INACTIVE"
	StatusOnLeave    Status = "ON_LEAVE"
	StatusResigned   Status = "RESIGNED"
	StatusTerminated Status = "TERMINATED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusOnLeave, StatusResigned, StatusTerminated:
		return true
	}
	return false
}
