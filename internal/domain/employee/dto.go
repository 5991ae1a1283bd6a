package employee

import (
	"time"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/organization"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	FirstName         string                `json:"first_name" validate:"required,min=2,max=100"`
	LastName          string                `json:"last_name" validate:"required,min=2,max=100"`
	Email             string                `json:"email" validate:"required,email"`
	Phone             string                `json:"phone" validate:"required,numeric,len=10"`
	DateOfBirth       string                `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender            Gender                `json:"gender" validate:"required,oneof=MALE FEMALE OTHER"`
	BloodGroup        *string               `json:"blood_group,omitempty" validate:"omitempty,max=5"`
	MaritalStatus     MaritalStatus         `json:"marital_status" validate:"required,oneof=SINGLE MARRIED DIVORCED WIDOWED"`
	ProfileImageURL   *string               `json:"profile_image_url,omitempty" validate:"omitempty,url"`
	DepartmentID      string                `json:"department_id" validate:"required,uuid"`
	DesignationID     string                `json:"designation_id" validate:"required,uuid"`
	ManagerID         *string               `json:"manager_id,omitempty" validate:"omitempty,uuid"`
	EmploymentType    EmploymentType        `json:"employment_type" validate:"required,oneof=FULL_TIME PART_TIME CONTRACT INTERN"`
	JoiningDate       string                `json:"joining_date" validate:"required,datetime=2006-01-02"`
	ConfirmationDate  *string               `json:"confirmation_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CurrentAddress    *organization.Address `json:"current_address,omitempty"`
	PermanentAddress  *organization.Address `json:"permanent_address,omitempty"`
	EmergencyContacts []EmergencyContact    `json:"emergency_contacts" validate:"min=1,dive"`
}

// Validate checks field shapes, then the date rules that tags cannot express.
func (r *CreateEmployeeRequest) Validate(today time.Time) error {
	if err := validator.Struct(r); err != nil {
		return err
	}

	var errs validator.ValidationErrors
	dob, _ := validator.IsValidDate(r.DateOfBirth)
	if dob.After(today) {
		errs.Add("date_of_birth", "date_of_birth cannot be in the future")
	}
	if r.ConfirmationDate != nil {
		joining, _ := validator.IsValidDate(r.JoiningDate)
		confirmation, _ := validator.IsValidDate(*r.ConfirmationDate)
		if confirmation.Before(joining) {
			errs.Add("confirmation_date", "confirmation_date cannot be before joining_date")
		}
	}
	return errs.OrNil()
}

// Employee converts a validated request. The code and status are set by the service.
func (r *CreateEmployeeRequest) Employee(organizationID string) Employee {
	dob, _ := validator.IsValidDate(r.DateOfBirth)
	joining, _ := validator.IsValidDate(r.JoiningDate)

	e := Employee{
		OrganizationID:    organizationID,
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		Email:             r.Email,
		Phone:             r.Phone,
		DateOfBirth:       dob,
		Gender:            r.Gender,
		BloodGroup:        r.BloodGroup,
		MaritalStatus:     r.MaritalStatus,
		ProfileImageURL:   r.ProfileImageURL,
		DepartmentID:      r.DepartmentID,
		DesignationID:     r.DesignationID,
		ManagerID:         r.ManagerID,
		EmploymentType:    r.EmploymentType,
		JoiningDate:       joining,
		CurrentAddress:    r.CurrentAddress,
		PermanentAddress:  r.PermanentAddress,
		EmergencyContacts: r.EmergencyContacts,
	}
	if r.ConfirmationDate != nil {
		c, _ := validator.IsValidDate(*r.ConfirmationDate)
		e.ConfirmationDate = &c
	}
	return e
}

// UpdateEmployeeRequest is a partial update. An empty manager_id clears the manager.
type UpdateEmployeeRequest struct {
	ID                string                `json:"-"`
	FirstName         *string               `json:"first_name,omitempty" validate:"omitempty,min=2,max=100"`
	LastName          *string               `json:"last_name,omitempty" validate:"omitempty,min=2,max=100"`
	Email             *string               `json:"email,omitempty" validate:"omitempty,email"`
	Phone             *string               `json:"phone,omitempty" validate:"omitempty,numeric,len=10"`
	DateOfBirth       *string               `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Gender            *Gender               `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	BloodGroup        *string               `json:"blood_group,omitempty" validate:"omitempty,max=5"`
	MaritalStatus     *MaritalStatus        `json:"marital_status,omitempty" validate:"omitempty,oneof=SINGLE MARRIED DIVORCED WIDOWED"`
	ProfileImageURL   *string               `json:"profile_image_url,omitempty" validate:"omitempty,url"`
	DepartmentID      *string               `json:"department_id,omitempty" validate:"omitempty,uuid"`
	DesignationID     *string               `json:"designation_id,omitempty" validate:"omitempty,uuid"`
	ManagerID         *string               `json:"manager_id,omitempty"`
	EmploymentType    *EmploymentType       `json:"employment_type,omitempty" validate:"omitempty,oneof=FULL_TIME PART_TIME CONTRACT INTERN"`
	JoiningDate       *string               `json:"joining_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ConfirmationDate  *string               `json:"confirmation_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status            *Status               `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE ON_LEAVE RESIGNED TERMINATED"`
	CurrentAddress    *organization.Address `json:"current_address,omitempty"`
	PermanentAddress  *organization.Address `json:"permanent_address,omitempty"`
	EmergencyContacts *[]EmergencyContact   `json:"emergency_contacts,omitempty" validate:"omitempty,min=1,dive"`
}

func (r *UpdateEmployeeRequest) Validate(today time.Time) error {
	if err := validator.Struct(r); err != nil {
		return err
	}

	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.ManagerID != nil && *r.ManagerID != "" && !validator.IsValidUUID(*r.ManagerID) {
		errs.Add("manager_id", "manager_id must be a valid UUID")
	}
	if r.DateOfBirth != nil {
		if dob, _ := validator.IsValidDate(*r.DateOfBirth); dob.After(today) {
			errs.Add("date_of_birth", "date_of_birth cannot be in the future")
		}
	}
	return errs.OrNil()
}

// Apply copies the provided fields onto e.
func (r *UpdateEmployeeRequest) Apply(e *Employee) {
	if r.FirstName != nil {
		e.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		e.LastName = *r.LastName
	}
	if r.Email != nil {
		e.Email = *r.Email
	}
	if r.Phone != nil {
		e.Phone = *r.Phone
	}
	if r.DateOfBirth != nil {
		e.DateOfBirth, _ = validator.IsValidDate(*r.DateOfBirth)
	}
	if r.Gender != nil {
		e.Gender = *r.Gender
	}
	if r.BloodGroup != nil {
		e.BloodGroup = r.BloodGroup
	}
	if r.MaritalStatus != nil {
		e.MaritalStatus = *r.MaritalStatus
	}
	if r.ProfileImageURL != nil {
		e.ProfileImageURL = r.ProfileImageURL
	}
	if r.DepartmentID != nil {
		e.DepartmentID = *r.DepartmentID
	}
	if r.DesignationID != nil {
		e.DesignationID = *r.DesignationID
	}
	if r.ManagerID != nil {
		if *r.ManagerID == "" {
			e.ManagerID = nil
		} else {
			e.ManagerID = r.ManagerID
		}
	}
	if r.EmploymentType != nil {
		e.EmploymentType = *r.EmploymentType
	}
	if r.JoiningDate != nil {
		e.JoiningDate, _ = validator.IsValidDate(*r.JoiningDate)
	}
	if r.ConfirmationDate != nil {
		c, _ := validator.IsValidDate(*r.ConfirmationDate)
		e.ConfirmationDate = &c
	}
	if r.Status != nil {
		e.Status = *r.Status
	}
	if r.CurrentAddress != nil {
		e.CurrentAddress = r.CurrentAddress
	}
	if r.PermanentAddress != nil {
		e.PermanentAddress = r.PermanentAddress
	}
	if r.EmergencyContacts != nil {
		e.EmergencyContacts = *r.EmergencyContacts
	}
}

type EmployeeFilter struct {
	DepartmentID  *string
	DesignationID *string
	Status        *Status
	Search        *string
	Page          int
	Limit         int
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.DepartmentID != nil && !validator.IsValidUUID(*f.DepartmentID) {
		errs.Add("department_id", "department_id must be a valid UUID")
	}
	if f.DesignationID != nil && !validator.IsValidUUID(*f.DesignationID) {
		errs.Add("designation_id", "designation_id must be a valid UUID")
	}
	if f.Status != nil && !f.Status.IsValid() {
		errs.Add("status", "status must be one of: ACTIVE, INACTIVE, ON_LEAVE, RESIGNED, TERMINATED")
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return errs.OrNil()
}

func (f EmployeeFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type EmployeeResponse struct {
	ID                string                `json:"id"`
	EmployeeCode      string                `json:"employee_code"`
	UserID            *string               `json:"user_id,omitempty"`
	FirstName         string                `json:"first_name"`
	LastName          string                `json:"last_name"`
	FullName          string                `json:"full_name"`
	Email             string                `json:"email"`
	Phone             string                `json:"phone"`
	DateOfBirth       string                `json:"date_of_birth"`
	Gender            Gender                `json:"gender"`
	BloodGroup        *string               `json:"blood_group,omitempty"`
	MaritalStatus     MaritalStatus         `json:"marital_status"`
	ProfileImageURL   *string               `json:"profile_image_url,omitempty"`
	DepartmentID      string                `json:"department_id"`
	DepartmentName    string                `json:"department_name,omitempty"`
	DesignationID     string                `json:"designation_id"`
	DesignationName   string                `json:"designation_name,omitempty"`
	ManagerID         *string               `json:"manager_id,omitempty"`
	ManagerName       *string               `json:"manager_name,omitempty"`
	EmploymentType    EmploymentType        `json:"employment_type"`
	JoiningDate       string                `json:"joining_date"`
	ConfirmationDate  *string               `json:"confirmation_date,omitempty"`
	ResignationDate   *string               `json:"resignation_date,omitempty"`
	Status            Status                `json:"status"`
	CurrentAddress    *organization.Address `json:"current_address,omitempty"`
	PermanentAddress  *organization.Address `json:"permanent_address,omitempty"`
	EmergencyContacts []EmergencyContact    `json:"emergency_contacts"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}
