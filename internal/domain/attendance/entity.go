package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusHalfDay Status = "HALF_DAY"
	StatusLeave   Status = "LEAVE"
	StatusHoliday Status = "HOLIDAY"
	StatusWeekend Status = "WEEKEND"
)

// Location is the device position reported at check-in or check-out.
type Location struct {
	Latitude  float64  `json:"latitude" validate:"latitude"`
	Longitude float64  `json:"longitude" validate:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty" validate:"omitempty,gte=0"`
}

// Attendance is one check-in session. CheckOut is nil while the session is open.
type Attendance struct {
	ID               string
	OrganizationID   string
	EmployeeID       string
	Date             time.Time
	CheckIn          *time.Time
	CheckOut         *time.Time
	CheckInLocation  *Location
	CheckOutLocation *Location
	WorkingHours     *decimal.Decimal
	OvertimeHours    *decimal.Decimal
	Status           Status
	Notes            *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined
	EmployeeName string
	EmployeeCode string
}

// WorkingHours is the session length in hours, rounded to two decimals.
func WorkingHours(checkIn, checkOut time.Time) decimal.Decimal {
	return decimal.NewFromInt(checkOut.Sub(checkIn).Milliseconds()).
		Div(decimal.NewFromInt(int64(time.Hour / time.Millisecond))).
		Round(2)
}

// AppendCheckOutNotes tags check-out notes with "[Out]: " and appends them to the check-in notes.
func AppendCheckOutNotes(existing *string, notes string) *string {
	if notes == "" {
		return existing
	}
	out := "[Out]: " + notes
	if existing != nil && *existing != "" {
		out = *existing + "\n" + out
	}
	return &out
}
