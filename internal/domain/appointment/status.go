package appointment

import "github.com/BruksfildServices01/salon-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCanceled  Status = "canceled"
)

// ===============================
// Attendance Status
// ===============================

type Attendance string

const (
	AttendancePending  Attendance = "pending"
	AttendanceAttended Attendance = "attended"
	AttendanceCanceled Attendance = "canceled"
	AttendanceNoShow   Attendance = "no_show"
)

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusScheduled, StatusConfirmed, StatusCanceled:
		return st, true
	}
	return "", false
}

func ParseAttendance(s string) (Attendance, bool) {
	switch a := Attendance(s); a {
	case AttendancePending, AttendanceAttended, AttendanceCanceled, AttendanceNoShow:
		return a, true
	}
	return "", false
}

// ===============================
// Services offered at the counter
// ===============================

const (
	ServiceHairCut       = "Hair Cut"
	ServiceBeardShaping  = "Beard Shaping"
	ServiceOtherServices = "Other Services"
)

// IsBookableService restricts staff bookings. Calendar sync accepts any
// non-empty service text.
func IsBookableService(s string) bool {
	switch s {
	case ServiceHairCut, ServiceBeardShaping, ServiceOtherServices:
		return true
	}
	return false
}

// ===============================
// Validations
// ===============================

func IsActive(current Status) bool {
	return current == StatusScheduled || current == StatusConfirmed
}

// CanCancel only allows active appointments to be canceled.
func CanCancel(current Status) error {
	if !IsActive(current) {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}

// SyncedStatus is the status given to appointments created from the calendar.
func SyncedStatus() Status {
	return StatusConfirmed
}
