package appointment

import (
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	canceled := string(AttendanceCanceled)
	ap.Status = string(StatusCanceled)
	ap.AttendanceStatus = &canceled
	ap.CancelledAt = &now
	return nil
}

func MarkAttendance(ap *models.Appointment, a Attendance) error {
	if Status(ap.Status) == StatusCanceled && a != AttendanceCanceled {
		return httperr.ErrBusiness("invalid_state")
	}

	v := string(a)
	ap.AttendanceStatus = &v
	return nil
}
