package repository

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// --------------------------------------------------
// Reminders
// --------------------------------------------------

func (r *GormRepository) ListDueAppointments(
	ctx context.Context,
	start time.Time,
	end time.Time,
	statuses []string,
	window string,
) ([]models.Appointment, error) {

	var list []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("start_time >= ? AND start_time < ?", start, end).
		Where("status IN ?", statuses).
		Where("NOT (? = ANY(COALESCE(reminders_sent, '{}')))", window).
		Order("start_time ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// MarkReminderSent appends window to reminders_sent in a single statement,
// so two concurrent runs cannot both mark the same window.
func (r *GormRepository) MarkReminderSent(
	ctx context.Context,
	appointmentID uint,
	window string,
	at time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).Exec(`
		UPDATE appointments
		SET reminders_sent = array_append(COALESCE(reminders_sent, '{}'), ?),
		    reminder_sent_at = ?,
		    updated_at = ?
		WHERE id = ?
		  AND NOT (? = ANY(COALESCE(reminders_sent, '{}')))
	`, window, at, time.Now(), appointmentID, window)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormRepository) CreateReminder(
	ctx context.Context,
	rem *models.Reminder,
) error {
	return r.db.WithContext(ctx).Create(rem).Error
}
