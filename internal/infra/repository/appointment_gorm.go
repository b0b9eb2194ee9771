package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/eventname"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *GormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		First(&ap, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

func (r *GormRepository) FindAppointmentByEventID(
	ctx context.Context,
	eventID string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		First(&ap).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

func (r *GormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *GormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	fields ...string,
) error {
	if len(fields) == 0 {
		return r.db.WithContext(ctx).Omit("Client").Save(ap).Error
	}

	return r.db.WithContext(ctx).
		Model(ap).
		Select(fields).
		Updates(ap).Error
}

func (r *GormRepository) DeleteAppointment(
	ctx context.Context,
	id uint,
) error {
	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var list []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("start_time >= ? AND start_time < ?", start, end).
		Order("start_time ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormRepository) ListUnlinkedAppointments(
	ctx context.Context,
) ([]models.Appointment, error) {

	var list []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("client_id IS NULL AND service LIKE ?", "%"+eventname.Separator+"%").
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormRepository) SearchAppointments(
	ctx context.Context,
	f domain.AppointmentFilter,
) ([]models.Appointment, int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Joins("LEFT JOIN clients ON clients.id = appointments.client_id")

	if query := strings.ToLower(strings.TrimSpace(f.Query)); query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(clients.name) LIKE ? OR clients.phone LIKE ? OR LOWER(appointments.service) LIKE ? OR LOWER(appointments.notes) LIKE ? OR appointments.status LIKE ?",
			like, like, like, like, like,
		)
	}
	if !f.From.IsZero() {
		q = q.Where("appointments.start_time >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("appointments.start_time < ?", f.To)
	}
	if f.Status != "" {
		q = q.Where("appointments.status = ?", f.Status)
	}
	if f.Service != "" {
		q = q.Where("appointments.service = ?", f.Service)
	}
	if f.Attendance != "" {
		q = q.Where("appointments.attendance_status = ?", f.Attendance)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := q.
		Select("appointments.*").
		Preload("Client").
		Order("appointments.start_time ASC, appointments.id ASC").
		Offset(f.Offset)
	if f.Limit > 0 {
		page = page.Limit(f.Limit)
	}

	var list []models.Appointment
	if err := page.Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
