package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type ReminderHandler struct {
	db *gorm.DB
}

func NewReminderHandler(db *gorm.DB) *ReminderHandler {
	return &ReminderHandler{db: db}
}

// List returns the reminders that went out, newest first.
func (h *ReminderHandler) List(c *gin.Context) {
	page, limit, offset := pagination(c)

	q := h.db.WithContext(c.Request.Context()).Model(&models.Reminder{})

	if window := c.Query("window"); window != "" {
		q = q.Where("window_label = ?", window)
	}
	if appointmentID := c.Query("appointment_id"); appointmentID != "" {
		q = q.Where("appointment_id = ?", appointmentID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "reminder_count_failed", "Failed to count reminders.")
		return
	}

	var reminders []models.Reminder
	if err := q.
		Order("message_sent_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reminders).Error; err != nil {

		httperr.Internal(c, "reminder_list_failed", "Failed to list reminders.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":      page,
		"limit":     limit,
		"total":     total,
		"reminders": reminders,
	})
}
