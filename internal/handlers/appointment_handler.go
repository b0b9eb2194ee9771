package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	ucappointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create     *ucappointment.CreateAppointment
	update     *ucappointment.UpdateAppointment
	cancel     *ucappointment.CancelAppointment
	attendance *ucappointment.MarkAttendance
	remove     *ucappointment.DeleteAppointment
	listByDate *ucappointment.ListAppointmentsByDate
	search     *ucappointment.SearchAppointments
	loc        *time.Location
}

func NewAppointmentHandler(
	create *ucappointment.CreateAppointment,
	update *ucappointment.UpdateAppointment,
	cancel *ucappointment.CancelAppointment,
	attendance *ucappointment.MarkAttendance,
	remove *ucappointment.DeleteAppointment,
	listByDate *ucappointment.ListAppointmentsByDate,
	search *ucappointment.SearchAppointments,
	loc *time.Location,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:     create,
		update:     update,
		cancel:     cancel,
		attendance: attendance,
		remove:     remove,
		listByDate: listByDate,
		search:     search,
		loc:        loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone"`
	Service     string `json:"service" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Duration    int    `json:"duration"`
	Notes       string `json:"notes"`
}

// UpdateAppointmentRequest only touches the fields present.
type UpdateAppointmentRequest struct {
	Service  *string `json:"service"`
	Date     *string `json:"date"`
	Time     *string `json:"time"`
	Duration *int    `json:"duration"`
	Notes    *string `json:"notes"`
	Status   *string `json:"status"`
}

type AttendanceRequest struct {
	Attendance string `json:"attendance" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucappointment.CreateAppointmentInput{
		UserID:      currentUserID(c),
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		Service:     req.Service,
		Date:        req.Date,
		Time:        req.Time,
		Duration:    req.Duration,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(c, err, "failed_to_create_appointment")
		return
	}

	httpresp.Created(c, dto.NewAppointmentListDTO(ap, h.loc))
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", dateStr, h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	list, err := h.listByDate.Execute(c.Request.Context(), date)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Failed to list appointments.")
		return
	}

	httpresp.List(c, list)
}

// Search pages through appointments matching the query string filters.
// date_from and date_to are inclusive local days.
func (h *AppointmentHandler) Search(c *gin.Context) {
	page, limit, offset := pagination(c)

	list, total, err := h.search.Execute(c.Request.Context(), ucappointment.SearchAppointmentsInput{
		Query:      c.Query("q"),
		DateFrom:   c.Query("date_from"),
		DateTo:     c.Query("date_to"),
		Status:     c.Query("status"),
		Service:    c.Query("service"),
		Attendance: c.Query("attendance_status"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		writeError(c, err, "failed_to_search_appointments")
		return
	}

	httpresp.Page(c, list, total, page, limit)
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), ucappointment.UpdateAppointmentInput{
		UserID:        currentUserID(c),
		AppointmentID: id,
		Service:       req.Service,
		Date:          req.Date,
		Time:          req.Time,
		Duration:      req.Duration,
		Notes:         req.Notes,
		Status:        req.Status,
	})
	if err != nil {
		writeError(c, err, "failed_to_update_appointment")
		return
	}

	httpresp.OK(c, dto.NewAppointmentListDTO(ap, h.loc))
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		writeError(c, err, "failed_to_cancel_appointment")
		return
	}

	c.JSON(http.StatusOK, dto.NewAppointmentListDTO(ap, h.loc))
}

// ======================================================
// ATTENDANCE
// ======================================================

func (h *AppointmentHandler) MarkAttendance(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.attendance.Execute(c.Request.Context(), currentUserID(c), id, req.Attendance)
	if err != nil {
		writeError(c, err, "failed_to_mark_attendance")
		return
	}

	c.JSON(http.StatusOK, dto.NewAppointmentListDTO(ap, h.loc))
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	calendarDeleted, err := h.remove.Execute(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		writeError(c, err, "failed_to_delete_appointment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted":          true,
		"calendar_deleted": calendarDeleted,
	})
}
