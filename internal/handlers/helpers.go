package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
)

var businessMessages = map[string]string{
	"appointment_not_found": "Appointment not found.",
	"invalid_state":         "Appointment cannot be changed in its current state.",
	"invalid_service":       "Service must be Hair Cut, Beard Shaping or Other Services.",
	"invalid_date_or_time":  "Invalid date or time.",
	"in_the_past":           "Appointment time is in the past.",
	"invalid_duration":      "Invalid duration.",
	"client_name_required":  "Client name is required.",
	"invalid_phone":         "Invalid phone number.",
	"invalid_attendance":    "Invalid attendance status.",
	"invalid_status":        "Status must be scheduled, confirmed or canceled.",
	"invalid_date":          "Dates must use YYYY-MM-DD.",
	"invalid_date_range":    "date_from must not be after date_to.",
	"invalid_message_body":  "Message body must be 1 to 4096 characters.",
	"invalid_client_status": "Client status must be Green, Yellow or Red.",
	"client_name_empty":     "Client name cannot be empty.",
}

// writeError answers with the business code when err carries one and a
// generic 500 otherwise.
func writeError(c *gin.Context, err error, fallback string) {
	be, ok := httperr.AsBusiness(err)
	if !ok {
		httperr.Internal(c, fallback, "Internal error.")
		return
	}

	msg := businessMessages[be.Code]
	if msg == "" {
		msg = be.Code
	}

	if be.Code == "appointment_not_found" {
		httperr.NotFound(c, be.Code, msg)
		return
	}
	httperr.BadRequest(c, be.Code, msg)
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(id), true
}

func currentUserID(c *gin.Context) uint {
	return c.MustGet(middleware.ContextUserID).(uint)
}

func pagination(c *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	return page, limit, (page - 1) * limit
}
