package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

type ClientHandler struct {
	db    *gorm.DB
	audit audit.Recorder
}

func NewClientHandler(db *gorm.DB, recorder audit.Recorder) *ClientHandler {
	return &ClientHandler{db: db, audit: recorder}
}

// ======================================================
// LIST CLIENTS
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	_, limit, offset := pagination(c)

	q := h.db.WithContext(c.Request.Context()).Model(&models.Client{})

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var clients []models.Client
	if err := q.
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&clients).Error; err != nil {

		httperr.Internal(c, "failed_to_list_clients", "Failed to list clients.")
		return
	}

	httpresp.List(c, clients)
}

// ======================================================
// UPDATE CLIENT
// ======================================================

// UpdateClientRequest only touches the fields present. An empty phone or
// email clears it.
type UpdateClientRequest struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Email  *string `json:"email"`
	Notes  *string `json:"notes"`
	Status *string `json:"status"`
}

func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var client models.Client
	if err := db.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "client_not_found", "Client not found.")
			return
		}
		httperr.Internal(c, "failed_to_load_client", "Failed to load client.")
		return
	}

	fields, err := applyClientUpdate(&client, req)
	if err != nil {
		writeError(c, err, "failed_to_update_client")
		return
	}
	if len(fields) == 0 {
		c.JSON(http.StatusOK, client)
		return
	}

	if err := db.Model(&client).Select(fields).Updates(&client).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "phone_already_used", "Another client already has this phone.")
			return
		}
		httperr.Internal(c, "failed_to_update_client", "Failed to update client.")
		return
	}

	userID := currentUserID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   audit.ActionClientUpdated,
		Entity:   "client",
		EntityID: &client.ID,
		Metadata: map[string]any{"fields": fields},
	})

	c.JSON(http.StatusOK, client)
}

func applyClientUpdate(client *models.Client, req UpdateClientRequest) ([]string, error) {
	var fields []string

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, httperr.ErrBusiness("client_name_empty")
		}
		client.Name = name
		fields = append(fields, "name")
	}

	if req.Phone != nil {
		client.Phone = nil
		if raw := strings.TrimSpace(*req.Phone); raw != "" {
			if !validators.IsPhoneNumber(raw) {
				return nil, httperr.ErrBusiness("invalid_phone")
			}
			phone := validators.NormalizePhone(raw)
			client.Phone = &phone
		}
		fields = append(fields, "phone")
	}

	if req.Email != nil {
		client.Email = nil
		if email := strings.ToLower(strings.TrimSpace(*req.Email)); email != "" {
			client.Email = &email
		}
		fields = append(fields, "email")
	}

	if req.Notes != nil {
		client.Notes = *req.Notes
		fields = append(fields, "notes")
	}

	if req.Status != nil {
		switch *req.Status {
		case models.ClientStatusGreen, models.ClientStatusYellow, models.ClientStatusRed:
			client.Status = *req.Status
			fields = append(fields, "status")
		default:
			return nil, httperr.ErrBusiness("invalid_client_status")
		}
	}

	return fields, nil
}
