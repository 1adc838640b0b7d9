package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"xmlprocessor/internal/models"
	"xmlprocessor/internal/store"
)

// ListProcessedFiles godoc
// @Summary Query the current client's processing ledger
// @Description Optional filters: interface_id, status (PROCESSING|SUCCESS|ERROR), file_name (substring), from/to (RFC3339).
// @Tags processed-files
// @Produce json
// @Success 200 {array} models.ProcessedFile
// @Failure 400 {object} models.APIError
// @Router /processed-files [get]
func (a *API) ListProcessedFiles(c *gin.Context) {
	client, ok := a.requireClient(c)
	if !ok {
		return
	}

	q := store.Query{
		ClientID: &client.ID,
		Status:   c.Query("status"),
		FileName: c.Query("file_name"),
	}

	if ifaceStr := c.Query("interface_id"); ifaceStr != "" {
		ifaceID, err := uuid.Parse(ifaceStr)
		if err != nil {
			RespondWithError(c, http.StatusBadRequest, models.ErrorCodeInvalidIDFormat, "Invalid interface_id format", gin.H{"interface_id": ifaceStr})
			return
		}
		q.InterfaceID = &ifaceID
	}
	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "Invalid from parameter: expected RFC3339 timestamp.", gin.H{"from": fromStr})
			return
		}
		q.From = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "Invalid to parameter: expected RFC3339 timestamp.", gin.H{"to": toStr})
			return
		}
		q.To = &to
	}

	files, err := a.Files.List(q)
	if err != nil {
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to query processed files.", nil)
		return
	}
	RespondWithSuccess(c, http.StatusOK, files)
}

// GetProcessedFile godoc
// @Summary Get one ledger row
// @Tags processed-files
// @Produce json
// @Param   id path string true "Processed file ID (UUID)"
// @Success 200 {object} models.ProcessedFile
// @Failure 404 {object} models.APIError
// @Router /processed-files/{id} [get]
func (a *API) GetProcessedFile(c *gin.Context) {
	client, ok := a.requireClient(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	file, err := a.Files.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondWithError(c, http.StatusNotFound, models.ErrorCodeFileNotFound, "Processed file not found.", gin.H{"id": id})
			return
		}
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to fetch processed file.", nil)
		return
	}
	// A row is only visible inside its own client's context.
	if file.ClientID == nil || *file.ClientID != client.ID {
		RespondWithError(c, http.StatusNotFound, models.ErrorCodeFileNotFound, "Processed file not found.", gin.H{"id": id})
		return
	}
	RespondWithSuccess(c, http.StatusOK, file)
}
