package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"xmlprocessor/internal/models"
)

// CreateClient godoc
// @Summary Register a new client
// @Tags clients
// @Accept  json
// @Produce json
// @Param   client body models.CreateClientRequest true "Client to create"
// @Success 201 {object} models.Client
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Router /clients [post]
func (a *API) CreateClient(c *gin.Context) {
	var req models.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "Invalid request payload", gin.H{"reason": err.Error()})
		return
	}

	client := &models.Client{
		ID:     uuid.New(),
		Name:   req.Name,
		Code:   req.Code,
		Status: req.Status,
	}
	if err := a.Clients.Create(client); err != nil {
		if isUniqueViolation(err) {
			RespondWithError(c, http.StatusConflict, models.ErrorCodeDuplicateName, "Client with this name or code already exists.", gin.H{"name": client.Name})
			return
		}
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to create client.", nil)
		return
	}
	RespondWithSuccess(c, http.StatusCreated, client)
}

// ListClients godoc
// @Summary List all clients
// @Tags clients
// @Produce json
// @Success 200 {array} models.Client
// @Router /clients [get]
func (a *API) ListClients(c *gin.Context) {
	clients, err := a.Clients.List()
	if err != nil {
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to list clients.", nil)
		return
	}
	RespondWithSuccess(c, http.StatusOK, clients)
}

// GetClient godoc
// @Summary Get a client by ID
// @Tags clients
// @Produce json
// @Param   id path string true "Client ID (UUID)"
// @Success 200 {object} models.Client
// @Failure 404 {object} models.APIError
// @Router /clients/{id} [get]
func (a *API) GetClient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	client, err := a.Clients.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondWithError(c, http.StatusNotFound, models.ErrorCodeClientNotFound, "Client not found.", gin.H{"id": id})
			return
		}
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to fetch client.", nil)
		return
	}
	RespondWithSuccess(c, http.StatusOK, client)
}

// UpdateClient godoc
// @Summary Update a client
// @Tags clients
// @Accept  json
// @Produce json
// @Param   id path string true "Client ID (UUID)"
// @Param   client body models.CreateClientRequest true "Updated client"
// @Success 200 {object} models.Client
// @Failure 404 {object} models.APIError
// @Router /clients/{id} [put]
func (a *API) UpdateClient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req models.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "Invalid request payload", gin.H{"reason": err.Error()})
		return
	}

	client, err := a.Clients.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondWithError(c, http.StatusNotFound, models.ErrorCodeClientNotFound, "Client not found.", gin.H{"id": id})
			return
		}
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to fetch client.", nil)
		return
	}

	client.Name = req.Name
	client.Code = req.Code
	if req.Status != "" {
		client.Status = req.Status
	}
	if err := a.Clients.Update(client); err != nil {
		if isUniqueViolation(err) {
			RespondWithError(c, http.StatusConflict, models.ErrorCodeDuplicateName, "Client with this name or code already exists.", gin.H{"name": client.Name})
			return
		}
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to update client.", nil)
		return
	}
	RespondWithSuccess(c, http.StatusOK, client)
}

// DeleteClient godoc
// @Summary Delete a client and its configuration
// @Tags clients
// @Param   id path string true "Client ID (UUID)"
// @Success 204
// @Failure 404 {object} models.APIError
// @Router /clients/{id} [delete]
func (a *API) DeleteClient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if _, err := a.Clients.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondWithError(c, http.StatusNotFound, models.ErrorCodeClientNotFound, "Client not found.", gin.H{"id": id})
			return
		}
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to fetch client.", nil)
		return
	}
	if err := a.Clients.Delete(id); err != nil {
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to delete client.", nil)
		return
	}
	RespondWithSuccess(c, http.StatusNoContent, nil)
}

// OnboardClient godoc
// @Summary Onboard a new client with default configuration
// @Tags clients
// @Accept  json
// @Produce json
// @Param   onboarding body models.OnboardClientRequest true "Client with optional interface and default rules"
// @Success 201 {object} models.Client
// @Failure 400 {object} models.APIError
// @Router /clients/onboard [post]
func (a *API) OnboardClient(c *gin.Context) {
	var req models.OnboardClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "Invalid request payload", gin.H{"reason": err.Error()})
		return
	}
	client, err := a.Onboarding.OnboardClient(req)
	if err != nil {
		if isUniqueViolation(err) {
			RespondWithError(c, http.StatusConflict, models.ErrorCodeDuplicateName, "Client with this name or code already exists.", gin.H{"name": req.Client.Name})
			return
		}
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "Failed to onboard client.", gin.H{"reason": err.Error()})
		return
	}
	RespondWithSuccess(c, http.StatusCreated, client)
}

// CloneClient godoc
// @Summary Clone an existing client's interfaces and mapping rules
// @Tags clients
// @Accept  json
// @Produce json
// @Param   clone body models.CloneClientRequest true "Source client and new client details"
// @Success 201 {object} models.Client
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /clients/clone [post]
func (a *API) CloneClient(c *gin.Context) {
	var req models.CloneClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "Invalid request payload", gin.H{"reason": err.Error()})
		return
	}
	client, err := a.Onboarding.CloneClientConfiguration(req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondWithError(c, http.StatusNotFound, models.ErrorCodeClientNotFound, "Source client not found.", gin.H{"id": req.SourceClientID})
			return
		}
		if isUniqueViolation(err) {
			RespondWithError(c, http.StatusConflict, models.ErrorCodeDuplicateName, "Client with this name or code already exists.", gin.H{"name": req.Client.Name})
			return
		}
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to clone client configuration.", nil)
		return
	}
	RespondWithSuccess(c, http.StatusCreated, client)
}

// parseIDParam parses the :id path parameter as a UUID, responding with a 400
// on failure.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeInvalidIDFormat, "Invalid ID format", gin.H{"id": idStr, "error": err.Error()})
		return uuid.Nil, false
	}
	return id, true
}
