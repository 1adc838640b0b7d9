package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"xmlprocessor/internal/models"
	"xmlprocessor/internal/tenant"
)

// requireClient pulls the client resolved by the middleware off the request
// context, responding with a 400 when none is present. Every configuration
// endpoint is tenant-scoped.
func (a *API) requireClient(c *gin.Context) (*models.Client, bool) {
	client, ok := tenant.FromContext(c.Request.Context())
	if !ok {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeMissingTenant,
			"Client context is required. Set the "+tenant.ClientIDHeader+" or "+tenant.ClientNameHeader+" header.", nil)
		return nil, false
	}
	return client, true
}

// CreateInterface godoc
// @Summary Register a document-type definition for the current client
// @Tags interfaces
// @Accept  json
// @Produce json
// @Param   interface body models.CreateInterfaceRequest true "Interface to create"
// @Success 201 {object} models.Interface
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Router /interfaces [post]
func (a *API) CreateInterface(c *gin.Context) {
	client, ok := a.requireClient(c)
	if !ok {
		return
	}
	var req models.CreateInterfaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "Invalid request payload", gin.H{"reason": err.Error()})
		return
	}

	iface := &models.Interface{
		ID:          uuid.New(),
		ClientID:    client.ID,
		Name:        req.Name,
		Type:        req.Type,
		RootElement: req.RootElement,
		Namespace:   req.Namespace,
		SchemaPath:  req.SchemaPath,
		IsActive:    true,
		Priority:    req.Priority,
		Description: req.Description,
	}
	if req.IsActive != nil {
		iface.IsActive = *req.IsActive
	}

	if err := a.Interfaces.Create(iface); err != nil {
		if isUniqueViolation(err) {
			RespondWithError(c, http.StatusConflict, models.ErrorCodeDuplicateName, "Interface with this name already exists for the client.", gin.H{"name": iface.Name})
			return
		}
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to create interface.", nil)
		return
	}
	RespondWithSuccess(c, http.StatusCreated, iface)
}

// ListInterfaces godoc
// @Summary List the current client's interfaces
// @Description Optional filters: name (substring), type, is_active.
// @Tags interfaces
// @Produce json
// @Success 200 {array} models.Interface
// @Router /interfaces [get]
func (a *API) ListInterfaces(c *gin.Context) {
	client, ok := a.requireClient(c)
	if !ok {
		return
	}

	name := c.Query("name")
	ifaceType := c.Query("type")
	var isActive *bool
	if activeStr := c.Query("is_active"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "Invalid is_active parameter: not a boolean.", gin.H{"is_active": activeStr})
			return
		}
		isActive = &active
	}

	ifaces, err := a.Interfaces.Search(client.ID, name, ifaceType, isActive)
	if err != nil {
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to list interfaces.", nil)
		return
	}
	RespondWithSuccess(c, http.StatusOK, ifaces)
}

// GetInterface godoc
// @Summary Get one of the current client's interfaces
// @Tags interfaces
// @Produce json
// @Param   id path string true "Interface ID (UUID)"
// @Success 200 {object} models.Interface
// @Failure 404 {object} models.APIError
// @Router /interfaces/{id} [get]
func (a *API) GetInterface(c *gin.Context) {
	client, ok := a.requireClient(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	iface, err := a.Interfaces.GetByID(client.ID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondWithError(c, http.StatusNotFound, models.ErrorCodeInterfaceNotFound, "Interface not found.", gin.H{"id": id})
			return
		}
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to fetch interface.", nil)
		return
	}
	RespondWithSuccess(c, http.StatusOK, iface)
}

// UpdateInterface godoc
// @Summary Update one of the current client's interfaces
// @Tags interfaces
// @Accept  json
// @Produce json
// @Param   id path string true "Interface ID (UUID)"
// @Param   interface body models.UpdateInterfaceRequest true "Fields to update"
// @Success 200 {object} models.Interface
// @Failure 404 {object} models.APIError
// @Router /interfaces/{id} [put]
func (a *API) UpdateInterface(c *gin.Context) {
	client, ok := a.requireClient(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req models.UpdateInterfaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "Invalid request payload", gin.H{"reason": err.Error()})
		return
	}

	iface, err := a.Interfaces.GetByID(client.ID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondWithError(c, http.StatusNotFound, models.ErrorCodeInterfaceNotFound, "Interface not found.", gin.H{"id": id})
			return
		}
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to fetch interface.", nil)
		return
	}

	if req.Name != nil {
		iface.Name = *req.Name
	}
	if req.Type != nil {
		iface.Type = *req.Type
	}
	if req.RootElement != nil {
		iface.RootElement = *req.RootElement
	}
	if req.Namespace != nil {
		iface.Namespace = req.Namespace
	}
	if req.SchemaPath != nil {
		iface.SchemaPath = req.SchemaPath
	}
	if req.IsActive != nil {
		iface.IsActive = *req.IsActive
	}
	if req.Priority != nil {
		iface.Priority = *req.Priority
	}
	if req.Description != nil {
		iface.Description = *req.Description
	}

	if err := a.Interfaces.Update(iface); err != nil {
		if isUniqueViolation(err) {
			RespondWithError(c, http.StatusConflict, models.ErrorCodeDuplicateName, "Interface with this name already exists for the client.", gin.H{"name": iface.Name})
			return
		}
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to update interface.", nil)
		return
	}
	RespondWithSuccess(c, http.StatusOK, iface)
}

// DeleteInterface godoc
// @Summary Delete an interface and its mapping rules
// @Description Processed files that referenced the interface keep their rows with the reference cleared.
// @Tags interfaces
// @Param   id path string true "Interface ID (UUID)"
// @Success 204
// @Failure 404 {object} models.APIError
// @Router /interfaces/{id} [delete]
func (a *API) DeleteInterface(c *gin.Context) {
	client, ok := a.requireClient(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := a.Interfaces.Delete(client.ID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondWithError(c, http.StatusNotFound, models.ErrorCodeInterfaceNotFound, "Interface not found.", gin.H{"id": id})
			return
		}
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to delete interface.", nil)
		return
	}
	RespondWithSuccess(c, http.StatusNoContent, nil)
}
