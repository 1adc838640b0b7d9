package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"xmlprocessor/internal/models"
)

// CreateMappingRule godoc
// @Summary Add a mapping rule to an interface
// @Tags mapping-rules
// @Accept  json
// @Produce json
// @Param   id path string true "Interface ID (UUID)"
// @Param   rule body models.CreateMappingRuleRequest true "Mapping rule to create"
// @Success 201 {object} models.MappingRule
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Router /interfaces/{id}/mapping-rules [post]
func (a *API) CreateMappingRule(c *gin.Context) {
	client, ok := a.requireClient(c)
	if !ok {
		return
	}
	interfaceID, ok := parseIDParam(c)
	if !ok {
		return
	}
	if _, err := a.Interfaces.GetByID(client.ID, interfaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondWithError(c, http.StatusNotFound, models.ErrorCodeInterfaceNotFound, "Interface not found.", gin.H{"id": interfaceID})
			return
		}
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to fetch interface.", nil)
		return
	}

	var req models.CreateMappingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "Invalid request payload", gin.H{"reason": err.Error()})
		return
	}

	rule := &models.MappingRule{
		ID:             uuid.New(),
		ClientID:       client.ID,
		InterfaceID:    interfaceID,
		Name:           req.Name,
		XMLPath:        req.XMLPath,
		TargetField:    req.TargetField,
		TableName:      req.TableName,
		DataType:       req.DataType,
		Transformation: req.Transformation,
		ValidationRule: req.ValidationRule,
		DefaultValue:   req.DefaultValue,
		Priority:       req.Priority,
		IsActive:       true,
		Description:    req.Description,
	}
	if req.IsAttribute != nil {
		rule.IsAttribute = *req.IsAttribute
	}
	if req.Required != nil {
		rule.Required = *req.Required
	}

	if err := a.Rules.Create(rule); err != nil {
		if isUniqueViolation(err) {
			RespondWithError(c, http.StatusConflict, models.ErrorCodeDuplicateName, "Mapping rule with this name already exists for the interface.", gin.H{"name": rule.Name})
			return
		}
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to create mapping rule.", nil)
		return
	}
	RespondWithSuccess(c, http.StatusCreated, rule)
}

// ListMappingRules godoc
// @Summary List an interface's mapping rules in evaluation order
// @Description Returns active rules ordered by priority ascending. Pass include_inactive=true for the full set.
// @Tags mapping-rules
// @Produce json
// @Param   id path string true "Interface ID (UUID)"
// @Success 200 {array} models.MappingRule
// @Failure 404 {object} models.APIError
// @Router /interfaces/{id}/mapping-rules [get]
func (a *API) ListMappingRules(c *gin.Context) {
	client, ok := a.requireClient(c)
	if !ok {
		return
	}
	interfaceID, ok := parseIDParam(c)
	if !ok {
		return
	}
	if _, err := a.Interfaces.GetByID(client.ID, interfaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondWithError(c, http.StatusNotFound, models.ErrorCodeInterfaceNotFound, "Interface not found.", gin.H{"id": interfaceID})
			return
		}
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to fetch interface.", nil)
		return
	}

	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("include_inactive", "false"))
	var (
		rules []models.MappingRule
		err   error
	)
	if includeInactive {
		rules, err = a.Rules.ListByInterface(interfaceID)
	} else {
		rules, err = a.Rules.ListActiveByInterface(interfaceID)
	}
	if err != nil {
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to list mapping rules.", nil)
		return
	}
	RespondWithSuccess(c, http.StatusOK, rules)
}

// GetMappingRule godoc
// @Summary Get one mapping rule
// @Tags mapping-rules
// @Produce json
// @Param   id path string true "Mapping rule ID (UUID)"
// @Success 200 {object} models.MappingRule
// @Failure 404 {object} models.APIError
// @Router /mapping-rules/{id} [get]
func (a *API) GetMappingRule(c *gin.Context) {
	client, ok := a.requireClient(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	rule, err := a.Rules.GetByID(client.ID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondWithError(c, http.StatusNotFound, models.ErrorCodeRuleNotFound, "Mapping rule not found.", gin.H{"id": id})
			return
		}
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to fetch mapping rule.", nil)
		return
	}
	RespondWithSuccess(c, http.StatusOK, rule)
}

// UpdateMappingRule godoc
// @Summary Update a mapping rule
// @Tags mapping-rules
// @Accept  json
// @Produce json
// @Param   id path string true "Mapping rule ID (UUID)"
// @Param   rule body models.UpdateMappingRuleRequest true "Fields to update"
// @Success 200 {object} models.MappingRule
// @Failure 404 {object} models.APIError
// @Router /mapping-rules/{id} [put]
func (a *API) UpdateMappingRule(c *gin.Context) {
	client, ok := a.requireClient(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req models.UpdateMappingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "Invalid request payload", gin.H{"reason": err.Error()})
		return
	}

	rule, err := a.Rules.GetByID(client.ID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondWithError(c, http.StatusNotFound, models.ErrorCodeRuleNotFound, "Mapping rule not found.", gin.H{"id": id})
			return
		}
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to fetch mapping rule.", nil)
		return
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.XMLPath != nil {
		rule.XMLPath = *req.XMLPath
	}
	if req.TargetField != nil {
		rule.TargetField = *req.TargetField
	}
	if req.TableName != nil {
		rule.TableName = *req.TableName
	}
	if req.DataType != nil {
		rule.DataType = *req.DataType
	}
	if req.IsAttribute != nil {
		rule.IsAttribute = *req.IsAttribute
	}
	if req.Transformation != nil {
		rule.Transformation = *req.Transformation
	}
	if req.ValidationRule != nil {
		rule.ValidationRule = *req.ValidationRule
	}
	if req.Required != nil {
		rule.Required = *req.Required
	}
	if req.DefaultValue != nil {
		rule.DefaultValue = req.DefaultValue
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if req.Description != nil {
		rule.Description = *req.Description
	}

	if err := a.Rules.Update(rule); err != nil {
		if isUniqueViolation(err) {
			RespondWithError(c, http.StatusConflict, models.ErrorCodeDuplicateName, "Mapping rule with this name already exists for the interface.", gin.H{"name": rule.Name})
			return
		}
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to update mapping rule.", nil)
		return
	}
	RespondWithSuccess(c, http.StatusOK, rule)
}

// DeleteMappingRule godoc
// @Summary Delete a mapping rule
// @Tags mapping-rules
// @Param   id path string true "Mapping rule ID (UUID)"
// @Success 204
// @Failure 404 {object} models.APIError
// @Router /mapping-rules/{id} [delete]
func (a *API) DeleteMappingRule(c *gin.Context) {
	client, ok := a.requireClient(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := a.Rules.Delete(client.ID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondWithError(c, http.StatusNotFound, models.ErrorCodeRuleNotFound, "Mapping rule not found.", gin.H{"id": id})
			return
		}
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to delete mapping rule.", nil)
		return
	}
	RespondWithSuccess(c, http.StatusNoContent, nil)
}
