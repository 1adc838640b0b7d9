package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"xmlprocessor/internal/models"
)

// maxUploadBytes caps a single document upload.
const maxUploadBytes = 32 << 20

// UploadFile godoc
// @Summary Process an uploaded XML document for the current client
// @Description Parses the document, detects the matching interface, applies its mapping rules and records the outcome. Soft failures (malformed document, no match, failed extraction) still return the persisted ProcessedFile with status ERROR.
// @Tags upload
// @Accept  multipart/form-data
// @Produce json
// @Param   file formData file true "XML document"
// @Success 200 {object} models.ProcessedFile
// @Failure 400 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /upload [post]
func (a *API) UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "Missing file in request.", gin.H{"reason": err.Error()})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "File too large.", gin.H{"max_bytes": maxUploadBytes})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to read uploaded file.", nil)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to read uploaded file.", nil)
		return
	}

	processed, err := a.Processor.Process(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeServiceUnavailable, "Processing failed.", gin.H{"reason": err.Error()})
		return
	}
	RespondWithSuccess(c, http.StatusOK, processed)
}
