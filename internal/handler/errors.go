package handler

import (
	"errors"
	"net/http"

	"hvac-pq-report/internal/hvac"
	"hvac-pq-report/internal/report"
	"hvac-pq-report/internal/service"
	"hvac-pq-report/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps domain errors onto HTTP statuses. Anything unknown is
// logged through the gin context and reported as fallback.
func respondError(c *gin.Context, err error, fallback string) {
	var ve *hvac.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.ValidationErrorResponse(c, http.StatusUnprocessableEntity, ve.Error(), ve.Fields)
	case errors.Is(err, hvac.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		utils.ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotAtDownload), errors.Is(err, hvac.ErrFinalStep):
		utils.ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, hvac.ErrValidation), errors.Is(err, hvac.ErrArithmetic),
		errors.Is(err, report.ErrNoRooms), errors.Is(err, report.ErrExport):
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, err.Error())
	default:
		_ = c.Error(err)
		utils.ErrorResponse(c, http.StatusInternalServerError, fallback)
	}
}

// sendArtifact writes an export as a file download
func sendArtifact(c *gin.Context, art report.Artifact) {
	c.Header("Content-Disposition", `attachment; filename="`+art.FileName+`"`)
	c.Data(http.StatusOK, art.Format.ContentType(), art.Data)
}

func parseFormat(c *gin.Context) (report.Format, bool) {
	f, err := report.ParseFormat(c.DefaultQuery("format", string(report.FormatXLSX)))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return "", false
	}
	return f, true
}
