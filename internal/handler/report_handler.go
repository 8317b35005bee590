package handler

import (
	"hvac-pq-report/internal/middleware"
	"hvac-pq-report/internal/service"
	"hvac-pq-report/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves saved reports
type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) List(c *gin.Context) {
	list, err := h.reports.List(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		respondError(c, err, "Failed to fetch reports")
		return
	}
	utils.SuccessResponse(c, gin.H{
		"reports": list,
		"count":   len(list),
	})
}

func (h *ReportHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid report ID")
	if !ok {
		return
	}
	saved, err := h.reports.Get(c.Request.Context(), middleware.IdentityFrom(c), id)
	if err != nil {
		respondError(c, err, "Failed to fetch report")
		return
	}
	utils.SuccessResponse(c, saved)
}

func (h *ReportHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid report ID")
	if !ok {
		return
	}
	if err := h.reports.Delete(c.Request.Context(), middleware.IdentityFrom(c), id); err != nil {
		respondError(c, err, "Failed to delete report")
		return
	}
	utils.MessageResponse(c, "Report deleted successfully")
}

// Export renders a saved report as ?format=xlsx|pdf|docx
func (h *ReportHandler) Export(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid report ID")
	if !ok {
		return
	}
	f, ok := parseFormat(c)
	if !ok {
		return
	}
	art, err := h.reports.Export(c.Request.Context(), middleware.IdentityFrom(c), id, f)
	if err != nil {
		respondError(c, err, "Failed to export report")
		return
	}
	sendArtifact(c, art)
}
