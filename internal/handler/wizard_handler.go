package handler

import (
	"net/http"

	"hvac-pq-report/internal/hvac"
	"hvac-pq-report/internal/middleware"
	"hvac-pq-report/internal/service"
	"hvac-pq-report/pkg/utils"

	"github.com/gin-gonic/gin"
)

// WizardHandler exposes the report wizard sessions
type WizardHandler struct {
	wizard  *service.WizardService
	reports *service.ReportService
}

func NewWizardHandler(wizard *service.WizardService, reports *service.ReportService) *WizardHandler {
	return &WizardHandler{wizard: wizard, reports: reports}
}

type SelectHospitalRequest struct {
	HospitalID uint `json:"hospitalId" binding:"required"`
}

type EditRequest struct {
	Path  string `json:"path" binding:"required"`
	Value any    `json:"value"`
}

func (h *WizardHandler) Create(c *gin.Context) {
	sess := h.wizard.Create(middleware.IdentityFrom(c))
	utils.CreatedResponse(c, sess)
}

func (h *WizardHandler) Get(c *gin.Context) {
	sess, err := h.wizard.Get(middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch session")
		return
	}
	utils.SuccessResponse(c, sess)
}

func (h *WizardHandler) Discard(c *gin.Context) {
	if err := h.wizard.Discard(middleware.IdentityFrom(c), c.Param("id")); err != nil {
		respondError(c, err, "Failed to discard session")
		return
	}
	utils.MessageResponse(c, "Session discarded")
}

// SetGeneralInfo replaces the report header
func (h *WizardHandler) SetGeneralInfo(c *gin.Context) {
	var info hvac.GeneralInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	sess, err := h.wizard.SetGeneralInfo(middleware.IdentityFrom(c), c.Param("id"), info)
	if err != nil {
		respondError(c, err, "Failed to update general info")
		return
	}
	utils.SuccessResponse(c, sess)
}

func (h *WizardHandler) SelectHospital(c *gin.Context) {
	var req SelectHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	sess, err := h.wizard.SelectHospital(middleware.IdentityFrom(c), c.Param("id"), req.HospitalID)
	if err != nil {
		respondError(c, err, "Failed to select hospital")
		return
	}
	utils.SuccessResponse(c, sess)
}

func (h *WizardHandler) AddRoom(c *gin.Context) {
	room, err := h.wizard.AddRoom(middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to add room")
		return
	}
	utils.CreatedResponse(c, room)
}

func (h *WizardHandler) UpdateRoom(c *gin.Context) {
	var u hvac.RoomUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	room, err := h.wizard.UpdateRoom(middleware.IdentityFrom(c), c.Param("id"), c.Param("roomId"), u)
	if err != nil {
		respondError(c, err, "Failed to update room")
		return
	}
	utils.SuccessResponse(c, room)
}

func (h *WizardHandler) RemoveRoom(c *gin.Context) {
	sess, err := h.wizard.RemoveRoom(middleware.IdentityFrom(c), c.Param("id"), c.Param("roomId"))
	if err != nil {
		respondError(c, err, "Failed to remove room")
		return
	}
	utils.SuccessResponse(c, sess)
}

// ApplyEdit writes one measured value, e.g. {"path": "particle.particle05.2", "value": 1200}
func (h *WizardHandler) ApplyEdit(c *gin.Context) {
	var req EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	td, err := h.wizard.ApplyEdit(middleware.IdentityFrom(c), c.Param("id"), c.Param("roomId"), req.Path, req.Value)
	if err != nil {
		respondError(c, err, "Failed to apply edit")
		return
	}
	utils.SuccessResponse(c, td)
}

func (h *WizardHandler) Next(c *gin.Context) {
	sess, err := h.wizard.Next(middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to advance")
		return
	}
	utils.SuccessResponse(c, sess)
}

func (h *WizardHandler) Back(c *gin.Context) {
	sess, err := h.wizard.Back(middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to go back")
		return
	}
	utils.SuccessResponse(c, sess)
}

func (h *WizardHandler) Preview(c *gin.Context) {
	p, err := h.wizard.Preview(middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to build preview")
		return
	}
	utils.SuccessResponse(c, p)
}

// Export downloads the report as ?format=xlsx|pdf|docx
func (h *WizardHandler) Export(c *gin.Context) {
	f, ok := parseFormat(c)
	if !ok {
		return
	}
	art, err := h.wizard.Export(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"), f)
	if err != nil {
		respondError(c, err, "Failed to export report")
		return
	}
	sendArtifact(c, art)
}

// Save stores the session as a report
func (h *WizardHandler) Save(c *gin.Context) {
	id, err := h.reports.SaveSession(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to save report")
		return
	}
	utils.CreatedResponse(c, gin.H{"id": id})
}
