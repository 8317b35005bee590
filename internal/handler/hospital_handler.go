package handler

import (
	"net/http"
	"strconv"

	"hvac-pq-report/internal/middleware"
	"hvac-pq-report/internal/models"
	"hvac-pq-report/internal/service"
	"hvac-pq-report/pkg/utils"

	"github.com/gin-gonic/gin"
)

type HospitalHandler struct {
	hospitalService *service.HospitalService
}

func NewHospitalHandler(hospitalService *service.HospitalService) *HospitalHandler {
	return &HospitalHandler{
		hospitalService: hospitalService,
	}
}

// HospitalRequest is the writable part of a hospital
type HospitalRequest struct {
	Code    string `json:"code" binding:"required,max=50"`
	Name    string `json:"name" binding:"required,max=255"`
	Address string `json:"address"`
	City    string `json:"city" binding:"max=100"`
	Phone   string `json:"phone" binding:"max=50"`
	Email   string `json:"email" binding:"omitempty,email"`
}

func (r HospitalRequest) model() models.Hospital {
	return models.Hospital{
		Code:    r.Code,
		Name:    r.Name,
		Address: r.Address,
		City:    r.City,
		Phone:   r.Phone,
		Email:   r.Email,
	}
}

// GetAllHospitals lists active hospitals, optionally filtered by ?search=
func (h *HospitalHandler) GetAllHospitals(c *gin.Context) {
	hospitals, err := h.hospitalService.GetAllHospitals(c.Query("search"))
	if err != nil {
		respondError(c, err, "Failed to fetch hospitals")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"hospitals": hospitals,
		"count":     len(hospitals),
	})
}

// GetHospital retrieves a specific hospital by ID
func (h *HospitalHandler) GetHospital(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid hospital ID")
	if !ok {
		return
	}

	hospital, err := h.hospitalService.GetHospitalByID(id)
	if err != nil {
		respondError(c, err, "Failed to fetch hospital")
		return
	}

	utils.SuccessResponse(c, hospital)
}

// CreateHospital creates a new hospital (admin only)
func (h *HospitalHandler) CreateHospital(c *gin.Context) {
	var req HospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	hospital := req.model()
	if err := h.hospitalService.CreateHospital(&hospital, middleware.IdentityFrom(c).UserID); err != nil {
		respondError(c, err, "Failed to create hospital")
		return
	}

	utils.CreatedResponse(c, hospital)
}

// UpdateHospital updates an existing hospital (admin only)
func (h *HospitalHandler) UpdateHospital(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid hospital ID")
	if !ok {
		return
	}

	var req HospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	hospital := req.model()
	hospital.ID = id
	if err := h.hospitalService.UpdateHospital(&hospital, middleware.IdentityFrom(c).UserID); err != nil {
		respondError(c, err, "Failed to update hospital")
		return
	}

	utils.SuccessResponse(c, hospital)
}

// DeleteHospital soft deletes a hospital (admin only)
func (h *HospitalHandler) DeleteHospital(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid hospital ID")
	if !ok {
		return
	}

	if err := h.hospitalService.DeleteHospital(id, middleware.IdentityFrom(c).UserID); err != nil {
		respondError(c, err, "Failed to delete hospital")
		return
	}

	utils.MessageResponse(c, "Hospital deleted successfully")
}

func parseID(c *gin.Context, param, message string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, message)
		return 0, false
	}
	return uint(id), true
}
