package handler

import (
	"errors"
	"net/http"

	"hvac-pq-report/internal/middleware"
	"hvac-pq-report/internal/service"
	"hvac-pq-report/pkg/utils"

	"github.com/gin-gonic/gin"
)

const refreshCookie = "refresh_token"

type AuthHandler struct {
	authService  *service.AuthService
	cookieMaxAge int
}

func NewAuthHandler(authService *service.AuthService, cookieMaxAge int) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieMaxAge: cookieMaxAge,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username       string `json:"username" binding:"required,min=3,max=50"`
	Email          string `json:"email" binding:"omitempty,email"`
	Password       string `json:"password" binding:"required,min=6"`
	Role           string `json:"role" binding:"omitempty,oneof=admin technician hospital"`
	OrganizationID uint   `json:"organization_id"`
}

// Login handles user authentication
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
			return
		}
		respondError(c, err, "Failed to login")
		return
	}

	h.setRefreshCookie(c, response.RefreshToken)
	utils.SuccessResponse(c, gin.H{
		"access_token": response.AccessToken,
		"user":         response.User,
	})
}

// Refresh generates a new access token from refresh token
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookie)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Refresh token not found")
		return
	}

	accessToken, err := h.authService.RefreshAccessToken(refreshToken)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"access_token": accessToken,
	})
}

// Logout revokes the refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookie)
	if err == nil {
		if err := h.authService.Logout(refreshToken); err != nil {
			respondError(c, err, "Failed to logout")
			return
		}
	}

	c.SetCookie(refreshCookie, "", -1, "/", "", false, true)
	utils.MessageResponse(c, "Logged out successfully")
}

// LogoutAll revokes every refresh token of the caller
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	if err := h.authService.LogoutAll(id.UserID); err != nil {
		respondError(c, err, "Failed to logout")
		return
	}
	c.SetCookie(refreshCookie, "", -1, "/", "", false, true)
	utils.MessageResponse(c, "Logged out from all sessions")
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.authService.Register(service.RegisterRequest{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		Role:           req.Role,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			utils.ErrorResponse(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidRole):
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, err, "Failed to register")
		}
		return
	}

	h.setRefreshCookie(c, response.RefreshToken)
	utils.CreatedResponse(c, gin.H{
		"access_token": response.AccessToken,
		"user":         response.User,
	})
}

// setRefreshCookie stores the refresh token as an HttpOnly cookie
func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetCookie(refreshCookie, token, h.cookieMaxAge, "/", "", false, true)
}
