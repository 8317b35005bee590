package handler

import (
	"hvac-pq-report/internal/middleware"
	"hvac-pq-report/internal/models"
	"hvac-pq-report/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth     *AuthHandler
	Hospital *HospitalHandler
	Wizard   *WizardHandler
	Report   *ReportHandler
}

// RegisterRoutes mounts the public and authenticated routes on r
func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":  "healthy",
			"service": "hvac-pq-report",
		})
	})

	// Auth routes (public)
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
		auth.POST("/logout-all", middleware.AuthMiddleware(), h.Auth.LogoutAll)
	}

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())

	hospitals := api.Group("/hospitals")
	{
		hospitals.GET("", h.Hospital.GetAllHospitals)
		hospitals.GET("/:id", h.Hospital.GetHospital)

		admin := middleware.RequireRole(models.RoleAdmin)
		hospitals.POST("", admin, h.Hospital.CreateHospital)
		hospitals.PUT("/:id", admin, h.Hospital.UpdateHospital)
		hospitals.DELETE("/:id", admin, h.Hospital.DeleteHospital)
	}

	wizard := api.Group("/wizard/sessions")
	wizard.Use(middleware.RequireRole(models.RoleAdmin, models.RoleTechnician))
	{
		wizard.POST("", h.Wizard.Create)
		wizard.GET("/:id", h.Wizard.Get)
		wizard.DELETE("/:id", h.Wizard.Discard)
		wizard.PUT("/:id/general", h.Wizard.SetGeneralInfo)
		wizard.PUT("/:id/hospital", h.Wizard.SelectHospital)
		wizard.POST("/:id/rooms", h.Wizard.AddRoom)
		wizard.PATCH("/:id/rooms/:roomId", h.Wizard.UpdateRoom)
		wizard.DELETE("/:id/rooms/:roomId", h.Wizard.RemoveRoom)
		wizard.POST("/:id/rooms/:roomId/edits", h.Wizard.ApplyEdit)
		wizard.POST("/:id/next", h.Wizard.Next)
		wizard.POST("/:id/back", h.Wizard.Back)
		wizard.GET("/:id/preview", h.Wizard.Preview)
		wizard.GET("/:id/export", h.Wizard.Export)
		wizard.POST("/:id/save", h.Wizard.Save)
	}

	reports := api.Group("/reports")
	{
		reports.GET("", h.Report.List)
		reports.GET("/:id", h.Report.Get)
		reports.DELETE("/:id", h.Report.Delete)
		reports.GET("/:id/export", h.Report.Export)
	}
}
