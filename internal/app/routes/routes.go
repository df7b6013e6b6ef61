package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stjtech/admissions/internal/app/controllers"
	"github.com/stjtech/admissions/internal/app/models/dto"
)

// SetupRouter configures all application routes.
func SetupRouter(router *gin.Engine, applicationController *controllers.ApplicationController) {
	// Requests with a wrong method on a known path must get a 405 in
	// the submission wire format, not gin's default 404.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.SubmissionResponse{
			Success: false,
			Message: "Method not allowed",
		})
	})

	v1 := router.Group("/api/v1")

	applications := v1.Group("/applications")
	{
		applications.POST("", applicationController.SubmitApplication)
		applications.GET("", applicationController.GetAllApplications)
		applications.GET("/:reference", applicationController.GetApplicationByReference)
	}

	v1.GET("/programmes", applicationController.GetProgrammes)

	// Legacy path kept for forms still posting to the old endpoint.
	router.POST("/submit_application", applicationController.SubmitApplication)

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "STJT Application Server"})
	})
}
