package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/erpconsole/internal/app/controllers"
	"github.com/yigit/erpconsole/internal/middleware"
)

// SetupRouter configures all console routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	domainController *controllers.DomainController,
	studentController *controllers.StudentController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// --- Public routes ---
	router.GET("/healthz", healthController.Health)
	router.POST("/signout", authController.SignOut)

	// --- Signed-in routes ---
	console := router.Group("")
	console.Use(authMiddleware.RequireUser())
	{
		console.GET("/", authController.Home)

		// Domain list and the "Create Tables" recovery action
		console.GET("/domains-list", domainController.ListDomains)
		console.POST("/database/init", domainController.InitDatabase)

		domains := console.Group("/domains")
		{
			domains.GET("/new", domainController.NewDomain)
			domains.POST("", domainController.CreateDomain)
			domains.GET("/:id/edit", domainController.EditDomain)
			domains.POST("/:id", domainController.UpdateDomain)
			domains.POST("/:id/confirm", domainController.ConfirmUpdate)
			domains.GET("/:id/delete", domainController.DeletePrompt)
			domains.POST("/:id/delete", domainController.DeleteDomain)
			domains.GET("/:id/view", domainController.ViewDomain)
			domains.GET("/:id/students", domainController.DomainStudents)
			domains.GET("/:id/students/new", studentController.NewStudentForDomain)
		}

		students := console.Group("/students")
		{
			students.GET("/new", studentController.NewStudent)
			students.POST("", studentController.AdmitStudent)
			students.GET("/:id/edit", studentController.EditStudent)
			students.POST("/:id", studentController.UpdateStudent)
			students.POST("/:id/delete", studentController.DeleteStudent)
		}
	}
}
