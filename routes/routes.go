package routes

import (
	"certificate-management-api/controllers"
	"certificate-management-api/middleware"
	"certificate-management-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Certificate Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Batches: Admin and Supervisor manage them
			batches := protected.Group("/batches")
			batches.Use(middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor))
			{
				batches.GET("", controllers.GetBatches)
				batches.GET("/:id", controllers.GetBatch)
				batches.POST("", controllers.CreateBatch)
				batches.PUT("/:id", controllers.UpdateBatch)
				batches.DELETE("/:id", controllers.DeleteBatch)
			}

			// Certificates: every authenticated role issues them
			certificates := protected.Group("/certificates")
			{
				certificates.GET("", controllers.GetCertificates)
				certificates.GET("/:id", controllers.GetCertificate)
				certificates.POST("", controllers.CreateCertificate)
				certificates.PUT("/:id", controllers.UpdateCertificate)
				certificates.DELETE("/:id", controllers.DeleteCertificate)

				certificates.POST("/:id/attachments", controllers.UploadAttachment)
				certificates.DELETE("/:id/attachments/:attachmentId", controllers.DeleteAttachment)

				// Bulk status sweep trigger, for cron-like callers
				certificates.POST("/update-statuses", controllers.UpdateStatuses)
			}

			// Instructor picker, open to every authenticated role
			protected.GET("/users/instructors/list", controllers.GetInstructors)

			// User management: Admin only
			users := protected.Group("/users")
			users.Use(middleware.RequireRole(models.RoleAdmin))
			{
				users.GET("", controllers.GetUsers)
				users.GET("/:id", controllers.GetUser)
				users.POST("", controllers.CreateUser)
				users.PUT("/:id", controllers.UpdateUser)
				users.DELETE("/:id", controllers.DeleteUser)
				users.PATCH("/:id/toggle-status", controllers.ToggleUserStatus)
			}

			// Lookup table: reads for everyone, writes Admin only
			groups := protected.Group("/groups")
			{
				groups.GET("", controllers.GetGroups)
				groups.GET("/by-code/:groupCode", controllers.GetGroupsByCode)
				groups.GET("/:id", controllers.GetGroup)
				groups.POST("", middleware.RequireRole(models.RoleAdmin), controllers.CreateGroup)
				groups.PUT("/:id", middleware.RequireRole(models.RoleAdmin), controllers.UpdateGroup)
				groups.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteGroup)
			}

			// Settings: Admin only
			settings := protected.Group("/settings")
			settings.Use(middleware.RequireRole(models.RoleAdmin))
			{
				settings.GET("", controllers.GetSettings)
				settings.PUT("", controllers.UpdateSettings)
			}
		}
	}

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Route not found"})
	})
}
