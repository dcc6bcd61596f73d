package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kh4lidmd/portfolio-backend/internal/api/handlers"
	"github.com/kh4lidmd/portfolio-backend/internal/api/middleware"
	"github.com/kh4lidmd/portfolio-backend/internal/services"
)

// Handlers bundles the route handlers for registration.
type Handlers struct {
	Upload  *handlers.UploadHandler
	Project *handlers.ProjectHandler
	Skill   *handlers.SkillHandler
	Contact *handlers.ContactHandler
	Admin   *handlers.AdminHandler
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, PATCH, PUT, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	}
}

// RegisterRoutes wires the public routes, the token-gated admin surface and,
// when the local backend is active, the static asset route.
func RegisterRoutes(r *gin.Engine, h Handlers, auth *services.AuthService, staticPrefix, staticRoot string) {
	r.Use(corsMiddleware())

	if staticRoot != "" {
		r.Static(staticPrefix, staticRoot)
	}

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		// Public portfolio surface
		api.GET("/projects", h.Project.List)
		api.GET("/projects/:id", h.Project.Get)
		api.GET("/skills", h.Skill.List)
		api.POST("/contact", h.Contact.Create)

		api.POST("/admin/login", h.Admin.Login)
	}

	authed := api.Group("", middleware.RequireAuth(auth))
	{
		// Image pipeline
		authed.POST("/upload-image", h.Upload.UploadImage)
		authed.POST("/upload-multiple", h.Upload.UploadMultiple)
		authed.DELETE("/delete-image/*identifier", h.Upload.DeleteImage)
		authed.POST("/admin/assets/sweep", h.Upload.SweepAssets)

		// Project management
		authed.POST("/projects", h.Project.Create)
		authed.PUT("/projects/:id", h.Project.Update)
		authed.DELETE("/projects/:id", h.Project.Delete)
		authed.POST("/projects/:id/images", h.Project.AttachImage)

		// Skill management
		authed.POST("/skills", h.Skill.Create)
		authed.PUT("/skills/:id", h.Skill.Update)
		authed.DELETE("/skills/:id", h.Skill.Delete)

		// Contact inbox
		authed.GET("/contact", h.Contact.List)
		authed.PATCH("/contact/:id/read", h.Contact.MarkRead)
		authed.DELETE("/contact/:id", h.Contact.Delete)

		authed.POST("/admin/password", h.Admin.ChangePassword)
	}
}
