package routes

import (
	"example.com/backstage/services/deliverynote/api/handlers"
	"example.com/backstage/services/deliverynote/api/middleware"
	"example.com/backstage/services/deliverynote/config"
	"example.com/backstage/services/deliverynote/internal/repository"
	"example.com/backstage/services/deliverynote/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRoutes sets up all the routes for the server
func SetupRoutes(r *gin.Engine, cfg *config.Config, svc service.Service, repo repository.Repository, log *logrus.Logger) {
	// Health check
	r.GET("/health", handlers.HealthCheck)

	// API routes
	api := r.Group("/api/v1")
	authRequired := middleware.JWTAuth(cfg.JWT.Secret, repo, log)

	// User routes
	userHandler := handlers.NewUserHandler(svc, cfg.JWT, log)
	users := api.Group("/users")
	{
		users.POST("/register", userHandler.Register)
		users.POST("/login", userHandler.Login)

		me := users.Group("/me", authRequired)
		{
			me.GET("", userHandler.Profile)
			me.PUT("", userHandler.UpdateProfile)
			me.PATCH("/company", userHandler.AttachCompany)
			me.DELETE("", userHandler.Delete)
			me.DELETE("/archive", userHandler.Archive)
		}
	}

	// Client routes
	clientHandler := handlers.NewClientHandler(svc, log)
	clients := api.Group("/clients", authRequired)
	{
		clients.POST("", clientHandler.Create)
		clients.GET("", clientHandler.List)
		clients.GET("/archived", clientHandler.ListArchived)
		clients.GET("/:id", clientHandler.Get)
		clients.PUT("/:id", clientHandler.Update)
		clients.DELETE("/:id", clientHandler.Delete)
		clients.DELETE("/:id/archive", clientHandler.Archive)
		clients.POST("/:id/restore", clientHandler.Restore)
	}

	// Project routes
	projectHandler := handlers.NewProjectHandler(svc, log)
	projects := api.Group("/projects", authRequired)
	{
		projects.POST("", projectHandler.Create)
		projects.GET("", projectHandler.List)
		projects.GET("/archived", projectHandler.ListArchived)
		projects.GET("/:id", projectHandler.Get)
		projects.PUT("/:id", projectHandler.Update)
		projects.DELETE("/:id", projectHandler.Delete)
		projects.DELETE("/:id/archive", projectHandler.Archive)
		projects.POST("/:id/restore", projectHandler.Restore)
	}

	// Delivery note routes
	noteHandler := handlers.NewDeliveryNoteHandler(svc, log)
	notes := api.Group("/deliverynotes", authRequired)
	{
		notes.POST("", noteHandler.Create)
		notes.GET("", noteHandler.List)
		notes.GET("/archived", noteHandler.ListArchived)
		notes.GET("/:id", noteHandler.Get)
		notes.PUT("/:id", noteHandler.Update)
		notes.DELETE("/:id", noteHandler.Delete)
		notes.DELETE("/:id/archive", noteHandler.Archive)
		notes.POST("/:id/restore", noteHandler.Restore)
		notes.POST("/:id/sign", noteHandler.Sign)
		notes.GET("/:id/pdf", noteHandler.PDF)
	}
}
