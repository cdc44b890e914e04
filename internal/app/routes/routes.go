package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ddct/showcase/internal/app/controllers"
	"github.com/ddct/showcase/internal/app/models"
	"github.com/ddct/showcase/internal/app/models/dto"
	"github.com/ddct/showcase/internal/middleware"
	"github.com/ddct/showcase/internal/pkg/filestorage"
	"github.com/ddct/showcase/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	projectController *controllers.ProjectController,
	fileController *controllers.FileController,
	commentController *controllers.CommentController,
	analyticsController *controllers.AnalyticsController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Public browsing routes ---
	// Identity is optional here: a valid token personalizes like states
	// and unlocks the caller's own unlisted content, its absence never
	// blocks the page.
	public := v1.Group("")
	public.Use(authMiddleware.OptionalAuth())
	{
		public.GET("/projects", projectController.ListProjects)
		public.GET("/projects/:id", projectController.GetProject)
		public.GET("/projects/:id/files", fileController.ListFiles)
		public.GET("/projects/:id/comments", commentController.ListComments)
		public.GET("/projects/:id/likes", projectController.GetLikeState)
		public.POST("/projects/:id/downloads", projectController.RecordDownload)
		public.GET("/comments/:commentId/likes", commentController.GetLikeState)
		public.GET("/users/:id", userController.GetUser)

		// Live layer: project pages receive like updates, the lobby
		// display receives carousel frames
		public.GET("/ws/projects/:id", wsHandler.HandleProject)
		public.GET("/ws/lobby", wsHandler.HandleLobby)
	}

	// Signed downloads for locally stored files (links expire)
	router.GET(filestorage.SignedDownloadPath, fileController.ServeSignedFile)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.PUT("/auth/password", authController.ChangePassword)

		authenticated.GET("/users/me", userController.GetProfile)
		authenticated.PUT("/users/me", userController.UpdateProfile)
		authenticated.PUT("/users/me/photo", userController.UploadProfilePhoto)

		projects := authenticated.Group("/projects")
		{
			projects.POST("", projectController.CreateProject)
			projects.PUT("/:id", projectController.UpdateProject)
			projects.DELETE("/:id", projectController.DeleteProject)
			projects.POST("/:id/likes", projectController.ToggleLike)

			projects.POST("/:id/collaborators", projectController.AddCollaborator)
			projects.DELETE("/:id/collaborators/:userId", projectController.RemoveCollaborator)

			projects.POST("/:id/files", fileController.UploadFile)
			projects.POST("/:id/media", fileController.AddExternalMedia)
			projects.DELETE("/:id/files/:fileId", fileController.DeleteFile)
			projects.PUT("/:id/files/:fileId/cover", fileController.SetCover)
			projects.PUT("/:id/files/:fileId/position", fileController.ReorderFile)

			projects.POST("/:id/comments", commentController.CreateComment)
		}

		comments := authenticated.Group("/comments")
		{
			comments.PUT("/:commentId", commentController.UpdateComment)
			comments.DELETE("/:commentId", commentController.DeleteComment)
			comments.POST("/:commentId/likes", commentController.ToggleLike)
		}

		// --- Admin routes ---
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			admin.GET("/users", userController.ListUsers)
			admin.POST("/users", userController.CreateUser)
			admin.PUT("/users/:id", userController.UpdateUser)
			admin.DELETE("/users/:id", userController.DeleteUser)

			admin.GET("/analytics/export", analyticsController.ExportReport)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
