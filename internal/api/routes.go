package api

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Services groups what the HTTP layer depends on.
type Services struct {
	Auth       service.AuthService
	Routine    service.RoutineService
	Assignment service.AssignmentService
	Session    service.SessionService
	Calendar   service.CalendarService
}

func SetupRoutes(router *gin.Engine, jwtSecret string, services Services) {
	authHandler := NewAuthHandler(services.Auth)
	routineHandler := NewRoutineHandler(services.Routine)
	clientHandler := NewClientHandler(services.Assignment, services.Session, services.Calendar)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			// POST /api/v1/trainer/routines/import
			trainerGroup.POST("/routines/import", routineHandler.ImportRoutine)
			// GET /api/v1/trainer/routines/{routineId}
			trainerGroup.GET("/routines/:routineId", routineHandler.GetRoutine)
		}

		clientGroup := protected.Group("/client")
		clientGroup.Use(RoleMiddleware(domain.RoleClient))
		{
			clientGroup.POST("/assignments", clientHandler.StartRoutine)
			clientGroup.DELETE("/assignments/:assignmentId", clientHandler.StopRoutine)
			clientGroup.POST("/assignments/:assignmentId/skip", clientHandler.SkipDay)
			clientGroup.GET("/assignments/:assignmentId/next", clientHandler.GetNextWorkout)

			// Saving a session linked to a flexible assignment advances its day pointer.
			clientGroup.POST("/sessions", clientHandler.LogSession)

			// GET /api/v1/client/calendar?date=YYYY-MM-DD
			clientGroup.GET("/calendar", clientHandler.GetCalendar)
		}
	}
}
