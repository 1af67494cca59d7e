package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Dorstol/BitBuddies/internal/interfaces/http/handlers"
)

type routeDeps struct {
	authHandler    *handlers.AuthHandler
	userHandler    *handlers.UserHandler
	teamHandler    *handlers.TeamHandler
	authMiddleware gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/jwt/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.POST("/request-verify-token", d.authHandler.RequestVerifyToken)
			auth.POST("/verify", d.authHandler.VerifyEmail)
			auth.POST("/forgot-password", d.authHandler.ForgotPassword)
			auth.POST("/reset-password", d.authHandler.ResetPassword)
		}

		// User routes (protected)
		users := v1.Group("/users")
		users.Use(d.authMiddleware)
		{
			users.GET("/me", d.userHandler.GetMe)
			users.PATCH("/me", d.userHandler.UpdateMe)
			users.POST("/me/update_password", d.userHandler.UpdatePassword)
			users.POST("/me/upload_photo", d.userHandler.UploadPhoto)
			users.GET("/me/teams", d.userHandler.ListMyTeams)
			users.GET("/all", d.userHandler.ListUsers)
		}

		// Team routes (protected)
		teams := v1.Group("/teams")
		teams.Use(d.authMiddleware)
		{
			teams.GET("", d.teamHandler.ListTeams)
			teams.POST("", d.teamHandler.CreateTeam)
			teams.GET("/:id", d.teamHandler.GetTeam)
			teams.PATCH("/:id", d.teamHandler.UpdateTeam)
			teams.DELETE("/:id", d.teamHandler.DeleteTeam)
			teams.POST("/join/:id", d.teamHandler.JoinTeam)
			teams.DELETE("/leave/:id", d.teamHandler.LeaveTeam)
			teams.DELETE("/remove_member/:id/:user_id", d.teamHandler.RemoveMember)
		}
	}
}

func applyCORSMiddleware(r *gin.Engine, allowOrigin string) {
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowOrigin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID, X-Session-ID")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "bitbuddies-backend",
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
