package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
  "github.com/doorflow/doorflow-backend/internal/handlers"
  "github.com/doorflow/doorflow-backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler     *handlers.AuthHandler
  AuthMiddleware  *middleware.AuthMiddleware
  JobHandler      *handlers.JobHandler
  DispatchHandler *handlers.DispatchHandler
  MobileHandler   *handlers.MobileHandler
  Tracing         bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))
  if cfg.Tracing {
    router.Use(otelgin.Middleware("doorflow-backend"))
  }

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  api := router.Group("/api")
  {
    api.POST("/register", cfg.AuthHandler.Register)
    api.POST("/login", cfg.AuthHandler.Login)
  }

// ===============
// || Protected ||
// ===============
  protected := router.Group("/api")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  // Auth
  protected.POST("/refresh", cfg.AuthHandler.Refresh)
  protected.POST("/logout", cfg.AuthHandler.Logout)

  // Mobile (field crews and admins)
  mobile := protected.Group("/mobile")
  mobile.GET("/field-jobs", cfg.MobileHandler.FieldJobs)
  mobile.GET("/field-jobs/:id", cfg.MobileHandler.FieldJobDetail)
  mobile.POST("/jobs/:id/start", cfg.MobileHandler.StartJob)
  mobile.POST("/jobs/:id/pause", cfg.MobileHandler.PauseJob)
  mobile.POST("/jobs/:id/resume", cfg.MobileHandler.ResumeJob)
  mobile.POST("/jobs/:id/complete", cfg.MobileHandler.CompleteJob)
  mobile.PUT("/jobs/:id/line-items/:itemID/toggle", cfg.MobileHandler.ToggleLineItem)
  mobile.GET("/jobs/:id/time-tracking", cfg.MobileHandler.TimeTracking)
  mobile.POST("/doors/:id/complete", cfg.MobileHandler.CompleteDoor)
  mobile.POST("/doors/:id/media/upload", cfg.MobileHandler.UploadDoorMedia)

// ===============
// || Admin     ||
// ===============
  admin := protected.Group("/")
  admin.Use(cfg.AuthMiddleware.RequireAdmin())
  // Bids and jobs
  admin.POST("/bids/:id/approve", cfg.JobHandler.ApproveBid)
  admin.POST("/jobs/:id/schedule", cfg.JobHandler.ScheduleJob)
  admin.PUT("/jobs/:id/status", cfg.JobHandler.SetStatus)
  admin.POST("/jobs/:id/cancel", cfg.JobHandler.CancelJob)
  // Dispatch board
  admin.GET("/dispatch/:date", cfg.DispatchHandler.GetBoard)
  admin.POST("/dispatch", cfg.DispatchHandler.SaveBoard)

  return router
}
