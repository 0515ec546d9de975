package main

import (
  "context"
  "fmt"
  "os"
  "time"
  "github.com/doorflow/doorflow-backend/internal/logger"
  "github.com/doorflow/doorflow-backend/internal/utils"
  "github.com/doorflow/doorflow-backend/internal/db"
  "github.com/doorflow/doorflow-backend/internal/observability"
  "github.com/doorflow/doorflow-backend/internal/repos"
  "github.com/doorflow/doorflow-backend/internal/services"
  "github.com/doorflow/doorflow-backend/internal/handlers"
  "github.com/doorflow/doorflow-backend/internal/middleware"
  "github.com/doorflow/doorflow-backend/internal/server"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
  mediaRoot := utils.GetEnv("MEDIA_ROOT", "./media", log)

  // Tracing
  shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: "doorflow-backend",
    Environment: utils.GetEnv("APP_ENV", "development", log),
    Version:     utils.GetEnv("APP_VERSION", "dev", log),
  })
  if shutdownOTel != nil {
    defer func() {
      ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      _ = shutdownOTel(ctx)
    }()
  }

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  bidRepo := repos.NewBidRepo(thePG, log)
  doorRepo := repos.NewDoorRepo(thePG, log)
  jobRepo := repos.NewJobRepo(thePG, log)
  timeSessionRepo := repos.NewTimeSessionRepo(thePG, log)
  signatureRepo := repos.NewSignatureRepo(thePG, log)
  lineItemRepo := repos.NewMobileJobLineItemRepo(thePG, log)
  doorMediaRepo := repos.NewDoorMediaRepo(thePG, log)

  // Services
  log.Info("Setting up Services from main...")
  mediaStore, err := services.NewLocalMediaStore(mediaRoot, log)
  if err != nil {
    log.Error("Could not init media store", "error", err)
    os.Exit(1)
  }
  authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  jobService := services.NewJobService(thePG, log, jobRepo, bidRepo, doorRepo, signatureRepo)
  dispatchService := services.NewDispatchService(thePG, log, jobRepo)
  timeTrackingService := services.NewTimeTrackingService(thePG, log, jobRepo, timeSessionRepo, signatureRepo)
  completionService := services.NewCompletionService(thePG, log, jobRepo, doorRepo, signatureRepo, lineItemRepo, timeSessionRepo)
  mediaService := services.NewMediaService(thePG, log, jobRepo, doorMediaRepo, mediaStore)
  mobileFeedService := services.NewMobileFeedService(thePG, log, jobRepo, timeSessionRepo, signatureRepo, lineItemRepo, doorMediaRepo, completionService)

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(authService)
  jobHandler := handlers.NewJobHandler(log, jobService)
  dispatchHandler := handlers.NewDispatchHandler(log, dispatchService)
  mobileHandler := handlers.NewMobileHandler(log, mobileFeedService, timeTrackingService, completionService, mediaService)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:     authHandler,
    AuthMiddleware:  authMiddleware,
    JobHandler:      jobHandler,
    DispatchHandler: dispatchHandler,
    MobileHandler:   mobileHandler,
    Tracing:         observability.Enabled(),
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
