package db

import (
  "fmt"
  "gorm.io/driver/postgres"
  "gorm.io/gorm"
  "github.com/doorflow/doorflow-backend/internal/types"
  "github.com/doorflow/doorflow-backend/internal/utils"
  "github.com/doorflow/doorflow-backend/internal/logger"
)

type PostgresService struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  log.Info("Loading environment variables...")
  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "doorflow", log)
  log.Debug("Environment variables loaded")

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  log.Info("Connecting to Postgres...")
  db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    log.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
  }

  if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
    log.Error("Failed to enable uuid-ossp extension", "error", err)
    return nil, fmt.Errorf("Failed to enable uuid-ossp extension: %w", err)
  }
  log.Info("uuid-ossp extension enabled")

  return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Auto migrating postgres tables...")
  err := s.db.AutoMigrate(
    &types.User{},
    &types.UserToken{},
    &types.Customer{},
    &types.Site{},
    &types.Estimate{},
    &types.Bid{},
    &types.Door{},
    &types.DoorLineItem{},
    &types.Job{},
    &types.TimeTrackingSession{},
    &types.JobSignature{},
    &types.MobileJobLineItem{},
    &types.DoorMedia{},
  )
  if err != nil {
    s.log.Error("Auto migration failed for postgres tables", "error", err)
    return err
  }
  s.log.Info("Configuring foreign key relationships for postgres tables...")
  if err := s.db.Exec(`
    ALTER TABLE "user_token"
    ADD CONSTRAINT "fk_user_token_user_id"
    FOREIGN KEY ("user_id")
    REFERENCES "user"("id")
    ON DELETE CASCADE
  `).Error; err != nil {
    return fmt.Errorf("Failed to add fk_user_token_user_id: %w", err)
  }
  for _, stmt := range []struct {
    name string
    sql  string
  }{
    {"fk_time_tracking_session_job_id", `
      ALTER TABLE "time_tracking_session"
      ADD CONSTRAINT "fk_time_tracking_session_job_id"
      FOREIGN KEY ("job_id") REFERENCES "job"("id") ON DELETE CASCADE
    `},
    {"fk_job_signature_job_id", `
      ALTER TABLE "job_signature"
      ADD CONSTRAINT "fk_job_signature_job_id"
      FOREIGN KEY ("job_id") REFERENCES "job"("id") ON DELETE CASCADE
    `},
    {"fk_mobile_job_line_item_job_id", `
      ALTER TABLE "mobile_job_line_item"
      ADD CONSTRAINT "fk_mobile_job_line_item_job_id"
      FOREIGN KEY ("job_id") REFERENCES "job"("id") ON DELETE CASCADE
    `},
    {"fk_door_media_job_id", `
      ALTER TABLE "door_media"
      ADD CONSTRAINT "fk_door_media_job_id"
      FOREIGN KEY ("job_id") REFERENCES "job"("id") ON DELETE CASCADE
    `},
  } {
    if err := s.db.Exec(stmt.sql).Error; err != nil {
      s.log.Warn("Failed to add foreign key constraint", "constraint", stmt.name, "error", err)
    }
  }
  return nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}
