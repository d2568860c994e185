package main

import (
  "context"
  "fmt"
  "os"
  "time"

  "github.com/midgardbridge/dealreport/internal/db"
  "github.com/midgardbridge/dealreport/internal/handlers"
  "github.com/midgardbridge/dealreport/internal/jobs"
  "github.com/midgardbridge/dealreport/internal/logger"
  "github.com/midgardbridge/dealreport/internal/repos"
  "github.com/midgardbridge/dealreport/internal/server"
  "github.com/midgardbridge/dealreport/internal/services"
  "github.com/midgardbridge/dealreport/internal/utils"
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

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Error("Postgres auto migration failed", "error", err)
    os.Exit(1)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  requestRepo := repos.NewGenerationRequestRepo(thePG, log)
  reportRepo := repos.NewReportRepo(thePG, log)

  // Services
  log.Info("Setting up Services from main...")
  argineClient, err := services.NewArgineClient(log)
  if err != nil {
    log.Error("Could not init ArgineClient", "error", err)
    os.Exit(1)
  }
  simulator := services.NewSimulator(log, argineClient)
  reportService := services.NewReportService(thePG, log, reportRepo)
  generationService := services.NewGenerationService(thePG, log, requestRepo)

  // Generation runner
  log.Info("Setting up generation runner from main...")
  tickSeconds := utils.GetEnvAsInt("GENERATION_TICK_SECONDS", 30, log)
  concurrencyLimit := utils.GetEnvAsInt("GENERATION_CONCURRENCY_LIMIT", 1, log)
  runner := jobs.NewRunner(thePG, log, requestRepo, simulator, reportService, jobs.Config{
    Interval:         time.Duration(tickSeconds) * time.Second,
    ConcurrencyLimit: int64(concurrencyLimit),
  })
  runner.Start(context.Background())

  // Handlers
  log.Info("Setting up handlers from main...")
  generationHandler := handlers.NewGenerationHandler(generationService)
  reportsHandler := handlers.NewReportsHandler(reportService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    GenerationHandler: generationHandler,
    ReportsHandler:    reportsHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Fatal("Server crashed", "error", err)
  }
}
