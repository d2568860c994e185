package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "github.com/midgardbridge/dealreport/internal/handlers"
)

type RouterConfig struct {
  GenerationHandler   *handlers.GenerationHandler
  ReportsHandler      *handlers.ReportsHandler
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

  router.GET("/healthcheck", handlers.HealthCheck)

  api := router.Group("/api")
  {
    api.POST("/generate", cfg.GenerationHandler.CreateGeneration)
    api.GET("/generations", cfg.GenerationHandler.ListGenerations)
    api.GET("/reports", cfg.ReportsHandler.ListReports)
    api.PUT("/reports/:reportId", cfg.ReportsHandler.UpdateReport)
    api.PUT("/reports/:reportId/status", cfg.ReportsHandler.UpdateReportStatus)
  }

  return router
}
