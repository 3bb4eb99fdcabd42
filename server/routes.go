package server

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "petitionserver/docs"
	"petitionserver/server/middleware"
)

// buildHTTPHandler assembles the gin router with middleware and all routes
func (s *Server) buildHTTPHandler() http.Handler {
	if ginMode := os.Getenv("GIN_MODE"); ginMode == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.GinRequestIDMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.GinGzipMiddleware())
	router.Use(middleware.GinLoggerMiddleware())
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", s.handleHealth)

	api := router.Group("/api")
	{
		upload := api.Group("/upload")
		upload.Use(middleware.GinRateLimitMiddleware(s.Config().UploadRateLimit, s.Config().UploadRateBurst))
		{
			upload.POST("/voter_records", s.handleUploadVoterRecords)
			upload.POST("/petition_signatures", s.handleUploadPetition)
		}
		api.GET("/upload/:filetype", s.handleGetUpload)
		api.DELETE("/clear", s.handleClear)

		ocrGroup := api.Group("/ocr")
		{
			ocrGroup.POST("", s.handleRunOCR)
			ocrGroup.GET("/logs", s.handleOCRLogs)
			ocrGroup.GET("/export", s.handleOCRExport)
		}

		voters := api.Group("/voter_records")
		{
			voters.GET("", s.handleListVoterRecords)
			voters.POST("", s.handleCreateVoterRecord)
			voters.GET("/:id", s.handleGetVoterRecord)
			voters.PUT("/:id", s.handleUpdateVoterRecord)
			voters.DELETE("/:id", s.handleDeleteVoterRecord)
		}

		api.GET("/ballots", s.handleListBallots)
		api.GET("/stats", s.handleStats)

		configGroup := api.Group("/config")
		{
			configGroup.GET("", s.handleGetConfig)
			configGroup.PUT("", s.handleUpdateConfig)
			configGroup.GET("/history", s.handleConfigHistory)
		}
	}

	return router
}
