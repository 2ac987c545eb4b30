// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package recorder_api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rapidaai/interview-recorder/config"
	"github.com/rapidaai/interview-recorder/pkg/commons"
)

// RecorderApiRoutes wires the recorder API onto the engine. The health
// probe stays open; everything else requires the shared secret.
func RecorderApiRoutes(cfg *config.AppConfig, engine *gin.Engine, logger commons.Logger, api RecorderApi) {
	logger.Info("RecorderApiRoutes added to engine.")
	engine.Use(cors.Default())

	engine.GET("/healthz", api.Healthz)

	protected := engine.Group("", ApiKeyMiddleware(cfg, logger))
	{
		protected.GET("/questions", api.GetQuestions)
		protected.GET("/questions/:idx", api.GetQuestion)
		protected.POST("/answers", api.UploadAnswer)
		protected.POST("/session_logs", api.UploadSessionLog)
		protected.GET("/session_logs", api.ListSessionLogs)
	}
}
