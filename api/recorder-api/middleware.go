// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package recorder_api

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rapidaai/interview-recorder/config"
	"github.com/rapidaai/interview-recorder/pkg/commons"
	"github.com/rapidaai/interview-recorder/pkg/utils"
)

// ApiKeyMiddleware rejects any request that does not carry the configured
// shared secret. The credential may arrive as "Authorization: Bearer <key>"
// or in the x-api-key header. Comparison is constant time.
func ApiKeyMiddleware(cfg *config.AppConfig, logger commons.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(utils.HEADER_API_KEY)
		if utils.IsEmpty(provided) {
			provided = utils.BearerToken(c.GetHeader(utils.HEADER_AUTH_KEY))
		}

		if utils.IsEmpty(provided) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing api key"})
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(cfg.ApiKey)) != 1 {
			logger.Warnf("rejected request with invalid api key from %s", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid api key"})
			return
		}
		c.Next()
	}
}
