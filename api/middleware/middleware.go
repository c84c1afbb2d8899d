/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/gin-gonic/gin"
	"github.com/jerry-enebeli/purse/config"
	"github.com/jerry-enebeli/purse/internal/apierror"
)

const (
	KeyHeader   = "X-Purse-Key"
	OwnerHeader = "X-Purse-Owner"

	ownerContextKey = "ownerID"
)

// RateLimitMiddleware creates a middleware for rate limiting using Tollbooth
func RateLimitMiddleware(conf *config.Configuration) gin.HandlerFunc {
	if conf.RateLimit.RequestsPerSecond == nil || conf.RateLimit.Burst == nil {
		// Rate limiting is disabled
		return func(c *gin.Context) {
			c.Next()
		}
	}

	rps := *conf.RateLimit.RequestsPerSecond
	burst := *conf.RateLimit.Burst
	ttl := time.Duration(*conf.RateLimit.CleanupIntervalSec) * time.Second

	lmt := tollbooth.NewLimiter(rps, &limiter.ExpirableOptions{
		DefaultExpirationTTL: ttl,
	})
	lmt.SetBurst(burst)
	return func(c *gin.Context) {
		if httpError := tollbooth.LimitByRequest(lmt, c.Writer, c.Request); httpError != nil {
			abort(c, httpError.StatusCode, "RATE_LIMITED", httpError.Message)
			return
		}
		c.Next()
	}
}

// SecretKeyAuthMiddleware rejects requests whose X-Purse-Key does not match
// the configured secret key.
func SecretKeyAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		conf, err := config.Fetch()
		if err != nil || conf.Server.SecretKey == "" {
			abort(c, http.StatusInternalServerError, apierror.ErrInternalServer, "secret key is not configured")
			return
		}

		clientSecret := c.GetHeader(KeyHeader)
		if clientSecret == "" {
			abort(c, http.StatusUnauthorized, apierror.ErrBadRequest, "missing secret key. Use "+KeyHeader+" header")
			return
		}
		if !secureCompare(conf.Server.SecretKey, clientSecret) {
			abort(c, http.StatusUnauthorized, apierror.ErrBadRequest, "invalid secret key")
			return
		}

		c.Next()
	}
}

func abort(c *gin.Context, status int, code apierror.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": code})
}

func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// OwnerMiddleware resolves the caller from X-Purse-Owner. The identity has
// already been authenticated upstream; requests without one are rejected.
func OwnerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := strings.TrimSpace(c.GetHeader(OwnerHeader))
		if ownerID == "" {
			abort(c, http.StatusUnauthorized, apierror.ErrBadRequest, "missing "+OwnerHeader+" header")
			return
		}
		c.Set(ownerContextKey, ownerID)
		c.Next()
	}
}

// OwnerID returns the owner resolved by OwnerMiddleware.
func OwnerID(c *gin.Context) string {
	return c.GetString(ownerContextKey)
}
