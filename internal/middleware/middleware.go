package middleware

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/config"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/logger"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/policy"
)

// ViewerKey gin context key holding the authenticated *policy.Viewer
const ViewerKey = "viewer"

// LoggerMiddleware request logging
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		logger.Info("request",
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.String("query", query),
			logger.Int("status", status),
			logger.Duration("latency", latency),
			logger.String("client_ip", c.ClientIP()),
		)
	}
}

// RecoveryMiddleware panic recovery
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					logger.String("error", fmt.Sprintf("%v", err)))
				c.AbortWithStatusJSON(500, gin.H{
					"code": 500,
					"msg":  "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// TimeoutMiddleware request deadline
func TimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		done := make(chan struct{})

		go func() {
			c.Next()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			c.AbortWithStatusJSON(504, gin.H{
				"code": 504,
				"msg":  "request timeout",
			})
		}
	}
}

// CORSMiddleware cross-origin handling, driven by config
func CORSMiddleware() gin.HandlerFunc {
	cfg := config.Get()
	corsCfg := cfg.Security.CORS

	if !corsCfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		if len(corsCfg.AllowedOrigins) == 0 {
			allowed = true
		} else {
			for _, o := range corsCfg.AllowedOrigins {
				if o == origin || o == "*" {
					allowed = true
					break
				}
			}
		}

		if allowed {
			if corsCfg.AllowCredentials {
				c.Header("Access-Control-Allow-Origin", origin)
			} else {
				if origin == "" {
					c.Header("Access-Control-Allow-Origin", "*")
				} else {
					c.Header("Access-Control-Allow-Origin", origin)
				}
			}
		}

		c.Header("Access-Control-Allow-Methods", strings.Join(corsCfg.AllowedMethods, ", "))
		c.Header("Access-Control-Allow-Headers", strings.Join(corsCfg.AllowedHeaders, ", "))
		c.Header("Access-Control-Allow-Credentials", fmt.Sprintf("%t", corsCfg.AllowCredentials))
		c.Header("Access-Control-Max-Age", fmt.Sprintf("%d", corsCfg.MaxAge))

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// RequireAuth rejects requests without a valid bearer token and stores
// the decoded Viewer in the gin context.
func RequireAuth(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, err := viewerFromHeader(c, cfg.Secret)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{
				"code": 401,
				"msg":  err.Error(),
			})
			return
		}

		c.Set(ViewerKey, viewer)
		c.Next()
	}
}

// RequireAdmin RequireAuth plus the admin role
func RequireAdmin(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, err := viewerFromHeader(c, cfg.Secret)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{
				"code": 401,
				"msg":  err.Error(),
			})
			return
		}
		if !viewer.IsAdmin() {
			c.AbortWithStatusJSON(403, gin.H{
				"code": 403,
				"msg":  "admin only",
			})
			return
		}

		c.Set(ViewerKey, viewer)
		c.Next()
	}
}

// OptionalAuth decodes a token when present; anonymous requests pass
// through with no viewer set.
func OptionalAuth(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if viewer, err := viewerFromHeader(c, cfg.Secret); err == nil {
			c.Set(ViewerKey, viewer)
		}
		c.Next()
	}
}

// GetViewer fetch the Viewer set by the auth middleware; nil when anonymous
func GetViewer(c *gin.Context) *policy.Viewer {
	v, ok := c.Get(ViewerKey)
	if !ok {
		return nil
	}
	viewer, _ := v.(*policy.Viewer)
	return viewer
}

func viewerFromHeader(c *gin.Context, secret string) (*policy.Viewer, error) {
	token := c.GetHeader("Authorization")
	if token == "" {
		return nil, fmt.Errorf("unauthorized")
	}
	if !strings.HasPrefix(token, "Bearer ") {
		return nil, fmt.Errorf("invalid token format: missing 'Bearer ' prefix")
	}
	token = strings.TrimPrefix(token, "Bearer ")

	claims, err := ParseJWT(token, secret)
	if err != nil {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.UID == 0 {
		return nil, fmt.Errorf("invalid token")
	}

	return &policy.Viewer{
		UID:      claims.UID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}

// UserClaims typed JWT payload. Decoding uid through MapClaims reads it
// back as a float64, which loses the low bits of snowflake ids.
type UserClaims struct {
	UID      int64  `json:"uid"`
	Username string `json:"username"`
	Role     int    `json:"role"`
	jwt.RegisteredClaims
}

// ParseJWT validate and decode a token
func ParseJWT(tokenString, secret string) (*UserClaims, error) {
	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
