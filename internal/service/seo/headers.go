package seo

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// HeadersConfig cache header settings for public pages
type HeadersConfig struct {
	MaxAge     int // Cache-Control: max-age
	SMaxAge    int // Cache-Control: s-maxage
	StaleWhile int // stale-while-revalidate
}

// DefaultHeadersConfig default settings
var DefaultHeadersConfig = &HeadersConfig{
	MaxAge:     60,
	SMaxAge:    300,
	StaleWhile: 60,
}

// HeadersMiddleware sets cache headers on public GET responses.
// Mutations are never cacheable.
func HeadersMiddleware(config *HeadersConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultHeadersConfig
	}

	return func(c *gin.Context) {
		if c.Request.Method == "POST" || c.Request.Method == "PUT" || c.Request.Method == "DELETE" {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
			c.Next()
			return
		}

		c.Header("Cache-Control", makeCacheControl(config))
		if etag := makeETag(c.Request.URL.Path); etag != "" {
			c.Header("ETag", etag)
		}

		c.Next()
	}
}

// DisableCache for authenticated and admin routes
func DisableCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, private")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Next()
	}
}

func makeCacheControl(config *HeadersConfig) string {
	var result string
	result += "public, max-age=" + strconv.Itoa(config.MaxAge)
	if config.SMaxAge > 0 {
		result += ", s-maxage=" + strconv.Itoa(config.SMaxAge)
	}
	if config.StaleWhile > 0 {
		result += ", stale-while-revalidate=" + strconv.Itoa(config.StaleWhile)
	}
	return result
}

func makeETag(path string) string {
	hash := strconv.FormatUint(hashPath(path), 16)
	return `"` + hash + `"`
}

// FNV-1a
func hashPath(path string) uint64 {
	var hash uint64 = 14695981039346656037
	for i := 0; i < len(path); i++ {
		hash ^= uint64(path[i])
		hash *= 1099511628211
	}
	return hash
}
