package seo

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// RobotsConfig robots.txt settings
type RobotsConfig struct {
	BaseURL string
	Sitemap string
}

// RobotsService serves robots.txt. Admin and account areas are
// disallowed, crawlers get everything else.
type RobotsService struct {
	config *RobotsConfig
}

// NewRobotsService create RobotsService
func NewRobotsService(cfg *RobotsConfig) *RobotsService {
	return &RobotsService{config: cfg}
}

// GetRobots robots.txt content
func (s *RobotsService) GetRobots() []byte {
	return []byte(fmt.Sprintf(
		"User-agent: *\nAllow: /\nDisallow: /admin\nDisallow: /api/v1/profile\n\nSitemap: %s\n",
		s.config.Sitemap))
}

// RobotsHandler robots.txt endpoint
type RobotsHandler struct {
	svc *RobotsService
}

// NewRobotsHandler create RobotsHandler
func NewRobotsHandler(svc *RobotsService) *RobotsHandler {
	return &RobotsHandler{svc: svc}
}

// Get GET /robots.txt
func (h *RobotsHandler) Get(c *gin.Context) {
	data := h.svc.GetRobots()

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(200, "text/plain; charset=utf-8", data)
}
