package seo

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// CanonicalService builds canonical URLs for public pages
type CanonicalService struct {
	baseURL string
}

// NewCanonicalService create CanonicalService
func NewCanonicalService(baseURL string) *CanonicalService {
	return &CanonicalService{baseURL: baseURL}
}

// GenerateURL canonical URL for a path, query string stripped
func (s *CanonicalService) GenerateURL(path string) string {
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}
	return fmt.Sprintf("%s%s", s.baseURL, path)
}

// GenerateNewsURL canonical URL for an article
func (s *CanonicalService) GenerateNewsURL(nid int64) string {
	return fmt.Sprintf("%s/news/%d", s.baseURL, nid)
}

// GenerateThreadURL canonical URL for a forum thread
func (s *CanonicalService) GenerateThreadURL(tid int64) string {
	return fmt.Sprintf("%s/forum/%d", s.baseURL, tid)
}

// GenerateProfileURL canonical URL for a member profile
func (s *CanonicalService) GenerateProfileURL(username string) string {
	return fmt.Sprintf("%s/profile/%s", s.baseURL, username)
}

// CanonicalMW sets the canonical Link header on every response
func (s *CanonicalService) CanonicalMW() gin.HandlerFunc {
	return func(c *gin.Context) {
		canonicalURL := s.GenerateURL(c.Request.URL.Path)
		c.Header("Link", fmt.Sprintf("<%s>; rel=\"canonical\"", canonicalURL))
		c.Next()
	}
}
