package seo

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/repository"
)

// SitemapConfig sitemap generation settings
type SitemapConfig struct {
	BaseURL  string
	CacheTTL time.Duration
	MaxURLs  int // max URLs per sitemap shard
}

// SitemapService builds the sitemap index and its shards from the
// published news archive and the forum.
type SitemapService struct {
	newsRepo   repository.NewsRepository
	threadRepo repository.ThreadRepository
	config     *SitemapConfig
	cache      []byte
	cacheMu    sync.RWMutex
	lastModify time.Time
}

// NewSitemapService create SitemapService
func NewSitemapService(newsRepo repository.NewsRepository, threadRepo repository.ThreadRepository, cfg *SitemapConfig) *SitemapService {
	return &SitemapService{
		newsRepo:   newsRepo,
		threadRepo: threadRepo,
		config:     cfg,
	}
}

// URLEntry sitemap URL entry
type URLEntry struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

// GetIndex sitemap index listing the news shard set and forum shard set
func (s *SitemapService) GetIndex(ctx context.Context) ([]byte, error) {
	s.cacheMu.RLock()
	if s.cache != nil && time.Since(s.lastModify) < s.config.CacheTTL {
		defer s.cacheMu.RUnlock()
		return s.cache, nil
	}
	s.cacheMu.RUnlock()

	baseURL := s.config.BaseURL
	today := time.Now().Format("2006-01-02")

	newsCount, err := s.newsRepo.CountPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("count news: %w", err)
	}
	threadCount, err := s.threadRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count threads: %w", err)
	}

	newsPages := shardCount(newsCount, s.config.MaxURLs)
	threadPages := shardCount(threadCount, s.config.MaxURLs)

	templates := make([]URLEntry, 0, newsPages+threadPages)
	for i := 1; i <= newsPages; i++ {
		templates = append(templates, URLEntry{Loc: fmt.Sprintf("%s/sitemap-news-%d.xml", baseURL, i), LastMod: today})
	}
	for i := 1; i <= threadPages; i++ {
		templates = append(templates, URLEntry{Loc: fmt.Sprintf("%s/sitemap-thread-%d.xml", baseURL, i), LastMod: today})
	}

	// build XML directly to avoid template auto-escaping
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`)
	for _, entry := range templates {
		buf.WriteString("  <sitemap>\n")
		buf.WriteString("    <loc>")
		buf.WriteString(entry.Loc)
		buf.WriteString("</loc>\n")
		buf.WriteString("    <lastmod>")
		buf.WriteString(entry.LastMod)
		buf.WriteString("</lastmod>\n")
		buf.WriteString("  </sitemap>\n")
	}
	buf.WriteString("</sitemapindex>")

	s.cacheMu.Lock()
	s.cache = buf.Bytes()
	s.lastModify = time.Now()
	s.cacheMu.Unlock()

	return buf.Bytes(), nil
}

// GetNewsSitemap one shard of published article URLs
func (s *SitemapService) GetNewsSitemap(ctx context.Context, page int) ([]byte, error) {
	baseURL := s.config.BaseURL
	offset := (page - 1) * s.config.MaxURLs

	items, err := s.newsRepo.GetSitemapList(ctx, offset, s.config.MaxURLs)
	if err != nil {
		return nil, fmt.Errorf("news sitemap list: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`)
	for _, item := range items {
		lastmod := item.UpdatedAt
		if item.PublishedAt != nil && item.PublishedAt.After(lastmod) {
			lastmod = *item.PublishedAt
		}
		buf.WriteString("  <url>\n")
		buf.WriteString("    <loc>")
		buf.WriteString(fmt.Sprintf("%s/news/%d", baseURL, item.Nid))
		buf.WriteString("</loc>\n")
		buf.WriteString("    <lastmod>")
		buf.WriteString(lastmod.Format("2006-01-02"))
		buf.WriteString("</lastmod>\n")
		buf.WriteString("    <changefreq>weekly</changefreq>\n")
		buf.WriteString("    <priority>0.8</priority>\n")
		buf.WriteString("  </url>\n")
	}
	buf.WriteString("</urlset>")

	return buf.Bytes(), nil
}

// GetThreadSitemap one shard of forum thread URLs
func (s *SitemapService) GetThreadSitemap(ctx context.Context, page int) ([]byte, error) {
	baseURL := s.config.BaseURL
	offset := (page - 1) * s.config.MaxURLs

	threads, err := s.threadRepo.GetSitemapList(ctx, offset, s.config.MaxURLs)
	if err != nil {
		return nil, fmt.Errorf("thread sitemap list: %w", err)
	}
	if len(threads) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`)
	for _, t := range threads {
		buf.WriteString("  <url>\n")
		buf.WriteString("    <loc>")
		buf.WriteString(fmt.Sprintf("%s/forum/%d", baseURL, t.Tid))
		buf.WriteString("</loc>\n")
		buf.WriteString("    <lastmod>")
		buf.WriteString(t.UpdatedAt.Format("2006-01-02"))
		buf.WriteString("</lastmod>\n")
		buf.WriteString("    <changefreq>daily</changefreq>\n")
		buf.WriteString("    <priority>0.6</priority>\n")
		buf.WriteString("  </url>\n")
	}
	buf.WriteString("</urlset>")

	return buf.Bytes(), nil
}

func shardCount(total, per int) int {
	pages := (total + per - 1) / per
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Handler serves the sitemap endpoints
type Handler struct {
	svc *SitemapService
}

// NewHandler create sitemap handler
func NewHandler(svc *SitemapService) *Handler {
	return &Handler{svc: svc}
}

// SitemapIndex GET /sitemap.xml
func (h *Handler) SitemapIndex(c *gin.Context) {
	data, err := h.svc.GetIndex(c.Request.Context())
	if err != nil {
		c.String(500, "internal server error")
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.Data(200, "application/xml", data)
}

// NewsSitemap GET /sitemap-news-:page.xml
func (h *Handler) NewsSitemap(c *gin.Context) {
	data, err := h.svc.GetNewsSitemap(c.Request.Context(), pageParam(c))
	if err != nil {
		c.String(500, "internal server error")
		return
	}
	if data == nil {
		c.Status(404)
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.Data(200, "application/xml", data)
}

// ThreadSitemap GET /sitemap-thread-:page.xml
func (h *Handler) ThreadSitemap(c *gin.Context) {
	data, err := h.svc.GetThreadSitemap(c.Request.Context(), pageParam(c))
	if err != nil {
		c.String(500, "internal server error")
		return
	}
	if data == nil {
		c.Status(404)
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.Data(200, "application/xml", data)
}

func pageParam(c *gin.Context) int {
	page := 1
	fmt.Sscanf(c.Param("page"), "%d", &page)
	if page < 1 {
		page = 1
	}
	return page
}
