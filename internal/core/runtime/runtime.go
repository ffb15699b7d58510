package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/logger"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/service"
)

// Runtime process-wide warm data. Loaded once at startup so the first
// requests do not all stampede the database.
type Runtime struct {
	faqListing []*service.CategoryDTO
	config     map[string]string
	mu         sync.RWMutex
	loadedAt   time.Time
}

// Singleton instance
var rt *Runtime
var once sync.Once

// RuntimeConfig warmup dependencies
type RuntimeConfig struct {
	FaqSvc    *service.FaqService
	ThreadSvc *service.ThreadService
	SiteName  string
	BaseURL   string
}

// Init initialize the Runtime
func Init(cfg *RuntimeConfig) error {
	var initErr error
	once.Do(func() {
		rt = &Runtime{
			config: make(map[string]string),
		}
		initErr = rt.warmup(cfg)
	})
	return initErr
}

// Get runtime instance
func Get() *Runtime {
	return rt
}

// warmup preload rarely-changing data
func (r *Runtime) warmup(cfg *RuntimeConfig) error {
	ctx := context.Background()
	start := time.Now()

	logger.Info("runtime warmup started")

	// 1. FAQ catalogue (also primes the service caches)
	if cfg.FaqSvc != nil {
		listing, err := cfg.FaqSvc.Listing(ctx)
		if err != nil {
			logger.Error("warmup faq listing failed", logger.String("error", err.Error()))
		} else {
			r.mu.Lock()
			r.faqListing = listing
			r.mu.Unlock()
			logger.Info("warmup faq listing", logger.Int("categories", len(listing)))
		}
	}

	// 2. first forum page, pinned threads included
	if cfg.ThreadSvc != nil {
		if _, err := cfg.ThreadSvc.List(ctx, "latest", 1, nil); err != nil {
			logger.Error("warmup thread listing failed", logger.String("error", err.Error()))
		}
	}

	// 3. site config
	r.mu.Lock()
	r.config["site_name"] = cfg.SiteName
	r.config["base_url"] = cfg.BaseURL
	r.mu.Unlock()

	r.loadedAt = time.Now()

	logger.Info("runtime warmup completed", logger.Duration("duration", time.Since(start)))

	return nil
}

// Reload refresh all warm data
func (r *Runtime) Reload(cfg *RuntimeConfig) error {
	return r.warmup(cfg)
}

// GetFaqListing warm FAQ catalogue
func (r *Runtime) GetFaqListing() []*service.CategoryDTO {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.faqListing
}

// GetConfig site config value
func (r *Runtime) GetConfig(key string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config[key]
}

// SetConfig set a site config value
func (r *Runtime) SetConfig(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config[key] = value
}

// GetLoadedAt last warmup time
func (r *Runtime) GetLoadedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadedAt
}

// FormatLoadedTime last warmup time as text
func (r *Runtime) FormatLoadedTime() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadedAt.Format("2006-01-02 15:04:05")
}

// Status runtime state for the health endpoint
func (r *Runtime) Status() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return map[string]interface{}{
		"faq_categories": len(r.faqListing),
		"config_count":   len(r.config),
		"loaded_at":      r.loadedAt.Format("2006-01-02 15:04:05"),
	}
}

// WarmUpLog one-line warmup summary
func WarmUpLog() string {
	if rt == nil {
		return "runtime not initialized"
	}
	return fmt.Sprintf("FAQ categories: %d, Loaded: %s",
		len(rt.faqListing), rt.FormatLoadedTime())
}
