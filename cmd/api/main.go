package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/api/admin"
	v1 "github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/api/v1"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/config"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/database"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/logger"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/runtime"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/snowflake"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/middleware"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/upload"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/repository"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/service"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/service/mailer"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/service/seo"
)

func main() {
	// 1. config (Viper)
	if err := config.Init("."); err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	// 2. logger
	if err := logger.Init(&cfg.Logging); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting pitstop...")

	// 3. MySQL
	if err := database.Init(&cfg.Database); err != nil {
		logger.Error("Failed to init database", logger.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	// 4. Redis (L2 cache)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	defer redisClient.Close()

	cacheConfig := &config.CacheConfig{
		L1Cap: cfg.Cache.L1Cap,
		L2TTL: cfg.Cache.L2TTL,
	}

	// 5. Snowflake
	if err := snowflake.Init(&cfg.Snowflake); err != nil {
		logger.Error("Failed to init snowflake", logger.String("error", err.Error()))
		os.Exit(1)
	}

	// 6. image store
	imageStore, err := upload.NewStore(cfg.Upload.Dir, cfg.Upload.MaxSize)
	if err != nil {
		logger.Error("Failed to init image store", logger.String("error", err.Error()))
		os.Exit(1)
	}

	// 7. repositories
	userRepo := repository.NewUserRepository(database.Get())
	newsRepo := repository.NewNewsRepository(database.Get())
	faqRepo := repository.NewFaqRepository(database.Get())
	threadRepo := repository.NewThreadRepository(database.Get())
	replyRepo := repository.NewReplyRepository(database.Get())
	favoriteRepo := repository.NewFavoriteRepository(database.Get())

	// 8. services
	userSvc := service.NewUserService(userRepo, redisClient, cacheConfig, &cfg.JWT)
	threadSvc := service.NewThreadService(threadRepo, replyRepo, userSvc, redisClient, cacheConfig)
	replySvc := service.NewReplyService(replyRepo, threadSvc)
	favoriteSvc := service.NewFavoriteService(favoriteRepo, threadSvc)
	newsSvc := service.NewNewsService(newsRepo, userSvc, imageStore, redisClient, cacheConfig)
	faqSvc := service.NewFaqService(faqRepo, redisClient, cacheConfig)
	contactMailer := mailer.NewSMTPMailer(&cfg.Mail)

	// 9. runtime warmup
	rtConfig := &runtime.RuntimeConfig{
		FaqSvc:    faqSvc,
		ThreadSvc: threadSvc,
		SiteName:  cfg.App.SiteName,
		BaseURL:   cfg.App.BaseURL,
	}
	if err := runtime.Init(rtConfig); err != nil {
		logger.Error("Failed to init runtime", logger.String("error", err.Error()))
	}
	logger.Info("Runtime warmup: " + runtime.WarmUpLog())

	// 10. SEO services
	baseURL := cfg.App.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://127.0.0.1:%d", cfg.App.Port)
	}
	sitemapSvc := seo.NewSitemapService(newsRepo, threadRepo, &seo.SitemapConfig{
		BaseURL:  baseURL,
		CacheTTL: 5 * time.Minute,
		MaxURLs:  50000,
	})
	robotsSvc := seo.NewRobotsService(&seo.RobotsConfig{
		BaseURL: baseURL,
		Sitemap: baseURL + "/sitemap.xml",
	})
	canonicalSvc := seo.NewCanonicalService(baseURL)
	var indexNowSvc *seo.IndexNowService
	if cfg.SEO.IndexNowKey != "" {
		indexNowSvc = seo.NewIndexNowService(&seo.IndexNowConfig{
			Key:      cfg.SEO.IndexNowKey,
			BaseURL:  baseURL,
			Endpoint: cfg.SEO.IndexNowEndpoint,
			RedisKey: "indexnow",
			RedisTTL: 24 * time.Hour,
		}, redisClient)
	}

	sitemapHandler := seo.NewHandler(sitemapSvc)
	robotsHandler := seo.NewRobotsHandler(robotsSvc)

	// 11. handlers
	authHandler := v1.NewAuthHandler(userSvc)
	newsHandler := v1.NewNewsHandler(newsSvc)
	faqHandler := v1.NewFaqHandler(faqSvc)
	forumHandler := v1.NewForumHandler(threadSvc, indexNowSvc)
	replyHandler := v1.NewReplyHandler(replySvc)
	favoriteHandler := v1.NewFavoriteHandler(favoriteSvc)
	profileHandler := v1.NewProfileHandler(userSvc, threadSvc, favoriteSvc)
	contactHandler := v1.NewContactHandler(contactMailer)

	adminNewsHandler := admin.NewNewsHandler(newsSvc, indexNowSvc)
	adminFaqHandler := admin.NewFaqHandler(faqSvc)
	adminUserHandler := admin.NewUserHandler(userSvc)
	adminCacheHandler := admin.NewCacheHandler(threadSvc, faqSvc, userSvc)

	// 12. router
	rateLimiter := middleware.NewIPLimiter(cfg.Security.RateLimit, 60)

	gin.SetMode(cfg.App.Mode)
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.RateLimitMW(rateLimiter))
	router.Use(middleware.CORSMiddleware())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(canonicalSvc.CanonicalMW())

	// health check
	router.GET("/health", func(c *gin.Context) {
		if err := database.Ping(); err != nil {
			c.JSON(503, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{
			"status":    "healthy",
			"runtime":   runtime.Get().Status(),
			"timestamp": time.Now().Unix(),
		})
	})

	// load balancer health check with per-dependency detail
	router.GET("/healthz", func(c *gin.Context) {
		status := "ok"
		checks := make(map[string]string)

		if err := database.Ping(); err != nil {
			status = "error"
			checks["mysql"] = err.Error()
		} else {
			checks["mysql"] = "ok"
		}

		ctx := context.Background()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			status = "error"
			checks["redis"] = err.Error()
		} else {
			checks["redis"] = "ok"
		}

		code := 200
		if status != "ok" {
			code = 503
		}
		c.JSON(code, gin.H{
			"status":    status,
			"checks":    checks,
			"timestamp": time.Now().Unix(),
		})
	})

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":    cfg.App.SiteName,
			"status":  "running",
			"version": "1.0.0",
			"runtime": runtime.WarmUpLog(),
		})
	})

	// metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// SEO routes
	router.GET("/robots.txt", robotsHandler.Get)
	router.GET("/sitemap.xml", sitemapHandler.SitemapIndex)
	router.GET("/sitemap-news-:page", sitemapHandler.NewsSitemap)
	router.GET("/sitemap-thread-:page", sitemapHandler.ThreadSitemap)
	if cfg.SEO.IndexNowKey != "" {
		key := cfg.SEO.IndexNowKey
		router.GET("/"+key+".txt", func(c *gin.Context) {
			c.String(200, key)
		})
	}

	// uploaded images
	router.Static("/uploads", cfg.Upload.Dir)

	// public API
	v1Group := router.Group("/api/v1")
	{
		// auth
		v1Group.POST("/auth/login", authHandler.Login)
		v1Group.POST("/auth/register", authHandler.Register)

		// news
		v1Group.GET("/news", newsHandler.List)
		v1Group.GET("/news/:nid", newsHandler.Show)

		// faq
		v1Group.GET("/faq", faqHandler.Listing)

		// forum, readable anonymously; permission flags need the viewer
		v1Group.GET("/forum", middleware.OptionalAuth(&cfg.JWT), forumHandler.List)
		v1Group.GET("/forum/:tid", middleware.OptionalAuth(&cfg.JWT), forumHandler.Show)

		// forum mutations
		authed := v1Group.Group("")
		authed.Use(middleware.RequireAuth(&cfg.JWT))
		{
			authed.POST("/forum", forumHandler.Create)
			authed.PUT("/forum/:tid", forumHandler.Update)
			authed.DELETE("/forum/:tid", forumHandler.Delete)
			authed.POST("/forum/:tid/pin", forumHandler.TogglePin)

			authed.POST("/forum/:tid/replies", replyHandler.Create)
			authed.PUT("/replies/:rid", replyHandler.Update)
			authed.DELETE("/replies/:rid", replyHandler.Delete)

			authed.POST("/forum/:tid/favorite", favoriteHandler.Add)
			authed.DELETE("/forum/:tid/favorite", favoriteHandler.Remove)
			authed.POST("/forum/:tid/favorite/toggle", favoriteHandler.Toggle)

			authed.PUT("/profile", profileHandler.Update)
		}

		// profiles are public; owner fields need the viewer
		v1Group.GET("/profile/:username", middleware.OptionalAuth(&cfg.JWT), profileHandler.Show)

		// contact form
		v1Group.POST("/contact", contactHandler.Submit)
	}

	// back office: IP whitelist plus admin JWT
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AdminWhitelistMW())
	adminGroup.Use(middleware.RequireAdmin(&cfg.JWT))
	adminGroup.Use(seo.DisableCache())
	{
		adminGroup.GET("/news", adminNewsHandler.List)
		adminGroup.GET("/news/:nid", adminNewsHandler.Show)
		adminGroup.POST("/news", adminNewsHandler.Create)
		adminGroup.PUT("/news/:nid", adminNewsHandler.Update)
		adminGroup.DELETE("/news/:nid", adminNewsHandler.Delete)

		adminGroup.GET("/faq", adminFaqHandler.Listing)
		adminGroup.POST("/faq/categories", adminFaqHandler.CreateCategory)
		adminGroup.PUT("/faq/categories/:cid", adminFaqHandler.UpdateCategory)
		adminGroup.DELETE("/faq/categories/:cid", adminFaqHandler.DeleteCategory)
		adminGroup.POST("/faq", adminFaqHandler.CreateFaq)
		adminGroup.PUT("/faq/:fid", adminFaqHandler.UpdateFaq)
		adminGroup.DELETE("/faq/:fid", adminFaqHandler.DeleteFaq)

		adminGroup.GET("/users", adminUserHandler.List)
		adminGroup.POST("/users/:uid/promote", adminUserHandler.Promote)
		adminGroup.POST("/users/:uid/demote", adminUserHandler.Demote)

		adminGroup.POST("/cache/flush", adminCacheHandler.Flush)
		adminGroup.GET("/runtime", adminCacheHandler.RuntimeStatus)
	}

	// 13. HTTP server
	srv := &http.Server{
		Addr:    cfg.App.GetServerAddr(),
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", logger.String("error", err.Error()))
		}
	}()

	// pprof server
	go func() {
		logger.Info("PProf server starting", logger.String("addr", "localhost:6060"))
		if err := http.ListenAndServe("localhost:6060", nil); err != nil && err != http.ErrServerClosed {
			logger.Error("PProf server error", logger.String("error", err.Error()))
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logger.String("error", err.Error()))
	}

	database.Close()
	redisClient.Close()
	logger.Sync()

	logger.Info("Server exited gracefully")
}
