package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/config"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/logger"
)

// IPWhitelistConfig admin-area IP restrictions
type IPWhitelistConfig struct {
	AllowIPs []string // allowed IPs, CIDR supported
	DenyIPs  []string
}

type ipChecker struct {
	allowNets []*net.IPNet
	denyNets  []*net.IPNet
	allowSet  map[string]bool
	denySet   map[string]bool
}

func newIPChecker(cfg *IPWhitelistConfig) (*ipChecker, error) {
	c := &ipChecker{
		allowSet: make(map[string]bool),
		denySet:  make(map[string]bool),
	}

	for _, ip := range cfg.AllowIPs {
		ip = strings.TrimSpace(ip)
		if ip == "" {
			continue
		}

		if _, net, err := net.ParseCIDR(ip); err == nil {
			c.allowNets = append(c.allowNets, net)
		} else {
			c.allowSet[ip] = true
		}
	}

	for _, ip := range cfg.DenyIPs {
		ip = strings.TrimSpace(ip)
		if ip == "" {
			continue
		}

		if _, net, err := net.ParseCIDR(ip); err == nil {
			c.denyNets = append(c.denyNets, net)
		} else {
			c.denySet[ip] = true
		}
	}

	return c, nil
}

// isLocalIP loopback or private-range IP, v4 and v6
func isLocalIP(ipStr string) bool {
	if ipStr == "localhost" || ipStr == "127.0.0.1" || ipStr == "::1" {
		return true
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}

	if ipv4 := ip.To4(); ipv4 != nil {
		if ipv4[0] == 192 && ipv4[1] == 168 {
			return true
		}
		if ipv4[0] == 10 {
			return true
		}
		if ipv4[0] == 172 && ipv4[1] >= 16 && ipv4[1] <= 31 {
			return true
		}
		if ipv4[0] == 127 {
			return true
		}
	}

	return ip.IsLoopback()
}

func (c *ipChecker) isAllowed(ipStr string) bool {
	if isLocalIP(ipStr) {
		if c.allowSet[ipStr] {
			return true
		}
		if len(c.allowSet) == 0 && len(c.allowNets) == 0 {
			return true
		}
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}

	for _, net := range c.denyNets {
		if net.Contains(ip) {
			return false
		}
	}
	if c.denySet[ipStr] {
		return false
	}

	for _, net := range c.allowNets {
		if net.Contains(ip) {
			return true
		}
	}
	return c.allowSet[ipStr]
}

func isLocalOrAllowedIP(clientIP string, checker *ipChecker) bool {
	if isLocalIP(clientIP) {
		return true
	}
	return checker != nil && checker.isAllowed(clientIP)
}

// AdminWhitelistMW restricts the back office to local networks and
// explicitly whitelisted IPs.
func AdminWhitelistMW() gin.HandlerFunc {
	cfg := config.Get()
	whitelistCfg := &IPWhitelistConfig{
		AllowIPs: cfg.Security.AllowIPs,
		DenyIPs:  cfg.Security.DenyIPs,
	}

	checker, err := newIPChecker(whitelistCfg)
	if err != nil {
		logger.Error("failed to create IP whitelist checker",
			logger.String("error", err.Error()))
	}

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		realIP := c.GetHeader("X-Real-IP")

		// behind a proxy X-Real-IP carries the caller
		if realIP != "" && isLocalOrAllowedIP(realIP, checker) {
			c.Next()
			return
		}

		if isLocalOrAllowedIP(clientIP, checker) {
			c.Next()
			return
		}

		logger.Warn("admin access denied: IP not in whitelist",
			logger.String("ip", clientIP),
			logger.String("real_ip", realIP),
			logger.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"code": 403,
			"msg":  "access denied: IP not in whitelist",
		})
	}
}

// IPLimiter per-IP sliding-window rate limiter
type IPLimiter struct {
	mu     sync.Mutex
	visits map[string][]int64
	limit  int
	window int64
}

// NewIPLimiter create IPLimiter
func NewIPLimiter(limit int, windowSeconds int) *IPLimiter {
	return &IPLimiter{
		visits: make(map[string][]int64),
		limit:  limit,
		window: int64(windowSeconds),
	}
}

// Allow record a visit and report whether it fits the window
func (l *IPLimiter) Allow(ip string) bool {
	now := time.Now().Unix()

	l.mu.Lock()
	defer l.mu.Unlock()

	var valid []int64
	for _, ts := range l.visits[ip] {
		if now-ts < l.window {
			valid = append(valid, ts)
		}
	}
	l.visits[ip] = valid

	if len(l.visits[ip]) >= l.limit {
		return false
	}

	l.visits[ip] = append(l.visits[ip], now)
	return true
}

// RateLimitMW rate limiting for write-heavy public endpoints
func RateLimitMW(limiter *IPLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		if !limiter.Allow(ip) {
			logger.Warn("rate limit exceeded",
				logger.String("ip", ip),
				logger.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code": 429,
				"msg":  "too many requests",
			})
			return
		}

		c.Next()
	}
}
