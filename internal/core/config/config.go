package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var v *viper.Viper
var cfg *Config

// Config App-wide configuration
type Config struct {
	Database  DatabaseConfig  `mapstructure:"-"`
	Redis     RedisConfig     `mapstructure:"-"`
	App       AppConfig       `mapstructure:"-"`
	JWT       JWTConfig       `mapstructure:"-"`
	Cache     CacheConfig     `mapstructure:"-"`
	Snowflake SnowflakeConfig `mapstructure:"-"`
	Logging   LoggingConfig   `mapstructure:"-"`
	Security  SecurityConfig  `mapstructure:"-"`
	Mail      MailConfig      `mapstructure:"-"`
	Upload    UploadConfig    `mapstructure:"-"`
	SEO       SEOConfig       `mapstructure:"-"`
}

// DatabaseConfig MySQL Database Configuration
type DatabaseConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

// RedisConfig Redis Configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// AppConfig Application Configuration
type AppConfig struct {
	Host     string
	Port     int
	Mode     string
	BaseURL  string
	SiteName string
}

// JWTConfig JWT Configuration
type JWTConfig struct {
	Secret string
	Expiry int // token lifetime in seconds
}

// CacheConfig Cache Configuration
type CacheConfig struct {
	L1Cap int // L1 capacity (entries for map caches, MB for bigcache)
	L2TTL int // L2 TTL in seconds
}

// SnowflakeConfig Snowflake Configuration
type SnowflakeConfig struct {
	WorkerID int64
}

// LoggingConfig Logging Configuration
type LoggingConfig struct {
	Level      string
	Output     string
	Filename   string
	MaxSize    int
	MaxAge     int
	MaxBackups int
}

// CORSConfig CORS Configuration
type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// SecurityConfig Security Configuration
type SecurityConfig struct {
	AllowIPs  []string // admin IP whitelist
	DenyIPs   []string // IP blacklist
	RateLimit int      // requests per window per IP
	CORS      CORSConfig
}

// MailConfig SMTP Configuration for the contact form
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	AdminTo  string // contact form destination
}

// UploadConfig Image upload storage
type UploadConfig struct {
	Dir     string
	MaxSize int64 // bytes
}

// SEOConfig Search engine integration
type SEOConfig struct {
	IndexNowKey      string
	IndexNowEndpoint string
}

// Init Initialize configuration with Viper
func Init(configPath string) error {
	v = viper.New()
	cfg = &Config{}

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// no file: defaults + env only
	}

	v.SetEnvPrefix("PITSTOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvs()

	return parseConfig()
}

// setDefaults Register default values
func setDefaults() {
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.mode", "release")
	v.SetDefault("app.base_url", "")
	v.SetDefault("app.site_name", "Pitstop")

	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 300)

	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("cache.l1_cap", 64)
	v.SetDefault("cache.l2_ttl", 3600)

	v.SetDefault("snowflake.worker_id", 0)

	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.expiry", 86400)

	v.SetDefault("security.allow_ips", []string{"127.0.0.1", "localhost", "::1"})
	v.SetDefault("security.rate_limit", 100)
	v.SetDefault("security.cors.enabled", true)
	v.SetDefault("security.cors.allowed_origins", []string{})
	v.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("security.cors.allowed_headers", []string{"Origin", "Content-Type", "Authorization"})
	v.SetDefault("security.cors.allow_credentials", true)
	v.SetDefault("security.cors.max_age", 86400)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.filename", "logs/pitstop.log")

	v.SetDefault("mail.host", "127.0.0.1")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.from", "noreply@pitstop.local")
	v.SetDefault("mail.admin_to", "admin@pitstop.local")

	v.SetDefault("upload.dir", "storage/images")
	v.SetDefault("upload.max_size", 5<<20)

	v.SetDefault("seo.indexnow_endpoint", "https://api.indexnow.org/indexnow")
}

// bindEnvs Bind environment variables
func bindEnvs() {
	v.BindEnv("database.host", "PITSTOP_DATABASE_HOST")
	v.BindEnv("database.port", "PITSTOP_DATABASE_PORT")
	v.BindEnv("database.username", "PITSTOP_DATABASE_USERNAME")
	v.BindEnv("database.password", "PITSTOP_DATABASE_PASSWORD")
	v.BindEnv("database.name", "PITSTOP_DATABASE_NAME")

	v.BindEnv("redis.host", "PITSTOP_REDIS_HOST")
	v.BindEnv("redis.port", "PITSTOP_REDIS_PORT")
	v.BindEnv("redis.password", "PITSTOP_REDIS_PASSWORD")

	v.BindEnv("jwt.secret", "PITSTOP_JWT_SECRET")

	v.BindEnv("mail.host", "PITSTOP_MAIL_HOST")
	v.BindEnv("mail.username", "PITSTOP_MAIL_USERNAME")
	v.BindEnv("mail.password", "PITSTOP_MAIL_PASSWORD")
	v.BindEnv("mail.admin_to", "PITSTOP_MAIL_ADMIN_TO")
}

// parseConfig Parse viper values into the typed config
func parseConfig() error {
	cfg.Database.Host = v.GetString("database.host")
	cfg.Database.Port = v.GetInt("database.port")
	cfg.Database.Username = v.GetString("database.username")
	cfg.Database.Password = v.GetString("database.password")
	cfg.Database.Name = v.GetString("database.name")
	cfg.Database.MaxOpenConns = v.GetInt("database.max_open_conns")
	cfg.Database.MaxIdleConns = v.GetInt("database.max_idle_conns")
	cfg.Database.ConnMaxLifetime = v.GetInt("database.conn_max_lifetime")

	cfg.Redis.Host = v.GetString("redis.host")
	cfg.Redis.Port = v.GetInt("redis.port")
	cfg.Redis.Password = v.GetString("redis.password")
	cfg.Redis.DB = v.GetInt("redis.db")
	cfg.Redis.PoolSize = v.GetInt("redis.pool_size")

	cfg.App.Host = v.GetString("app.host")
	cfg.App.Port = v.GetInt("app.port")
	cfg.App.Mode = v.GetString("app.mode")
	cfg.App.BaseURL = strings.TrimSpace(v.GetString("app.base_url"))
	cfg.App.SiteName = v.GetString("app.site_name")

	cfg.JWT.Secret = v.GetString("jwt.secret")
	cfg.JWT.Expiry = v.GetInt("jwt.expiry")

	cfg.Cache.L1Cap = v.GetInt("cache.l1_cap")
	cfg.Cache.L2TTL = v.GetInt("cache.l2_ttl")

	cfg.Snowflake.WorkerID = v.GetInt64("snowflake.worker_id")

	cfg.Logging.Level = v.GetString("logging.level")
	cfg.Logging.Output = v.GetString("logging.output")
	cfg.Logging.Filename = v.GetString("logging.filename")
	cfg.Logging.MaxSize = v.GetInt("logging.max_size")
	cfg.Logging.MaxAge = v.GetInt("logging.max_age")
	cfg.Logging.MaxBackups = v.GetInt("logging.max_backups")

	cfg.Security.AllowIPs = v.GetStringSlice("security.allow_ips")
	cfg.Security.DenyIPs = v.GetStringSlice("security.deny_ips")
	cfg.Security.RateLimit = v.GetInt("security.rate_limit")
	cfg.Security.CORS.Enabled = v.GetBool("security.cors.enabled")
	cfg.Security.CORS.AllowedOrigins = v.GetStringSlice("security.cors.allowed_origins")
	cfg.Security.CORS.AllowedMethods = v.GetStringSlice("security.cors.allowed_methods")
	cfg.Security.CORS.AllowedHeaders = v.GetStringSlice("security.cors.allowed_headers")
	cfg.Security.CORS.AllowCredentials = v.GetBool("security.cors.allow_credentials")
	cfg.Security.CORS.MaxAge = v.GetInt("security.cors.max_age")

	cfg.Mail.Host = v.GetString("mail.host")
	cfg.Mail.Port = v.GetInt("mail.port")
	cfg.Mail.Username = v.GetString("mail.username")
	cfg.Mail.Password = v.GetString("mail.password")
	cfg.Mail.From = v.GetString("mail.from")
	cfg.Mail.AdminTo = v.GetString("mail.admin_to")

	cfg.Upload.Dir = v.GetString("upload.dir")
	cfg.Upload.MaxSize = v.GetInt64("upload.max_size")

	cfg.SEO.IndexNowKey = v.GetString("seo.indexnow_key")
	cfg.SEO.IndexNowEndpoint = v.GetString("seo.indexnow_endpoint")

	return nil
}

// Get Return the config instance
func Get() *Config {
	return cfg
}

// GetDSN Get MySQL DSN
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.Username, c.Password, c.Host, c.Port, c.Name)
}

// GetRedisAddr Get Redis address
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetServerAddr Get server address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
