package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Source site
	ListingURL string
	SiteOrigin string
	CourseHost string

	// Renderer configuration
	ChromeDBAddr string
	ScrollPause  time.Duration
	MaxScrolls   int
	RenderBlock  time.Duration

	// Redis configuration (notification delivery channel)
	RedisAddr            string
	RedisDB              int
	RedisStreamPrefix    string
	RedisStreamMaxLength int

	// Memcache configuration (render-block cache)
	MemcacheAddr string

	// Dedupe store
	CacheFile string

	// Scheduling
	ScrapeInterval time.Duration
	SendDelay      time.Duration

	// Category rules file (optional, compiled-in defaults otherwise)
	RulesFile string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	interval, _ := strconv.Atoi(getEnv("SCRAPE_INTERVAL_HOURS", "24"))
	sendDelay, _ := strconv.Atoi(getEnv("SEND_DELAY_SECONDS", "20"))
	scrollPause, _ := strconv.Atoi(getEnv("SCROLL_PAUSE_SECONDS", "1"))
	maxScrolls, _ := strconv.Atoi(getEnv("MAX_SCROLLS", "5"))
	renderBlock, _ := strconv.Atoi(getEnv("RENDER_BLOCK_SECONDS", "300"))

	return Config{
		ListingURL:           getEnv("LISTING_URL", "https://www.real.discount"),
		SiteOrigin:           getEnv("SITE_ORIGIN", "https://real.discount"),
		CourseHost:           getEnv("COURSE_HOST", "udemy.com"),
		ChromeDBAddr:         getEnv("CHROMEDB_ADDR", "http://localhost:3000"),
		ScrollPause:          time.Duration(scrollPause) * time.Second,
		MaxScrolls:           maxScrolls,
		RenderBlock:          time.Duration(renderBlock) * time.Second,
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStreamPrefix:    getEnv("REDIS_STREAM_PREFIX", "coupons"),
		RedisStreamMaxLength: streamMaxLen,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		CacheFile:            getEnv("CACHE_FILE", "cache/processed_courses.json"),
		ScrapeInterval:       time.Duration(interval) * time.Hour,
		SendDelay:            time.Duration(sendDelay) * time.Second,
		RulesFile:            getEnv("RULES_FILE", ""),
		Environment:          getEnv("COUPONWORKER_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.ListingURL); err != nil {
		return fmt.Errorf("invalid LISTING_URL %q: %w", c.ListingURL, err)
	}
	if _, err := url.ParseRequestURI(c.SiteOrigin); err != nil {
		return fmt.Errorf("invalid SITE_ORIGIN %q: %w", c.SiteOrigin, err)
	}
	if c.CourseHost == "" {
		return fmt.Errorf("COURSE_HOST must not be empty")
	}
	if c.ScrapeInterval <= 0 {
		return fmt.Errorf("SCRAPE_INTERVAL_HOURS must be positive")
	}
	if c.MaxScrolls <= 0 {
		return fmt.Errorf("MAX_SCROLLS must be positive")
	}
	if c.CacheFile == "" {
		return fmt.Errorf("CACHE_FILE must not be empty")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
