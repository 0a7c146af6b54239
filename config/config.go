package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/temminks/fantastic-umbrella/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Course source URLs
	FreesamplesURL string
	RedditURL      string
	DsmendersURL   string
	DsmendersPages int
	FacebookGroups []string

	// Catalog API
	CatalogBaseURL string

	// Snapshot persistence
	SnapshotDir string

	// Worker configuration
	RunInterval time.Duration

	// Memcache configuration (rate-limit block cache)
	MemcacheAddr string

	// Redis configuration (new-coupon stream, optional)
	PublishEnabled bool
	RedisAddr      string
	RedisDB        int
	RedisStream    string
	RedisStreamMax int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamMax, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAXLEN", "1000"))
	runInterval, _ := strconv.Atoi(getEnv("RUN_INTERVAL_HOURS", "24"))
	dsmendersPages, _ := strconv.Atoi(getEnv("DSMENDERS_PAGES", "5"))

	return Config{
		FreesamplesURL: getEnv("FREESAMPLES_URL", "https://yofreesamples.com/courses/free-discounted-udemy-courses-list/"),
		RedditURL:      getEnv("REDDIT_URL", "https://www.reddit.com/r/Udemy"),
		DsmendersURL:   getEnv("DSMENDERS_URL", "https://tech.dsmenders.com/category/free-online-courses"),
		DsmendersPages: dsmendersPages,
		FacebookGroups: splitList(getEnv("FACEBOOK_GROUPS", strings.Join(defaultFacebookGroups, ","))),
		CatalogBaseURL: getEnv("CATALOG_BASE_URL", "https://www.udemy.com/api-2.0"),
		SnapshotDir:    getEnv("SNAPSHOT_DIR", "./udemy-courses"),
		RunInterval:    time.Duration(runInterval) * time.Hour,
		MemcacheAddr:   getEnv("MEMCACHE_ADDR", "localhost:11211"),
		PublishEnabled: getEnv("PUBLISH_ENABLED", "false") == "true",
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:        redisDB,
		RedisStream:    getEnv("REDIS_STREAM", "free-courses"),
		RedisStreamMax: redisStreamMax,
		Environment:    getEnv("GRABBER_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for obvious mistakes
func (c *Config) Validate() error {
	if c.CatalogBaseURL == "" {
		return errors.NewConfiguration("catalog base URL must not be empty", nil)
	}
	if c.SnapshotDir == "" {
		return errors.NewConfiguration("snapshot directory must not be empty", nil)
	}
	if c.RunInterval <= 0 {
		return errors.NewConfiguration("run interval must be positive", nil)
	}
	if c.DsmendersPages <= 0 {
		return errors.NewConfiguration("dsmenders page count must be positive", nil)
	}
	if c.PublishEnabled && c.RedisAddr == "" {
		return errors.NewConfiguration("redis address required when publishing is enabled", nil)
	}
	return nil
}

// Hand-maintained group pages. Group slugs and numeric IDs both appear;
// facebook serves either form.
var defaultFacebookGroups = []string{
	"https://www.facebook.com/groups/FreeUdemyCoursesOnline/",
	"https://www.facebook.com/groups/freeudemycouponscourses/",
	"https://www.facebook.com/groups/1602890986642463/",
	"https://www.facebook.com/Udemy.Bargains/",
	"https://www.facebook.com/FreeOnlineCoursesCoupon/",
	"https://www.facebook.com/groups/DiscountedUdemyCoursesOnline",
	"https://web.facebook.com/groups/677040975746787",
	"https://web.facebook.com/groups/eLearningTrainingCourses",
	"https://web.facebook.com/groups/OnlineCoursesUdemy/",
	"https://web.facebook.com/groups/427365844137526",
	"https://web.facebook.com/groups/BestUdemyCourses",
	"https://web.facebook.com/groups/freecoursesudemy",
	"https://web.facebook.com/groups/1858168261178187",
	"https://web.facebook.com/groups/freeanddiscountedudemycoursecoupons",
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma-separated list, dropping empty entries
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
