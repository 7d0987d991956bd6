package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/coneno/logger"
	"github.com/joho/godotenv"
	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

const (
	ENV_GIN_DEBUG_MODE = "GIN_DEBUG_MODE"
	ENV_LOG_LEVEL      = "LOG_LEVEL"

	ENV_ENROLLMENT_PORTAL_LISTEN_PORT = "ENROLLMENT_PORTAL_LISTEN_PORT"
	ENV_CORS_ALLOW_ORIGINS            = "CORS_ALLOW_ORIGINS"

	ENV_BRIDGE_ENDPOINT     = "BRIDGE_ENDPOINT"
	ENV_BRIDGE_APP_ID       = "BRIDGE_APP_ID"
	ENV_BRIDGE_SUB_STUDY_ID = "BRIDGE_SUB_STUDY_ID"
	ENV_BRIDGE_TIMEOUT      = "BRIDGE_TIMEOUT"

	ENV_SESSION_COOKIE_NAME   = "SESSION_COOKIE_NAME"
	ENV_SESSION_COOKIE_SECRET = "SESSION_COOKIE_SECRET"
	ENV_SESSION_COOKIE_SECURE = "SESSION_COOKIE_SECURE"
	ENV_SESSION_MAX_IDLE      = "SESSION_MAX_IDLE"
	ENV_SESSION_REVALIDATE    = "SESSION_REVALIDATE_AFTER"

	ENV_ANALYTICS_COLLECT_URL = "ANALYTICS_COLLECT_URL"
	ENV_ANALYTICS_TRACKING_ID = "ANALYTICS_TRACKING_ID"

	ENV_DB_MODE = "DB_MODE"

	ENV_ENROLLMENT_PORTAL_DB_CONNECTION_STR    = "ENROLLMENT_PORTAL_DB_CONNECTION_STR"
	ENV_ENROLLMENT_PORTAL_DB_USERNAME          = "ENROLLMENT_PORTAL_DB_USERNAME"
	ENV_ENROLLMENT_PORTAL_DB_PASSWORD          = "ENROLLMENT_PORTAL_DB_PASSWORD"
	ENV_ENROLLMENT_PORTAL_DB_CONNECTION_PREFIX = "ENROLLMENT_PORTAL_DB_CONNECTION_PREFIX"

	ENV_DB_TIMEOUT           = "DB_TIMEOUT"
	ENV_DB_IDLE_CONN_TIMEOUT = "DB_IDLE_CONN_TIMEOUT"
	ENV_DB_MAX_POOL_SIZE     = "DB_MAX_POOL_SIZE"
	ENV_DB_NAME_PREFIX       = "DB_DB_NAME_PREFIX"
)

const (
	dbModeMongo  = "mongo"
	dbModeMemory = "memory"

	defaultCookieName  = "mindkind_client"
	defaultMaxIdle     = 2 * time.Hour
	defaultRevalidate  = 30 * time.Second
	defaultBridgeLimit = 10 * time.Second
)

// Config is the structure that holds all global configuration data
type Config struct {
	GinDebugMode    bool
	Port            string
	AllowOrigins    []string
	LogLevel        logger.LogLevel
	DBMode          string
	DBConfig        types.DBConfig
	BridgeConfig    types.BridgeConfig
	SessionConfig   types.SessionConfig
	AnalyticsConfig types.AnalyticsConfig
}

func initConfig() Config {
	// a local .env file is optional, the environment always wins
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warning.Printf("unable to read .env file: %v", err)
	}

	conf := Config{}
	conf.GinDebugMode = os.Getenv(ENV_GIN_DEBUG_MODE) == "true"
	conf.Port = os.Getenv(ENV_ENROLLMENT_PORTAL_LISTEN_PORT)
	conf.AllowOrigins = strings.Split(os.Getenv(ENV_CORS_ALLOW_ORIGINS), ",")

	conf.LogLevel = getLogLevel()
	conf.BridgeConfig = getBridgeConfig()
	conf.SessionConfig = getSessionConfig()
	conf.AnalyticsConfig = getAnalyticsConfig()

	conf.DBMode = os.Getenv(ENV_DB_MODE)
	switch conf.DBMode {
	case dbModeMongo:
		conf.DBConfig = getDBConfig()
	case "", dbModeMemory:
		conf.DBMode = dbModeMemory
	default:
		logger.Error.Fatalf("DB_MODE: unknown mode %q", conf.DBMode)
	}

	return conf
}

func getLogLevel() logger.LogLevel {
	switch os.Getenv(ENV_LOG_LEVEL) {
	case "debug":
		return logger.LEVEL_DEBUG
	case "info":
		return logger.LEVEL_INFO
	case "error":
		return logger.LEVEL_ERROR
	case "warning":
		return logger.LEVEL_WARNING
	default:
		return logger.LEVEL_INFO
	}
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Error.Fatal(key + ": " + err.Error())
	}
	return d
}

func getBridgeConfig() types.BridgeConfig {
	endpoint := os.Getenv(ENV_BRIDGE_ENDPOINT)
	appID := os.Getenv(ENV_BRIDGE_APP_ID)
	if endpoint == "" || appID == "" {
		logger.Error.Fatal("Couldn't read bridge endpoint or app id.")
	}
	return types.BridgeConfig{
		Endpoint:   strings.TrimSuffix(endpoint, "/"),
		AppID:      appID,
		SubStudyID: os.Getenv(ENV_BRIDGE_SUB_STUDY_ID),
		Timeout:    getDuration(ENV_BRIDGE_TIMEOUT, defaultBridgeLimit),
	}
}

func getSessionConfig() types.SessionConfig {
	secret := os.Getenv(ENV_SESSION_COOKIE_SECRET)
	if len(secret) < 32 {
		logger.Error.Fatal("SESSION_COOKIE_SECRET must be at least 32 characters long")
	}
	name := os.Getenv(ENV_SESSION_COOKIE_NAME)
	if name == "" {
		name = defaultCookieName
	}
	return types.SessionConfig{
		CookieName:      name,
		CookieSecret:    []byte(secret),
		Secure:          os.Getenv(ENV_SESSION_COOKIE_SECURE) != "false",
		MaxIdle:         getDuration(ENV_SESSION_MAX_IDLE, defaultMaxIdle),
		RevalidateAfter: getDuration(ENV_SESSION_REVALIDATE, defaultRevalidate),
	}
}

func getAnalyticsConfig() types.AnalyticsConfig {
	return types.AnalyticsConfig{
		CollectURL: os.Getenv(ENV_ANALYTICS_COLLECT_URL),
		TrackingID: os.Getenv(ENV_ANALYTICS_TRACKING_ID),
	}
}

func getDBConfig() types.DBConfig {
	connStr := os.Getenv(ENV_ENROLLMENT_PORTAL_DB_CONNECTION_STR)
	username := os.Getenv(ENV_ENROLLMENT_PORTAL_DB_USERNAME)
	password := os.Getenv(ENV_ENROLLMENT_PORTAL_DB_PASSWORD)
	prefix := os.Getenv(ENV_ENROLLMENT_PORTAL_DB_CONNECTION_PREFIX) // Used in test mode
	if connStr == "" || username == "" || password == "" {
		logger.Error.Fatal("Couldn't read DB credentials.")
	}
	URI := fmt.Sprintf(`mongodb%s://%s:%s@%s`, prefix, username, password, connStr)

	var err error
	Timeout, err := strconv.Atoi(os.Getenv(ENV_DB_TIMEOUT))
	if err != nil {
		logger.Error.Fatal("DB_TIMEOUT: " + err.Error())
	}
	IdleConnTimeout, err := strconv.Atoi(os.Getenv(ENV_DB_IDLE_CONN_TIMEOUT))
	if err != nil {
		logger.Error.Fatal("DB_IDLE_CONN_TIMEOUT" + err.Error())
	}
	mps, err := strconv.Atoi(os.Getenv(ENV_DB_MAX_POOL_SIZE))
	MaxPoolSize := uint64(mps)
	if err != nil {
		logger.Error.Fatal("DB_MAX_POOL_SIZE: " + err.Error())
	}

	DBNamePrefix := os.Getenv(ENV_DB_NAME_PREFIX)

	return types.DBConfig{
		URI:             URI,
		Timeout:         Timeout,
		IdleConnTimeout: IdleConnTimeout,
		MaxPoolSize:     MaxPoolSize,
		DBNamePrefix:    DBNamePrefix,
	}
}
