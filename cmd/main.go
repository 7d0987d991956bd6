package main

import (
	"net/http"
	"time"

	"github.com/coneno/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/mindkind-study/enrollment-portal/pkg/analytics"
	"github.com/mindkind-study/enrollment-portal/pkg/bridge"
	"github.com/mindkind-study/enrollment-portal/pkg/db"
	"github.com/mindkind-study/enrollment-portal/pkg/http/handlers"
	mw "github.com/mindkind-study/enrollment-portal/pkg/http/middlewares"
	"github.com/mindkind-study/enrollment-portal/pkg/sampler"
	"github.com/mindkind-study/enrollment-portal/pkg/session"
)

const cleanUpInterval = 10 * time.Minute

var conf Config

func init() {
	conf = initConfig()
	if !conf.GinDebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.SetLevel(conf.LogLevel)
}

func healthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func initDBService(instanceID string) db.DBService {
	if conf.DBMode == dbModeMongo {
		dbService := db.NewEnrollmentDBService(conf.DBConfig)
		dbService.CreateIndexes(instanceID)
		return dbService
	}
	logger.Warning.Println("using in-memory storage, state is lost on restart")
	return db.NewMemoryDBService()
}

func initAnalytics() analytics.Sink {
	if conf.AnalyticsConfig.CollectURL == "" {
		return analytics.LogSink{}
	}
	return analytics.NewCollectorSink(conf.AnalyticsConfig.CollectURL, conf.AnalyticsConfig.TrackingID)
}

// startCleanUp drops idle client state and abandoned wizards.
func startCleanUp(registry *session.Registry, dbService db.DBService, instanceID string) {
	ticker := time.NewTicker(cleanUpInterval)
	go func() {
		for range ticker.C {
			dropped := registry.Sweep(conf.SessionConfig.MaxIdle)
			updatedBefore := time.Now().Add(-conf.SessionConfig.MaxIdle).Unix()
			count, err := dbService.CleanUpStaleWizards(instanceID, updatedBefore)
			if err != nil {
				logger.Error.Printf("unable to clean up stale wizards: %v", err)
				continue
			}
			if dropped > 0 || count > 0 {
				logger.Debug.Printf("clean up removed %d clients and %d wizards, %d clients active", dropped, count, registry.Len())
			}
		}
	}()
}

func main() {
	logger.Info.Println("Starting enrollment-portal")

	bridgeClient := bridge.NewClient(conf.BridgeConfig)
	instanceID := bridgeClient.AppID()

	dbService := initDBService(instanceID)
	armSampler := sampler.NewSampler(instanceID, dbService, nil)

	registry := session.NewRegistry()
	cookieStore := sessions.NewCookieStore(conf.SessionConfig.CookieSecret)
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(conf.SessionConfig.MaxIdle.Seconds()),
		Secure:   conf.SessionConfig.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	startCleanUp(registry, dbService, instanceID)

	// Start webserver
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     conf.AllowOrigins,
		AllowMethods:     []string{"POST", "GET", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Content-Length", bridge.SessionHeader},
		ExposeHeaders:    []string{"Authorization", "Content-Type", "Content-Length", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.GET("/", healthCheckHandle)
	apiRoot := router.Group("")
	apiRoot.Use(
		mw.ClientState(cookieStore, conf.SessionConfig.CookieName, registry),
		mw.RefreshSession(bridgeClient, conf.BridgeConfig.Timeout, conf.SessionConfig.RevalidateAfter),
		mw.AccessGate(),
	)

	apiHandlers := handlers.NewHTTPHandler(
		instanceID,
		dbService,
		bridgeClient,
		armSampler,
		initAnalytics(),
	)
	apiHandlers.AddEligibilityAPI(apiRoot)
	apiHandlers.AddRegistrationAPI(apiRoot)
	apiHandlers.AddLoginAPI(apiRoot)
	apiHandlers.AddConsentAPI(apiRoot)
	apiHandlers.AddDashboardAPI(apiRoot)

	logger.Info.Printf("enrollment portal is listening on port %s", conf.Port)
	logger.Error.Fatal(router.Run(":" + conf.Port))
}
