package internal

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/ipinfo/go/v2/ipinfo"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/repslog/server/internal/auth"
	"github.com/repslog/server/internal/backups"
	"github.com/repslog/server/internal/bodylog"
	"github.com/repslog/server/internal/catalog"
	"github.com/repslog/server/internal/config"
	"github.com/repslog/server/internal/db"
	"github.com/repslog/server/internal/geoloc"
	"github.com/repslog/server/internal/images"
	"github.com/repslog/server/internal/middleware"
	"github.com/repslog/server/internal/misc"
	"github.com/repslog/server/internal/profiles"
	"github.com/repslog/server/internal/programs"
	"github.com/repslog/server/internal/recovery"
	"github.com/repslog/server/internal/sharing"
	"github.com/repslog/server/internal/telemetry/metrics"
	"github.com/repslog/server/internal/telemetry/tracing"
	"github.com/repslog/server/internal/timers"
	"github.com/repslog/server/internal/transcriber"
	"github.com/repslog/server/internal/workouts"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	appSecret         string // used with the repslog mobile app
	versionInfo       string

	config        *config.Config
	dbPool        *pgxpool.Pool
	imagesStore   *images.Store
	quotesManager *misc.QuotesManager
	geolocService *geoloc.Service
	visionClient  *transcriber.VisionClient

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	IpInfoAPIKey            string
	AppSecret               string
	VersionInfo             string
	AdminUsername           string
	AdminPasswordHash       string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": "repslog_db"},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0) // will be set to 1 when all is set and ran

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewAuthService(&auth.Admin{
		Username:     params.AdminUsername,
		PasswordHash: params.AdminPasswordHash,
	}, auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "main-backend", rdb)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	imagesStore, err := images.NewStore(params.Config.ImagesDiskRootPath)
	if err != nil {
		return nil, fmt.Errorf("new images store: %w", err)
	}

	s := &Server{
		config:      params.Config,
		dbPool:      dbPool,
		appSecret:   params.AppSecret,
		versionInfo: params.VersionInfo,
		imagesStore: imagesStore,
		geolocService: geoloc.NewService(
			ipinfo.NewClient(tracedHttpClient, nil, params.IpInfoAPIKey),
			rdb,
		),
		visionClient: transcriber.NewVisionClient(params.Config.VisionAPIEndpoint),

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	quotesCsvFile, err := os.Open(params.Config.QuotesCsvPath)
	if err != nil {
		return nil, fmt.Errorf("open quotes file: %w", err)
	}
	defer func() {
		if err := quotesCsvFile.Close(); err != nil {
			log.Warnf("close quotes csv file: %s", err)
		}
	}()

	s.quotesManager, err = misc.NewQuoteManager(csv.NewReader(quotesCsvFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create quote manager: %s", err)
	}

	return s, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	profilesHandler := profiles.NewHandler(profiles.NewRepo(s.dbPool))
	profilesHandler.SetupRoutes(r)

	catalogService := catalog.NewService(catalog.NewRepo(s.dbPool))
	catalogHandler := catalog.NewHandler(catalogService, s.imagesStore)
	catalogHandler.SetupRoutes(r)

	workoutsRepo := workouts.NewRepo(s.dbPool)
	workoutsHandler := workouts.NewHandler(workoutsRepo, s.metricsManager)
	workoutsHandler.SetupRoutes(r)

	recoveryHandler := recovery.NewHandler(
		recovery.NewAnalyzer(workoutsRepo, catalogService),
	)
	recoveryHandler.SetupRoutes(r)

	programsHandler := programs.NewHandler(programs.NewRepo(s.dbPool))
	programsHandler.SetupRoutes(r)

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)

	transcriberHandler := transcriber.NewHandler(
		s.visionClient,
		s.imagesStore,
		catalogService,
		s.metricsManager,
	)
	transcriberHandler.SetupRoutes(r, reqRateLimiter, s.config.TranscriptionRateLimitAllowedPerMin)

	timersHandler := timers.NewHandler(timers.NewStore(s.redisClient))
	timersHandler.SetupRoutes(r)

	sharingHandler := sharing.NewHandler(
		sharing.NewRepo(s.dbPool),
		workoutsRepo,
		s.config.PublicBaseURL,
	)
	sharingHandler.SetupRoutes(r)

	bodylogHandler := bodylog.NewHandler(
		bodylog.NewService(bodylog.NewRepo(s.dbPool)),
	)
	bodylogHandler.SetupRoutes(r)

	geolocHandler := geoloc.NewHandler(s.geolocService)
	geolocHandler.SetupRoutes(r)

	miscHandler := misc.NewHandler(s.quotesManager, s.versionInfo, s.authService)
	miscHandler.SetupRoutes(r, reqRateLimiter, s.metricsManager, s.config.LoginRateLimitAllowedPerMin)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		s.appSecret,
		s.loginChecker,
	)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)

	// sessions backup report unix socket
	s.setBackupUnixSocket(ctx)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	log.Debugln("removing sessions backup unix socket ...")
	if err := os.RemoveAll(s.config.BackupUnixSocketAddrDir); err != nil {
		log.Errorf("failed to cleanup sessions backup unix socket dir: %s", err)
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}

func (s *Server) setBackupUnixSocket(ctx context.Context) {
	if err := os.MkdirAll(s.config.BackupUnixSocketAddrDir, os.ModePerm); err != nil {
		log.Errorf("failed to create sessions backup unix socket dir: %s", err)
		return
	}

	if addr, err := backups.UnixSocketListenerSetup(
		ctx,
		s.config.BackupUnixSocketAddrDir,
		s.config.BackupUnixSocketFileName,
		s.metricsManager,
	); err != nil {
		log.Errorf("failed to create sessions backup unix socket: %s", err)
	} else {
		log.Debugf("sessions backup unix socket: %s", addr)
	}
}
