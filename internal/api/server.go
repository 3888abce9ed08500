package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/cache"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/config"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/database"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/handlers"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/messaging"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/metrics"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/middleware"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/repository"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/search"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/service"
)

// Server wires the database, optional infrastructure and HTTP routes
// together. Postgres is required; NATS, Elasticsearch and Redis degrade
// gracefully when unreachable.
type Server struct {
	config     *config.Config
	router     *gin.Engine
	httpServer *http.Server

	db          *database.DB
	natsClient  *messaging.NATSClient
	searchIdx   *search.Client
	cacheClient *cache.Client
}

// NewServer connects all dependencies and registers routes.
func NewServer(cfg *config.Config) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		slog.Warn("NATS unavailable, events will not be published", "error", err.Error())
		natsClient = nil
	}

	var searchIdx *search.Client
	if cfg.Search.Enabled {
		searchIdx, err = search.NewClient(search.Config{
			URL:        cfg.Search.URL,
			Index:      cfg.Search.Index,
			Username:   cfg.Search.Username,
			Password:   cfg.Search.Password,
			MaxRetries: cfg.Search.MaxRetries,
		})
		if err != nil {
			slog.Warn("Elasticsearch unavailable, free-text search degrades to SQL filters",
				"error", err.Error())
			searchIdx = nil
		}
	}

	cacheClient, err := cache.NewClient(cache.Config{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		TrainsTTL:    cfg.Redis.TrainsTTL,
		PNRLookupTTL: cfg.Redis.PNRLookupTTL,
	})
	if err != nil {
		slog.Warn("Redis unavailable, lookups will hit the database", "error", err.Error())
		cacheClient = nil
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, natsClient, searchIdx, cfg.Auth)
	h := handlers.NewHandlers(services, cacheClient)

	s := &Server{
		config:      cfg,
		db:          db,
		natsClient:  natsClient,
		searchIdx:   searchIdx,
		cacheClient: cacheClient,
	}
	s.setupRouter(h, services)

	return s, nil
}

func (s *Server) setupRouter(h *handlers.Handlers, services *service.Services) {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(metrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/health", s.healthHandler)
	router.GET("/metrics", metrics.Handler())

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/profile", middleware.RequireAuth(services.Users), h.GetProfile)
		auth.PUT("/profile", middleware.RequireAuth(services.Users), h.UpdateProfile)
	}

	trains := api.Group("/trains")
	{
		trains.GET("", h.ListTrains)
		trains.POST("/search", h.SearchTrains)
		trains.GET("/:id", h.GetTrain)

		admin := trains.Group("", middleware.RequireAuth(services.Users), middleware.RequireAdmin())
		admin.POST("", h.CreateTrain)
		admin.PUT("/:id", h.UpdateTrain)
		admin.DELETE("/:id", h.DeleteTrain)
	}

	bookings := api.Group("/bookings")
	{
		// Public by design: a PNR is the bearer credential for status checks.
		bookings.GET("/pnr/:pnrNumber", h.LookupByPNR)

		authed := bookings.Group("", middleware.RequireAuth(services.Users))
		authed.POST("", h.CreateBooking)
		authed.GET("", h.MyBookings)
		authed.GET("/all", middleware.RequireAdmin(), h.ListAllBookings)
		authed.GET("/:id", h.GetBooking)
		authed.GET("/:id/ticket", h.DownloadTicket)
		authed.PUT("/:id/cancel", h.CancelBooking)
	}

	s.router = router
}

func (s *Server) healthHandler(c *gin.Context) {
	hc := s.db.HealthCheck(c.Request.Context())

	status := http.StatusOK
	if hc.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   hc.Status,
		"database": hc,
	})
}

// GetRouter exposes the router for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.router,
		ReadTimeout:  s.config.RequestTimeout,
		WriteTimeout: s.config.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("Starting HTTP server", "port", s.config.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests before closing connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Cleanup closes all external connections.
func (s *Server) Cleanup() {
	if s.cacheClient != nil {
		if err := s.cacheClient.Close(); err != nil {
			slog.Error("Failed to close redis client", "error", err.Error())
		}
	}
	if s.natsClient != nil {
		if err := s.natsClient.Close(); err != nil {
			slog.Error("Failed to close NATS connection", "error", err.Error())
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err.Error())
		}
	}
}
