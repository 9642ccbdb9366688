package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	_ "github.com/joho/godotenv/autoload"

	"toolscout/internal/assetcache"
	"toolscout/internal/database"
	"toolscout/internal/kvstore"
	"toolscout/internal/middlewares"
	"toolscout/internal/repositories"
	"toolscout/internal/services"
)

type Server struct {
	port              int
	httpServer        *http.Server
	db                database.Service
	userService       services.UserService
	discoveryService  services.DiscoveryService
	engagementService services.EngagementService
	searchService     services.SearchService
	assetService      services.AssetService
	agentService      *services.AgentService
	authService       services.AuthService
	otpService        services.OTPService
}

// newKVStore picks Redis when REDIS_ADDR is set, otherwise an in-process map.
func newKVStore() kvstore.Store {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Info().Msg("REDIS_ADDR not set, using in-memory key-value store")
		return kvstore.NewMemory()
	}

	db := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsed, err := strconv.Atoi(dbStr); err == nil {
			db = parsed
		}
	}
	return kvstore.NewRedis(addr, os.Getenv("REDIS_PASSWORD"), db, "toolscout:")
}

func NewServer() *Server {
	portStr := os.Getenv("PORT")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Error().Err(err).Str("port", portStr).Msg("Invalid PORT environment variable. Using default 8080.")
		port = 8080
	}

	db := database.New()
	kv := newKVStore()

	userRepo := repositories.NewUserRepository(db)
	toolRepo := repositories.NewToolRepository(db)
	otpRepo := repositories.NewOTPRepository(db, userRepo)

	engagementService := services.NewEngagementService(userRepo, toolRepo)
	emailService := services.NewEmailService()

	s := &Server{
		port:              port,
		db:                db,
		userService:       services.NewUserService(userRepo),
		discoveryService:  services.NewDiscoveryService(toolRepo, engagementService),
		engagementService: engagementService,
		searchService:     services.NewSearchService(kv),
		assetService:      services.NewAssetService(toolRepo, assetcache.New(kv)),
		agentService:      services.NewAgentService(toolRepo),
		authService:       services.NewAuthService(userRepo),
		otpService:        services.NewOTPService(userRepo, otpRepo, emailService),
	}

	services.InitializeGoth()
	go middlewares.CleanupVisitors()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	log.Info().Int("port", s.port).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}

	log.Info().Msg("Server exiting")
	done <- true
}
