package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"toolscout/internal/handlers"
	"toolscout/internal/middlewares"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	pm := middlewares.NewPrometheusMiddleware()
	r.Use(middlewares.CorsMiddleware)
	r.Use(middlewares.RateLimit)
	r.Use(pm.Instrument)

	ch := handlers.NewCommonHandler(s.db)
	r.HandleFunc("/", ch.HelloHandler)
	r.HandleFunc("/health", ch.HealthHandler)
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	s.registerToolRoutes(r)
	s.registerEngagementRoutes(r)
	s.registerSearchRoutes(r)
	s.registerAuthRoutes(r)
	s.registerAgentRoutes(r)

	return r
}

func (s *Server) registerToolRoutes(r *mux.Router) {
	th := handlers.NewToolHandler(s.discoveryService, s.assetService)

	r.Handle("/api/tools", middlewares.OptionalAuthMiddleware(http.HandlerFunc(th.ListTools))).Methods("GET", "OPTIONS")
	r.Handle("/api/tools", middlewares.AuthMiddleware(http.HandlerFunc(th.CreateTool))).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/tools/facets", th.GetFacets).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/tools/suggest", th.Suggest).Methods("GET", "OPTIONS")
	r.Handle("/api/tools/{slug}", middlewares.OptionalAuthMiddleware(http.HandlerFunc(th.GetToolBySlug))).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/tools/{slug}/logo", th.GetToolLogo).Methods("GET", "OPTIONS")
}

func (s *Server) registerEngagementRoutes(r *mux.Router) {
	eh := handlers.NewEngagementHandler(s.engagementService)

	r.Handle("/api/engagement", middlewares.AuthMiddleware(http.HandlerFunc(eh.GetEngagement))).Methods("GET", "OPTIONS")
	r.Handle("/api/engagement/save/{id}", middlewares.AuthMiddleware(http.HandlerFunc(eh.ToggleSave))).Methods("POST", "OPTIONS")
	r.Handle("/api/engagement/upvote/{id}", middlewares.AuthMiddleware(http.HandlerFunc(eh.ToggleUpvote))).Methods("POST", "OPTIONS")
	r.Handle("/api/engagement/orphans", middlewares.AuthMiddleware(http.HandlerFunc(eh.GetOrphans))).Methods("GET", "OPTIONS")
	r.Handle("/api/engagement/orphans", middlewares.AuthMiddleware(http.HandlerFunc(eh.PruneOrphans))).Methods("DELETE", "OPTIONS")
}

func (s *Server) registerSearchRoutes(r *mux.Router) {
	sh := handlers.NewSearchHandler(s.searchService)

	r.Handle("/api/searches/recent", middlewares.AuthMiddleware(http.HandlerFunc(sh.GetRecentSearches))).Methods("GET", "OPTIONS")
	r.Handle("/api/searches", middlewares.AuthMiddleware(http.HandlerFunc(sh.CommitSearch))).Methods("POST", "OPTIONS")
}

func (s *Server) registerAuthRoutes(r *mux.Router) {
	uh := handlers.NewUserHandler(s.userService)
	ah := handlers.NewAuthHandler(s.authService, s.otpService)

	r.HandleFunc("/api/auth/register", uh.Register).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/login", uh.Login).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/forgot-password", ah.ForgotPassword).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/reset-password", ah.ResetPassword).Methods("POST", "OPTIONS")
	r.Handle("/api/me", middlewares.AuthMiddleware(http.HandlerFunc(uh.GetMyProfile))).Methods("GET", "OPTIONS")
	r.Handle("/api/me", middlewares.AuthMiddleware(http.HandlerFunc(uh.UpdateMyProfile))).Methods("PATCH", "PUT", "OPTIONS")
	r.Handle("/api/me", middlewares.AuthMiddleware(http.HandlerFunc(uh.DeleteMyProfile))).Methods("DELETE", "OPTIONS")

	r.HandleFunc("/api/auth/success", ah.AuthSuccess).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/auth/error", ah.AuthError).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/auth/{provider}", ah.ProviderAuth).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/auth/{provider}/callback", ah.ProviderCallback).Methods("GET", "OPTIONS")
}

func (s *Server) registerAgentRoutes(r *mux.Router) {
	ah := handlers.NewAgentHandler(s.agentService)
	r.Handle("/api/agent/summarize/{slug}", middlewares.AuthMiddleware(http.HandlerFunc(ah.SummarizeTool))).Methods("POST", "OPTIONS")
}
