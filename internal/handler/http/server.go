package http

import (
	"net/http"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/analytics"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/auth"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/repository"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/service"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Server wires the HTTP handlers together
type Server struct {
	authHandlers    *auth.AuthHandlers
	linksHandler    *LinksHandler
	bioHandler      *BioHandler
	redirectHandler *RedirectHandler
	adminHandler    *AdminHandler
	healthHandler   *HealthHandler
	authMiddleware  *auth.Middleware
	log             *zap.Logger
}

func NewServer(
	storage repository.Storage,
	shortener *service.URLShortenerService,
	processor *analytics.Processor,
	authHandlers *auth.AuthHandlers,
	authMiddleware *auth.Middleware,
	log *zap.Logger,
) *Server {
	return &Server{
		authHandlers:    authHandlers,
		linksHandler:    NewLinksHandler(storage, shortener, log),
		bioHandler:      NewBioHandler(storage, log),
		redirectHandler: NewRedirectHandler(shortener, processor, log),
		adminHandler:    NewAdminHandler(storage, log),
		healthHandler:   NewHealthHandler(storage, processor, log),
		authMiddleware:  authMiddleware,
		log:             log,
	}
}

// SetupRoutes builds the route table. Literal segments take precedence over
// the catch-all redirect patterns, so API and probe paths never shadow short
// codes and vice versa.
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Probes and runtime metrics
	mux.HandleFunc("GET /health", s.healthHandler.Health)
	mux.HandleFunc("GET /ready", s.healthHandler.Ready)
	mux.HandleFunc("GET /metrics", s.healthHandler.Metrics)

	// Swagger documentation. Kept under /api/ so the subtree cannot overlap
	// the two-segment redirect wildcard, which would make route
	// registration panic.
	mux.Handle("GET /api/swagger/", httpSwagger.WrapHandler)

	// Auth endpoints
	mux.HandleFunc("POST /api/auth/register", s.authHandlers.Register)
	mux.HandleFunc("POST /api/auth/login", s.authHandlers.Login)
	mux.HandleFunc("POST /api/auth/forgot-password", s.authHandlers.ForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password", s.authHandlers.ResetPassword)

	// Link management
	requireAuth := s.authMiddleware.RequireAuth
	mux.HandleFunc("POST /api/links", requireAuth(s.linksHandler.CreateLink))
	mux.HandleFunc("GET /api/links", requireAuth(s.linksHandler.ListLinks))
	mux.HandleFunc("GET /api/links/{id}", requireAuth(s.linksHandler.GetLink))
	mux.HandleFunc("PUT /api/links/{id}", requireAuth(s.linksHandler.UpdateLink))
	mux.HandleFunc("DELETE /api/links/{id}", requireAuth(s.linksHandler.DeleteLink))
	mux.HandleFunc("GET /api/links/{id}/clicks", requireAuth(s.linksHandler.ListClicks))
	mux.HandleFunc("GET /api/links/{id}/stats", requireAuth(s.linksHandler.GetStats))

	// Bio pages
	mux.HandleFunc("POST /api/bios", requireAuth(s.bioHandler.CreateBio))
	mux.HandleFunc("GET /api/bios", requireAuth(s.bioHandler.ListBios))
	mux.HandleFunc("GET /api/bios/{id}", requireAuth(s.bioHandler.GetBio))
	mux.HandleFunc("PUT /api/bios/{id}", requireAuth(s.bioHandler.UpdateBio))
	mux.HandleFunc("DELETE /api/bios/{id}", requireAuth(s.bioHandler.DeleteBio))
	mux.HandleFunc("POST /api/bios/{id}/links", requireAuth(s.bioHandler.AttachLink))
	mux.HandleFunc("DELETE /api/bios/{id}/links/{linkID}", requireAuth(s.bioHandler.DetachLink))
	mux.HandleFunc("GET /api/bios/{id}/view", s.bioHandler.ViewBio)

	// Admin listings
	requireAdmin := s.authMiddleware.RequireAdmin
	mux.HandleFunc("GET /api/admin/users", requireAdmin(s.adminHandler.ListUsers))
	mux.HandleFunc("GET /api/admin/links", requireAdmin(s.adminHandler.ListLinks))
	mux.HandleFunc("GET /api/admin/bios", requireAdmin(s.adminHandler.ListBios))
	mux.HandleFunc("GET /api/admin/bio-links", requireAdmin(s.adminHandler.ListBioLinks))

	// Public redirects
	mux.HandleFunc("GET /{code}", s.redirectHandler.HandleShortCode)
	mux.HandleFunc("GET /{id}/{segment}", s.redirectHandler.HandleIDSegment)

	// CORS wraps the whole table so preflight requests are answered for
	// every route
	return http.HandlerFunc(s.authMiddleware.CORS(mux.ServeHTTP))
}
