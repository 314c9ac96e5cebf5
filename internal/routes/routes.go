package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/mhoran-dev/relmap/internal/auth"
	"github.com/mhoran-dev/relmap/internal/handlers"
	"github.com/mhoran-dev/relmap/internal/middleware"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	graphHandler *handlers.GraphHandler,
	todoHandler *handlers.TodoHandler,
	chatHandler *handlers.ChatHandler,
	tokenManager *auth.TokenManager,
	userRepo auth.UserRepository,
) {
	// Rate limiting config for auth endpoints
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	// Public routes - no authentication required
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/register", authHandler.Register)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/login", authHandler.Login)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/refresh", authHandler.Refresh)
	router.Post("/auth/logout", authHandler.Logout)

	// The board reads publicly; writes require a session.
	router.Get("/todos", todoHandler.List)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokenManager, userRepo))

		r.Get("/auth/me", authHandler.Me)
		r.Post("/auth/password", authHandler.ChangePassword)

		r.Post("/graphs", graphHandler.Create)
		r.Get("/graphs/mine", graphHandler.ListMine)
		r.Get("/graphs/{id}", graphHandler.Get)
		r.Delete("/graphs/{id}", graphHandler.Delete)

		r.Post("/todos", todoHandler.Create)
		r.Post("/todos/{id}/vote", todoHandler.Vote)
		r.Patch("/todos/{id}", todoHandler.UpdateStatus)

		r.Post("/chat", chatHandler.Generate)
	})
}
