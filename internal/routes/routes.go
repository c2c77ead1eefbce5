package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/rfoster/userboard/internal/auth"
	"github.com/rfoster/userboard/internal/handlers"
)

// RegisterRoutes registers all application routes.
//
// Every authenticated, non-blocked user may use the bulk admin
// endpoints; the contract has no admin role.
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	tokenManager *auth.TokenManager,
	userFetcher auth.UserFetcher,
) {
	// Public routes - no authentication required
	router.Post("/api/register", authHandler.Register)
	router.Get("/api/verify-email/{token}", authHandler.VerifyEmail)
	router.Post("/api/login", authHandler.Login)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokenManager, userFetcher))

		r.Get("/api/users", userHandler.ListUsers)
		r.Post("/api/users/update-status", userHandler.UpdateStatus)
		r.Post("/api/users/delete", userHandler.DeleteUsers)
		r.Post("/api/users/delete-unverified", userHandler.DeleteUnverified)
	})
}
