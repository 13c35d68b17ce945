package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/partsdesk/partsdesk/internal/auth"
	"github.com/partsdesk/partsdesk/internal/handlers"
	"github.com/partsdesk/partsdesk/internal/middleware"
	"github.com/partsdesk/partsdesk/internal/models"
	"github.com/partsdesk/partsdesk/internal/repositories"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	productHandler *handlers.ProductHandler,
	inquiryHandler *handlers.InquiryHandler,
	tokenManager *auth.TokenManager,
	accountRepo *repositories.AccountRepository,
) {
	// Rate limiting config for credential endpoints
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	// Public routes - no authentication required
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/register", authHandler.Register)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/login", authHandler.Login)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/resend-verification", authHandler.ResendVerification)
	router.Get("/auth/verify", authHandler.VerifyEmail)

	// Catalog browsing is public
	router.Get("/products", productHandler.List)
	router.Get("/products/{id}", productHandler.Get)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokenManager))

		r.Get("/me", authHandler.Me)

		r.Post("/inquiries", inquiryHandler.Submit)
		r.Get("/inquiries", inquiryHandler.ListMine)
		r.Get("/inquiries/{id}", inquiryHandler.GetMine)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(accountRepo, models.RoleAdmin))

			r.Post("/products", productHandler.Create)
			r.Put("/products/{id}", productHandler.Update)
			r.Delete("/products/{id}", productHandler.Delete)

			r.Get("/admin/inquiries", inquiryHandler.ListAll)
			r.Patch("/admin/inquiries/{id}/status", inquiryHandler.UpdateStatus)
		})
	})
}
