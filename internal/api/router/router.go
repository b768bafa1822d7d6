package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tajious/visitdesk/internal/api/handlers"
	"github.com/tajious/visitdesk/internal/middleware"
	"github.com/tajious/visitdesk/internal/session"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	Dashboard     *handlers.DashboardHandler
	Visits        *handlers.VisitHandler
	Catalogue     *handlers.CatalogueHandler
	Users         *handlers.UserHandler
	Groups        *handlers.GroupHandler
	Notifications *handlers.NotificationHandler
	Reports       *handlers.ReportHandler
	Exports       *handlers.ExportHandler
}

type Router struct {
	app            *fiber.App
	handlers       Handlers
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter
}

func NewRouter(
	app *fiber.App,
	h Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		app:            app,
		handlers:       h,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
	}
}

func (r *Router) SetupRoutes() {
	api := r.app.Group("/api")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Public routes
	api.Post("/auth/login", r.rateLimiter.RateLimit("login"), r.handlers.Auth.Login)
	api.Post("/auth/logout", r.handlers.Auth.Logout)

	// Any signed-in viewer
	signedIn := r.authMiddleware.Require(session.RequireAny)
	api.Get("/session", signedIn, r.handlers.Auth.Session)
	api.Put("/session/profile", signedIn, r.handlers.Auth.UpdateProfile)

	api.Get("/visits", signedIn, r.handlers.Visits.List)
	api.Post("/visits", signedIn, r.handlers.Visits.Create)
	api.Put("/visits/:id", signedIn, r.handlers.Visits.Update)
	api.Delete("/visits/:id", signedIn, r.handlers.Visits.Delete)

	api.Get("/categories", signedIn, r.handlers.Catalogue.ListCategories)
	api.Post("/categories", signedIn, r.handlers.Catalogue.CreateCategory)
	api.Delete("/categories/:id", signedIn, r.handlers.Catalogue.DeleteCategory)
	api.Get("/products", signedIn, r.handlers.Catalogue.ListProducts)
	api.Post("/products", signedIn, r.handlers.Catalogue.CreateProduct)
	api.Delete("/products/:id", signedIn, r.handlers.Catalogue.DeleteProduct)

	api.Get("/notifications", signedIn, r.handlers.Notifications.List)
	api.Get("/notifications/stream", signedIn, r.handlers.Notifications.Stream)
	api.Put("/notifications/:id/read", signedIn, r.handlers.Notifications.MarkRead)
	api.Delete("/notifications/:id", signedIn, r.handlers.Notifications.Delete)

	api.Get("/reports", signedIn, r.handlers.Reports.List)
	api.Post("/reports", signedIn, r.handlers.Reports.Create)
	api.Put("/reports/:id", signedIn, r.handlers.Reports.Update)

	api.Get("/exports/visits.pdf", signedIn, r.handlers.Exports.Visits)
	api.Get("/exports/reports.pdf", signedIn, r.handlers.Exports.Reports)
	api.Post("/exports/snapshot", signedIn, r.handlers.Exports.Snapshot)

	// Admin only
	admin := api.Group("/admin", r.authMiddleware.Require(session.RequireAdmin))
	admin.Get("/dashboard", r.handlers.Dashboard.Admin)
	admin.Get("/users", r.handlers.Users.List)
	admin.Post("/users", r.handlers.Users.Create)
	admin.Put("/users/:id", r.handlers.Users.Update)
	admin.Put("/users/:id/password", r.handlers.Users.ChangePassword)
	admin.Delete("/users/:id", r.handlers.Users.Delete)
	admin.Get("/usergroups", r.handlers.Groups.List)
	admin.Post("/usergroups", r.handlers.Groups.Create)
	admin.Put("/usergroups/:id", r.handlers.Groups.Update)
	admin.Delete("/usergroups/:id", r.handlers.Groups.Delete)
	admin.Post("/usergroups/:id/assign", r.handlers.Groups.Assign)
	admin.Post("/usergroups/:id/remove", r.handlers.Groups.Remove)
	admin.Get("/reports/all-visits", r.handlers.Reports.AllVisits)

	// Non-admin home
	user := api.Group("/user", r.authMiddleware.Require(session.RequireUser))
	user.Get("/dashboard", r.handlers.Dashboard.User)
}
