package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/liberty-store/internal/application/permission"
	"github.com/jhoicas/liberty-store/internal/application/storefront"
	"github.com/jhoicas/liberty-store/pkg/config"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Factory *storefront.Factory
	JWT     config.JWTConfig
	Log     zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Clientes y catálogo (público)
	api.Post("/clients", NewClientHandler(deps.JWT).Create)
	catalogHandler := NewCatalogHandler(deps.Factory.Catalog())
	api.Get("/catalog", catalogHandler.List)
	api.Get("/catalog/:id", catalogHandler.Get)

	// Rutas con token de cliente
	client := api.Group("/", ClientMiddleware(deps.JWT.Secret, deps.Factory, deps.Log))

	authHandler := NewAuthHandler()
	authGroup := client.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/register/start", authHandler.StartRegistration)
	authGroup.Post("/verify", authHandler.Verify)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/session", RequireSession(), authHandler.Session)
	authGroup.Get("/permissions", authHandler.Permissions)

	analyticsHandler := NewAnalyticsHandler()
	client.Post("/analytics/events", analyticsHandler.Track)

	// Carrito y pedidos (sesión obligatoria)
	cartHandler := NewCartHandler(deps.Factory)
	cartGroup := client.Group("/cart", RequireSession())
	cartGroup.Get("/", cartHandler.Get)
	cartGroup.Delete("/", cartHandler.Clear)
	cartGroup.Get("/whatsapp", cartHandler.WhatsApp)
	cartGroup.Post("/items", cartHandler.AddItem)
	cartGroup.Delete("/items/:index", cartHandler.RemoveItem)
	cartGroup.Post("/items/:index/increase", cartHandler.Increase)
	cartGroup.Post("/items/:index/decrease", cartHandler.Decrease)

	orderHandler := NewOrderHandler()
	orderGroup := client.Group("/orders", RequireSession())
	orderGroup.Post("/", orderHandler.Place)
	orderGroup.Get("/mine", orderHandler.Mine)
	orderGroup.Get("/:id/receipt", orderHandler.Receipt)

	// Panel de administración (capacidades)
	adminHandler := NewAdminHandler()
	admin := client.Group("/admin")
	admin.Get("/summary", RequireCapability(permission.CapDashboard), adminHandler.Summary)
	admin.Get("/orders", RequireCapability(permission.CapDashboard), orderHandler.List)
	admin.Patch("/orders/:id", RequireCapability(permission.CapPayments), orderHandler.UpdatePayment)
	admin.Get("/users", RequireCapability(permission.CapDashboard), adminHandler.Users)
	admin.Get("/analytics", RequireCapability(permission.CapAnalytics), adminHandler.Events)
	admin.Post("/purge", RequireCapability(permission.CapDestructive), adminHandler.Purge)

	staff := admin.Group("/staff", RequireCapability(permission.CapManageStaff))
	staff.Get("/", adminHandler.Staff)
	staff.Post("/", adminHandler.AddStaff)
	staff.Delete("/:email", adminHandler.RemoveStaff)
	staff.Patch("/:email", adminHandler.UpdateStaff)
}
