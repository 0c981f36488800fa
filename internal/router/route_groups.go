package router

import (
	"restaurant_backend/internal/access"
	"restaurant_backend/internal/handlers"
	"restaurant_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes. Register and login are rate limited per client.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler, authRequired, rateLimit gin.HandlerFunc) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", rateLimit, authHandler.Register)
		authRoutes.POST("/login", rateLimit, authHandler.Login)
		authRoutes.GET("/me", authRequired, authHandler.Me)
	}
}

// SetupMenuRoutes exposes the menu publicly; mutations are admin only.
func SetupMenuRoutes(apiGroup *gin.RouterGroup, menuHandler *handlers.MenuHandler, authRequired gin.HandlerFunc) {
	menuRoutes := apiGroup.Group("/menu")
	{
		menuRoutes.GET("/items", menuHandler.GetMenuItems)
		menuRoutes.GET("/items/:id", menuHandler.GetMenuItemByID)
		menuRoutes.GET("/categories", menuHandler.GetCategories)

		manage := menuRoutes.Group("", authRequired, middleware.RequirePermission(access.ManageMenu))
		manage.POST("/items", menuHandler.CreateMenuItem)
		manage.PUT("/items/:id", menuHandler.UpdateMenuItem)
		manage.DELETE("/items/:id", menuHandler.DeleteMenuItem)
		manage.POST("/categories", menuHandler.CreateCategory)
		manage.PUT("/categories/:id", menuHandler.UpdateCategory)
		manage.DELETE("/categories/:id", menuHandler.DeleteCategory)
	}
}

func SetupTableRoutes(apiGroup *gin.RouterGroup, tableHandler *handlers.TableHandler, authRequired gin.HandlerFunc) {
	tableRoutes := apiGroup.Group("/tables")
	{
		tableRoutes.GET("", tableHandler.GetTables)
		tableRoutes.GET("/:id", tableHandler.GetTableByID)

		manage := tableRoutes.Group("", authRequired, middleware.RequirePermission(access.ManageTables))
		manage.POST("", tableHandler.CreateTable)
		manage.PUT("/:id", tableHandler.UpdateTable)
		manage.DELETE("/:id", tableHandler.DeleteTable)
	}
}

// SetupOrderRoutes sets up the order routes. Listing is scoped to the caller by the service.
func SetupOrderRoutes(apiGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler, authRequired gin.HandlerFunc) {
	orderRoutes := apiGroup.Group("/orders", authRequired)
	{
		orderRoutes.POST("", middleware.RequirePermission(access.PlaceOrder), orderHandler.CreateOrder)
		orderRoutes.GET("", middleware.RequirePermission(access.ViewOwnOrders), orderHandler.GetOrders)
		orderRoutes.GET("/:id", middleware.RequirePermission(access.ViewOwnOrders), orderHandler.GetOrderByID)
		orderRoutes.GET("/:id/qrcode", middleware.RequirePermission(access.ViewOwnOrders), orderHandler.GetOrderQRCode)
		orderRoutes.PUT("/:id/status", middleware.RequirePermission(access.UpdateOrderStatus), orderHandler.UpdateOrderStatus)
	}
}

func SetupReservationRoutes(apiGroup *gin.RouterGroup, reservationHandler *handlers.ReservationHandler, authRequired gin.HandlerFunc) {
	reservationRoutes := apiGroup.Group("/reservations", authRequired)
	{
		// Ownership of the reservation itself is checked by the service.
		read := middleware.RequirePermission(access.ViewOwnReservations)
		write := middleware.RequirePermission(access.MakeReservation)
		reservationRoutes.POST("", write, reservationHandler.CreateReservation)
		reservationRoutes.GET("", read, reservationHandler.GetReservations)
		reservationRoutes.GET("/:id", read, reservationHandler.GetReservationByID)
		reservationRoutes.PUT("/:id", write, reservationHandler.UpdateReservation)
		reservationRoutes.DELETE("/:id", write, reservationHandler.DeleteReservation)
		reservationRoutes.PUT("/:id/status", write, reservationHandler.UpdateReservationStatus)
	}
}

func SetupUserRoutes(apiGroup *gin.RouterGroup, userHandler *handlers.UserHandler, authRequired gin.HandlerFunc) {
	userRoutes := apiGroup.Group("/users", authRequired)
	{
		userRoutes.PUT("/profile", middleware.RequirePermission(access.EditOwnProfile), userHandler.UpdateProfile)

		manage := userRoutes.Group("", middleware.RequirePermission(access.ManageUsers))
		manage.GET("", userHandler.GetUsers)
		manage.PUT("/:id/role", userHandler.UpdateUserRole)
		manage.DELETE("/:id", userHandler.DeleteUser)
	}
}

func SetupAdminRoutes(apiGroup *gin.RouterGroup, adminHandler *handlers.AdminHandler, authRequired gin.HandlerFunc) {
	adminRoutes := apiGroup.Group("/admin", authRequired, middleware.RequirePermission(access.ViewDashboard))
	adminRoutes.GET("/stats", adminHandler.GetStats)
}
