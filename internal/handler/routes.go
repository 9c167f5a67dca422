package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/paisatrack/paisa-backend/internal/middleware"
)

// RouteHandlers bundles the handlers wired into the router
type RouteHandlers struct {
	Auth      *AuthHandler
	Profile   *ProfileHandler
	Dashboard *DashboardHandler
	EMI       *EMIHandler
	Expense   *ExpenseHandler
	Debt      *DebtHandler
	Savings   *SavingsHandler
	Receipt   *ReceiptHandler
	WebSocket *WebSocketHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, h RouteHandlers) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (protected)
	auth := api.Group("/auth")
	auth.Use(authMiddleware.Authenticate())
	auth.POST("/callback", h.Auth.Callback)
	auth.GET("/me", h.Auth.Me)
	auth.POST("/logout", h.Auth.Logout)

	// Profile routes (protected)
	profile := api.Group("/profile")
	profile.Use(authMiddleware.Authenticate(), rateLimiter.Middleware())
	profile.GET("", h.Profile.GetProfile)
	profile.PUT("", h.Profile.UpdateProfile)
	profile.PATCH("/income", h.Profile.UpdateIncome)

	// Dashboard routes (protected)
	dashboard := api.Group("/dashboard")
	dashboard.Use(authMiddleware.Authenticate(), rateLimiter.Middleware())
	dashboard.GET("/totals", h.Dashboard.GetTotals)

	// EMI routes (protected)
	emis := api.Group("/emis")
	emis.Use(authMiddleware.Authenticate(), rateLimiter.Middleware())
	emis.POST("", h.EMI.CreateEMI)
	emis.GET("", h.EMI.GetEMIs)
	emis.GET("/stats", h.EMI.GetStats)
	emis.DELETE("/:id", h.EMI.DeleteEMI)

	// Expense routes (protected)
	expenses := api.Group("/expenses")
	expenses.Use(authMiddleware.Authenticate(), rateLimiter.Middleware())
	expenses.POST("", h.Expense.CreateExpense)
	expenses.GET("", h.Expense.GetExpenses)
	expenses.DELETE("/:id", h.Expense.DeleteExpense)
	expenses.POST("/:id/receipt", h.Receipt.UploadReceipt)
	expenses.GET("/:id/receipt", h.Receipt.GetReceipt)
	expenses.DELETE("/:id/receipt", h.Receipt.DeleteReceipt)

	// Debt routes (protected)
	debts := api.Group("/debts")
	debts.Use(authMiddleware.Authenticate(), rateLimiter.Middleware())
	debts.POST("", h.Debt.CreateDebt)
	debts.GET("", h.Debt.GetDebts)
	debts.DELETE("/:id", h.Debt.DeleteDebt)

	// Savings goal routes (protected)
	savings := api.Group("/savings")
	savings.Use(authMiddleware.Authenticate(), rateLimiter.Middleware())
	savings.POST("", h.Savings.CreateGoal)
	savings.GET("", h.Savings.GetGoals)
	savings.PUT("/:id", h.Savings.UpdateGoal)
	savings.DELETE("/:id", h.Savings.DeleteGoal)

	// WebSocket endpoint (token-authenticated via query parameter)
	e.GET("/ws", h.WebSocket.HandleWS)
}
