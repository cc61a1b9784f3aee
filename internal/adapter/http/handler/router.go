package handler

import (
	"account-ledger-service/internal/adapter/http/middleware"
	"account-ledger-service/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	LedgerSvc      ports.LedgerService
	TokenSvc       ports.TokenService
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// --- Token-protected ledger routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	bankHandler := NewBankHandler(deps.LedgerSvc)
	bank := r.Group("/api/bank", jwtAuth)
	{
		bank.GET("/balance", bankHandler.GetBalance)
		bank.POST("/deposit", bankHandler.Deposit)
		bank.POST("/withdraw", bankHandler.Withdraw)
		bank.POST("/transfer", bankHandler.Transfer)
		bank.GET("/transactions", bankHandler.ListTransactions)
	}

	return r
}
