package main

import (
	"log"
	"os"

	"basetrack/internal/database"
	"basetrack/internal/handler"
	"basetrack/internal/identity"
	"basetrack/internal/middleware"
	"basetrack/internal/repository"
	"basetrack/internal/service"
	"basetrack/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func ledgerDSN() string {
	if dsn := os.Getenv("LEDGER_DATABASE_URL"); dsn != "" {
		return dsn
	}
	return "postgres://" + getenv("DB_USER", "postgres") +
		":" + getenv("DB_PASSWORD", "postgres") +
		"@" + getenv("DB_HOST", "localhost") +
		":" + getenv("DB_PORT", "5432") +
		"/" + getenv("DB_NAME", "basetrack") +
		"?sslmode=" + getenv("DB_SSLMODE", "disable")
}

func identityDSN() string {
	if dsn := os.Getenv("IDENTITY_DATABASE_URL"); dsn != "" {
		return dsn
	}
	return ledgerDSN()
}

// @title           Base Asset Tracking API
// @version         1.0
// @description     Role-based tracking of military base assets: purchases, transfers, assignments and expenditures.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	ledgerDB, err := database.NewLedgerConnection(ledgerDSN())
	if err != nil {
		log.Fatalf("Ledger database connection failed: %v", err)
	}
	log.Println("Connected to ledger database.")

	// The identity store degrades to in-memory operation so login and signup
	// survive an identity database outage. Accounts created while degraded do
	// not persist across restarts.
	var userStore identity.UserStore
	var baseStore identity.BaseStore
	identityDB, err := database.NewIdentityConnection(identityDSN())
	if err != nil {
		log.Printf("WARNING: identity database unavailable, serving from memory: %v", err)
		userStore = identity.NewMemoryUserStore()
		baseStore = identity.NewMemoryBaseStore(identity.DefaultBases())
	} else {
		if err := database.SeedBases(identityDB, identity.DefaultBases()); err != nil {
			log.Printf("WARNING: base seeding failed: %v", err)
		}
		userStore = identity.NewGormUserStore(identityDB)
		baseStore = identity.NewGormBaseStore(identityDB)
	}

	wsHub := websocket.NewHub()
	go wsHub.Run()

	txManager := repository.NewTransactionManager(ledgerDB)
	assetRepo := repository.NewAssetRepository(ledgerDB)
	purchaseRepo := repository.NewPurchaseRepository(ledgerDB)
	transferRepo := repository.NewTransferRepository(ledgerDB)
	assignmentRepo := repository.NewAssignmentRepository(ledgerDB)
	expenditureRepo := repository.NewExpenditureRepository(ledgerDB)
	auditRepo := repository.NewAuditRepository(ledgerDB)

	authService := service.NewAuthService(userStore, baseStore, middleware.GetJWTSecret())
	assetService := service.NewAssetService(assetRepo, auditRepo, txManager)
	purchaseService := service.NewPurchaseService(purchaseRepo, assetRepo, auditRepo, txManager, wsHub)
	transferService := service.NewTransferService(transferRepo, assetRepo, auditRepo, txManager, wsHub)
	assignmentService := service.NewAssignmentService(assignmentRepo, assetRepo, auditRepo, txManager, wsHub)
	expenditureService := service.NewExpenditureService(expenditureRepo, assetRepo, auditRepo, txManager, wsHub)
	dashboardService := service.NewDashboardService(assetRepo, purchaseRepo, transferRepo, assignmentRepo, expenditureRepo)

	authHandler := handler.NewAuthHandler(authService)
	assetHandler := handler.NewAssetHandler(assetService, dashboardService, authService)
	purchaseHandler := handler.NewPurchaseHandler(purchaseService)
	transferHandler := handler.NewTransferHandler(transferService)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService, expenditureService)
	auditHandler := handler.NewAuditHandler(auditRepo)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	public := router.Group("/api")
	authHandler.RegisterPublicRoutes(public)

	api := router.Group("/api")
	api.Use(middleware.Authenticate())
	authHandler.RegisterRoutes(api)
	assetHandler.RegisterRoutes(api)
	purchaseHandler.RegisterRoutes(api)
	transferHandler.RegisterRoutes(api)
	assignmentHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)

	port := getenv("PORT", "8080")
	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
