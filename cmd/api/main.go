package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_storefront/internal/cache"
	"github.com/GTDGit/gtd_storefront/internal/config"
	"github.com/GTDGit/gtd_storefront/internal/database"
	"github.com/GTDGit/gtd_storefront/internal/handler"
	"github.com/GTDGit/gtd_storefront/internal/middleware"
	"github.com/GTDGit/gtd_storefront/internal/repository"
	"github.com/GTDGit/gtd_storefront/internal/service"
	"github.com/GTDGit/gtd_storefront/internal/sse"
	"github.com/GTDGit/gtd_storefront/internal/utils"
	"github.com/GTDGit/gtd_storefront/internal/worker"
)

// main is the entrypoint for the storefront API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting storefront api")

	// 3. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Connect database and run migrations
	db, err := database.Connect(ctx, &cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db.DB, "migrations"); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 5. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	productCache := cache.NewProductCache(redisClient, cfg.Cache.ProductTTL)
	cartStore := cache.NewCartStore(redisClient, cfg.Cache.CartTTL)

	// 6. Initialize repositories
	productRepo := repository.NewProductRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)

	// 7. Initialize services
	money, err := utils.NewMoneyFormatter(cfg.Store.Currency, cfg.Store.Locale)
	if err != nil {
		log.Error().Err(err).Msg("invalid store currency or locale")
		fmt.Fprintf(os.Stderr, "invalid store currency or locale: %v\n", err)
		os.Exit(1)
	}
	signer := utils.NewJWTSigner(cfg.JWTSecret, cfg.JWTTTL)

	hub := sse.NewHub()
	cartSvc := service.NewCartService(cartStore)
	productSvc := service.NewProductService(productRepo, productCache, cartSvc, money)
	catalogSvc := service.NewCatalogService(productRepo, collectionRepo, productCache, sse.NewHubNotifier(hub))
	adminAuthSvc := service.NewAdminAuthService(adminRepo, signer)

	// 8. Initialize middleware
	limiter := middleware.NewInvalidAuthRateLimiter()
	go limiter.Cleanup(time.Minute, ctx.Done())
	jwtMw := middleware.NewJWTMiddleware(signer)

	// 9. Initialize handlers
	handlers := &Handlers{
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"database": handler.PingFunc(db.PingContext),
			"redis":    redisClient,
		}),
		Product:           handler.NewProductHandler(productSvc),
		Cart:              handler.NewCartHandler(cartSvc),
		Collection:        handler.NewCollectionHandler(catalogSvc),
		ProductManagement: handler.NewProductManagementHandler(catalogSvc),
		Auth:              handler.NewAuthHandler(adminAuthSvc, limiter),
		Events:            handler.NewSSEHandler(hub),
	}

	// 10. Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, limiter, jwtMw)

	// 11. Start workers
	if cfg.Worker.CatalogAuditEnabled && cfg.Worker.CatalogAuditInterval > 0 {
		go worker.NewCatalogAuditWorker(productRepo, cfg.Worker.CatalogAuditInterval).Start(ctx)
	}

	// 12. Start HTTP server
	srv := newServer(ctx, ":"+cfg.Port, router)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers and end open event streams
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// newServer builds the HTTP server. Request contexts derive from ctx so
// long-lived streams end when ctx is cancelled instead of holding Shutdown.
func newServer(ctx context.Context, addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:        addr,
		Handler:     h,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health            *handler.HealthHandler
	Product           *handler.ProductHandler
	Cart              *handler.CartHandler
	Collection        *handler.CollectionHandler
	ProductManagement *handler.ProductManagementHandler
	Auth              *handler.AuthHandler
	Events            *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, limiter *middleware.InvalidAuthRateLimiter, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Storefront routes (public)
	v1 := router.Group("/v1")
	{
		v1.GET("/collections", handlers.Collection.ListCollections)
		v1.GET("/products", handlers.Product.ListProducts)
		v1.GET("/products/:slug", handlers.Product.GetProduct)
		v1.GET("/products/:slug/availability", handlers.Product.GetAvailability)
		v1.POST("/products/:slug/cart", handlers.Product.AddToCart)
		v1.GET("/cart", handlers.Cart.GetCart)
		v1.GET("/events", handlers.Events.Stream)
	}

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.POST("/auth/login", limiter.Handle(), handlers.Auth.Login)
	admin.Use(jwtMiddleware.Handle())
	{
		// Catalog management
		admin.GET("/products", handlers.ProductManagement.ListProducts)
		admin.POST("/products", handlers.ProductManagement.CreateProduct)
		admin.GET("/products/:id", handlers.ProductManagement.GetProduct)
		admin.PUT("/products/:id", handlers.ProductManagement.UpdateProduct)
		admin.DELETE("/products/:id", handlers.ProductManagement.DeleteProduct)
		admin.GET("/products/:id/audit", handlers.ProductManagement.AuditProduct)

		admin.PUT("/collections", handlers.Collection.UpsertCollections)
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
