package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	cfg    *config.Config
	db     *gorm.DB
}

// New wires repositories, services and handlers into a gin router.
// redisClient and images may be nil, which disables rate limiting and
// image URL signing respectively.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, images service.ImageURLResolver) *Server {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.Origins()))

	users := repository.NewUserRepository(db)
	recipes := repository.NewRecipeRepository(db)
	relations := repository.NewRelationRepository(db)
	ingredients := repository.NewIngredientRepository(db)
	tags := repository.NewTagRepository(db)

	authService := service.NewAuthService(users, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db, recipes, relations, ingredients, tags, images)
	relationManager := service.NewRelationManager(db, relations, recipes, users, images)
	shoppingService := service.NewShoppingListService(repository.NewShoppingListRepository(db))
	userService := service.NewUserService(db, users, recipes, relations)

	var relationLimiter *middleware.RateLimiter
	if redisClient != nil {
		relationLimiter = middleware.NewRelationRateLimiter(redisClient, cfg.RelationRateLimit)
	}

	api.NewHealthHandler(db).RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	api.NewAuthHandler(authService).RegisterRoutes(v1)
	api.NewRecipeHandler(recipeService, shoppingService, authService).RegisterRoutes(v1)
	api.NewRelationHandler(relationManager, authService, relationLimiter).RegisterRoutes(v1)
	api.NewUserHandler(userService, authService).RegisterRoutes(v1)
	api.NewCatalogHandler(service.NewTagService(tags), service.NewIngredientService(ingredients)).RegisterRoutes(v1)

	return &Server{
		router: router,
		cfg:    cfg,
		db:     db,
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and blocks until the server stops.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", s.cfg.ServerHost, s.cfg.ServerPort),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
