package router

import (
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-management-api/internal/config"
	apierrors "github.com/yukikurage/todo-management-api/internal/errors"
	"github.com/yukikurage/todo-management-api/internal/handlers"
	"github.com/yukikurage/todo-management-api/internal/middleware"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Todo     *handlers.TodoHandler
	Category *handlers.CategoryHandler
	Stats    *handlers.StatsHandler
}

// New builds the gin engine with middleware and every route.
func New(cfg *config.Config, logger *log.Logger, authenticator middleware.Authenticator, h Handlers) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(corsMiddleware(cfg.CORSAllowedOrigins))

	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		apierrors.MethodNotAllowed(c)
	})

	r.GET("/health", handlers.Health)

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimitPerMinute)
	apiLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)

	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", apiLimiter.Middleware(middleware.ClientIPKey), h.Auth.Register)
		api.POST("/login", loginLimiter.Middleware(middleware.ClientIPKey), h.Auth.Login)

		protected := api.Group("")
		protected.Use(middleware.RequireAuth(authenticator))
		protected.Use(apiLimiter.Middleware(middleware.UserOrIPKey))
		{
			protected.POST("/logout", h.Auth.Logout)
			protected.GET("/user", h.Auth.GetCurrentUser)
			protected.PUT("/user", h.Auth.UpdateProfile)

			todos := protected.Group("/todos")
			{
				todos.GET("", h.Todo.ListTodos)
				todos.POST("", h.Todo.CreateTodo)
				todos.GET("/search", h.Todo.SearchTodos)
				todos.POST("/suggest", h.Todo.SuggestTodos)
				todos.GET("/:id", h.Todo.GetTodo)
				todos.PUT("/:id", h.Todo.UpdateTodo)
				todos.PATCH("/:id/status", h.Todo.UpdateTodoStatus)
				todos.DELETE("/:id", h.Todo.DeleteTodo)
			}

			categories := protected.Group("/categories")
			{
				categories.GET("", h.Category.ListCategories)
				categories.POST("", h.Category.CreateCategory)
				categories.GET("/:id", h.Category.GetCategory)
				categories.PUT("/:id", h.Category.UpdateCategory)
				categories.DELETE("/:id", h.Category.DeleteCategory)
				categories.GET("/:id/todos", h.Category.ListCategoryTodos)
			}

			stats := protected.Group("/stats")
			{
				stats.GET("/todos", h.Stats.TodoStats)
				stats.GET("/priorities", h.Stats.PriorityStats)
			}
		}
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	return cors.New(corsConfig)
}
