package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vladimiradmaev/meal-planner/internal/config"
	apperrors "github.com/vladimiradmaev/meal-planner/internal/errors"
	"github.com/vladimiradmaev/meal-planner/internal/interfaces"
	"github.com/vladimiradmaev/meal-planner/internal/metrics"
	"gorm.io/gorm"
)

// Dependencies holds everything the HTTP layer needs
type Dependencies struct {
	UserService   interfaces.UserServiceInterface
	RecipeSvc     interfaces.RecipeServiceInterface
	PlanSvc       interfaces.PlanServiceInterface
	CalorieLogSvc interfaces.CalorieLogServiceInterface
	DB            *gorm.DB
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
	RateLimit     config.RateLimitConfig
}

// NewRouter wires middleware and routes onto a fresh gin engine.
func NewRouter(deps Dependencies) *gin.Engine {
	h := &Handler{
		deps:   deps,
		errors: apperrors.NewHandler(deps.Logger),
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(deps.Logger), RequestMetrics(deps.Metrics))
	if deps.RateLimit.RequestsPerSecond > 0 {
		limiter := NewRateLimiter(deps.RateLimit.RequestsPerSecond, deps.RateLimit.Burst)
		r.Use(limiter.Middleware(h.fail))
	}

	r.POST("/usuarios", h.CreateUser)
	r.PUT("/usuarios/meta_calorica", h.UpdateCalorieGoal)
	r.POST("/recetas", h.CreateRecipe)
	r.POST("/recomendar_recetas", h.RecommendRecipes)
	r.POST("/planificacion", h.PlanMeal)
	r.GET("/lista_compras/:usuario_id", h.ShoppingList)
	r.POST("/registro_calorico", h.AddCalorieEntry)
	r.GET("/registro_calorico/:usuario_id", h.CalorieSummary)

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "code": "NOT_FOUND"})
	})

	return r
}
