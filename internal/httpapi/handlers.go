package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vladimiradmaev/meal-planner/internal/database"
	apperrors "github.com/vladimiradmaev/meal-planner/internal/errors"
)

const healthTimeout = 2 * time.Second

// Handler serves the meal planner endpoints
type Handler struct {
	deps   Dependencies
	errors *apperrors.Handler
}

type createUserRequest struct {
	Name        string `json:"nombre" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	CalorieGoal *int   `json:"meta_calorica"`
}

type updateGoalRequest struct {
	Email       string `json:"email" binding:"required,email"`
	CalorieGoal *int   `json:"meta_calorica"`
}

type createRecipeRequest struct {
	Name         string         `json:"nombre" binding:"required"`
	Instructions string         `json:"instrucciones"`
	Calories     int            `json:"calorias"`
	Ingredients  map[string]int `json:"ingredientes"`
}

type recommendRequest struct {
	Ingredients []string `json:"ingredientes" binding:"required"`
}

type planMealRequest struct {
	UserID   uint   `json:"usuario_id" binding:"required"`
	Day      string `json:"dia" binding:"required"`
	MealSlot string `json:"comida" binding:"required"`
	RecipeID uint   `json:"receta_id" binding:"required"`
}

type calorieEntryRequest struct {
	UserID   uint   `json:"usuario_id" binding:"required"`
	Date     string `json:"fecha" binding:"required"`
	Calories int    `json:"calorias"`
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperrors.NewInvalidInputError(err))
		return
	}

	if _, err := h.deps.UserService.RegisterUser(c.Request.Context(), req.Name, req.Email, req.CalorieGoal); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"mensaje": "Usuario creado exitosamente"})
}

func (h *Handler) UpdateCalorieGoal(c *gin.Context) {
	var req updateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperrors.NewInvalidInputError(err))
		return
	}

	if err := h.deps.UserService.UpdateCalorieGoal(c.Request.Context(), req.Email, req.CalorieGoal); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "Meta calórica actualizada"})
}

func (h *Handler) CreateRecipe(c *gin.Context) {
	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperrors.NewInvalidInputError(err))
		return
	}

	recipe, err := h.deps.RecipeSvc.CreateRecipe(c.Request.Context(), req.Name, req.Instructions, req.Calories, req.Ingredients)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"mensaje": "Receta creada exitosamente", "id": recipe.ID})
}

func (h *Handler) RecommendRecipes(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperrors.NewInvalidInputError(err))
		return
	}

	recipes, err := h.deps.RecipeSvc.Recommend(c.Request.Context(), req.Ingredients)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recetas": recipes})
}

func (h *Handler) PlanMeal(c *gin.Context) {
	var req planMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperrors.NewInvalidInputError(err))
		return
	}

	if err := h.deps.PlanSvc.PlanMeal(c.Request.Context(), req.UserID, req.Day, req.MealSlot, req.RecipeID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"mensaje": "Comida planificada exitosamente"})
}

func (h *Handler) ShoppingList(c *gin.Context) {
	userID, ok := h.userIDParam(c)
	if !ok {
		return
	}

	items, err := h.deps.PlanSvc.ShoppingList(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lista_compras": items})
}

func (h *Handler) AddCalorieEntry(c *gin.Context) {
	var req calorieEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperrors.NewInvalidInputError(err))
		return
	}

	if err := h.deps.CalorieLogSvc.AddEntry(c.Request.Context(), req.UserID, req.Date, req.Calories); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"mensaje": "Registro calórico guardado"})
}

func (h *Handler) CalorieSummary(c *gin.Context) {
	userID, ok := h.userIDParam(c)
	if !ok {
		return
	}

	summary, err := h.deps.CalorieLogSvc.Summary(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := database.Ping(ctx, h.deps.DB); err != nil {
		h.errors.Handle(ctx, apperrors.NewDatabaseError(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) userIDParam(c *gin.Context) (uint, bool) {
	raw := c.Param("usuario_id")
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		h.fail(c, apperrors.NewInvalidInputError(err).WithContext("usuario_id", raw))
		return 0, false
	}
	return uint(id), true
}

// fail logs err and writes it as {"error", "code"} with the mapped status.
func (h *Handler) fail(c *gin.Context, err error) {
	appErr := apperrors.As(err)
	h.errors.Handle(c.Request.Context(), appErr)

	message := appErr.Message
	if appErr.Type == apperrors.ErrorTypeValidation && appErr.Internal != nil {
		message += ": " + appErr.Internal.Error()
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus(), gin.H{"error": message, "code": appErr.Code})
}
