package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vladimiradmaev/meal-planner/internal/cache"
	"github.com/vladimiradmaev/meal-planner/internal/config"
	"github.com/vladimiradmaev/meal-planner/internal/database"
	"github.com/vladimiradmaev/meal-planner/internal/metrics"
	"github.com/vladimiradmaev/meal-planner/internal/services"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	store  *cache.MemoryStore
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newDeps(db *gorm.DB, store cache.Store) Dependencies {
	m := metrics.New()
	return Dependencies{
		UserService:   services.NewUserService(db, m),
		RecipeSvc:     services.NewRecipeService(db, m),
		PlanSvc:       services.NewPlanService(db, store, time.Hour, m),
		CalorieLogSvc: services.NewCalorieLogService(db, m),
		DB:            db,
		Metrics:       m,
		Logger:        quietLogger(),
	}
}

func newTestServer(t *testing.T, opts ...func(*Dependencies)) *testServer {
	t.Helper()
	db, err := database.Open(config.DBConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "app.db"),
	})
	require.NoError(t, err)
	require.NoError(t, database.InitSchema(db, "", quietLogger()))

	store := cache.NewMemoryStore()
	deps := newDeps(db, store)
	for _, opt := range opts {
		opt(&deps)
	}
	return &testServer{router: NewRouter(deps), db: db, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
	return body.Code
}

func TestCreateUser(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/usuarios", gin.H{"nombre": "Ana", "email": "ana@example.com", "meta_calorica": 2000})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"mensaje":"Usuario creado exitosamente"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/usuarios", gin.H{"nombre": "Ana B", "email": "ana@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_EMAIL", errorCode(t, w))
}

func TestCreateUserValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing email", gin.H{"nombre": "Ana"}},
		{"malformed email", gin.H{"nombre": "Ana", "email": "not-an-email"}},
		{"missing name", gin.H{"email": "ana@example.com"}},
		{"wrong type", gin.H{"nombre": "Ana", "email": "ana@example.com", "meta_calorica": "mucho"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/usuarios", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "INVALID_INPUT", errorCode(t, w))
		})
	}

	w := s.do(t, http.MethodPost, "/usuarios", gin.H{"nombre": "Ana", "email": "ana@example.com", "meta_calorica": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION", errorCode(t, w))
}

func TestUpdateCalorieGoal(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/usuarios", gin.H{"nombre": "Ana", "email": "ana@example.com"}).Code)

	w := s.do(t, http.MethodPut, "/usuarios/meta_calorica", gin.H{"email": "ana@example.com", "meta_calorica": 1800})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"mensaje":"Meta calórica actualizada"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/registro_calorico/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"registros":[],"total":0,"meta_calorica":1800}`, w.Body.String())
}

func TestCreateAndRecommendRecipes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/recetas", gin.H{
		"nombre":        "Salsa",
		"instrucciones": "Picar todo",
		"calorias":      120,
		"ingredientes":  gin.H{"tomate": 2, "cebolla": 1},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"mensaje":"Receta creada exitosamente","id":1}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/recetas", gin.H{
		"nombre":       "Tortilla",
		"ingredientes": gin.H{"huevo": 3, "cebolla": 1},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/recomendar_recetas", gin.H{"ingredientes": []string{"tomate"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"recetas":[[1,"Salsa","Picar todo"]]}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/recomendar_recetas", gin.H{"ingredientes": []string{"cebolla", "huevo"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"recetas":[[1,"Salsa","Picar todo"],[2,"Tortilla",""],[2,"Tortilla",""]]}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/recomendar_recetas", gin.H{"ingredientes": []string{}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"recetas":[]}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/recomendar_recetas", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShoppingListEmptyAndBadID(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/lista_compras/7", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"lista_compras":[]}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/lista_compras/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", errorCode(t, w))
}

func TestPlanMealInvalidatesShoppingList(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/usuarios", gin.H{"nombre": "Ana", "email": "ana@example.com"}).Code)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/recetas", gin.H{
		"nombre": "Crepes", "ingredientes": gin.H{"harina": 200, "huevo": 2},
	}).Code)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/recetas", gin.H{
		"nombre": "Revuelto", "ingredientes": gin.H{"huevo": 3},
	}).Code)

	w := s.do(t, http.MethodPost, "/planificacion", gin.H{"usuario_id": 1, "dia": "lunes", "comida": "cena", "receta_id": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"mensaje":"Comida planificada exitosamente"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/lista_compras/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"lista_compras":[["harina",200],["huevo",2]]}`, w.Body.String())

	_, cached, err := s.store.Get(ctx, cache.ShoppingListKey(1))
	require.NoError(t, err)
	assert.True(t, cached)

	w = s.do(t, http.MethodPost, "/planificacion", gin.H{"usuario_id": 1, "dia": "martes", "comida": "desayuno", "receta_id": 2})
	require.Equal(t, http.StatusCreated, w.Code)

	_, cached, err = s.store.Get(ctx, cache.ShoppingListKey(1))
	require.NoError(t, err)
	assert.False(t, cached)

	w = s.do(t, http.MethodGet, "/lista_compras/1", nil)
	assert.JSONEq(t, `{"lista_compras":[["harina",200],["huevo",5]]}`, w.Body.String())

	// Replanning a slot replaces its recipe.
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/planificacion", gin.H{"usuario_id": 1, "dia": "lunes", "comida": "cena", "receta_id": 2}).Code)
	w = s.do(t, http.MethodGet, "/lista_compras/1", nil)
	assert.JSONEq(t, `{"lista_compras":[["huevo",6]]}`, w.Body.String())
}

func TestPlanMealValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/planificacion", gin.H{"usuario_id": 1, "dia": "lunes", "receta_id": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/planificacion", gin.H{"usuario_id": 1, "dia": "  ", "comida": "cena", "receta_id": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION", errorCode(t, w))
}

func TestCalorieLog(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/usuarios", gin.H{"nombre": "Ana", "email": "ana@example.com", "meta_calorica": 2000}).Code)

	w := s.do(t, http.MethodPost, "/registro_calorico", gin.H{"usuario_id": 1, "fecha": "2024-05-02", "calorias": 500})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"mensaje":"Registro calórico guardado"}`, w.Body.String())
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/registro_calorico", gin.H{"usuario_id": 1, "fecha": "2024-05-01", "calorias": 700}).Code)

	w = s.do(t, http.MethodPost, "/registro_calorico", gin.H{"usuario_id": 1, "fecha": "02/05/2024", "calorias": 100})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION", errorCode(t, w))

	w = s.do(t, http.MethodGet, "/registro_calorico/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"registros": [{"fecha":"2024-05-01","calorias":700},{"fecha":"2024-05-02","calorias":500}],
		"total": 1200,
		"meta_calorica": 2000
	}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/registro_calorico/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "USER_NOT_FOUND", errorCode(t, w))
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `meal_planner_http_requests_total{method="GET",path="/health",status="200"} 1`)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestRateLimitedRouter(t *testing.T) {
	s := newTestServer(t, func(d *Dependencies) {
		d.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}
	})

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", nil).Code)

	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMIT", errorCode(t, w))
}

func TestShoppingListDatabaseFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)

	mock.ExpectQuery(`FROM planificacion_semanal`).WillReturnError(errors.New("connection reset by peer"))

	router := NewRouter(newDeps(db, nil))
	req := httptest.NewRequest(http.MethodGet, "/lista_compras/3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "DB_ERROR", errorCode(t, w))
	assert.NoError(t, mock.ExpectationsWereMet())
}
