package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipe-cart/internal/api/handlers/health"
	"recipe-cart/internal/core/cart"
	"recipe-cart/internal/core/catalog"
	"recipe-cart/internal/core/ingredient"
	"recipe-cart/internal/core/order"
	"recipe-cart/internal/core/pricing"
	"recipe-cart/internal/core/recipe"
	"recipe-cart/internal/infrastructure/config"
	"recipe-cart/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	items []common.Ingredient
	err   error
}

func (s stubSource) ScaledIngredients(context.Context, recipe.Request) ([]common.Ingredient, error) {
	return s.items, s.err
}

type testEnv struct {
	router *gin.Engine
	carts  *cart.Service
}

func newTestEnv(t *testing.T, source recipe.IngredientSource, checks map[string]health.Checker) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App:         config.AppConfig{Debug: true, Version: "test", Env: "test"},
		Server:      config.ServerConfig{RequestTimeout: 5 * time.Second, MaxBodyBytes: 1 << 20},
		DedupWindow: time.Second,
	}

	synonyms := ingredient.DefaultSynonyms()
	index := pricing.NewInfoIndex(pricing.DefaultProductInfo(), synonyms)
	products := catalog.NewMemoryCatalog(index.Products()...)
	matcher := ingredient.NewMatcher(products, synonyms)
	calc := pricing.NewCalculator(index, products)
	carts := cart.NewService(cart.NewMemoryStore(), products, calc)

	suggestions := recipe.NewMemorySuggestionLog()

	router := SetupRouter(cfg, Dependencies{
		Catalog:     products,
		Matcher:     matcher,
		Calculator:  calc,
		Planner:     recipe.NewPlanner(source, matcher, calc, products, suggestions),
		Suggestions: suggestions,
		Carts:       carts,
		Orders:      order.NewService(order.NewMemoryStore(), carts),
		Checks:      checks,
		Stats: map[string]func() interface{}{
			"queue": func() interface{} { return map[string]int{"queue_length": 0} },
		},
	})
	return &testEnv{router: router, carts: carts}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type cartBody struct {
	SessionID string      `json:"session_id"`
	Lines     []cart.Line `json:"lines"`
	Total     float64     `json:"total"`
	LineID    string      `json:"line_id"`
	Merged    bool        `json:"merged"`
}

func TestCartFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, stubSource{}, nil)

	w := env.do(t, http.MethodPost, "/api/v1/cart/s1/items", `{"product_name":"Onion","quantity":"250 gm"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var added cartBody
	decode(t, w, &added)
	assert.False(t, added.Merged)
	assert.NotEmpty(t, added.LineID)
	assert.Equal(t, 0.38, added.Total)

	w = env.do(t, http.MethodPost, "/api/v1/cart/s1/items", `{"product_name":"onions","quantity":"250 gm","ingredient_name":"red onions"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var merged cartBody
	decode(t, w, &merged)
	assert.True(t, merged.Merged)
	assert.Equal(t, added.LineID, merged.LineID)
	require.Len(t, merged.Lines, 1)
	assert.Equal(t, "500 gm", merged.Lines[0].Quantity)
	assert.Equal(t, 0.75, merged.Total)

	lineID := merged.LineID

	w = env.do(t, http.MethodPut, "/api/v1/cart/s1/items/"+lineID, `{"quantity":100}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.do(t, http.MethodPut, "/api/v1/cart/s1/items/"+lineID, `{"quantity":1000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated cartBody
	decode(t, w, &updated)
	assert.Equal(t, "1000 gm", updated.Lines[0].Quantity)
	assert.Equal(t, 1.5, updated.Total)

	w = env.do(t, http.MethodPut, "/api/v1/cart/s1/items/missing", `{"quantity":1000}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPut, "/api/v1/cart/s1/items/"+lineID, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/cart/s1/items/"+lineID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var removed cartBody
	decode(t, w, &removed)
	assert.Empty(t, removed.Lines)
	assert.Zero(t, removed.Total)

	w = env.do(t, http.MethodPost, "/api/v1/cart/s1/items", `{"product_name":"Dragon Fruit"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/cart/s1/items", `{"quantity":"1 kg"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/cart/s1/items", `{"product_name":"Rice"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/cart/s1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/cart/s1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cleared cartBody
	decode(t, w, &cleared)
	assert.Equal(t, "s1", cleared.SessionID)
	assert.Empty(t, cleared.Lines)
}

func TestCheckoutFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, stubSource{}, nil)
	customer := `{"customer":{"name":"Ada","email":"ada@example.com","address":"1 Main St","phone":"555-0100"}}`

	w := env.do(t, http.MethodPost, "/api/v1/cart/s2/checkout", customer)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errResp common.ErrorResponse
	decode(t, w, &errResp)
	assert.Equal(t, "EMPTY_CART", errResp.Code)

	w = env.do(t, http.MethodPost, "/api/v1/cart/s2/items", `{"product_name":"Tomato","quantity":"1 kg"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/cart/s2/checkout", `{"customer":{"name":"Ada","email":"nope","address":"1 Main St","phone":"555"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/cart/s2/checkout", customer)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created order.Order
	decode(t, w, &created)
	assert.Equal(t, order.StatusPending, created.Status)
	assert.Equal(t, 2.0, created.Total)
	assert.Len(t, created.Items, 1)

	c, err := env.carts.Get(context.Background(), "s2")
	require.NoError(t, err)
	assert.Empty(t, c.Lines, "checkout clears the cart")

	w = env.do(t, http.MethodPut, "/api/v1/orders/"+created.ID+"/status", `{"status":"shipped"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var shipped order.Order
	decode(t, w, &shipped)
	assert.Equal(t, order.StatusShipped, shipped.Status)

	w = env.do(t, http.MethodPut, "/api/v1/orders/"+created.ID+"/status", `{"status":"teleported"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/orders/"+created.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/orders/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductRoutes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, stubSource{}, nil)

	w := env.do(t, http.MethodGet, "/api/v1/products/search?q=tom", "")
	require.Equal(t, http.StatusOK, w.Code)
	var search struct {
		Products []struct {
			Name     string  `json:"name"`
			Quantity string  `json:"quantity"`
			Price    float64 `json:"price"`
		} `json:"products"`
		Count int `json:"count"`
	}
	decode(t, w, &search)
	require.Equal(t, 1, search.Count)
	assert.Equal(t, "Tomato", search.Products[0].Name)
	assert.Equal(t, "500 gm", search.Products[0].Quantity)
	assert.Equal(t, 1.0, search.Products[0].Price)

	w = env.do(t, http.MethodGet, "/api/v1/products/search?category=dairy&limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &search)
	assert.Equal(t, 1, search.Count)

	w = env.do(t, http.MethodGet, "/api/v1/products/search?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/products/match", `{"name":"Fresh Tomatoes","quantity":"1 kg"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var match struct {
		Matched  bool     `json:"matched"`
		Strategy string   `json:"strategy"`
		Price    *float64 `json:"price"`
	}
	decode(t, w, &match)
	assert.True(t, match.Matched)
	assert.Equal(t, "exact", match.Strategy)
	require.NotNil(t, match.Price)
	assert.Equal(t, 2.0, *match.Price)

	w = env.do(t, http.MethodPost, "/api/v1/products/match", `{"name":"unobtainium"}`)
	require.Equal(t, http.StatusOK, w.Code)
	match.Price = nil
	decode(t, w, &match)
	assert.False(t, match.Matched)
	assert.Nil(t, match.Price)
}

func TestProductBrowseRoutes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, stubSource{}, nil)

	w := env.do(t, http.MethodGet, "/api/v1/products/categories", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cats struct {
		Categories []string `json:"categories"`
	}
	decode(t, w, &cats)
	assert.Equal(t, []string{"dairy", "pantry", "produce"}, cats.Categories)

	w = env.do(t, http.MethodGet, "/api/v1/products/seed-onion", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var detail struct {
		Product struct {
			ID       string  `json:"id"`
			Name     string  `json:"name"`
			Quantity string  `json:"quantity"`
			Price    float64 `json:"price"`
		} `json:"product"`
		Related []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"related"`
	}
	decode(t, w, &detail)
	assert.Equal(t, "Onion", detail.Product.Name)
	assert.Equal(t, "250 gm", detail.Product.Quantity)
	assert.Equal(t, 0.38, detail.Product.Price)
	require.Len(t, detail.Related, 3)
	assert.Equal(t, "Carrot", detail.Related[0].Name)
	for _, r := range detail.Related {
		assert.NotEqual(t, "seed-onion", r.ID)
	}

	w = env.do(t, http.MethodGet, "/api/v1/products/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	var errResp common.ErrorResponse
	decode(t, w, &errResp)
	assert.Equal(t, "PRODUCT_NOT_FOUND", errResp.Code)

	w = env.do(t, http.MethodGet, "/api/v1/products/search?q=rice", "")
	assert.Equal(t, http.StatusOK, w.Code, "static route still wins over :id")
}

func TestRecipeIngredients(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, stubSource{items: []common.Ingredient{
		{Name: "Tomatoes", Quantity: "500 gm"},
		{Name: "Sumac", Quantity: "1 tsp"},
	}}, nil)

	w := env.do(t, http.MethodPost, "/api/v1/recipes/ingredients", `{"dish_name":"Fattoush","servings":2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var plan recipe.Plan
	decode(t, w, &plan)
	assert.Equal(t, "Fattoush", plan.Dish)
	require.Len(t, plan.Matched, 1)
	assert.Equal(t, "Tomato", plan.Matched[0].Product.Name)
	require.Len(t, plan.Unmatched, 1)
	assert.Equal(t, "Sumac", plan.Unmatched[0].IngredientName)
	assert.Equal(t, 1.0, plan.Total)

	w = env.do(t, http.MethodPost, "/api/v1/recipes/ingredients", `{"dish_name":"Fattoush","servings":2}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "identical request inside the dedup window")

	w = env.do(t, http.MethodGet, "/api/v1/suggestions", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var listed struct {
		Suggestions []recipe.Suggestion `json:"suggestions"`
		Count       int                 `json:"count"`
	}
	decode(t, w, &listed)
	require.Equal(t, 1, listed.Count)
	assert.Equal(t, "Sumac", listed.Suggestions[0].IngredientName)
	assert.Equal(t, "Fattoush", listed.Suggestions[0].Dish)
	assert.Equal(t, recipe.SuggestionStatusUnmatched, listed.Suggestions[0].Status)

	w = env.do(t, http.MethodGet, "/api/v1/suggestions?status=added", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &listed)
	assert.Zero(t, listed.Count)

	w = env.do(t, http.MethodGet, "/api/v1/suggestions?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/recipes/ingredients", `{"dish_name":"Fattoush","servings":25}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/recipes/ingredients", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecipeIngredients_AIFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, stubSource{err: common.ErrInvalidAIResponse.Wrap(errors.New("no JSON array"))}, nil)

	w := env.do(t, http.MethodPost, "/api/v1/recipes/ingredients", `{"dish_name":"Soup","servings":2}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	var errResp common.ErrorResponse
	decode(t, w, &errResp)
	assert.Equal(t, "INVALID_AI_RESPONSE", errResp.Code)
}

func TestHealthRoutes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, stubSource{}, map[string]health.Checker{
		"postgres": func(context.Context) error { return nil },
	})

	w := env.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	var h health.HealthResponse
	decode(t, w, &h)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "test", h.Version)
	assert.Contains(t, h.Components, "queue")

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/live", "").Code)

	w = env.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "recipe_cart_orders_created_total")

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestReadinessFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, stubSource{}, map[string]health.Checker{
		"redis": func(context.Context) error { return errors.New("dial tcp: connection refused") },
	})

	w := env.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not_ready")
	assert.Contains(t, w.Body.String(), "connection refused")
}
