package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/chefdevalor/internal/db"
	"github.com/Simplici0/chefdevalor/internal/logger"
	"github.com/Simplici0/chefdevalor/internal/metrics"
	"github.com/Simplici0/chefdevalor/internal/migrations"
	"github.com/Simplici0/chefdevalor/internal/planner"
	"github.com/Simplici0/chefdevalor/internal/pricing"
	"github.com/Simplici0/chefdevalor/internal/seed"
	"github.com/Simplici0/chefdevalor/internal/store"
)

const (
	testEmail    = "admin@example.com"
	testPassword = "doce-de-leite"
)

type testServer struct {
	srv     *server
	handler http.Handler
	cookie  *http.Cookie
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, migrations.Up(database))
	_, err = seed.Run(database, seed.Config{AdminEmail: testEmail, AdminPassword: testPassword})
	require.NoError(t, err)

	log := logger.Discard()
	collector := metrics.NewCollector()
	srv := &server{
		auth: newAuthService(database, "test-secret"),
		planner: planner.New(
			store.NewSQLiteStore(database, log),
			log,
			planner.WithMemo(pricing.NewMemo(time.Minute)),
			planner.WithMetrics(collector),
		),
		metrics:      collector,
		log:          log,
		businessName: "Doces da Ana",
	}

	return testServer{
		srv:     srv,
		handler: srv.routes(),
		cookie:  &http.Cookie{Name: sessionCookieName, Value: srv.auth.createSessionValue(testEmail)},
	}
}

func (ts testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(ts.cookie)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestAPIRequiresSession(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ingredients", nil)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "authentication required")
}

func TestLoginSetsSessionCookie(t *testing.T) {
	ts := newTestServer(t)

	body := strings.NewReader(`{"email":"admin@example.com","password":"doce-de-leite"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	email, ok := ts.srv.auth.verifySessionValue(cookies[0].Value)
	assert.True(t, ok)
	assert.Equal(t, testEmail, email)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	ts := newTestServer(t)

	body := strings.NewReader(`{"email":"admin@example.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, rr.Result().Cookies())
}

func TestSessionValueExpiresAndRejectsTampering(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.srv.auth

	value := auth.createSessionValue(testEmail)
	_, ok := auth.verifySessionValue(value + "00")
	assert.False(t, ok)

	auth.now = func() time.Time { return time.Now().Add(sessionTTL + time.Minute) }
	_, ok = auth.verifySessionValue(value)
	assert.False(t, ok)
}

func TestConfigAndRate(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodGet, "/api/rate", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	view := decode[planner.RateView](t, rr)
	assert.Equal(t, store.DefaultLaborConfig, view.Config)
	assert.InDelta(t, 22.20, view.HourlyRate, 0.005)

	rr = ts.do(t, http.MethodPut, "/api/config", pricing.LaborConfig{
		MonthlySalary: 3000, MonthlyFixedCosts: 800, HoursPerDay: 0, DaysPerWeek: 5,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	view = decode[planner.RateView](t, rr)
	assert.Zero(t, view.HourlyRate)
	require.Len(t, view.Warnings, 1)
	assert.Equal(t, pricing.WarnZeroHours, view.Warnings[0].Code)

	rr = ts.do(t, http.MethodPut, "/api/config", pricing.LaborConfig{MonthlySalary: -1, HoursPerDay: 8, DaysPerWeek: 5})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestIngredientLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodGet, "/api/ingredients", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]pricing.Ingredient](t, rr), len(seed.DefaultCatalog))

	rr = ts.do(t, http.MethodPost, "/api/ingredients", pricing.Ingredient{Name: "Granulado", PackageWeight: 500, PackageCost: 9})
	require.Equal(t, http.StatusCreated, rr.Code)
	created := decode[pricing.Ingredient](t, rr)
	assert.NotZero(t, created.ID)

	created.PackageCost = 10
	rr = ts.do(t, http.MethodPut, "/api/ingredients/"+itoa(created.ID), created)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 10.0, decode[pricing.Ingredient](t, rr).PackageCost)

	rr = ts.do(t, http.MethodPost, "/api/ingredients", pricing.Ingredient{Name: "", PackageWeight: 1, PackageCost: 1})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.do(t, http.MethodDelete, "/api/ingredients/"+itoa(created.ID), nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.do(t, http.MethodDelete, "/api/ingredients/"+itoa(created.ID), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.do(t, http.MethodPut, "/api/ingredients/abc", created)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeleteIngredientInUseNeedsForce(t *testing.T) {
	ts := newTestServer(t)
	milk := ingredientByName(t, ts, "Leite Condensado")

	rr := ts.do(t, http.MethodPost, "/api/recipes", pricing.Recipe{
		Name: "Brigadeiro", YieldCount: 1, PrepMinutes: 60, MarginPercent: 30,
		Ingredients: []pricing.RecipeIngredient{{IngredientID: milk.ID, Quantity: 395}},
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.do(t, http.MethodDelete, "/api/ingredients/"+itoa(milk.ID), nil)
	require.Equal(t, http.StatusConflict, rr.Code)
	body := decode[errorBody](t, rr)
	assert.Equal(t, []string{"Brigadeiro"}, body.Recipes)

	rr = ts.do(t, http.MethodDelete, "/api/ingredients/"+itoa(milk.ID)+"?force=1", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.do(t, http.MethodGet, "/api/recipes", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	costs := decode[[]planner.RecipeCost](t, rr)
	require.Len(t, costs, 1)
	assert.Zero(t, costs[0].Cost.MaterialCost)
	require.NotEmpty(t, costs[0].Cost.Warnings)
	assert.Equal(t, pricing.WarnMissingIngredient, costs[0].Cost.Warnings[0].Code)
}

func TestRecipeCostAndPreview(t *testing.T) {
	ts := newTestServer(t)
	milk := ingredientByName(t, ts, "Leite Condensado")
	draft := pricing.Recipe{
		Name: "Brigadeiro", YieldCount: 25, PrepMinutes: 60, MarginPercent: 30,
		Ingredients: []pricing.RecipeIngredient{{IngredientID: milk.ID, Quantity: 395}},
	}

	rr := ts.do(t, http.MethodPost, "/api/recipes/preview", draft)
	require.Equal(t, http.StatusOK, rr.Code)
	preview := decode[planner.RecipeCost](t, rr)

	rr = ts.do(t, http.MethodPost, "/api/recipes", draft)
	require.Equal(t, http.StatusCreated, rr.Code)
	created := decode[pricing.Recipe](t, rr)

	rr = ts.do(t, http.MethodGet, "/api/recipes/"+itoa(created.ID)+"/cost", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	cost := decode[planner.RecipeCost](t, rr)

	assert.InDelta(t, 5.50, cost.Cost.MaterialCost, 1e-9)
	assert.InDelta(t, 0.55, cost.Cost.VariableCost, 1e-9)
	assert.InDelta(t, preview.Cost.SalePrice, cost.Cost.SalePrice, 1e-9)
	assert.InDelta(t, cost.Cost.SalePrice/25, cost.Cost.UnitPrice, 1e-9)

	rr = ts.do(t, http.MethodGet, "/api/recipes/999/cost", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	created.YieldCount = 0
	rr = ts.do(t, http.MethodPut, "/api/recipes/"+itoa(created.ID), created)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.do(t, http.MethodDelete, "/api/recipes/"+itoa(created.ID), nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestShoppingAdjustAndText(t *testing.T) {
	ts := newTestServer(t)
	milk := ingredientByName(t, ts, "Leite Condensado")
	cream := ingredientByName(t, ts, "Creme de Leite")

	rr := ts.do(t, http.MethodPost, "/api/shopping/adjust", adjustRequest{Type: pricing.SubjectIngredient, ID: milk.ID, Delta: 2})
	require.Equal(t, http.StatusOK, rr.Code)
	count := 1
	rr = ts.do(t, http.MethodPost, "/api/shopping/adjust", adjustRequest{Type: pricing.SubjectIngredient, ID: cream.ID, Count: &count})
	require.Equal(t, http.StatusOK, rr.Code)

	view := decode[planner.ShoppingView](t, rr)
	assert.Len(t, view.Selections, 2)
	assert.InDelta(t, 2*5.50+3.20, view.Result.GrandTotal, 1e-9)
	assert.InDelta(t, 790, view.Result.Lines["Leite Condensado"].Quantity, 1e-9)

	rr = ts.do(t, http.MethodGet, "/api/shopping/text", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
	text := rr.Body.String()
	assert.Contains(t, text, "Doces da Ana")
	assert.Contains(t, text, "Leite Condensado: 790g")
	assert.Contains(t, text, "R$\u00a014,20")

	rr = ts.do(t, http.MethodPost, "/api/shopping/adjust", adjustRequest{Type: pricing.SubjectIngredient, ID: milk.ID, Delta: -2})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[planner.ShoppingView](t, rr).Selections, 1)

	rr = ts.do(t, http.MethodPost, "/api/shopping/adjust", adjustRequest{Type: "pizza", ID: 1, Delta: 1})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.do(t, http.MethodDelete, "/api/shopping", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.do(t, http.MethodGet, "/api/shopping", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	view = decode[planner.ShoppingView](t, rr)
	assert.Empty(t, view.Selections)
	assert.Zero(t, view.Result.GrandTotal)
}

func TestMetricsEndpointIsPublic(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodGet, "/api/recipes", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "costing_shopping_lines")
}

func TestHandleRecipeCostWithRouteContext(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/recipes/0/cost", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "0")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rr := httptest.NewRecorder()

	ts.srv.handleRecipeCost(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `invalid id`)
}

func ingredientByName(t *testing.T, ts testServer, name string) pricing.Ingredient {
	t.Helper()
	rr := ts.do(t, http.MethodGet, "/api/ingredients", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	for _, ing := range decode[[]pricing.Ingredient](t, rr) {
		if ing.Name == name {
			return ing
		}
	}
	t.Fatalf("ingredient %q not found", name)
	return pricing.Ingredient{}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
