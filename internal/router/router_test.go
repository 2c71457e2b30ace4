package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-pos/internal/handler"
	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/repository/memory"
	"github.com/iliyamo/restaurant-pos/internal/service/orders"
	"github.com/iliyamo/restaurant-pos/internal/service/pricing"
	"github.com/iliyamo/restaurant-pos/internal/utils"
)

const secret = "router-secret"

type api struct {
	e     *echo.Echo
	store *memory.Store
	token string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store := memory.New()
	store.PutTable(model.Table{ID: "t1", RestaurantID: "r1", Status: model.TableAvailable})
	store.PutSettings(model.RestaurantSettings{RestaurantID: "r1", TaxEnabled: true, TaxRate: decimal.RequireFromString("10")})
	log, _ := test.NewNullLogger()

	coord := orders.New(store.DB(), store, orders.Repositories{
		Orders:      store.Orders(),
		Items:       store.Items(),
		DineIn:      store.DineIn(),
		Takeaway:    store.Takeaway(),
		Delivery:    store.Delivery(),
		Reservation: store.Reservation(),
		Tables:      store.Tables(),
		Audit:       store.Audit(),
		Customers:   store.Customers(),
		Menu:        store.Menu(),
		Payments:    store.Payments(),
	}, pricing.NewCalculator(pricing.NewRepoSettings(store.Settings())), nil, log)

	e := echo.New()
	RegisterRoutes(e, &handler.HealthHandler{})
	RegisterOrders(e, handler.NewOrderHandler(coord, log), secret, nil)

	tok, err := utils.NewAccessToken(secret, "waiter-1", "STAFF", time.Hour)
	require.NoError(t, err)
	return &api{e: e, store: store, token: tok.Token}
}

func (a *api) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Authorization", "Bearer "+a.token)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	var out map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestHealthIsPublic(t *testing.T) {
	a := newAPI(t)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestOrdersRequireToken(t *testing.T) {
	a := newAPI(t)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/orders/x", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDineInLifecycleOverHTTP(t *testing.T) {
	a := newAPI(t)

	rec, created := a.do(t, http.MethodPost, "/v1/orders", `{
		"restaurant_id": "r1",
		"type": "DINE_IN",
		"table_id": "t1",
		"guest_count": 3,
		"items": [{"menu_item_id": "pasta", "name": "Pasta", "quantity": 2, "unit_price": "12.50"}]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := created["id"].(string)
	assert.Equal(t, "DRAFT", created["status"])
	assert.Equal(t, "27.5", created["total"])
	assert.Equal(t, "waiter-1", created["created_by"])

	rec, got := a.do(t, http.MethodGet, "/v1/orders/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	ext := got["extension"].(map[string]any)
	assert.Equal(t, "t1", ext["table_id"])

	rec, _ = a.do(t, http.MethodPatch, "/v1/orders/"+id, `{"guest_count": 2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, trail := a.do(t, http.MethodGet, "/v1/orders/"+id+"/audit", "")
	require.Equal(t, http.StatusOK, rec.Code)
	items := trail["items"].([]any)
	require.Len(t, items, 1)
	entry := items[0].(map[string]any)
	assert.Equal(t, model.AuditGuestCountReduction, entry["action_type"])
	assert.Equal(t, "waiter-1", entry["staff_id"])

	rec, fired := a.do(t, http.MethodPost, "/v1/orders/"+id+"/fire", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "CONFIRMED", fired["status"])

	rec, _ = a.do(t, http.MethodDelete, "/v1/orders/"+id, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = a.do(t, http.MethodPost, "/v1/orders/"+id+"/settle", `{"method":"card","amount":"27.50","force":true}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = a.do(t, http.MethodPatch, "/v1/orders/"+id, `{"status":"voided","reason":"comped"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tbl, _ := a.store.Table("t1")
	assert.Equal(t, model.TableAvailable, tbl.Status)
}

func TestDraftDeleteAndNotFound(t *testing.T) {
	a := newAPI(t)
	rec, created := a.do(t, http.MethodPost, "/v1/orders", `{"restaurant_id":"r1","type":"takeaway","items":[]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := created["id"].(string)

	rec, _ = a.do(t, http.MethodPost, "/v1/orders/"+id+"/fire", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = a.do(t, http.MethodDelete, "/v1/orders/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = a.do(t, http.MethodDelete, "/v1/orders/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = a.do(t, http.MethodGet, "/v1/orders/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = a.do(t, http.MethodPatch, "/v1/orders/"+id, `{"notes":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = a.do(t, http.MethodPost, "/v1/orders/"+id+"/fire", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnsupportedTypeOverHTTP(t *testing.T) {
	a := newAPI(t)
	rec, body := a.do(t, http.MethodPost, "/v1/orders", `{"restaurant_id":"r1","type":"drone","items":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "DRONE")
}
