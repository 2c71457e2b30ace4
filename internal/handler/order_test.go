package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-pos/internal/middleware"
	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/service/orders"
)

// stubService returns err from every call and records the last request.
type stubService struct {
	err     error
	created model.CreateOrderRequest
	updated model.UpdateOrderRequest
	settled model.SettleRequest
}

func (s *stubService) CreateOrder(_ context.Context, req model.CreateOrderRequest) (*model.Order, error) {
	s.created = req
	if s.err != nil {
		return nil, s.err
	}
	return &model.Order{ID: "o-1", Type: req.Type, Status: model.OrderStatusDraft}, nil
}

func (s *stubService) UpdateOrder(_ context.Context, _ string, req model.UpdateOrderRequest) (*model.Order, error) {
	s.updated = req
	return nil, s.err
}

func (s *stubService) FireOrderToKitchen(context.Context, string) (*model.Order, error) {
	return nil, s.err
}

func (s *stubService) SettleOrder(_ context.Context, id string, req model.SettleRequest) (*model.Order, error) {
	s.settled = req
	if s.err != nil {
		return nil, s.err
	}
	return &model.Order{ID: id, Status: model.OrderStatusPaid}, nil
}

func (s *stubService) DeleteOrder(context.Context, string) (bool, error) { return false, s.err }

func (s *stubService) GetOrderDetails(context.Context, string) (*model.Order, error) {
	return nil, s.err
}

func (s *stubService) AuditTrail(context.Context, string) ([]model.AuditEntry, error) {
	return nil, s.err
}

func serve(t *testing.T, h echo.HandlerFunc, method, body, role string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/v1/orders/o-1", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/orders/:id")
	c.SetParamNames("id")
	c.SetParamValues("o-1")
	c.Set(middleware.ContextStaffID, "staff-1")
	c.Set(middleware.ContextRole, role)
	require.NoError(t, h(c))
	return rec
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{&orders.ValidationError{Errors: []string{"items[0].quantity must be at least 1"}}, http.StatusUnprocessableEntity},
		{&orders.UnsupportedTypeError{Type: "DRONE"}, http.StatusBadRequest},
		{&orders.TransitionError{From: model.OrderStatusPaid, To: model.OrderStatusDraft, Reason: "order is closed"}, http.StatusConflict},
		{errors.Wrap(orders.ErrOrderNotFound, "fire"), http.StatusNotFound},
		{&orders.TransactionError{Op: "fire order", Err: errors.New("deadlock")}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		log, _ := test.NewNullLogger()
		h := NewOrderHandler(&stubService{err: tc.err}, log)
		rec := serve(t, h.Fire, http.MethodPost, "", middleware.RoleStaff)
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
	}
}

func TestValidationErrorBody(t *testing.T) {
	log, _ := test.NewNullLogger()
	h := NewOrderHandler(&stubService{err: &orders.ValidationError{Errors: []string{"a", "b"}}}, log)
	rec := serve(t, h.Fire, http.MethodPost, "", middleware.RoleStaff)
	assert.JSONEq(t, `{"error":"validation failed","details":["a","b"]}`, rec.Body.String())
}

func TestInternalErrorIsLogged(t *testing.T) {
	log, hook := test.NewNullLogger()
	h := NewOrderHandler(&stubService{err: errors.New("connection reset")}, log)
	rec := serve(t, h.Fire, http.MethodPost, "", middleware.RoleStaff)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "order operation failed", hook.LastEntry().Message)
}

func TestCreateDefaultsCreatedBy(t *testing.T) {
	log, _ := test.NewNullLogger()
	svc := &stubService{}
	h := NewOrderHandler(svc, log)
	rec := serve(t, h.Create, http.MethodPost, `{"restaurant_id":"r1","type":"takeaway","items":[]}`, middleware.RoleStaff)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, model.OrderTypeTakeaway, svc.created.Type)
	require.NotNil(t, svc.created.CreatedBy)
	assert.Equal(t, "staff-1", *svc.created.CreatedBy)
}

func TestUpdateNormalisesAndDefaultsAuthorizer(t *testing.T) {
	log, _ := test.NewNullLogger()
	svc := &stubService{}
	h := NewOrderHandler(svc, log)
	rec := serve(t, h.Update, http.MethodPatch, `{"status":"cancelled","items":[]}`, middleware.RoleStaff)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, model.OrderStatusCancelled, *svc.updated.Status)
	assert.NotNil(t, svc.updated.Items)
	assert.Empty(t, svc.updated.Items)
	assert.Equal(t, "staff-1", *svc.updated.AuthorizedBy)
}

func TestForceSettleNeedsManager(t *testing.T) {
	log, _ := test.NewNullLogger()
	svc := &stubService{}
	h := NewOrderHandler(svc, log)
	body := `{"method":"cash","amount":"12.50","force":true}`

	rec := serve(t, h.Settle, http.MethodPost, body, middleware.RoleStaff)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(t, h.Settle, http.MethodPost, body, middleware.RoleManager)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.settled.Force)
	assert.Equal(t, "12.5", svc.settled.Amount.String())
	assert.Equal(t, "staff-1", *svc.settled.StaffID)
}

func TestHealth(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/healthz", nil), rec)
	require.NoError(t, (&HealthHandler{}).Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/healthz", nil), rec)
	down := &HealthHandler{Ping: func(context.Context) error { return errors.New("down") }}
	require.NoError(t, down.Health(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
