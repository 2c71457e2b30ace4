// Package handler exposes the order lifecycle over HTTP.
package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-pos/internal/middleware"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

// OrderService is the part of the order coordinator the HTTP layer uses.
type OrderService interface {
	CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error)
	UpdateOrder(ctx context.Context, id string, req model.UpdateOrderRequest) (*model.Order, error)
	FireOrderToKitchen(ctx context.Context, id string) (*model.Order, error)
	SettleOrder(ctx context.Context, id string, req model.SettleRequest) (*model.Order, error)
	DeleteOrder(ctx context.Context, id string) (bool, error)
	GetOrderDetails(ctx context.Context, id string) (*model.Order, error)
	AuditTrail(ctx context.Context, id string) ([]model.AuditEntry, error)
}

// OrderHandler serves /v1/orders.
type OrderHandler struct {
	svc OrderService
	log logrus.FieldLogger
}

// NewOrderHandler panics when svc is nil.
func NewOrderHandler(svc OrderService, log logrus.FieldLogger) *OrderHandler {
	if svc == nil {
		panic("nil order service passed to NewOrderHandler")
	}
	return &OrderHandler{svc: svc, log: log}
}

func staffRef(c echo.Context) *string {
	if id := middleware.StaffID(c); id != "" {
		return &id
	}
	return nil
}

func orderID(c echo.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	return id, id != ""
}

// Create handles POST /v1/orders. The order is saved as a DRAFT; created_by
// defaults to the authenticated staff member.
func (h *OrderHandler) Create(c echo.Context) error {
	var req model.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Type = model.OrderType(strings.ToUpper(strings.TrimSpace(string(req.Type))))
	if req.CreatedBy == nil {
		req.CreatedBy = staffRef(c)
	}
	o, err := h.svc.CreateOrder(c.Request().Context(), req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, o)
}

// Get handles GET /v1/orders/:id.
func (h *OrderHandler) Get(c echo.Context) error {
	id, ok := orderID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	o, err := h.svc.GetOrderDetails(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if o == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}
	return c.JSON(http.StatusOK, o)
}

// Update handles PATCH /v1/orders/:id. Omitted fields are left unchanged;
// an items array replaces every line. authorized_by defaults to the
// authenticated staff member.
func (h *OrderHandler) Update(c echo.Context) error {
	id, ok := orderID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req model.UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Type != nil {
		t := model.OrderType(strings.ToUpper(strings.TrimSpace(string(*req.Type))))
		req.Type = &t
	}
	if req.Status != nil {
		s := model.OrderStatus(strings.ToUpper(strings.TrimSpace(string(*req.Status))))
		req.Status = &s
	}
	if req.AuthorizedBy == nil {
		req.AuthorizedBy = staffRef(c)
	}
	o, err := h.svc.UpdateOrder(c.Request().Context(), id, req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if o == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}
	return c.JSON(http.StatusOK, o)
}

// Delete handles DELETE /v1/orders/:id. Only DRAFT orders can be deleted.
func (h *OrderHandler) Delete(c echo.Context) error {
	id, ok := orderID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	deleted, err := h.svc.DeleteOrder(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Fire handles POST /v1/orders/:id/fire.
func (h *OrderHandler) Fire(c echo.Context) error {
	id, ok := orderID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	o, err := h.svc.FireOrderToKitchen(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, o)
}

// Settle handles POST /v1/orders/:id/settle. Forcing a settlement past
// unfinished kitchen items needs a MANAGER or ADMIN token.
func (h *OrderHandler) Settle(c echo.Context) error {
	id, ok := orderID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req model.SettleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Force && !middleware.CanOverride(middleware.Role(c)) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "force settle requires a manager"})
	}
	req.StaffID = staffRef(c)
	o, err := h.svc.SettleOrder(c.Request().Context(), id, req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, o)
}

// Audit handles GET /v1/orders/:id/audit.
func (h *OrderHandler) Audit(c echo.Context) error {
	id, ok := orderID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	entries, err := h.svc.AuditTrail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if entries == nil {
		entries = []model.AuditEntry{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": entries})
}
