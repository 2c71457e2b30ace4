package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-pos/internal/service/orders"
)

// writeError maps service errors to HTTP responses. Storage failures are
// logged and reported without detail.
func writeError(c echo.Context, log logrus.FieldLogger, err error) error {
	var (
		ve *orders.ValidationError
		ue *orders.UnsupportedTypeError
		te *orders.TransitionError
	)
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed", "details": ve.Errors})
	case errors.As(err, &ue):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ue.Error()})
	case errors.As(err, &te):
		return c.JSON(http.StatusConflict, echo.Map{"error": te.Error()})
	case errors.Is(err, orders.ErrOrderNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}
	log.WithError(err).WithField("route", c.Path()).Error("order operation failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
