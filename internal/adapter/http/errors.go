package http

import (
	"errors"
	"log/slog"
	"net/http"

	"pawnshop-ledger/internal/domain/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type InsufficientFundsResponse struct {
	Error     string          `json:"error"`
	Subject   errs.Subject    `json:"subject"`
	Available decimal.Decimal `json:"available"`
	Requested decimal.Decimal `json:"requested"`
	Shortfall decimal.Decimal `json:"shortfall"`
}

// writeError maps ledger error kinds to HTTP codes.
func writeError(c echo.Context, log *slog.Logger, err error) error {
	switch errs.Kind(err) {
	case errs.ErrInsufficientFunds:
		var ife *errs.InsufficientFundsError
		if errors.As(err, &ife) {
			return c.JSON(http.StatusUnprocessableEntity, InsufficientFundsResponse{
				Error:     ife.Error(),
				Subject:   ife.Subject,
				Available: ife.Available,
				Requested: ife.Requested,
				Shortfall: ife.Shortfall,
			})
		}
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errs.ErrBadRequest:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errs.ErrNotFound:
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errs.ErrUnauthorized:
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errs.ErrInvalidAmount:
		log.ErrorContext(c.Request().Context(), "ledger invariant violated",
			"method", c.Request().Method, "path", c.Path(), "err", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	default:
		log.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "err", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// bindValid binds and validates the body. It writes the response itself
// and returns false when the request is rejected.
func bindValid(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
