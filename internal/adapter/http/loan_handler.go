package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type penaltyReq struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0,dec2"`
}

// GetUserLoans lists the caller's loans; admins may pass ?user_id=.
func (h *Handler) GetUserLoans(c echo.Context) error {
	a := actorOf(c)
	userID := c.QueryParam("user_id")
	if userID == "" {
		userID = a.UserID
	}
	loans, err := h.eng.GetUserLoans(c.Request().Context(), a, userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) RedeemLoan(c echo.Context) error {
	l, err := h.eng.RedeemLoan(c.Request().Context(), actorOf(c), c.Param("loan_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) GetActiveLoans(c echo.Context) error {
	loans, err := h.eng.GetActiveLoans(c.Request().Context(), actorOf(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) ForfeitLoan(c echo.Context) error {
	l, err := h.eng.ForfeitLoan(c.Request().Context(), actorOf(c), c.Param("loan_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) AssessPenalty(c echo.Context) error {
	var req penaltyReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	l, err := h.eng.AssessPenalty(c.Request().Context(), actorOf(c), c.Param("loan_id"), req.Amount)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) GetCurrentCapital(c echo.Context) error {
	rep, err := h.eng.GetCurrentCapital(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}
