package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type amountReq struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0,dec2"`
}

// cashOutReq leaves sign checks to the engine, which answers a non-positive
// amount with the wallet figures.
type cashOutReq struct {
	Amount decimal.Decimal `json:"amount" validate:"dec2"`
}

type adjustReq struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0,dec2"`
	Reason string          `json:"reason" validate:"max=500"`
}

func (h *Handler) CashIn(c echo.Context) error {
	var req amountReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	w, err := h.eng.CashIn(c.Request().Context(), actorOf(c), req.Amount)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, w)
}

func (h *Handler) CashOut(c echo.Context) error {
	var req cashOutReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	w, err := h.eng.CashOut(c.Request().Context(), actorOf(c), req.Amount)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, w)
}

// GetWalletBalance reads the caller's wallet; admins may pass ?user_id=.
func (h *Handler) GetWalletBalance(c echo.Context) error {
	a := actorOf(c)
	userID := c.QueryParam("user_id")
	if userID == "" {
		userID = a.UserID
	}
	w, err := h.eng.GetWalletBalance(c.Request().Context(), a, userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, w)
}

func (h *Handler) AdminAddCash(c echo.Context) error   { return h.adjust(c, true) }
func (h *Handler) AdminRemoveCash(c echo.Context) error { return h.adjust(c, false) }

func (h *Handler) adjust(c echo.Context, add bool) error {
	userID := c.Param("user_id")
	if !reHex32.MatchString(userID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id path param"})
	}
	var req adjustReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	op := h.eng.AdminRemoveCash
	if add {
		op = h.eng.AdminAddCash
	}
	w, err := op(c.Request().Context(), actorOf(c), userID, req.Amount, req.Reason)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, w)
}

func (h *Handler) GetDashboard(c echo.Context) error {
	d, err := h.eng.GetDashboard(c.Request().Context(), actorOf(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// GetHistory is the caller's own transaction log.
func (h *Handler) GetHistory(c echo.Context) error {
	a := actorOf(c)
	entries, err := h.eng.GetTransactionLog(c.Request().Context(), a, a.UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// GetTransactionLog is the admin view; without ?user_id= it spans every user.
func (h *Handler) GetTransactionLog(c echo.Context) error {
	entries, err := h.eng.GetTransactionLog(c.Request().Context(), actorOf(c), c.QueryParam("user_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) DeleteLogEntry(c echo.Context) error {
	if err := h.eng.DeleteLogEntry(c.Request().Context(), actorOf(c), c.Param("entry_id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ClearHistory(c echo.Context) error {
	n, err := h.eng.ClearHistory(c.Request().Context(), actorOf(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"cleared": n})
}
