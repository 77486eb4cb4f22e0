package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Routes wires every ledger operation. idempotency guards mutating calls
// when non-nil; metrics is served at /metrics when non-nil.
func (h *Handler) Routes(e *echo.Echo, idempotency echo.MiddlewareFunc, metrics http.Handler) {
	e.GET("/health", h.Health)
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}

	v1 := e.Group("/v1", ActorMiddleware)
	if idempotency != nil {
		v1.Use(idempotency)
	}

	v1.POST("/pawn-requests", h.SubmitPawnRequest)
	v1.GET("/pawn-requests", h.ListPawnRequests)
	v1.GET("/pawn-requests/:pawn_id", h.GetPawnRequest)
	v1.DELETE("/pawn-requests/:pawn_id", h.DeletePawnRequest)
	v1.POST("/pawn-requests/:pawn_id/respond", h.RespondToOffer)
	v1.POST("/pawn-requests/:pawn_id/renew", h.RenewLoan)

	v1.GET("/loans", h.GetUserLoans)
	v1.POST("/loans/:loan_id/redeem", h.RedeemLoan)

	v1.GET("/wallet", h.GetWalletBalance)
	v1.POST("/wallet/cash-in", h.CashIn)
	v1.POST("/wallet/cash-out", h.CashOut)

	v1.GET("/dashboard", h.GetDashboard)
	v1.GET("/history", h.GetHistory)
	v1.DELETE("/history", h.ClearHistory)
	v1.DELETE("/history/:entry_id", h.DeleteLogEntry)

	adm := v1.Group("/admin", RequireAdmin)
	adm.GET("/capital", h.GetCurrentCapital)
	adm.GET("/pawn-requests", h.ListPawnRequests)
	adm.POST("/pawn-requests/:pawn_id/assess", h.AssessPawnRequest)
	adm.POST("/pawn-requests/:pawn_id/decline", h.DeclinePawnRequest)
	adm.POST("/pawn-requests/:pawn_id/fund", h.FundLoan)
	adm.GET("/loans", h.GetActiveLoans)
	adm.POST("/loans/:loan_id/forfeit", h.ForfeitLoan)
	adm.POST("/loans/:loan_id/penalty", h.AssessPenalty)
	adm.GET("/inventory", h.GetInventory)
	adm.GET("/transactions", h.GetTransactionLog)
	adm.POST("/wallets/:user_id/add", h.AdminAddCash)
	adm.POST("/wallets/:user_id/remove", h.AdminRemoveCash)
}
