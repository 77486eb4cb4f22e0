package http

import (
	"net/http"
	"strings"

	"pawnshop-ledger/internal/domain/pawn"
	"pawnshop-ledger/internal/usecase/ledger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type submitReq struct {
	ItemName       string          `json:"item_name"       validate:"required,max=255"`
	Brand          string          `json:"brand"           validate:"max=120"`
	Size           string          `json:"size"            validate:"max=60"`
	Condition      string          `json:"condition"       validate:"max=60"`
	Category       string          `json:"category"        validate:"max=120"`
	Description    string          `json:"description"     validate:"max=2000"`
	Photos         []string        `json:"photos"          validate:"max=2,dive,required,max=512"`
	EstimatedValue decimal.Decimal `json:"estimated_value" validate:"required,gt=0,dec2"`
}

type assessReq struct {
	OfferedAmount decimal.Decimal `json:"offered_amount" validate:"required,gt=0,dec2"`
	InterestRate  int             `json:"interest_rate"  validate:"gte=0,lte=100"`
	DurationDays  int             `json:"duration_days"  validate:"gte=0,lte=365"`
	Remarks       string          `json:"remarks"        validate:"max=1000"`
}

type declineReq struct {
	Remarks string `json:"remarks" validate:"max=1000"`
}

type respondReq struct {
	Accept *bool `json:"accept" validate:"required"`
}

type fundReq struct {
	InterestRate int `json:"interest_rate" validate:"gte=0,lte=100"`
	DurationDays int `json:"duration_days" validate:"gte=0,lte=365"`
}

func (h *Handler) SubmitPawnRequest(c echo.Context) error {
	var req submitReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	p, err := h.eng.SubmitPawnRequest(c.Request().Context(), actorOf(c), ledger.SubmitInput(req))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPawnRequest(c echo.Context) error {
	p, err := h.eng.GetPawnRequest(c.Request().Context(), actorOf(c), c.Param("pawn_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// ListPawnRequests accepts ?status=PENDING,OFFER_MADE and, for admins, ?owner_id=.
func (h *Handler) ListPawnRequests(c echo.Context) error {
	var f pawn.Filter
	f.OwnerID = strings.TrimSpace(c.QueryParam("owner_id"))
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			f.Statuses = append(f.Statuses, pawn.Status(strings.ToUpper(strings.TrimSpace(s))))
		}
	}
	list, err := h.eng.ListPawnRequests(c.Request().Context(), actorOf(c), f)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) DeletePawnRequest(c echo.Context) error {
	if err := h.eng.DeletePawnRequest(c.Request().Context(), actorOf(c), c.Param("pawn_id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RespondToOffer(c echo.Context) error {
	var req respondReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	p, err := h.eng.RespondToOffer(c.Request().Context(), actorOf(c), c.Param("pawn_id"), *req.Accept)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) RenewLoan(c echo.Context) error {
	p, err := h.eng.RenewLoan(c.Request().Context(), actorOf(c), c.Param("pawn_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) AssessPawnRequest(c echo.Context) error {
	var req assessReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	p, err := h.eng.AssessPawnRequest(c.Request().Context(), actorOf(c), c.Param("pawn_id"), ledger.AssessInput(req))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeclinePawnRequest(c echo.Context) error {
	var req declineReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	p, err := h.eng.DeclinePawnRequest(c.Request().Context(), actorOf(c), c.Param("pawn_id"), req.Remarks)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) FundLoan(c echo.Context) error {
	var req fundReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	l, err := h.eng.FundLoan(c.Request().Context(), actorOf(c), c.Param("pawn_id"), ledger.FundInput(req))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *Handler) GetInventory(c echo.Context) error {
	list, err := h.eng.GetInventory(c.Request().Context(), actorOf(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}
