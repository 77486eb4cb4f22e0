package http

import (
	"log/slog"
	"net/http"
	"time"

	"pawnshop-ledger/internal/usecase/ledger"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	eng *ledger.Engine
	log *slog.Logger
}

func NewHandler(eng *ledger.Engine, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{eng: eng, log: log}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (h *Handler) fail(c echo.Context, err error) error { return writeError(c, h.log, err) }
