package metrics

import (
	"pawnshop-ledger/internal/domain/errs"
	"pawnshop-ledger/internal/usecase/ledger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var _ ledger.Observer = (*Ledger)(nil)

// Ledger exports engine outcomes to Prometheus.
type Ledger struct {
	transitions *prometheus.CounterVec
	capital     prometheus.Gauge
	redeemed    prometheus.Counter
}

func New(reg prometheus.Registerer) *Ledger {
	f := promauto.With(reg)
	return &Ledger{
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pawnshop",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Ledger operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		capital: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "pawnshop",
			Subsystem: "ledger",
			Name:      "capital",
			Help:      "Shop capital after the last capital-moving operation.",
		}),
		redeemed: f.NewCounter(prometheus.CounterOpts{
			Namespace: "pawnshop",
			Subsystem: "ledger",
			Name:      "redeemed_amount_total",
			Help:      "Sum of redemption payments.",
		}),
	}
}

// Outcome labels an error by its domain kind.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	switch errs.Kind(err) {
	case errs.ErrBadRequest:
		return "bad_request"
	case errs.ErrNotFound:
		return "not_found"
	case errs.ErrInsufficientFunds:
		return "insufficient_funds"
	case errs.ErrUnauthorized:
		return "unauthorized"
	case errs.ErrInvalidAmount:
		return "invalid_amount"
	default:
		return "error"
	}
}

func (l *Ledger) Transition(op string, err error) {
	l.transitions.WithLabelValues(op, Outcome(err)).Inc()
}

func (l *Ledger) Capital(c decimal.Decimal) {
	l.capital.Set(c.InexactFloat64())
}

func (l *Ledger) Redeemed(total decimal.Decimal) {
	l.redeemed.Add(total.InexactFloat64())
}
