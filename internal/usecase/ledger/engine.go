// Package ledger is the single entry point for every pawn and loan
// transition. Each operation runs in one unit of work so request status,
// loan status and wallet balances change together or not at all.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"pawnshop-ledger/internal/domain/errs"
	"pawnshop-ledger/internal/domain/notify"
	"pawnshop-ledger/internal/domain/revenue"
	"pawnshop-ledger/internal/domain/txlog"
	"pawnshop-ledger/internal/domain/uow"
	"pawnshop-ledger/internal/domain/user"
	"pawnshop-ledger/internal/domain/wallet"
	"pawnshop-ledger/pkg/id"

	"github.com/moby/locker"
	"github.com/shopspring/decimal"
)

// Observer receives operation outcomes, e.g. for metrics.
type Observer interface {
	Transition(op string, err error)
	Capital(capital decimal.Decimal)
	Redeemed(total decimal.Decimal)
}

type Engine struct {
	uow  uow.UnitOfWork
	cfg  Settings
	sink notify.Sink
	log  *slog.Logger
	obs  Observer
	now  func() time.Time

	// per-entity and capital locks within this process
	keys *locker.Locker
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }

func WithNotifier(s notify.Sink) Option { return func(e *Engine) { e.sink = s } }

func WithObserver(o Observer) Option { return func(e *Engine) { e.obs = o } }

func NewEngine(tx uow.UnitOfWork, cfg Settings, opts ...Option) *Engine {
	e := &Engine{
		uow:  tx,
		cfg:  cfg,
		log:  slog.Default(),
		now:  func() time.Time { return time.Now().UTC() },
		keys: locker.New(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) Settings() Settings { return e.cfg }

type notice struct {
	userID   string
	message  string
	severity notify.Severity
}

// dispatch runs after commit. Delivery errors are logged, never returned.
func (e *Engine) dispatch(ctx context.Context, notes []notice) {
	if e.sink == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, n := range notes {
		if err := e.sink.Notify(ctx, n.userID, n.message, n.severity); err != nil {
			e.log.WarnContext(ctx, "notification dropped", "user_id", n.userID, "error", err)
		}
	}
}

func (e *Engine) observe(op string, err *error) {
	if e.obs != nil {
		e.obs.Transition(op, *err)
	}
}

func (e *Engine) record(ctx context.Context, r uow.Repos, ent txlog.Entry) error {
	ent.EntryID = id.NewID32()
	ent.CreatedAt = e.now()
	return r.Logs.Append(ctx, &ent)
}

func amount(d decimal.Decimal) decimal.NullDecimal { return decimal.NewNullDecimal(d) }

func requireAdmin(a Actor) error {
	if !a.Admin {
		return errs.Unauthorized("admin capability required")
	}
	return nil
}

// activeUser resolves the identity and refuses disabled accounts.
func activeUser(ctx context.Context, r uow.Repos, userID string) (*user.User, error) {
	u, err := r.Users.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.Enabled {
		return nil, errs.Unauthorized("account %s is disabled", userID)
	}
	return u, nil
}

// capital locks the house row and replays the ledger. Call it before any
// plain read in the transaction; under REPEATABLE READ the first plain read
// fixes the snapshot the replay sees.
func (e *Engine) capital(ctx context.Context, r uow.Repos) (decimal.Decimal, error) {
	if _, err := r.Wallets.GetOrCreateForUpdate(ctx, wallet.HouseAccount); err != nil {
		return decimal.Zero, err
	}
	entries, err := r.Logs.Ledger(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return revenue.Reconstruct(e.cfg.BaseCapital, entries), nil
}

// isNotFound is true for any domain not-found error.
func isNotFound(err error) bool { return errors.Is(err, errs.ErrNotFound) }
