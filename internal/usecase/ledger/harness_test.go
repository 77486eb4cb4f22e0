package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"pawnshop-ledger/internal/adapter/repository/gormrepo"
	"pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/domain/notify"
	"pawnshop-ledger/internal/domain/pawn"
	"pawnshop-ledger/internal/domain/user"
	"pawnshop-ledger/pkg/id"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type recordingSink struct {
	mu   sync.Mutex
	msgs []notify.Message
	fail error
}

func (s *recordingSink) Notify(_ context.Context, userID, message string, sev notify.Severity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.msgs = append(s.msgs, notify.Message{UserID: userID, Message: message, Severity: sev})
	return nil
}

func (s *recordingSink) count(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.msgs {
		if m.UserID == userID {
			n++
		}
	}
	return n
}

type harness struct {
	t     *testing.T
	ctx   context.Context
	db    *gorm.DB
	eng   *Engine
	sink  *recordingSink
	admin Actor
	alice Actor
	bob   Actor

	mu  sync.Mutex
	now time.Time
}

func (h *harness) clock() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.now
}

func (h *harness) advance(d time.Duration) {
	h.mu.Lock()
	h.now = h.now.Add(d)
	h.mu.Unlock()
}

// newHarness wires the engine to an in-memory sqlite database holding one
// admin and two customers.
func newHarness(t *testing.T, base string) *harness {
	t.Helper()
	// :memory: is per connection
	db := openSQLite(t, ":memory:")
	require.NoError(t, gormrepo.AutoMigrate(db))
	return seedHarness(t, db, base)
}

func openSQLite(t *testing.T, dsn string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// newEngine builds another engine over db with its own in-process locks,
// standing in for a second server process.
func (h *harness) newEngine(db *gorm.DB) *Engine {
	return NewEngine(gormrepo.NewGormUoW(db), h.eng.Settings(),
		WithClock(h.clock),
		WithNotifier(h.sink),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func seedHarness(t *testing.T, db *gorm.DB, base string) *harness {
	t.Helper()
	h := &harness{
		t:    t,
		ctx:  context.Background(),
		db:   db,
		sink: &recordingSink{},
		now:  time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	users := gormrepo.NewUserRepository(db)
	mk := func(name string, role user.Role) Actor {
		u := &user.User{UserID: id.NewID32(), Username: name, Role: role, Enabled: true}
		require.NoError(t, users.Create(h.ctx, u))
		return Actor{UserID: u.UserID, Admin: role == user.RoleAdmin}
	}
	h.admin = mk("admin", user.RoleAdmin)
	h.alice = mk("alice", user.RoleUser)
	h.bob = mk("bob", user.RoleUser)

	cfg := DefaultSettings()
	cfg.BaseCapital = dec(base)
	h.eng = NewEngine(gormrepo.NewGormUoW(db), cfg,
		WithClock(h.clock),
		WithNotifier(h.sink),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	return h
}

func (h *harness) submit(owner Actor, item, estimate string) *pawn.PawnRequest {
	h.t.Helper()
	p, err := h.eng.SubmitPawnRequest(h.ctx, owner, SubmitInput{
		ItemName:       item,
		Condition:      "Good",
		Photos:         []string{"front.jpg", "back.jpg"},
		EstimatedValue: dec(estimate),
	})
	require.NoError(h.t, err)
	return p
}

// accepted drives a fresh request up to ACCEPTED with the given offer.
func (h *harness) accepted(owner Actor, item, offer string, rate int) *pawn.PawnRequest {
	h.t.Helper()
	p := h.submit(owner, item, offer)
	_, err := h.eng.AssessPawnRequest(h.ctx, h.admin, p.PawnID, AssessInput{OfferedAmount: dec(offer), InterestRate: rate, DurationDays: 30})
	require.NoError(h.t, err)
	p, err = h.eng.RespondToOffer(h.ctx, owner, p.PawnID, true)
	require.NoError(h.t, err)
	require.Equal(h.t, pawn.StatusAccepted, p.Status)
	return p
}

func (h *harness) funded(owner Actor, item, offer string, rate int) (*pawn.PawnRequest, *loan.Loan) {
	h.t.Helper()
	p := h.accepted(owner, item, offer, rate)
	l, err := h.eng.FundLoan(h.ctx, h.admin, p.PawnID, FundInput{})
	require.NoError(h.t, err)
	return p, l
}

func (h *harness) capital() decimal.Decimal {
	h.t.Helper()
	rep, err := h.eng.GetCurrentCapital(h.ctx)
	require.NoError(h.t, err)
	require.Truef(h.t, rep.Consistent, "reconstructed %s vs accumulated %s", rep.Capital, rep.Accumulated)
	return rep.Capital
}

func (h *harness) balance(a Actor) decimal.Decimal {
	h.t.Helper()
	w, err := h.eng.GetWalletBalance(h.ctx, a, "")
	require.NoError(h.t, err)
	return w.Balance
}

func (h *harness) pawnStatus(pawnID string) pawn.Status {
	h.t.Helper()
	p, err := h.eng.GetPawnRequest(h.ctx, h.admin, pawnID)
	require.NoError(h.t, err)
	return p.Status
}

func (h *harness) loanRow(loanID string) *loan.Loan {
	h.t.Helper()
	l, err := gormrepo.NewLoanRepository(h.db).GetByLoanID(h.ctx, loanID)
	require.NoError(h.t, err)
	return l
}

func requireKind(t *testing.T, err, kind error) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, errors.Is(err, kind), "want %v, got %v", kind, err)
}
