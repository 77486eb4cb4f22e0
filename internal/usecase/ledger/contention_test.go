package ledger

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"pawnshop-ledger/internal/adapter/repository/gormrepo"
	"pawnshop-ledger/internal/domain/errs"
	"pawnshop-ledger/internal/domain/pawn"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoProcesses returns a harness and a second engine that share one sqlite
// file but no in-process locks, so only the database serializes them.
func twoProcesses(t *testing.T, base string) (*harness, *Engine) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "ledger.db") + "?_busy_timeout=5000&_txlock=immediate"
	first := openSQLite(t, dsn)
	require.NoError(t, gormrepo.AutoMigrate(first))
	h := seedHarness(t, first, base)
	return h, h.newEngine(openSQLite(t, dsn))
}

// race runs every fn at once and returns their errors in order.
func race(fns ...func() error) []error {
	out := make([]error, len(fns))
	var start, done sync.WaitGroup
	start.Add(1)
	for i, fn := range fns {
		done.Add(1)
		go func(i int, fn func() error) {
			defer done.Done()
			start.Wait()
			out[i] = fn()
		}(i, fn)
	}
	start.Done()
	done.Wait()
	return out
}

func TestTwoEngines_FundAndAddCashShareCapital(t *testing.T) {
	for round := 0; round < 5; round++ {
		h, other := twoProcesses(t, "1000")
		p := h.accepted(h.alice, "Ring", "600", 5)

		errsOut := race(
			func() error {
				_, err := h.eng.FundLoan(h.ctx, h.admin, p.PawnID, FundInput{})
				return err
			},
			func() error {
				_, err := other.AdminAddCash(h.ctx, h.admin, h.bob.UserID, dec("600"), "promo")
				return err
			},
		)

		won := 0
		for _, err := range errsOut {
			switch {
			case err == nil:
				won++
			case !errors.Is(err, errs.ErrInsufficientFunds):
				t.Fatalf("round %d: unexpected error %v", round, err)
			}
		}
		assert.Equal(t, 1, won, "round %d: exactly one spend may pass the capital check", round)
		assert.True(t, h.capital().Equal(dec("400")), "round %d: capital %s", round, h.capital())
	}
}

func TestTwoEngines_OneOutstandingRequestPerOwner(t *testing.T) {
	for round := 0; round < 5; round++ {
		h, other := twoProcesses(t, "1000")
		submit := func(e *Engine, item string) func() error {
			return func() error {
				_, err := e.SubmitPawnRequest(h.ctx, h.alice, SubmitInput{ItemName: item, EstimatedValue: dec("100")})
				return err
			}
		}

		errsOut := race(submit(h.eng, "Ring"), submit(other, "Watch"))

		won := 0
		for _, err := range errsOut {
			switch {
			case err == nil:
				won++
			case !errors.Is(err, errs.ErrBadRequest):
				t.Fatalf("round %d: unexpected error %v", round, err)
			}
		}
		assert.Equal(t, 1, won, "round %d", round)

		open, err := h.eng.ListPawnRequests(h.ctx, h.alice, pawn.Filter{OwnerID: h.alice.UserID, Statuses: pawn.Outstanding})
		require.NoError(t, err)
		assert.Len(t, open, 1, "round %d", round)
	}
}
