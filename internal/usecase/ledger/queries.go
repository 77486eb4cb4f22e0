package ledger

import (
	"context"
	"fmt"

	"pawnshop-ledger/internal/domain/errs"
	"pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/domain/money"
	"pawnshop-ledger/internal/domain/pawn"
	"pawnshop-ledger/internal/domain/revenue"
	"pawnshop-ledger/internal/domain/txlog"
	"pawnshop-ledger/internal/domain/uow"

	"github.com/shopspring/decimal"
)

// GetCurrentCapital reports capital from the log replay alongside the
// figure derived from loan rows.
func (e *Engine) GetCurrentCapital(ctx context.Context) (revenue.Report, error) {
	var rep revenue.Report
	err := e.uow.WithinTx(ctx, func(r uow.Repos) error {
		entries, err := r.Logs.Ledger(ctx)
		if err != nil {
			return err
		}
		loans, err := r.Loans.ListByStatus(ctx)
		if err != nil {
			return err
		}
		rep = revenue.NewReport(e.cfg.BaseCapital, e.cfg.ForfeitMarkup, entries, loans)
		return nil
	})
	if err != nil {
		return revenue.Report{}, err
	}
	if !rep.Consistent {
		e.log.WarnContext(ctx, "capital methods disagree",
			"reconstructed", rep.Capital.String(), "accumulated", rep.Accumulated.String())
	}
	if e.obs != nil {
		e.obs.Capital(rep.Capital)
	}
	return rep, nil
}

func (e *Engine) views(loans []loan.Loan, pawns []pawn.PawnRequest) []LoanView {
	byID := make(map[uint64]*pawn.PawnRequest, len(pawns))
	for i := range pawns {
		byID[pawns[i].ID] = &pawns[i]
	}
	now := e.now()
	out := make([]LoanView, 0, len(loans))
	for _, l := range loans {
		v := LoanView{Loan: l, TotalRedeemAmount: l.TotalRedeemAmount(), Overdue: l.IsOverdue(now)}
		if p, ok := byID[l.PawnRequestID]; ok {
			v.PawnID, v.ItemName = p.PawnID, p.ItemName
		}
		out = append(out, v)
	}
	return out
}

// GetUserLoans lists every loan of the user, newest funding first.
func (e *Engine) GetUserLoans(ctx context.Context, actor Actor, userID string) ([]LoanView, error) {
	if userID == "" {
		userID = actor.UserID
	}
	if userID != actor.UserID && !actor.Admin {
		return nil, errs.Unauthorized("cannot list another user's loans")
	}
	var out []LoanView
	err := e.uow.WithinTx(ctx, func(r uow.Repos) error {
		loans, err := r.Loans.ListByBorrowerID(ctx, userID)
		if err != nil {
			return err
		}
		pawns, err := r.Pawns.List(ctx, pawn.Filter{OwnerID: userID})
		if err != nil {
			return err
		}
		out = e.views(loans, pawns)
		return nil
	})
	return out, err
}

// GetActiveLoans lists ACTIVE loans, earliest due first.
func (e *Engine) GetActiveLoans(ctx context.Context, admin Actor) ([]LoanView, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	var out []LoanView
	err := e.uow.WithinTx(ctx, func(r uow.Repos) error {
		loans, err := r.Loans.ListByStatus(ctx, loan.StatusActive)
		if err != nil {
			return err
		}
		pawns, err := r.Pawns.List(ctx, pawn.Filter{Statuses: []pawn.Status{pawn.StatusPawned}})
		if err != nil {
			return err
		}
		out = e.views(loans, pawns)
		return nil
	})
	return out, err
}

// GetTransactionLog returns visible history, newest first. An empty userID
// means every user and needs the admin capability.
func (e *Engine) GetTransactionLog(ctx context.Context, actor Actor, userID string) ([]txlog.Entry, error) {
	if userID == "" && !actor.Admin {
		return nil, errs.Unauthorized("admin capability required to list all transactions")
	}
	if userID != "" && userID != actor.UserID && !actor.Admin {
		return nil, errs.Unauthorized("cannot read another user's transactions")
	}
	var out []txlog.Entry
	err := e.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		out, err = r.Logs.List(ctx, userID)
		return err
	})
	return out, err
}

// DeleteLogEntry hides one entry from its owner's history. Capital replay
// still sees it.
func (e *Engine) DeleteLogEntry(ctx context.Context, actor Actor, entryID string) (err error) {
	defer e.observe("delete_log_entry", &err)

	return e.uow.WithinTx(ctx, func(r uow.Repos) error {
		ent, err := r.Logs.GetByEntryID(ctx, entryID)
		if err != nil {
			return err
		}
		if ent.UserID != actor.UserID {
			return errs.Unauthorized("transaction %s does not belong to you", entryID)
		}
		n, err := r.Logs.Hide(ctx, entryID, actor.UserID, e.now())
		if err != nil {
			return err
		}
		if n == 0 {
			return txlog.ErrNotFound
		}
		return nil
	})
}

// ClearHistory hides every entry of the caller and returns how many.
func (e *Engine) ClearHistory(ctx context.Context, actor Actor) (n int64, err error) {
	defer e.observe("clear_history", &err)

	err = e.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		n, err = r.Logs.HideAll(ctx, actor.UserID, e.now())
		return err
	})
	if err != nil {
		return 0, err
	}
	e.log.InfoContext(ctx, "history cleared", "user_id", actor.UserID, "entries", n)
	return n, nil
}

func (e *Engine) GetPawnRequest(ctx context.Context, actor Actor, pawnID string) (*pawn.PawnRequest, error) {
	var out *pawn.PawnRequest
	err := e.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Pawns.GetByPawnID(ctx, pawnID)
		if err != nil {
			return err
		}
		if p.OwnerID != actor.UserID && !actor.Admin {
			return errs.Unauthorized("pawn request %s does not belong to you", pawnID)
		}
		out = p
		return nil
	})
	return out, err
}

// ListPawnRequests scopes non-admin callers to their own requests.
func (e *Engine) ListPawnRequests(ctx context.Context, actor Actor, f pawn.Filter) ([]pawn.PawnRequest, error) {
	if !actor.Admin {
		f.OwnerID = actor.UserID
	}
	var out []pawn.PawnRequest
	err := e.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		out, err = r.Pawns.List(ctx, f)
		return err
	})
	return out, err
}

// GetInventory lists items the shop kept after forfeiture.
func (e *Engine) GetInventory(ctx context.Context, admin Actor) ([]pawn.PawnRequest, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	return e.ListPawnRequests(ctx, admin, pawn.Filter{Statuses: []pawn.Status{pawn.StatusForfeited}})
}

func (e *Engine) GetDashboard(ctx context.Context, actor Actor) (*Dashboard, error) {
	now := e.now()
	soon := now.AddDate(0, 0, e.cfg.DueSoonDays)
	out := &Dashboard{TotalOwed: decimal.Zero, AsOf: now}
	err := e.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Users.GetByUserID(ctx, actor.UserID); err != nil {
			return err
		}
		loans, err := r.Loans.ListByBorrowerID(ctx, actor.UserID)
		if err != nil {
			return err
		}
		for i := range loans {
			l := &loans[i]
			if l.Status != loan.StatusActive {
				continue
			}
			out.ActivePawns++
			out.TotalOwed = money.Add(out.TotalOwed, l.TotalRedeemAmount())
			switch {
			case l.IsOverdue(now):
				out.Overdue++
			case !l.DueDate.After(soon):
				out.DueSoon++
			}
		}
		if out.WalletBalance, err = r.Wallets.GetBalance(ctx, actor.UserID); err != nil {
			return err
		}
		open, err := r.Pawns.GetOutstandingByOwnerID(ctx, actor.UserID)
		switch {
		case err == nil:
			out.Outstanding = open
		case !isNotFound(err):
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard for %s: %w", actor.UserID, err)
	}
	return out, nil
}
