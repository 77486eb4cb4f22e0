package ledger

import (
	"context"
	"fmt"

	"pawnshop-ledger/internal/domain/errs"
	"pawnshop-ledger/internal/domain/loan"
	"pawnshop-ledger/internal/domain/money"
	"pawnshop-ledger/internal/domain/notify"
	"pawnshop-ledger/internal/domain/pawn"
	"pawnshop-ledger/internal/domain/txlog"
	"pawnshop-ledger/internal/domain/uow"
	"pawnshop-ledger/pkg/id"

	"github.com/shopspring/decimal"
)

// FundLoan disburses the accepted offer. Calling it again while the loan
// is ACTIVE returns that loan untouched.
func (e *Engine) FundLoan(ctx context.Context, admin Actor, pawnID string, in FundInput) (out *loan.Loan, err error) {
	defer e.observe("fund", &err)

	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	// capital check and spend must not interleave with another spend
	unlockCapital := e.hold(capitalKey)
	defer unlockCapital()
	unlock := e.hold(pawnKey(pawnID))
	defer unlock()

	var (
		notes     []notice
		replay    bool
		remaining decimal.Decimal
	)
	err = e.uow.WithinPawnTx(ctx, pawnID, func(r uow.Repos, p *pawn.PawnRequest) error {
		existing, err := r.Loans.GetByPawnRequestIDForUpdate(ctx, p.ID)
		switch {
		case isNotFound(err):
			existing = nil
		case err != nil:
			return err
		}

		if p.Status == pawn.StatusPawned && existing != nil && existing.Status == loan.StatusActive {
			out, replay = existing, true
			return nil
		}
		if p.Status != pawn.StatusAccepted {
			return errs.BadRequest("pawn request %s is %s; only ACCEPTED requests can be funded", p.PawnID, p.Status)
		}
		principal, ok := p.Offered()
		if !ok {
			return errs.BadRequest("pawn request %s has no offered amount", p.PawnID)
		}
		if existing != nil && existing.Status != loan.StatusPaid {
			return errs.BadRequest("pawn request %s already has a %s loan %s", p.PawnID, existing.Status, existing.LoanID)
		}

		capital, err := e.capital(ctx, r)
		if err != nil {
			return err
		}
		if capital.LessThan(principal) {
			return errs.NewInsufficientFunds(errs.SubjectCapital, capital, principal)
		}

		rate, days := e.terms(in.InterestRate, in.DurationDays, p.ProposedRate, p.ProposedDays)
		now := e.now()
		l := existing
		if l == nil {
			l = &loan.Loan{
				LoanID:        id.NewID32(),
				PawnRequestID: p.ID,
				BorrowerID:    p.OwnerID,
				Realized:      decimal.Zero,
			}
		}
		if err := l.Activate(principal, rate, days, now); err != nil {
			return err
		}
		if existing == nil {
			err = r.Loans.Create(ctx, l)
		} else {
			err = r.Loans.Save(ctx, l)
		}
		if err != nil {
			return err
		}

		if err := p.MoveTo(pawn.StatusPawned, now); err != nil {
			return err
		}
		if err := r.Pawns.Save(ctx, p); err != nil {
			return err
		}

		w, err := r.Wallets.GetOrCreateForUpdate(ctx, p.OwnerID)
		if err != nil {
			return err
		}
		w.Balance = money.Add(w.Balance, l.Principal)
		if err := r.Wallets.Save(ctx, w); err != nil {
			return err
		}

		out = l
		remaining = money.Round(capital.Sub(l.Principal))
		notes = append(notes, notice{p.OwnerID, fmt.Sprintf("Loan funded: %s for %s, due %s. Redeem for %s.",
			money.Format(l.Principal), p.ItemName, l.DueDate.Format("2006-01-02"), money.Format(l.TotalRedeemAmount())), notify.SeveritySuccess})
		return e.record(ctx, r, txlog.Entry{
			UserID:    p.OwnerID,
			ActorID:   admin.UserID,
			Action:    txlog.ActionLoanCreated,
			Amount:    amount(l.Principal),
			Remarks:   fmt.Sprintf("Loan of %s at %d%% for %d days on %s (cycle %d)", money.Format(l.Principal), rate, days, p.ItemName, l.Cycle),
			PawnID:    p.PawnID,
			LoanID:    l.LoanID,
			Condition: p.Condition,
			Photos:    p.Photos,
		})
	})
	if err != nil {
		return nil, err
	}
	if replay {
		e.log.InfoContext(ctx, "fund retried on active loan", "pawn_id", pawnID, "loan_id", out.LoanID)
		return out, nil
	}
	e.dispatch(ctx, notes)
	if e.obs != nil {
		e.obs.Capital(remaining)
	}
	e.log.InfoContext(ctx, "loan funded", "pawn_id", pawnID, "loan_id", out.LoanID,
		"principal", out.Principal.String(), "cycle", out.Cycle, "capital", remaining.String())
	return out, nil
}

func (e *Engine) RedeemLoan(ctx context.Context, payer Actor, loanID string) (out *loan.Loan, err error) {
	defer e.observe("redeem", &err)

	unlock := e.hold(loanKey(loanID))
	defer unlock()

	var (
		notes []notice
		total decimal.Decimal
	)
	err = e.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan, p *pawn.PawnRequest) error {
		if p.OwnerID != payer.UserID {
			return errs.Unauthorized("loan %s does not belong to you", l.LoanID)
		}
		if l.Status != loan.StatusActive {
			return errs.BadRequest("loan %s is %s; only ACTIVE loans can be redeemed", l.LoanID, l.Status)
		}
		total = l.TotalRedeemAmount()

		w, err := r.Wallets.GetOrCreateForUpdate(ctx, payer.UserID)
		if err != nil {
			return err
		}
		if w.Balance.LessThan(total) {
			return errs.NewInsufficientFunds(errs.SubjectWallet, w.Balance, total)
		}
		if w.Balance, err = money.Sub(w.Balance, total); err != nil {
			return err
		}
		if err := r.Wallets.Save(ctx, w); err != nil {
			return err
		}

		now := e.now()
		interest := l.Interest()
		earned := money.Add(interest, l.Penalty)
		l.Realized = money.Add(l.Realized, earned)
		l.Status = loan.StatusPaid
		l.RedeemedAt = &now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := p.MoveTo(pawn.StatusRedeemed, now); err != nil {
			return err
		}
		if err := r.Pawns.Save(ctx, p); err != nil {
			return err
		}

		out = l
		notes = append(notes, notice{p.OwnerID, fmt.Sprintf("%s redeemed for %s.", p.ItemName, money.Format(total)), notify.SeveritySuccess})
		if err := e.record(ctx, r, txlog.Entry{
			UserID:  p.OwnerID,
			ActorID: payer.UserID,
			Action:  txlog.ActionLoanPaid,
			Amount:  amount(total),
			Remarks: fmt.Sprintf("Paid %s to redeem %s", money.Format(total), p.ItemName),
			PawnID:  p.PawnID,
			LoanID:  l.LoanID,
		}); err != nil {
			return err
		}
		return e.record(ctx, r, txlog.Entry{
			UserID:  p.OwnerID,
			ActorID: payer.UserID,
			Action:  txlog.ActionInterestEarned,
			Amount:  amount(earned),
			Remarks: fmt.Sprintf("Earned on loan %s: interest %s, penalty %s", l.LoanID, money.Format(interest), money.Format(l.Penalty)),
			PawnID:  p.PawnID,
			LoanID:  l.LoanID,
		})
	})
	if err != nil {
		return nil, err
	}
	e.dispatch(ctx, notes)
	if e.obs != nil {
		e.obs.Redeemed(total)
	}
	e.log.InfoContext(ctx, "loan redeemed", "loan_id", out.LoanID, "user_id", payer.UserID, "total", total.String())
	return out, nil
}

// ForfeitLoan keeps the collateral. No cash moves.
func (e *Engine) ForfeitLoan(ctx context.Context, admin Actor, loanID string) (out *loan.Loan, err error) {
	defer e.observe("forfeit", &err)

	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	unlock := e.hold(loanKey(loanID))
	defer unlock()

	var notes []notice
	err = e.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan, p *pawn.PawnRequest) error {
		if l.Status != loan.StatusActive {
			return errs.BadRequest("loan %s is %s; only ACTIVE loans can be forfeited", l.LoanID, l.Status)
		}
		now := e.now()
		l.Status = loan.StatusDefaulted
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := p.MoveTo(pawn.StatusForfeited, now); err != nil {
			return err
		}
		if err := r.Pawns.Save(ctx, p); err != nil {
			return err
		}

		value := money.ScaleBy(l.Principal, e.cfg.ForfeitMarkup)
		out = l
		notes = append(notes, notice{p.OwnerID, fmt.Sprintf("Your %s was forfeited after loan %s lapsed.", p.ItemName, l.LoanID), notify.SeverityWarning})
		return e.record(ctx, r, txlog.Entry{
			UserID:    p.OwnerID,
			ActorID:   admin.UserID,
			Action:    txlog.ActionLoanForfeited,
			Amount:    amount(value),
			Remarks:   fmt.Sprintf("%s forfeited; principal %s valued at %s", p.ItemName, money.Format(l.Principal), money.Format(value)),
			PawnID:    p.PawnID,
			LoanID:    l.LoanID,
			Condition: p.Condition,
			Photos:    p.Photos,
		})
	})
	if err != nil {
		return nil, err
	}
	e.dispatch(ctx, notes)
	e.log.InfoContext(ctx, "loan forfeited", "loan_id", out.LoanID, "principal", out.Principal.String())
	return out, nil
}

// AssessPenalty adds a charge to an overdue ACTIVE loan.
func (e *Engine) AssessPenalty(ctx context.Context, admin Actor, loanID string, charge decimal.Decimal) (out *loan.Loan, err error) {
	defer e.observe("penalty", &err)

	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	if !charge.IsPositive() {
		return nil, errs.BadRequest("penalty must be greater than zero")
	}
	unlock := e.hold(loanKey(loanID))
	defer unlock()

	var notes []notice
	err = e.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan, p *pawn.PawnRequest) error {
		if l.Status != loan.StatusActive {
			return errs.BadRequest("loan %s is %s; penalties apply to ACTIVE loans only", l.LoanID, l.Status)
		}
		if !l.IsOverdue(e.now()) {
			return errs.BadRequest("loan %s is not overdue until %s", l.LoanID, l.DueDate.Format("2006-01-02"))
		}
		charge = money.Round(charge)
		l.Penalty = money.Add(l.Penalty, charge)
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = l
		notes = append(notes, notice{p.OwnerID, fmt.Sprintf("A penalty of %s was added to your loan on %s. New total: %s.",
			money.Format(charge), p.ItemName, money.Format(l.TotalRedeemAmount())), notify.SeverityWarning})
		return e.record(ctx, r, txlog.Entry{
			UserID:  p.OwnerID,
			ActorID: admin.UserID,
			Action:  txlog.ActionPenaltyAssessed,
			Amount:  amount(charge),
			Remarks: fmt.Sprintf("Penalty of %s on overdue loan %s", money.Format(charge), l.LoanID),
			PawnID:  p.PawnID,
			LoanID:  l.LoanID,
		})
	})
	if err != nil {
		return nil, err
	}
	e.dispatch(ctx, notes)
	return out, nil
}
