package ledger

import (
	"context"
	"fmt"
	"strings"

	"pawnshop-ledger/internal/domain/errs"
	"pawnshop-ledger/internal/domain/money"
	"pawnshop-ledger/internal/domain/notify"
	"pawnshop-ledger/internal/domain/txlog"
	"pawnshop-ledger/internal/domain/uow"

	"github.com/shopspring/decimal"
)

func (e *Engine) CashIn(ctx context.Context, actor Actor, amt decimal.Decimal) (out *WalletView, err error) {
	defer e.observe("cash_in", &err)

	if !amt.IsPositive() {
		return nil, errs.BadRequest("cash-in amount must be greater than zero")
	}
	amt = money.Round(amt)
	unlock := e.hold(ownerKey(actor.UserID))
	defer unlock()

	err = e.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := activeUser(ctx, r, actor.UserID); err != nil {
			return err
		}
		w, err := r.Wallets.GetOrCreateForUpdate(ctx, actor.UserID)
		if err != nil {
			return err
		}
		w.Balance = money.Add(w.Balance, amt)
		if err := r.Wallets.Save(ctx, w); err != nil {
			return err
		}
		out = &WalletView{UserID: w.UserID, Balance: w.Balance}
		return e.record(ctx, r, txlog.Entry{
			UserID:  actor.UserID,
			ActorID: actor.UserID,
			Action:  txlog.ActionCashIn,
			Amount:  amount(amt),
			Remarks: fmt.Sprintf("Cash in: %s. New balance: %s", money.Format(amt), money.Format(w.Balance)),
		})
	})
	if err != nil {
		return nil, err
	}
	e.log.InfoContext(ctx, "cash in", "user_id", actor.UserID, "amount", amt.String())
	return out, nil
}

// CashOut never lets a balance go negative. Non-positive amounts are
// reported as a shortfall with the exact figures.
func (e *Engine) CashOut(ctx context.Context, actor Actor, amt decimal.Decimal) (out *WalletView, err error) {
	defer e.observe("cash_out", &err)

	unlock := e.hold(ownerKey(actor.UserID))
	defer unlock()

	err = e.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := activeUser(ctx, r, actor.UserID); err != nil {
			return err
		}
		w, err := r.Wallets.GetOrCreateForUpdate(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if !amt.IsPositive() || w.Balance.LessThan(amt) {
			return errs.NewInsufficientFunds(errs.SubjectWallet, w.Balance, amt)
		}
		amt = money.Round(amt)
		if w.Balance, err = money.Sub(w.Balance, amt); err != nil {
			return err
		}
		if err := r.Wallets.Save(ctx, w); err != nil {
			return err
		}
		out = &WalletView{UserID: w.UserID, Balance: w.Balance}
		return e.record(ctx, r, txlog.Entry{
			UserID:  actor.UserID,
			ActorID: actor.UserID,
			Action:  txlog.ActionCashOut,
			Amount:  amount(amt),
			Remarks: fmt.Sprintf("Cash out: %s. New balance: %s", money.Format(amt), money.Format(w.Balance)),
		})
	})
	if err != nil {
		return nil, err
	}
	e.log.InfoContext(ctx, "cash out", "user_id", actor.UserID, "amount", amt.String())
	return out, nil
}

// AdminAddCash pays shop capital into a user's wallet.
func (e *Engine) AdminAddCash(ctx context.Context, admin Actor, userID string, amt decimal.Decimal, reason string) (*WalletView, error) {
	return e.adjust(ctx, admin, userID, amt, reason, true)
}

// AdminRemoveCash takes cash from a user's wallet back into capital.
func (e *Engine) AdminRemoveCash(ctx context.Context, admin Actor, userID string, amt decimal.Decimal, reason string) (*WalletView, error) {
	return e.adjust(ctx, admin, userID, amt, reason, false)
}

func (e *Engine) adjust(ctx context.Context, admin Actor, userID string, amt decimal.Decimal, reason string, add bool) (out *WalletView, err error) {
	op := "remove_cash"
	if add {
		op = "add_cash"
	}
	defer e.observe(op, &err)

	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	if !amt.IsPositive() {
		return nil, errs.BadRequest("amount must be greater than zero")
	}
	amt = money.Round(amt)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Manual adjustment"
	}

	unlockCapital := e.hold(capitalKey)
	defer unlockCapital()
	unlock := e.hold(ownerKey(userID))
	defer unlock()

	var (
		notes     []notice
		remaining decimal.Decimal
	)
	err = e.uow.WithinTx(ctx, func(r uow.Repos) error {
		capital, err := e.capital(ctx, r)
		if err != nil {
			return err
		}
		target, err := r.Users.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		w, err := r.Wallets.GetOrCreateForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		signed := amt
		var remarks string
		if add {
			if capital.LessThan(amt) {
				return errs.NewInsufficientFunds(errs.SubjectCapital, capital, amt)
			}
			w.Balance = money.Add(w.Balance, amt)
			signed = amt.Neg()
			remarks = fmt.Sprintf("Capital deducted: %s added to %s by admin. Reason: %s", money.Format(amt), target.Username, reason)
			notes = append(notes, notice{userID, fmt.Sprintf("%s was added to your wallet. %s", money.Format(amt), reason), notify.SeverityInfo})
		} else {
			if w.Balance.LessThan(amt) {
				return errs.NewInsufficientFunds(errs.SubjectWallet, w.Balance, amt)
			}
			if w.Balance, err = money.Sub(w.Balance, amt); err != nil {
				return err
			}
			remarks = fmt.Sprintf("Capital earned: %s removed from %s by admin. Reason: %s", money.Format(amt), target.Username, reason)
			notes = append(notes, notice{userID, fmt.Sprintf("%s was removed from your wallet. %s", money.Format(amt), reason), notify.SeverityWarning})
		}
		if err := r.Wallets.Save(ctx, w); err != nil {
			return err
		}
		out = &WalletView{UserID: w.UserID, Balance: w.Balance}
		remaining = money.Round(capital.Add(signed))
		return e.record(ctx, r, txlog.Entry{
			UserID:  userID,
			ActorID: admin.UserID,
			Action:  txlog.ActionCapitalAdjustment,
			Amount:  amount(signed),
			Remarks: remarks,
		})
	})
	if err != nil {
		return nil, err
	}
	e.dispatch(ctx, notes)
	if e.obs != nil {
		e.obs.Capital(remaining)
	}
	e.log.InfoContext(ctx, "capital adjusted", "user_id", userID, "admin_id", admin.UserID,
		"amount", amt.String(), "add", add, "capital", remaining.String())
	return out, nil
}

// GetWalletBalance reads a balance. Only admins may read someone else's.
func (e *Engine) GetWalletBalance(ctx context.Context, actor Actor, userID string) (*WalletView, error) {
	if userID == "" {
		userID = actor.UserID
	}
	if userID != actor.UserID && !actor.Admin {
		return nil, errs.Unauthorized("cannot read another user's wallet")
	}
	var out *WalletView
	err := e.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Users.GetByUserID(ctx, userID); err != nil {
			return err
		}
		bal, err := r.Wallets.GetBalance(ctx, userID)
		if err != nil {
			return err
		}
		out = &WalletView{UserID: userID, Balance: bal}
		return nil
	})
	return out, err
}
