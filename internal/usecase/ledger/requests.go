package ledger

import (
	"context"
	"fmt"
	"strings"

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

// ensureNoOutstanding serializes per owner on their wallet row, then checks
// that no other request of theirs is still open.
func ensureNoOutstanding(ctx context.Context, r uow.Repos, ownerID, exceptPawnID string) error {
	if _, err := r.Wallets.GetOrCreateForUpdate(ctx, ownerID); err != nil {
		return err
	}
	open, err := r.Pawns.GetOutstandingByOwnerID(ctx, ownerID)
	switch {
	case err == nil && open.PawnID != exceptPawnID:
		return errs.BadRequest("you already have an outstanding pawn request %s (%s)", open.PawnID, open.Status)
	case err != nil && !isNotFound(err):
		return err
	}
	return nil
}

func (e *Engine) SubmitPawnRequest(ctx context.Context, actor Actor, in SubmitInput) (out *pawn.PawnRequest, err error) {
	defer e.observe("submit", &err)

	if strings.TrimSpace(in.ItemName) == "" {
		return nil, errs.BadRequest("item name is required")
	}
	if len(in.Photos) > pawn.MaxPhotos {
		return nil, errs.BadRequest("at most %d photos may be attached, got %d", pawn.MaxPhotos, len(in.Photos))
	}
	if !in.EstimatedValue.IsPositive() {
		return nil, errs.BadRequest("estimated value must be greater than zero")
	}
	brand := strings.TrimSpace(in.Brand)
	if brand == "" {
		brand = "Unknown"
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = "General"
	}

	unlock := e.hold(ownerKey(actor.UserID))
	defer unlock()

	err = e.uow.WithinTx(ctx, func(r uow.Repos) error {
		// owner row lock first so the outstanding check sees fresh rows
		if err := ensureNoOutstanding(ctx, r, actor.UserID, ""); err != nil {
			return err
		}
		if _, err := activeUser(ctx, r, actor.UserID); err != nil {
			return err
		}
		now := e.now()
		p := &pawn.PawnRequest{
			PawnID:          id.NewID32(),
			OwnerID:         actor.UserID,
			ItemName:        strings.TrimSpace(in.ItemName),
			Brand:           brand,
			Size:            in.Size,
			Condition:       in.Condition,
			Category:        category,
			Description:     in.Description,
			Photos:          in.Photos,
			EstimatedValue:  money.Round(in.EstimatedValue),
			Status:          pawn.StatusPending,
			StatusUpdatedAt: now,
		}
		if err := r.Pawns.Create(ctx, p); err != nil {
			return err
		}
		out = p
		return e.record(ctx, r, txlog.Entry{
			UserID:    p.OwnerID,
			ActorID:   actor.UserID,
			Action:    txlog.ActionPawnSubmitted,
			Amount:    amount(p.EstimatedValue),
			Remarks:   fmt.Sprintf("Submitted %s for appraisal, estimated at %s", p.ItemName, money.Format(p.EstimatedValue)),
			PawnID:    p.PawnID,
			Condition: p.Condition,
			Photos:    p.Photos,
		})
	})
	if err != nil {
		return nil, err
	}
	e.log.InfoContext(ctx, "pawn request submitted", "pawn_id", out.PawnID, "user_id", out.OwnerID)
	return out, nil
}

func (e *Engine) AssessPawnRequest(ctx context.Context, admin Actor, pawnID string, in AssessInput) (out *pawn.PawnRequest, err error) {
	defer e.observe("assess", &err)

	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	if !in.OfferedAmount.IsPositive() {
		return nil, errs.BadRequest("offered amount must be greater than zero")
	}
	if in.InterestRate < 0 || in.InterestRate > 100 {
		return nil, errs.BadRequest("interest rate must be between 0 and 100")
	}
	if in.DurationDays < 0 {
		return nil, errs.BadRequest("duration days must not be negative")
	}
	rate, days := e.terms(in.InterestRate, in.DurationDays, 0, 0)

	unlock := e.hold(pawnKey(pawnID))
	defer unlock()

	var notes []notice
	err = e.uow.WithinPawnTx(ctx, pawnID, func(r uow.Repos, p *pawn.PawnRequest) error {
		if p.Status != pawn.StatusPending {
			return errs.BadRequest("pawn request %s is %s; only PENDING requests can be assessed", p.PawnID, p.Status)
		}
		now := e.now()
		if err := p.MoveTo(pawn.StatusOfferMade, now); err != nil {
			return err
		}
		offered := money.Round(in.OfferedAmount)
		p.OfferedAmount = decimal.NewNullDecimal(offered)
		p.ProposedRate, p.ProposedDays = rate, days
		p.Remarks = in.Remarks
		p.AppraisalDate = &now
		p.AppraisedBy = admin.UserID
		if err := r.Pawns.Save(ctx, p); err != nil {
			return err
		}
		out = p
		notes = append(notes, notice{p.OwnerID, fmt.Sprintf("Your %s was appraised. Offer: %s at %d%% for %d days.",
			p.ItemName, money.Format(offered), rate, days), notify.SeverityInfo})
		return e.record(ctx, r, txlog.Entry{
			UserID:  p.OwnerID,
			ActorID: admin.UserID,
			Action:  txlog.ActionPawnAssessed,
			Amount:  amount(offered),
			Remarks: fmt.Sprintf("Offer of %s at %d%% for %d days. %s", money.Format(offered), rate, days, in.Remarks),
			PawnID:  p.PawnID,
		})
	})
	if err != nil {
		return nil, err
	}
	e.dispatch(ctx, notes)
	e.log.InfoContext(ctx, "pawn request assessed", "pawn_id", out.PawnID, "offered", out.OfferedAmount.Decimal.String())
	return out, nil
}

func (e *Engine) DeclinePawnRequest(ctx context.Context, admin Actor, pawnID, remarks string) (out *pawn.PawnRequest, err error) {
	defer e.observe("decline", &err)

	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	unlock := e.hold(pawnKey(pawnID))
	defer unlock()

	var notes []notice
	err = e.uow.WithinPawnTx(ctx, pawnID, func(r uow.Repos, p *pawn.PawnRequest) error {
		if p.Status != pawn.StatusPending {
			return errs.BadRequest("pawn request %s is %s; only PENDING requests can be declined", p.PawnID, p.Status)
		}
		if err := p.MoveTo(pawn.StatusRejected, e.now()); err != nil {
			return err
		}
		p.Remarks = remarks
		p.AppraisedBy = admin.UserID
		if err := r.Pawns.Save(ctx, p); err != nil {
			return err
		}
		out = p
		notes = append(notes, notice{p.OwnerID, fmt.Sprintf("Your %s was declined. %s", p.ItemName, remarks), notify.SeverityWarning})
		return e.record(ctx, r, txlog.Entry{
			UserID:  p.OwnerID,
			ActorID: admin.UserID,
			Action:  txlog.ActionPawnDeclined,
			Remarks: remarks,
			PawnID:  p.PawnID,
		})
	})
	if err != nil {
		return nil, err
	}
	e.dispatch(ctx, notes)
	return out, nil
}

func (e *Engine) RespondToOffer(ctx context.Context, owner Actor, pawnID string, accept bool) (out *pawn.PawnRequest, err error) {
	defer e.observe("respond", &err)

	unlock := e.hold(pawnKey(pawnID))
	defer unlock()

	err = e.uow.WithinPawnTx(ctx, pawnID, func(r uow.Repos, p *pawn.PawnRequest) error {
		if p.OwnerID != owner.UserID {
			return errs.Unauthorized("pawn request %s does not belong to you", p.PawnID)
		}
		if p.Status != pawn.StatusOfferMade {
			return errs.BadRequest("pawn request %s is %s; there is no offer to respond to", p.PawnID, p.Status)
		}
		to, action, verb := pawn.StatusRejected, txlog.ActionOfferRejected, "Rejected"
		if accept {
			to, action, verb = pawn.StatusAccepted, txlog.ActionOfferAccepted, "Accepted"
		}
		if err := p.MoveTo(to, e.now()); err != nil {
			return err
		}
		if err := r.Pawns.Save(ctx, p); err != nil {
			return err
		}
		out = p
		return e.record(ctx, r, txlog.Entry{
			UserID:  p.OwnerID,
			ActorID: owner.UserID,
			Action:  action,
			Amount:  p.OfferedAmount,
			Remarks: fmt.Sprintf("%s offer of %s for %s", verb, money.Format(p.OfferedAmount.Decimal), p.ItemName),
			PawnID:  p.PawnID,
		})
	})
	if err != nil {
		return nil, err
	}
	e.log.InfoContext(ctx, "offer answered", "pawn_id", out.PawnID, "status", out.Status)
	return out, nil
}

func (e *Engine) DeletePawnRequest(ctx context.Context, owner Actor, pawnID string) (err error) {
	defer e.observe("delete", &err)

	unlock := e.hold(pawnKey(pawnID))
	defer unlock()

	return e.uow.WithinPawnTx(ctx, pawnID, func(r uow.Repos, p *pawn.PawnRequest) error {
		if p.OwnerID != owner.UserID {
			return errs.BadRequest("only the owner can delete pawn request %s", p.PawnID)
		}
		if p.Status != pawn.StatusPending && p.Status != pawn.StatusRejected {
			return errs.BadRequest("pawn request %s is %s; only PENDING or REJECTED requests can be deleted", p.PawnID, p.Status)
		}
		// a renewed request keeps its loan history
		_, err := r.Loans.GetByPawnRequestIDForUpdate(ctx, p.ID)
		switch {
		case err == nil:
			return errs.BadRequest("pawn request %s has loan history and cannot be deleted", p.PawnID)
		case !isNotFound(err):
			return err
		}
		if err := r.Pawns.Delete(ctx, p); err != nil {
			return err
		}
		return e.record(ctx, r, txlog.Entry{
			UserID:  p.OwnerID,
			ActorID: owner.UserID,
			Action:  txlog.ActionPawnDeleted,
			Remarks: fmt.Sprintf("Deleted pawn request for %s", p.ItemName),
			PawnID:  p.PawnID,
		})
	})
}

// RenewLoan sends a redeemed item back to assessment under the same loan.
func (e *Engine) RenewLoan(ctx context.Context, owner Actor, pawnID string) (out *pawn.PawnRequest, err error) {
	defer e.observe("renew", &err)

	unlock := e.hold(ownerKey(owner.UserID))
	defer unlock()
	unlockPawn := e.hold(pawnKey(pawnID))
	defer unlockPawn()

	err = e.uow.WithinPawnTx(ctx, pawnID, func(r uow.Repos, p *pawn.PawnRequest) error {
		if p.OwnerID != owner.UserID {
			return errs.Unauthorized("pawn request %s does not belong to you", p.PawnID)
		}
		if p.Status != pawn.StatusRedeemed {
			return errs.BadRequest("pawn request %s is %s; only REDEEMED items can be renewed", p.PawnID, p.Status)
		}
		l, err := r.Loans.GetByPawnRequestIDForUpdate(ctx, p.ID)
		if err != nil {
			if isNotFound(err) {
				return errs.BadRequest("pawn request %s has no loan to renew", p.PawnID)
			}
			return err
		}
		if l.Status != loan.StatusPaid {
			return errs.BadRequest("loan %s is %s; only PAID loans can be renewed", l.LoanID, l.Status)
		}
		if err := ensureNoOutstanding(ctx, r, p.OwnerID, p.PawnID); err != nil {
			return err
		}
		if err := p.MoveTo(pawn.StatusPending, e.now()); err != nil {
			return err
		}
		p.OfferedAmount = decimal.NullDecimal{}
		p.ProposedRate, p.ProposedDays = 0, 0
		p.Remarks, p.AppraisedBy, p.AppraisalDate = "", "", nil
		if err := r.Pawns.Save(ctx, p); err != nil {
			return err
		}
		out = p
		return e.record(ctx, r, txlog.Entry{
			UserID:  p.OwnerID,
			ActorID: owner.UserID,
			Action:  txlog.ActionRenewalRequested,
			Remarks: fmt.Sprintf("Renewal requested for %s (loan %s, cycle %d)", p.ItemName, l.LoanID, l.Cycle),
			PawnID:  p.PawnID,
			LoanID:  l.LoanID,
		})
	})
	if err != nil {
		return nil, err
	}
	e.log.InfoContext(ctx, "renewal requested", "pawn_id", out.PawnID, "user_id", out.OwnerID)
	return out, nil
}

// terms picks rate and days: explicit, then proposed, then configured.
func (e *Engine) terms(rate, days, proposedRate, proposedDays int) (int, int) {
	if rate <= 0 {
		rate = proposedRate
	}
	if rate <= 0 {
		rate = e.cfg.DefaultInterestRate
	}
	if days <= 0 {
		days = proposedDays
	}
	if days <= 0 {
		days = e.cfg.DefaultLoanDays
	}
	return rate, days
}
