package advance

import "github.com/shopspring/decimal"

// DrawdownStep records the change one deduction (or reversal) makes to a
// single advance.
type DrawdownStep struct {
	AdvanceID    string
	Amount       decimal.Decimal
	NewRemaining decimal.Decimal
	NewStatus    AdvanceStatus
}

// PlanDrawdown splits a deduction across the employee's advances in the order
// given; callers pass FIFO order, oldest grant first. Fails with
// ErrInsufficientBalance when the deduction exceeds the total outstanding
// balance, and never plans a remaining balance below zero. Pure: the input
// slice is not modified.
func PlanDrawdown(advances []AdvancePayment, amount decimal.Decimal) ([]DrawdownStep, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if amount.IsZero() {
		return nil, nil
	}

	outstanding := decimal.Zero
	for _, adv := range advances {
		outstanding = outstanding.Add(adv.RemainingBalance)
	}
	if amount.GreaterThan(outstanding) {
		return nil, ErrInsufficientBalance
	}

	var steps []DrawdownStep
	left := amount
	for _, adv := range advances {
		if left.IsZero() {
			break
		}
		if adv.RemainingBalance.IsZero() {
			continue
		}

		draw := decimal.Min(left, adv.RemainingBalance)
		remaining := adv.RemainingBalance.Sub(draw)
		steps = append(steps, DrawdownStep{
			AdvanceID:    adv.ID,
			Amount:       draw,
			NewRemaining: remaining,
			NewStatus:    StatusForBalance(adv.Amount, remaining),
		})
		left = left.Sub(draw)
	}

	return steps, nil
}

// PlanReversal restores a previously applied deduction across the employee's
// advances in the order given; callers pass the inverse of drawdown order,
// newest grant first. Each advance is capped at its original amount. Fails
// with ErrExcessiveReversal when the restore exceeds the total already
// deducted.
func PlanReversal(advances []AdvancePayment, amount decimal.Decimal) ([]DrawdownStep, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if amount.IsZero() {
		return nil, nil
	}

	deducted := decimal.Zero
	for _, adv := range advances {
		deducted = deducted.Add(adv.Amount.Sub(adv.RemainingBalance))
	}
	if amount.GreaterThan(deducted) {
		return nil, ErrExcessiveReversal
	}

	var steps []DrawdownStep
	left := amount
	for _, adv := range advances {
		if left.IsZero() {
			break
		}

		headroom := adv.Amount.Sub(adv.RemainingBalance)
		if headroom.IsZero() {
			continue
		}

		restore := decimal.Min(left, headroom)
		remaining := adv.RemainingBalance.Add(restore)
		steps = append(steps, DrawdownStep{
			AdvanceID:    adv.ID,
			Amount:       restore,
			NewRemaining: remaining,
			NewStatus:    StatusForBalance(adv.Amount, remaining),
		})
		left = left.Sub(restore)
	}

	return steps, nil
}
