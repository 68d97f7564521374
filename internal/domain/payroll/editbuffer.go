package payroll

import (
	"sort"

	"github.com/shopspring/decimal"
)

// EditBuffer holds an administrator's uncommitted overrides for one loaded
// period: paid-status flips and advance-deduction edits keyed by employee.
// Staged values are not validated and touch no persisted state until commit;
// discarding the buffer is always side-effect free.
//
// A buffer belongs to a single editor session. It is not safe for concurrent
// use; the owning service serializes access.
type EditBuffer struct {
	paid       map[string]bool
	deductions map[string]decimal.Decimal
}

// StagedEdit is the merged view of one employee's staged overrides.
type StagedEdit struct {
	EmployeeID string
	IsPaid     *bool
	Deduction  *decimal.Decimal
}

func NewEditBuffer() *EditBuffer {
	return &EditBuffer{
		paid:       make(map[string]bool),
		deductions: make(map[string]decimal.Decimal),
	}
}

// StagePaidStatus records an intended paid-status override.
func (b *EditBuffer) StagePaidStatus(employeeID string, isPaid bool) {
	b.paid[employeeID] = isPaid
}

// StageAdvanceDeduction records an intended deduction override. The amount is
// validated at commit time against the then-current ledger balance, not here.
func (b *EditBuffer) StageAdvanceDeduction(employeeID string, amount decimal.Decimal) {
	b.deductions[employeeID] = amount
}

// EffectiveStatus returns the staged paid status if one exists, else the
// committed value. Readers must go through this while a buffer is open so
// they never see state an open edit has already superseded.
func (b *EditBuffer) EffectiveStatus(employeeID string, committed bool) bool {
	if staged, ok := b.paid[employeeID]; ok {
		return staged
	}
	return committed
}

// EffectiveDeduction returns the staged deduction if one exists, else the
// committed value.
func (b *EditBuffer) EffectiveDeduction(employeeID string, committed decimal.Decimal) decimal.Decimal {
	if staged, ok := b.deductions[employeeID]; ok {
		return staged
	}
	return committed
}

// HasEdits reports whether the employee has anything staged.
func (b *EditBuffer) HasEdits(employeeID string) bool {
	if _, ok := b.paid[employeeID]; ok {
		return true
	}
	_, ok := b.deductions[employeeID]
	return ok
}

// Empty reports whether nothing is staged at all.
func (b *EditBuffer) Empty() bool {
	return len(b.paid) == 0 && len(b.deductions) == 0
}

// Snapshot merges both staged maps into one edit per employee, ordered by
// employee id so commits process deterministically.
func (b *EditBuffer) Snapshot() []StagedEdit {
	merged := make(map[string]*StagedEdit)

	edit := func(employeeID string) *StagedEdit {
		if e, ok := merged[employeeID]; ok {
			return e
		}
		e := &StagedEdit{EmployeeID: employeeID}
		merged[employeeID] = e
		return e
	}

	for employeeID, isPaid := range b.paid {
		v := isPaid
		edit(employeeID).IsPaid = &v
	}
	for employeeID, amount := range b.deductions {
		v := amount
		edit(employeeID).Deduction = &v
	}

	edits := make([]StagedEdit, 0, len(merged))
	for _, e := range merged {
		edits = append(edits, *e)
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].EmployeeID < edits[j].EmployeeID })

	return edits
}

// ClearEmployee drops the employee's staged overrides, called for each edit
// that committed successfully. Rejected edits stay staged for re-review.
func (b *EditBuffer) ClearEmployee(employeeID string) {
	delete(b.paid, employeeID)
	delete(b.deductions, employeeID)
}

// Discard drops all staged state unconditionally.
func (b *EditBuffer) Discard() {
	b.paid = make(map[string]bool)
	b.deductions = make(map[string]decimal.Decimal)
}
