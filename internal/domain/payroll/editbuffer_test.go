package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditBuffer_EffectiveFallsBackToCommitted(t *testing.T) {
	t.Parallel()
	b := NewEditBuffer()

	committed := decimal.NewFromInt(750)
	assert.False(t, b.EffectiveStatus("emp-1", false))
	assert.True(t, b.EffectiveStatus("emp-2", true))
	assert.Equal(t, "750.00", b.EffectiveDeduction("emp-1", committed).StringFixed(2))
	assert.True(t, b.Empty())
}

func TestEditBuffer_StagedValuesShadowCommitted(t *testing.T) {
	t.Parallel()
	b := NewEditBuffer()

	b.StagePaidStatus("emp-1", true)
	b.StageAdvanceDeduction("emp-1", decimal.NewFromInt(1200))

	assert.True(t, b.EffectiveStatus("emp-1", false))
	assert.Equal(t, "1200.00", b.EffectiveDeduction("emp-1", decimal.Zero).StringFixed(2))
	assert.True(t, b.HasEdits("emp-1"))
	assert.False(t, b.HasEdits("emp-2"))
	assert.False(t, b.Empty())
}

func TestEditBuffer_RestagingOverwrites(t *testing.T) {
	t.Parallel()
	b := NewEditBuffer()

	b.StageAdvanceDeduction("emp-1", decimal.NewFromInt(100))
	b.StageAdvanceDeduction("emp-1", decimal.NewFromInt(250))
	b.StagePaidStatus("emp-1", true)
	b.StagePaidStatus("emp-1", false)

	assert.Equal(t, "250.00", b.EffectiveDeduction("emp-1", decimal.Zero).StringFixed(2))
	assert.False(t, b.EffectiveStatus("emp-1", true))
}

func TestEditBuffer_SnapshotMergesPerEmployee(t *testing.T) {
	t.Parallel()
	b := NewEditBuffer()

	b.StagePaidStatus("emp-b", true)
	b.StageAdvanceDeduction("emp-b", decimal.NewFromInt(500))
	b.StageAdvanceDeduction("emp-a", decimal.NewFromInt(300))
	b.StagePaidStatus("emp-c", false)

	edits := b.Snapshot()

	require.Len(t, edits, 3)
	// deterministic employee order
	assert.Equal(t, "emp-a", edits[0].EmployeeID)
	assert.Equal(t, "emp-b", edits[1].EmployeeID)
	assert.Equal(t, "emp-c", edits[2].EmployeeID)

	assert.Nil(t, edits[0].IsPaid)
	require.NotNil(t, edits[0].Deduction)
	assert.Equal(t, "300.00", edits[0].Deduction.StringFixed(2))

	require.NotNil(t, edits[1].IsPaid)
	assert.True(t, *edits[1].IsPaid)
	require.NotNil(t, edits[1].Deduction)
	assert.Equal(t, "500.00", edits[1].Deduction.StringFixed(2))

	require.NotNil(t, edits[2].IsPaid)
	assert.False(t, *edits[2].IsPaid)
	assert.Nil(t, edits[2].Deduction)
}

func TestEditBuffer_ClearEmployeeKeepsOthersStaged(t *testing.T) {
	t.Parallel()
	b := NewEditBuffer()

	b.StagePaidStatus("emp-1", true)
	b.StageAdvanceDeduction("emp-1", decimal.NewFromInt(500))
	b.StageAdvanceDeduction("emp-2", decimal.NewFromInt(900))

	b.ClearEmployee("emp-1")

	assert.False(t, b.HasEdits("emp-1"))
	assert.True(t, b.HasEdits("emp-2"))
	assert.Equal(t, "900.00", b.EffectiveDeduction("emp-2", decimal.Zero).StringFixed(2))
}

func TestEditBuffer_DiscardDropsEverything(t *testing.T) {
	t.Parallel()
	b := NewEditBuffer()

	b.StagePaidStatus("emp-1", true)
	b.StageAdvanceDeduction("emp-2", decimal.NewFromInt(100))

	b.Discard()

	assert.True(t, b.Empty())
	assert.False(t, b.EffectiveStatus("emp-1", false))
	assert.Len(t, b.Snapshot(), 0)
}
