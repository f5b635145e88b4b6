package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SlotService/pkg/types"
)

func TestDemandLedger(t *testing.T) {
	ledger := NewDemandLedger([]*SlotDemand{
		{SlotTime: "18:30", Qty: 4},
		{SlotTime: "19:00", Qty: 12},
		{SlotTime: "19:15", Qty: 0},
		nil,
	})

	assert.Equal(t, 4, ledger.UsedFor("18:30"))
	assert.Equal(t, 0, ledger.UsedFor("18:45"))
	assert.Equal(t, 0, ledger.UsedFor("19:15"))

	assert.Equal(t, 6, ledger.Remaining("18:30", 10))
	assert.Equal(t, 10, ledger.Remaining("18:45", 10))
	assert.Equal(t, 0, ledger.Remaining("19:00", 10), "remaining never goes negative")

	assert.Equal(t, 16, ledger.Total())
}

func TestDemandLedger_Orphans(t *testing.T) {
	ledger := NewDemandLedger([]*SlotDemand{
		{SlotTime: "21:50", Qty: 1},
		{SlotTime: "18:30", Qty: 2},
		{SlotTime: "17:00", Qty: 1},
	})

	orphans := ledger.Orphans(GenerateSlots("18:30", "22:00", 15))
	assert.Equal(t, []types.TimeString{"17:00", "21:50"}, orphans)

	assert.Empty(t, NewDemandLedger(nil).Orphans(nil))
}
