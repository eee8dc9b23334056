package pumps_test

import (
	"testing"

	"github.com/BlackBills-Engineering/ung-kiosk/internal/pumps"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func dispensingFrame(pumpID int, volume float64) pumps.Frame {
	return pumps.Frame{
		PumpID: pumpID,
		Status: pumps.StatusDispensing,
		Realtime: &pumps.Metrics{
			Volume:       volume,
			PricePerUnit: 8150,
			TotalAmount:  int64(volume * 8150),
			Grade:        2,
		},
	}
}

// TestMergeLastWriterWins checks that the last occurrence of a pump id
// within a batch is the one that sticks.
func TestMergeLastWriterWins(t *testing.T) {
	store := pumps.NewStore()

	store.Merge([]pumps.Frame{
		dispensingFrame(1, 3.5),
		{PumpID: 2, Status: pumps.StatusIdle},
		dispensingFrame(1, 4.2),
	})

	frame, ok := store.Get(1)
	assert.True(t, ok)
	assert.Equal(t, 4.2, frame.Realtime.Volume)
	assert.Equal(t, 2, store.Len())
}

// TestMergeRetainsAbsentPumps checks that a pump missing from a batch keeps
// its last known frame.
func TestMergeRetainsAbsentPumps(t *testing.T) {
	store := pumps.NewStore()

	store.Merge([]pumps.Frame{
		{PumpID: 1, Status: pumps.StatusIdle},
		{PumpID: 2, Status: pumps.StatusAuthorized},
	})
	store.Merge([]pumps.Frame{
		{PumpID: 2, Status: pumps.StatusDispensing},
	})

	frame1, ok := store.Get(1)
	assert.True(t, ok)
	assert.Equal(t, pumps.StatusIdle, frame1.Status)

	frame2, _ := store.Get(2)
	assert.Equal(t, pumps.StatusDispensing, frame2.Status)
}

func TestMergeStampsLastUpdated(t *testing.T) {
	store := pumps.NewStore()

	store.Merge([]pumps.Frame{{PumpID: 7, Status: pumps.StatusIdle}})

	frame, ok := store.Get(7)
	assert.True(t, ok)
	assert.False(t, frame.LastUpdated.IsZero())
}

func TestSnapshotSortedByPumpID(t *testing.T) {
	store := pumps.NewStore()

	store.Merge([]pumps.Frame{
		{PumpID: 9, Status: pumps.StatusIdle},
		{PumpID: 1, Status: pumps.StatusIdle},
		{PumpID: 4, Status: pumps.StatusIdle},
	})

	snapshot := store.Snapshot()
	assert.Len(t, snapshot, 3)
	assert.Equal(t, 1, snapshot[0].PumpID)
	assert.Equal(t, 4, snapshot[1].PumpID)
	assert.Equal(t, 9, snapshot[2].PumpID)
}

// TestPrimaryMetrics covers the realtime-vs-transaction selection rules.
func TestPrimaryMetrics(t *testing.T) {
	realtime := &pumps.Metrics{Volume: 2.5}
	transaction := &pumps.Metrics{Volume: 20}
	lastTxn := &pumps.Metrics{Volume: 15}

	// Live fill: realtime wins.
	primary := pumps.PrimaryMetrics(pumps.Frame{
		Status:      pumps.StatusDispensing,
		Realtime:    realtime,
		Transaction: transaction,
	})
	assert.Equal(t, realtime, primary)

	// Completed fill waiting to be cleared: transaction takes over.
	primary = pumps.PrimaryMetrics(pumps.Frame{
		Status:      pumps.StatusComplete,
		Transaction: transaction,
	})
	assert.Equal(t, transaction, primary)

	// Idle pump with only a historical fill: nothing primary.
	primary = pumps.PrimaryMetrics(pumps.Frame{
		Status:  pumps.StatusIdle,
		LastTxn: lastTxn,
	})
	assert.Nil(t, primary)

	// Realtime left over outside DISPENSING never wins on its own.
	primary = pumps.PrimaryMetrics(pumps.Frame{
		Status:   pumps.StatusComplete,
		Realtime: realtime,
	})
	assert.Nil(t, primary)
}

func TestGradeMapping(t *testing.T) {
	cases := map[int]int{0: 80, 1: 100, 2: 92, 3: 95}
	for index, octane := range cases {
		value, err := pumps.GradeValue(index)
		assert.NoError(t, err)
		assert.Equal(t, octane, value)

		back, err := pumps.GradeIndex(octane)
		assert.NoError(t, err)
		assert.Equal(t, index, back)
	}
}

// TestGradeMappingUnknown checks that unmapped grades fail loudly instead
// of passing the raw index through.
func TestGradeMappingUnknown(t *testing.T) {
	_, err := pumps.GradeValue(7)
	assert.True(t, errors.Is(err, pumps.ErrUnknownGrade))

	_, err = pumps.GradeIndex(98)
	assert.True(t, errors.Is(err, pumps.ErrUnknownGrade))
}
