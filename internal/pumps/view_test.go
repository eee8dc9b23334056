package pumps_test

import (
	"testing"

	"github.com/BlackBills-Engineering/ung-kiosk/internal/pumps"
	"github.com/stretchr/testify/assert"
)

func TestBuildViewDispensing(t *testing.T) {
	view := pumps.BuildView(dispensingFrame(3, 25))

	assert.True(t, view.Dispensing)
	assert.NotNil(t, view.Primary)
	assert.Equal(t, "92", view.Primary.Grade)
	assert.InDelta(t, 0.5, view.Progress, 1e-9)
}

// TestBuildViewProgressClamped checks that an overfull realtime volume does
// not push the progress bar past 100%.
func TestBuildViewProgressClamped(t *testing.T) {
	view := pumps.BuildView(dispensingFrame(3, 80))
	assert.Equal(t, 1.0, view.Progress)
}

func TestBuildViewIdlePump(t *testing.T) {
	view := pumps.BuildView(pumps.Frame{
		PumpID:  5,
		Status:  pumps.StatusIdle,
		LastTxn: &pumps.Metrics{Volume: 10, Grade: 0},
	})

	assert.False(t, view.Dispensing)
	assert.Nil(t, view.Primary)
	assert.NotNil(t, view.LastTxn)
	assert.Equal(t, "80", view.LastTxn.Grade)
	assert.Zero(t, view.Progress)
}

// TestBuildViewUnknownGrade checks that an unmapped grade index is surfaced
// as a distinct marker rather than echoed as if it were an octane value.
func TestBuildViewUnknownGrade(t *testing.T) {
	view := pumps.BuildView(pumps.Frame{
		PumpID:      2,
		Status:      pumps.StatusComplete,
		Transaction: &pumps.Metrics{Volume: 12, Grade: 9},
	})

	assert.NotNil(t, view.Primary)
	assert.Equal(t, pumps.UNKNOWN_GRADE_LABEL, view.Primary.Grade)
}
