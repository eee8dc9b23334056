package preset_test

import (
	"context"
	"testing"

	"github.com/BlackBills-Engineering/ung-kiosk/internal/backend"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/preset"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/pumps"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// backendMock records preset calls; only the preset endpoints matter here.
type backendMock struct {
	backend.Client

	volumeCalls []presetCall
	moneyCalls  []presetCall
	err         error
}

type presetCall struct {
	pumpID     int
	gradeIndex int
	volume     float64
	amount     int64
}

func (m *backendMock) PresetVolume(ctx context.Context, pumpID int, gradeIndex int, volume float64) error {
	m.volumeCalls = append(m.volumeCalls, presetCall{pumpID: pumpID, gradeIndex: gradeIndex, volume: volume})
	return m.err
}

func (m *backendMock) PresetMoney(ctx context.Context, pumpID int, gradeIndex int, amount int64) error {
	m.moneyCalls = append(m.moneyCalls, presetCall{pumpID: pumpID, gradeIndex: gradeIndex, amount: amount})
	return m.err
}

func TestSubmitVolumePreset(t *testing.T) {
	mock := &backendMock{}
	service := preset.NewService(mock)

	err := service.Submit(context.Background(), 3, 92, preset.Input{
		Liters:     20,
		LastEdited: preset.FieldVolume,
	})

	assert.NoError(t, err)
	assert.Len(t, mock.volumeCalls, 1)
	assert.Empty(t, mock.moneyCalls)
	assert.Equal(t, 2, mock.volumeCalls[0].gradeIndex) // octane 92 -> wire index 2
	assert.Equal(t, 20.0, mock.volumeCalls[0].volume)
}

func TestSubmitMoneyPreset(t *testing.T) {
	mock := &backendMock{}
	service := preset.NewService(mock)

	err := service.Submit(context.Background(), 1, 95, preset.Input{
		Amount:     200000,
		LastEdited: preset.FieldMoney,
	})

	assert.NoError(t, err)
	assert.Empty(t, mock.volumeCalls)
	assert.Len(t, mock.moneyCalls, 1)
	assert.Equal(t, 3, mock.moneyCalls[0].gradeIndex)
	assert.Equal(t, int64(200000), mock.moneyCalls[0].amount)
}

func TestSubmitUnknownGrade(t *testing.T) {
	mock := &backendMock{}
	service := preset.NewService(mock)

	err := service.Submit(context.Background(), 1, 98, preset.Input{
		Liters:     10,
		LastEdited: preset.FieldVolume,
	})

	assert.True(t, errors.Is(err, pumps.ErrUnknownGrade))
	assert.Empty(t, mock.volumeCalls)
	assert.Empty(t, mock.moneyCalls)
}

func TestSubmitNothingEntered(t *testing.T) {
	mock := &backendMock{}
	service := preset.NewService(mock)

	err := service.Submit(context.Background(), 1, 92, preset.Input{})

	assert.True(t, errors.Is(err, preset.ErrNothingEntered))
}

func TestReciprocalComputation(t *testing.T) {
	// Editing liters derives the amount, flooring sub-soum remainders.
	assert.Equal(t, int64(163000), preset.AmountForLiters(20, 8150))
	assert.Equal(t, int64(12225), preset.AmountForLiters(1.5, 8150))
	assert.Equal(t, int64(8515), preset.AmountForLiters(1.0449, 8150))

	// Editing the amount derives liters at two decimals.
	assert.Equal(t, 20.0, preset.LitersForAmount(163000, 8150))
	assert.Equal(t, 12.27, preset.LitersForAmount(100000, 8150))
}
