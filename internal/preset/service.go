package preset

import (
	"context"
	"math"

	"github.com/BlackBills-Engineering/ung-kiosk/common/logger"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/backend"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/pumps"
	"github.com/pkg/errors"
)

var log = logger.GetLogger()

// Field marks which of the two reciprocal inputs the user edited last.
// Exactly one of them is authoritative at any moment.
type Field string

const (
	FieldVolume Field = "volume"
	FieldMoney  Field = "money"
)

var ErrNothingEntered = errors.New("no preset input entered")

// Input is a dispense request as entered in the preset dialog.
type Input struct {
	Liters     float64
	Amount     int64
	LastEdited Field
}

// AmountForLiters derives the payable amount from an entered volume.
func AmountForLiters(liters float64, pricePerL int64) int64 {
	return int64(math.Floor(liters * float64(pricePerL)))
}

// LitersForAmount derives the volume from an entered amount, rounded to two
// decimals the way the dispenser displays it.
func LitersForAmount(amount int64, pricePerL int64) float64 {
	return math.Round(float64(amount)/float64(pricePerL)*100) / 100
}

// Service translates a chosen grade plus a volume-or-amount input into one
// preset command towards the pump controller.
type Service interface {
	// Submit issues exactly one preset request (volume-based or
	// amount-based, depending on the last-edited field).
	Submit(ctx context.Context, pumpID int, gradeValue int, input Input) error
}

type presetService struct {
	client backend.Client
}

func NewService(client backend.Client) Service {
	return &presetService{client: client}
}

func (ps *presetService) Submit(ctx context.Context, pumpID int, gradeValue int, input Input) error {
	gradeIndex, err := pumps.GradeIndex(gradeValue)
	if err != nil {
		return err
	}

	switch input.LastEdited {
	case FieldVolume:
		if err := ps.client.PresetVolume(ctx, pumpID, gradeIndex, input.Liters); err != nil {
			log.Errorf("action: preset_volume | result: failed | pump_id: %d | error: %v", pumpID, err)
			return err
		}
	case FieldMoney:
		if err := ps.client.PresetMoney(ctx, pumpID, gradeIndex, input.Amount); err != nil {
			log.Errorf("action: preset_money | result: failed | pump_id: %d | error: %v", pumpID, err)
			return err
		}
	default:
		return ErrNothingEntered
	}

	log.Infof("action: preset | result: success | pump_id: %d | grade: %d", pumpID, gradeValue)
	return nil
}
