package backend

import "context"

// Client is the kiosk's HTTP surface towards the pump controller and the
// billing backend.
type Client interface {
	// StopPump asks the controller to stop dispensing. Idempotent; the
	// response body is informational only.
	StopPump(ctx context.Context, pumpID int) error

	// PresetVolume arms a fill capped by liters.
	PresetVolume(ctx context.Context, pumpID int, gradeIndex int, volume float64) error

	// PresetMoney arms a fill capped by amount.
	PresetMoney(ctx context.Context, pumpID int, gradeIndex int, amount int64) error

	// PostCheck submits a payment. Any non-2xx response is a hard failure.
	PostCheck(ctx context.Context, id string, goods []Good, paymentInfo []PaymentInfo) error

	// GetCheck queries the status of a previously submitted payment.
	GetCheck(ctx context.Context, id string) (CheckStatus, error)
}
