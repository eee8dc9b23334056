package pumps

import (
	"time"

	"github.com/pkg/errors"
)

// Status of a single dispenser as reported by the controller feed.
type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusCalling    Status = "CALLING"
	StatusAuthorized Status = "AUTHORIZED"
	StatusDispensing Status = "DISPENSING"
	StatusComplete   Status = "COMPLETE"
	StatusStopped    Status = "STOPPED"
	StatusError      Status = "ERROR"
)

// Metrics is one figures block of a fill: either the live counters while
// dispensing or the summary of a finished transaction.
type Metrics struct {
	Volume       float64 `json:"volume"`
	PricePerUnit int64   `json:"price_per_unit"`
	TotalAmount  int64   `json:"total_amount"`
	Grade        int     `json:"grade"` // wire index, not the octane value
}

// Frame is one snapshot of a pump's state as delivered by the stream.
type Frame struct {
	PumpID        int      `json:"pump_id"`
	Status        Status   `json:"status"`
	Realtime      *Metrics `json:"realtime,omitempty"`
	Transaction   *Metrics `json:"transaction,omitempty"`
	LastTxn       *Metrics `json:"last_transaction,omitempty"`
	ErrorMessage  string   `json:"error_message,omitempty"`
	RawStatusCode string   `json:"raw_status_code,omitempty"`
	WireFormat    string   `json:"wire_format,omitempty"`

	// LastUpdated is stamped locally at frame receipt, not parsed off the wire.
	LastUpdated time.Time `json:"-"`
}

var ErrUnknownGrade = errors.New("unknown grade")

// The controller reports grades as indexes whose order does not match the
// octane order, so both directions go through a fixed table.
var gradeByIndex = map[int]int{
	0: 80,
	1: 100,
	2: 92,
	3: 95,
}

var indexByGrade = map[int]int{
	80:  0,
	100: 1,
	92:  2,
	95:  3,
}

// GradeValue maps a wire grade index to its octane value.
func GradeValue(index int) (int, error) {
	value, ok := gradeByIndex[index]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownGrade, "index %d", index)
	}
	return value, nil
}

// GradeIndex maps an octane value back to the wire index the controller expects.
func GradeIndex(value int) (int, error) {
	index, ok := indexByGrade[value]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownGrade, "value %d", value)
	}
	return index, nil
}
