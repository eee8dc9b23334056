package pumps

import (
	"strconv"
	"time"
)

// Nominal tank size used to scale the progress bar during a fill.
const PROGRESS_FULL_VOLUME = 50.0

const UNKNOWN_GRADE_LABEL = "unknown"

// MetricsView is a Metrics block with the wire grade index resolved to a
// displayable octane value.
type MetricsView struct {
	Volume       float64 `json:"volume"`
	PricePerUnit int64   `json:"price_per_unit"`
	TotalAmount  int64   `json:"total_amount"`
	Grade        string  `json:"grade"`
}

// View is the derived per-pump state consumed by the presentation layer.
type View struct {
	PumpID        int          `json:"pump_id"`
	Status        Status       `json:"status"`
	Dispensing    bool         `json:"dispensing"`
	Primary       *MetricsView `json:"primary,omitempty"`
	LastTxn       *MetricsView `json:"last_transaction,omitempty"`
	Progress      float64      `json:"progress"`
	LastUpdated   time.Time    `json:"last_updated"`
	ErrorMessage  string       `json:"error_message,omitempty"`
	RawStatusCode string       `json:"raw_status_code,omitempty"`
	WireFormat    string       `json:"wire_format,omitempty"`
}

// BuildView derives the displayable state for one frame.
func BuildView(frame Frame) View {
	view := View{
		PumpID:        frame.PumpID,
		Status:        frame.Status,
		Dispensing:    frame.Status == StatusDispensing,
		Primary:       metricsView(PrimaryMetrics(frame)),
		LastTxn:       metricsView(frame.LastTxn),
		LastUpdated:   frame.LastUpdated,
		ErrorMessage:  frame.ErrorMessage,
		RawStatusCode: frame.RawStatusCode,
		WireFormat:    frame.WireFormat,
	}

	if view.Dispensing && frame.Realtime != nil {
		progress := frame.Realtime.Volume / PROGRESS_FULL_VOLUME
		if progress > 1 {
			progress = 1
		}
		view.Progress = progress
	}

	return view
}

// BuildViews derives views for a whole store snapshot.
func BuildViews(frames []Frame) []View {
	views := make([]View, 0, len(frames))
	for _, frame := range frames {
		views = append(views, BuildView(frame))
	}
	return views
}

// --- PRIVATE METHODS ---

func metricsView(m *Metrics) *MetricsView {
	if m == nil {
		return nil
	}

	grade := UNKNOWN_GRADE_LABEL
	if value, err := GradeValue(m.Grade); err == nil {
		grade = strconv.Itoa(value)
	}

	return &MetricsView{
		Volume:       m.Volume,
		PricePerUnit: m.PricePerUnit,
		TotalAmount:  m.TotalAmount,
		Grade:        grade,
	}
}
