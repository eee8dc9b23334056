package checkout

import (
	"github.com/BlackBills-Engineering/ung-kiosk/internal/backend"
)

const MAX_PAYMENT_METHODS = 2

// Split computes a multi-method payment split over a fixed total. With a
// single method the full total is forced onto it; with two methods the
// amounts are entered manually and the counterpart is recomputed from the
// most recently edited field only, so the two fields never oscillate.
type Split struct {
	total      int64
	selected   []string
	amounts    map[string]int64
	lastEdited string
}

func NewSplit(total int64) *Split {
	return &Split{
		total:   total,
		amounts: make(map[string]int64),
	}
}

func (s *Split) Total() int64 {
	return s.total
}

// Methods returns the selected payment methods in selection order.
func (s *Split) Methods() []string {
	methods := make([]string, len(s.selected))
	copy(methods, s.selected)
	return methods
}

// Amount returns the entered amount for a method; ok is false while the
// field is still empty.
func (s *Split) Amount(method string) (int64, bool) {
	amount, ok := s.amounts[method]
	return amount, ok
}

// ManualEntryEnabled reports whether amounts are entered by hand. With a
// single method selected the full total is forced and entry is disabled.
func (s *Split) ManualEntryEnabled() bool {
	return len(s.selected) == MAX_PAYMENT_METHODS
}

// Toggle selects or deselects a payment method. Selecting beyond the method
// limit is rejected.
func (s *Split) Toggle(method string) bool {
	for i, m := range s.selected {
		if m == method {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			delete(s.amounts, method)
			s.lastEdited = ""
			s.applySelectionRules()
			return true
		}
	}

	if len(s.selected) >= MAX_PAYMENT_METHODS {
		return false
	}

	s.selected = append(s.selected, method)
	s.lastEdited = ""
	s.applySelectionRules()
	return true
}

// SetAmount records a manual amount for a selected method, clamped into
// [0, total], and recomputes the counterpart as the remainder.
func (s *Split) SetAmount(method string, amount int64) bool {
	if !s.ManualEntryEnabled() || !s.isSelected(method) {
		return false
	}

	if amount < 0 {
		amount = 0
	}
	if amount > s.total {
		amount = s.total
	}

	s.lastEdited = method
	s.amounts[method] = amount

	other := s.otherMethod(method)
	remainder := s.total - amount
	if remainder < 0 {
		remainder = 0
	}
	s.amounts[other] = remainder
	return true
}

// ClearAmount empties a method's field without deselecting it.
func (s *Split) ClearAmount(method string) {
	delete(s.amounts, method)
	s.lastEdited = ""
}

// EnteredAmounts returns a copy of the per-method amounts entered (or
// computed) so far.
func (s *Split) EnteredAmounts() map[string]int64 {
	amounts := make(map[string]int64, len(s.amounts))
	for method, amount := range s.amounts {
		amounts[method] = amount
	}
	return amounts
}

// PaymentInfo emits the split as wire payment legs, one per selected
// method, defaulting still-empty fields to 0.
func (s *Split) PaymentInfo() []backend.PaymentInfo {
	info := make([]backend.PaymentInfo, 0, len(s.selected))
	for _, method := range s.selected {
		info = append(info, backend.PaymentInfo{
			PaymentType: method,
			Amount:      s.amounts[method],
		})
	}
	return info
}

// --- PRIVATE METHODS ---

func (s *Split) applySelectionRules() {
	switch len(s.selected) {
	case 1:
		// Degenerate split: the lone method carries everything.
		s.amounts[s.selected[0]] = s.total
	case 2:
		// Entering the two-method state clears both fields so stale
		// single-method values are never carried over.
		s.amounts = make(map[string]int64)
	}
}

func (s *Split) isSelected(method string) bool {
	for _, m := range s.selected {
		if m == method {
			return true
		}
	}
	return false
}

func (s *Split) otherMethod(method string) string {
	if s.selected[0] == method {
		return s.selected[1]
	}
	return s.selected[0]
}
