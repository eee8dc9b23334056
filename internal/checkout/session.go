package checkout

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BlackBills-Engineering/ung-kiosk/common/logger"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/backend"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/cart"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var log = logger.GetLogger()

const POLL_INTERVAL = 2 * time.Second
const ALERT_TTL = 3 * time.Second

// State of the checkout workflow.
type State string

const (
	StateBrowsingCart State = "BROWSING_CART"
	StateReviewing    State = "REVIEWING"
	StateSplitEntry   State = "SPLIT_ENTRY"
	StateSubmitting   State = "SUBMITTING"
	StatePolling      State = "POLLING"
	StateFailed       State = "FAILED"
)

type Severity string

const (
	AlertSuccess Severity = "success"
	AlertError   Severity = "error"
)

// Alert is a transient, auto-dismissing notification. The message is an
// opaque code the presentation layer localizes.
type Alert struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

const ALERT_PAYMENT_SUCCESS = "payment_status.success"
const ALERT_PAYMENT_CANCELED = "payment_status.canceled"

// Totals of the current selection.
type Totals struct {
	Products int64 `json:"products"`
	Fuel     int64 `json:"fuel"`
	Overall  int64 `json:"overall"`
}

var ErrNoSelection = errors.New("no cart entries selected")
var ErrNotInCheckout = errors.New("checkout not entered")
var ErrSubmitInFlight = errors.New("submission already in flight")

// Session coordinates one checkout: the selection set over cart entries,
// the payment split, submission, and the asynchronous status poll. It is
// transient; terminal resolution or return-to-cart resets it.
type Session struct {
	cart   cart.Store
	client backend.Client

	mu           sync.Mutex
	state        State
	selection    map[string]struct{}
	split        *Split
	submissionID string

	alert    *Alert
	alertSeq int

	pollCancel context.CancelFunc

	pollInterval time.Duration
	alertTTL     time.Duration
}

func NewSession(cartStore cart.Store, client backend.Client) *Session {
	s := &Session{
		cart:         cartStore,
		client:       client,
		state:        StateBrowsingCart,
		selection:    make(map[string]struct{}),
		pollInterval: POLL_INTERVAL,
		alertTTL:     ALERT_TTL,
	}
	// Keep the selection free of dangling keys whatever mutates the cart.
	cartStore.Subscribe(s.pruneSelection)
	return s
}

/* --- Selection --- */

// ToggleSelection adds or removes an entry key (pump uuid or prod-<id>).
// Adding a key that resolves to no cart entry is a no-op.
func (s *Session) ToggleSelection(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.selection[key]; ok {
		delete(s.selection, key)
		return
	}
	if s.keyExists(key) {
		s.selection[key] = struct{}{}
	}
}

// Selection returns the selected entry keys, sorted for determinism.
func (s *Session) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.selection))
	for key := range s.selection {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Totals sums the currently selected entries.
func (s *Session) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalsLocked()
}

/* --- Checkout flow --- */

// EnterCheckout moves to Reviewing and opens a fresh payment split over the
// selection's total. Requires at least one selected entry.
func (s *Session) EnterCheckout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.selection) == 0 {
		return ErrNoSelection
	}
	s.state = StateReviewing
	s.split = NewSplit(s.totalsLocked().Overall)
	return nil
}

// BackToCart abandons the checkout: the split is destroyed and any live
// poller is cancelled. The selection itself survives.
func (s *Session) BackToCart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelPollLocked()
	s.split = nil
	s.submissionID = ""
	s.state = StateBrowsingCart
}

// TogglePaymentMethod selects/deselects a method. Returns false when the
// method limit rejects the selection.
func (s *Session) TogglePaymentMethod(method string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.split == nil {
		return false, ErrNotInCheckout
	}
	s.state = StateSplitEntry
	return s.split.Toggle(method), nil
}

// SetPaymentAmount records a manual amount for a selected method.
func (s *Session) SetPaymentAmount(method string, amount int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.split == nil {
		return false, ErrNotInCheckout
	}
	return s.split.SetAmount(method, amount), nil
}

// ClearPaymentAmount empties a method's amount field.
func (s *Session) ClearPaymentAmount(method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.split == nil {
		return ErrNotInCheckout
	}
	s.split.ClearAmount(method)
	return nil
}

// Submit sends the payment and starts polling its status. A new submission
// invalidates any poller left over from a previous one.
func (s *Session) Submit(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.split == nil {
		s.mu.Unlock()
		return "", ErrNotInCheckout
	}
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return "", ErrSubmitInFlight
	}
	s.cancelPollLocked()

	submissionID := uuid.NewString()
	s.submissionID = submissionID
	s.state = StateSubmitting

	goods := s.goodsLocked()
	paymentInfo := s.split.PaymentInfo()
	s.mu.Unlock()

	if err := s.client.PostCheck(ctx, submissionID, goods, paymentInfo); err != nil {
		log.Errorf("action: post_check | result: failed | id: %s | error: %v", submissionID, err)
		s.mu.Lock()
		s.state = StateFailed
		s.setAlertLocked(AlertError, ALERT_PAYMENT_CANCELED)
		s.mu.Unlock()
		return submissionID, err
	}

	pollCtx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.pollCancel = cancel
	s.state = StatePolling
	s.mu.Unlock()

	go s.pollLoop(pollCtx, submissionID)
	return submissionID, nil
}

/* --- Introspection --- */

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Alert() *Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.alert == nil {
		return nil
	}
	alert := *s.alert
	return &alert
}

// SplitView is a read-only snapshot of the payment split.
type SplitView struct {
	Total       int64            `json:"total"`
	Methods     []string         `json:"methods"`
	Amounts     map[string]int64 `json:"amounts"`
	ManualEntry bool             `json:"manual_entry"`
}

// SplitView returns the current split state, or nil outside checkout.
func (s *Session) SplitView() *SplitView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.split == nil {
		return nil
	}
	return &SplitView{
		Total:       s.split.Total(),
		Methods:     s.split.Methods(),
		Amounts:     s.split.EnteredAmounts(),
		ManualEntry: s.split.ManualEntryEnabled(),
	}
}

func (s *Session) SubmissionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submissionID
}

// --- PRIVATE METHODS ---

func (s *Session) pollLoop(ctx context.Context, submissionID string) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			status, err := s.client.GetCheck(ctx, submissionID)
			if err != nil {
				// Transient poll failures never stop the interval.
				log.Warnf("action: get_check | result: failed | id: %s | error: %v", submissionID, err)
				continue
			}
			if status.Status == backend.CheckPending {
				continue
			}
			s.resolve(submissionID, status.Status)
			return
		}
	}
}

// resolve handles the first non-pending status for a submission. The cart
// mutations run outside the session lock: each removal notifies the cart
// subscribers, and the prune callback takes the lock itself.
func (s *Session) resolve(submissionID string, status string) {
	s.mu.Lock()
	if s.submissionID != submissionID {
		// A newer submission took over while this one resolved.
		s.mu.Unlock()
		return
	}
	s.cancelPollLocked()

	if status != backend.CheckSuccess {
		log.Warnf("action: payment | result: %s | id: %s", status, submissionID)
		s.state = StateReviewing
		s.setAlertLocked(AlertError, ALERT_PAYMENT_CANCELED)
		s.mu.Unlock()
		return
	}

	selectedPumps := s.selectedPumpsLocked()
	selectedProducts := s.selectedProductsLocked()
	s.selection = make(map[string]struct{})
	s.split = nil
	s.submissionID = ""
	s.state = StateBrowsingCart
	s.setAlertLocked(AlertSuccess, ALERT_PAYMENT_SUCCESS)
	s.mu.Unlock()

	log.Infof("action: payment | result: success | id: %s", submissionID)
	for _, entry := range selectedPumps {
		if err := s.cart.RemovePump(context.Background(), entry.UUID); err != nil {
			log.Warnf("action: clear_paid_entry | result: %v | uuid: %s", err, entry.UUID)
		}
	}
	for _, product := range selectedProducts {
		s.cart.RemoveProduct(product.ID)
	}
}

func (s *Session) pruneSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.selection {
		if !s.keyExists(key) {
			delete(s.selection, key)
		}
	}
}

func (s *Session) keyExists(key string) bool {
	for _, entry := range s.cart.Pumps() {
		if entry.SelectionKey() == key {
			return true
		}
	}
	for _, product := range s.cart.Products() {
		if product.SelectionKey() == key {
			return true
		}
	}
	return false
}

func (s *Session) selectedPumpsLocked() []cart.PumpEntry {
	selected := []cart.PumpEntry{}
	for _, entry := range s.cart.Pumps() {
		if _, ok := s.selection[entry.SelectionKey()]; ok {
			selected = append(selected, entry)
		}
	}
	return selected
}

func (s *Session) selectedProductsLocked() []cart.Product {
	selected := []cart.Product{}
	for _, product := range s.cart.Products() {
		if _, ok := s.selection[product.SelectionKey()]; ok {
			selected = append(selected, product)
		}
	}
	return selected
}

func (s *Session) totalsLocked() Totals {
	totals := Totals{}
	for _, entry := range s.selectedPumpsLocked() {
		totals.Fuel += entry.Amount()
	}
	for _, product := range s.selectedProductsLocked() {
		totals.Products += product.Amount()
	}
	totals.Overall = totals.Fuel + totals.Products
	return totals
}

// goodsLocked builds the billable lines: fuel fills first, then products.
func (s *Session) goodsLocked() []backend.Good {
	goods := []backend.Good{}
	for _, entry := range s.selectedPumpsLocked() {
		goods = append(goods, backend.Good{
			Sku:      int64(entry.Grade),
			Quantity: entry.Liters,
			Amount:   entry.Amount(),
		})
	}
	for _, product := range s.selectedProductsLocked() {
		goods = append(goods, backend.Good{
			Sku:      product.ID,
			Quantity: float64(product.Quantity),
			Amount:   product.Amount(),
		})
	}
	return goods
}

func (s *Session) cancelPollLocked() {
	if s.pollCancel != nil {
		s.pollCancel()
		s.pollCancel = nil
	}
}

func (s *Session) setAlertLocked(severity Severity, message string) {
	s.alert = &Alert{Severity: severity, Message: message}
	s.alertSeq++
	seq := s.alertSeq

	time.AfterFunc(s.alertTTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// A newer alert restarted the dismiss window.
		if s.alertSeq == seq {
			s.alert = nil
		}
	})
}
