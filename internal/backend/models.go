package backend

// Payment method wire values accepted by the billing backend.
const (
	PaymentCash      = "CASH"
	PaymentCard      = "CARD"
	PaymentClick     = "CLICK"
	PaymentUzum      = "UZUM"
	PaymentPayme     = "PAYME"
	PaymentCorporate = "CORPORATE"
)

// Good is one billable line of a payment submission. For fuel lines the sku
// is the octane grade and the quantity is liters; for shop products the sku
// is the product id and the quantity a piece count.
type Good struct {
	Sku      int64   `json:"sku"`
	Quantity float64 `json:"quantity"`
	Amount   int64   `json:"amount"`
}

// PaymentInfo is one leg of a split payment.
type PaymentInfo struct {
	PaymentType string `json:"paymentTypes"`
	Amount      int64  `json:"amount"`
}

// Check status values returned by the billing backend. Anything that is not
// pending is terminal; anything terminal that is not success is a failure.
const (
	CheckPending = "Pending"
	CheckSuccess = "Success"
)

// CheckStatus is the billing backend's answer to a status query.
type CheckStatus struct {
	Status string `json:"status"`
}
