package entities

// CheckoutSessionRequest is the payment-provider session call made by
// the wizard after a successful booking create.
type CheckoutSessionRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}
