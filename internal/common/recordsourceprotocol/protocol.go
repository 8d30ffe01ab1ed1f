package recordsourceprotocol

import "encoding/json"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope returned by the polled payment-detection backend.
type Response struct {
	Status  string   `json:"status"`
	Message string   `json:"message,omitempty"`
	Records []Record `json:"records"`
}

// Record is one observed transaction as the backend reports it. Timestamp
// arrives as a number or a numeric string depending on the backend version.
type Record struct {
	ActualAmount float64     `json:"actual_amount"`
	UserMemo     string      `json:"user_memo"`
	PaymentTime  string      `json:"payment_time"`
	Timestamp    json.Number `json:"timestamp"`
}
