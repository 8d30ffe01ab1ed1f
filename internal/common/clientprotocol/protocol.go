package clientprotocol

import "time"

const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusNotFound = "not_found"
)

type SessionView struct {
	OrderID          string `json:"order_id"`
	Method           string `json:"method"`
	State            string `json:"state"`
	Display          string `json:"display"`
	RemainingSeconds int64  `json:"remaining_seconds"`
}

type OrderView struct {
	OrderID   string    `json:"order_id"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PointsView struct {
	Username   string          `json:"username"`
	Balance    int64           `json:"points"`
	Deductions []DeductionView `json:"deduct_history"`
}

type DeductionView struct {
	Points      int64     `json:"points"`
	Reason      string    `json:"reason"`
	ProcessTime time.Time `json:"process_time"`
}

type RenewalView struct {
	NewEndTime    time.Time `json:"new_end_time"`
	AddedDays     int       `json:"added_days"`
	PointsCharged int64     `json:"points_charged"`
}

type ErrorView struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
