package data

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	NullStatus   = OrderStatus("")
	PaidStatus   = OrderStatus("paid")
	FailedStatus = OrderStatus("failed")
)

type Order struct {
	UpdatedAt time.Time
	OrderID   string
	Amount    decimal.Decimal
	Status    OrderStatus
	Reason    string
}

type Deduction struct {
	ProcessTime time.Time
	Username    string
	Points      int64
	Reason      string
}
