package verification

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

const (
	DefaultSuffixMin = 1
	DefaultSuffixMax = 67
)

var (
	ErrUnknownMethod = errors.New("unknown verification method")
	ErrInvalidOrder  = errors.New("invalid order")
)

type Method string

const (
	MethodDecimal = Method("decimal")
	MethodMemo    = Method("memo")
)

// Order is the payment request being verified. Read-only to this package.
type Order struct {
	ID     string
	Amount float64
}

func (o Order) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("%w: missing order id", ErrInvalidOrder)
	}
	if math.IsNaN(o.Amount) || math.IsInf(o.Amount, 0) || o.Amount <= 0 {
		return fmt.Errorf("%w: amount must be a positive number", ErrInvalidOrder)
	}
	return nil
}

// Datum is the signal the payer must reproduce, either an exact amount with a
// rotating two-digit suffix or a 4-digit code embedded in the transfer memo.
type Datum struct {
	Method     Method
	WholePart  int64
	SuffixCode int
	MemoCode   string
}

// ExpectedAmount is only meaningful for the decimal method.
func (d Datum) ExpectedAmount() float64 {
	return float64(d.WholePart) + float64(d.SuffixCode)/100
}

// DisplayValue renders what the payer is shown: "10.05" or "4821".
func (d Datum) DisplayValue() string {
	if d.Method == MethodMemo {
		return d.MemoCode
	}
	return fmt.Sprintf("%d.%02d", d.WholePart, d.SuffixCode)
}

type Generator struct {
	intN func(n int) int
}

func NewGenerator() *Generator {
	return &Generator{
		intN: rand.IntN,
	}
}

// Generate builds the datum for one session. The decimal variant reads the
// rotation cursor without advancing it; advancement happens only after a
// verified success.
func (g *Generator) Generate(method Method, order Order, rotation *Rotation) (Datum, error) {
	if err := order.Validate(); err != nil {
		return Datum{}, err
	}
	switch method {
	case MethodDecimal:
		suffix, err := rotation.Current()
		if err != nil {
			return Datum{}, fmt.Errorf("failed to read rotation state: %w", err)
		}
		return Datum{
			Method:     MethodDecimal,
			WholePart:  int64(math.Floor(order.Amount)),
			SuffixCode: suffix,
		}, nil
	case MethodMemo:
		return Datum{
			Method:   MethodMemo,
			MemoCode: fmt.Sprintf("%04d", 1000+g.intN(9000)),
		}, nil
	default:
		return Datum{}, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}
