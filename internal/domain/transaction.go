package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRow is one sale line-item after the join of the sales,
// products and clients tables. Amount is the persisted revenue figure and
// is authoritative; it is never recomputed from UnitPrice * Quantity.
type TransactionRow struct {
	SaleID       int64           `json:"sale_id"`
	SaleDate     time.Time       `json:"sale_date"`
	ProductName  string          `json:"product_name"`
	Category     string          `json:"category"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	CustomerName string          `json:"customer_name"`
	City         string          `json:"city,omitempty"`
	Quantity     int             `json:"quantity"`
	Amount       decimal.Decimal `json:"amount"`
	MonthKey     string          `json:"month_key"`
}
