package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopLimit is the fixed cap for product and customer rankings.
const TopLimit = 5

type ProductRevenue struct {
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type CustomerRevenue struct {
	CustomerName  string          `json:"customer_name"`
	Revenue       decimal.Decimal `json:"revenue"`
	PurchaseCount int             `json:"purchase_count"`
}

type MonthlyRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ReportBundle is the immutable output of one aggregation run. It is built
// once, checked by the validator and then only ever read; renderers and
// handlers must not write back into it.
type ReportBundle struct {
	Rows []TransactionRow `json:"rows"`

	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	AverageBasket decimal.Decimal `json:"average_basket"`
	// AverageBasketExact keeps the unrounded quotient so further aggregation
	// never compounds the display rounding. Not serialized.
	AverageBasketExact decimal.Decimal `json:"-"`

	TopProducts   []ProductRevenue  `json:"top_products"`
	TopCustomers  []CustomerRevenue `json:"top_customers"`
	MonthlySeries []MonthlyRevenue  `json:"monthly_series"`

	GeneratedAt time.Time `json:"generated_at"`
}

// ReportSnapshot is a persisted validated bundle, one per run date.
type ReportSnapshot struct {
	ID        string        `json:"id"`
	RunDate   time.Time     `json:"run_date"`
	Report    *ReportBundle `json:"report"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
