// Package validating is the gate between aggregation and every consumer of
// the report. Renderers and the snapshot writer only accept the Validated
// wrapper, so an unvalidated bundle cannot reach them.
package validating

import (
	"github.com/shopspring/decimal"

	"github.com/vfg2006/sales-analytics-api/internal/config"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/pkg/utils"
)

// Validated wraps a bundle that passed every check. The field is unexported
// on purpose: the only way to obtain one is through Validate.
type Validated struct {
	bundle *domain.ReportBundle
}

func (v Validated) Bundle() *domain.ReportBundle {
	return v.bundle
}

type Validator interface {
	Validate(bundle *domain.ReportBundle) (Validated, error)
}

type Service struct {
	strict bool
}

func NewService(cfg config.Report) Validator {
	return &Service{
		strict: cfg.StrictValidation,
	}
}

// Validate runs every structural and semantic check. It never mutates the
// bundle and is idempotent: validating twice yields the same outcome.
func (s *Service) Validate(bundle *domain.ReportBundle) (Validated, error) {
	checks := []func(*domain.ReportBundle) *ValidationError{
		checkRowsPresent,
		checkDerivedFields,
		checkGroupingKeys,
		checkRankings,
		checkMonthlySeries,
	}
	if s.strict {
		checks = append(checks, checkAmountConsistency)
	}

	for _, check := range checks {
		if err := check(bundle); err != nil {
			return Validated{}, err
		}
	}

	return Validated{bundle: bundle}, nil
}

func checkRowsPresent(b *domain.ReportBundle) *ValidationError {
	if b == nil {
		return newValidationError("rows", "bundle is nil")
	}
	if len(b.Rows) == 0 {
		return newValidationError("rows", "bundle carries no transaction rows")
	}
	return nil
}

func checkDerivedFields(b *domain.ReportBundle) *ValidationError {
	if b.TotalRevenue.IsNegative() {
		return newValidationError("total_revenue", "negative total: %s", b.TotalRevenue)
	}
	if b.TopProducts == nil {
		return newValidationError("top_products", "field is missing")
	}
	if b.TopCustomers == nil {
		return newValidationError("top_customers", "field is missing")
	}
	if b.MonthlySeries == nil {
		return newValidationError("monthly_series", "field is missing")
	}
	if !b.AverageBasket.Equal(b.AverageBasketExact.RoundBank(2)) {
		return newValidationError("average_basket", "rounded value %s does not match the exact quotient %s", b.AverageBasket, b.AverageBasketExact)
	}
	return nil
}

func checkGroupingKeys(b *domain.ReportBundle) *ValidationError {
	for _, row := range b.Rows {
		if row.ProductName == "" || row.Category == "" {
			return newValidationError("grouping_keys", "sale %d misses product_name or category", row.SaleID)
		}
		if row.CustomerName == "" {
			return newValidationError("grouping_keys", "sale %d misses customer_name", row.SaleID)
		}
		if !utils.ValidMonthKey(row.MonthKey) {
			return newValidationError("grouping_keys", "sale %d has malformed month_key %q", row.SaleID, row.MonthKey)
		}
	}
	return nil
}

func checkRankings(b *domain.ReportBundle) *ValidationError {
	if len(b.TopProducts) > domain.TopLimit {
		return newValidationError("top_products", "length %d exceeds the cap of %d", len(b.TopProducts), domain.TopLimit)
	}
	for i := 1; i < len(b.TopProducts); i++ {
		prev, cur := b.TopProducts[i-1], b.TopProducts[i]
		cmp := prev.Revenue.Cmp(cur.Revenue)
		if cmp < 0 || (cmp == 0 && prev.ProductName > cur.ProductName) {
			return newValidationError("top_products", "entries %d and %d violate the ranking order", i-1, i)
		}
	}

	if len(b.TopCustomers) > domain.TopLimit {
		return newValidationError("top_customers", "length %d exceeds the cap of %d", len(b.TopCustomers), domain.TopLimit)
	}
	for i := 1; i < len(b.TopCustomers); i++ {
		prev, cur := b.TopCustomers[i-1], b.TopCustomers[i]
		cmp := prev.Revenue.Cmp(cur.Revenue)
		if cmp < 0 || (cmp == 0 && prev.CustomerName > cur.CustomerName) {
			return newValidationError("top_customers", "entries %d and %d violate the ranking order", i-1, i)
		}
	}
	return nil
}

func checkMonthlySeries(b *domain.ReportBundle) *ValidationError {
	for i, entry := range b.MonthlySeries {
		if !utils.ValidMonthKey(entry.Month) {
			return newValidationError("monthly_series", "entry %d has malformed month %q", i, entry.Month)
		}
		if i > 0 && b.MonthlySeries[i-1].Month >= entry.Month {
			return newValidationError("monthly_series", "entries %d and %d are not strictly ascending", i-1, i)
		}
	}
	return nil
}

// checkAmountConsistency is the opt-in strict mode: the persisted amount must
// match unit_price * quantity to cent precision.
func checkAmountConsistency(b *domain.ReportBundle) *ValidationError {
	for _, row := range b.Rows {
		expected := row.UnitPrice.Mul(decimal.NewFromInt(int64(row.Quantity))).RoundBank(2)
		if !row.Amount.RoundBank(2).Equal(expected) {
			return newValidationError(
				"amount_consistency",
				"sale %d: amount %s does not match unit_price*quantity %s",
				row.SaleID, row.Amount, expected,
			)
		}
	}
	return nil
}
