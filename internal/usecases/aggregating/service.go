// Package aggregating computes the derived revenue artifacts from the
// normalized transaction rows: total, average basket, top-5 rankings and the
// monthly series.
package aggregating

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

type Aggregator interface {
	Aggregate(rows []domain.TransactionRow) (*domain.ReportBundle, error)
}

type Service struct{}

func NewService() Aggregator {
	return &Service{}
}

// productKey groups by (product_name, category): two products with the same
// name in different categories are distinct groups.
type productKey struct {
	name     string
	category string
}

type accumulator struct {
	revenue decimal.Decimal
	count   int
}

// Aggregate runs the four grouping passes over the row set. Decimal addition
// is associative, so every derived sum is independent of row order.
func (s *Service) Aggregate(rows []domain.TransactionRow) (*domain.ReportBundle, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	totalRevenue := decimal.Zero
	byProduct := make(map[productKey]*accumulator)
	byCustomer := make(map[string]*accumulator)
	byMonth := make(map[string]*accumulator)

	for _, row := range rows {
		totalRevenue = totalRevenue.Add(row.Amount)
		accumulate(byProduct, productKey{row.ProductName, row.Category}, row.Amount)
		accumulate(byCustomer, row.CustomerName, row.Amount)
		accumulate(byMonth, row.MonthKey, row.Amount)
	}

	averageExact := totalRevenue.Div(decimal.NewFromInt(int64(len(rows))))

	bundle := &domain.ReportBundle{
		Rows:               rows,
		TotalRevenue:       totalRevenue,
		AverageBasket:      averageExact.RoundBank(2),
		AverageBasketExact: averageExact,
		TopProducts:        topProducts(byProduct),
		TopCustomers:       topCustomers(byCustomer),
		MonthlySeries:      monthlySeries(byMonth),
	}

	logrus.WithFields(logrus.Fields{
		"rows":          len(rows),
		"total_revenue": totalRevenue.StringFixed(2),
		"months":        len(bundle.MonthlySeries),
	}).Debug("aggregation completed")

	return bundle, nil
}

func accumulate[K comparable](groups map[K]*accumulator, key K, amount decimal.Decimal) {
	acc, ok := groups[key]
	if !ok {
		acc = &accumulator{revenue: decimal.Zero}
		groups[key] = acc
	}
	acc.revenue = acc.revenue.Add(amount)
	acc.count++
}

// topProducts ranks product groups by revenue descending; equal revenues are
// ordered by ascending product name so the result is deterministic.
func topProducts(groups map[productKey]*accumulator) []domain.ProductRevenue {
	ranking := make([]domain.ProductRevenue, 0, len(groups))
	for key, acc := range groups {
		ranking = append(ranking, domain.ProductRevenue{
			ProductName: key.name,
			Category:    key.category,
			Revenue:     acc.revenue,
		})
	}

	sort.Slice(ranking, func(i, j int) bool {
		if cmp := ranking[i].Revenue.Cmp(ranking[j].Revenue); cmp != 0 {
			return cmp > 0
		}
		return ranking[i].ProductName < ranking[j].ProductName
	})

	return capTop(ranking)
}

func topCustomers(groups map[string]*accumulator) []domain.CustomerRevenue {
	ranking := make([]domain.CustomerRevenue, 0, len(groups))
	for name, acc := range groups {
		ranking = append(ranking, domain.CustomerRevenue{
			CustomerName:  name,
			Revenue:       acc.revenue,
			PurchaseCount: acc.count,
		})
	}

	sort.Slice(ranking, func(i, j int) bool {
		if cmp := ranking[i].Revenue.Cmp(ranking[j].Revenue); cmp != 0 {
			return cmp > 0
		}
		return ranking[i].CustomerName < ranking[j].CustomerName
	})

	return capTop(ranking)
}

// monthlySeries is sparse: only months present in the input appear, sorted
// ascending (lexicographic equals chronological for YYYY-MM keys).
func monthlySeries(groups map[string]*accumulator) []domain.MonthlyRevenue {
	series := make([]domain.MonthlyRevenue, 0, len(groups))
	for month, acc := range groups {
		series = append(series, domain.MonthlyRevenue{
			Month:   month,
			Revenue: acc.revenue,
		})
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Month < series[j].Month
	})

	return series
}

func capTop[T any](ranking []T) []T {
	if len(ranking) > domain.TopLimit {
		return ranking[:domain.TopLimit]
	}
	return ranking
}
