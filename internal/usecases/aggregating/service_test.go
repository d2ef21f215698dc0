package aggregating

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

func row(saleID int64, date, product, category, customer, amount string, quantity int) domain.TransactionRow {
	saleDate, _ := time.Parse(time.DateOnly, date)
	value := decimal.RequireFromString(amount)
	return domain.TransactionRow{
		SaleID:       saleID,
		SaleDate:     saleDate,
		ProductName:  product,
		Category:     category,
		UnitPrice:    value.Div(decimal.NewFromInt(int64(quantity))),
		CustomerName: customer,
		Quantity:     quantity,
		Amount:       value,
		MonthKey:     saleDate.Format("2006-01"),
	}
}

func TestAggregate_DerivedTotals(t *testing.T) {
	service := NewService()

	rows := []domain.TransactionRow{
		row(1, "2025-01-15", "Laptop", "Electronics", "Alice", "1200.00", 1),
		row(2, "2025-01-20", "Laptop", "Electronics", "Bob", "600.00", 1),
		row(3, "2025-02-03", "Novel", "Books", "Alice", "30.00", 2),
	}

	bundle, err := service.Aggregate(rows)
	require.NoError(t, err)

	assert.Equal(t, "1830.00", bundle.TotalRevenue.StringFixed(2))
	assert.Equal(t, "610.00", bundle.AverageBasket.StringFixed(2))

	require.Len(t, bundle.TopProducts, 2)
	assert.Equal(t, "Laptop", bundle.TopProducts[0].ProductName)
	assert.Equal(t, "Electronics", bundle.TopProducts[0].Category)
	assert.Equal(t, "1800.00", bundle.TopProducts[0].Revenue.StringFixed(2))
	assert.Equal(t, "Novel", bundle.TopProducts[1].ProductName)

	require.Len(t, bundle.TopCustomers, 2)
	assert.Equal(t, "Alice", bundle.TopCustomers[0].CustomerName)
	assert.Equal(t, "1230.00", bundle.TopCustomers[0].Revenue.StringFixed(2))
	assert.Equal(t, 2, bundle.TopCustomers[0].PurchaseCount)
	assert.Equal(t, "Bob", bundle.TopCustomers[1].CustomerName)
	assert.Equal(t, 1, bundle.TopCustomers[1].PurchaseCount)

	require.Len(t, bundle.MonthlySeries, 2)
	assert.Equal(t, "2025-01", bundle.MonthlySeries[0].Month)
	assert.Equal(t, "1800.00", bundle.MonthlySeries[0].Revenue.StringFixed(2))
	assert.Equal(t, "2025-02", bundle.MonthlySeries[1].Month)
	assert.Equal(t, "30.00", bundle.MonthlySeries[1].Revenue.StringFixed(2))
}

func TestAggregate_EmptyDataset(t *testing.T) {
	service := NewService()

	bundle, err := service.Aggregate(nil)
	assert.Nil(t, bundle)
	assert.ErrorIs(t, err, ErrEmptyDataset)

	bundle, err = service.Aggregate([]domain.TransactionRow{})
	assert.Nil(t, bundle)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestAggregate_OrderIndependence(t *testing.T) {
	service := NewService()

	rows := []domain.TransactionRow{
		row(1, "2025-01-05", "Mouse", "Electronics", "Alice", "25.50", 1),
		row(2, "2025-03-12", "Keyboard", "Electronics", "Bob", "99.99", 1),
		row(3, "2025-02-28", "Coffee", "Food", "Carol", "12.30", 3),
		row(4, "2025-01-09", "Mouse", "Electronics", "Dave", "51.00", 2),
		row(5, "2025-03-01", "Novel", "Books", "Alice", "18.00", 1),
	}

	reference, err := service.Aggregate(rows)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := make([]domain.TransactionRow, len(rows))
		copy(shuffled, rows)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		bundle, err := service.Aggregate(shuffled)
		require.NoError(t, err)

		assert.True(t, reference.TotalRevenue.Equal(bundle.TotalRevenue))
		assert.True(t, reference.AverageBasket.Equal(bundle.AverageBasket))
		assert.Equal(t, reference.TopProducts, bundle.TopProducts)
		assert.Equal(t, reference.TopCustomers, bundle.TopCustomers)
		assert.Equal(t, reference.MonthlySeries, bundle.MonthlySeries)
	}
}

func TestAggregate_TiesBreakByNameAscending(t *testing.T) {
	service := NewService()

	rows := []domain.TransactionRow{
		row(1, "2025-01-01", "Zebra Print", "Clothing", "Zoe", "100.00", 1),
		row(2, "2025-01-02", "Apple Slicer", "Food", "Adam", "100.00", 1),
		row(3, "2025-01-03", "Mango Juice", "Food", "Mia", "100.00", 1),
	}

	bundle, err := service.Aggregate(rows)
	require.NoError(t, err)

	require.Len(t, bundle.TopProducts, 3)
	assert.Equal(t, "Apple Slicer", bundle.TopProducts[0].ProductName)
	assert.Equal(t, "Mango Juice", bundle.TopProducts[1].ProductName)
	assert.Equal(t, "Zebra Print", bundle.TopProducts[2].ProductName)

	require.Len(t, bundle.TopCustomers, 3)
	assert.Equal(t, "Adam", bundle.TopCustomers[0].CustomerName)
	assert.Equal(t, "Mia", bundle.TopCustomers[1].CustomerName)
	assert.Equal(t, "Zoe", bundle.TopCustomers[2].CustomerName)
}

func TestAggregate_RankingsCappedAtFive(t *testing.T) {
	service := NewService()

	products := []string{"P1", "P2", "P3", "P4", "P5", "P6", "P7"}
	rows := make([]domain.TransactionRow, 0, len(products))
	for i, name := range products {
		amount := decimal.NewFromInt(int64(100 * (i + 1))).StringFixed(2)
		rows = append(rows, row(int64(i+1), "2025-06-10", name, "Electronics", "Customer "+name, amount, 1))
	}

	bundle, err := service.Aggregate(rows)
	require.NoError(t, err)

	require.Len(t, bundle.TopProducts, domain.TopLimit)
	assert.Equal(t, "P7", bundle.TopProducts[0].ProductName)
	assert.Equal(t, "P3", bundle.TopProducts[4].ProductName)

	require.Len(t, bundle.TopCustomers, domain.TopLimit)
	assert.Equal(t, "Customer P7", bundle.TopCustomers[0].CustomerName)
}

func TestAggregate_AverageBasketUsesBankersRounding(t *testing.T) {
	service := NewService()

	tests := []struct {
		name     string
		amounts  []string
		expected string
	}{
		{
			name:     "half rounds down to even",
			amounts:  []string{"10.00", "10.05"}, // exact average 10.025
			expected: "10.02",
		},
		{
			name:     "half rounds up to even",
			amounts:  []string{"10.00", "10.07"}, // exact average 10.035
			expected: "10.04",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([]domain.TransactionRow, 0, len(tt.amounts))
			for i, amount := range tt.amounts {
				rows = append(rows, row(int64(i+1), "2025-04-01", "Widget", "Electronics", "Alice", amount, 1))
			}

			bundle, err := service.Aggregate(rows)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, bundle.AverageBasket.StringFixed(2))
			assert.True(t, bundle.AverageBasket.Equal(bundle.AverageBasketExact.RoundBank(2)))
		})
	}
}

func TestAggregate_SameNameDifferentCategoryAreDistinct(t *testing.T) {
	service := NewService()

	rows := []domain.TransactionRow{
		row(1, "2025-01-01", "Gloves", "Clothing", "Alice", "20.00", 1),
		row(2, "2025-01-02", "Gloves", "Sports", "Bob", "35.00", 1),
	}

	bundle, err := service.Aggregate(rows)
	require.NoError(t, err)

	require.Len(t, bundle.TopProducts, 2)
	assert.Equal(t, "Sports", bundle.TopProducts[0].Category)
	assert.Equal(t, "Clothing", bundle.TopProducts[1].Category)
}

func TestAggregate_MonthlySeriesIsSparseAndSorted(t *testing.T) {
	service := NewService()

	// November and December 2024 sandwich months from 2025; no sales in
	// between should appear.
	rows := []domain.TransactionRow{
		row(1, "2025-05-15", "Widget", "Electronics", "Alice", "10.00", 1),
		row(2, "2024-11-02", "Widget", "Electronics", "Bob", "20.00", 1),
		row(3, "2025-01-20", "Widget", "Electronics", "Carol", "30.00", 1),
		row(4, "2024-12-31", "Widget", "Electronics", "Dave", "40.00", 1),
	}

	bundle, err := service.Aggregate(rows)
	require.NoError(t, err)

	months := make([]string, 0, len(bundle.MonthlySeries))
	for _, entry := range bundle.MonthlySeries {
		months = append(months, entry.Month)
	}
	assert.Equal(t, []string{"2024-11", "2024-12", "2025-01", "2025-05"}, months)
}

func TestAggregate_DoesNotSetGeneratedAt(t *testing.T) {
	service := NewService()

	bundle, err := service.Aggregate([]domain.TransactionRow{
		row(1, "2025-01-01", "Widget", "Electronics", "Alice", "10.00", 1),
	})
	require.NoError(t, err)

	// Stamping happens in the orchestrator so that equal inputs produce
	// equal aggregation results.
	assert.True(t, bundle.GeneratedAt.IsZero())
}
