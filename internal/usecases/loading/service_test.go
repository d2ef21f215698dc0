package loading

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/sales-analytics-api/infrastructure/repository"
	"github.com/vfg2006/sales-analytics-api/infrastructure/repository/mocks"
)

func joinRow(saleID int64, date, product, category, price, customer, amount string, quantity int) *repository.SaleJoinRow {
	return &repository.SaleJoinRow{
		SaleID:       saleID,
		SaleDate:     date,
		ProductName:  product,
		Category:     category,
		UnitPrice:    price,
		CustomerName: customer,
		Quantity:     quantity,
		Amount:       amount,
	}
}

func expectCounts(repo *mocks.MockTransactionRepository, products, clients, sales int) {
	repo.EXPECT().CountProducts(gomock.Any()).Return(products, nil)
	repo.EXPECT().CountClients(gomock.Any()).Return(clients, nil)
	repo.EXPECT().CountSales(gomock.Any()).Return(sales, nil)
}

func TestLoad_NormalizesJoinedRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockTransactionRepository(ctrl)
	expectCounts(mockRepo, 2, 2, 2)

	joined := []*repository.SaleJoinRow{
		joinRow(1, "2025-03-15", "Laptop", "Electronics", "1200.00", "Alice", "1200.00", 1),
		joinRow(2, "2025-03-20", "Mouse", "Electronics", "25.50", "Bob", "51.00", 2),
	}
	joined[1].City = sql.NullString{String: "Lyon", Valid: true}

	mockRepo.EXPECT().ListJoinedSales(gomock.Any()).Return(joined, nil)
	mockRepo.EXPECT().CountSales(gomock.Any()).Return(2, nil)

	service := NewService(mockRepo)
	rows, err := service.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(1), rows[0].SaleID)
	assert.Equal(t, "2025-03", rows[0].MonthKey)
	assert.Equal(t, "1200.00", rows[0].Amount.StringFixed(2))
	assert.Empty(t, rows[0].City)

	assert.Equal(t, "Lyon", rows[1].City)
	assert.Equal(t, 2, rows[1].Quantity)
	assert.Equal(t, "25.50", rows[1].UnitPrice.StringFixed(2))
}

func TestLoad_EmptyRequiredTables(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(repo *mocks.MockTransactionRepository)
		expected error
	}{
		{
			name: "no products",
			setup: func(repo *mocks.MockTransactionRepository) {
				repo.EXPECT().CountProducts(gomock.Any()).Return(0, nil)
			},
			expected: ErrNoProducts,
		},
		{
			name: "no clients",
			setup: func(repo *mocks.MockTransactionRepository) {
				repo.EXPECT().CountProducts(gomock.Any()).Return(10, nil)
				repo.EXPECT().CountClients(gomock.Any()).Return(0, nil)
			},
			expected: ErrNoClients,
		},
		{
			name: "no sales",
			setup: func(repo *mocks.MockTransactionRepository) {
				repo.EXPECT().CountProducts(gomock.Any()).Return(10, nil)
				repo.EXPECT().CountClients(gomock.Any()).Return(10, nil)
				repo.EXPECT().CountSales(gomock.Any()).Return(0, nil)
			},
			expected: ErrNoSales,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockTransactionRepository(ctrl)
			tt.setup(mockRepo)

			service := NewService(mockRepo)
			rows, err := service.Load(context.Background())
			assert.Nil(t, rows)
			assert.ErrorIs(t, err, tt.expected)

			var sourceErr *SourceError
			assert.ErrorAs(t, err, &sourceErr)
		})
	}
}

func TestLoad_CountFailureBecomesSourceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockTransactionRepository(ctrl)
	mockRepo.EXPECT().CountProducts(gomock.Any()).Return(0, errors.New("connection refused"))

	service := NewService(mockRepo)
	_, err := service.Load(context.Background())
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrReadFailed)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestLoad_JoinIntegrityMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockTransactionRepository(ctrl)
	expectCounts(mockRepo, 5, 5, 3)

	// Only two of the three sales survive the inner join: one references a
	// product that no longer exists.
	mockRepo.EXPECT().ListJoinedSales(gomock.Any()).Return([]*repository.SaleJoinRow{
		joinRow(1, "2025-01-01", "Widget", "Electronics", "10.00", "Alice", "10.00", 1),
		joinRow(2, "2025-01-02", "Widget", "Electronics", "10.00", "Bob", "10.00", 1),
	}, nil)
	mockRepo.EXPECT().CountSales(gomock.Any()).Return(3, nil)

	service := NewService(mockRepo)
	rows, err := service.Load(context.Background())
	assert.Nil(t, rows)
	assert.ErrorIs(t, err, ErrJoinIntegrity)
}

func TestLoad_RowNormalizationFailures(t *testing.T) {
	tests := []struct {
		name     string
		row      *repository.SaleJoinRow
		expected error
	}{
		{
			name:     "unparseable sale date",
			row:      joinRow(7, "15/01/2025", "Widget", "Electronics", "10.00", "Alice", "10.00", 1),
			expected: ErrInvalidDate,
		},
		{
			name:     "negative amount",
			row:      joinRow(7, "2025-01-15", "Widget", "Electronics", "10.00", "Alice", "-10.00", 1),
			expected: ErrInvalidAmount,
		},
		{
			name:     "amount is not a number",
			row:      joinRow(7, "2025-01-15", "Widget", "Electronics", "10.00", "Alice", "ten", 1),
			expected: ErrInvalidAmount,
		},
		{
			name:     "negative unit price",
			row:      joinRow(7, "2025-01-15", "Widget", "Electronics", "-10.00", "Alice", "10.00", 1),
			expected: ErrInvalidUnitPrice,
		},
		{
			name:     "zero quantity",
			row:      joinRow(7, "2025-01-15", "Widget", "Electronics", "10.00", "Alice", "10.00", 0),
			expected: ErrInvalidQuantity,
		},
		{
			name:     "missing product name",
			row:      joinRow(7, "2025-01-15", "", "Electronics", "10.00", "Alice", "10.00", 1),
			expected: ErrMissingField,
		},
		{
			name:     "missing customer name",
			row:      joinRow(7, "2025-01-15", "Widget", "Electronics", "10.00", "", "10.00", 1),
			expected: ErrMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockTransactionRepository(ctrl)
			expectCounts(mockRepo, 1, 1, 1)
			mockRepo.EXPECT().ListJoinedSales(gomock.Any()).Return([]*repository.SaleJoinRow{tt.row}, nil)
			mockRepo.EXPECT().CountSales(gomock.Any()).Return(1, nil)

			service := NewService(mockRepo)
			rows, err := service.Load(context.Background())
			assert.Nil(t, rows)
			assert.ErrorIs(t, err, tt.expected)

			var sourceErr *SourceError
			require.ErrorAs(t, err, &sourceErr)
			assert.Equal(t, int64(7), sourceErr.SaleID)
		})
	}
}

func TestLoad_ReadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockTransactionRepository(ctrl)
	expectCounts(mockRepo, 1, 1, 1)
	mockRepo.EXPECT().ListJoinedSales(gomock.Any()).Return(nil, errors.New("relation does not exist"))

	service := NewService(mockRepo)
	rows, err := service.Load(context.Background())
	assert.Nil(t, rows)
	assert.ErrorIs(t, err, ErrReadFailed)
}
