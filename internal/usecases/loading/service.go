// Package loading obtains the joined transaction row set from the relational
// source and normalizes it for aggregation.
package loading

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/sales-analytics-api/infrastructure/repository"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/pkg/utils"
)

type Loader interface {
	Load(ctx context.Context) ([]domain.TransactionRow, error)
}

type Service struct {
	transactionRepo repository.TransactionRepository
}

func NewService(transactionRepo repository.TransactionRepository) Loader {
	return &Service{
		transactionRepo: transactionRepo,
	}
}

// Load reads the sales/products/clients join and normalizes every row.
// The join is strict: a sale whose product or client is missing fails the
// whole load, there is no best-effort subset.
func (s *Service) Load(ctx context.Context) ([]domain.TransactionRow, error) {
	if err := s.checkRequiredTables(ctx); err != nil {
		return nil, err
	}

	joined, err := s.transactionRepo.ListJoinedSales(ctx)
	if err != nil {
		return nil, NewSourceError(ErrReadFailed, err.Error())
	}

	saleCount, err := s.transactionRepo.CountSales(ctx)
	if err != nil {
		return nil, NewSourceError(ErrReadFailed, err.Error())
	}

	// An inner join silently drops sales with dangling references, so a
	// count mismatch is how referential breakage surfaces.
	if len(joined) != saleCount {
		return nil, NewSourceError(
			ErrJoinIntegrity,
			fmt.Sprintf("%d sales in the table, %d rows after the join", saleCount, len(joined)),
		)
	}

	rows := make([]domain.TransactionRow, 0, len(joined))
	for _, raw := range joined {
		row, err := normalizeRow(raw)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	logrus.WithFields(logrus.Fields{
		"rows": len(rows),
	}).Debug("transaction rows loaded and normalized")

	return rows, nil
}

func (s *Service) checkRequiredTables(ctx context.Context) error {
	checks := []struct {
		count func(context.Context) (int, error)
		empty error
	}{
		{s.transactionRepo.CountProducts, ErrNoProducts},
		{s.transactionRepo.CountClients, ErrNoClients},
		{s.transactionRepo.CountSales, ErrNoSales},
	}

	for _, check := range checks {
		count, err := check.count(ctx)
		if err != nil {
			return NewSourceError(ErrReadFailed, errors.Wrap(err, "counting required table").Error())
		}
		if count == 0 {
			return NewSourceError(check.empty, "")
		}
	}

	return nil
}

// normalizeRow turns one wire row into a TransactionRow: calendar date,
// derived month key, and exact decimal money fields. Invariants (amount >= 0,
// quantity >= 1) are enforced here so the aggregation engine never sees a
// malformed row.
func normalizeRow(raw *repository.SaleJoinRow) (domain.TransactionRow, error) {
	var row domain.TransactionRow

	if raw.ProductName == "" || raw.Category == "" {
		return row, NewSourceErrorForSale(ErrMissingField, raw.SaleID, "product_name and category are required")
	}
	if raw.CustomerName == "" {
		return row, NewSourceErrorForSale(ErrMissingField, raw.SaleID, "customer_name is required")
	}

	saleDate, err := time.Parse(time.DateOnly, raw.SaleDate)
	if err != nil {
		return row, NewSourceErrorForSale(ErrInvalidDate, raw.SaleID, raw.SaleDate)
	}

	amount, err := decimal.NewFromString(raw.Amount)
	if err != nil || amount.IsNegative() {
		return row, NewSourceErrorForSale(ErrInvalidAmount, raw.SaleID, raw.Amount)
	}

	unitPrice, err := decimal.NewFromString(raw.UnitPrice)
	if err != nil || unitPrice.IsNegative() {
		return row, NewSourceErrorForSale(ErrInvalidUnitPrice, raw.SaleID, raw.UnitPrice)
	}

	if raw.Quantity < 1 {
		return row, NewSourceErrorForSale(ErrInvalidQuantity, raw.SaleID, fmt.Sprintf("quantity=%d", raw.Quantity))
	}

	row = domain.TransactionRow{
		SaleID:       raw.SaleID,
		SaleDate:     saleDate,
		ProductName:  raw.ProductName,
		Category:     raw.Category,
		UnitPrice:    unitPrice,
		CustomerName: raw.CustomerName,
		Quantity:     raw.Quantity,
		Amount:       amount,
		MonthKey:     utils.MonthKey(saleDate),
	}

	if raw.City.Valid {
		row.City = raw.City.String
	}

	return row, nil
}
