package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/daybook/internal/domain"
	"github.com/iho/daybook/internal/infrastructure/postgres/generated"
)

// RevenueSources reads point-of-sale lines, subscribers and purchases.
// It implements usecase.SalesSource, usecase.SubscriberSource and
// usecase.PurchaseSource.
type RevenueSources struct {
	queries *generated.Queries
}

// NewRevenueSources creates a new RevenueSources.
func NewRevenueSources(pool *pgxpool.Pool) *RevenueSources {
	return &RevenueSources{queries: generated.New(pool)}
}

// ListSaleLines returns sale lines whose transaction falls inside period.
func (r *RevenueSources) ListSaleLines(ctx context.Context, period *domain.Period) ([]domain.SaleLine, error) {
	from, to := periodBounds(period)

	rows, err := r.queries.ListSaleLines(ctx, generated.ListSaleLinesParams{FromDate: from, ToDate: to})
	if err != nil {
		return nil, err
	}

	lines := make([]domain.SaleLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, domain.SaleLine{
			ID:              row.ID,
			InvoiceID:       row.InvoiceNumber,
			Customer:        row.CustomerName,
			Product:         row.ProductName,
			Quantity:        row.Quantity,
			LineTotal:       numericToDecimal(row.LineTotal),
			TransactionDate: row.TransactionDate.Time,
		})
	}

	return lines, nil
}

// ListSubscribers returns all subscribers, active or not.
func (r *RevenueSources) ListSubscribers(ctx context.Context) ([]domain.Subscriber, error) {
	rows, err := r.queries.ListSubscribers(ctx)
	if err != nil {
		return nil, err
	}

	subscribers := make([]domain.Subscriber, 0, len(rows))
	for _, row := range rows {
		subscribers = append(subscribers, domain.Subscriber{
			ID:            row.ID,
			Name:          row.Name,
			Service:       domain.ServiceType(row.ServiceType),
			Package:       row.PackageName,
			MonthlyCharge: numericToDecimal(row.MonthlyCharge),
			Active:        row.Active,
			StartedAt:     row.StartedAt.Time,
		})
	}

	return subscribers, nil
}

// ListPurchases returns purchases made inside period.
func (r *RevenueSources) ListPurchases(ctx context.Context, period *domain.Period) ([]domain.Purchase, error) {
	from, to := periodBounds(period)

	rows, err := r.queries.ListPurchases(ctx, generated.ListPurchasesParams{FromDate: from, ToDate: to})
	if err != nil {
		return nil, err
	}

	purchases := make([]domain.Purchase, 0, len(rows))
	for _, row := range rows {
		purchases = append(purchases, domain.Purchase{
			ID:           row.ID,
			Supplier:     row.SupplierName,
			Product:      row.ProductName,
			Quantity:     row.Quantity,
			TotalCost:    numericToDecimal(row.TotalCost),
			PurchaseDate: row.PurchaseDate.Time,
		})
	}

	return purchases, nil
}

func periodBounds(period *domain.Period) (from, to pgtype.Timestamptz) {
	if period == nil {
		return optionalTimestamptz(nil), optionalTimestamptz(nil)
	}
	return optionalTimestamptz(&period.Start), optionalTimestamptz(&period.End)
}
