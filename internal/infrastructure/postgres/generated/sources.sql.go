package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const listPurchases = `-- name: ListPurchases :many
SELECT id, supplier_name, product_name, quantity, total_cost, purchase_date
FROM purchases
WHERE ($1::TIMESTAMPTZ IS NULL OR purchase_date >= $1)
  AND ($2::TIMESTAMPTZ IS NULL OR purchase_date < $2)
ORDER BY purchase_date, id
`

type ListPurchasesParams struct {
	FromDate pgtype.Timestamptz `json:"from_date"`
	ToDate   pgtype.Timestamptz `json:"to_date"`
}

func (q *Queries) ListPurchases(ctx context.Context, arg ListPurchasesParams) ([]Purchase, error) {
	rows, err := q.db.Query(ctx, listPurchases, arg.FromDate, arg.ToDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Purchase
	for rows.Next() {
		var i Purchase
		if err := rows.Scan(
			&i.ID,
			&i.SupplierName,
			&i.ProductName,
			&i.Quantity,
			&i.TotalCost,
			&i.PurchaseDate,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listSaleLines = `-- name: ListSaleLines :many
SELECT
    i.id,
    t.invoice_number,
    t.customer_name,
    i.product_name,
    i.quantity,
    i.line_total,
    t.transaction_date
FROM sales_transaction_items i
JOIN sales_transactions t ON t.id = i.transaction_id
WHERE ($1::TIMESTAMPTZ IS NULL OR t.transaction_date >= $1)
  AND ($2::TIMESTAMPTZ IS NULL OR t.transaction_date < $2)
ORDER BY t.transaction_date, i.id
`

type ListSaleLinesParams struct {
	FromDate pgtype.Timestamptz `json:"from_date"`
	ToDate   pgtype.Timestamptz `json:"to_date"`
}

type ListSaleLinesRow struct {
	ID              string             `json:"id"`
	InvoiceNumber   string             `json:"invoice_number"`
	CustomerName    string             `json:"customer_name"`
	ProductName     string             `json:"product_name"`
	Quantity        int64              `json:"quantity"`
	LineTotal       pgtype.Numeric     `json:"line_total"`
	TransactionDate pgtype.Timestamptz `json:"transaction_date"`
}

func (q *Queries) ListSaleLines(ctx context.Context, arg ListSaleLinesParams) ([]ListSaleLinesRow, error) {
	rows, err := q.db.Query(ctx, listSaleLines, arg.FromDate, arg.ToDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListSaleLinesRow
	for rows.Next() {
		var i ListSaleLinesRow
		if err := rows.Scan(
			&i.ID,
			&i.InvoiceNumber,
			&i.CustomerName,
			&i.ProductName,
			&i.Quantity,
			&i.LineTotal,
			&i.TransactionDate,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listSubscribers = `-- name: ListSubscribers :many
SELECT id, name, service_type, package_name, monthly_charge, active, started_at
FROM subscribers
ORDER BY id
`

func (q *Queries) ListSubscribers(ctx context.Context) ([]Subscriber, error) {
	rows, err := q.db.Query(ctx, listSubscribers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Subscriber
	for rows.Next() {
		var i Subscriber
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.ServiceType,
			&i.PackageName,
			&i.MonthlyCharge,
			&i.Active,
			&i.StartedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
