package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type LedgerEntry struct {
	ID          string             `json:"id"`
	EntryDate   pgtype.Date        `json:"entry_date"`
	Particulars string             `json:"particulars"`
	DrAmount    pgtype.Numeric     `json:"dr_amount"`
	CrAmount    pgtype.Numeric     `json:"cr_amount"`
	Balance     pgtype.Numeric     `json:"balance"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

type Purchase struct {
	ID           string             `json:"id"`
	SupplierName string             `json:"supplier_name"`
	ProductName  string             `json:"product_name"`
	Quantity     int64              `json:"quantity"`
	TotalCost    pgtype.Numeric     `json:"total_cost"`
	PurchaseDate pgtype.Timestamptz `json:"purchase_date"`
}

type Subscriber struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	ServiceType   string             `json:"service_type"`
	PackageName   string             `json:"package_name"`
	MonthlyCharge pgtype.Numeric     `json:"monthly_charge"`
	Active        bool               `json:"active"`
	StartedAt     pgtype.Timestamptz `json:"started_at"`
}
