package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const deleteLedgerEntry = `-- name: DeleteLedgerEntry :one
DELETE FROM ledger_entries WHERE id = $1
RETURNING id, entry_date, particulars, dr_amount, cr_amount, balance, created_at
`

func (q *Queries) DeleteLedgerEntry(ctx context.Context, id string) (LedgerEntry, error) {
	row := q.db.QueryRow(ctx, deleteLedgerEntry, id)
	var i LedgerEntry
	err := row.Scan(
		&i.ID,
		&i.EntryDate,
		&i.Particulars,
		&i.DrAmount,
		&i.CrAmount,
		&i.Balance,
		&i.CreatedAt,
	)
	return i, err
}

const getLedgerTotals = `-- name: GetLedgerTotals :one
SELECT
    COUNT(*)::BIGINT AS total_entries,
    COALESCE(SUM(dr_amount), 0)::NUMERIC AS total_dr,
    COALESCE(SUM(cr_amount), 0)::NUMERIC AS total_cr,
    COALESCE(
        (SELECT balance FROM ledger_entries ORDER BY entry_date DESC, id DESC LIMIT 1),
        0
    )::NUMERIC AS current_balance
FROM ledger_entries
`

type GetLedgerTotalsRow struct {
	TotalEntries   int64          `json:"total_entries"`
	TotalDr        pgtype.Numeric `json:"total_dr"`
	TotalCr        pgtype.Numeric `json:"total_cr"`
	CurrentBalance pgtype.Numeric `json:"current_balance"`
}

func (q *Queries) GetLedgerTotals(ctx context.Context) (GetLedgerTotalsRow, error) {
	row := q.db.QueryRow(ctx, getLedgerTotals)
	var i GetLedgerTotalsRow
	err := row.Scan(
		&i.TotalEntries,
		&i.TotalDr,
		&i.TotalCr,
		&i.CurrentBalance,
	)
	return i, err
}

const getPrecedingBalance = `-- name: GetPrecedingBalance :one
SELECT COALESCE(
    (SELECT balance FROM ledger_entries
     WHERE (entry_date, id) < ($1::DATE, $2::TEXT)
     ORDER BY entry_date DESC, id DESC LIMIT 1),
    0
)::NUMERIC AS balance
`

type GetPrecedingBalanceParams struct {
	EntryDate pgtype.Date `json:"entry_date"`
	ID        string      `json:"id"`
}

func (q *Queries) GetPrecedingBalance(ctx context.Context, arg GetPrecedingBalanceParams) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, getPrecedingBalance, arg.EntryDate, arg.ID)
	var balance pgtype.Numeric
	err := row.Scan(&balance)
	return balance, err
}

const insertLedgerEntry = `-- name: InsertLedgerEntry :one
INSERT INTO ledger_entries (id, entry_date, particulars, dr_amount, cr_amount, balance, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, entry_date, particulars, dr_amount, cr_amount, balance, created_at
`

type InsertLedgerEntryParams struct {
	ID          string             `json:"id"`
	EntryDate   pgtype.Date        `json:"entry_date"`
	Particulars string             `json:"particulars"`
	DrAmount    pgtype.Numeric     `json:"dr_amount"`
	CrAmount    pgtype.Numeric     `json:"cr_amount"`
	Balance     pgtype.Numeric     `json:"balance"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) InsertLedgerEntry(ctx context.Context, arg InsertLedgerEntryParams) (LedgerEntry, error) {
	row := q.db.QueryRow(ctx, insertLedgerEntry,
		arg.ID,
		arg.EntryDate,
		arg.Particulars,
		arg.DrAmount,
		arg.CrAmount,
		arg.Balance,
		arg.CreatedAt,
	)
	var i LedgerEntry
	err := row.Scan(
		&i.ID,
		&i.EntryDate,
		&i.Particulars,
		&i.DrAmount,
		&i.CrAmount,
		&i.Balance,
		&i.CreatedAt,
	)
	return i, err
}

const listLedgerEntries = `-- name: ListLedgerEntries :many
SELECT id, entry_date, particulars, dr_amount, cr_amount, balance, created_at
FROM ledger_entries
ORDER BY entry_date, id
`

func (q *Queries) ListLedgerEntries(ctx context.Context) ([]LedgerEntry, error) {
	rows, err := q.db.Query(ctx, listLedgerEntries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LedgerEntry
	for rows.Next() {
		var i LedgerEntry
		if err := rows.Scan(
			&i.ID,
			&i.EntryDate,
			&i.Particulars,
			&i.DrAmount,
			&i.CrAmount,
			&i.Balance,
			&i.CreatedAt,
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

const lockLedger = `-- name: LockLedger :exec
SELECT pg_advisory_xact_lock($1)
`

func (q *Queries) LockLedger(ctx context.Context, key int64) error {
	_, err := q.db.Exec(ctx, lockLedger, key)
	return err
}

const shiftBalancesAfter = `-- name: ShiftBalancesAfter :execrows
UPDATE ledger_entries
SET balance = balance + $3
WHERE (entry_date, id) > ($1::DATE, $2::TEXT)
`

type ShiftBalancesAfterParams struct {
	EntryDate pgtype.Date    `json:"entry_date"`
	ID        string         `json:"id"`
	Delta     pgtype.Numeric `json:"delta"`
}

func (q *Queries) ShiftBalancesAfter(ctx context.Context, arg ShiftBalancesAfterParams) (int64, error) {
	result, err := q.db.Exec(ctx, shiftBalancesAfter, arg.EntryDate, arg.ID, arg.Delta)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
