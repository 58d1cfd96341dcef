package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// RevenueSource tags where a revenue record came from.
type RevenueSource string

const (
	SourcePointOfSale      RevenueSource = "point-of-sale"
	SourceRecurringService RevenueSource = "recurring-service"
	SourceComboService     RevenueSource = "combo-service"
	SourcePurchase         RevenueSource = "purchase"
)

// RevenueKind separates income from expenditure.
type RevenueKind string

const (
	KindIncome      RevenueKind = "income"
	KindExpenditure RevenueKind = "expenditure"
)

// Kind returns whether the source contributes income or expenditure.
func (s RevenueSource) Kind() RevenueKind {
	if s == SourcePurchase {
		return KindExpenditure
	}
	return KindIncome
}

// ServiceType is the product line of a subscriber.
type ServiceType string

const (
	ServiceDishHome ServiceType = "dishhome"
	ServiceFibernet ServiceType = "fibernet"
	ServiceCombo    ServiceType = "combo"
)

// SaleLine is one line of a point-of-sale transaction.
type SaleLine struct {
	TransactionDate time.Time
	ID              string
	InvoiceID       string
	Customer        string
	Product         string
	Quantity        int64
	LineTotal       decimal.Decimal
}

// Subscriber is a customer holding a recurring service.
type Subscriber struct {
	StartedAt     time.Time
	ID            string
	Name          string
	Service       ServiceType
	Package       string
	MonthlyCharge decimal.Decimal
	Active        bool
}

// Purchase is a stock purchase, counted as expenditure.
type Purchase struct {
	PurchaseDate time.Time
	ID           string
	Supplier     string
	Product      string
	Quantity     int64
	TotalCost    decimal.Decimal
}

// RevenueRecord is the normalized shape all day-book sources are mapped to.
type RevenueRecord struct {
	Date     time.Time
	Metadata map[string]string
	Source   RevenueSource
	Kind     RevenueKind
	Amount   decimal.Decimal
}

// DayBookSources bundles the raw inputs of the aggregator.
type DayBookSources struct {
	Sales       []SaleLine
	Subscribers []Subscriber
	Purchases   []Purchase
}

// DayBook is the aggregated income/expenditure report for a period.
type DayBook struct {
	Period           *Period
	BySource         map[RevenueSource]decimal.Decimal
	Records          []RevenueRecord
	TotalIncome      decimal.Decimal
	TotalExpenditure decimal.Decimal
	NetProfitLoss    decimal.Decimal
}

// EmptyDayBook returns a zeroed day book for period.
func EmptyDayBook(period *Period) DayBook {
	return DayBook{
		Period:           period,
		BySource:         map[RevenueSource]decimal.Decimal{},
		Records:          []RevenueRecord{},
		TotalIncome:      decimal.Zero,
		TotalExpenditure: decimal.Zero,
		NetProfitLoss:    decimal.Zero,
	}
}

// Aggregate merges sales, subscriptions and purchases into a day book.
//
// Sales and purchases are restricted to period. Active subscribers are always
// counted as current monthly recurring revenue dated at now, whatever the
// period. The sources are read only.
func Aggregate(sources DayBookSources, period *Period, now time.Time) DayBook {
	book := EmptyDayBook(period)

	for _, r := range saleRecords(sources.Sales, period) {
		book.add(r)
	}
	for _, r := range subscriptionRecords(sources.Subscribers, now) {
		book.add(r)
	}
	for _, r := range purchaseRecords(sources.Purchases, period) {
		book.add(r)
	}

	book.NetProfitLoss = book.TotalIncome.Sub(book.TotalExpenditure)

	return book
}

func (b *DayBook) add(r RevenueRecord) {
	b.Records = append(b.Records, r)
	b.BySource[r.Source] = b.BySource[r.Source].Add(r.Amount)

	if r.Kind == KindExpenditure {
		b.TotalExpenditure = b.TotalExpenditure.Add(r.Amount)
	} else {
		b.TotalIncome = b.TotalIncome.Add(r.Amount)
	}
}

type saleKey struct {
	invoice  string
	customer string
}

// saleRecords groups the in-period lines by invoice and customer so that a
// multi-line transaction counts once.
func saleRecords(lines []SaleLine, period *Period) []RevenueRecord {
	inPeriod := FilterByPeriod(lines, func(l SaleLine) time.Time { return l.TransactionDate }, period)

	index := make(map[saleKey]int)
	var records []RevenueRecord
	var lineCounts []int

	for _, l := range inPeriod {
		key := saleKey{invoice: l.InvoiceID, customer: l.Customer}
		i, ok := index[key]
		if !ok {
			index[key] = len(records)
			records = append(records, RevenueRecord{
				Date:   l.TransactionDate,
				Source: SourcePointOfSale,
				Kind:   KindIncome,
				Amount: l.LineTotal,
				Metadata: map[string]string{
					"invoice_id": l.InvoiceID,
					"customer":   l.Customer,
					"lines":      "1",
				},
			})
			lineCounts = append(lineCounts, 1)
			continue
		}

		rec := &records[i]
		rec.Amount = rec.Amount.Add(l.LineTotal)
		lineCounts[i]++
		rec.Metadata["lines"] = strconv.Itoa(lineCounts[i])
		if l.TransactionDate.Before(rec.Date) {
			rec.Date = l.TransactionDate
		}
	}

	return records
}

func subscriptionRecords(subscribers []Subscriber, now time.Time) []RevenueRecord {
	var records []RevenueRecord

	for _, s := range subscribers {
		if !s.Active {
			continue
		}

		source := SourceRecurringService
		if s.Service == ServiceCombo {
			source = SourceComboService
		}

		records = append(records, RevenueRecord{
			Date:   now,
			Source: source,
			Kind:   KindIncome,
			Amount: s.MonthlyCharge,
			Metadata: map[string]string{
				"subscriber_id": s.ID,
				"customer":      s.Name,
				"service":       string(s.Service),
				"package":       s.Package,
			},
		})
	}

	return records
}

func purchaseRecords(purchases []Purchase, period *Period) []RevenueRecord {
	inPeriod := FilterByPeriod(purchases, func(p Purchase) time.Time { return p.PurchaseDate }, period)

	records := make([]RevenueRecord, 0, len(inPeriod))
	for _, p := range inPeriod {
		records = append(records, RevenueRecord{
			Date:   p.PurchaseDate,
			Source: SourcePurchase,
			Kind:   KindExpenditure,
			Amount: p.TotalCost,
			Metadata: map[string]string{
				"purchase_id": p.ID,
				"supplier":    p.Supplier,
				"product":     p.Product,
			},
		})
	}

	return records
}
