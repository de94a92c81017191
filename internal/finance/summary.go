package finance

import (
	"time"

	"github.com/gestao-facil/gestao-facil/internal/transactions"
)

// Summary aggregates the financial position derived from transactions.
type Summary struct {
	TotalRevenue       float64 `json:"total_revenue"`
	PendingReceivables float64 `json:"pending_receivables"`
	TotalCosts         float64 `json:"total_costs"`
	Profit             float64 `json:"profit"`
	ProfitMargin       float64 `json:"profit_margin"`
}

// Summarize folds the transaction list into a Summary. When start or end are
// non-nil the window is inclusive on both bounds. The function is pure and
// never fails; malformed input simply contributes nothing.
func Summarize(txs []transactions.Transaction, start, end *time.Time) Summary {
	var s Summary
	for _, tx := range txs {
		if start != nil && tx.CreatedAt.Before(*start) {
			continue
		}
		if end != nil && tx.CreatedAt.After(*end) {
			continue
		}
		switch tx.Type {
		case transactions.TypeSale:
			switch tx.PaymentStatus {
			case transactions.PaymentPaid:
				s.TotalRevenue += tx.Total
			case transactions.PaymentPending:
				s.PendingReceivables += tx.Total
			}
		case transactions.TypePurchase:
			s.TotalCosts += tx.Total
		}
	}
	s.Profit = s.TotalRevenue - s.TotalCosts
	if s.TotalRevenue != 0 {
		s.ProfitMargin = s.Profit / s.TotalRevenue * 100
	}
	return s
}
