package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
)

// RenderCSV renders a report as a CSV document with summary, holdings
// and transactions sections.
func (s *Service) RenderCSV(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"CRYPTO PORTFOLIO REPORT"},
		{"Portfolio", report.Portfolio.Name},
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		{},
		{"=== SUMMARY ==="},
		{"Total Invested", dollars(report.Summary.TotalInvested)},
		{"Current Value", dollars(report.Summary.CurrentValue)},
		{"Unrealized P&L", dollars(report.Summary.UnrealizedPL)},
		{"Realized P&L", dollars(report.Summary.RealizedPL)},
		{"Total P&L", fmt.Sprintf("%s (%s%%)", dollars(report.Summary.TotalPL), report.Summary.TotalPLPercent.StringFixed(2))},
		{},
		{"=== HOLDINGS ==="},
		{"Symbol", "Name", "Quantity", "Buy Price", "Current Price", "Invested", "Current Value", "P&L", "P&L %"},
	}

	for _, h := range report.Holdings {
		rows = append(rows, []string{
			h.Symbol,
			h.Name,
			h.Quantity.String(),
			dollars(h.BuyPrice),
			dollars(h.CurrentPrice),
			dollars(h.InvestedAmount),
			dollars(h.CurrentValue),
			dollars(h.ProfitLoss),
			h.ProfitLossPercentage.StringFixed(2) + "%",
		})
	}

	if len(report.Transactions) > 0 {
		rows = append(rows,
			[]string{},
			[]string{"=== TRANSACTIONS ==="},
			[]string{"Date", "Type", "Symbol", "Quantity", "Price", "Value", "Realized P&L"},
		)
		for _, t := range report.Transactions {
			realized := "-"
			if t.Type == entities.TransactionTypeSell {
				realized = dollars(t.RealizedPL)
			}
			rows = append(rows, []string{
				t.TransactionDate.Format("2006-01-02"),
				string(t.Type),
				t.Symbol,
				t.Quantity.String(),
				dollars(t.Price),
				dollars(t.TotalValue),
				realized,
			})
		}
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}
