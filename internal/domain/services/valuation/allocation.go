package valuation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
)

// AggregateAllocation groups per-lot values by coin, sums lots of the
// same coin, and computes each coin's percentage share of the grand
// total, sorted by value descending. Coins tie-break by first
// appearance. A zero grand total yields all-zero percentages.
func AggregateAllocation(entries []entities.AllocationEntry) []entities.AllocationEntry {
	if len(entries) == 0 {
		return []entities.AllocationEntry{}
	}

	index := make(map[string]int, len(entries))
	grouped := make([]entities.AllocationEntry, 0, len(entries))
	total := decimal.Zero

	for _, e := range entries {
		total = total.Add(e.Value)
		if i, ok := index[e.CoinID]; ok {
			grouped[i].Value = grouped[i].Value.Add(e.Value)
			continue
		}
		index[e.CoinID] = len(grouped)
		grouped = append(grouped, entities.AllocationEntry{
			CoinID: e.CoinID,
			Symbol: e.Symbol,
			Name:   e.Name,
			Value:  e.Value,
		})
	}

	if total.IsPositive() {
		for i := range grouped {
			grouped[i].Percentage = grouped[i].Value.Div(total).Mul(oneHundred)
		}
	}

	sort.SliceStable(grouped, func(i, j int) bool {
		return grouped[i].Value.GreaterThan(grouped[j].Value)
	})

	return grouped
}
