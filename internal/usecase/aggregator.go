package usecase

import (
	"math"
	"strings"

	"NavPull/internal/domain/models"
)

// PrivateMarker flags private-placement symbols that have no public quote.
// They stay in the holding lists but are never sent to the price provider.
const PrivateMarker = "_PVT"

// ComputeFundResult folds one fund's holdings against the price book.
// A holding with no known change contributes zero and is excluded from the
// tracked weight. Duplicate symbols are not deduplicated; their impacts sum.
func ComputeFundResult(name string, holdings []models.Holding, book *models.PriceBook) models.FundResult {
	var move, tracked float64
	details := make([]models.HoldingDetail, 0, len(holdings))

	for _, h := range holdings {
		var chg *float64
		var src string
		if p, ok := book.Lookup(h.Symbol); ok {
			chg = p.ChangePercent
			src = p.Source
		}

		if chg != nil {
			move += (*chg * h.Weight) / 100
			tracked += h.Weight
		}

		details = append(details, models.HoldingDetail{
			Symbol: h.Symbol,
			Weight: h.Weight,
			Change: chg,
			Source: src,
		})
	}

	status := models.StatusUp
	if move < 0 {
		status = models.StatusDown
	}

	return models.FundResult{
		Name:          name,
		ImpliedMove:   round(move, 3),
		TrackedWeight: round(tracked, 1),
		Status:        status,
		Holdings:      details,
		RawMove:       move,
	}
}

// ComputeAll aggregates every fund in the set, preserving display order.
func ComputeAll(funds *models.FundSet, book *models.PriceBook) []models.FundResult {
	results := make([]models.FundResult, 0, funds.Len())
	for _, name := range funds.Names {
		results = append(results, ComputeFundResult(name, funds.Holdings[name], book))
	}
	return results
}

// CollectSymbols returns the unique fetchable symbols across all funds.
func CollectSymbols(funds *models.FundSet) []string {
	seen := make(map[string]struct{})
	symbols := make([]string, 0)
	for _, name := range funds.Names {
		for _, h := range funds.Holdings[name] {
			if strings.Contains(h.Symbol, PrivateMarker) {
				continue
			}
			if _, ok := seen[h.Symbol]; ok {
				continue
			}
			seen[h.Symbol] = struct{}{}
			symbols = append(symbols, h.Symbol)
		}
	}
	return symbols
}

func round(v float64, places int) float64 {
	f := math.Pow10(places)
	return math.Round(v*f) / f
}
