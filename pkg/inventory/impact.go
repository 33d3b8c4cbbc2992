package inventory

import (
	"strings"
)

// Conversion factors for translating consumed quantities into impact numbers.
const (
	lbsPerKg = 2.20462
	lbsPerG  = 0.00220462
	ozPerLb  = 16.0

	kgPerLb         = 0.453592
	co2FactorPerKg  = 3.3
	usdPerLbAverage = 3.0

	defaultLbsPerPiece = 0.5
)

// lbsPerPieceByKeyword maps item-name keywords to a typical per-piece weight
// for items tracked in counts or volumes rather than weight units. Entries
// are matched in order; the first keyword found in the name wins.
var lbsPerPieceByKeyword = []struct {
	keyword string
	lbs     float64
}{
	{"yogurt", 0.4},
	{"avocado", 0.4},
	{"spinach", 0.3},
}

type Impact struct {
	FoodSavedLbs   float64
	CO2PreventedKg float64
	MoneySavedUSD  float64
}

// EstimateImpact converts a consumed quantity into pounds of food saved and
// the derived CO2 and dollar figures.
func EstimateImpact(name string, quantity float64, baseUnit string) Impact {
	lbs := quantityToLbs(name, quantity, baseUnit)
	return Impact{
		FoodSavedLbs:   lbs,
		CO2PreventedKg: lbs * kgPerLb * co2FactorPerKg,
		MoneySavedUSD:  lbs * usdPerLbAverage,
	}
}

func quantityToLbs(name string, quantity float64, baseUnit string) float64 {
	switch baseUnit {
	case "kg":
		return quantity * lbsPerKg
	case "g":
		return quantity * lbsPerG
	case "oz":
		return quantity / ozPerLb
	case "lb":
		return quantity
	}

	// Volumes and counts fall back to a per-piece weight keyed off the name.
	perPiece := defaultLbsPerPiece
	lower := strings.ToLower(name)
	for _, entry := range lbsPerPieceByKeyword {
		if strings.Contains(lower, entry.keyword) {
			perPiece = entry.lbs
			break
		}
	}
	return quantity * perPiece
}
