package menu

import (
	"strconv"
	"strings"
)

// ParseNutritionValue extracts the numeric part of a raw nutrition string,
// e.g. "25.9g" -> 25.9 and "310mg" -> 310. Every character that is not a
// decimal digit or a dot is stripped before parsing. Empty input, input
// without digits, or a remainder that still fails to parse (such as a value
// with two dots) yields 0. The function never fails and is idempotent over
// its own output.
func ParseNutritionValue(raw string) float64 {
	if raw == "" {
		return 0
	}

	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	numeric := b.String()
	if numeric == "" {
		return 0
	}

	value, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return 0
	}
	return value
}

// NormalizedNutrition is a NutritionRecord with the fields the store keeps,
// parsed to numbers. Unparsable source values come through as zero, never as
// an error.
type NormalizedNutrition struct {
	Calories     int
	TotalFat     float64
	Sodium       float64
	TotalCarb    float64
	DietaryFiber float64
	Sugars       float64
	Protein      float64
	ServingSize  string
}

// Normalize converts the raw record into numeric form. A missing serving
// size defaults to "1 serving" so the stored column is never empty.
func (n NutritionRecord) Normalize() NormalizedNutrition {
	servingSize := n.ServingSize
	if servingSize == "" {
		servingSize = "1 serving"
	}

	return NormalizedNutrition{
		Calories:     int(ParseNutritionValue(n.Calories)),
		TotalFat:     ParseNutritionValue(n.TotalFat),
		Sodium:       ParseNutritionValue(n.Sodium),
		TotalCarb:    ParseNutritionValue(n.TotalCarb),
		DietaryFiber: ParseNutritionValue(n.DietaryFiber),
		Sugars:       ParseNutritionValue(n.Sugars),
		Protein:      ParseNutritionValue(n.Protein),
		ServingSize:  servingSize,
	}
}
