package pdf

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/divan/num2words"
)

// DefaultRevenueShare - доля создателя в процентах, если настройка не задана или некорректна.
const DefaultRevenueShare = 70

// RevenueShare вычисляет долю создателя. expr - число или выражение govaluate
// над переменной platforms (количество площадок), например
// "platforms >= 3 ? 75 : 70".
func RevenueShare(expr string, platforms int) (int, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return DefaultRevenueShare, nil
	}
	if v, err := strconv.ParseFloat(expr, 64); err == nil {
		return clampShare(v)
	}

	expression, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return DefaultRevenueShare, fmt.Errorf("invalid revenue share expression %q: %w", expr, err)
	}
	result, err := expression.Evaluate(map[string]interface{}{
		"platforms": float64(platforms),
	})
	if err != nil {
		return DefaultRevenueShare, fmt.Errorf("could not evaluate revenue share: %w", err)
	}
	v, ok := result.(float64)
	if !ok {
		return DefaultRevenueShare, fmt.Errorf("revenue share expression returned %T, not a number", result)
	}
	return clampShare(v)
}

func clampShare(v float64) (int, error) {
	if math.IsNaN(v) || v < 0 || v > 100 {
		return DefaultRevenueShare, fmt.Errorf("revenue share %v is out of range 0..100", v)
	}
	return int(math.Round(v)), nil
}

// shareInWords - число прописью для английского текста.
func shareInWords(share int) string {
	return num2words.Convert(share)
}
