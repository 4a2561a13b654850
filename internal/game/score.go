// internal/game/score.go
//
// Similarity scoring between a target color and a guess.
//
// Algorithm:
//   - Euclidean distance in RGB space: d = sqrt(Δr² + Δg² + Δb²).
//   - Normalized against the black↔white distance sqrt(3·255²) ≈ 441.673.
//   - Similarity = 100·(1 − d/maxD), rounded to one decimal place.
//
// Rounding is half-up (half away from zero) on the shortest decimal
// representation of the raw value, via shopspring/decimal.

package game

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/robalobadob/colormatch/internal/color"
)

// Score is a similarity percentage in [0,100] with one decimal place.
type Score float64

const (
	MinScore Score = 0
	MaxScore Score = 100
)

// maxDistance is the distance between pure black and pure white.
var maxDistance = math.Sqrt(3 * color.MaxComponent * color.MaxComponent)

// Similarity scores how close guess is to target. It is symmetric and total.
func Similarity(target, guess color.RGB) Score {
	d := distance(target, guess)
	return RoundScore(100 * (1 - d/maxDistance))
}

// distance is the Euclidean distance between two colors in RGB space.
func distance(a, b color.RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// RoundScore rounds to one decimal place (half-up) and pins the result into [0,100].
func RoundScore(v float64) Score {
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	switch {
	case f < float64(MinScore):
		return MinScore
	case f > float64(MaxScore):
		return MaxScore
	}
	return Score(f)
}

// String formats the score as a percentage with one decimal ("87.3%").
func (s Score) String() string {
	return decimal.NewFromFloat(float64(s)).StringFixed(1) + "%"
}

// Band is the qualitative tier a score falls into.
type Band string

const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandFair      Band = "fair"
	BandPoor      Band = "poor"
)

// Band thresholds are inclusive lower bounds.
const (
	excellentFrom Score = 95
	goodFrom      Score = 80
	fairFrom      Score = 60
)

// Band maps the score onto its message tier.
func (s Score) Band() Band {
	switch {
	case s >= excellentFrom:
		return BandExcellent
	case s >= goodFrom:
		return BandGood
	case s >= fairFrom:
		return BandFair
	default:
		return BandPoor
	}
}

// Message is the player-facing headline for the band.
func (b Band) Message() string {
	switch b {
	case BandExcellent:
		return "Excellent!"
	case BandGood:
		return "Nice one!"
	case BandFair:
		return "Almost there!"
	default:
		return "Keep trying!"
	}
}
