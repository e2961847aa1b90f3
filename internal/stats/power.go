package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/emiliopalmerini/enrollwatch/internal/domain"
)

const (
	// DefaultAlpha is the significance level for power calculations.
	DefaultAlpha = 0.05
	// DefaultPower is the target statistical power.
	DefaultPower = 0.8
)

// RequiredSampleSize returns the total number of observations across both
// experiment arms needed to detect a Cohen's-w effect size with a chi-square
// goodness-of-fit test (two bins, one degree of freedom) at the given alpha
// and power. The per-group minimum is rounded up, then doubled, since each
// arm must independently meet it. For a fixed (alpha, power) pair the result
// is deterministic and non-increasing as the effect size grows.
func RequiredSampleSize(effectSize, alpha, power float64) (int, error) {
	if effectSize <= 0 {
		return 0, domain.ErrInvalidEffectSize
	}

	crit := distuv.ChiSquared{K: 1}.Quantile(1 - alpha)
	lambda := solveNoncentrality(crit, power)

	perGroup := int(math.Ceil(lambda / (effectSize * effectSize)))
	return 2 * perGroup, nil
}

// gofPower is the power of the one-degree-of-freedom chi-square test at
// noncentrality lambda. A noncentral chi-square with one degree of freedom is
// the square of a unit normal shifted by sqrt(lambda), which gives the tail
// probability in closed form through the normal CDF.
func gofPower(crit, lambda float64) float64 {
	root := math.Sqrt(crit)
	shift := math.Sqrt(lambda)
	return distuv.UnitNormal.CDF(shift-root) + distuv.UnitNormal.CDF(-shift-root)
}

// solveNoncentrality inverts gofPower by bisection. Power is strictly
// increasing in lambda, so the bracket always converges.
func solveNoncentrality(crit, power float64) float64 {
	hi := 1.0
	for gofPower(crit, hi) < power {
		hi *= 2
	}

	lo := 0.0
	for hi-lo > 1e-10 {
		mid := (lo + hi) / 2
		if gofPower(crit, mid) < power {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
