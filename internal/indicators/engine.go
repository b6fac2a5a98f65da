// Package indicators computes technical indicator series from daily bars.
// All functions are pure: the same bars and config always produce the
// same series, and no state is carried between calls.
package indicators

import (
	"errors"
	"fmt"
	"math"

	"github.com/chaofengh/stock-price-analyze-Backend/internal/domain/models"
)

// ErrInsufficientData is returned when the bar series is shorter than
// the warm-up requirement. Expected for newly listed symbols.
var ErrInsufficientData = errors.New("insufficient data for indicator warm-up")

// Config holds indicator parameters.
type Config struct {
	BollingerWindow    int
	BollingerNumStdDev float64
	RSIWindow          int
}

// Validate checks the parameters are usable.
func (c Config) Validate() error {
	if c.BollingerWindow < 2 {
		return fmt.Errorf("bollinger window must be >= 2, got %d", c.BollingerWindow)
	}
	if c.BollingerNumStdDev <= 0 {
		return fmt.Errorf("bollinger num std dev must be positive, got %v", c.BollingerNumStdDev)
	}
	if c.RSIWindow < 1 {
		return fmt.Errorf("rsi window must be >= 1, got %d", c.RSIWindow)
	}
	return nil
}

// minBars is the smallest series length Compute accepts for cfg.
func (c Config) minBars() int {
	m := c.BollingerWindow
	if c.RSIWindow > m {
		m = c.RSIWindow
	}
	return m + 1
}

// Compute turns an ordered bar series into an aligned indicator series.
// Entries inside the warm-up window are excluded, not zero-filled: the
// first emitted point is the earliest bar at which both Bollinger bands
// and RSI are defined.
func Compute(bars []models.Bar, cfg Config) (models.IndicatorSeries, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(bars) < cfg.minBars() {
		return nil, fmt.Errorf("%w: have %d bars, need %d", ErrInsufficientData, len(bars), cfg.minBars())
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	rsi := rsiSeries(closes, cfg.RSIWindow)

	// Bollinger defined from index BollingerWindow-1, RSI from index
	// RSIWindow. Emit from the later of the two.
	first := cfg.BollingerWindow - 1
	if cfg.RSIWindow > first {
		first = cfg.RSIWindow
	}

	out := make(models.IndicatorSeries, 0, len(bars)-first)
	for i := first; i < len(bars); i++ {
		mid, sd := meanStdDev(closes[i+1-cfg.BollingerWindow : i+1])
		out = append(out, models.IndicatorPoint{
			Timestamp:  bars[i].Timestamp,
			Close:      closes[i],
			BollMiddle: mid,
			BollUpper:  mid + cfg.BollingerNumStdDev*sd,
			BollLower:  mid - cfg.BollingerNumStdDev*sd,
			RSI:        rsi[i],
		})
	}
	return out, nil
}

// meanStdDev returns the mean and population standard deviation of xs.
// Population (not sample) keeps results reproducible across window sizes.
func meanStdDev(xs []float64) (float64, float64) {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))

	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(xs)))
}

// rsiSeries computes Wilder-smoothed RSI per index. Values before index
// `window` are NaN (undefined). The seed averages come from the simple
// mean of the first `window` changes; subsequent bars use the recursive
// smoothing avg = (avgPrev*(window-1) + current) / window.
func rsiSeries(closes []float64, window int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(closes) <= window {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= window; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(window)
	avgLoss /= float64(window)
	out[window] = rsiValue(avgGain, avgLoss)

	for i := window + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(window-1) + gain) / float64(window)
		avgLoss = (avgLoss*float64(window-1) + loss) / float64(window)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	switch {
	case avgLoss == 0:
		return 100
	case avgGain == 0:
		return 0
	default:
		return 100 - 100/(1+avgGain/avgLoss)
	}
}
