package workout

import "sort"

// Metric selects how a day's logged sets collapse into one chart value.
type Metric string

const (
	// MetricMaxWeight charts the heaviest weight lifted per day.
	MetricMaxWeight Metric = "weight"
	// MetricVolume charts total tonnage per day: sum of reps * kg.
	MetricVolume Metric = "volume"
)

// ValidMetric reports whether m names a known chart metric.
func ValidMetric(m Metric) bool {
	return m == MetricMaxWeight || m == MetricVolume
}

// Point is one chart data point.
type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// ChartPoints collapses a global history into chronological chart points for
// the given metric. Days whose value comes out non-positive (nothing
// meaningful logged) are dropped.
func ChartPoints(history []HistoryEntry, metric Metric) []Point {
	points := make([]Point, 0, len(history))
	for _, h := range history {
		var value float64
		switch metric {
		case MetricVolume:
			value = h.Data.Tonnage()
		default:
			value = h.Data.MaxWeight()
		}
		if value <= 0 {
			continue
		}
		points = append(points, Point{Date: h.Date, Value: value})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// Progression returns the percentage change from the first point to the
// last. ok is false when there are fewer than two points or the first value
// is zero — there is no meaningful baseline to compare against, and callers
// must not render a percentage.
func Progression(points []Point) (pct float64, ok bool) {
	if len(points) < 2 {
		return 0, false
	}
	first, last := points[0].Value, points[len(points)-1].Value
	if first == 0 {
		return 0, false
	}
	return (last - first) / first * 100, true
}

// MaxValue returns the largest point value, 0 for an empty series.
func MaxValue(points []Point) float64 {
	var max float64
	for _, p := range points {
		if p.Value > max {
			max = p.Value
		}
	}
	return max
}
