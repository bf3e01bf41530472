package report

const defaultFullMark = 100

// Bar is a radar axis projected onto a horizontal bar of a given width.
type Bar struct {
	Subject string
	Value   int
	Max     int
	// Filled is the number of cells out of the bar width that represent Value.
	Filled int
	Ratio  float64
}

// Radar turns radar chart points into bars of width cells. Values are clamped to
// [0, FullMark]; a non-positive FullMark is treated as 100.
func Radar(points []RadarPoint, width int) []Bar {
	if width < 0 {
		width = 0
	}

	bars := make([]Bar, 0, len(points))
	for _, p := range points {
		limit := p.FullMark
		if limit <= 0 {
			limit = defaultFullMark
		}

		value := min(max(p.A, 0), limit)
		ratio := float64(value) / float64(limit)

		bars = append(bars, Bar{
			Subject: p.Subject,
			Value:   value,
			Max:     limit,
			Filled:  int(ratio*float64(width) + 0.5),
			Ratio:   ratio,
		})
	}

	return bars
}

// Score projects a 0-100 match score onto width cells.
func Score(score, width int) int {
	bars := Radar([]RadarPoint{{A: score, FullMark: defaultFullMark}}, width)
	return bars[0].Filled
}
