package viewport

// Scale maps value from [domainMin, domainMax] to [rangeMin, rangeMax] and
// truncates toward zero. Values outside the domain extrapolate. A
// degenerate domain yields the truncated midpoint of the range.
func Scale(value, domainMin, domainMax, rangeMin, rangeMax float64) int {
	return int(ScaleFloat(value, domainMin, domainMax, rangeMin, rangeMax))
}

// ScaleFloat is Scale without truncation.
func ScaleFloat(value, domainMin, domainMax, rangeMin, rangeMax float64) float64 {
	if domainMax == domainMin {
		return rangeMin + (rangeMax-rangeMin)/2
	}
	normalized := (value - domainMin) / (domainMax - domainMin)
	return rangeMin + (rangeMax-rangeMin)*normalized
}
