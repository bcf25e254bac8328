package virtual

// computeRange returns the index window to mount for the given scroll
// offset and viewport size, expanded by overscan on both sides and clamped
// to [0, count]. A zero viewport yields an empty range.
func computeRange(offset, viewport float64, ext *extents, overscan int) Range {
	count := ext.len()
	if count == 0 || viewport <= 0 {
		return Range{}
	}
	offset = max(offset, 0)

	// first item whose bottom edge is below the offset
	start := ext.lowerBound(offset)

	// first item whose top edge is at or below the viewport bottom
	limit := offset + viewport
	end := start
	top := ext.prefix(start)
	for end < count && top < limit {
		top += ext.value(end)
		end++
	}

	return Range{
		Start: max(0, start-overscan),
		End:   min(count, end+overscan),
	}
}
