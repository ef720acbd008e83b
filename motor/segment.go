package motor

// workRange is a contiguous range of sessions handed to one worker
type workRange struct {
	startIndex int // inclusive start
	endIndex   int // exclusive end (go range convention)
}

// createWorkRanges splits total items into min(parts, total) contiguous ranges
// whose sizes differ by at most one. The first total%parts ranges get the
// extra item.
func createWorkRanges(total, parts int) []workRange {
	if total <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if parts > total {
		parts = total
	}

	size := total / parts
	extra := total % parts

	ranges := make([]workRange, 0, parts)
	start := 0
	for i := 0; i < parts; i++ {
		end := start + size
		if i < extra {
			end++
		}
		ranges = append(ranges, workRange{startIndex: start, endIndex: end})
		start = end
	}
	return ranges
}

// SegmentSequences partitions items into exactly min(n, len(items)) ordered,
// contiguous, non-empty chunks whose lengths differ by at most one. n <= 1
// yields a single chunk and an empty input yields no chunks. Concatenating
// the chunks gives back the input, so results computed per chunk can be
// reassembled without tracking indices. The chunks share the input's
// backing array.
func SegmentSequences[T any](items []T, n int) [][]T {
	ranges := createWorkRanges(len(items), n)
	chunks := make([][]T, 0, len(ranges))
	for _, r := range ranges {
		chunks = append(chunks, items[r.startIndex:r.endIndex:r.endIndex])
	}
	return chunks
}
