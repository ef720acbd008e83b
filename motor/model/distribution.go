package model

// Distribution approximates the spread of a metric as a list of buckets in
// increasing order of End.
type Distribution struct {
	Buckets []Bucket `json:"buckets"`
}

// Bucket counts the observations in (previous bucket End, End].
type Bucket struct {
	// End is the inclusive upper bound of the bucket.
	End float64 `json:"end"`

	// Count is the number of observations that fell in the bucket.
	Count int64 `json:"count"`
}

// Total is the number of observations across all buckets.
func (d Distribution) Total() int64 {
	var total int64
	for _, b := range d.Buckets {
		total += b.Count
	}
	return total
}

// MaxCount is the largest single bucket count, used to scale bar charts.
func (d Distribution) MaxCount() int64 {
	var max int64
	for _, b := range d.Buckets {
		if b.Count > max {
			max = b.Count
		}
	}
	return max
}
