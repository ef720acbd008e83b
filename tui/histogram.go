package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pb33f/pfesim/motor/model"
)

// formatEnd renders a bucket bound for the histogram label column
type formatEnd func(float64) string

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBytes(v float64) string {
	return humanize.Bytes(uint64(max(v, 0)))
}

// RenderDistribution draws one horizontal bar per non-empty bucket, scaled
// against the fullest bucket. Leading and trailing empty buckets are dropped.
func RenderDistribution(title string, d model.Distribution, width int, label formatEnd) string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyleBase.Render(title))
	b.WriteString("\n")

	first, last := -1, -1
	for i, bucket := range d.Buckets {
		if bucket.Count > 0 {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		b.WriteString(emptyValueText)
		b.WriteString("\n")
		return b.String()
	}

	labels := make([]string, 0, last-first+1)
	labelWidth := 0
	for _, bucket := range d.Buckets[first : last+1] {
		l := "<= " + label(bucket.End)
		labels = append(labels, l)
		labelWidth = max(labelWidth, len(l))
	}

	peak := d.MaxCount()
	countWidth := len(strconv.FormatInt(peak, 10))
	barWidth := width - labelWidth - countWidth - 3
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	for i, bucket := range d.Buckets[first : last+1] {
		n := int(bucket.Count * int64(barWidth) / peak)
		if n == 0 && bucket.Count > 0 {
			n = 1
		}
		fmt.Fprintf(&b, "%s %s %*d\n",
			keyStyleBase.Width(labelWidth).Render(labels[i]),
			StyleBar.Render(strings.Repeat("█", n))+strings.Repeat(" ", barWidth-n),
			countWidth, bucket.Count)
	}
	return b.String()
}

// renderNetworkHistograms draws every per page view distribution of a result
func renderNetworkHistograms(n *model.NetworkResult, width int) string {
	return strings.Join([]string{
		RenderDistribution("Wait per page view (ms)", n.WaitPerPageViewMs, width, formatCount),
		RenderDistribution("Cost per page view", n.CostPerPageView, width, formatCount),
		RenderDistribution("Sent per page view", n.RequestBytesPerPageView, width, formatBytes),
		RenderDistribution("Received per page view", n.ResponseBytesPerPageView, width, formatBytes),
	}, "\n")
}
