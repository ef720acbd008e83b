package motor

import (
	"fmt"
	"strings"
)

// MalformedGraphError is returned when a request graph references a request that
// does not exist, declares the same request twice, or contains a dependency cycle.
type MalformedGraphError struct {
	GraphID   string
	RequestID string
	Reason    string
	Cycle     []string // request ids forming the cycle, first id repeated at the end
}

func (e *MalformedGraphError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "malformed request graph %q", e.GraphID)
	if e.RequestID != "" {
		fmt.Fprintf(&b, " at request %q", e.RequestID)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if len(e.Cycle) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Cycle, " -> "))
		b.WriteString(")")
	}
	return b.String()
}

// MisalignedBatchError is returned when the variants of one network category
// were simulated over a different number of sequences.
type MisalignedBatchError struct {
	Category string
	Variant  string
	Expected int
	Got      int
}

func (e *MisalignedBatchError) Error() string {
	return fmt.Sprintf("network category %q: variant %q has %d sequences, expected %d",
		e.Category, e.Variant, e.Got, e.Expected)
}

// UnknownVariantError is returned when a network variant has no entry in the weight table.
type UnknownVariantError struct {
	Category string
	Variant  string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("network category %q: no weight configured for variant %q", e.Category, e.Variant)
}
