// internal/selection/sink.go - Measurement presentation sink
package selection

import (
	"fmt"
	"io"

	"github.com/danielsivyer4567/parcelmeter/internal/geom"
)

// Sink receives computed measurements for display. Passing nil means
// "show idle state". The concrete application backs this with an info
// panel; this package only promises a well-formed summary or an explicit
// cleared state.
type Sink interface {
	Display(summary *geom.BoundarySummary)
}

// TextSink renders summaries as plain text, one block per display call
type TextSink struct {
	w io.Writer
}

// NewTextSink creates a sink writing to w
func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

// Display writes the summary, or the idle message for nil
func (s *TextSink) Display(summary *geom.BoundarySummary) {
	if summary == nil {
		fmt.Fprintln(s.w, "Click a parcel to see details.")
		return
	}

	fmt.Fprintf(s.w, "Area: %.2f m²\n", summary.AreaSquareMeters)
	fmt.Fprintf(s.w, "Perimeter: %.2f m\n", summary.PerimeterMeters)
	fmt.Fprintln(s.w, "Edges:")
	for i, edge := range summary.Edges {
		fmt.Fprintf(s.w, "  Side %d: %.1f m\n", i+1, edge.LengthMeters)
	}
}
