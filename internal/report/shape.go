package report

import (
	"strings"

	"github.com/unidoc/garabic"
	"golang.org/x/text/unicode/bidi"
)

// visualRTL turns one line of right-to-left text from logical order into the
// left-to-right glyph order gopdf draws. Arabic runs get their joined
// presentation forms and are reversed; numbers and Latin words embedded in
// them keep their reading order.
func visualRTL(line string) string {
	var p bidi.Paragraph
	if _, err := p.SetString(line, bidi.DefaultDirection(bidi.RightToLeft)); err != nil {
		return line
	}
	o, err := p.Order()
	if err != nil || o.NumRuns() == 0 {
		return line
	}

	// Runs come back in logical order; the paragraph level is right to left,
	// so the visual line is the runs taken last to first.
	var b strings.Builder
	b.Grow(len(line))
	for i := o.NumRuns() - 1; i >= 0; i-- {
		run := o.Run(i)
		text := run.String()
		if run.Direction() == bidi.RightToLeft {
			text = bidi.ReverseString(garabic.Shape(text))
		}
		b.WriteString(text)
	}
	return b.String()
}
