package text

import "golang.org/x/text/unicode/bidi"

// Direction is the resolved reading direction of a bidi run.
type Direction int

const (
	DirLTR Direction = iota
	DirRTL
)

// Run is a contiguous visual run produced by the Unicode Bidirectional
// Algorithm: a maximal span of paragraph text sharing one embedding level,
// tagged with the script/language carried forward from the source text run
// so Stage 2 (shaping) can pick a face without re-deriving either.
type Run struct {
	Text      string
	Start     int // byte offset in the paragraph this run's text begins at
	End       int
	Level     int
	Direction Direction
	Script    string
	Language  string
}

// ResolveBidi runs the UBA (via golang.org/x/text/unicode/bidi) over a
// paragraph's logical text and returns its visual runs in display order.
// Script and Language are left for the caller to fill in per run (they are
// not part of the bidi algorithm itself).
func ResolveBidi(paragraph string) ([]Run, error) {
	if paragraph == "" {
		return nil, nil
	}
	var p bidi.Paragraph
	if _, err := p.SetString(paragraph); err != nil {
		return nil, err
	}
	ordering, err := p.Order()
	if err != nil {
		return nil, err
	}
	runs := make([]Run, 0, ordering.NumRuns())
	offset := 0
	for i := 0; i < ordering.NumRuns(); i++ {
		r := ordering.Run(i)
		s := r.String()
		dir := DirLTR
		level := 0
		if r.Direction() == bidi.RightToLeft {
			dir = DirRTL
			level = 1
		}
		runs = append(runs, Run{
			Text:      s,
			Start:     offset,
			End:       offset + len(s),
			Level:     level,
			Direction: dir,
		})
		offset += len(s)
	}
	return runs, nil
}

// IsRTL reports whether r reads right-to-left.
func (r Run) IsRTL() bool { return r.Direction == DirRTL }
