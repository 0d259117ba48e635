package css

import (
	"strconv"
	"strings"
)

// Flexbox and grid alignment/placement getters. These round out the
// property registry for the flex and grid layout algorithms; each mirrors
// the Get*/enum-type pattern already used for position, float and display.

type FlexDirection string

const (
	FlexDirectionRow           FlexDirection = "row"
	FlexDirectionRowReverse    FlexDirection = "row-reverse"
	FlexDirectionColumn        FlexDirection = "column"
	FlexDirectionColumnReverse FlexDirection = "column-reverse"
)

func (s *Style) GetFlexDirection() FlexDirection {
	if v, ok := s.Get("flex-direction"); ok {
		switch v {
		case "row-reverse":
			return FlexDirectionRowReverse
		case "column":
			return FlexDirectionColumn
		case "column-reverse":
			return FlexDirectionColumnReverse
		}
	}
	return FlexDirectionRow
}

type FlexWrap string

const (
	FlexWrapNowrap      FlexWrap = "nowrap"
	FlexWrapWrap        FlexWrap = "wrap"
	FlexWrapWrapReverse FlexWrap = "wrap-reverse"
)

func (s *Style) GetFlexWrap() FlexWrap {
	if v, ok := s.Get("flex-wrap"); ok {
		switch v {
		case "wrap":
			return FlexWrapWrap
		case "wrap-reverse":
			return FlexWrapWrapReverse
		}
	}
	return FlexWrapNowrap
}

// GetFlexGrow returns the flex-grow factor (default: 0).
func (s *Style) GetFlexGrow() float64 {
	if v, ok := s.Get("flex-grow"); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return 0
}

// GetFlexShrink returns the flex-shrink factor (default: 1).
func (s *Style) GetFlexShrink() float64 {
	if v, ok := s.Get("flex-shrink"); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return 1
}

// GetOrder returns the order value (default: 0).
func (s *Style) GetOrder() int {
	if v, ok := s.Get("order"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}

// FlexBasisValue is the parsed form of flex-basis: either auto, a
// percentage resolved against the flex container's main size, a calc()
// expression needing that same basis, or an absolute length.
type FlexBasisValue struct {
	IsAuto     bool
	IsPercent  bool
	IsCalc     bool
	Percentage float64
	Length     float64
	raw        string
	emSize     float64
}

// GetFlexBasisValue parses flex-basis, including calc() expressions
// against the item's own font size (percentages, and the percentage term
// inside calc(), are resolved later against the container's main size via
// Resolve).
func (s *Style) GetFlexBasisValue() FlexBasisValue {
	v, ok := s.Get("flex-basis")
	if !ok || strings.TrimSpace(v) == "auto" {
		return FlexBasisValue{IsAuto: true}
	}
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "calc(") && strings.HasSuffix(v, ")") {
		return FlexBasisValue{IsCalc: true, raw: v, emSize: s.GetFontSize()}
	}
	if pct, ok := ParsePercentage(v); ok {
		return FlexBasisValue{IsPercent: true, Percentage: pct}
	}
	if length, ok := ParseLengthWithFontSize(v, s.GetFontSize()); ok {
		return FlexBasisValue{Length: length}
	}
	return FlexBasisValue{IsAuto: true}
}

// Resolve turns a parsed flex-basis into pixels against the flex
// container's main size (mainSize is the calc()/percentage basis).
func (v FlexBasisValue) Resolve(mainSize float64) float64 {
	switch {
	case v.IsCalc:
		resolved, err := ParseLengthCtx(v.raw, ResolutionContext{Basis: mainSize, EmSize: v.emSize, RemSize: 16})
		if err != nil {
			return 0
		}
		return resolved
	case v.IsPercent:
		return mainSize * v.Percentage / 100
	default:
		return v.Length
	}
}

type JustifyContent string

const (
	JustifyContentFlexStart    JustifyContent = "flex-start"
	JustifyContentFlexEnd      JustifyContent = "flex-end"
	JustifyContentCenter       JustifyContent = "center"
	JustifyContentSpaceBetween JustifyContent = "space-between"
	JustifyContentSpaceAround  JustifyContent = "space-around"
	JustifyContentSpaceEvenly  JustifyContent = "space-evenly"
)

func (s *Style) GetJustifyContent() JustifyContent {
	if v, ok := s.Get("justify-content"); ok {
		switch v {
		case "flex-end":
			return JustifyContentFlexEnd
		case "center":
			return JustifyContentCenter
		case "space-between":
			return JustifyContentSpaceBetween
		case "space-around":
			return JustifyContentSpaceAround
		case "space-evenly":
			return JustifyContentSpaceEvenly
		}
	}
	return JustifyContentFlexStart
}

type AlignItems string

const (
	AlignItemsFlexStart AlignItems = "flex-start"
	AlignItemsFlexEnd   AlignItems = "flex-end"
	AlignItemsCenter    AlignItems = "center"
	AlignItemsStretch   AlignItems = "stretch"
	AlignItemsBaseline  AlignItems = "baseline"
)

func (s *Style) GetAlignItems() AlignItems {
	if v, ok := s.Get("align-items"); ok {
		switch v {
		case "flex-start":
			return AlignItemsFlexStart
		case "flex-end":
			return AlignItemsFlexEnd
		case "center":
			return AlignItemsCenter
		case "baseline":
			return AlignItemsBaseline
		}
	}
	return AlignItemsStretch
}

type AlignSelf string

const (
	AlignSelfAuto      AlignSelf = "auto"
	AlignSelfFlexStart AlignSelf = "flex-start"
	AlignSelfFlexEnd   AlignSelf = "flex-end"
	AlignSelfCenter    AlignSelf = "center"
	AlignSelfStretch   AlignSelf = "stretch"
	AlignSelfBaseline  AlignSelf = "baseline"
)

func (s *Style) GetAlignSelf() AlignSelf {
	if v, ok := s.Get("align-self"); ok {
		switch v {
		case "flex-start":
			return AlignSelfFlexStart
		case "flex-end":
			return AlignSelfFlexEnd
		case "center":
			return AlignSelfCenter
		case "stretch":
			return AlignSelfStretch
		case "baseline":
			return AlignSelfBaseline
		}
	}
	return AlignSelfAuto
}

type AlignContent string

const (
	AlignContentFlexStart    AlignContent = "flex-start"
	AlignContentFlexEnd      AlignContent = "flex-end"
	AlignContentCenter       AlignContent = "center"
	AlignContentStretch      AlignContent = "stretch"
	AlignContentSpaceBetween AlignContent = "space-between"
	AlignContentSpaceAround  AlignContent = "space-around"
)

func (s *Style) GetAlignContent() AlignContent {
	if v, ok := s.Get("align-content"); ok {
		switch v {
		case "flex-start":
			return AlignContentFlexStart
		case "flex-end":
			return AlignContentFlexEnd
		case "center":
			return AlignContentCenter
		case "space-between":
			return AlignContentSpaceBetween
		case "space-around":
			return AlignContentSpaceAround
		}
	}
	return AlignContentStretch
}

type JustifyItems string

const (
	JustifyItemsStart   JustifyItems = "start"
	JustifyItemsCenter  JustifyItems = "center"
	JustifyItemsEnd     JustifyItems = "end"
	JustifyItemsStretch JustifyItems = "stretch"
)

func (s *Style) GetJustifyItems() JustifyItems {
	if v, ok := s.Get("justify-items"); ok {
		switch v {
		case "center":
			return JustifyItemsCenter
		case "end":
			return JustifyItemsEnd
		case "start":
			return JustifyItemsStart
		}
	}
	return JustifyItemsStretch
}

// GetMaxWidth returns the max-width length, if set to anything but "none".
func (s *Style) GetMaxWidth() (float64, bool) {
	v, ok := s.Get("max-width")
	if !ok || strings.TrimSpace(v) == "none" {
		return 0, false
	}
	return s.GetLength("max-width")
}

// GridTrack is a single resolved grid-template track size in pixels.
type GridTrack struct {
	Size float64
}

// GetGridTemplateColumns parses grid-template-columns into resolved
// track sizes. "1fr" tracks are not apportioned here (no free-space pass);
// unresolvable tracks default to 0 so item placement still proceeds.
func (s *Style) GetGridTemplateColumns() []GridTrack {
	return parseGridTracks(s, "grid-template-columns")
}

func (s *Style) GetGridTemplateRows() []GridTrack {
	return parseGridTracks(s, "grid-template-rows")
}

func parseGridTracks(s *Style, property string) []GridTrack {
	v, ok := s.Get(property)
	if !ok {
		return nil
	}
	fields := strings.Fields(v)
	tracks := make([]GridTrack, 0, len(fields))
	for _, f := range fields {
		if length, ok := ParseLengthWithFontSize(f, s.GetFontSize()); ok {
			tracks = append(tracks, GridTrack{Size: length})
			continue
		}
		tracks = append(tracks, GridTrack{Size: 0})
	}
	return tracks
}

// GetGridGap returns the row gap and column gap in pixels.
func (s *Style) GetGridGap() (rowGap, columnGap float64) {
	if v, ok := s.Get("grid-gap"); ok {
		fields := strings.Fields(v)
		if len(fields) >= 1 {
			if g, ok := ParseLengthWithFontSize(fields[0], s.GetFontSize()); ok {
				rowGap = g
				columnGap = g
			}
		}
		if len(fields) >= 2 {
			if g, ok := ParseLengthWithFontSize(fields[1], s.GetFontSize()); ok {
				columnGap = g
			}
		}
	}
	if v, ok := s.Get("row-gap"); ok {
		if g, ok := ParseLengthWithFontSize(v, s.GetFontSize()); ok {
			rowGap = g
		}
	}
	if v, ok := s.Get("column-gap"); ok {
		if g, ok := ParseLengthWithFontSize(v, s.GetFontSize()); ok {
			columnGap = g
		}
	}
	return rowGap, columnGap
}

// GridLine is a resolved grid-column/grid-row placement ("2 / 4" style).
type GridLine struct {
	Start int
	End   int
}

func (s *Style) GetGridColumn() *GridLine {
	return parseGridLine(s, "grid-column")
}

func (s *Style) GetGridRow() *GridLine {
	return parseGridLine(s, "grid-row")
}

func parseGridLine(s *Style, property string) *GridLine {
	v, ok := s.Get(property)
	if !ok {
		return nil
	}
	parts := strings.Split(v, "/")
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil
	}
	end := start + 1
	if len(parts) > 1 {
		if e, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			end = e
		}
	}
	return &GridLine{Start: start, End: end}
}
