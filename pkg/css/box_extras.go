package css

import "strings"

// Remaining box-model and content getters needed by the layout solver's
// table, overflow, list-marker and generated-content handling.

type BorderCollapse string

const (
	BorderCollapseSeparate BorderCollapse = "separate"
	BorderCollapseCollapse BorderCollapse = "collapse"
)

func (s *Style) GetBorderCollapse() BorderCollapse {
	if v, ok := s.Get("border-collapse"); ok && v == "collapse" {
		return BorderCollapseCollapse
	}
	return BorderCollapseSeparate
}

// GetBorderSpacing returns the border-spacing length in pixels (default 0,
// only meaningful under border-collapse: separate).
func (s *Style) GetBorderSpacing() float64 {
	v, ok := s.Get("border-spacing")
	if !ok {
		return 0
	}
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return 0
	}
	if length, ok := ParseLengthWithFontSize(fields[0], s.GetFontSize()); ok {
		return length
	}
	return 0
}

type OverflowType string

const (
	OverflowVisible OverflowType = "visible"
	OverflowHidden  OverflowType = "hidden"
	OverflowScroll  OverflowType = "scroll"
	OverflowAuto    OverflowType = "auto"
)

func (s *Style) GetOverflow() OverflowType {
	if v, ok := s.Get("overflow"); ok {
		switch v {
		case "hidden":
			return OverflowHidden
		case "scroll":
			return OverflowScroll
		case "auto":
			return OverflowAuto
		}
	}
	return OverflowVisible
}

type WhiteSpace string

const (
	WhiteSpaceNormal  WhiteSpace = "normal"
	WhiteSpaceNowrap  WhiteSpace = "nowrap"
	WhiteSpacePre     WhiteSpace = "pre"
	WhiteSpacePreWrap WhiteSpace = "pre-wrap"
	WhiteSpacePreLine WhiteSpace = "pre-line"
)

func (s *Style) GetWhiteSpace() WhiteSpace {
	if v, ok := s.Get("white-space"); ok {
		switch v {
		case "nowrap":
			return WhiteSpaceNowrap
		case "pre":
			return WhiteSpacePre
		case "pre-wrap":
			return WhiteSpacePreWrap
		case "pre-line":
			return WhiteSpacePreLine
		}
	}
	return WhiteSpaceNormal
}

type ListStyleType string

const (
	ListStyleTypeDisc    ListStyleType = "disc"
	ListStyleTypeCircle  ListStyleType = "circle"
	ListStyleTypeSquare  ListStyleType = "square"
	ListStyleTypeDecimal ListStyleType = "decimal"
	ListStyleTypeNone    ListStyleType = "none"
)

func (s *Style) GetListStyleType() ListStyleType {
	if v, ok := s.Get("list-style-type"); ok {
		switch v {
		case "circle":
			return ListStyleTypeCircle
		case "square":
			return ListStyleTypeSquare
		case "decimal":
			return ListStyleTypeDecimal
		case "none":
			return ListStyleTypeNone
		}
	}
	return ListStyleTypeDisc
}

// ContentValue is one token of a parsed `content` property value: a text
// literal, an image url(), a counter() reference, an attr() reference, or
// an open-quote/close-quote marker.
type ContentValue struct {
	Type  string
	Value string
}

// GetContentValues parses the `content` property into its component
// tokens. Returns ok=false if the property is absent or "none"/"normal".
func (s *Style) GetContentValues() ([]ContentValue, bool) {
	raw, ok := s.Get("content")
	if !ok {
		return nil, false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "none" || raw == "normal" {
		return nil, false
	}

	var values []ContentValue
	i := 0
	for i < len(raw) {
		c := raw[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '"' || c == '\'':
			quote := c
			j := i + 1
			for j < len(raw) && raw[j] != quote {
				j++
			}
			values = append(values, ContentValue{Type: "text", Value: raw[i+1 : j]})
			i = j + 1
		case strings.HasPrefix(raw[i:], "url("):
			end := strings.IndexByte(raw[i:], ')')
			if end == -1 {
				i = len(raw)
				break
			}
			inner := strings.Trim(raw[i+4:i+end], "\"' ")
			values = append(values, ContentValue{Type: "url", Value: inner})
			i += end + 1
		case strings.HasPrefix(raw[i:], "counter("):
			end := strings.IndexByte(raw[i:], ')')
			if end == -1 {
				i = len(raw)
				break
			}
			inner := strings.TrimSpace(raw[i+8 : i+end])
			name := inner
			if idx := strings.IndexByte(inner, ','); idx != -1 {
				name = strings.TrimSpace(inner[:idx])
			}
			values = append(values, ContentValue{Type: "counter", Value: name})
			i += end + 1
		case strings.HasPrefix(raw[i:], "attr("):
			end := strings.IndexByte(raw[i:], ')')
			if end == -1 {
				i = len(raw)
				break
			}
			inner := strings.TrimSpace(raw[i+5 : i+end])
			values = append(values, ContentValue{Type: "attr", Value: inner})
			i += end + 1
		case strings.HasPrefix(raw[i:], "open-quote"):
			values = append(values, ContentValue{Type: "open-quote"})
			i += len("open-quote")
		case strings.HasPrefix(raw[i:], "close-quote"):
			values = append(values, ContentValue{Type: "close-quote"})
			i += len("close-quote")
		default:
			i++
		}
	}
	return values, len(values) > 0
}
