package css

import (
	"math"
	"strconv"
	"strings"
)

// Transform is one function in a `transform` property value list:
// translate/rotate/scale/skew, carrying already-unit-resolved numeric
// arguments (rotate in radians, translate in pixels, scale unitless).
type Transform struct {
	Type   string // "translate", "rotate", "scale", "skew"
	Values []float64
}

// GetTransforms parses the `transform` property into an ordered list of
// Transform functions, applied left-to-right by the renderer.
func (s *Style) GetTransforms() []Transform {
	val, ok := s.Get("transform")
	if !ok {
		return nil
	}
	val = strings.TrimSpace(val)
	if val == "" || val == "none" {
		return nil
	}

	var out []Transform
	for _, fn := range splitTransformFunctions(val) {
		fn = strings.TrimSpace(fn)
		open := strings.Index(fn, "(")
		if open < 0 || !strings.HasSuffix(fn, ")") {
			continue
		}
		name := strings.TrimSpace(fn[:open])
		argsStr := fn[open+1 : len(fn)-1]
		args := strings.Split(argsStr, ",")

		switch name {
		case "translate", "translateX", "translateY":
			vals := parseTransformLengths(args)
			if name == "translateX" {
				out = append(out, Transform{Type: "translate", Values: []float64{firstOr(vals, 0), 0}})
			} else if name == "translateY" {
				out = append(out, Transform{Type: "translate", Values: []float64{0, firstOr(vals, 0)}})
			} else {
				out = append(out, Transform{Type: "translate", Values: padTo(vals, 2)})
			}
		case "rotate":
			out = append(out, Transform{Type: "rotate", Values: []float64{parseAngle(strings.TrimSpace(argsStr))}})
		case "scale", "scaleX", "scaleY":
			vals := parseTransformNumbers(args)
			if name == "scaleX" {
				out = append(out, Transform{Type: "scale", Values: []float64{firstOr(vals, 1), 1}})
			} else if name == "scaleY" {
				out = append(out, Transform{Type: "scale", Values: []float64{1, firstOr(vals, 1)}})
			} else {
				if len(vals) == 1 {
					vals = append(vals, vals[0])
				}
				out = append(out, Transform{Type: "scale", Values: padToDefault(vals, 2, 1)})
			}
		case "skew", "skewX", "skewY":
			out = append(out, Transform{Type: "skew", Values: parseTransformAngles(args)})
		}
	}
	return out
}

// TransformOrigin is the fractional (0..1) pivot point transforms rotate/
// scale around within the box, per the `transform-origin` property.
type TransformOrigin struct {
	X, Y float64
}

// GetTransformOrigin returns the transform origin, defaulting to the box
// center (50% 50%) per the CSS spec's initial value.
func (s *Style) GetTransformOrigin() TransformOrigin {
	val, ok := s.Get("transform-origin")
	if !ok || strings.TrimSpace(val) == "" {
		return TransformOrigin{X: 0.5, Y: 0.5}
	}
	parts := strings.Fields(val)
	origin := TransformOrigin{X: 0.5, Y: 0.5}
	if len(parts) >= 1 {
		origin.X = parseOriginComponent(parts[0], 0.5)
	}
	if len(parts) >= 2 {
		origin.Y = parseOriginComponent(parts[1], 0.5)
	}
	return origin
}

func parseOriginComponent(tok string, fallback float64) float64 {
	switch tok {
	case "left", "top":
		return 0
	case "center":
		return 0.5
	case "right", "bottom":
		return 1
	}
	if strings.HasSuffix(tok, "%") {
		n, err := strconv.ParseFloat(strings.TrimSuffix(tok, "%"), 64)
		if err != nil {
			return fallback
		}
		return n / 100.0
	}
	return fallback
}

// splitTransformFunctions splits "translate(1,2) rotate(3deg)" into its
// individual function calls, respecting parens so commas inside a call
// don't get mistaken for function separators.
func splitTransformFunctions(val string) []string {
	var out []string
	depth := 0
	start := 0
	for i, ch := range val {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				out = append(out, val[start:i+1])
				start = i + 1
			}
		}
	}
	return out
}

func parseTransformNumbers(args []string) []float64 {
	out := make([]float64, 0, len(args))
	for _, a := range args {
		a = strings.TrimSpace(a)
		n, err := strconv.ParseFloat(a, 64)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

func parseTransformLengths(args []string) []float64 {
	out := make([]float64, 0, len(args))
	for _, a := range args {
		a = strings.TrimSpace(a)
		a = strings.TrimSuffix(a, "px")
		n, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

func parseTransformAngles(args []string) []float64 {
	out := make([]float64, 0, len(args))
	for _, a := range args {
		out = append(out, parseAngle(strings.TrimSpace(a)))
	}
	return out
}

func parseAngle(s string) float64 {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasSuffix(s, "deg"):
		n, err := strconv.ParseFloat(strings.TrimSuffix(s, "deg"), 64)
		if err != nil {
			return 0
		}
		return n * math.Pi / 180.0
	case strings.HasSuffix(s, "rad"):
		n, err := strconv.ParseFloat(strings.TrimSuffix(s, "rad"), 64)
		if err != nil {
			return 0
		}
		return n
	case strings.HasSuffix(s, "turn"):
		n, err := strconv.ParseFloat(strings.TrimSuffix(s, "turn"), 64)
		if err != nil {
			return 0
		}
		return n * 2 * math.Pi
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}

func firstOr(vals []float64, fallback float64) float64 {
	if len(vals) == 0 {
		return fallback
	}
	return vals[0]
}

func padTo(vals []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, vals)
	return out
}

func padToDefault(vals []float64, n int, fill float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = fill
	}
	copy(out, vals)
	return out
}
