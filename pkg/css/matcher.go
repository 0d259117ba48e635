package css

import (
	"strings"

	"vellum/pkg/html"
)

// MatchesSelector returns true if node matches selector. Compound selectors
// (multiple parts joined by combinators) are matched right-to-left: the last
// part must match node itself, then each combinator walks outward (ancestor,
// parent, or preceding sibling) looking for a part match.
func MatchesSelector(node *html.Node, selector Selector) bool {
	if node.Type != html.ElementNode {
		return false
	}

	if len(selector.Parts) == 0 {
		return false
	}

	last := len(selector.Parts) - 1
	if !matchesPart(node, selector.Parts[last]) {
		return false
	}

	cur := node
	for i := last - 1; i >= 0; i-- {
		comb := selector.Combinators[i]
		part := selector.Parts[i]
		switch comb {
		case ChildCombinator:
			parent := cur.Parent
			if parent == nil || !matchesPart(parent, part) {
				return false
			}
			cur = parent
		case DescendantCombinator:
			found := findAncestorMatch(cur.Parent, part)
			if found == nil {
				return false
			}
			cur = found
		case AdjacentSiblingCombinator:
			prev := precedingSibling(cur)
			if prev == nil || !matchesPart(prev, part) {
				return false
			}
			cur = prev
		case GeneralSiblingCombinator:
			found := findPrecedingSiblingMatch(cur, part)
			if found == nil {
				return false
			}
			cur = found
		}
	}

	return true
}

// findAncestorMatch walks up the ancestor chain starting at node looking for
// the first ancestor matching part.
func findAncestorMatch(node *html.Node, part SelectorPart) *html.Node {
	for n := node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && matchesPart(n, part) {
			return n
		}
	}
	return nil
}

// precedingSibling returns the element immediately before node among its
// parent's children, skipping non-element nodes.
func precedingSibling(node *html.Node) *html.Node {
	if node.Parent == nil {
		return nil
	}
	siblings := node.Parent.Children
	idx := -1
	for i, s := range siblings {
		if s == node {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return nil
	}
	for i := idx - 1; i >= 0; i-- {
		if siblings[i].Type == html.ElementNode {
			return siblings[i]
		}
	}
	return nil
}

// findPrecedingSiblingMatch scans every preceding sibling of node (not just
// the immediate one) looking for a part match, for the "~" combinator.
func findPrecedingSiblingMatch(node *html.Node, part SelectorPart) *html.Node {
	if node.Parent == nil {
		return nil
	}
	siblings := node.Parent.Children
	idx := -1
	for i, s := range siblings {
		if s == node {
			idx = i
			break
		}
	}
	for i := idx - 1; i >= 0; i-- {
		if siblings[i].Type == html.ElementNode && matchesPart(siblings[i], part) {
			return siblings[i]
		}
	}
	return nil
}

// matchesPart reports whether node satisfies a single compound selector
// part: element name, id, every class, every attribute selector. Pseudo-
// classes never match — this renderer has no interaction state (:hover,
// :focus, :active, :visited all describe transient UI state it doesn't
// track), so a part naming any pseudo-class always fails.
func matchesPart(node *html.Node, part SelectorPart) bool {
	if len(part.PseudoClasses) > 0 {
		return false
	}

	if part.Element != "" && part.Element != "*" && node.TagName != part.Element {
		return false
	}

	if part.ID != "" {
		id, ok := node.GetAttribute("id")
		if !ok || id != part.ID {
			return false
		}
	}

	if len(part.Classes) > 0 {
		classAttr, _ := node.GetAttribute("class")
		nodeClasses := strings.Fields(classAttr)
		for _, want := range part.Classes {
			found := false
			for _, have := range nodeClasses {
				if have == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}

	for _, attr := range part.Attributes {
		if !matchesAttributeSelector(node, attr) {
			return false
		}
	}

	return true
}

// matchesAttributeSelector implements the six attribute-selector operators.
func matchesAttributeSelector(node *html.Node, attr AttributeSelector) bool {
	val, ok := node.GetAttribute(attr.Name)
	if !ok {
		return false
	}

	switch attr.Operator {
	case "":
		return true
	case "=":
		return val == attr.Value
	case "^=":
		return attr.Value != "" && strings.HasPrefix(val, attr.Value)
	case "$=":
		return attr.Value != "" && strings.HasSuffix(val, attr.Value)
	case "*=":
		return attr.Value != "" && strings.Contains(val, attr.Value)
	case "~=":
		for _, word := range strings.Fields(val) {
			if word == attr.Value {
				return true
			}
		}
		return false
	case "|=":
		return val == attr.Value || strings.HasPrefix(val, attr.Value+"-")
	}
	return false
}

// FindMatchingRules returns every rule in stylesheet whose selector matches
// node and whose media query (if any) matches the viewport dimensions.
func FindMatchingRules(node *html.Node, stylesheet *Stylesheet, viewportWidth, viewportHeight float64) []Rule {
	matches := make([]Rule, 0)

	for _, rule := range stylesheet.Rules {
		if rule.MediaQuery != nil && !EvaluateMediaQuery(rule.MediaQuery, viewportWidth, viewportHeight) {
			continue
		}
		if MatchesSelector(node, rule.Selector) {
			matches = append(matches, rule)
		}
	}

	return matches
}
