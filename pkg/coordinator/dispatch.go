package coordinator

import "vellum/pkg/html"

// Dispatch runs event through target's own listeners and then through each
// ancestor's, walking target-to-root. There is no capture phase: the node
// model has no capture-registered listeners and no root-to-target walk is
// made. Any listener returning true (prevent_default) stops the default
// action from being applied by the caller, but dispatch itself always runs
// every listener for the event's filter at each node — callbacks, not
// dispatch, decide whether to keep propagating by convention elsewhere in
// this node model (there is no stopPropagation primitive in html.Callback).
func Dispatch(target *html.Node, event html.Event) (preventDefault bool) {
	if target == nil {
		return false
	}

	var chain []*html.Node
	for n := target; n != nil; n = n.Parent {
		chain = append(chain, n)
	}

	// Bubble: target first, then ancestors, matches chain's order already.
	for _, n := range chain {
		for _, cb := range n.Callbacks[event.Filter] {
			if cb(n, event) {
				preventDefault = true
			}
		}
	}
	return preventDefault
}
