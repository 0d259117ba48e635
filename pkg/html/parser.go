package html

import (
	"fmt"
	"strings"
)

type Parser struct {
	tokenizer *Tokenizer
	doc       *Document
	stack     []*Node // Phase 2: Stack for tracking nested elements
}

func NewParser(html string) *Parser {
	return &Parser{
		tokenizer: NewTokenizer(html),
		doc:       NewDocument(),
	}
}

func (p *Parser) Parse() (*Document, error) {
	// Phase 2: Initialize stack with root node
	p.stack = []*Node{p.doc.Root}

	for {
		token, err := p.tokenizer.NextToken()
		if err != nil {
			return nil, fmt.Errorf("tokenizer error: %w", err)
		}
		if token.Type == TokenEOF {
			break
		}

		switch token.Type {
		case TokenStartTag:
			// <style>/<script> content is raw text, not markup: capture it
			// verbatim and keep it out of the DOM tree entirely.
			if token.TagName == "style" || token.TagName == "script" {
				raw, err := p.tokenizer.ReadRawTextUntilEndTag(token.TagName)
				if err != nil {
					return nil, fmt.Errorf("parsing <%s>: %w", token.TagName, err)
				}
				raw = strings.TrimSpace(raw)
				if token.TagName == "style" {
					p.doc.Stylesheets = append(p.doc.Stylesheets, raw)
				} else {
					p.doc.Scripts = append(p.doc.Scripts, raw)
				}
				continue
			}

			// Create new element node
			node := &Node{
				Type:       ElementNode,
				TagName:    token.TagName,
				Attributes: token.Attributes,
				Children:   make([]*Node, 0),
			}

			// Add to current parent (top of stack)
			parent := p.currentParent()
			parent.AddChild(node)

			// Check if this is a self-closing/void element
			if !p.isSelfClosing(token.TagName) {
				// Push onto stack to become new parent
				p.push(node)
			}

		case TokenText:
			// Add text to current parent
			if token.Text != "" {
				parent := p.currentParent()
				parent.AppendText(token.Text)
			}

		case TokenEndTag:
			// Pop from stack (close current element)
			if len(p.stack) > 1 {
				p.pop()
			}
		}
	}

	return p.doc, nil
}

// currentParent returns the current parent node (top of stack)
func (p *Parser) currentParent() *Node {
	if len(p.stack) == 0 {
		return p.doc.Root
	}
	return p.stack[len(p.stack)-1]
}

// push adds a node to the stack
func (p *Parser) push(node *Node) {
	p.stack = append(p.stack, node)
}

// pop removes the top node from the stack
func (p *Parser) pop() *Node {
	if len(p.stack) == 0 {
		return nil
	}
	node := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	return node
}

// isSelfClosing returns true for void/self-closing HTML elements
func (p *Parser) isSelfClosing(tagName string) bool {
	selfClosingTags := map[string]bool{
		"br": true, "hr": true, "img": true, "input": true,
		"meta": true, "link": true, "area": true, "base": true,
		"col": true, "embed": true, "param": true, "source": true,
		"track": true, "wbr": true,
	}
	return selfClosingTags[tagName]
}

func Parse(html string) (*Document, error) {
	parser := NewParser(html)
	return parser.Parse()
}
