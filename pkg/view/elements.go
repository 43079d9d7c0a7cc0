package view

// El creates an element node. Nil children are skipped.
func El(tag string, attrs Attrs, children ...*VNode) *VNode {
	n := &VNode{Kind: KindElement, Tag: tag, Attrs: attrs}
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Text creates an escaped text node.
func Text(s string) *VNode {
	return &VNode{Kind: KindText, Text: s}
}

// Raw creates a node whose HTML is written without escaping.
func Raw(html string) *VNode {
	return &VNode{Kind: KindRaw, Text: html}
}

// Fragment groups children without a wrapping element.
func Fragment(children ...*VNode) *VNode {
	n := El("", nil, children...)
	n.Kind = KindFragment
	return n
}

func Div(attrs Attrs, children ...*VNode) *VNode     { return El("div", attrs, children...) }
func Main(attrs Attrs, children ...*VNode) *VNode    { return El("main", attrs, children...) }
func Nav(attrs Attrs, children ...*VNode) *VNode     { return El("nav", attrs, children...) }
func Header(attrs Attrs, children ...*VNode) *VNode  { return El("header", attrs, children...) }
func Section(attrs Attrs, children ...*VNode) *VNode { return El("section", attrs, children...) }
func H1(attrs Attrs, children ...*VNode) *VNode      { return El("h1", attrs, children...) }
func H2(attrs Attrs, children ...*VNode) *VNode      { return El("h2", attrs, children...) }
func P(attrs Attrs, children ...*VNode) *VNode       { return El("p", attrs, children...) }
func Span(attrs Attrs, children ...*VNode) *VNode    { return El("span", attrs, children...) }
func Ul(attrs Attrs, children ...*VNode) *VNode      { return El("ul", attrs, children...) }
func Li(attrs Attrs, children ...*VNode) *VNode      { return El("li", attrs, children...) }
func Form(attrs Attrs, children ...*VNode) *VNode    { return El("form", attrs, children...) }
func Button(attrs Attrs, children ...*VNode) *VNode  { return El("button", attrs, children...) }

// Input creates a void <input> element.
func Input(attrs Attrs) *VNode { return El("input", attrs) }

// A creates a link. Links carry data-link so the client script routes them
// over the navigation socket instead of a full page load.
func A(href string, children ...*VNode) *VNode {
	return El("a", Attrs{"href": href, "data-link": ""}, children...)
}
