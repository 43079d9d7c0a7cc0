package view

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Render writes a node tree as HTML.
func Render(w io.Writer, node *VNode) error {
	if node == nil {
		return nil
	}
	switch node.Kind {
	case KindText:
		_, err := io.WriteString(w, escapeHTML(node.Text))
		return err
	case KindRaw:
		_, err := io.WriteString(w, node.Text)
		return err
	case KindFragment:
		return renderChildren(w, node)
	case KindElement:
		return renderElement(w, node)
	default:
		return fmt.Errorf("view: unknown node kind %d", node.Kind)
	}
}

// RenderString renders a node tree to a string.
func RenderString(node *VNode) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderElement(w io.Writer, node *VNode) error {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(node.Tag)

	keys := make([]string, 0, len(node.Attrs))
	for k := range node.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		if v := node.Attrs[k]; v != "" {
			b.WriteString(`="`)
			b.WriteString(escapeAttr(v))
			b.WriteByte('"')
		}
	}
	b.WriteByte('>')
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	if voidElements[node.Tag] {
		return nil
	}
	if err := renderChildren(w, node); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</"+node.Tag+">")
	return err
}

func renderChildren(w io.Writer, node *VNode) error {
	for _, c := range node.Children {
		if err := Render(w, c); err != nil {
			return err
		}
	}
	return nil
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

var (
	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)
)

func escapeHTML(s string) string { return htmlEscaper.Replace(s) }

func escapeAttr(s string) string { return attrEscaper.Replace(s) }
