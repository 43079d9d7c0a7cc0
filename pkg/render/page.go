package render

import (
	"encoding/json"
	"fmt"
	"html"
	"io"

	"github.com/hatchet-dev/console/pkg/view"
)

// DefaultClientScript is the path of the navigation client.
const DefaultClientScript = "/static/console.js"

// Page contains all data needed to render a complete HTML document.
type Page struct {
	// Title is the document title.
	Title string

	// Lang is the html lang attribute. Default: "en".
	Lang string

	// Meta contains meta tags for the head.
	Meta []MetaTag

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Body is the rendered route view. A nil body renders an empty
	// mount point.
	Body *view.VNode

	// Boot is serialized for the client script. Nil skips the bootstrap
	// and the client script.
	Boot *Boot

	// ClientScript is the client script path. Default: DefaultClientScript.
	ClientScript string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name    string
	Content string
}

// Boot is the state the client needs to take over navigation.
type Boot struct {
	// Navigation is the ID of the server-side resolution.
	Navigation string `json:"navigation"`

	// Href is the resolved location, including the basename.
	Href string `json:"href"`

	// Basename is the mount prefix of the console.
	Basename string `json:"basename,omitempty"`

	// Socket is the path of the navigation WebSocket.
	Socket string `json:"socket"`

	// Status is the resolution status ("ok", "not_found", "error").
	Status string `json:"status"`
}

// WritePage renders a complete HTML document to w.
func WritePage(w io.Writer, page Page) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n", html.EscapeString(lang)); err != nil {
		return err
	}
	if err := writeHead(w, page); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "<body>\n<div id=\"console\">"); err != nil {
		return err
	}
	if page.Body != nil {
		if err := view.Render(w, page.Body); err != nil {
			return fmt.Errorf("render body: %w", err)
		}
	}
	if _, err := io.WriteString(w, "</div>\n"); err != nil {
		return err
	}

	if page.Boot != nil {
		if err := writeBoot(w, page); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}

func writeHead(w io.Writer, page Page) error {
	if _, err := io.WriteString(w, "<head>\n"+
		`  <meta charset="utf-8">`+"\n"+
		`  <meta name="viewport" content="width=device-width, initial-scale=1">`+"\n"); err != nil {
		return err
	}
	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", html.EscapeString(page.Title)); err != nil {
			return err
		}
	}
	for _, meta := range page.Meta {
		if _, err := fmt.Fprintf(w, "  <meta name=\"%s\" content=\"%s\">\n",
			html.EscapeString(meta.Name), html.EscapeString(meta.Content)); err != nil {
			return err
		}
	}
	for _, href := range page.StyleSheets {
		if _, err := fmt.Fprintf(w, "  <link rel=\"stylesheet\" href=\"%s\">\n", html.EscapeString(href)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</head>\n")
	return err
}

// writeBoot injects the bootstrap state and the client script.
func writeBoot(w io.Writer, page Page) error {
	data, err := json.Marshal(page.Boot)
	if err != nil {
		return fmt.Errorf("marshal boot state: %w", err)
	}
	// json.Marshal escapes <, > and & so the payload cannot close the tag.
	if _, err := fmt.Fprintf(w, "  <script>window.__CONSOLE__=%s;</script>\n", data); err != nil {
		return err
	}

	src := page.ClientScript
	if src == "" {
		src = DefaultClientScript
	}
	_, err = fmt.Fprintf(w, "  <script src=\"%s\" defer></script>\n", html.EscapeString(src))
	return err
}
